package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clarkeh/go-time-ledger/internal/core/ledger"
	"github.com/clarkeh/go-time-ledger/internal/core/model"
	"github.com/clarkeh/go-time-ledger/internal/data/store"
	"github.com/clarkeh/go-time-ledger/internal/presentation/formatter"
	"github.com/clarkeh/go-time-ledger/internal/util"
)

var (
	reportDays   int
	reportOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print daily tracked-time totals for the trailing window",
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().IntVar(&reportDays, "days", 6, "Number of trailing days")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "table",
		"Output format (table, csv)")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	loc, err := util.LoadReferenceZone(cfg.Timezone)
	if err != nil {
		return err
	}

	led := ledger.New(store.New(cfg.DataDir), loc)
	totals := led.DailyTotals(reportDays, time.Now().In(loc))

	var f interface {
		Format(totals []model.DayTotal) error
	}
	switch reportOutput {
	case "table":
		f = formatter.NewTableFormatter()
	case "csv":
		f = formatter.NewCSVFormatter()
	default:
		return fmt.Errorf("unknown output format: %s", reportOutput)
	}
	return f.Format(totals)
}
