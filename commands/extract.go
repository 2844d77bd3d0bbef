package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clarkeh/go-time-ledger/internal/migrate"
	"github.com/clarkeh/go-time-ledger/internal/util"
)

var (
	extractFile  string
	extractMonth string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Move one month's entries out of a ledger file into its own shard",
	Long: `Partitions a ledger file into entries belonging to the target
reference-zone month versus everything else. Matching entries are written to
the month's shard file next to the source; the source is rewritten with the
remainder. Unparseable rows stay in the source. A backup is taken first.`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVar(&extractFile, "file", "", "Ledger CSV file to partition")
	extractCmd.Flags().StringVar(&extractMonth, "month", "", "Target month as YYYY-MM")
	extractCmd.MarkFlagRequired("file")
	extractCmd.MarkFlagRequired("month")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	loc, err := util.LoadReferenceZone(cfg.Timezone)
	if err != nil {
		return err
	}

	target, err := time.Parse("2006-01", extractMonth)
	if err != nil {
		return fmt.Errorf("invalid --month %q, expected YYYY-MM: %w", extractMonth, err)
	}

	summary, err := migrate.ExtractMonth(expandPath(extractFile), target.Year(), target.Month(), loc)
	if err != nil {
		return err
	}

	fmt.Printf("Backup: %s\n", summary.BackupPath)
	if summary.DestPath != "" {
		fmt.Printf("Extracted %d entries -> %s\n", summary.Extracted, summary.DestPath)
	} else {
		fmt.Printf("No entries found for %s\n", extractMonth)
	}
	fmt.Printf("Remaining in source: %d (%d unparseable kept)\n", summary.Remaining, summary.KeptUnparseable)
	return nil
}
