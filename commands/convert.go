package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clarkeh/go-time-ledger/internal/migrate"
	"github.com/clarkeh/go-time-ledger/internal/util"
)

var convertFile string

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Rewrite a ledger file's timestamps into the reference timezone",
	Long: `Re-normalizes every timestamp in a ledger file (old UTC rows with a
trailing Z, offset-suffixed rows, naive local rows) into the reference
timezone and rewrites the file in place under the current column layout.
A backup copy is written next to the source first. Safe to run twice.`,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVar(&convertFile, "file", "", "Ledger CSV file to convert")
	convertCmd.MarkFlagRequired("file")
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	loc, err := util.LoadReferenceZone(cfg.Timezone)
	if err != nil {
		return err
	}

	summary, err := migrate.Convert(expandPath(convertFile), loc)
	if err != nil {
		return err
	}

	fmt.Printf("Backup: %s\n", summary.BackupPath)
	fmt.Printf("Converted %d entries (%d kept unparseable)\n", summary.Converted, summary.Skipped)
	if len(summary.PerDate) > 0 {
		fmt.Println("Entries by date:")
		for _, count := range summary.PerDate {
			fmt.Printf("  %s: %d\n", count.Date, count.Count)
		}
	}
	return nil
}
