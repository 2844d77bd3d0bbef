package formatter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/clarkeh/go-time-ledger/internal/core/model"
)

// CSVFormatter writes daily totals as CSV.
type CSVFormatter struct {
	out io.Writer
}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{out: os.Stdout}
}

func (f *CSVFormatter) Format(totals []model.DayTotal) error {
	w := csv.NewWriter(f.out)
	defer w.Flush()

	if err := w.Write([]string{"Date", "TotalMs", "IsToday"}); err != nil {
		return err
	}
	for _, total := range totals {
		record := []string{
			total.Date,
			fmt.Sprintf("%d", total.Total.Milliseconds()),
			fmt.Sprintf("%t", total.IsToday),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Error()
}
