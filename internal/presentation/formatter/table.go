// Package formatter renders daily-totals reports for the report command.
package formatter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/clarkeh/go-time-ledger/internal/core/model"
	"github.com/clarkeh/go-time-ledger/internal/util"
)

// TableFormatter prints daily totals as an aligned table. Borders are drawn
// only when writing to a terminal; piped output gets plain rows.
type TableFormatter struct {
	out       io.Writer
	headers   []string
	decorated bool
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		out:       os.Stdout,
		headers:   []string{"Date", "Tracked", "Total (ms)"},
		decorated: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

func (f *TableFormatter) Format(totals []model.DayTotal) error {
	rows := make([][]string, 0, len(totals)+1)
	var grand int64
	for _, total := range totals {
		date := total.Date
		if total.IsToday {
			date += " (today)"
		}
		rows = append(rows, []string{
			date,
			util.FormatDuration(total.Total),
			fmt.Sprintf("%d", total.Total.Milliseconds()),
		})
		grand += total.Total.Milliseconds()
	}
	rows = append(rows, []string{"Total", "", fmt.Sprintf("%d", grand)})

	widths := f.columnWidths(rows)

	if f.decorated {
		f.printBorder(widths)
	}
	f.printRow(f.headers, widths)
	if f.decorated {
		f.printBorder(widths)
	}
	for i, row := range rows {
		if f.decorated && i == len(rows)-1 {
			f.printBorder(widths)
		}
		f.printRow(row, widths)
	}
	if f.decorated {
		f.printBorder(widths)
	}
	return nil
}

func (f *TableFormatter) columnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, header := range f.headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func (f *TableFormatter) printRow(cells []string, widths []int) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = cell + strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell))
	}
	fmt.Fprintln(f.out, "  "+strings.TrimRight(strings.Join(parts, "   "), " "))
}

func (f *TableFormatter) printBorder(widths []int) {
	total := 2
	for _, w := range widths {
		total += w + 3
	}
	fmt.Fprintln(f.out, strings.Repeat("-", total))
}
