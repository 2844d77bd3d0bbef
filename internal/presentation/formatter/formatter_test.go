package formatter

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clarkeh/go-time-ledger/internal/core/model"
)

func sampleTotals() []model.DayTotal {
	return []model.DayTotal{
		{Date: "2025-11-30", Total: 90 * time.Minute},
		{Date: "2025-12-01", Total: 0, IsToday: true},
	}
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &CSVFormatter{out: &buf}

	require.NoError(t, f.Format(sampleTotals()))

	assert.Equal(t,
		"Date,TotalMs,IsToday\n"+
			"2025-11-30,5400000,false\n"+
			"2025-12-01,0,true\n",
		buf.String())
}

func TestTableFormatterPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	f := &TableFormatter{
		out:     &buf,
		headers: []string{"Date", "Tracked", "Total (ms)"},
	}

	require.NoError(t, f.Format(sampleTotals()))

	out := buf.String()
	assert.Contains(t, out, "2025-11-30")
	assert.Contains(t, out, "1h 30m")
	assert.Contains(t, out, "5400000")
	assert.Contains(t, out, "2025-12-01 (today)")
	assert.Contains(t, out, "Total")
	// Not a terminal: no border lines.
	assert.NotContains(t, out, "---")
}
