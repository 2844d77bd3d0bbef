package migrate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clarkeh/go-time-ledger/internal/data/store"
)

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func writeLedger(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestConvert(t *testing.T) {
	loc := newYork(t)
	dir := t.TempDir()

	path := writeLedger(t, dir, "time_tracker.csv",
		"Type,Timestamp,Date,Time\n"+
			"START,2025-10-17T18:31:41.133Z,2025-10-17,18:31:41\n"+
			"END,2025-10-17T19:00:00.000Z,2025-10-17,19:00:00\n"+
			"START,garbage,,\n")

	summary, err := Convert(path, loc)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Converted)
	assert.Equal(t, 1, summary.Skipped)
	assert.FileExists(t, summary.BackupPath)

	rows, err := store.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// 18:31 UTC in October is 14:31 in New York (EDT).
	assert.Equal(t, "2025-10-17T14:31:41.133", rows[0].Timestamp)
	assert.Equal(t, "2025-10-17", rows[0].Date)
	assert.Equal(t, "14:31:41", rows[0].Time)
	assert.Equal(t, "2025-10-17T15:00:00.000", rows[1].Timestamp)

	// The unparseable row is kept untouched.
	assert.Equal(t, "garbage", rows[2].Timestamp)

	// Per-date summary counts the converted entries.
	require.Len(t, summary.PerDate, 1)
	assert.Equal(t, "2025-10-17", summary.PerDate[0].Date)
	assert.Equal(t, 2, summary.PerDate[0].Count)
}

func TestConvertIdempotent(t *testing.T) {
	loc := newYork(t)
	dir := t.TempDir()

	path := writeLedger(t, dir, "time_tracker.csv",
		"Type,Timestamp,Date,Time\n"+
			"START,2025-10-17T18:31:41.133Z,2025-10-17,18:31:41\n")

	_, err := Convert(path, loc)
	require.NoError(t, err)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = Convert(path, loc)
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestConvertMissingFile(t *testing.T) {
	loc := newYork(t)
	_, err := Convert(filepath.Join(t.TempDir(), "nope.csv"), loc)
	assert.Error(t, err)
}

func TestExtractMonth(t *testing.T) {
	loc := newYork(t)
	dir := t.TempDir()

	path := writeLedger(t, dir, "time_tracker.csv",
		"Type,Timestamp,Date,Time\n"+
			"START,2025-11-03T09:00:00.000,2025-11-03,09:00:00\n"+
			"END,2025-11-03T10:00:00.000,2025-11-03,10:00:00\n"+
			"START,2025-12-01T09:00:00.000,2025-12-01,09:00:00\n"+
			"END,broken,,\n")

	summary, err := ExtractMonth(path, 2025, time.November, loc)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Extracted)
	assert.Equal(t, 2, summary.Remaining)
	assert.Equal(t, 1, summary.KeptUnparseable)
	assert.FileExists(t, summary.BackupPath)
	assert.Equal(t, filepath.Join(dir, "time_tracker_Nov2025.csv"), summary.DestPath)

	extracted, err := store.ReadFile(summary.DestPath)
	require.NoError(t, err)
	require.Len(t, extracted, 2)
	assert.Equal(t, "2025-11-03", extracted[0].Date)

	remainder, err := store.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, remainder, 2)
	assert.Equal(t, "2025-12-01T09:00:00.000", remainder[0].Timestamp)
	assert.Equal(t, "broken", remainder[1].Timestamp)
}

func TestExtractMonthNoMatches(t *testing.T) {
	loc := newYork(t)
	dir := t.TempDir()

	path := writeLedger(t, dir, "time_tracker.csv",
		"Type,Timestamp,Date,Time\n"+
			"START,2025-12-01T09:00:00.000,2025-12-01,09:00:00\n")

	summary, err := ExtractMonth(path, 2024, time.March, loc)
	require.NoError(t, err)

	assert.Zero(t, summary.Extracted)
	assert.Empty(t, summary.DestPath)
	assert.Equal(t, 1, summary.Remaining)
	assert.NoFileExists(t, filepath.Join(dir, "time_tracker_Mar2024.csv"))
}

func TestExtractMonthLegacyUTCBoundary(t *testing.T) {
	loc := newYork(t)
	dir := t.TempDir()

	// Dec 1st 03:00 UTC is Nov 30th in New York; it belongs to November.
	path := writeLedger(t, dir, "time_tracker.csv",
		"Type,Timestamp,Date,Time\n"+
			"START,2025-12-01T03:00:00.000Z,2025-12-01,03:00:00\n")

	summary, err := ExtractMonth(path, 2025, time.November, loc)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Extracted)
	assert.Zero(t, summary.Remaining)
}
