// Package migrate holds the offline batch operations over ledger files: the
// one-time UTC-to-reference-zone conversion and the extraction of one
// month's entries into its own shard. Both take a backup copy first and
// rewrite the source whole.
package migrate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/clarkeh/go-time-ledger/internal/core/schema"
	"github.com/clarkeh/go-time-ledger/internal/core/timeparse"
	"github.com/clarkeh/go-time-ledger/internal/data/store"
	"github.com/clarkeh/go-time-ledger/internal/util"
)

// DateCount is the number of entries recorded on one date.
type DateCount struct {
	Date  string
	Count int
}

// ConvertSummary describes what a conversion run did.
type ConvertSummary struct {
	BackupPath string
	Converted  int
	Skipped    int
	PerDate    []DateCount
}

// ExtractSummary describes what an extraction run did.
type ExtractSummary struct {
	BackupPath      string
	DestPath        string
	Extracted       int
	Remaining       int
	KeptUnparseable int
}

// Convert re-normalizes every timestamp in the ledger file at path into the
// reference zone and rewrites the file in place under the canonical header.
// A backup copy is written first. Rows whose timestamp cannot be parsed are
// kept untouched and counted as skipped, so the run is safe to repeat.
func Convert(path string, loc *time.Location) (*ConvertSummary, error) {
	backup, err := backupFile(path)
	if err != nil {
		return nil, err
	}

	rows, err := store.ReadFile(path)
	if err != nil {
		return nil, err
	}

	summary := &ConvertSummary{BackupPath: backup}
	perDate := make(map[string]int)
	for i := range rows {
		instant, err := timeparse.Normalize(rows[i].Timestamp, loc)
		if err != nil {
			util.LogWarn("keeping unparseable row", util.F("row", i), util.F("error", err.Error()))
			summary.Skipped++
			continue
		}
		rows[i].Timestamp = timeparse.Format(instant, loc)
		rows[i].Date = timeparse.DateOf(instant, loc)
		rows[i].Time = timeparse.ClockOf(instant, loc)
		perDate[rows[i].Date]++
		summary.Converted++
	}

	if err := store.WriteFile(path, rows); err != nil {
		return nil, err
	}

	summary.PerDate = sortedCounts(perDate)
	return summary, nil
}

// ExtractMonth partitions the ledger file at path into entries of the given
// reference-zone month versus everything else. Matches move to the month's
// shard file next to the source; the source is rewritten with the
// remainder. Unparseable rows stay in the source.
func ExtractMonth(path string, year int, month time.Month, loc *time.Location) (*ExtractSummary, error) {
	backup, err := backupFile(path)
	if err != nil {
		return nil, err
	}

	rows, err := store.ReadFile(path)
	if err != nil {
		return nil, err
	}

	summary := &ExtractSummary{BackupPath: backup}
	var matched, remainder []schema.Row
	for i, row := range rows {
		instant, err := timeparse.Normalize(row.Timestamp, loc)
		if err != nil {
			util.LogWarn("keeping unparseable row in source", util.F("row", i), util.F("error", err.Error()))
			summary.KeptUnparseable++
			remainder = append(remainder, row)
			continue
		}
		local := instant.In(loc)
		if local.Year() == year && local.Month() == month {
			matched = append(matched, row)
		} else {
			remainder = append(remainder, row)
		}
	}

	if len(matched) > 0 {
		shard := store.ShardFor(time.Date(year, month, 1, 0, 0, 0, 0, loc), loc)
		dest := filepath.Join(filepath.Dir(path), store.FileName(shard))
		if err := store.WriteFile(dest, matched); err != nil {
			return nil, err
		}
		summary.DestPath = dest
	}

	if err := store.WriteFile(path, remainder); err != nil {
		return nil, err
	}

	summary.Extracted = len(matched)
	summary.Remaining = len(remainder)
	return summary, nil
}

// backupFile copies path to a sibling *_backup file before any rewrite.
func backupFile(path string) (string, error) {
	ext := filepath.Ext(path)
	backup := strings.TrimSuffix(path, ext) + "_backup" + ext

	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open source for backup: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(backup)
	if err != nil {
		return "", fmt.Errorf("create backup %s: %w", backup, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("copy backup %s: %w", backup, err)
	}
	return backup, nil
}

func sortedCounts(perDate map[string]int) []DateCount {
	counts := make([]DateCount, 0, len(perDate))
	for date, n := range perDate {
		counts = append(counts, DateCount{Date: date, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Date < counts[j].Date })
	return counts
}
