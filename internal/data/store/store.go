// Package store persists ledger shards: one CSV file per reference-zone
// calendar month. All writes follow the whole-file discipline — read
// everything, transform in memory, overwrite — so reconciliation and note
// deduplication always see the full row set.
package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/clarkeh/go-time-ledger/internal/core/schema"
	"github.com/clarkeh/go-time-ledger/internal/util"
)

// ErrShardIO wraps underlying storage read/write failures.
var ErrShardIO = errors.New("shard I/O failure")

// ShardFor returns the shard identifier for an instant, keyed by its
// reference-zone year and month. Pure function of the instant.
func ShardFor(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("Jan2006")
}

// FileName returns the on-disk file name for a shard identifier.
func FileName(shard string) string {
	return "time_tracker_" + shard + ".csv"
}

// Store reads and rewrites monthly shard files under a single data directory.
type Store struct {
	dataDir string
}

func New(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// Path returns the absolute path of a shard's CSV file.
func (s *Store) Path(shard string) string {
	return filepath.Join(s.dataDir, FileName(shard))
}

// Load reads all rows of a shard, reconciled onto the canonical schema.
// A missing file is an empty shard, not an error.
func (s *Store) Load(shard string) ([]schema.Row, error) {
	rows, err := ReadFile(s.Path(shard))
	if err != nil {
		return nil, err
	}
	util.LogDebug("shard loaded", util.F("shard", shard), util.F("rows", len(rows)))
	return rows, nil
}

// Save overwrites a shard with the given rows under the canonical header.
func (s *Store) Save(shard string, rows []schema.Row) error {
	if err := os.MkdirAll(s.dataDir, 0755); err != nil {
		return fmt.Errorf("%w: create data dir %s: %v", ErrShardIO, s.dataDir, err)
	}
	if err := WriteFile(s.Path(shard), rows); err != nil {
		return err
	}
	util.LogDebug("shard rewritten", util.F("shard", shard), util.F("rows", len(rows)))
	return nil
}

// ReadFile reads a ledger CSV at an arbitrary path, reconciling every record
// onto the canonical schema. A missing file yields no rows.
func ReadFile(path string) ([]schema.Row, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: open %s: %v", ErrShardIO, path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Historical layouts drift; tolerate ragged records.
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrShardIO, path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	rows := make([]schema.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		rows = append(rows, schema.Reconcile(header, record))
	}
	return rows, nil
}

// WriteFile overwrites a ledger CSV at an arbitrary path with the canonical
// header plus the given rows.
func WriteFile(path string, rows []schema.Row) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrShardIO, path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(schema.Header()); err != nil {
		return fmt.Errorf("%w: write header %s: %v", ErrShardIO, path, err)
	}
	for _, row := range rows {
		if err := writer.Write(row.Record()); err != nil {
			return fmt.Errorf("%w: write row %s: %v", ErrShardIO, path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: flush %s: %v", ErrShardIO, path, err)
	}
	return nil
}
