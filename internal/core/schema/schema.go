// Package schema owns the canonical CSV column set for ledger shards and
// the reconciliation of historical layouts onto it.
//
// The column set has grown over the ledger's lifetime: the first layout was
// Type,Timestamp,Date,Time; task label columns arrived later, in two
// batches. Reconciliation is forward-only: a canonical column missing from
// an old header defaults to empty, and a column absent from the canonical
// set is dropped on the next rewrite.
package schema

import "strings"

const (
	ColType      = "Type"
	ColTimestamp = "Timestamp"
	ColDate      = "Date"
	ColTime      = "Time"
	ColNotes     = "Notes"
)

// TaskLabels is the canonical task label set, in column order. Append-only:
// new labels go at the end so older shards reconcile cleanly.
var TaskLabels = []string{"Exercise", "Reading", "Meditation", "Writing", "Coding"}

// taskMark is the value written for a completed task column.
const taskMark = "x"

// Header returns the canonical column list.
func Header() []string {
	header := make([]string, 0, 5+len(TaskLabels))
	header = append(header, ColType, ColTimestamp, ColDate, ColTime)
	header = append(header, TaskLabels...)
	header = append(header, ColNotes)
	return header
}

// Row is one ledger row with every canonical column materialized.
type Row struct {
	Type      string
	Timestamp string
	Date      string
	Time      string
	// Tasks is keyed by canonical label; labels the row does not mark are
	// simply absent.
	Tasks map[string]bool
	Notes string
}

// Reconcile maps a record read under an arbitrary historical header onto the
// canonical column set. Canonical columns missing from the header default to
// empty; header columns outside the canonical set are dropped. Records
// shorter than their header (trailing columns trimmed by old writers) are
// padded with empties.
func Reconcile(header []string, record []string) Row {
	byName := make(map[string]string, len(header))
	for i, name := range header {
		value := ""
		if i < len(record) {
			value = record[i]
		}
		byName[strings.TrimSpace(name)] = value
	}

	row := Row{
		Type:      byName[ColType],
		Timestamp: byName[ColTimestamp],
		Date:      byName[ColDate],
		Time:      byName[ColTime],
		Notes:     byName[ColNotes],
		Tasks:     make(map[string]bool, len(TaskLabels)),
	}
	for _, label := range TaskLabels {
		if marked(byName[label]) {
			row.Tasks[label] = true
		}
	}
	return row
}

// marked reports whether a task column value counts as completed. Historical
// writers used both cases of the mark.
func marked(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), taskMark)
}

// Record renders the row under the canonical header.
func (r Row) Record() []string {
	record := make([]string, 0, 5+len(TaskLabels))
	record = append(record, r.Type, r.Timestamp, r.Date, r.Time)
	for _, label := range TaskLabels {
		if r.Tasks[label] {
			record = append(record, taskMark)
		} else {
			record = append(record, "")
		}
	}
	record = append(record, r.Notes)
	return record
}

// TaskList returns the row's completed labels in canonical column order.
func (r Row) TaskList() []string {
	tasks := make([]string, 0, len(r.Tasks))
	for _, label := range TaskLabels {
		if r.Tasks[label] {
			tasks = append(tasks, label)
		}
	}
	return tasks
}

// KnownLabel reports whether name is part of the canonical label set.
func KnownLabel(name string) bool {
	for _, label := range TaskLabels {
		if label == name {
			return true
		}
	}
	return false
}
