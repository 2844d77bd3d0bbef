// Package ledger implements the append-only session ledger: ordered typed
// events per calendar day, with elapsed-time aggregation over START/END
// pairs and note deduplication on the write path.
package ledger

import (
	"sort"
	"strings"
	"time"

	"github.com/clarkeh/go-time-ledger/internal/core/model"
	"github.com/clarkeh/go-time-ledger/internal/core/schema"
	"github.com/clarkeh/go-time-ledger/internal/core/timeparse"
	"github.com/clarkeh/go-time-ledger/internal/data/store"
	"github.com/clarkeh/go-time-ledger/internal/util"
)

// ShardStore is the storage surface the ledger needs: whole-shard reads and
// whole-shard rewrites.
type ShardStore interface {
	Load(shard string) ([]schema.Row, error)
	Save(shard string, rows []schema.Row) error
}

// Ledger reads and appends events across monthly shards.
type Ledger struct {
	store ShardStore
	loc   *time.Location
}

func New(st ShardStore, loc *time.Location) *Ledger {
	return &Ledger{store: st, loc: loc}
}

// EntriesForDay returns all events of the given calendar day in insertion
// order. Storage failures degrade to an empty result; unparseable rows are
// skipped. History must never block data entry.
func (l *Ledger) EntriesForDay(day time.Time) []model.Event {
	shard := store.ShardFor(day, l.loc)
	rows, err := l.store.Load(shard)
	if err != nil {
		util.LogWarn("degrading to empty day", util.F("shard", shard), util.F("error", err.Error()))
		return nil
	}

	date := timeparse.DateOf(day, l.loc)
	var events []model.Event
	for i, row := range rows {
		ev, ok := l.eventFromRow(shard, i, row)
		if !ok {
			continue
		}
		if timeparse.DateOf(ev.Instant, l.loc) == date {
			events = append(events, ev)
		}
	}
	return events
}

// DailyTotals aggregates tracked time for the last lastN calendar days
// ending at today, oldest day first. Days with no activity report zero.
//
// Pairing is strictly per-day: a session spanning midnight contributes
// nothing to either day.
func (l *Ledger) DailyTotals(lastN int, today time.Time) []model.DayTotal {
	byDay := make(map[string][]model.Event, lastN)
	loaded := make(map[string]bool)

	totals := make([]model.DayTotal, 0, lastN)
	for i := lastN - 1; i >= 0; i-- {
		day := today.In(l.loc).AddDate(0, 0, -i)
		date := timeparse.DateOf(day, l.loc)

		shard := store.ShardFor(day, l.loc)
		if !loaded[shard] {
			loaded[shard] = true
			l.collectShard(shard, byDay)
		}

		totals = append(totals, model.DayTotal{
			Date:    date,
			Total:   sumDay(date, byDay[date]),
			IsToday: i == 0,
		})
	}
	return totals
}

// collectShard loads one shard and buckets its parseable events by date.
// Storage failures degrade to no events for that shard.
func (l *Ledger) collectShard(shard string, byDay map[string][]model.Event) {
	rows, err := l.store.Load(shard)
	if err != nil {
		util.LogWarn("skipping unreadable shard", util.F("shard", shard), util.F("error", err.Error()))
		return
	}
	for i, row := range rows {
		ev, ok := l.eventFromRow(shard, i, row)
		if !ok {
			continue
		}
		date := timeparse.DateOf(ev.Instant, l.loc)
		byDay[date] = append(byDay[date], ev)
	}
}

// sumDay pairs chronologically sorted START/END events within one day and
// sums the elapsed time of completed pairs. CHECK rows never participate.
func sumDay(date string, events []model.Event) time.Duration {
	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Instant.Before(sorted[j].Instant)
	})

	var total time.Duration
	var open *model.Event
	for i := range sorted {
		ev := sorted[i]
		switch ev.Type {
		case model.EventStart:
			if open != nil {
				// Two STARTs in a row; keep the first, ignore the repeat.
				util.LogWarn("duplicate START ignored", util.F("date", date),
					util.F("at", timeparse.Format(ev.Instant, ev.Instant.Location())))
				continue
			}
			open = &sorted[i]
		case model.EventEnd:
			if open == nil {
				util.LogWarn("orphan END event", util.F("date", date),
					util.F("at", timeparse.Format(ev.Instant, ev.Instant.Location())))
				continue
			}
			total += ev.Instant.Sub(open.Instant)
			open = nil
		}
	}
	// An unterminated trailing START contributes nothing.
	return total
}

// Append normalizes, reconciles and persists one event. The whole shard is
// rewritten so note deduplication can clear superseded prior rows. Any
// failure leaves the shard untouched.
func (l *Ledger) Append(ev model.Event) error {
	shard := store.ShardFor(ev.Instant, l.loc)
	existing, err := l.store.Load(shard)
	if err != nil {
		return err
	}

	rows := make([]schema.Row, len(existing))
	copy(rows, existing)

	row := l.rowFromEvent(ev)
	if ev.Type == model.EventEnd && row.Notes != "" {
		dedupeNote(rows, &row)
	}
	rows = append(rows, row)

	return l.store.Save(shard, rows)
}

// dedupeNote applies the note supersession rules against prior rows:
// an identical note already stored anywhere in the shard is not stored
// again, and a same-day prior note that is a prefix of the new note is
// cleared because the new note extends it.
func dedupeNote(rows []schema.Row, row *schema.Row) {
	for i := range rows {
		if rows[i].Notes == row.Notes {
			row.Notes = ""
			return
		}
	}
	for i := range rows {
		if rows[i].Date != row.Date || rows[i].Notes == "" {
			continue
		}
		if strings.HasPrefix(row.Notes, rows[i].Notes) {
			rows[i].Notes = ""
		}
	}
}

// rowFromEvent renders an event onto the canonical schema, materializing the
// derived Date and Time projections from the instant.
func (l *Ledger) rowFromEvent(ev model.Event) schema.Row {
	row := schema.Row{
		Type:      string(ev.Type),
		Timestamp: timeparse.Format(ev.Instant, l.loc),
		Date:      timeparse.DateOf(ev.Instant, l.loc),
		Time:      timeparse.ClockOf(ev.Instant, l.loc),
		Tasks:     make(map[string]bool, len(ev.Tasks)),
	}
	if ev.Type == model.EventEnd {
		row.Notes = ev.Note
		for _, label := range ev.Tasks {
			if schema.KnownLabel(label) {
				row.Tasks[label] = true
			}
		}
	}
	return row
}

// eventFromRow parses one stored row back into an event. A bad row is
// logged and dropped; historical data quality is not guaranteed.
func (l *Ledger) eventFromRow(shard string, index int, row schema.Row) (model.Event, bool) {
	typ := model.EventType(strings.ToUpper(strings.TrimSpace(row.Type)))
	if !typ.Valid() {
		util.LogWarn("skipping row with unknown type", util.F("shard", shard),
			util.F("row", index), util.F("type", row.Type))
		return model.Event{}, false
	}

	instant, err := timeparse.Normalize(row.Timestamp, l.loc)
	if err != nil {
		util.LogWarn("skipping unparseable row", util.F("shard", shard),
			util.F("row", index), util.F("error", err.Error()))
		return model.Event{}, false
	}

	ev := model.Event{Type: typ, Instant: instant}
	if typ == model.EventEnd {
		ev.Tasks = row.TaskList()
		ev.Note = row.Notes
	}
	return ev, true
}
