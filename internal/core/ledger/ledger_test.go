package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clarkeh/go-time-ledger/internal/core/model"
	"github.com/clarkeh/go-time-ledger/internal/core/schema"
	"github.com/clarkeh/go-time-ledger/internal/core/timeparse"
)

// fakeStore is an in-memory ShardStore.
type fakeStore struct {
	shards  map[string][]schema.Row
	loadErr error
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{shards: make(map[string][]schema.Row)}
}

func (f *fakeStore) Load(shard string) ([]schema.Row, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.shards[shard], nil
}

func (f *fakeStore) Save(shard string, rows []schema.Row) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.shards[shard] = rows
	return nil
}

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func mustInstant(t *testing.T, s string, loc *time.Location) time.Time {
	t.Helper()
	instant, err := timeparse.Normalize(s, loc)
	require.NoError(t, err)
	return instant
}

func appendEvent(t *testing.T, l *Ledger, typ model.EventType, ts string, tasks []string, note string) {
	t.Helper()
	loc := l.loc
	err := l.Append(model.Event{
		Type:    typ,
		Instant: mustInstant(t, ts, loc),
		Tasks:   tasks,
		Note:    note,
	})
	require.NoError(t, err)
}

func TestDailyTotalsSinglePair(t *testing.T) {
	loc := newYork(t)
	l := New(newFakeStore(), loc)

	appendEvent(t, l, model.EventStart, "2025-12-01T09:00:00.000", nil, "")
	appendEvent(t, l, model.EventEnd, "2025-12-01T10:30:00.000", nil, "")

	today := mustInstant(t, "2025-12-01T20:00:00.000", loc)
	totals := l.DailyTotals(6, today)

	require.Len(t, totals, 6)
	assert.Equal(t, "2025-11-26", totals[0].Date)
	assert.Equal(t, "2025-12-01", totals[5].Date)
	assert.True(t, totals[5].IsToday)

	for i := 0; i < 5; i++ {
		assert.Zero(t, totals[i].Total, "day %s should be empty", totals[i].Date)
		assert.False(t, totals[i].IsToday)
	}
	assert.Equal(t, int64(5400000), totals[5].Total.Milliseconds())
}

func TestDailyTotalsOrphanEnd(t *testing.T) {
	loc := newYork(t)
	l := New(newFakeStore(), loc)

	appendEvent(t, l, model.EventEnd, "2025-12-01T10:30:00.000", nil, "")

	today := mustInstant(t, "2025-12-01T20:00:00.000", loc)
	totals := l.DailyTotals(1, today)

	require.Len(t, totals, 1)
	assert.Zero(t, totals[0].Total)
}

func TestDailyTotalsUnterminatedStart(t *testing.T) {
	loc := newYork(t)
	l := New(newFakeStore(), loc)

	appendEvent(t, l, model.EventStart, "2025-12-01T09:00:00.000", nil, "")
	appendEvent(t, l, model.EventEnd, "2025-12-01T10:00:00.000", nil, "")
	appendEvent(t, l, model.EventStart, "2025-12-01T11:00:00.000", nil, "")

	today := mustInstant(t, "2025-12-01T20:00:00.000", loc)
	totals := l.DailyTotals(1, today)

	require.Len(t, totals, 1)
	assert.Equal(t, int64(3600000), totals[0].Total.Milliseconds())
}

func TestDailyTotalsDuplicateStart(t *testing.T) {
	loc := newYork(t)
	l := New(newFakeStore(), loc)

	appendEvent(t, l, model.EventStart, "2025-12-01T09:00:00.000", nil, "")
	appendEvent(t, l, model.EventStart, "2025-12-01T09:30:00.000", nil, "")
	appendEvent(t, l, model.EventEnd, "2025-12-01T10:00:00.000", nil, "")

	today := mustInstant(t, "2025-12-01T20:00:00.000", loc)
	totals := l.DailyTotals(1, today)

	// The repeated START is the anomaly; the first one pairs.
	require.Len(t, totals, 1)
	assert.Equal(t, int64(3600000), totals[0].Total.Milliseconds())
}

func TestDailyTotalsMidnightSpanContributesNothing(t *testing.T) {
	loc := newYork(t)
	l := New(newFakeStore(), loc)

	appendEvent(t, l, model.EventStart, "2025-12-01T23:00:00.000", nil, "")
	appendEvent(t, l, model.EventEnd, "2025-12-02T01:00:00.000", nil, "")

	today := mustInstant(t, "2025-12-02T20:00:00.000", loc)
	totals := l.DailyTotals(2, today)

	require.Len(t, totals, 2)
	assert.Zero(t, totals[0].Total)
	assert.Zero(t, totals[1].Total)
}

func TestDailyTotalsSpansShards(t *testing.T) {
	loc := newYork(t)
	l := New(newFakeStore(), loc)

	appendEvent(t, l, model.EventStart, "2025-11-30T09:00:00.000", nil, "")
	appendEvent(t, l, model.EventEnd, "2025-11-30T09:30:00.000", nil, "")
	appendEvent(t, l, model.EventStart, "2025-12-01T09:00:00.000", nil, "")
	appendEvent(t, l, model.EventEnd, "2025-12-01T09:45:00.000", nil, "")

	today := mustInstant(t, "2025-12-01T20:00:00.000", loc)
	totals := l.DailyTotals(2, today)

	require.Len(t, totals, 2)
	assert.Equal(t, "2025-11-30", totals[0].Date)
	assert.Equal(t, int64(1800000), totals[0].Total.Milliseconds())
	assert.Equal(t, int64(2700000), totals[1].Total.Milliseconds())
}

func TestDailyTotalsDegradesOnStoreError(t *testing.T) {
	loc := newYork(t)
	st := newFakeStore()
	st.loadErr = errors.New("disk gone")
	l := New(st, loc)

	today := mustInstant(t, "2025-12-01T20:00:00.000", loc)
	totals := l.DailyTotals(3, today)

	require.Len(t, totals, 3)
	for _, total := range totals {
		assert.Zero(t, total.Total)
	}
}

func TestEntriesForDay(t *testing.T) {
	loc := newYork(t)
	l := New(newFakeStore(), loc)

	appendEvent(t, l, model.EventStart, "2025-12-01T09:00:00.000", nil, "")
	appendEvent(t, l, model.EventEnd, "2025-12-01T10:30:00.000",
		[]string{"Reading", "Coding"}, "read a chapter")
	appendEvent(t, l, model.EventStart, "2025-12-02T09:00:00.000", nil, "")

	day := mustInstant(t, "2025-12-01T12:00:00.000", loc)
	events := l.EntriesForDay(day)

	require.Len(t, events, 2)
	assert.Equal(t, model.EventStart, events[0].Type)
	assert.Nil(t, events[0].Tasks)

	assert.Equal(t, model.EventEnd, events[1].Type)
	assert.Equal(t, []string{"Reading", "Coding"}, events[1].Tasks)
	assert.Equal(t, "read a chapter", events[1].Note)
}

func TestEntriesForDayEndWithoutTasks(t *testing.T) {
	loc := newYork(t)
	l := New(newFakeStore(), loc)

	appendEvent(t, l, model.EventEnd, "2025-12-01T10:30:00.000", nil, "")

	day := mustInstant(t, "2025-12-01T12:00:00.000", loc)
	events := l.EntriesForDay(day)

	require.Len(t, events, 1)
	assert.NotNil(t, events[0].Tasks)
	assert.Empty(t, events[0].Tasks)
}

func TestEntriesForDaySkipsBadRows(t *testing.T) {
	loc := newYork(t)
	st := newFakeStore()
	st.shards["Dec2025"] = []schema.Row{
		{Type: "START", Timestamp: "not-a-date", Tasks: map[string]bool{}},
		{Type: "MYSTERY", Timestamp: "2025-12-01T09:00:00.000", Tasks: map[string]bool{}},
		{Type: "START", Timestamp: "2025-12-01T09:00:00.000", Tasks: map[string]bool{}},
	}
	l := New(st, loc)

	day := mustInstant(t, "2025-12-01T12:00:00.000", loc)
	events := l.EntriesForDay(day)

	require.Len(t, events, 1)
	assert.Equal(t, model.EventStart, events[0].Type)
}

func TestEntriesForDayReadsLegacyUTCRows(t *testing.T) {
	loc := newYork(t)
	st := newFakeStore()
	// 2025-12-01T14:00:00Z is 09:00 in New York.
	st.shards["Dec2025"] = []schema.Row{
		{Type: "START", Timestamp: "2025-12-01T14:00:00.000Z", Tasks: map[string]bool{}},
	}
	l := New(st, loc)

	day := mustInstant(t, "2025-12-01T12:00:00.000", loc)
	events := l.EntriesForDay(day)

	require.Len(t, events, 1)
	assert.Equal(t, "2025-12-01T09:00:00.000", timeparse.Format(events[0].Instant, loc))
}

func TestAppendWritesDerivedColumns(t *testing.T) {
	loc := newYork(t)
	st := newFakeStore()
	l := New(st, loc)

	appendEvent(t, l, model.EventStart, "2025-12-01T09:00:00.000", nil, "")

	rows := st.shards["Dec2025"]
	require.Len(t, rows, 1)
	assert.Equal(t, "START", rows[0].Type)
	assert.Equal(t, "2025-12-01T09:00:00.000", rows[0].Timestamp)
	assert.Equal(t, "2025-12-01", rows[0].Date)
	assert.Equal(t, "09:00:00", rows[0].Time)
}

func TestAppendIgnoresTasksOnStart(t *testing.T) {
	loc := newYork(t)
	st := newFakeStore()
	l := New(st, loc)

	appendEvent(t, l, model.EventStart, "2025-12-01T09:00:00.000", []string{"Reading"}, "ignored")

	rows := st.shards["Dec2025"]
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].Tasks)
	assert.Empty(t, rows[0].Notes)
}

func TestNoteDedupIdenticalNote(t *testing.T) {
	loc := newYork(t)
	st := newFakeStore()
	l := New(st, loc)

	appendEvent(t, l, model.EventEnd, "2025-12-01T10:00:00.000", nil, "wrote the intro")
	appendEvent(t, l, model.EventEnd, "2025-12-01T11:00:00.000", nil, "wrote the intro")

	rows := st.shards["Dec2025"]
	require.Len(t, rows, 2)

	var stored []string
	for _, row := range rows {
		if row.Notes != "" {
			stored = append(stored, row.Notes)
		}
	}
	assert.Equal(t, []string{"wrote the intro"}, stored)
}

func TestNoteDedupPrefixExtension(t *testing.T) {
	loc := newYork(t)
	st := newFakeStore()
	l := New(st, loc)

	appendEvent(t, l, model.EventEnd, "2025-12-01T10:00:00.000", nil, "wrote the")
	appendEvent(t, l, model.EventEnd, "2025-12-01T11:00:00.000", nil, "wrote the intro and outline")

	rows := st.shards["Dec2025"]
	require.Len(t, rows, 2)
	assert.Empty(t, rows[0].Notes, "superseded note must be cleared")
	assert.Equal(t, "wrote the intro and outline", rows[1].Notes)
}

func TestNoteDedupDifferentDaysUntouched(t *testing.T) {
	loc := newYork(t)
	st := newFakeStore()
	l := New(st, loc)

	appendEvent(t, l, model.EventEnd, "2025-12-01T10:00:00.000", nil, "wrote the")
	appendEvent(t, l, model.EventEnd, "2025-12-02T11:00:00.000", nil, "wrote the intro")

	rows := st.shards["Dec2025"]
	require.Len(t, rows, 2)
	assert.Equal(t, "wrote the", rows[0].Notes, "prefix rule only applies within one day")
	assert.Equal(t, "wrote the intro", rows[1].Notes)
}

func TestAppendFailsOnStoreError(t *testing.T) {
	loc := newYork(t)
	st := newFakeStore()
	st.loadErr = errors.New("permission denied")
	l := New(st, loc)

	err := l.Append(model.Event{
		Type:    model.EventStart,
		Instant: mustInstant(t, "2025-12-01T09:00:00.000", loc),
	})
	assert.Error(t, err)
}
