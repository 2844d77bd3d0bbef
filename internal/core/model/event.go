package model

import "time"

// EventType identifies the kind of a ledger row.
type EventType string

const (
	EventStart EventType = "START"
	EventEnd   EventType = "END"
	// EventCheck is a legacy row type; task flags on END rows superseded it.
	// Old shards still contain CHECK rows, so it stays readable.
	EventCheck EventType = "CHECK"
)

// Valid reports whether t is one of the recognized event types.
func (t EventType) Valid() bool {
	return t == EventStart || t == EventEnd || t == EventCheck
}

// Event is one entry in the session ledger, already normalized into the
// reference zone with millisecond precision.
type Event struct {
	Type    EventType
	Instant time.Time
	// Tasks holds the labels marked complete, in canonical column order.
	// Only meaningful on END events.
	Tasks []string
	// Note is free text attached to an END event.
	Note string
}

// DayTotal is the aggregated tracked duration for one calendar day.
type DayTotal struct {
	Date    string
	Total   time.Duration
	IsToday bool
}
