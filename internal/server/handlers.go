package server

import (
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"github.com/clarkeh/go-time-ledger/internal/core/model"
	"github.com/clarkeh/go-time-ledger/internal/core/timeparse"
	"github.com/clarkeh/go-time-ledger/internal/util"
)

// entryPayload is the save-event request body. The timestamp may be in any
// of the accepted formats; it is normalized before storage.
type entryPayload struct {
	Type      string   `json:"type"`
	Timestamp string   `json:"timestamp"`
	Tasks     []string `json:"tasks"`
	Note      string   `json:"note"`
}

// entryView is one event in the load-day response. Tasks is present (even
// when empty) only on END events.
type entryView struct {
	Type      string    `json:"type"`
	Timestamp string    `json:"timestamp"`
	Tasks     *[]string `json:"tasks,omitempty"`
	Note      string    `json:"note,omitempty"`
}

type dayView struct {
	Date            string `json:"date"`
	TotalDurationMs int64  `json:"total_duration_ms"`
	IsToday         bool   `json:"is_today"`
}

type saveResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// respond writes v as sonic-encoded JSON.
func respond(c *gin.Context, status int, v interface{}) {
	data, err := sonic.Marshal(v)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(status, "application/json; charset=utf-8", data)
}

// loadToday returns the current day's events in insertion order. Storage
// failures degrade to an empty list; the UI must never block data entry
// because history could not be read.
func (s *Server) loadToday(c *gin.Context) {
	events := s.ledger.EntriesForDay(s.now().In(s.loc))

	views := make([]entryView, 0, len(events))
	for _, ev := range events {
		view := entryView{
			Type:      string(ev.Type),
			Timestamp: timeparse.Format(ev.Instant, s.loc),
		}
		if ev.Type == model.EventEnd {
			tasks := ev.Tasks
			if tasks == nil {
				tasks = []string{}
			}
			view.Tasks = &tasks
			view.Note = ev.Note
		}
		views = append(views, view)
	}

	respond(c, http.StatusOK, gin.H{"entries": views})
}

// saveEntry normalizes and appends one event. Failures are fatal to this
// request only and leave the shard untouched.
func (s *Server) saveEntry(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respond(c, http.StatusBadRequest, saveResponse{Error: "unreadable request body"})
		return
	}

	var payload entryPayload
	if err := sonic.Unmarshal(body, &payload); err != nil {
		respond(c, http.StatusBadRequest, saveResponse{Error: "invalid JSON: " + err.Error()})
		return
	}

	typ := model.EventType(payload.Type)
	if !typ.Valid() {
		respond(c, http.StatusBadRequest, saveResponse{Error: "unknown event type: " + payload.Type})
		return
	}

	instant, err := timeparse.Normalize(payload.Timestamp, s.loc)
	if err != nil {
		respond(c, http.StatusBadRequest, saveResponse{Error: err.Error()})
		return
	}

	ev := model.Event{
		Type:    typ,
		Instant: instant,
		Tasks:   payload.Tasks,
		Note:    payload.Note,
	}
	if err := s.ledger.Append(ev); err != nil {
		util.LogError("save failed", util.F("error", err.Error()))
		respond(c, http.StatusInternalServerError, saveResponse{Error: err.Error()})
		return
	}

	respond(c, http.StatusOK, saveResponse{Success: true})
}

// loadHistory returns the daily totals for the configured trailing window,
// oldest day first.
func (s *Server) loadHistory(c *gin.Context) {
	totals := s.ledger.DailyTotals(s.historyDays, s.now().In(s.loc))

	views := make([]dayView, 0, len(totals))
	for _, total := range totals {
		views = append(views, dayView{
			Date:            total.Date,
			TotalDurationMs: total.Total.Milliseconds(),
			IsToday:         total.IsToday,
		})
	}

	respond(c, http.StatusOK, gin.H{"days": views})
}
