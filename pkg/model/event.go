package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// monthIndexes is the canonical month-name lookup, zero-based
// (January=0 .. December=11). The stored month_index is derived from
// the month name at submit time; if the two ever diverge the server
// value wins.
var monthIndexes = map[string]int{
	"january": 0, "february": 1, "march": 2, "april": 3,
	"may": 4, "june": 5, "july": 6, "august": 7,
	"september": 8, "october": 9, "november": 10, "december": 11,
}

// MonthIndex resolves a month name to its zero-based index.
func MonthIndex(month string) (int, bool) {
	idx, ok := monthIndexes[strings.ToLower(strings.TrimSpace(month))]
	return idx, ok
}

// Event is a calendar entry managed entirely through the admin console.
// Date is free text as entered by the admin; Month/MonthIndex/Year are
// the structured fields the timeline sorts on.
type Event struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Date        string    `json:"date" db:"date"`
	Month       string    `json:"month" db:"month"`
	MonthIndex  int       `json:"month_index" db:"month_index"`
	Year        int       `json:"year" db:"year"`
	Description *string   `json:"description" db:"description"`
	Location    *string   `json:"location" db:"location"`
	Time        *string   `json:"time" db:"time"`
	Priority    bool      `json:"priority" db:"priority"`
	CreatedBy   uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

func (e Event) RecordID() string { return e.ID.String() }

func (e Event) Columns() []string {
	return []string{"id", "title", "date", "month", "month_index", "year", "description", "location", "time", "priority", "created_at"}
}

func (e Event) Values() []any {
	return []any{
		e.ID.String(), e.Title, e.Date, e.Month, e.MonthIndex, e.Year,
		deref(e.Description), deref(e.Location), deref(e.Time), e.Priority,
		e.CreatedAt.Format(time.RFC3339),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type EventReq struct {
	Title       string  `json:"title" binding:"required"`
	Date        string  `json:"date" binding:"required"`
	Month       string  `json:"month" binding:"required"`
	Year        int     `json:"year" binding:"required"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	Time        *string `json:"time"`
	Priority    bool    `json:"priority"`
}

type UpdateEventReq struct {
	Title       *string `json:"title,omitempty"`
	Date        *string `json:"date,omitempty"`
	Month       *string `json:"month,omitempty"`
	Year        *int    `json:"year,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	Time        *string `json:"time,omitempty"`
	Priority    *bool   `json:"priority,omitempty"`
}

// Fields builds the update column map. Changing the month re-derives
// month_index so the two can never drift apart through an edit.
func (r *UpdateEventReq) Fields() (map[string]any, error) {
	out := map[string]any{}
	if r.Title != nil {
		if strings.TrimSpace(*r.Title) == "" {
			return nil, fmt.Errorf("title cannot be empty")
		}
		out["title"] = *r.Title
	}
	if r.Date != nil {
		out["date"] = *r.Date
	}
	if r.Month != nil {
		idx, ok := MonthIndex(*r.Month)
		if !ok {
			return nil, fmt.Errorf("unknown month %q", *r.Month)
		}
		out["month"] = *r.Month
		out["month_index"] = idx
	}
	if r.Year != nil {
		if *r.Year < 2000 || *r.Year > 2100 {
			return nil, fmt.Errorf("year %d out of range", *r.Year)
		}
		out["year"] = *r.Year
	}
	if r.Description != nil {
		out["description"] = *r.Description
	}
	if r.Location != nil {
		out["location"] = *r.Location
	}
	if r.Time != nil {
		out["time"] = *r.Time
	}
	if r.Priority != nil {
		out["priority"] = *r.Priority
	}
	return out, nil
}

// Normalize validates the structured fields and derives month_index
// from the month name.
func (r *EventReq) Normalize() (int, error) {
	if strings.TrimSpace(r.Title) == "" {
		return 0, fmt.Errorf("title is required")
	}
	idx, ok := MonthIndex(r.Month)
	if !ok {
		return 0, fmt.Errorf("unknown month %q", r.Month)
	}
	if r.Year < 2000 || r.Year > 2100 {
		return 0, fmt.Errorf("year %d out of range", r.Year)
	}
	return idx, nil
}
