package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rizzource/rizzource-backend/pkg/model"
)

const eventCols = `
	id, title, date, month, month_index, year, description, location,
	time, priority, created_by, created_at, updated_at`

func scanEvent(row pgx.Row) (model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID, &e.Title, &e.Date, &e.Month, &e.MonthIndex, &e.Year,
		&e.Description, &e.Location, &e.Time, &e.Priority, &e.CreatedBy,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// CreateEvent inserts a new calendar event and returns its id.
func (r *Repository) CreateEvent(ctx context.Context, e *model.Event) (uuid.UUID, error) {
	id := uuid.New()
	const q = `
INSERT INTO events (
	id, title, date, month, month_index, year, description, location,
	time, priority, created_by, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
`
	_, err := r.db.Exec(ctx, q,
		id, e.Title, e.Date, e.Month, e.MonthIndex, e.Year,
		e.Description, e.Location, e.Time, e.Priority, e.CreatedBy,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert event: %w", err)
	}
	return id, nil
}

// GetEventByID returns one event.
func (r *Repository) GetEventByID(ctx context.Context, id uuid.UUID) (model.Event, error) {
	q := `SELECT ` + eventCols + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Event{}, fmt.Errorf("event not found: %w", err)
		}
		return model.Event{}, fmt.Errorf("scan event: %w", err)
	}
	return e, nil
}

// ListEvents returns one page of events newest first plus the exact
// total.
func (r *Repository) ListEvents(ctx context.Context, limit, offset int) ([]model.Event, int, error) {
	var total int
	const countQ = `SELECT COUNT(1) FROM events`
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	q := `SELECT ` + eventCols + ` FROM events ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	out := make([]model.Event, 0, limit)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan event row: %w", err)
		}
		out = append(out, e)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, total, nil
}

// SearchEvents matches title or location case-insensitively.
func (r *Repository) SearchEvents(ctx context.Context, query string, limit, offset int) ([]model.Event, int, error) {
	like := "%" + query + "%"

	var total int
	const countQ = `SELECT COUNT(1) FROM events WHERE title ILIKE $1 OR location ILIKE $1`
	if err := r.db.QueryRow(ctx, countQ, like).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count event search: %w", err)
	}

	q := `SELECT ` + eventCols + `
FROM events
WHERE title ILIKE $1 OR location ILIKE $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, q, like, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("search events: %w", err)
	}
	defer rows.Close()

	out := make([]model.Event, 0, limit)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan event row: %w", err)
		}
		out = append(out, e)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, total, nil
}

// UpdateEvent writes only whitelisted columns from the updates map.
func (r *Repository) UpdateEvent(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	validCols := map[string]bool{
		"title": true, "date": true, "month": true, "month_index": true,
		"year": true, "description": true, "location": true,
		"time": true, "priority": true,
	}
	return r.updateByID(ctx, "events", id, updates, validCols)
}

// DeleteEvent removes one event; deleting an already-deleted row is a
// non-fatal not-found.
func (r *Repository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM events WHERE id = $1`
	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("event not found")
	}
	return nil
}

// CountEvents returns the total number of events.
func (r *Repository) CountEvents(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM events`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return total, nil
}

// updateByID builds "UPDATE <table> SET col = $n ..." from the
// whitelisted subset of updates. Unknown columns are skipped, an empty
// update set is rejected, and zero rows affected surfaces not-found.
func (r *Repository) updateByID(ctx context.Context, table string, id uuid.UUID, updates map[string]any, validCols map[string]bool) error {
	query := "UPDATE " + table + " SET updated_at = now()"
	args := []any{}
	argID := 1

	for col, val := range updates {
		if !validCols[col] {
			continue
		}
		query += fmt.Sprintf(", %s = $%d", col, argID)
		args = append(args, val)
		argID++
	}
	if len(args) == 0 {
		return fmt.Errorf("no editable fields in update")
	}

	query += fmt.Sprintf(" WHERE id = $%d", argID)
	args = append(args, id)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s row not found", table)
	}
	return nil
}
