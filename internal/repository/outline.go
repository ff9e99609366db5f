package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rizzource/rizzource-backend/pkg/model"
)

const outlineCols = `
	id, title, topic, year, professor, file_name, file_url, file_size,
	file_type, user_id, mentor_email, downloads, rating_avg,
	rating_count, created_at, updated_at`

func scanOutline(row pgx.Row) (model.Outline, error) {
	var o model.Outline
	err := row.Scan(
		&o.ID, &o.Title, &o.Topic, &o.Year, &o.Professor, &o.FileName,
		&o.FileURL, &o.FileSize, &o.FileType, &o.UserID, &o.MentorEmail,
		&o.Downloads, &o.RatingAvg, &o.RatingCount, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

// CreateOutline inserts an uploaded outline. Download and rating
// aggregates start at zero and are only ever server-computed.
func (r *Repository) CreateOutline(ctx context.Context, o *model.Outline) (uuid.UUID, error) {
	id := uuid.New()
	const q = `
INSERT INTO outlines (
	id, title, topic, year, professor, file_name, file_url, file_size,
	file_type, user_id, mentor_email, downloads, rating_avg,
	rating_count, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 0, 0, 0, now(), now())
`
	_, err := r.db.Exec(ctx, q,
		id, o.Title, o.Topic, o.Year, o.Professor, o.FileName, o.FileURL,
		o.FileSize, o.FileType, o.UserID, o.MentorEmail,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert outline: %w", err)
	}
	return id, nil
}

// GetOutlineByID returns one outline.
func (r *Repository) GetOutlineByID(ctx context.Context, id uuid.UUID) (model.Outline, error) {
	q := `SELECT ` + outlineCols + ` FROM outlines WHERE id = $1`
	o, err := scanOutline(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Outline{}, fmt.Errorf("outline not found: %w", err)
		}
		return model.Outline{}, fmt.Errorf("scan outline: %w", err)
	}
	return o, nil
}

// ListOutlines returns one page of outlines newest first plus the
// exact total.
func (r *Repository) ListOutlines(ctx context.Context, limit, offset int) ([]model.Outline, int, error) {
	var total int
	const countQ = `SELECT COUNT(1) FROM outlines`
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count outlines: %w", err)
	}

	q := `SELECT ` + outlineCols + ` FROM outlines ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query outlines: %w", err)
	}
	defer rows.Close()

	out := make([]model.Outline, 0, limit)
	for rows.Next() {
		o, err := scanOutline(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan outline row: %w", err)
		}
		out = append(out, o)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, total, nil
}

// SearchOutlines matches title, topic or professor case-insensitively,
// OR-combined, newest first, paginated independently of ListOutlines.
func (r *Repository) SearchOutlines(ctx context.Context, query string, limit, offset int) ([]model.Outline, int, error) {
	like := "%" + query + "%"

	var total int
	const countQ = `
SELECT COUNT(1) FROM outlines
WHERE title ILIKE $1 OR topic ILIKE $1 OR professor ILIKE $1
`
	if err := r.db.QueryRow(ctx, countQ, like).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count outline search: %w", err)
	}

	q := `SELECT ` + outlineCols + `
FROM outlines
WHERE title ILIKE $1 OR topic ILIKE $1 OR professor ILIKE $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, q, like, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("search outlines: %w", err)
	}
	defer rows.Close()

	out := make([]model.Outline, 0, limit)
	for rows.Next() {
		o, err := scanOutline(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan outline row: %w", err)
		}
		out = append(out, o)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, total, nil
}

// UpdateOutline writes only the console-editable columns. File and
// rating columns are not in the whitelist and can never be touched
// through this path.
func (r *Repository) UpdateOutline(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	validCols := map[string]bool{
		"title": true, "topic": true, "year": true, "professor": true,
	}
	return r.updateByID(ctx, "outlines", id, updates, validCols)
}

// DeleteOutline removes one outline row.
func (r *Repository) DeleteOutline(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM outlines WHERE id = $1`
	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete outline: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("outline not found")
	}
	return nil
}

// IncrementOutlineDownloads bumps the server-owned download counter.
func (r *Repository) IncrementOutlineDownloads(ctx context.Context, id uuid.UUID) error {
	const q = `UPDATE outlines SET downloads = downloads + 1 WHERE id = $1`
	if _, err := r.db.Exec(ctx, q, id); err != nil {
		return fmt.Errorf("increment downloads: %w", err)
	}
	return nil
}

// CountOutlines returns the total number of outlines.
func (r *Repository) CountOutlines(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM outlines`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count outlines: %w", err)
	}
	return total, nil
}
