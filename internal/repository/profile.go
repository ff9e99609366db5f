package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rizzource/rizzource-backend/pkg/model"
)

// CreateProfile inserts a new account and returns its id. Roles are
// assigned here once at signup and never changed by the console.
func (r *Repository) CreateProfile(ctx context.Context, email, passwordHash string, role model.Role) (uuid.UUID, error) {
	id := uuid.New()
	const q = `
INSERT INTO profiles (id, email, password_hash, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
`
	if _, err := r.db.Exec(ctx, q, id, email, passwordHash, role); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, fmt.Errorf("email already exists: %w", err)
		}
		return uuid.Nil, fmt.Errorf("insert profile: %w", err)
	}
	return id, nil
}

// GetProfileByEmail returns one account by email.
func (r *Repository) GetProfileByEmail(ctx context.Context, email string) (model.Profile, error) {
	const q = `
SELECT id, email, password_hash, role, created_at, updated_at
FROM profiles
WHERE email = $1
`
	var p model.Profile
	row := r.db.QueryRow(ctx, q, email)
	if err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.Role, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, fmt.Errorf("profile not found: %w", err)
		}
		return model.Profile{}, fmt.Errorf("scan profile by email: %w", err)
	}
	return p, nil
}

// GetProfileByID returns one account by id.
func (r *Repository) GetProfileByID(ctx context.Context, id uuid.UUID) (model.Profile, error) {
	const q = `
SELECT id, email, password_hash, role, created_at, updated_at
FROM profiles
WHERE id = $1
`
	var p model.Profile
	row := r.db.QueryRow(ctx, q, id)
	if err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.Role, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Profile{}, fmt.Errorf("profile not found: %w", err)
		}
		return model.Profile{}, fmt.Errorf("scan profile by id: %w", err)
	}
	return p, nil
}

// ListProfiles returns one page of accounts with the given role,
// newest first, plus the exact total for that role.
func (r *Repository) ListProfiles(ctx context.Context, role model.Role, limit, offset int) ([]model.Profile, int, error) {
	var total int
	const countQ = `SELECT COUNT(1) FROM profiles WHERE role = $1`
	if err := r.db.QueryRow(ctx, countQ, role).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count profiles: %w", err)
	}

	const q = `
SELECT id, email, password_hash, role, created_at, updated_at
FROM profiles
WHERE role = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`
	rows, err := r.db.Query(ctx, q, role, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	out := make([]model.Profile, 0, limit)
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.Role, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan profile row: %w", err)
		}
		out = append(out, p)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, total, nil
}

// SearchProfiles matches the email column case-insensitively.
func (r *Repository) SearchProfiles(ctx context.Context, role model.Role, query string, limit, offset int) ([]model.Profile, int, error) {
	like := "%" + query + "%"

	var total int
	const countQ = `SELECT COUNT(1) FROM profiles WHERE role = $1 AND email ILIKE $2`
	if err := r.db.QueryRow(ctx, countQ, role, like).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count profile search: %w", err)
	}

	const q = `
SELECT id, email, password_hash, role, created_at, updated_at
FROM profiles
WHERE role = $1 AND email ILIKE $2
ORDER BY created_at DESC
LIMIT $3 OFFSET $4
`
	rows, err := r.db.Query(ctx, q, role, like, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("search profiles: %w", err)
	}
	defer rows.Close()

	out := make([]model.Profile, 0, limit)
	for rows.Next() {
		var p model.Profile
		if err := rows.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.Role, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan profile row: %w", err)
		}
		out = append(out, p)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, total, nil
}

// DeleteProfile removes an account. Zero rows affected means the row
// was already gone, surfaced as a non-fatal not-found.
func (r *Repository) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM profiles WHERE id = $1`
	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile not found")
	}
	return nil
}

// CountProfiles returns the total for one role.
func (r *Repository) CountProfiles(ctx context.Context, role model.Role) (int, error) {
	var total int
	const q = `SELECT COUNT(1) FROM profiles WHERE role = $1`
	if err := r.db.QueryRow(ctx, q, role).Scan(&total); err != nil {
		return 0, fmt.Errorf("count profiles: %w", err)
	}
	return total, nil
}
