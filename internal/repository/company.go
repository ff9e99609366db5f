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

const companyCols = `
	id, name, description, website, owner_name, owner_email,
	created_at, updated_at`

func scanCompany(row pgx.Row) (model.Company, error) {
	var c model.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.Website, &c.OwnerName,
		&c.OwnerEmail, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// CreateCompanyWithOwner provisions a company and its owner account
// atomically: either both rows exist afterwards or neither does.
func (r *Repository) CreateCompanyWithOwner(ctx context.Context, c *model.Company, ownerPasswordHash string) (uuid.UUID, error) {
	companyID := uuid.New()
	ownerID := uuid.New()

	err := r.execTx(ctx, func(tx pgx.Tx) error {
		const qOwner = `
INSERT INTO profiles (id, email, password_hash, role, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
`
		if _, err := tx.Exec(ctx, qOwner, ownerID, c.OwnerEmail, ownerPasswordHash, model.RoleMentor); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return fmt.Errorf("owner email already exists: %w", err)
			}
			return fmt.Errorf("insert owner profile: %w", err)
		}

		const qCompany = `
INSERT INTO companies (
	id, name, description, website, owner_name, owner_email,
	created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, now(), now())
`
		if _, err := tx.Exec(ctx, qCompany, companyID, c.Name, c.Description, c.Website, c.OwnerName, c.OwnerEmail); err != nil {
			return fmt.Errorf("insert company: %w", err)
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return companyID, nil
}

// ListCompanies returns one page of companies newest first plus the
// exact total.
func (r *Repository) ListCompanies(ctx context.Context, limit, offset int) ([]model.Company, int, error) {
	var total int
	const countQ = `SELECT COUNT(1) FROM companies`
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count companies: %w", err)
	}

	q := `SELECT ` + companyCols + ` FROM companies ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	out := make([]model.Company, 0, limit)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan company row: %w", err)
		}
		out = append(out, c)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, total, nil
}

// SearchCompanies matches name, owner name or owner email
// case-insensitively.
func (r *Repository) SearchCompanies(ctx context.Context, query string, limit, offset int) ([]model.Company, int, error) {
	like := "%" + query + "%"

	var total int
	const countQ = `
SELECT COUNT(1) FROM companies
WHERE name ILIKE $1 OR owner_name ILIKE $1 OR owner_email ILIKE $1
`
	if err := r.db.QueryRow(ctx, countQ, like).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count company search: %w", err)
	}

	q := `SELECT ` + companyCols + `
FROM companies
WHERE name ILIKE $1 OR owner_name ILIKE $1 OR owner_email ILIKE $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, q, like, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("search companies: %w", err)
	}
	defer rows.Close()

	out := make([]model.Company, 0, limit)
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan company row: %w", err)
		}
		out = append(out, c)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("rows error: %w", rows.Err())
	}
	return out, total, nil
}

// GetCompanyByID returns one company.
func (r *Repository) GetCompanyByID(ctx context.Context, id uuid.UUID) (model.Company, error) {
	q := `SELECT ` + companyCols + ` FROM companies WHERE id = $1`
	c, err := scanCompany(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Company{}, fmt.Errorf("company not found: %w", err)
		}
		return model.Company{}, fmt.Errorf("scan company: %w", err)
	}
	return c, nil
}

// UpdateCompany writes only the console-editable columns.
func (r *Repository) UpdateCompany(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	validCols := map[string]bool{
		"name": true, "description": true, "website": true, "owner_name": true,
	}
	return r.updateByID(ctx, "companies", id, updates, validCols)
}

// DeleteCompany removes one company row.
func (r *Repository) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM companies WHERE id = $1`
	tag, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("company not found")
	}
	return nil
}

// CountCompanies returns the total number of companies.
func (r *Repository) CountCompanies(ctx context.Context) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM companies`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return total, nil
}
