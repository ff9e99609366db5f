package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the pgx-backed data access layer shared by every
// handler and by the console gateway.
type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// execTx runs fn inside a transaction, rolling back on any error.
func (r *Repository) execTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}

// RecordExport bumps the per-table export counter. Callers rely on it
// only for the side effect.
func (r *Repository) RecordExport(ctx context.Context, tableName string) error {
	const q = `
INSERT INTO export_logs (table_name, exports, last_export)
VALUES ($1, 1, now())
ON CONFLICT (table_name)
DO UPDATE SET exports = export_logs.exports + 1, last_export = now()
`
	if _, err := r.db.Exec(ctx, q, tableName); err != nil {
		return fmt.Errorf("record export: %w", err)
	}
	return nil
}
