package postgres

import (
	"context"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tax_transactions (
		id VARCHAR(50) PRIMARY KEY,
		order_id VARCHAR(255) NOT NULL,
		tenant_id VARCHAR(50) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'published',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_by VARCHAR(50),
		updated_by VARCHAR(50)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_tax_transactions_order_id ON tax_transactions (order_id)`,
	`CREATE TABLE IF NOT EXISTS tax_preferences (
		key VARCHAR(64) PRIMARY KEY,
		value TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Schema returns the DDL applied by Migrate
func Schema() []string {
	return append([]string(nil), schema...)
}

// Migrate creates the tables used by the repositories
func (db *DB) Migrate(ctx context.Context) error {
	return db.WithTx(ctx, func(ctx context.Context) error {
		q := db.GetQuerier(ctx)
		for _, stmt := range schema {
			if _, err := q.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		db.logger.Infow("database schema up to date", "statements", len(schema))
		return nil
	})
}
