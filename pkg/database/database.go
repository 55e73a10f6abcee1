package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS assignment_audit (
	id UUID PRIMARY KEY,
	user_id BIGINT NOT NULL,
	course_id BIGINT NOT NULL,
	company_id BIGINT NOT NULL,
	license_id BIGINT NOT NULL DEFAULT 0,
	outcome TEXT NOT NULL,
	detail TEXT NOT NULL DEFAULT '',
	actor TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_assignment_audit_course ON assignment_audit (course_id, created_at DESC);

CREATE TABLE IF NOT EXISTS reconciliations (
	id UUID PRIMARY KEY,
	user_id BIGINT NOT NULL,
	course_id BIGINT NOT NULL,
	company_id BIGINT NOT NULL,
	license_id BIGINT NOT NULL,
	reason TEXT NOT NULL DEFAULT '',
	resolved BOOLEAN NOT NULL DEFAULT FALSE,
	resolved_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_reconciliations_open ON reconciliations (created_at) WHERE resolved = FALSE;
`

func NewPool(dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, err
	}

	log.Println("Database connected successfully")

	return pool, nil
}

// Migrate creates the audit and reconciliation tables if they are missing.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
