// internal/adapter/storage/schema.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// EnsureSchema creates the tables the store needs if they are missing
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS analysis_runs (
			id           UUID PRIMARY KEY,
			topics       TEXT[] NOT NULL,
			status       TEXT NOT NULL,
			error        TEXT NOT NULL DEFAULT '',
			started_at   TIMESTAMPTZ NOT NULL,
			completed_at TIMESTAMPTZ
		);

		CREATE TABLE IF NOT EXISTS reports (
			id         UUID PRIMARY KEY,
			run_id     UUID NOT NULL REFERENCES analysis_runs (id),
			title      TEXT NOT NULL,
			document   JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports (created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_reports_run_id ON reports (run_id);
	`)
	if err != nil {
		return fmt.Errorf("error ensuring schema: %w", err)
	}
	return nil
}
