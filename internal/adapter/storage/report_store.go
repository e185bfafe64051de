// internal/adapter/storage/report_store.go

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"brandpulse/internal/domain/report"
)

// ErrNotFound reports a missing run or report
var ErrNotFound = errors.New("not found")

// RunStatus values for analysis runs
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run is the stored metadata for one analysis run
type Run struct {
	ID          string     `json:"id"`
	Topics      []string   `json:"topics"`
	Status      string     `json:"status"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// ReportStore persists analysis runs and their assembled documents.
// Articles themselves are never persisted; they are discarded once
// aggregated.
type ReportStore struct {
	db *pgxpool.Pool
}

// NewReportStore creates a new report store
func NewReportStore(db *pgxpool.Pool) *ReportStore {
	return &ReportStore{
		db: db,
	}
}

// CreateRun records the start of an analysis run
func (s *ReportStore) CreateRun(ctx context.Context, id string, topics []string) error {
	query := `
		INSERT INTO analysis_runs (id, topics, status, started_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.db.Exec(ctx, query, id, topics, RunStatusRunning, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("error creating run: %w", err)
	}
	return nil
}

// CompleteRun marks a run completed
func (s *ReportStore) CompleteRun(ctx context.Context, id string) error {
	return s.finishRun(ctx, id, RunStatusCompleted, "")
}

// FailRun marks a run failed with its error message
func (s *ReportStore) FailRun(ctx context.Context, id string, runErr error) error {
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	return s.finishRun(ctx, id, RunStatusFailed, msg)
}

func (s *ReportStore) finishRun(ctx context.Context, id, status, errMsg string) error {
	query := `
		UPDATE analysis_runs
		SET status = $2, error = $3, completed_at = $4
		WHERE id = $1
	`

	tag, err := s.db.Exec(ctx, query, id, status, errMsg, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("error finishing run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetRun retrieves one run by ID
func (s *ReportStore) GetRun(ctx context.Context, id string) (*Run, error) {
	query := `
		SELECT id, topics, status, error, started_at, completed_at
		FROM analysis_runs
		WHERE id = $1
	`

	var run Run
	err := s.db.QueryRow(ctx, query, id).Scan(
		&run.ID,
		&run.Topics,
		&run.Status,
		&run.Error,
		&run.StartedAt,
		&run.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying run: %w", err)
	}
	return &run, nil
}

// SaveReport stores one assembled document
func (s *ReportStore) SaveReport(ctx context.Context, runID string, doc report.Document) error {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error marshaling document: %w", err)
	}

	query := `
		INSERT INTO reports (id, run_id, title, document, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET title = $3, document = $4
	`

	_, err = s.db.Exec(ctx, query, doc.ID, runID, doc.Title, docJSON, doc.GeneratedAt)
	if err != nil {
		return fmt.Errorf("error saving report: %w", err)
	}
	return nil
}

// GetReport retrieves one document by report ID
func (s *ReportStore) GetReport(ctx context.Context, id string) (*report.Document, error) {
	query := `SELECT document FROM reports WHERE id = $1`

	var docJSON []byte
	err := s.db.QueryRow(ctx, query, id).Scan(&docJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying report: %w", err)
	}

	var doc report.Document
	if err := json.Unmarshal(docJSON, &doc); err != nil {
		return nil, fmt.Errorf("error unmarshaling document: %w", err)
	}
	return &doc, nil
}

// GetReportByRun retrieves the document produced by one run
func (s *ReportStore) GetReportByRun(ctx context.Context, runID string) (*report.Document, error) {
	query := `SELECT document FROM reports WHERE run_id = $1 ORDER BY created_at DESC LIMIT 1`

	var docJSON []byte
	err := s.db.QueryRow(ctx, query, runID).Scan(&docJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying report: %w", err)
	}

	var doc report.Document
	if err := json.Unmarshal(docJSON, &doc); err != nil {
		return nil, fmt.Errorf("error unmarshaling document: %w", err)
	}
	return &doc, nil
}

// ReportSummary is one row of the report listing
type ReportSummary struct {
	ID        string    `json:"id"`
	RunID     string    `json:"run_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// ListReports returns recent reports, newest first
func (s *ReportStore) ListReports(ctx context.Context, limit int) ([]ReportSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, run_id, title, created_at
		FROM reports
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing reports: %w", err)
	}
	defer rows.Close()

	var summaries []ReportSummary
	for rows.Next() {
		var rs ReportSummary
		if err := rows.Scan(&rs.ID, &rs.RunID, &rs.Title, &rs.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning report row: %w", err)
		}
		summaries = append(summaries, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}
	return summaries, nil
}
