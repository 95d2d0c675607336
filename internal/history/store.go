package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists run history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.path
}

// BeginRun inserts a new run row in the running state.
func (s *Store) BeginRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, model, device, compute_type, language, status)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.Model,
		run.Device,
		run.ComputeType,
		run.Language,
		RunStatusRunning,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordFile stores the outcome of one processed file.
func (s *Store) RecordFile(ctx context.Context, runID string, outcome FileOutcome) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_files (run_id, ordinal, name, status, error, audio_seconds)
         VALUES (?, ?, ?, ?, ?, ?)`,
		runID,
		outcome.Ordinal,
		outcome.Name,
		outcome.Status,
		nullableString(outcome.Error),
		outcome.AudioSeconds,
	)
	if err != nil {
		return fmt.Errorf("insert run file: %w", err)
	}
	return nil
}

// FinishRun closes out a run row with its totals.
func (s *Store) FinishRun(ctx context.Context, run Run) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs
         SET finished_at = ?, status = ?, files_total = ?, files_failed = ?,
             audio_seconds = ?, elapsed_seconds = ?
         WHERE id = ?`,
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Status,
		run.FilesTotal,
		run.FilesFailed,
		run.AudioSeconds,
		run.ElapsedSeconds,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish run: run %s not found", run.ID)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, model, device, compute_type, language,
                status, files_total, files_failed, audio_seconds, elapsed_seconds
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunFiles returns the per-file outcomes for a run in processing order.
func (s *Store) RunFiles(ctx context.Context, runID string) ([]FileOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ordinal, name, status, error, audio_seconds
         FROM run_files WHERE run_id = ? ORDER BY ordinal`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run files: %w", err)
	}
	defer rows.Close()

	var outcomes []FileOutcome
	for rows.Next() {
		var outcome FileOutcome
		var errText sql.NullString
		if err := rows.Scan(&outcome.Ordinal, &outcome.Name, &outcome.Status, &errText, &outcome.AudioSeconds); err != nil {
			return nil, fmt.Errorf("scan run file: %w", err)
		}
		outcome.Error = errText.String
		outcomes = append(outcomes, outcome)
	}
	return outcomes, rows.Err()
}

func scanRun(rows *sql.Rows) (Run, error) {
	var run Run
	var started string
	var finished sql.NullString
	if err := rows.Scan(
		&run.ID, &started, &finished, &run.Model, &run.Device, &run.ComputeType,
		&run.Language, &run.Status, &run.FilesTotal, &run.FilesFailed,
		&run.AudioSeconds, &run.ElapsedSeconds,
	); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if ts, err := time.Parse(time.RFC3339Nano, started); err == nil {
		run.StartedAt = ts
	}
	if finished.Valid {
		if ts, err := time.Parse(time.RFC3339Nano, finished.String); err == nil {
			run.FinishedAt = ts
		}
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
