package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// RunStatus is the outcome of an export run.
type RunStatus string

const (
	// RunSucceeded marks a run that produced output.
	RunSucceeded RunStatus = "succeeded"
	// RunFailed marks a run that ended with an error.
	RunFailed RunStatus = "failed"
)

// Run is one recorded plugin invocation.
type Run struct {
	ID          string
	PluginPath  string
	Status      RunStatus
	Error       string
	OutputBytes int
	Duration    time.Duration
	CreatedAt   time.Time
}

// RunRepository provides access to recorded export runs.
type RunRepository struct {
	db *sql.DB
}

// Runs returns the run repository for this store.
func (s *Store) Runs() *RunRepository {
	return &RunRepository{db: s.db}
}

// RecordRun stores run. It satisfies export.Recorder.
func (s *Store) RecordRun(run *Run) error {
	return s.Runs().Create(run)
}

// Create inserts a new run into the database.
func (r *RunRepository) Create(run *Run) error {
	if run.ID == "" {
		return fmt.Errorf("run id is empty")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO export_runs (id, plugin_path, status, error, output_bytes, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.PluginPath, string(run.Status), run.Error, run.OutputBytes,
		run.Duration.Milliseconds(), run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID.
func (r *RunRepository) GetByID(id string) (*Run, error) {
	row := r.db.QueryRow(
		`SELECT id, plugin_path, status, error, output_bytes, duration_ms, created_at
		 FROM export_runs WHERE id = ?`,
		id,
	)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return run, nil
}

// List returns the most recent runs first, at most limit of them. A limit of
// zero or less returns every run.
func (r *RunRepository) List(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, plugin_path, status, error, output_bytes, duration_ms, created_at
		 FROM export_runs ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	run := &Run{}
	var status string
	var durationMs int64

	if err := s.Scan(&run.ID, &run.PluginPath, &status, &run.Error, &run.OutputBytes, &durationMs, &run.CreatedAt); err != nil {
		return nil, err
	}

	run.Status = RunStatus(status)
	run.Duration = time.Duration(durationMs) * time.Millisecond
	return run, nil
}
