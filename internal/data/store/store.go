package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// ModelRun is one catalog row: the latest parse result for a model id.
type ModelRun struct {
	ModelID            string
	SafeID             string
	RunID              string
	Status             string
	Architecture       string
	Family             string
	Class              string
	ParameterCount     int64
	ParameterTrainable int64
	BufferCount        int64
	SizeBytes          int64
	ModuleCount        int
	Error              string
	Timestamp          time.Time
}

// Store keeps catalog run summaries in a single-writer SQLite database.
type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("catalog db path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("catalog db path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create catalog db directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts while watch mode re-parses.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog db %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping catalog db %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize catalog schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// SaveRun upserts the row for a model id; a re-parse replaces the old result.
func (s *Store) SaveRun(run ModelRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(run.ModelID) == "" {
		return fmt.Errorf("model id must not be empty")
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}

	query := `
INSERT INTO model_runs (
  model_id, safe_id, run_id, status, architecture, family, class,
  parameter_count, parameter_trainable, buffer_count, size_bytes,
  module_count, error, ts_utc
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(model_id) DO UPDATE SET
  safe_id=excluded.safe_id,
  run_id=excluded.run_id,
  status=excluded.status,
  architecture=excluded.architecture,
  family=excluded.family,
  class=excluded.class,
  parameter_count=excluded.parameter_count,
  parameter_trainable=excluded.parameter_trainable,
  buffer_count=excluded.buffer_count,
  size_bytes=excluded.size_bytes,
  module_count=excluded.module_count,
  error=excluded.error,
  ts_utc=excluded.ts_utc
`
	return s.withRetry("save model run", func() error {
		_, err := s.db.Exec(
			query,
			run.ModelID,
			run.SafeID,
			run.RunID,
			run.Status,
			run.Architecture,
			run.Family,
			run.Class,
			run.ParameterCount,
			run.ParameterTrainable,
			run.BufferCount,
			run.SizeBytes,
			run.ModuleCount,
			run.Error,
			run.Timestamp.UTC().Format(time.RFC3339Nano),
		)
		return err
	})
}

// LoadRuns returns rows ordered by model id, optionally filtered by status.
func (s *Store) LoadRuns(status string) ([]ModelRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
SELECT
  model_id, safe_id, run_id, status, architecture, family, class,
  parameter_count, parameter_trainable, buffer_count, size_bytes,
  module_count, error, ts_utc
FROM model_runs
`
	args := make([]any, 0, 1)
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY model_id ASC"

	var rows *sql.Rows
	err := s.withRetry("load model runs", func() error {
		var qErr error
		rows, qErr = s.db.Query(query, args...)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]ModelRun, 0)
	for rows.Next() {
		var (
			tsRaw string
			run   ModelRun
		)
		if err := rows.Scan(
			&run.ModelID,
			&run.SafeID,
			&run.RunID,
			&run.Status,
			&run.Architecture,
			&run.Family,
			&run.Class,
			&run.ParameterCount,
			&run.ParameterTrainable,
			&run.BufferCount,
			&run.SizeBytes,
			&run.ModuleCount,
			&run.Error,
			&tsRaw,
		); err != nil {
			return nil, fmt.Errorf("scan model run row: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, tsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse model run timestamp %q: %w", tsRaw, err)
		}
		run.Timestamp = ts.UTC()
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate model run rows: %w", err)
	}

	return runs, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
