package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes shape.
const schemaVersion = 1

// ErrSchemaMismatch indicates the history database was written by another version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
	hashtagSep              = " "

	// createdAtLayout is fixed width so text order matches time order.
	createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Run is one recorded invocation of the pipeline. ListRuns fills ClipCount
// and leaves Clips empty; use Store.Clips for the clip rows.
type Run struct {
	ID          string    `json:"id"`
	Input       string    `json:"input"`
	OutDir      string    `json:"out_dir"`
	Candidates  int       `json:"candidates"`
	Compilation string    `json:"compilation,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ClipCount   int       `json:"clip_count"`
	Clips       []Clip    `json:"clips,omitempty"`
}

// Clip is one selected window of a run.
type Clip struct {
	ID       string   `json:"id"`
	RunID    string   `json:"run_id"`
	Position int      `json:"position"`
	Start    float64  `json:"start"`
	End      float64  `json:"end"`
	Score    float64  `json:"score"`
	Title    string   `json:"title"`
	Hashtags []string `json:"hashtags"`
	File     string   `json:"file,omitempty"`
}

// Store keeps the run history in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "ensure history directory")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite db")
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, errors.Wrapf(execErr, "apply pragma %q", pragma)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return errors.Wrap(err, "check schema_version table")
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return errors.Wrap(err, "read schema version")
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to start over)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin schema tx")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return errors.Wrap(err, "create schema")
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return errors.Wrap(err, "record schema version")
	}
	return errors.Wrap(tx.Commit(), "commit schema")
}

// RecordRun stores r and its clips in one transaction. Missing IDs are
// generated and written back into r.
func (s *Store) RecordRun(ctx context.Context, r *Run) error {
	if r == nil {
		return errors.New("record run: nil run")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	r.ClipCount = len(r.Clips)
	for i := range r.Clips {
		if r.Clips[i].ID == "" {
			r.Clips[i].ID = uuid.NewString()
		}
		r.Clips[i].RunID = r.ID
	}

	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return errors.Wrap(err, "begin run tx")
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO runs (id, input, out_dir, candidates, compilation, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID, r.Input, r.OutDir, r.Candidates, r.Compilation, r.CreatedAt.UTC().Format(createdAtLayout),
		); err != nil {
			return errors.Wrap(err, "insert run")
		}
		for _, c := range r.Clips {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO clips (id, run_id, position, start_sec, end_sec, score, title, hashtags, file) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				c.ID, c.RunID, c.Position, c.Start, c.End, c.Score, c.Title, strings.Join(c.Hashtags, hashtagSep), c.File,
			); err != nil {
				return errors.Wrapf(err, "insert clip %d", c.Position)
			}
		}
		return errors.Wrap(tx.Commit(), "commit run")
	})
}

// ListRuns returns the most recent runs first, without their clips. A
// non-positive limit returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT r.id, r.input, r.out_dir, r.candidates, r.compilation, r.created_at,
		(SELECT COUNT(1) FROM clips c WHERE c.run_id = r.id)
		FROM runs r ORDER BY r.created_at DESC, r.rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r       Run
			created string
		)
		if err := rows.Scan(&r.ID, &r.Input, &r.OutDir, &r.Candidates, &r.Compilation, &created, &r.ClipCount); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		if r.CreatedAt, err = time.Parse(createdAtLayout, created); err != nil {
			return nil, errors.Wrapf(err, "parse created_at for run %s", r.ID)
		}
		out = append(out, r)
	}
	return out, errors.Wrap(rows.Err(), "iterate runs")
}

// Clips returns the clips of a run ordered by position.
func (s *Store) Clips(ctx context.Context, runID string) ([]Clip, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, position, start_sec, end_sec, score, title, hashtags, file
		FROM clips WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "query clips")
	}
	defer rows.Close()

	var out []Clip
	for rows.Next() {
		var (
			c    Clip
			tags string
		)
		if err := rows.Scan(&c.ID, &c.RunID, &c.Position, &c.Start, &c.End, &c.Score, &c.Title, &tags, &c.File); err != nil {
			return nil, errors.Wrap(err, "scan clip")
		}
		if tags != "" {
			c.Hashtags = strings.Split(tags, hashtagSep)
		}
		out = append(out, c)
	}
	return out, errors.Wrap(rows.Err(), "iterate clips")
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
