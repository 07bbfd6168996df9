package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/artpar/dockhand/internal/core/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// =============================================================================
// SQLiteStore
// =============================================================================

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore creates a new SQLite store and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite3", dsn+"?_foreign_keys=on")
	if err != nil {
		return nil, NewStoreError("NewSQLiteStore", "", "failed to open database", ErrConnectionFailed)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", "failed to ping database", ErrConnectionFailed)
	}

	if err := runMigrations(db.DB); err != nil {
		db.Close()
		return nil, NewStoreError("NewSQLiteStore", "", err.Error(), ErrMigrationFailed)
	}

	return &SQLiteStore{db: db}, nil
}

// runMigrations runs database migrations using embedded SQL files.
func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// =============================================================================
// Run Operations
// =============================================================================

// runRow represents a run row in the database.
type runRow struct {
	ID         string  `db:"id"`
	Mode       string  `db:"mode"`
	Host       string  `db:"host"`
	RepoURL    string  `db:"repo_url"`
	Branch     string  `db:"branch"`
	Commit     string  `db:"commit_sha"`
	FinalState string  `db:"final_state"`
	Error      string  `db:"error"`
	StartedAt  string  `db:"started_at"`
	FinishedAt *string `db:"finished_at"`
}

func (s *SQLiteStore) RecordRun(ctx context.Context, run *domain.Run) error {
	query := `
		INSERT INTO runs (
			id, mode, host, repo_url, branch, commit_sha,
			final_state, error, started_at, finished_at
		) VALUES (
			:id, :mode, :host, :repo_url, :branch, :commit_sha,
			:final_state, :error, :started_at, :finished_at
		)`

	_, err := s.db.NamedExecContext(ctx, query, runToRow(run))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: runs.id") {
			return NewStoreError("RecordRun", run.ID, "run with this ID already exists", ErrDuplicateID)
		}
		return NewStoreError("RecordRun", run.ID, err.Error(), err)
	}

	return nil
}

func (s *SQLiteStore) FinishRun(ctx context.Context, run *domain.Run) error {
	query := `
		UPDATE runs SET
			commit_sha = :commit_sha,
			final_state = :final_state,
			error = :error,
			finished_at = :finished_at
		WHERE id = :id`

	result, err := s.db.NamedExecContext(ctx, query, runToRow(run))
	if err != nil {
		return NewStoreError("FinishRun", run.ID, err.Error(), err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("FinishRun", run.ID, "run not found", ErrNotFound)
	}

	return nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	query := `SELECT * FROM runs WHERE id = ?`

	var row runRow
	err := s.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetRun", id, "run not found", ErrNotFound)
		}
		return nil, NewStoreError("GetRun", id, err.Error(), err)
	}

	return rowToRun(&row), nil
}

func (s *SQLiteStore) ListRecent(ctx context.Context, opts ListOptions) ([]domain.Run, error) {
	opts = opts.Normalize()
	query := `SELECT * FROM runs ORDER BY started_at DESC LIMIT ? OFFSET ?`

	var rows []runRow
	err := s.db.SelectContext(ctx, &rows, query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, NewStoreError("ListRecent", "", err.Error(), err)
	}

	runs := make([]domain.Run, 0, len(rows))
	for _, row := range rows {
		runs = append(runs, *rowToRun(&row))
	}

	return runs, nil
}

// =============================================================================
// Row Conversion Functions
// =============================================================================

func runToRow(run *domain.Run) map[string]any {
	var finishedAt *string
	if run.FinishedAt != nil {
		s := run.FinishedAt.Format(time.RFC3339)
		finishedAt = &s
	}

	return map[string]any{
		"id":          run.ID,
		"mode":        string(run.Mode),
		"host":        run.Host,
		"repo_url":    run.RepoURL,
		"branch":      run.Branch,
		"commit_sha":  run.Commit,
		"final_state": run.FinalState,
		"error":       run.Error,
		"started_at":  run.StartedAt.Format(time.RFC3339),
		"finished_at": finishedAt,
	}
}

func rowToRun(row *runRow) *domain.Run {
	startedAt, _ := time.Parse(time.RFC3339, row.StartedAt)

	var finishedAt *time.Time
	if row.FinishedAt != nil && *row.FinishedAt != "" {
		t, _ := time.Parse(time.RFC3339, *row.FinishedAt)
		finishedAt = &t
	}

	return &domain.Run{
		ID:         row.ID,
		Mode:       domain.RunMode(row.Mode),
		Host:       row.Host,
		RepoURL:    row.RepoURL,
		Branch:     row.Branch,
		Commit:     row.Commit,
		FinalState: row.FinalState,
		Error:      row.Error,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}
}
