// Package journal records every rename attempt in a SQLite database so a
// batch can be audited after the fact. Each run gets a UUID v7 id; rows are
// written after the batch has been joined, one per regular file.
package journal

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/backmassage/testrename/internal/logging"
	"github.com/backmassage/testrename/internal/pipeline"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const table = "renames"

// ErrJournal wraps every failure to open, migrate or write the journal.
var ErrJournal = errors.New("journal error")

// Journal is a [pipeline.Recorder] backed by SQLite.
type Journal struct {
	db     *sql.DB
	runID  uuid.UUID
	folder string
	dir    string
	now    func() time.Time
}

// Open opens (creating if needed) the database at path, applies pending
// migrations and starts a new run for folder/dir.
func Open(ctx context.Context, path, folder, dir string, log *logging.Logger) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create directory for %s: %w", ErrJournal, path, err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrJournal, path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", ErrJournal, path, err)
	}
	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	j, err := New(db, folder, dir)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Debug().Str("path", path).Str("run_id", j.runID.String()).Msg("Journal opened")
	return j, nil
}

// New wraps an already migrated db and assigns a fresh run id.
func New(db *sql.DB, folder, dir string) (*Journal, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("%w: run id: %w", ErrJournal, err)
	}
	return &Journal{db: db, runID: id, folder: folder, dir: dir, now: time.Now}, nil
}

// Migrate applies the embedded schema migrations.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("%w: migration dialect: %w", ErrJournal, err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("%w: migration: %w", ErrJournal, err)
	}
	return nil
}

// RunID identifies the rows written by this Journal.
func (j *Journal) RunID() uuid.UUID { return j.runID }

// Record inserts one row for res.
func (j *Journal) Record(ctx context.Context, res pipeline.Result) error {
	query, args, err := buildInsertQuery(j.runID, j.folder, j.dir, res, j.now())
	if err != nil {
		return fmt.Errorf("%w: build insert: %w", ErrJournal, err)
	}
	if _, err := j.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insert %s: %w", ErrJournal, res.Op.Entry.Name, err)
	}
	return nil
}

// Counts returns the number of rows per status for this run.
func (j *Journal) Counts(ctx context.Context) (map[pipeline.Status]int, error) {
	query, args, err := buildCountsQuery(j.runID)
	if err != nil {
		return nil, fmt.Errorf("%w: build counts: %w", ErrJournal, err)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: counts: %w", ErrJournal, err)
	}
	defer rows.Close()

	counts := make(map[pipeline.Status]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("%w: scan counts: %w", ErrJournal, err)
		}
		counts[pipeline.Status(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: counts: %w", ErrJournal, err)
	}
	return counts, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

func buildInsertQuery(runID uuid.UUID, folder, dir string, res pipeline.Result, at time.Time) (string, []any, error) {
	errText := ""
	if res.Err != nil {
		errText = res.Err.Error()
	}
	return sq.Insert(table).
		Columns("run_id", "folder", "dir", "old_name", "new_name", "status", "dry_run", "error", "recorded_at").
		Values(runID.String(), folder, dir, res.Op.Entry.Name, res.Op.NewName, string(res.Status), res.DryRun, errText, at.UTC()).
		PlaceholderFormat(sq.Question).
		ToSql()
}

func buildCountsQuery(runID uuid.UUID) (string, []any, error) {
	return sq.Select("status", "COUNT(*)").
		From(table).
		Where(sq.Eq{"run_id": runID.String()}).
		GroupBy("status").
		PlaceholderFormat(sq.Question).
		ToSql()
}
