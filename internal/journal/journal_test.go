package journal

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/testrename/internal/fsops"
	"github.com/backmassage/testrename/internal/logging"
	"github.com/backmassage/testrename/internal/pipeline"
)

func result(oldName, newName string, status pipeline.Status, err error) pipeline.Result {
	return pipeline.Result{
		Op: pipeline.Op{
			Entry:   pipeline.Entry{Name: oldName, Path: "/t/" + oldName, Kind: pipeline.KindFile},
			NewName: newName,
			NewPath: "/t/" + newName,
		},
		Status: status,
		Err:    err,
	}
}

func Test_buildInsertQuery(t *testing.T) {
	id := uuid.Must(uuid.NewV7())
	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		res     pipeline.Result
		wantErr string
	}{
		{"renamed", result("a_lox", "a-lax", pipeline.StatusRenamed, nil), ""},
		{"failed", result("b_lox", "b-lax", pipeline.StatusFailed, fsops.ErrTargetExists), fsops.ErrTargetExists.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildInsertQuery(id, "operator", "/t", tt.res, at)
			require.NoError(t, err)

			q := strings.ToLower(query)
			require.Contains(t, q, "insert into renames")
			require.Contains(t, q, "old_name")
			require.Contains(t, q, "recorded_at")
			require.Equal(t, 9, strings.Count(query, "?"))

			require.Len(t, args, 9)
			assert.Equal(t, id.String(), args[0])
			assert.Equal(t, "operator", args[1])
			assert.Equal(t, tt.res.Op.Entry.Name, args[3])
			assert.Equal(t, tt.res.Op.NewName, args[4])
			assert.Equal(t, string(tt.res.Status), args[5])
			assert.Equal(t, tt.wantErr, args[7])
			assert.Equal(t, at, args[8])
		})
	}
}

func Test_buildCountsQuery(t *testing.T) {
	id := uuid.Must(uuid.NewV7())
	query, args, err := buildCountsQuery(id)
	require.NoError(t, err)

	q := strings.ToLower(query)
	require.Contains(t, q, "from renames")
	require.Contains(t, q, "group by status")
	require.Contains(t, q, "run_id = ?")
	require.Equal(t, []any{id.String()}, args)
}

func TestRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	j, err := New(db, "operator", "/t")
	require.NoError(t, err)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	j.now = func() time.Time { return at }

	mock.ExpectExec("INSERT INTO renames").
		WithArgs(j.RunID().String(), "operator", "/t", "a_lox", "a-lax", "renamed", false, "", at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, j.Record(context.Background(), result("a_lox", "a-lax", pipeline.StatusRenamed, nil)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecord_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	j, err := New(db, "operator", "/t")
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO renames").WillReturnError(errors.New("disk I/O error"))

	err = j.Record(context.Background(), result("a_lox", "a-lax", pipeline.StatusRenamed, nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrJournal)
	assert.Contains(t, err.Error(), "a_lox")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	j, err := New(db, "operator", "/t")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT status, COUNT\\(\\*\\) FROM renames").
		WithArgs(j.RunID().String()).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("renamed", 3).
			AddRow("failed", 1))

	counts, err := j.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[pipeline.Status]int{pipeline.StatusRenamed: 3, pipeline.StatusFailed: 1}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_DBError(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = Migrate(db)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrJournal)
	assert.Contains(t, err.Error(), "migration")
}

func TestNew_DistinctRunIDs(t *testing.T) {
	a, err := New(nil, "operator", "/t")
	require.NoError(t, err)
	b, err := New(nil, "operator", "/t")
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID(), b.RunID())
	assert.Equal(t, uuid.Version(7), a.RunID().Version())
}

func TestOpen_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "journal.db")
	ctx := context.Background()

	j, err := Open(ctx, path, "operator", "/t", logging.Nop())
	require.NoError(t, err)

	require.NoError(t, j.Record(ctx, result("a_lox", "a-lax", pipeline.StatusRenamed, nil)))
	require.NoError(t, j.Record(ctx, result("plain", "plain", pipeline.StatusUnchanged, nil)))
	require.NoError(t, j.Record(ctx, result("b_lox", "b-lax", pipeline.StatusFailed, fsops.ErrTargetExists)))

	counts, err := j.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[pipeline.StatusRenamed])
	assert.Equal(t, 1, counts[pipeline.StatusUnchanged])
	assert.Equal(t, 1, counts[pipeline.StatusFailed])
	require.NoError(t, j.Close())

	// Reopening applies no migrations twice and starts a separate run.
	again, err := Open(ctx, path, "operator", "/t", logging.Nop())
	require.NoError(t, err)
	defer again.Close()
	counts, err = again.Counts(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts)
}
