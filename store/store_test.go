package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/tealdoc/errors"
	"github.com/teranos/tealdoc/logger"
	"github.com/teranos/tealdoc/schema"
	"github.com/teranos/tealdoc/types"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenWithMigrations(filepath.Join(t.TempDir(), "test.db"), zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testDocument(variants ...string) schema.Document {
	return schema.Document{
		Version: schema.CurrentVersion,
		Nodes: []schema.TypeGenerator{
			schema.NewRecord(types.Name("game", "Player")).FieldGet("name", types.String).Build(),
			schema.NewEnum(types.Name("game", "Team"), variants...),
		},
		Globals: []schema.GlobalInstance{{Name: "player", Type: types.Named("game", "Player")}},
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Migrate(db, nil))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 2, count)

	var table string
	require.NoError(t, db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='documents'").Scan(&table))
	assert.Equal(t, "documents", table)
}

func TestOpenSetsPragmas(t *testing.T) {
	db := setupTestDB(t)

	var journalMode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var busyTimeout int
	require.NoError(t, db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	assert.Equal(t, SQLiteBusyTimeoutMS, busyTimeout)
}

func TestSaveAndLatestRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(setupTestDB(t))

	doc := testDocument("Red", "Blue")
	saved, err := s.Save(ctx, "game.yaml", doc)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, 2, saved.NodeCount)
	assert.Equal(t, 1, saved.GlobalCount)

	latest, err := s.Latest(ctx, "game.yaml")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, latest.ID)
	assert.Equal(t, saved.Digest, latest.Digest)
	assert.True(t, saved.CreatedAt.Equal(latest.CreatedAt))

	wantJSON, err := doc.JSON(false)
	require.NoError(t, err)
	gotJSON, err := latest.Document.JSON(false)
	require.NoError(t, err)
	assert.JSONEq(t, string(wantJSON), string(gotJSON))

	byID, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "game.yaml", byID.Source)
}

func TestLatestNotFound(t *testing.T) {
	s := New(setupTestDB(t))

	_, err := s.Latest(context.Background(), "missing.yaml")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))

	_, err = s.Get(context.Background(), "nope")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New(setupTestDB(t))

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, variant := range []string{"A", "B", "C"} {
		at := base.Add(time.Duration(i) * time.Minute)
		s.now = func() time.Time { return at }
		_, err := s.Save(ctx, "m.yaml", testDocument(variant))
		require.NoError(t, err)
	}
	_, err := s.Save(ctx, "other.yaml", testDocument("Z"))
	require.NoError(t, err)

	all, err := s.List(ctx, "m.yaml", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	team := all[0].Document.Nodes[1].(*schema.Enum)
	assert.Equal(t, []string{"C"}, team.Variants)

	limited, err := s.List(ctx, "m.yaml", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestSaveIfChanged(t *testing.T) {
	ctx := context.Background()
	s := New(setupTestDB(t))

	first, created, err := s.SaveIfChanged(ctx, "m.yaml", testDocument("A"))
	require.NoError(t, err)
	assert.True(t, created)

	same, created, err := s.SaveIfChanged(ctx, "m.yaml", testDocument("A"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, same.ID)

	_, created, err = s.SaveIfChanged(ctx, "m.yaml", testDocument("B"))
	require.NoError(t, err)
	assert.True(t, created)
}

func TestSaveLogsPassFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger.Logger
	logger.Logger = zap.New(core).Sugar()
	t.Cleanup(func() { logger.Logger = prev })

	ctx := logger.WithComponent(logger.WithPassID(context.Background(), "pass-7"), "generate")
	s := New(setupTestDB(t))

	rec, _, err := s.SaveIfChanged(ctx, "m.yaml", testDocument("A"))
	require.NoError(t, err)
	_, _, err = s.SaveIfChanged(ctx, "m.yaml", testDocument("A"))
	require.NoError(t, err)

	saved := logs.FilterMessage("Document saved").All()
	require.Len(t, saved, 1)
	fields := saved[0].ContextMap()
	assert.Equal(t, "pass-7", fields[logger.FieldPassID])
	assert.Equal(t, "generate", fields[logger.FieldComponent])
	assert.Equal(t, rec.ID, fields[logger.FieldRecordID])

	assert.Equal(t, 1, logs.FilterMessage("Document unchanged").Len())
}

// sqlmock covers the driver failure paths a real database will not produce on demand

func TestSave_Sqlmock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(sqlmock.AnyArg(), "m.yaml", schema.CurrentVersion, sqlmock.AnyArg(), 2, 1, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("disk I/O error"))

	_, err = New(db).Save(context.Background(), "m.yaml", testDocument("A"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatest_Sqlmock(t *testing.T) {
	columns := []string{"id", "source", "version", "digest", "node_count", "global_count", "body", "created_at"}

	t.Run("query error is not a not-found error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("FROM documents").WithArgs("m.yaml").WillReturnError(errors.New("database is locked"))

		_, err = New(db).Latest(context.Background(), "m.yaml")
		require.Error(t, err)
		assert.False(t, errors.IsNotFoundError(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupt body", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(columns).AddRow("id-1", "m.yaml", "1.0.0", "abc", 0, 0, "{not json", time.Now())
		mock.ExpectQuery("FROM documents").WithArgs("m.yaml").WillReturnRows(rows)

		_, err = New(db).Latest(context.Background(), "m.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "corrupt")
	})

	t.Run("list propagates row errors", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		rows := sqlmock.NewRows(columns).
			AddRow("id-1", "m.yaml", "1.0.0", "abc", 0, 0, `{"tealdoc_version":"1.0.0","nodes":[],"globals":[]}`, time.Now()).
			RowError(0, errors.New("connection reset"))
		mock.ExpectQuery("FROM documents").WithArgs("m.yaml", -1).WillReturnRows(rows)

		_, err = New(db).List(context.Background(), "m.yaml", 0)
		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
