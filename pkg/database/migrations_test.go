package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(Config{
		Path:            filepath.Join(t.TempDir(), "nested", "test.db"),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrator_ApplyEmbeddedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	m := NewMigrator(db, zap.NewNop())

	first, err := m.ApplyEmbedded(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := m.ApplyEmbedded(ctx)
	require.NoError(t, err)
	assert.Zero(t, second)

	for _, table := range []string{"supplies", "absences"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err)
		assert.Equal(t, table, name)
	}
}

func TestMigrator_AppliesInVersionOrder(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"sql/002_add_note.sql": {Data: []byte("ALTER TABLE things ADD COLUMN note TEXT;")},
		"sql/001_things.sql":   {Data: []byte("CREATE TABLE things (id INTEGER PRIMARY KEY);")},
		"sql/README.md":        {Data: []byte("ignored")},
	}

	n, err := NewMigrator(db, zap.NewNop()).Apply(context.Background(), fsys, "sql")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows, err := db.Query("SELECT name FROM schema_migrations ORDER BY version")
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	assert.Equal(t, []string{"things", "add_note"}, names)
}

func TestMigrator_FailedMigrationIsNotRecorded(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"sql/001_ok.sql":     {Data: []byte("CREATE TABLE ok (id INTEGER);")},
		"sql/002_broken.sql": {Data: []byte("CREATE TABLE ok (id INTEGER);")},
	}

	n, err := NewMigrator(db, zap.NewNop()).Apply(ctx, fsys, "sql")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "002_broken")
	assert.Equal(t, 1, n)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestLoadMigrations_Errors(t *testing.T) {
	tests := []struct {
		name string
		fsys fstest.MapFS
	}{
		{"no version", fstest.MapFS{"sql/init.sql": {Data: []byte("SELECT 1;")}}},
		{"no name", fstest.MapFS{"sql/001.sql": {Data: []byte("SELECT 1;")}}},
		{"duplicate version", fstest.MapFS{
			"sql/001_a.sql": {Data: []byte("SELECT 1;")},
			"sql/001_b.sql": {Data: []byte("SELECT 1;")},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMigrations(tt.fsys, "sql")
			assert.Error(t, err)
		})
	}
}

func TestDB_WithTransaction(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	_, err := db.Exec("CREATE TABLE notes (body TEXT)")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO notes VALUES ('rolled back')"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	require.NoError(t, db.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec("INSERT INTO notes VALUES ('kept')")
		return err
	}))

	assert.Panics(t, func() {
		_ = db.WithTransaction(ctx, func(tx *sql.Tx) error {
			_, _ = tx.Exec("INSERT INTO notes VALUES ('panicked')")
			panic("nil pointer")
		})
	})

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&count))
	assert.Equal(t, 1, count)
}
