package sqlstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a migrated in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(context.Background(), DialectSQLite, ":memory:")
	require.NoError(t, err, "failed to create test database")

	require.NoError(t, db.Migrate(context.Background()), "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{"clients", "leads", "projects", "tasks", "transactions", "activity_log", "api_keys"}
	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}

	// idempotent
	require.NoError(t, db.Migrate(context.Background()))
}

func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&enabled))
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

func TestRebind(t *testing.T) {
	pg := &DB{dialect: DialectPostgres}
	require.Equal(t, "SELECT * FROM t WHERE a = $1 AND b IN ($2, $3)", pg.rebind("SELECT * FROM t WHERE a = ? AND b IN (?, ?)"))

	lite := &DB{dialect: DialectSQLite}
	require.Equal(t, "a = ?", lite.rebind("a = ?"))
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("")
	require.NoError(t, err)
	require.Equal(t, DialectSQLite, d)

	d, err = ParseDialect("pgx")
	require.NoError(t, err)
	require.Equal(t, DialectPostgres, d)

	_, err = ParseDialect("mysql")
	require.Error(t, err)
}
