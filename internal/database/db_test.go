package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/devsetgo/userbase/internal/config"
	"github.com/devsetgo/userbase/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	cfg := &config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Name:   filepath.Join(t.TempDir(), "test"),
	}

	db, err := Connect(cfg, slog.Default())
	require.NoError(t, err)
	t.Cleanup(db.Close)

	return db
}

func TestConnect_AppliesMigrations(t *testing.T) {
	db := newTestDB(t)

	var count int
	err := db.SQL.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestHealthCheck(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, db.HealthCheck(context.Background()))
}

func TestServerVersion(t *testing.T) {
	db := newTestDB(t)

	version, err := db.ServerVersion(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, version)
	assert.Equal(t, "SQLite", db.TypeName())
}

func TestRebind(t *testing.T) {
	sqliteDB := &DB{Driver: config.DriverSQLite}
	postgresDB := &DB{Driver: config.DriverPostgres}

	query := "SELECT id FROM users WHERE email = ? AND is_active = ? LIMIT ? OFFSET ?"

	assert.Equal(t, query, sqliteDB.Rebind(query))
	assert.Equal(t,
		"SELECT id FROM users WHERE email = $1 AND is_active = $2 LIMIT $3 OFFSET $4",
		postgresDB.Rebind(query),
	)
}

func TestMapDriverError(t *testing.T) {
	assert.NoError(t, MapDriverError(nil))
	assert.ErrorIs(t, MapDriverError(sql.ErrNoRows), models.ErrNotFound)

	pgUnique := &pgconn.PgError{Code: "23505"}
	assert.ErrorIs(t, MapDriverError(pgUnique), models.ErrConflict)

	pgNotNull := &pgconn.PgError{Code: "23502"}
	assert.ErrorIs(t, MapDriverError(pgNotNull), models.ErrBadRequest)

	unknown := errors.New("boom")
	assert.Equal(t, unknown, MapDriverError(unknown))
}

func TestMapDriverError_SQLiteUniqueViolation(t *testing.T) {
	db := newTestDB(t)

	insert := `INSERT INTO users (id, user_name, first_name, last_name, email, notes,
		password_hash, is_active, is_approved, is_admin, date_created, date_updated)
		VALUES (?, ?, 'a', 'b', ?, '', 'h', FALSE, FALSE, FALSE, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

	_, err := db.SQL.Exec(insert, "id1", "kittycat1", "a@b.com")
	require.NoError(t, err)

	_, err = db.SQL.Exec(insert, "id2", "kittycat1", "other@b.com")
	require.Error(t, err)
	assert.ErrorIs(t, MapDriverError(err), models.ErrConflict)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	insert := `INSERT INTO users (id, user_name, first_name, last_name, email, notes,
		password_hash, is_active, is_approved, is_admin, date_created, date_updated)
		VALUES ('id1', 'kittycat1', 'a', 'b', 'a@b.com', '', 'h', FALSE, FALSE, FALSE,
		CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

	err := db.WithTx(ctx, func(ctx context.Context, tx DBTX) error {
		if _, err := tx.ExecContext(ctx, insert); err != nil {
			return err
		}
		return fmt.Errorf("forced failure")
	})
	require.Error(t, err)

	// The half-applied row is gone.
	var count int
	require.NoError(t, db.SQL.QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	insert := `INSERT INTO users (id, user_name, first_name, last_name, email, notes,
		password_hash, is_active, is_approved, is_admin, date_created, date_updated)
		VALUES ('id1', 'kittycat1', 'a', 'b', 'a@b.com', '', 'h', FALSE, FALSE, FALSE,
		CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`

	err := db.WithTx(ctx, func(ctx context.Context, tx DBTX) error {
		_, err := tx.ExecContext(ctx, insert)
		return err
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, db.SQL.QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
	assert.Equal(t, 1, count)
}
