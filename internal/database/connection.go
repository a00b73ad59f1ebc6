package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/devsetgo/userbase/internal/config"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// DB wraps a database/sql handle for the configured engine.
type DB struct {
	SQL    *sql.DB
	Driver string
	logger *slog.Logger
}

// Connect opens the configured engine, verifies connectivity and applies
// pending migrations. A failure here is fatal to startup.
func Connect(cfg *config.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	var driverName, dialect string
	switch cfg.Driver {
	case config.DriverPostgres:
		driverName, dialect = "pgx", "postgres"
	case config.DriverSQLite:
		driverName, dialect = "sqlite", "sqlite3"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	sqlDB, err := sql.Open(driverName, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		// Serialize writers; sqlite holds a single write lock per database.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect(dialect); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("unable to set migration dialect: %w", err)
	}
	if err := goose.Up(sqlDB, "migrations"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("unable to run migrations: %w", err)
	}

	logger.Info("database connection established",
		slog.String("driver", cfg.Driver),
	)

	return &DB{SQL: sqlDB, Driver: cfg.Driver, logger: logger}, nil
}

// Close shuts the pool down. Safe to call on a partially constructed DB.
func (db *DB) Close() {
	if db == nil || db.SQL == nil {
		return
	}
	db.logger.Info("closing database connection pool")
	if err := db.SQL.Close(); err != nil {
		db.logger.Error("error closing database", slog.Any("error", err))
	}
}

// HealthCheck runs a bounded connectivity probe.
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.SQL.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}

// TypeName returns the human-readable engine name.
func (db *DB) TypeName() string {
	if db.Driver == config.DriverPostgres {
		return "PostgreSQL"
	}
	return "SQLite"
}

// ServerVersion round-trips a trivial query and returns the engine version.
func (db *DB) ServerVersion(ctx context.Context) (string, error) {
	query := "SELECT sqlite_version()"
	if db.Driver == config.DriverPostgres {
		query = "SELECT version()"
	}

	var version string
	if err := db.SQL.QueryRowContext(ctx, query).Scan(&version); err != nil {
		return "", fmt.Errorf("failed to read server version: %w", err)
	}
	return version, nil
}
