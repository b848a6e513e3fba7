package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pressly/goose/v3"
	"github.com/streamline-io/streamline/internal/config"

	_ "github.com/lib/pq" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var embedMigrations embed.FS

// DB is an open connection together with the SQL dialect it speaks.
type DB struct {
	*sql.DB
	Dialect string
}

// Open connects to the configured database and brings the schema up to date.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*DB, error) {
	var (
		conn *sql.DB
		err  error
	)

	switch cfg.Database.Type {
	case DialectPostgres:
		conn, err = openPostgres(cfg, logger)
	case DialectSQLite, "":
		conn, err = openSQLite(cfg.Database.Path, logger)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
	if err != nil {
		return nil, err
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{DB: conn, Dialect: cfg.Database.Type}
	if db.Dialect == "" {
		db.Dialect = DialectSQLite
	}

	if err := db.Migrate(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	logger.Info("database ready", "dialect", db.Dialect)
	return db, nil
}

// Migrate applies every pending migration for the connection's dialect.
func (db *DB) Migrate(ctx context.Context) error {
	goose.SetBaseFS(embedMigrations)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(gooseDialect(db.Dialect)); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}

	dir := "migrations/" + db.Dialect
	if err := goose.UpContext(ctx, db.DB, dir); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}
	return nil
}

// Version reports the most recently applied migration.
func (db *DB) Version(ctx context.Context) (int64, error) {
	if err := goose.SetDialect(gooseDialect(db.Dialect)); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, db.DB)
}

func gooseDialect(dialect string) string {
	if dialect == DialectPostgres {
		return "postgres"
	}
	return "sqlite3"
}

func openPostgres(cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	logger.Info("opening postgres connection")

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL connection: %w", err)
	}
	if cfg.Database.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxOpenConns)
	}
	return db, nil
}

func openSQLite(path string, logger *slog.Logger) (*sql.DB, error) {
	if path != ":memory:" {
		if err := createDataDir(filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000"
	}
	logger.Info("opening sqlite database", "path", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}

// createDataDir ensures the data directory exists
func createDataDir(dir string) error {
	if stat, err := os.Stat(dir); err == nil {
		if !stat.IsDir() {
			return fmt.Errorf("path %s exists but is not a directory", dir)
		}
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat directory %s: %w", dir, err)
	}
	return os.MkdirAll(dir, 0755)
}
