package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var migrations embed.FS

// Open connects to the configured database and verifies the connection.
// driver is "mysql" or "sqlite"; dsn is a MySQL DSN or an SQLite file path.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case "mysql":
		cfg, perr := mysql.ParseDSN(dsn)
		if perr != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", perr)
		}
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		cfg.ParseTime = true
		cfg.Loc = time.UTC
		db, err = sql.Open("mysql", cfg.FormatDSN())
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(30 * time.Minute)
	case "sqlite":
		db, err = sql.Open("sqlite", dsn)
		if err != nil {
			return nil, err
		}
		// one writer at a time; also keeps ":memory:" on a single connection
		db.SetMaxOpenConns(1)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded schema migrations for driver.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var dialect goose.Dialect
	switch driver {
	case "mysql":
		dialect = goose.DialectMySQL
	case "sqlite":
		dialect = goose.DialectSQLite3
	default:
		return fmt.Errorf("unsupported driver %q", driver)
	}

	fsys, err := fs.Sub(migrations, "migrations/"+driver)
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// OpenAndMigrate is Open followed by Migrate.
func OpenAndMigrate(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := Open(ctx, driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
