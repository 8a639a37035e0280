package data

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"go-store-builder/internal/apperr"
	"go-store-builder/internal/config"

	"github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var migrationsFS embed.FS

// Drivers understood by NewDB and ApplyMigrations.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// NewDB creates a new database connection pool for the configured driver.
func NewDB(cfg config.DBConfig) (*sqlx.DB, error) {
	switch cfg.Driver {
	case DriverMySQL:
		dsn, err := mysqlDSN(cfg.DSN)
		if err != nil {
			return nil, err
		}
		// sqlx.Connect opens a connection and pings it to verify it's alive.
		db, err := sqlx.Connect("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return db, nil
	case DriverSQLite:
		db, err := sqlx.Connect("sqlite", cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// mysqlDSN forces the options the repositories and migrations rely on.
func mysqlDSN(dsn string) (string, error) {
	c, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	c.ParseTime = true
	c.MultiStatements = true
	// Report matched rather than changed rows so upserts can rely on RowsAffected.
	c.ClientFoundRows = true
	return c.FormatDSN(), nil
}

// ApplyMigrations runs all up migrations against an open connection.
func ApplyMigrations(db *sqlx.DB, driver string) error {
	var (
		target database.Driver
		err    error
	)
	switch driver {
	case DriverMySQL:
		target, err = migratemysql.WithInstance(db.DB, &migratemysql.Config{})
	case DriverSQLite:
		target, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	// Up applies all available up migrations. m.Close is not called because it
	// would close the shared connection pool.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// mapUnique turns a unique-key violation into apperr.ErrConflict carrying msg.
// Other errors are returned unchanged.
func mapUnique(err error, msg string) error {
	if isUniqueViolation(err) {
		return apperr.Conflict("%s", msg)
	}
	return err
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on any error.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
