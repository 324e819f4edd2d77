package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
)

//go:embed migrations
var migrationFS embed.FS

// Migrator wraps a migrate instance bound to one open database.
type Migrator struct {
	m       *migrate.Migrate
	dialect string
}

// NewMigrator prepares the embedded migrations for dialect against db. The
// caller keeps ownership of db.
func NewMigrator(db *sql.DB, dialect string, log zerolog.Logger) (*Migrator, error) {
	src, err := iofs.New(migrationFS, "migrations/"+dialect)
	if err != nil {
		return nil, fmt.Errorf("migrations source: %w", err)
	}

	var driver database.Driver
	switch dialect {
	case DialectMySQL:
		// A dedicated connection keeps Close from closing the caller's pool.
		var conn *sql.Conn
		if conn, err = db.Conn(context.Background()); err == nil {
			driver, err = mysql.WithConnection(context.Background(), conn, &mysql.Config{})
		}
	case DialectSQLite:
		driver, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("migrations driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dialect, driver)
	if err != nil {
		return nil, fmt.Errorf("migrations init: %w", err)
	}
	m.Log = &migrateLogger{log: log}
	return &Migrator{m: m, dialect: dialect}, nil
}

// Up applies all pending migrations. No pending migrations is not an error.
func (g *Migrator) Up() error {
	if err := g.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Down rolls back steps migrations.
func (g *Migrator) Down(steps int) error {
	if err := g.m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Version returns the applied version; zero when nothing was applied.
func (g *Migrator) Version() (uint, bool, error) {
	v, dirty, err := g.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// Force sets the version without running migrations.
func (g *Migrator) Force(version int) error {
	return g.m.Force(version)
}

// Close releases the migration source and the dedicated MySQL connection.
// It is a no-op for SQLite, whose driver would close the shared *sql.DB.
// The caller's *sql.DB stays open either way.
func (g *Migrator) Close() error {
	if g.dialect == DialectSQLite {
		return nil
	}
	srcErr, dbErr := g.m.Close()
	return errors.Join(srcErr, dbErr)
}

// Migrate applies every pending migration for dialect.
func Migrate(db *sql.DB, dialect string, log zerolog.Logger) error {
	g, err := NewMigrator(db, dialect, log)
	if err != nil {
		return err
	}
	defer g.Close()
	if err := g.Up(); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

type migrateLogger struct{ log zerolog.Logger }

func (l *migrateLogger) Printf(format string, v ...any) {
	l.log.Debug().Msgf(format, v...)
}

func (l *migrateLogger) Verbose() bool { return false }
