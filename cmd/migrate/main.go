// Command migrate applies or rolls back the embedded schema migrations.
package main

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/iliyamo/filmorate/internal/config"
	"github.com/iliyamo/filmorate/internal/database"
	"github.com/iliyamo/filmorate/internal/logging"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	config.LoadDotEnv(".")
	cfg, err := config.Load()
	log := logging.New(logging.Config{Format: "console"})
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if cfg.Storage == config.StorageMemory {
		log.Fatal().Msg("STORAGE=memory has no schema to migrate")
	}

	db, dialect, err := open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	m, err := database.NewMigrator(db, dialect, log)
	if err != nil {
		log.Fatal().Err(err).Msg("migration init failed")
	}
	defer m.Close()

	if err := run(m, args, log); err != nil {
		log.Fatal().Err(err).Str("command", args[0]).Msg("migration failed")
	}
}

func run(m *database.Migrator, args []string, log zerolog.Logger) error {
	switch args[0] {
	case "up":
		if err := m.Up(); err != nil {
			return err
		}
		log.Info().Msg("migrations: up completed")
	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return fmt.Errorf("down: invalid steps argument %q", args[1])
			}
			steps = n
		}
		if err := m.Down(steps); err != nil {
			return err
		}
		log.Info().Int("steps", steps).Msg("migrations: down completed")
	case "version":
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version: %d  dirty: %v\n", v, dirty)
	case "force":
		if len(args) < 2 {
			return fmt.Errorf("force: version argument required")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("force: invalid version %q", args[1])
		}
		if err := m.Force(v); err != nil {
			return err
		}
		log.Info().Int("version", v).Msg("migrations: forced")
	default:
		usage()
		os.Exit(1)
	}
	return nil
}

func open(cfg config.Config) (*sql.DB, string, error) {
	if cfg.Storage == config.StorageMySQL {
		db, err := database.OpenMySQL(cfg.DB.User, cfg.DB.Pass, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name)
		return db, database.DialectMySQL, err
	}
	db, err := database.OpenSQLite(cfg.SQLitePath)
	return db, database.DialectSQLite, err
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate <command> [args]

Commands:
  up           Apply all pending migrations
  down [N]     Roll back N migrations (default: 1)
  version      Print the current migration version
  force V      Set the version without running migrations

The target database is chosen by STORAGE (mysql or sqlite) and the
matching DB_* or SQLITE_PATH variables.`)
}
