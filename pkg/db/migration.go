package db

import (
	"database/sql"
	"embed"
	"sync"

	"github.com/nimasrn/inbox-ledger/pkg/logger"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// goose keeps dialect and base FS in package state.
var gooseMu sync.Mutex

func dialectFor(driver string) (string, string, error) {
	switch driver {
	case DriverSQLite, "":
		return "sqlite3", "migrations/sqlite", nil
	case DriverPostgres:
		return "postgres", "migrations/postgres", nil
	}
	return "", "", errors.Errorf("unsupported database driver %q", driver)
}

// Migrate opens a dedicated connection for the configured driver and applies
// the embedded migrations.
func Migrate(cfg Config) error {
	if cfg.Driver == DriverPostgres {
		sqlDB, err := newSqlConnection(cfg)
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		return MigrateSQL(sqlDB, cfg.Driver)
	}

	g, err := Create(cfg, false)
	if err != nil {
		return err
	}
	sqlDB, err := g.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()
	return MigrateSQL(sqlDB, cfg.Driver)
}

// MigrateSQL applies the embedded migrations on an open connection.
func MigrateSQL(sqlDB *sql.DB, driver string) error {
	dialect, dir, err := dialectFor(driver)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(logger.GetLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return errors.Wrap(err, "set goose dialect")
	}
	if err := goose.Up(sqlDB, dir); err != nil {
		return errors.Wrap(err, "run migrations")
	}
	return nil
}

// MigrateDB applies the embedded migrations through the handle held by r.
func (r *DB) MigrateDB(driver string) error {
	sqlDB, err := r.write.DB()
	if err != nil {
		return err
	}
	return MigrateSQL(sqlDB, driver)
}
