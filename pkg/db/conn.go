package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Driver string

	// sqlite
	Path string

	// postgres
	User     string `env:"USER"`
	Host     string `env:"HOST"`
	Port     string `env:"PORT"`
	Password string `env:"PASSWORD"`
	Database string `env:"DBNAME"`
}

func (c Config) postgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable", c.Host, c.User, c.Password, c.Database, c.Port)
}

// sqliteDSN enables foreign keys and a busy timeout so concurrent writers
// wait for the lock instead of failing immediately.
func (c Config) sqliteDSN() string {
	return c.Path + "?_foreign_keys=1&_busy_timeout=5000&_journal_mode=WAL"
}

func newSqlConnection(config Config) (*sql.DB, error) {
	return sql.Open("postgres", config.postgresDSN())
}
