package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/nimasrn/inbox-ledger/pkg/db"
	"github.com/nimasrn/inbox-ledger/pkg/logger"
	"github.com/nimasrn/inbox-ledger/pkg/redis"
	"github.com/pkg/errors"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every setting the ledger reads. It is built once by Load and
// handed to the components that need it; nothing reads the environment
// directly.
type Config struct {
	AppEnv     string `env:"APP_ENV,default=dev"`
	AppName    string `env:"APP_NAME,default=inbox_ledger"`
	AppBaseDir string `env:"APP_BASE_DIR"`

	StorageRoot string `env:"STORAGE_ROOT,default=storage/arquivos_clientes"`

	DatabaseDriver string `env:"DATABASE_DRIVER,default=sqlite"`
	DatabasePath   string `env:"DATABASE_PATH,default=data/whatsapp_dados.db"`
	DatabaseDebug  bool   `env:"DATABASE_DEBUG"`

	PostgresHost     string `env:"POSTGRES_HOST"`
	PostgresPort     string `env:"POSTGRES_PORT,default=5432"`
	PostgresUser     string `env:"POSTGRES_USER"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"`
	PostgresDatabase string `env:"POSTGRES_DBNAME"`

	RedisAddr               string        `env:"REDIS_ADDR"`
	RedisUsername           string        `env:"REDIS_USER"`
	RedisPassword           string        `env:"REDIS_PASS"`
	RedisDatabase           int           `env:"REDIS_DATABASE"`
	RedisUniversalKeyPrefix string        `env:"REDIS_KEY_PREFIX,default=inbox_ledger:"`
	StatsCacheTTL           time.Duration `env:"STATS_CACHE_TTL,default=30s"`

	MetricsListenAddr string `env:"METRICS_LISTEN_ADDR,default=:9090"`
	MetricsURI        string `env:"METRICS_URI,default=/metrics"`
	PromNamespace     string `env:"PROM_NAMESPACE,default=inbox_ledger"`

	LogLevel string `env:"LOG_LEVEL,default=info"`

	ExpenseStrictTransitions bool `env:"EXPENSE_STRICT_TRANSITIONS,default=true"`
	MessageListMaxLimit      int  `env:"MESSAGE_LIST_MAX_LIMIT,default=1000"`
}

// Load reads the optional dotenv file at path into the environment, maps the
// environment onto a Config, resolves relative paths against the base
// directory and validates the result.
func Load(path string) (*Config, error) {
	logger.Info("loading configs..", "path", path)
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, errors.Wrapf(err, "failed to load configuration file %s", path)
		}
	}

	c := &Config{}
	if _, err := env.UnmarshalFromEnviron(c); err != nil {
		return nil, errors.Wrap(err, "failed to map env variables to configuration")
	}

	if err := c.resolvePaths(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) resolvePaths() error {
	base := c.AppBaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return errors.Wrap(err, "resolve base dir")
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return errors.Wrap(err, "resolve base dir")
	}
	c.AppBaseDir = base
	c.StorageRoot = resolve(base, c.StorageRoot)
	if c.DatabaseDriver == db.DriverSQLite {
		c.DatabasePath = resolve(base, c.DatabasePath)
	}
	return nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var problems []string
	if c.StorageRoot == "" {
		problems = append(problems, "STORAGE_ROOT is empty")
	}
	switch c.DatabaseDriver {
	case db.DriverSQLite:
		if c.DatabasePath == "" {
			problems = append(problems, "DATABASE_PATH is required for sqlite")
		}
	case db.DriverPostgres:
		if c.PostgresHost == "" {
			problems = append(problems, "POSTGRES_HOST is required for postgres")
		}
		if c.PostgresUser == "" {
			problems = append(problems, "POSTGRES_USER is required for postgres")
		}
		if c.PostgresDatabase == "" {
			problems = append(problems, "POSTGRES_DBNAME is required for postgres")
		}
	default:
		problems = append(problems, "DATABASE_DRIVER must be sqlite or postgres, got \""+c.DatabaseDriver+"\"")
	}
	if c.MessageListMaxLimit <= 0 {
		problems = append(problems, "MESSAGE_LIST_MAX_LIMIT must be positive")
	}
	if c.StatsCacheTTL < 0 {
		problems = append(problems, "STATS_CACHE_TTL must not be negative")
	}
	if len(problems) > 0 {
		return errors.Wrap(ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) DB() db.Config {
	return db.Config{
		Driver:   c.DatabaseDriver,
		Path:     c.DatabasePath,
		Host:     c.PostgresHost,
		Port:     c.PostgresPort,
		User:     c.PostgresUser,
		Password: c.PostgresPassword,
		Database: c.PostgresDatabase,
	}
}

// RedisEnabled reports whether the stats cache should be backed by redis.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != "" && c.StatsCacheTTL > 0
}

func (c *Config) RedisOptions() *redis.Options {
	return &redis.Options{
		Addrs:    strings.Split(c.RedisAddr, ","),
		Username: c.RedisUsername,
		Password: c.RedisPassword,
		DB:       c.RedisDatabase,
	}
}
