package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"APP_ENV", "APP_NAME", "APP_BASE_DIR", "STORAGE_ROOT", "DATABASE_DRIVER", "DATABASE_PATH",
	"POSTGRES_HOST", "POSTGRES_USER", "POSTGRES_DBNAME", "REDIS_ADDR", "STATS_CACHE_TTL",
	"EXPENSE_STRICT_TRANSITIONS", "MESSAGE_LIST_MAX_LIMIT",
}

// clearEnv unsets the config keys for the test and restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	base := t.TempDir()
	t.Setenv("APP_BASE_DIR", base)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dev", c.AppEnv)
	assert.Equal(t, "sqlite", c.DatabaseDriver)
	assert.Equal(t, filepath.Join(base, "storage", "arquivos_clientes"), c.StorageRoot)
	assert.Equal(t, filepath.Join(base, "data", "whatsapp_dados.db"), c.DatabasePath)
	assert.True(t, c.ExpenseStrictTransitions)
	assert.Equal(t, 1000, c.MessageListMaxLimit)
	assert.Equal(t, 30*time.Second, c.StatsCacheTTL)
	assert.False(t, c.RedisEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	base := t.TempDir()
	abs := filepath.Join(t.TempDir(), "ledger.db")
	t.Setenv("APP_BASE_DIR", base)
	t.Setenv("STORAGE_ROOT", "files")
	t.Setenv("DATABASE_PATH", abs)
	t.Setenv("EXPENSE_STRICT_TRANSITIONS", "false")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "files"), c.StorageRoot)
	assert.Equal(t, abs, c.DatabasePath)
	assert.False(t, c.ExpenseStrictTransitions)
	assert.True(t, c.RedisEnabled())
	assert.Equal(t, []string{"localhost:6379"}, c.RedisOptions().Addrs)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("APP_BASE_DIR="+dir+"\nAPP_NAME=ledger_from_file\n"), 0o644))
	t.Setenv("APP_NAME", "")
	require.NoError(t, os.Unsetenv("APP_NAME"))

	c, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "ledger_from_file", c.AppName)
	assert.Equal(t, dir, c.AppBaseDir)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	c := &Config{
		StorageRoot:         "",
		DatabaseDriver:      "postgres",
		MessageListMaxLimit: 0,
	}
	err := c.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	for _, want := range []string{"STORAGE_ROOT", "POSTGRES_HOST", "POSTGRES_USER", "POSTGRES_DBNAME", "MESSAGE_LIST_MAX_LIMIT"} {
		assert.Contains(t, err.Error(), want)
	}

	c.DatabaseDriver = "mysql"
	assert.ErrorContains(t, c.Validate(), "DATABASE_DRIVER")
}
