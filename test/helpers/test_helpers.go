package helpers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nimasrn/inbox-ledger/pkg/db"
	"github.com/nimasrn/inbox-ledger/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// SetupTestDB opens a migrated sqlite ledger in a temporary directory.
func SetupTestDB(t testing.TB) *db.DB {
	t.Helper()

	d, err := db.Open(db.Config{
		Driver: db.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "ledger.db"),
	}, false)
	require.NoError(t, err)
	require.NoError(t, d.MigrateDB(db.DriverSQLite))

	t.Cleanup(func() {
		_ = d.Close()
	})
	return d
}

// SetupTestRedis starts a miniredis server and an adapter bound to it. The
// adapter is registered under the test name so parallel tests do not share it.
func SetupTestRedis(t testing.TB) (*miniredis.Miniredis, redis.RedisAdapter) {
	t.Helper()

	mr := miniredis.RunT(t)
	adapter, err := redis.NewRedisAdapter(t.Name(), "test:", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = adapter.Close()
	})
	return mr, adapter
}

// WriteSourceFile writes body to a new file named name in a fresh temporary
// directory, standing in for a downloaded attachment.
func WriteSourceFile(t testing.TB, name, body string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

// CountFiles returns the number of regular files under root.
func CountFiles(t testing.TB, root string) int {
	t.Helper()

	n := 0
	err := filepath.Walk(root, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.Mode().IsRegular() {
			n++
		}
		return nil
	})
	require.NoError(t, err)
	return n
}

// Today is the current calendar day at midnight UTC.
func Today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
