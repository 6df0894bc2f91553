package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Reads values from the file", func(t *testing.T) {
		// Given: a config file overriding a few values
		path := filepath.Join(t.TempDir(), "config.yml")
		content := `
log-level: debug
storage: redis
auto-reset-delay: 500ms
redis:
  host: cache
  port: "6380"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		// When: the config is loaded
		conf, err := Load(path)
		require.NoError(t, err)

		// Then: file values win and the rest falls back to defaults
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, StorageRedis, conf.Storage)
		assert.Equal(t, 500*time.Millisecond, conf.AutoResetDelay)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, ModeServer, conf.Mode)
		assert.Equal(t, time.Hour, conf.GameTTL)
	})

	t.Run("Falls back to the environment without a file", func(t *testing.T) {
		// Given: no config file and an environment override
		t.Setenv("TICTACTOE_MODE", ModeConsole)

		// When: the config is loaded from a missing path
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
		require.NoError(t, err)

		// Then: defaults and the environment are used
		assert.Equal(t, ModeConsole, conf.Mode)
		assert.Equal(t, StorageMemory, conf.Storage)
		assert.Equal(t, 3*time.Second, conf.AutoResetDelay)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("MustLoad panics on a broken file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("auto-reset-delay: [not, a, duration]"), 0o600))

		assert.Panics(t, func() {
			MustLoad(path)
		})
	})
}
