package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, zapcore.InfoLevel, cfg.Runtime.Log.Level())
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "rxbuf.yml", `
input:
  path: /var/log/app.log
batch:
  max_lines: 500
  max_wait: 250ms
sink:
  type: sqlite
  dsn: file:batches.db
runtime:
  metrics_addr: :9000
  logging:
    level: debug
`)

	cfg, err := Load(path, "")
	require.NoError(t, err)

	require.Equal(t, "/var/log/app.log", cfg.Input.Path)
	require.Equal(t, 500, cfg.Batch.MaxLines)
	require.Equal(t, 250*time.Millisecond, cfg.Batch.MaxWait)
	require.Equal(t, SinkSQLite, cfg.Sink.Type)
	require.Equal(t, "file:batches.db", cfg.Sink.DSN)
	require.Equal(t, ":9000", cfg.Runtime.MetricsAddr)
	require.Equal(t, zapcore.DebugLevel, cfg.Runtime.Log.Level())
}

func TestLoadEnv(t *testing.T) {
	path := writeFile(t, "rxbuf.yml", "batch:\n  max_lines: 500\n")
	envPath := writeFile(t, ".env", "RXBUF_MAX_LINES=20\nRXBUF_MAX_WAIT=3s\n")

	t.Run("env file overrides yaml", func(t *testing.T) {
		cfg, err := Load(path, envPath)
		require.NoError(t, err)
		require.Equal(t, 20, cfg.Batch.MaxLines)
		require.Equal(t, 3*time.Second, cfg.Batch.MaxWait)
	})

	t.Run("process env overrides env file", func(t *testing.T) {
		t.Setenv("RXBUF_MAX_LINES", "7")

		cfg, err := Load(path, envPath)
		require.NoError(t, err)
		require.Equal(t, 7, cfg.Batch.MaxLines)
		require.Equal(t, 3*time.Second, cfg.Batch.MaxWait)
	})

	t.Run("missing env file", func(t *testing.T) {
		cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
		require.NoError(t, err)
		require.Equal(t, 500, cfg.Batch.MaxLines)
	})

	t.Run("malformed value", func(t *testing.T) {
		t.Setenv("RXBUF_MAX_WAIT", "soon")

		_, err := Load(path, "")
		require.ErrorContains(t, err, "RXBUF_MAX_WAIT")
	})
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"max lines", func(c *Config) { c.Batch.MaxLines = 0 }, "max_lines"},
		{"max wait", func(c *Config) { c.Batch.MaxWait = 0 }, "max_wait"},
		{"sqlite without dsn", func(c *Config) { c.Sink.Type = SinkSQLite }, "sink.dsn"},
		{"unknown sink", func(c *Config) { c.Sink.Type = "kafka" }, "unknown sink"},
		{"unknown level", func(c *Config) { c.Runtime.Log.Lvl = "loud" }, "unknown log level"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			require.ErrorContains(t, cfg.Validate(), tc.errMsg)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"), "")
	require.Error(t, err)
}
