package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("database:\n  host: localhost\n"))
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "https://www.polessu.by/ruz/", cfg.Source.BaseURL)
	assert.Equal(t, []string{"term2/?q=%s", "term2/?f=2&q=%s", "?q=%s", "?f=2&q=%s"}, cfg.Source.GroupPages)
	assert.Equal(t, 3, cfg.Source.Retry.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Source.Retry.Delay)
	assert.Equal(t, "@every 30m", cfg.Sync.Schedule)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.RabbitMQ.Enabled)
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("TT_DB_PASSWORD", "s3cret")

	cfg, err := Parse([]byte("database:\n  password: ${TT_DB_PASSWORD}\nsource:\n  base_url: http://example.test/ruz\n"))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, "http://example.test/ruz/", cfg.Source.BaseURL)
	assert.Contains(t, cfg.Database.DSN(), "password=s3cret")
}

func TestParse_RejectsBadGroupPage(t *testing.T) {
	_, err := Parse([]byte("source:\n  group_pages: [\"?q=\"]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\nsync:\n  max_concurrency: 8\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8, cfg.Sync.MaxConcurrency)
}

func TestSourceConfig_Location(t *testing.T) {
	assert.Equal(t, time.UTC, SourceConfig{Timezone: "Nowhere/Nope"}.Location())
	assert.Equal(t, "UTC", SourceConfig{Timezone: "UTC"}.Location().String())
}
