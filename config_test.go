package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) (*Config, error) {
	t.Helper()

	var got *Config
	app := newApp(func(_ context.Context, cfg *Config) error {
		got = cfg
		return nil
	})
	err := app.Run(append([]string{"reverse-short-url"}, args...))
	return got, err
}

func TestConfig_Defaults(t *testing.T) {
	cfg, err := runApp(t, "--token", "abc")
	require.NoError(t, err)

	assert.Equal(t, "abc", cfg.Token)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.Timeout.Duration)
	assert.Equal(t, 10, cfg.MaxRedirects)
	assert.Equal(t, defaultBiliHosts, cfg.BiliHosts)
	assert.False(t, cfg.Dev)
}

func TestConfig_FileWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
token = "from-file"
log_level = "debug"
timeout = "2s"
max_redirects = 3
bili_hosts = ["b.example"]
`), 0o644))

	cfg, err := runApp(t, "--config", path, "--max-redirects", "4", "--dev")
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Token)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2*time.Second, cfg.Timeout.Duration)
	assert.Equal(t, 4, cfg.MaxRedirects)
	assert.Equal(t, []string{"b.example"}, cfg.BiliHosts)
	assert.True(t, cfg.Dev)
}

func TestConfig_FlagHosts(t *testing.T) {
	cfg, err := runApp(t, "--token", "abc", "--bili-host", "a.example", "--bili-host", "b.example")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.example", "b.example"}, cfg.BiliHosts)
}

func TestConfig_TokenFromEnv(t *testing.T) {
	t.Setenv("BOT_TOKEN", "from-env")

	cfg, err := runApp(t)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Token)
}

func TestConfig_Invalid(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")

	badDuration := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(badDuration, []byte(`timeout = "soon"`), 0o644))

	tests := []struct {
		name string
		args []string
	}{
		{"missing token", nil},
		{"zero timeout", []string{"--token", "abc", "--timeout", "0s"}},
		{"zero redirects", []string{"--token", "abc", "--max-redirects", "0"}},
		{"missing file", []string{"--token", "abc", "--config", filepath.Join(t.TempDir(), "nope.toml")}},
		{"bad duration", []string{"--token", "abc", "--config", badDuration}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := runApp(t, tc.args...)
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}
