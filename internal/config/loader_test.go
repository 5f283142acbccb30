package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir mirrors t.Chdir, which is unavailable before Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func writeConfigFile(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	chdir(t, dir)
}

func TestLoadFromFile(t *testing.T) {
	writeConfigFile(t, `
http:
  addr: "127.0.0.1:9090"
gossip:
  endpoints:
    - "http://gossip-1:6000"
    - "http://gossip-2:6000"
  credits_url: "http://credits:7000/api/pods-credits"
  poll_interval: 20s
  request_timeout: 5s
`)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.Addr)
	assert.Len(t, cfg.Gossip.Endpoints, 2)
	assert.Equal(t, 20*time.Second, cfg.Gossip.PollInterval)
	assert.Equal(t, 5*time.Second, cfg.Gossip.RequestTimeout)

	// Untouched sections keep their defaults.
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "data/podwatch.db", cfg.DB.Path)
	assert.Equal(t, 64, cfg.Hub.ClientBuffer)
	assert.Equal(t, 24*time.Hour, cfg.Gossip.SnapshotTTL)
}

func TestLoadDefaultsDoNotValidate(t *testing.T) {
	chdir(t, t.TempDir())

	// Loading succeeds without a config file; serving requires endpoints.
	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gossip endpoint")
}

func TestLoadEnvOverride(t *testing.T) {
	writeConfigFile(t, `
gossip:
  endpoints: ["http://gossip-1:6000"]
`)
	t.Setenv("PODWATCH_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidateTimeoutVersusInterval(t *testing.T) {
	cfg := &Config{Gossip: GossipConfig{
		Endpoints:      []string{"http://gossip:6000"},
		PollInterval:   10 * time.Second,
		RequestTimeout: 10 * time.Second,
	}}
	require.Error(t, cfg.Validate())

	cfg.Gossip.RequestTimeout = 8 * time.Second
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsZeroDurations(t *testing.T) {
	cfg := &Config{Gossip: GossipConfig{Endpoints: []string{"http://gossip:6000"}}}
	assert.Error(t, cfg.Validate())

	cfg.Gossip.PollInterval = 10 * time.Second
	assert.Error(t, cfg.Validate())
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", LogConfig{Level: "debug"}.SlogLevel().String())
	assert.Equal(t, "WARN", LogConfig{Level: "WARNING"}.SlogLevel().String())
	assert.Equal(t, "ERROR", LogConfig{Level: "error"}.SlogLevel().String())
	assert.Equal(t, "INFO", LogConfig{Level: ""}.SlogLevel().String())
	assert.Equal(t, "INFO", LogConfig{Level: "bogus"}.SlogLevel().String())
}
