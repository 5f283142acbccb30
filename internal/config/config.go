package config

import (
	"log/slog"
	"strings"
	"time"
)

// Config aggregates all podwatch settings.
type Config struct {
	HTTP   HTTPConfig   `mapstructure:"http"`
	Log    LogConfig    `mapstructure:"log"`
	DB     DBConfig     `mapstructure:"database"`
	Gossip GossipConfig `mapstructure:"gossip"`
	Hub    HubConfig    `mapstructure:"hub"`
	Feed   FeedConfig   `mapstructure:"feed"`
}

// HTTPConfig defines the HTTP server settings.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig defines logging settings.
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	AddSource bool   `mapstructure:"add_source"`
}

// DBConfig defines the SQLite cache settings.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// GossipConfig defines the upstream polling settings.
type GossipConfig struct {
	Endpoints      []string      `mapstructure:"endpoints"`
	CreditsURL     string        `mapstructure:"credits_url"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	SnapshotTTL    time.Duration `mapstructure:"snapshot_ttl"`
	Retention      time.Duration `mapstructure:"retention"`
}

// HubConfig defines the websocket broadcast settings.
type HubConfig struct {
	ClientBuffer int `mapstructure:"client_buffer"`
}

// FeedConfig defines the client aggregator settings used by the watch command.
type FeedConfig struct {
	ServerURL string `mapstructure:"server_url"`
}

// SlogLevel maps the configured level string onto a slog.Level.
func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
