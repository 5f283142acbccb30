package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load reads configuration from defaults, an optional config file and PODWATCH_* env vars.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/podwatch/")

	v.SetEnvPrefix("PODWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Missing config file is fine, defaults and env vars carry the day.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects configurations the poll loop cannot run with. Client-only
// commands skip it; they never touch the gossip upstreams.
func (c *Config) Validate() error {
	if len(c.Gossip.Endpoints) == 0 {
		return fmt.Errorf("config: at least one gossip endpoint is required")
	}
	if c.Gossip.PollInterval <= 0 {
		return fmt.Errorf("config: gossip.poll_interval must be positive")
	}
	if c.Gossip.RequestTimeout <= 0 {
		return fmt.Errorf("config: gossip.request_timeout must be positive")
	}
	if c.Gossip.RequestTimeout >= c.Gossip.PollInterval {
		return fmt.Errorf("config: gossip.request_timeout (%s) must be shorter than gossip.poll_interval (%s)",
			c.Gossip.RequestTimeout, c.Gossip.PollInterval)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", "0.0.0.0:8080")
	v.SetDefault("http.shutdown_timeout", "15s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.add_source", false)

	v.SetDefault("database.path", "data/podwatch.db")

	v.SetDefault("gossip.endpoints", []string{})
	v.SetDefault("gossip.credits_url", "")
	v.SetDefault("gossip.poll_interval", 10*time.Second)
	v.SetDefault("gossip.request_timeout", 8*time.Second)
	v.SetDefault("gossip.snapshot_ttl", 24*time.Hour)
	v.SetDefault("gossip.retention", 7*24*time.Hour)

	v.SetDefault("hub.client_buffer", 64)

	v.SetDefault("feed.server_url", "ws://127.0.0.1:8080/ws")
}
