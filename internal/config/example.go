package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// exampleConfig mirrors Config with yaml tags for `podwatch config init` output.
type exampleConfig struct {
	HTTP struct {
		Addr            string `yaml:"addr"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"http"`
	Log struct {
		Level     string `yaml:"level"`
		Format    string `yaml:"format"`
		AddSource bool   `yaml:"add_source"`
	} `yaml:"log"`
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Gossip struct {
		Endpoints      []string `yaml:"endpoints"`
		CreditsURL     string   `yaml:"credits_url"`
		PollInterval   string   `yaml:"poll_interval"`
		RequestTimeout string   `yaml:"request_timeout"`
		SnapshotTTL    string   `yaml:"snapshot_ttl"`
		Retention      string   `yaml:"retention"`
	} `yaml:"gossip"`
	Hub struct {
		ClientBuffer int `yaml:"client_buffer"`
	} `yaml:"hub"`
	Feed struct {
		ServerURL string `yaml:"server_url"`
	} `yaml:"feed"`
}

// WriteExample writes a starter config.yaml to path, refusing to clobber an existing file.
func WriteExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	}

	var ex exampleConfig
	ex.HTTP.Addr = "0.0.0.0:8080"
	ex.HTTP.ShutdownTimeout = "15s"
	ex.Log.Level = "info"
	ex.Log.Format = "json"
	ex.Database.Path = "data/podwatch.db"
	ex.Gossip.Endpoints = []string{
		"https://gossip-1.example.net/rpc",
		"https://gossip-2.example.net/rpc",
	}
	ex.Gossip.CreditsURL = "https://credits.example.net/api/pods-credits"
	ex.Gossip.PollInterval = "10s"
	ex.Gossip.RequestTimeout = "8s"
	ex.Gossip.SnapshotTTL = "24h"
	ex.Gossip.Retention = "168h"
	ex.Hub.ClientBuffer = 64
	ex.Feed.ServerURL = "ws://127.0.0.1:8080/ws"

	data, err := yaml.Marshal(&ex)
	if err != nil {
		return fmt.Errorf("marshal example config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
