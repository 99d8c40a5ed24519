package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete papertrade configuration.
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Feed     FeedConfig     `json:"feed" yaml:"feed"`
	Snapshot SnapshotConfig `json:"snapshot" yaml:"snapshot"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	API      APIConfig      `json:"api" yaml:"api"`
}

// AccountConfig contains paper-account initialization parameters.
type AccountConfig struct {
	Symbol          string  `json:"symbol" yaml:"symbol"`
	StartingBalance float64 `json:"starting_balance" yaml:"starting_balance"`
}

// FeedConfig contains price-source parameters.
type FeedConfig struct {
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"` // e.g. "5s"
	Retries int    `json:"retries,omitempty" yaml:"retries,omitempty"`
}

// SnapshotConfig contains performance-sampling parameters.
type SnapshotConfig struct {
	Interval string `json:"interval" yaml:"interval"` // e.g. "60s", "5m"
}

// JournalConfig contains persistence parameters.
type JournalConfig struct {
	DBPath string `json:"db_path" yaml:"db_path"`
}

// APIConfig contains HTTP server parameters. AuthToken may be left empty in
// the file and supplied via PAPERTRADE_AUTH_TOKEN instead.
type APIConfig struct {
	Addr           string   `json:"addr" yaml:"addr"`
	AuthToken      string   `json:"auth_token,omitempty" yaml:"auth_token,omitempty"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
}

// ParseTimeout converts the feed timeout string to a duration.
func (f FeedConfig) ParseTimeout() (time.Duration, error) {
	if f.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(f.Timeout)
}

// ParseInterval converts the snapshot interval string to a duration.
func (s SnapshotConfig) ParseInterval() (time.Duration, error) {
	return time.ParseDuration(s.Interval)
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if token := os.Getenv("PAPERTRADE_AUTH_TOKEN"); token != "" {
		cfg.API.AuthToken = token
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (format chosen by extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Account.Symbol == "" {
		return fmt.Errorf("account.symbol is required")
	}
	if c.Account.StartingBalance < 0 {
		return fmt.Errorf("account.starting_balance must not be negative")
	}
	if c.Feed.Timeout != "" {
		if _, err := c.Feed.ParseTimeout(); err != nil {
			return fmt.Errorf("feed.timeout: %w", err)
		}
	}
	if c.Feed.Retries < 0 {
		return fmt.Errorf("feed.retries must not be negative")
	}
	if c.Snapshot.Interval == "" {
		return fmt.Errorf("snapshot.interval is required")
	}
	if d, err := c.Snapshot.ParseInterval(); err != nil {
		return fmt.Errorf("snapshot.interval: %w", err)
	} else if d <= 0 {
		return fmt.Errorf("snapshot.interval must be positive")
	}
	if c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required")
	}
	if c.API.Addr == "" {
		return fmt.Errorf("api.addr is required")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Symbol:          "BTCUSDT",
			StartingBalance: 10000,
		},
		Feed: FeedConfig{
			Timeout: "5s",
			Retries: 3,
		},
		Snapshot: SnapshotConfig{
			Interval: "60s",
		},
		Journal: JournalConfig{
			DBPath: "./papertrade.db",
		},
		API: APIConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
	}
}
