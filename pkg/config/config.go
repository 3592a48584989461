// Package config loads the application configuration from environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds the application configuration. Every field maps to an
// environment variable of the same name as the koanf tag.
type Config struct {
	// DBPath is the path to the sqlite database holding the message inbox,
	// settings, and sync log.
	DBPath string `koanf:"SMSLEDGER_DB_PATH"`

	// SyncInterval is how often the daemon runs a sync pass, as a Go
	// duration string ("15m", "1h").
	SyncInterval string `koanf:"SMSLEDGER_SYNC_INTERVAL"`

	// PostgreSQL expense store settings.
	PostgresHost     string `koanf:"SMSLEDGER_PG_HOST"`
	PostgresPort     int    `koanf:"SMSLEDGER_PG_PORT"`
	PostgresDatabase string `koanf:"SMSLEDGER_PG_DATABASE"`
	PostgresUser     string `koanf:"SMSLEDGER_PG_USER"`
	PostgresPassword string `koanf:"SMSLEDGER_PG_PASSWORD"`
	PostgresSSLMode  string `koanf:"SMSLEDGER_PG_SSLMODE"`
}

// Load reads configuration from environment variables and applies defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider("", ".", nil), nil); err != nil {
		return nil, fmt.Errorf("loading config from environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf", FlatPaths: true}); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.DBPath == "" {
		cfg.DBPath = "data/smsledger.db"
	}
	if cfg.SyncInterval == "" {
		cfg.SyncInterval = "15m"
	}
	if cfg.PostgresSSLMode == "" {
		cfg.PostgresSSLMode = "disable"
	}

	return &cfg, nil
}

// Validate checks the fields required to reach the expense store.
func (c *Config) Validate() error {
	if c.PostgresHost == "" {
		return fmt.Errorf("SMSLEDGER_PG_HOST environment variable is required")
	}
	if c.PostgresDatabase == "" {
		return fmt.Errorf("SMSLEDGER_PG_DATABASE environment variable is required")
	}
	if c.PostgresUser == "" {
		return fmt.Errorf("SMSLEDGER_PG_USER environment variable is required")
	}
	if _, err := c.SyncIntervalDuration(); err != nil {
		return err
	}
	return nil
}

// SyncIntervalDuration parses SyncInterval.
func (c *Config) SyncIntervalDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.SyncInterval)
	if err != nil {
		return 0, fmt.Errorf("parsing SMSLEDGER_SYNC_INTERVAL %q: %w", c.SyncInterval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("SMSLEDGER_SYNC_INTERVAL must be positive, got %q", c.SyncInterval)
	}
	return d, nil
}
