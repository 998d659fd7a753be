package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the complete application configuration. Values come from the
// config file, LINKSCOUT_* environment variables, and flag overrides.
type Config struct {
	Store     StoreConfig     `mapstructure:"store"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// StoreConfig contains database configuration for the local libsql store.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// RateLimitConfig is the frozen rate limiter policy, supplied once at
// startup and never mutated by the core.
type RateLimitConfig struct {
	// MaxActionsPerDay caps quota-consuming actions per UTC day.
	MaxActionsPerDay int `mapstructure:"max_actions_per_day"`

	// MinDelay is the minimum spacing between consecutive actions.
	MinDelay time.Duration `mapstructure:"min_delay"`

	// MaxDelay bounds the jittered delay; must be >= MinDelay.
	MaxDelay time.Duration `mapstructure:"max_delay"`
}

// AuthConfig contains credential storage configuration.
type AuthConfig struct {
	// AccountsFile lists stored account names; the cookies themselves
	// live in the OS keyring.
	AccountsFile string `mapstructure:"accounts_file"`
}

// LoggingConfig contains CLI logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultDataDir returns the local data directory (~/.linkscout).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".linkscout"
	}
	return filepath.Join(home, ".linkscout")
}

// DefaultStorePath returns the default database file location.
func DefaultStorePath() string {
	return filepath.Join(DefaultDataDir(), "data.db")
}

// DefaultAccountsFile returns the default accounts list location.
func DefaultAccountsFile() string {
	return filepath.Join(DefaultDataDir(), "accounts.json")
}
