// Package config provides centralized configuration management for linkscout.
// Configuration layers, lowest to highest precedence: built-in defaults,
// the user config file (XDG config dir), and LINKSCOUT_* environment
// variables bound through viper.
package config

import (
	"context"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Load unmarshals the merged viper state into a Config and validates it.
// Callers are expected to have run viper initialization (config file
// discovery and defaults) before calling Load; the cobra root command
// does this in its OnInitialize hook.
func Load(_ context.Context) (*Config, error) {
	cfg := &Config{}

	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))

	if err := viper.Unmarshal(cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks invariants the rate limiter and store rely on.
func (c *Config) Validate() error {
	if c.RateLimit.MaxActionsPerDay < 1 {
		return fmt.Errorf("rate_limit.max_actions_per_day must be >= 1, got %d", c.RateLimit.MaxActionsPerDay)
	}
	if c.RateLimit.MinDelay < 0 {
		return fmt.Errorf("rate_limit.min_delay must be >= 0, got %s", c.RateLimit.MinDelay)
	}
	if c.RateLimit.MaxDelay < c.RateLimit.MinDelay {
		return fmt.Errorf("rate_limit.max_delay (%s) must be >= min_delay (%s)", c.RateLimit.MaxDelay, c.RateLimit.MinDelay)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	return nil
}
