package config

import (
	"github.com/contribpulse/contribpulse/internal/errors"
)

// maxLookbackDays keeps the window arithmetic well inside time.Duration
// range; 100 years covers any real history.
const maxLookbackDays = 36500

var validFormats = map[string]bool{
	"markdown": true,
	"json":     true,
	"yaml":     true,
	"table":    true,
}

// Validate checks run parameters before any processing begins. Violations
// are fatal configuration errors.
func (c *Config) Validate() error {
	if c.ReposDir == "" {
		return errors.ConfigError("repositories directory is required")
	}
	if c.Analysis.LookbackDays < 0 {
		return errors.ConfigErrorf("lookback days must be >= 0, got %d", c.Analysis.LookbackDays)
	}
	if c.Analysis.LookbackDays > maxLookbackDays {
		return errors.ConfigErrorf("lookback days must be <= %d, got %d", maxLookbackDays, c.Analysis.LookbackDays)
	}
	if c.Analysis.Workers < 1 {
		return errors.ConfigErrorf("workers must be >= 1, got %d", c.Analysis.Workers)
	}
	if c.Analysis.RepoTimeout <= 0 {
		return errors.ConfigErrorf("repository timeout must be positive, got %s", c.Analysis.RepoTimeout)
	}
	if !validFormats[c.Output.Format] {
		return errors.ConfigErrorf("unknown output format %q", c.Output.Format)
	}
	switch c.Storage.Driver {
	case "sqlite", "postgres", "none":
	default:
		return errors.ConfigErrorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "postgres" && c.Storage.PostgresDSN == "" {
		return errors.ConfigError("postgres storage requires a DSN")
	}
	return nil
}
