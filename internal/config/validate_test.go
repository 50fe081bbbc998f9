package config

import (
	"testing"
)

func TestValidateDefaults(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default configuration should validate, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing repos dir", func(c *Config) { c.ReposDir = "" }, true},
		{"negative lookback", func(c *Config) { c.Analysis.LookbackDays = -1 }, true},
		{"zero lookback is valid", func(c *Config) { c.Analysis.LookbackDays = 0 }, false},
		{"lookback at cap is valid", func(c *Config) { c.Analysis.LookbackDays = 36500 }, false},
		{"lookback beyond cap", func(c *Config) { c.Analysis.LookbackDays = 200000 }, true},
		{"zero workers", func(c *Config) { c.Analysis.Workers = 0 }, true},
		{"zero timeout", func(c *Config) { c.Analysis.RepoTimeout = 0 }, true},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }, true},
		{"unknown storage driver", func(c *Config) { c.Storage.Driver = "mysql" }, true},
		{"storage disabled", func(c *Config) { c.Storage.Driver = "none" }, false},
		{"postgres without dsn", func(c *Config) { c.Storage.Driver = "postgres" }, true},
		{"postgres with dsn", func(c *Config) {
			c.Storage.Driver = "postgres"
			c.Storage.PostgresDSN = "postgres://localhost/contribpulse"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
