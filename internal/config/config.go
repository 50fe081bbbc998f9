package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all run settings.
type Config struct {
	// ReposDir is the directory holding project/repository working copies.
	ReposDir string `yaml:"repos_dir" mapstructure:"repos_dir"`

	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Storage  StorageConfig  `yaml:"storage" mapstructure:"storage"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	GitHub   GitHubConfig   `yaml:"github" mapstructure:"github"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
}

// AnalysisConfig controls the analysis pipeline.
type AnalysisConfig struct {
	LookbackDays      int           `yaml:"lookback_days" mapstructure:"lookback_days"`
	ProjectFilter     string        `yaml:"project_filter" mapstructure:"project_filter"`
	ContributorFilter string        `yaml:"contributor_filter" mapstructure:"contributor_filter"`
	SkipUpdate        bool          `yaml:"skip_update" mapstructure:"skip_update"`
	Workers           int           `yaml:"workers" mapstructure:"workers"`
	RepoTimeout       time.Duration `yaml:"repo_timeout" mapstructure:"repo_timeout"`
	IncludeBots       bool          `yaml:"include_bots" mapstructure:"include_bots"`
}

// StorageConfig selects the run archive backend.
type StorageConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // "sqlite", "postgres", "none"
	PostgresDSN string `yaml:"postgres_dsn" mapstructure:"postgres_dsn"`
	LocalPath   string `yaml:"local_path" mapstructure:"local_path"`
}

// CacheConfig controls the per-repository extraction cache.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// GitHubConfig configures forge discovery.
type GitHubConfig struct {
	Token     string `yaml:"token" mapstructure:"token"`
	Org       string `yaml:"org" mapstructure:"org"`
	RateLimit int    `yaml:"rate_limit" mapstructure:"rate_limit"` // requests per second
}

// OutputConfig selects report rendering.
type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "markdown", "json", "yaml", "table"
	Path   string `yaml:"path" mapstructure:"path"`     // empty = stdout
}

// Default returns the default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		ReposDir: "REPOSITORIES",
		Analysis: AnalysisConfig{
			LookbackDays: 7,
			Workers:      8,
			RepoTimeout:  2 * time.Minute,
		},
		Storage: StorageConfig{
			Driver:    "sqlite",
			LocalPath: filepath.Join(homeDir, ".contribpulse", "runs.db"),
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    filepath.Join(homeDir, ".contribpulse", "extract.cache"),
		},
		GitHub: GitHubConfig{
			RateLimit: 2,
		},
		Output: OutputConfig{
			Format: "markdown",
		},
	}
}

// Load loads configuration from file, environment and defaults.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("repos_dir", cfg.ReposDir)
	v.SetDefault("analysis", cfg.Analysis)
	v.SetDefault("storage", cfg.Storage)
	v.SetDefault("cache", cfg.Cache)
	v.SetDefault("github", cfg.GitHub)
	v.SetDefault("output", cfg.Output)

	v.SetEnvPrefix("CONTRIBPULSE")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".contribpulse")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".contribpulse"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// no config file is fine, defaults apply
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence.
func loadEnvFiles() {
	envFiles := []string{
		".env.local",
		".env",
	}
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}

	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".contribpulse", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies well-known environment variables on top of the
// loaded configuration.
func applyEnvOverrides(cfg *Config) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	}
	if rateLimit := os.Getenv("GITHUB_RATE_LIMIT"); rateLimit != "" {
		if rate, err := strconv.Atoi(rateLimit); err == nil {
			cfg.GitHub.RateLimit = rate
		}
	}
	if dir := os.Getenv("CONTRIBPULSE_REPOS_DIR"); dir != "" {
		cfg.ReposDir = dir
	}
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		cfg.Storage.Driver = "postgres"
		cfg.Storage.PostgresDSN = dsn
	}
}
