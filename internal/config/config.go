package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/fundplan/internal/core/phase"
)

// Environment overrides
const (
	EnvDatabase = "FUNDPLAN_DB"
	EnvLogLevel = "FUNDPLAN_LOG_LEVEL"
	EnvActor    = "FUNDPLAN_ACTOR"
)

const (
	dirName  = ".fundplan"
	fileName = "config.yaml"
)

// Config represents the fundplan configuration
type Config struct {
	DatabasePath    string `yaml:"database_path"`
	LogLevel        string `yaml:"log_level"`         // debug, info, warn, error
	Actor           string `yaml:"actor,omitempty"`   // recorded in the audit trail
	MinDurationDays int    `yaml:"min_duration_days"` // never below phase.MinDurationDays
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DatabasePath:    filepath.Join(dirName, "fundplan.db"),
		LogLevel:        "warn",
		MinDurationDays: phase.MinDurationDays,
	}
}

// Path returns the config file location under dir.
func Path(dir string) string {
	return filepath.Join(dir, dirName, fileName)
}

// LoadConfig reads .fundplan/config.yaml from the specified directory.
// A missing file yields defaults. Environment variables override file values.
func LoadConfig(dir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path(dir))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.normalize(dir)
	return cfg, nil
}

// SaveConfig writes config.yaml to directory
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, dirName)
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", dirName, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(Path(dir), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Rules returns the phase rules this configuration selects.
func (c *Config) Rules() phase.Rules {
	return phase.Rules{MinDurationDays: c.MinDurationDays}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDatabase); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvActor); v != "" {
		c.Actor = v
	}
}

func (c *Config) normalize(dir string) {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.MinDurationDays < phase.MinDurationDays {
		c.MinDurationDays = phase.MinDurationDays
	}
	if c.DatabasePath == "" {
		c.DatabasePath = Default().DatabasePath
	}
	if c.DatabasePath != ":memory:" && !filepath.IsAbs(c.DatabasePath) {
		c.DatabasePath = filepath.Join(dir, c.DatabasePath)
	}
}
