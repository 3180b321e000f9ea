package scheduler

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/hangar/core/search"
)

// DefaultStart anchors the search window when no manual induction exists.
const DefaultStart = "2024-01-01T00:00:00Z"

// Config defines scheduling parameters loaded from configuration.
type Config struct {
	DefaultStart  string `json:"default_start" yaml:"default_start"`
	HorizonDays   int    `json:"horizon_days" yaml:"horizon_days"`
	MaxBaysPerSet int    `json:"max_bays_per_set" yaml:"max_bays_per_set"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.DefaultStart == "" {
		c.DefaultStart = DefaultStart
	}
	if c.HorizonDays == 0 {
		c.HorizonDays = 30
	}
	if c.MaxBaysPerSet == 0 {
		c.MaxBaysPerSet = search.DefaultMaxBaysPerSet
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if _, err := time.Parse(time.RFC3339, c.DefaultStart); err != nil {
		return fmt.Errorf("default_start: %w", err)
	}
	if c.HorizonDays <= 0 {
		return fmt.Errorf("horizon_days must be positive")
	}
	if c.MaxBaysPerSet <= 0 {
		return fmt.Errorf("max_bays_per_set must be positive")
	}
	return nil
}

// Baseline parses DefaultStart, falling back to the package default.
func (c Config) Baseline() time.Time {
	if t, err := time.Parse(time.RFC3339, c.DefaultStart); err == nil {
		return t
	}
	t, _ := time.Parse(time.RFC3339, DefaultStart)
	return t
}

// Horizon is the window length.
func (c Config) Horizon() time.Duration {
	days := c.HorizonDays
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

// LoadConfig loads Config from a JSON or YAML file chosen by extension.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	cfg, err := DecodeConfig(f, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return Config{}, fmt.Errorf("scheduler config %s: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig reads from r to decode a Config.
func DecodeConfig(r io.Reader, format string) (Config, error) {
	var cfg Config
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported format: %s", format)
	}
	cfg.SetDefaults()
	return cfg, cfg.Validate()
}
