package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/hangar/core/analysislog"
	"github.com/kilianp07/hangar/core/metrics"
	"github.com/kilianp07/hangar/core/scheduler"
	"github.com/kilianp07/hangar/infra/mqtt"
	"github.com/kilianp07/hangar/infra/tracing"
)

// EnvPrefix marks environment overrides. HANGAR_SCHEDULER__HORIZON_DAYS=7
// sets scheduler.horizon_days.
const EnvPrefix = "HANGAR_"

type Config struct {
	Scheduler   scheduler.Config   `json:"scheduler"`
	Metrics     metrics.Config     `json:"metrics"`
	MQTT        mqtt.Config        `json:"mqtt"`
	AnalysisLog analysislog.Config `json:"analysis_log"`
	Logging     LoggingConfig      `json:"logging"`
	Tracing     tracing.Config     `json:"tracing"`
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Scheduler.SetDefaults()
	c.Metrics.SetDefaults()
	c.MQTT.SetDefaults()
	c.AnalysisLog.SetDefaults()
	c.Logging.SetDefaults()
	c.Tracing.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	checks := []struct {
		section string
		err     error
	}{
		{"scheduler", c.Scheduler.Validate()},
		{"metrics", c.Metrics.Validate()},
		{"mqtt", c.MQTT.Validate()},
		{"analysis_log", c.AnalysisLog.Validate()},
		{"logging", c.Logging.Validate()},
		{"tracing", c.Tracing.Validate()},
	}
	for _, ch := range checks {
		if ch.err != nil {
			return fmt.Errorf("config %s: %w", ch.section, ch.err)
		}
	}
	return nil
}

// Load reads the file at path, applies environment overrides, defaults and
// validation. An empty path yields defaults plus environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
