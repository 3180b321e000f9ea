package metrics

import (
	"fmt"

	"github.com/kilianp07/hangar/core/factory"
)

// Config defines settings for metrics sinks.
type Config struct {
	Sinks       []factory.ModuleConfig `json:"sinks"`
	PushGateway PushConfig             `json:"pushgateway"`
}

// PushConfig enables pushing Prometheus metrics after batch runs.
type PushConfig struct {
	URL string `json:"url"`
	Job string `json:"job"`
}

// Enabled reports whether a gateway is configured.
func (p PushConfig) Enabled() bool { return p.URL != "" }

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.PushGateway.Job == "" {
		c.PushGateway.Job = "hangar"
	}
}

// Validate checks sink declarations.
func (c Config) Validate() error {
	for i, s := range c.Sinks {
		if s.Type == "" {
			return fmt.Errorf("metrics.sinks[%d]: type is required", i)
		}
	}
	return nil
}
