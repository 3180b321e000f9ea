package config

import (
	"os"
	"path/filepath"
	"testing"
)

//nolint:gocyclo
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `scheduler:
  default_start: "2024-03-01T00:00:00Z"
  horizon_days: 14
mqtt:
  enabled: true
  broker: "tcp://localhost:1883"
  client_id: "cli"
  topic_prefix: "ops/hangar"
metrics:
  sinks:
    - type: "prometheus"
  pushgateway:
    url: "http://localhost:9091"
analysis_log:
  backend: "sqlite"
  path: "runs.db"
logging:
  level: "debug"
tracing:
  enabled: true
  exporter: "otlp"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("HANGAR_SCHEDULER__MAX_BAYS_PER_SET", "3")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"default_start", cfg.Scheduler.DefaultStart, "2024-03-01T00:00:00Z"},
		{"horizon_days", cfg.Scheduler.HorizonDays, 14},
		{"max_bays_per_set (env)", cfg.Scheduler.MaxBaysPerSet, 3},
		{"mqtt.enabled", cfg.MQTT.Enabled, true},
		{"mqtt.broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"mqtt.topic_prefix", cfg.MQTT.TopicPrefix, "ops/hangar"},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "prometheus", true},
		{"pushgateway.job default", cfg.Metrics.PushGateway.Job, "hangar"},
		{"analysis_log.backend", cfg.AnalysisLog.Backend, "sqlite"},
		{"logging.level", cfg.Logging.Level, "debug"},
		{"logging.format default", cfg.Logging.Format, "json"},
		{"tracing.exporter", cfg.Tracing.Exporter, "otlp"},
		{"tracing.service default", cfg.Tracing.ServiceName, "hangar"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Scheduler.HorizonDays != 30 || cfg.Scheduler.MaxBaysPerSet != 5 {
		t.Errorf("scheduler defaults not applied: %+v", cfg.Scheduler)
	}
	if cfg.AnalysisLog.Backend != "none" || cfg.MQTT.Enabled {
		t.Errorf("optional integrations should be off by default")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"mqtt":{"enabled":true}}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for mqtt without broker")
	}
	if _, err := Load(filepath.Join(dir, "config.toml")); err == nil {
		t.Fatal("expected unsupported format error")
	}
}
