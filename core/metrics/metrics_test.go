package metrics

import (
	"errors"
	"testing"

	"github.com/kilianp07/hangar/core/factory"
)

type recordSink struct {
	analyses   int
	placements int
}

func (r *recordSink) RecordAnalysis(AnalysisEvent) error {
	r.analyses++
	return nil
}

func (r *recordSink) RecordPlacements([]PlacementEvent) error {
	r.placements++
	return nil
}

type failingSink struct{}

func (failingSink) RecordAnalysis(AnalysisEvent) error { return errors.New("down") }

// TestMultiSink ensures events are forwarded to all sinks.
func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2, failingSink{})
	if err := m.RecordAnalysis(AnalysisEvent{}); err == nil {
		t.Fatalf("expected joined error")
	}
	if err := m.RecordPlacements(nil); err != nil {
		t.Fatalf("record placements: %v", err)
	}
	if err := m.RecordUtilization(UtilizationEvent{}); err != nil {
		t.Fatalf("record utilization: %v", err)
	}
	if s1.analyses != 1 || s2.analyses != 1 || s1.placements != 1 || s2.placements != 1 {
		t.Fatalf("events not forwarded: %+v %+v", s1, s2)
	}
}

func TestNewMetricsSink(t *testing.T) {
	if err := RegisterMetricsSink("test-record", func(map[string]any) (MetricsSink, error) {
		return &recordSink{}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	s, err := NewMetricsSink(nil)
	if err != nil {
		t.Fatalf("create nop default: %v", err)
	}
	if _, ok := s.(NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}

	s, err = NewMetricsSink([]factory.ModuleConfig{{Type: "test-record"}})
	if err != nil {
		t.Fatalf("create single: %v", err)
	}
	if _, ok := s.(*recordSink); !ok {
		t.Fatalf("expected recordSink, got %T", s)
	}

	s, err = NewMetricsSink([]factory.ModuleConfig{{Type: "test-record"}, {Type: "test-record"}})
	if err != nil {
		t.Fatalf("create multi: %v", err)
	}
	m, ok := s.(*MultiSink)
	if !ok || len(m.Sinks) != 2 {
		t.Fatalf("expected MultiSink with 2 sinks, got %T", s)
	}

	if _, err := NewMetricsSink([]factory.ModuleConfig{{Type: "missing"}, {Type: "test-record"}}); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Sinks: []factory.ModuleConfig{{}}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected missing type error")
	}
	cfg = Config{}
	cfg.SetDefaults()
	if cfg.PushGateway.Job != "hangar" || cfg.PushGateway.Enabled() {
		t.Fatalf("bad defaults %+v", cfg)
	}
}
