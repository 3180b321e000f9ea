package factory

import (
	"strings"
	"testing"
	"time"
)

type endpoint struct {
	URL    string
	Bucket string
}

func TestRegistryCreateDecodesConf(t *testing.T) {
	reg := NewRegistry[*endpoint]()
	if err := reg.Register("influx", func(conf map[string]any) (*endpoint, error) {
		var c struct {
			URL    string `json:"url"`
			Bucket string `json:"bucket"`
		}
		if err := Decode(conf, &c); err != nil {
			return nil, err
		}
		return &endpoint{URL: c.URL, Bucket: c.Bucket}, nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	ep, err := reg.Create(ModuleConfig{Type: "influx", Conf: map[string]any{"url": "http://influx:8086", "bucket": "hangar"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ep.URL != "http://influx:8086" || ep.Bucket != "hangar" {
		t.Fatalf("unexpected endpoint %+v", ep)
	}
	if got := reg.Names(); len(got) != 1 || got[0] != "influx" {
		t.Fatalf("names = %v", got)
	}
}

func TestRegistryErrors(t *testing.T) {
	reg := NewRegistry[int]()
	if err := reg.Register("x", func(map[string]any) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("x", func(map[string]any) (int, error) { return 2, nil }); err == nil {
		t.Fatal("expected duplicate error")
	}
	if err := reg.Register("z", nil); err == nil {
		t.Fatal("expected nil factory error")
	}
	_, err := reg.Create(ModuleConfig{Type: "y"})
	if err == nil || !strings.Contains(err.Error(), "known: x") {
		t.Fatalf("expected unknown type error listing x, got %v", err)
	}
}

func TestDecodeWeakTypes(t *testing.T) {
	var c struct {
		Retries int           `json:"retries"`
		Retain  bool          `json:"retain"`
		Timeout time.Duration `json:"timeout"`
	}
	err := Decode(map[string]any{"retries": "3", "retain": "true", "timeout": "2s"}, &c)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Retries != 3 || !c.Retain || c.Timeout != 2*time.Second {
		t.Fatalf("bad decode %#v", c)
	}
}
