package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/hangar/core/factory"
	coremetrics "github.com/kilianp07/hangar/core/metrics"
)

// influxConf is the conf block of an influx sink entry.
type influxConf struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
	// Strict disables the fallback to a no-op sink when the health check fails.
	Strict bool `json:"strict"`
}

func newInfluxFromConf(conf map[string]any) (coremetrics.MetricsSink, error) {
	var c influxConf
	if err := factory.Decode(conf, &c); err != nil {
		return nil, err
	}
	if c.URL == "" || c.Bucket == "" {
		return nil, errors.New("influx sink requires url and bucket")
	}
	if c.Strict {
		return NewInfluxSink(c.URL, c.Token, c.Org, c.Bucket), nil
	}
	return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
}

func init() {
	_ = coremetrics.RegisterMetricsSink("nop", func(map[string]any) (coremetrics.MetricsSink, error) {
		return coremetrics.NopSink{}, nil
	})
	// The prometheus sink always uses the default registry so the pusher
	// and any scraper see the same collectors.
	_ = coremetrics.RegisterMetricsSink("prometheus", func(map[string]any) (coremetrics.MetricsSink, error) {
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})
	_ = coremetrics.RegisterMetricsSink("influx", newInfluxFromConf)
}
