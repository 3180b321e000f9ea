package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Pusher sends the gathered registry to a Prometheus Pushgateway. Batch runs
// exit before a scrape could happen, so they push instead.
type Pusher struct {
	url      string
	job      string
	gatherer prometheus.Gatherer
}

// NewPusher creates a Pusher. A nil gatherer uses the default registry.
func NewPusher(url, job string, g prometheus.Gatherer) *Pusher {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return &Pusher{url: url, job: job, gatherer: g}
}

// Push replaces the job's metrics on the gateway. The airfield becomes the
// instance grouping key because pushed series already carry an airfield label.
func (p *Pusher) Push(ctx context.Context, airfield string) error {
	pu := push.New(p.url, p.job).Gatherer(p.gatherer)
	if airfield != "" {
		pu = pu.Grouping("instance", airfield)
	}
	if err := pu.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", p.url, err)
	}
	return nil
}
