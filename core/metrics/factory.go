package metrics

import (
	"errors"
	"fmt"
	"io"

	"github.com/kilianp07/hangar/core/factory"
)

var sinkRegistry = factory.NewRegistry[MetricsSink]()

// RegisterMetricsSink makes a sink type available to metrics.sinks entries.
func RegisterMetricsSink(name string, f factory.Factory[MetricsSink]) error {
	return sinkRegistry.Register(name, f)
}

// SinkTypes lists the registered sink types.
func SinkTypes() []string { return sinkRegistry.Names() }

// NewMetricsSink builds the sinks declared in cfgs. No entry yields NopSink,
// one entry its sink, several a MultiSink. When an entry fails, sinks built
// before it are closed.
func NewMetricsSink(cfgs []factory.ModuleConfig) (MetricsSink, error) {
	switch len(cfgs) {
	case 0:
		return NopSink{}, nil
	case 1:
		s, err := sinkRegistry.Create(cfgs[0])
		if err != nil {
			return nil, fmt.Errorf("metrics sink %q: %w", cfgs[0].Type, err)
		}
		return s, nil
	}
	built := make([]MetricsSink, 0, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("metrics sink #%d %q: %w", i, c.Type, err), closeAll(built))
		}
		built = append(built, s)
	}
	return NewMultiSink(built...), nil
}

func closeAll(sinks []MetricsSink) error {
	var errs []error
	for _, s := range sinks {
		if c, ok := s.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
