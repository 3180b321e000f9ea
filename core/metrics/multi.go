package metrics

import (
	"errors"
	"io"
)

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordAnalysis forwards the event to every sink and joins their errors.
func (m *MultiSink) RecordAnalysis(ev AnalysisEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		errs = append(errs, s.RecordAnalysis(ev))
	}
	return errors.Join(errs...)
}

// RecordPlacements forwards to sinks implementing PlacementRecorder.
func (m *MultiSink) RecordPlacements(evs []PlacementEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(PlacementRecorder); ok {
			errs = append(errs, rec.RecordPlacements(evs))
		}
	}
	return errors.Join(errs...)
}

// RecordRejections forwards to sinks implementing RejectionRecorder.
func (m *MultiSink) RecordRejections(evs []RejectionEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(RejectionRecorder); ok {
			errs = append(errs, rec.RecordRejections(evs))
		}
	}
	return errors.Join(errs...)
}

// RecordUtilization forwards to sinks implementing UtilizationRecorder.
func (m *MultiSink) RecordUtilization(ev UtilizationEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(UtilizationRecorder); ok {
			errs = append(errs, rec.RecordUtilization(ev))
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink implementing io.Closer.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		if c, ok := s.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
