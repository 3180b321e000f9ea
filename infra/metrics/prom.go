package metrics

import (
	"strings"

	coremetrics "github.com/kilianp07/hangar/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records analysis runs in Prometheus metrics.
type PromSink struct {
	runs        *prometheus.CounterVec
	violations  *prometheus.GaugeVec
	autos       *prometheus.GaugeVec
	duration    *prometheus.HistogramVec
	utilization *prometheus.GaugeVec
	placements  *prometheus.CounterVec
	retries     *prometheus.HistogramVec
	rejections  *prometheus.CounterVec
}

// NewPromSink registers analysis metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by a previous sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hangar_analysis_runs_total",
			Help: "Total number of analysis runs",
		}, []string{"airfield", "result"}),
		violations: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hangar_violations",
			Help: "Violations found by the last analysis run, by rule",
		}, []string{"airfield", "rule_id"}),
		autos: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hangar_auto_inductions",
			Help: "Auto-inductions of the last run by outcome",
		}, []string{"airfield", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hangar_analysis_duration_seconds",
			Help:    "Wall time spent analysing an airfield",
			Buckets: prometheus.DefBuckets,
		}, []string{"airfield"}),
		utilization: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hangar_bay_utilization_percent",
			Help: "Share of the scheduled span a bay is occupied",
		}, []string{"airfield", "hangar", "bay"}),
		placements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hangar_auto_placements_total",
			Help: "Auto-inductions placed by the scheduler",
		}, []string{"airfield", "hangar"}),
		retries: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hangar_placement_retries",
			Help:    "Rejections recorded before a placement succeeded",
			Buckets: []float64{0, 1, 2, 5, 10, 25},
		}, []string{"airfield"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hangar_scheduler_rejections_total",
			Help: "Hangars or slots refused by the scheduler, by rule",
		}, []string{"airfield", "rule_id"}),
	}

	var err error
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	if s.violations, err = register(reg, s.violations); err != nil {
		return nil, err
	}
	if s.autos, err = register(reg, s.autos); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	if s.utilization, err = register(reg, s.utilization); err != nil {
		return nil, err
	}
	if s.placements, err = register(reg, s.placements); err != nil {
		return nil, err
	}
	if s.retries, err = register(reg, s.retries); err != nil {
		return nil, err
	}
	if s.rejections, err = register(reg, s.rejections); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordAnalysis updates run counters and per-rule violation gauges.
func (s *PromSink) RecordAnalysis(ev coremetrics.AnalysisEvent) error {
	result := "ok"
	if ev.Errors > 0 {
		result = "violations"
	}
	s.runs.WithLabelValues(ev.Airfield, result).Inc()
	s.violations.DeletePartialMatch(prometheus.Labels{"airfield": ev.Airfield})
	for rule, n := range ev.Violations {
		s.violations.WithLabelValues(ev.Airfield, rule).Set(float64(n))
	}
	s.autos.WithLabelValues(ev.Airfield, "scheduled").Set(float64(ev.Scheduled))
	s.autos.WithLabelValues(ev.Airfield, "unscheduled").Set(float64(ev.Unscheduled))
	s.duration.WithLabelValues(ev.Airfield).Observe(ev.Duration.Seconds())
	return nil
}

// RecordPlacements counts placements per hangar.
func (s *PromSink) RecordPlacements(evs []coremetrics.PlacementEvent) error {
	for _, p := range evs {
		s.placements.WithLabelValues(p.Airfield, p.Hangar).Inc()
		s.retries.WithLabelValues(p.Airfield).Observe(float64(p.Retries))
	}
	return nil
}

// RecordRejections counts scheduler rejections per rule.
func (s *PromSink) RecordRejections(evs []coremetrics.RejectionEvent) error {
	for _, r := range evs {
		s.rejections.WithLabelValues(r.Airfield, r.Rule).Inc()
	}
	return nil
}

// RecordUtilization sets the per-bay occupancy gauges.
func (s *PromSink) RecordUtilization(ev coremetrics.UtilizationEvent) error {
	s.utilization.DeletePartialMatch(prometheus.Labels{"airfield": ev.Airfield})
	for key, pct := range ev.ByBay {
		hangar, bay, _ := strings.Cut(key, "/")
		s.utilization.WithLabelValues(ev.Airfield, hangar, bay).Set(pct)
	}
	return nil
}
