// Package analysis is the entry point of the engine: it runs the scheduler,
// builds the validation report and export model, and records metrics about
// the run.
package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kilianp07/hangar/core/conflict"
	"github.com/kilianp07/hangar/core/logger"
	"github.com/kilianp07/hangar/core/metrics"
	"github.com/kilianp07/hangar/core/model"
	"github.com/kilianp07/hangar/core/report"
	"github.com/kilianp07/hangar/core/scheduler"
)

// ErrNoModel is returned when Analyze or Schedule receive a nil snapshot.
var ErrNoModel = errors.New("analysis: no airfield model")

// Result bundles everything produced by one analysis run.
type Result struct {
	RunID    string
	Report   report.ValidationReport
	Export   report.ExportModel
	Schedule *scheduler.Result
	// Conflicts covers manual and auto placements together.
	Conflicts []conflict.Conflict
	Duration  time.Duration
}

// Analyzer runs analyses. It holds no state between calls and is safe for
// concurrent use.
type Analyzer struct {
	cfg    scheduler.Config
	log    logger.Logger
	sink   metrics.MetricsSink
	now    func() time.Time
	newID  func() string
	tracer trace.Tracer
}

// Option customises an Analyzer.
type Option func(*Analyzer)

// WithMetrics sets the sink receiving run metrics.
func WithMetrics(s metrics.MetricsSink) Option {
	return func(a *Analyzer) {
		if s != nil {
			a.sink = s
		}
	}
}

// WithClock overrides the clock used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// WithRunIDs overrides run id generation.
func WithRunIDs(f func() string) Option {
	return func(a *Analyzer) {
		if f != nil {
			a.newID = f
		}
	}
}

// New creates an Analyzer. A nil logger discards output.
func New(cfg scheduler.Config, log logger.Logger, opts ...Option) *Analyzer {
	cfg.SetDefaults()
	a := &Analyzer{
		cfg:    cfg,
		log:    logger.OrNop(log),
		sink:   metrics.NopSink{},
		now:    time.Now,
		newID:  uuid.NewString,
		tracer: otel.Tracer("github.com/kilianp07/hangar/core/analysis"),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Schedule runs only the auto-scheduler.
func (a *Analyzer) Schedule(ctx context.Context, m *model.Airfield) (*scheduler.Result, error) {
	if m == nil {
		return nil, ErrNoModel
	}
	_, span := a.tracer.Start(ctx, "hangar.schedule", trace.WithAttributes(
		attribute.String("airfield", m.Name),
		attribute.Int("auto_inductions", len(m.AutoInductions)),
	))
	defer span.End()
	res, err := scheduler.New(a.cfg, a.log).Schedule(m)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("scheduled", len(res.Scheduled)), attribute.Int("unscheduled", len(res.Unscheduled)))
	return res, nil
}

// Analyze schedules the auto-inductions, if any, and builds the validation
// report and export model. Only a nil model or a precedence cycle is an
// error; violations are part of the result.
func (a *Analyzer) Analyze(ctx context.Context, m *model.Airfield) (*Result, error) {
	return a.AnalyzeSource(ctx, "", m)
}

// AnalyzeSource is Analyze with the snapshot's origin attached to metrics
// and spans.
func (a *Analyzer) AnalyzeSource(ctx context.Context, source string, m *model.Airfield) (*Result, error) {
	if m == nil {
		return nil, ErrNoModel
	}
	started := time.Now()
	ctx, span := a.tracer.Start(ctx, "hangar.analyze", trace.WithAttributes(
		attribute.String("airfield", m.Name),
		attribute.String("source", source),
		attribute.Int("inductions", len(m.Inductions)),
		attribute.Int("auto_inductions", len(m.AutoInductions)),
	))
	defer span.End()

	res := &Result{RunID: a.newID()}
	if len(m.AutoInductions) > 0 {
		sched, err := a.Schedule(ctx, m)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		res.Schedule = sched
	}

	res.Report = report.BuildValidationReport(m, res.Schedule, a.now().UTC())
	res.Export = report.BuildExportModel(m, res.Schedule)
	res.Conflicts = a.scanConflicts(m, res.Schedule)
	res.Duration = time.Since(started)

	span.SetAttributes(
		attribute.Int("violations", res.Report.Summary.Total),
		attribute.Int("conflicts", len(res.Conflicts)),
	)
	a.log.Infof("analysed %s: %d violations, %d conflicts in %s",
		m.Name, res.Report.Summary.Total, len(res.Conflicts), res.Duration)
	a.record(m, res, source)
	return res, nil
}

// scanConflicts re-checks manual and scheduled placements together. The
// scheduler never produces overlaps with existing placements, so any conflict
// involving an auto placement is logged as an error.
func (a *Analyzer) scanConflicts(m *model.Airfield, sched *scheduler.Result) []conflict.Conflict {
	ps := make([]conflict.Placement, 0, len(m.Inductions))
	keys := model.InductionKeys(m.Inductions)
	for i, in := range m.Inductions {
		ps = append(ps, conflict.Placement{
			ID:       keys[i],
			Aircraft: in.Aircraft,
			Hangar:   in.Hangar,
			Bays:     in.Bays,
			Start:    in.Start,
			End:      in.End,
		})
	}
	auto := make(map[string]bool)
	if sched != nil {
		for _, s := range sched.Scheduled {
			ps = append(ps, s.Placement())
			auto[s.ID] = true
		}
	}
	cs := conflict.Detect(ps)
	for _, c := range cs {
		if auto[c.First.ID] || auto[c.Second.ID] {
			a.log.Errorf("scheduled placement overlaps: %s", c.Message())
		}
	}
	return cs
}
