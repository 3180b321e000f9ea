package app

import (
	"context"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/hangar/config"
	"github.com/kilianp07/hangar/core/analysis"
	"github.com/kilianp07/hangar/core/analysislog"
	coremetrics "github.com/kilianp07/hangar/core/metrics"
	"github.com/kilianp07/hangar/core/model"
	coremqtt "github.com/kilianp07/hangar/core/mqtt"
	"github.com/kilianp07/hangar/core/report"
	"github.com/kilianp07/hangar/core/scheduler"
	"github.com/kilianp07/hangar/infra/logger"
	"github.com/kilianp07/hangar/infra/metrics"
	"github.com/kilianp07/hangar/infra/mqtt"
	"github.com/kilianp07/hangar/infra/tracing"
)

// Outcome is the result of analysing one snapshot file.
type Outcome struct {
	Source   string
	Airfield *model.Airfield
	Result   *analysis.Result
}

// Service wires the analyzer to its optional integrations: metrics sinks,
// the analysis log, the MQTT publisher and tracing.
type Service struct {
	cfg       *config.Config
	analyzer  *analysis.Analyzer
	sink      coremetrics.MetricsSink
	store     analysislog.Store
	publisher coremqtt.Publisher
	pusher    *metrics.Pusher
	tracing   tracing.ShutdownFunc
	closers   []io.Closer
	log       logger.Logger
	closeOnce sync.Once
}

// Option overrides a component built from configuration.
type Option func(*Service)

// WithMetricsSink replaces the sinks declared in metrics.sinks.
func WithMetricsSink(s coremetrics.MetricsSink) Option {
	return func(svc *Service) { svc.sink = s }
}

// WithStore replaces the analysis log backend.
func WithStore(s analysislog.Store) Option {
	return func(svc *Service) { svc.store = s }
}

// WithPublisher replaces the MQTT publisher.
func WithPublisher(p coremqtt.Publisher) Option {
	return func(svc *Service) { svc.publisher = p }
}

// New creates a Service from the configuration. Components not supplied
// through options are built from cfg.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Service, error) {
	logger.Configure(cfg.Logging.Level, cfg.Logging.Format)
	svc := &Service{cfg: cfg, log: logger.New("service")}
	for _, o := range opts {
		o(svc)
	}

	shutdown, err := tracing.Init(ctx, cfg.Tracing, logger.New("tracing"))
	if err != nil {
		return nil, fmt.Errorf("tracing: %w", err)
	}
	svc.tracing = shutdown

	if svc.sink == nil {
		sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
		if err != nil {
			svc.shutdown(ctx)
			return nil, fmt.Errorf("metrics sink: %w", err)
		}
		svc.sink = sink
	}
	svc.addCloser(svc.sink)
	if cfg.Metrics.PushGateway.Enabled() {
		svc.pusher = metrics.NewPusher(cfg.Metrics.PushGateway.URL, cfg.Metrics.PushGateway.Job, nil)
	}

	if svc.store == nil {
		store, err := analysislog.Open(cfg.AnalysisLog)
		if err != nil {
			svc.shutdown(ctx)
			return nil, fmt.Errorf("analysis log: %w", err)
		}
		if store != nil {
			svc.store = store
		}
	}
	if svc.store != nil {
		svc.closers = append(svc.closers, svc.store)
	}

	if svc.publisher == nil && cfg.MQTT.Enabled {
		pub, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			svc.shutdown(ctx)
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		svc.publisher = pub
	}
	svc.addCloser(svc.publisher)

	svc.analyzer = analysis.New(cfg.Scheduler, logger.New("analysis"), analysis.WithMetrics(svc.sink))
	return svc, nil
}

func (s *Service) addCloser(v any) {
	if c, ok := v.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}
}

// AnalyzeFile loads a snapshot, analyses it, then records, publishes and
// pushes the result. Integration failures are logged, not returned.
func (s *Service) AnalyzeFile(ctx context.Context, path string) (*Outcome, error) {
	m, err := model.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	res, err := s.analyzer.AnalyzeSource(ctx, path, m)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", path, err)
	}
	out := &Outcome{Source: path, Airfield: m, Result: res}
	s.persist(ctx, out)
	s.publish(ctx, out)
	if s.pusher != nil {
		if err := s.pusher.Push(ctx, m.Name); err != nil {
			s.log.Warnf("%v", err)
		}
	}
	return out, nil
}

// AnalyzeFiles analyses several snapshots concurrently. Outcomes keep the
// order of paths. The first error cancels the remaining work.
func (s *Service) AnalyzeFiles(ctx context.Context, paths []string, parallelism int) ([]*Outcome, error) {
	outs := make([]*Outcome, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := s.AnalyzeFile(ctx, p)
			if err != nil {
				return err
			}
			outs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outs, nil
}

// ScheduleFile loads a snapshot and runs only the scheduler.
func (s *Service) ScheduleFile(ctx context.Context, path string) (*model.Airfield, *scheduler.Result, error) {
	m, err := model.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", path, err)
	}
	res, err := s.analyzer.Schedule(ctx, m)
	if err != nil {
		return nil, nil, fmt.Errorf("schedule %s: %w", path, err)
	}
	return m, res, nil
}

// History queries the analysis log. It fails when no backend is configured.
func (s *Service) History(ctx context.Context, q analysislog.Query) ([]analysislog.Record, error) {
	if s.store == nil {
		return nil, fmt.Errorf("analysis log is disabled (analysis_log.backend=none)")
	}
	return s.store.Query(ctx, q)
}

func (s *Service) persist(ctx context.Context, out *Outcome) {
	if s.store == nil {
		return
	}
	res := out.Result
	rec := analysislog.Record{
		RunID:       res.RunID,
		Timestamp:   res.Report.GeneratedAt,
		Airfield:    out.Airfield.Name,
		Source:      out.Source,
		Summary:     res.Report.Summary,
		Scheduled:   []string{},
		Unscheduled: []string{},
		Conflicts:   len(res.Conflicts),
		DurationMS:  float64(res.Duration.Microseconds()) / 1000,
	}
	if res.Schedule != nil {
		for _, sc := range res.Schedule.Scheduled {
			rec.Scheduled = append(rec.Scheduled, sc.ID)
		}
		for _, u := range res.Schedule.Unscheduled {
			rec.Unscheduled = append(rec.Unscheduled, u.Key())
		}
	}
	if err := s.store.Append(ctx, rec); err != nil {
		s.log.Warnf("append analysis log: %v", err)
	}
}

// publishedAnalysis is the payload announced on <prefix>/<airfield>/analysis.
type publishedAnalysis struct {
	Report report.ValidationReport `json:"report"`
	Export report.ExportModel      `json:"export"`
}

func (s *Service) publish(ctx context.Context, out *Outcome) {
	if s.publisher == nil {
		return
	}
	res := out.Result
	env, err := coremqtt.NewEnvelope("analysis", out.Airfield.Name, res.RunID,
		publishedAnalysis{Report: res.Report, Export: res.Export}, res.Report.GeneratedAt)
	if err != nil {
		s.log.Errorf("encode analysis envelope: %v", err)
		return
	}
	if err := coremqtt.PublishEnvelope(ctx, s.publisher, s.cfg.MQTT.TopicPrefix, env); err != nil {
		s.log.Warnf("publish analysis: %v", err)
	}
}

func (s *Service) shutdown(ctx context.Context) {
	tracing.ShutdownWithTimeout(ctx, s.tracing, s.log)
}

// Close flushes traces and releases every integration.
func (s *Service) Close() error {
	var firstErr error
	s.closeOnce.Do(func() {
		s.shutdown(context.Background())
		for _, c := range s.closers {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	})
	return firstErr
}
