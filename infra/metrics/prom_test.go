package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/hangar/core/factory"
	coremetrics "github.com/kilianp07/hangar/core/metrics"
)

func TestPromSink_RecordAnalysis(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	ev := coremetrics.AnalysisEvent{
		Airfield:    "LFPB",
		Scheduled:   2,
		Unscheduled: 1,
		Errors:      1,
		Violations:  map[string]int{"door-fit": 1, "scheduling-failed": 1},
		Duration:    20 * time.Millisecond,
	}
	require.NoError(t, sink.RecordAnalysis(ev))
	require.NoError(t, sink.RecordAnalysis(coremetrics.AnalysisEvent{Airfield: "LFPB", Violations: map[string]int{"time-overlap": 2}}))

	assert.Equal(t, 1.0, testutil.ToFloat64(sink.runs.WithLabelValues("LFPB", "violations")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.runs.WithLabelValues("LFPB", "ok")))
	// the second run replaces the previous per-rule gauges
	assert.Equal(t, 1, testutil.CollectAndCount(sink.violations))
	assert.Equal(t, 2.0, testutil.ToFloat64(sink.violations.WithLabelValues("LFPB", "time-overlap")))
	assert.Equal(t, 0.0, testutil.ToFloat64(sink.autos.WithLabelValues("LFPB", "scheduled")))
}

func TestPromSink_ReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	s1, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	s2, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	require.NoError(t, s1.RecordRejections([]coremetrics.RejectionEvent{{Airfield: "A", Rule: "door-fit"}}))
	require.NoError(t, s2.RecordRejections([]coremetrics.RejectionEvent{{Airfield: "A", Rule: "door-fit"}}))
	assert.Equal(t, 2.0, testutil.ToFloat64(s1.rejections.WithLabelValues("A", "door-fit")))
}

func TestPromSink_PlacementsAndUtilization(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	require.NoError(t, sink.RecordPlacements([]coremetrics.PlacementEvent{
		{Airfield: "A", Hangar: "H1", Retries: 0},
		{Airfield: "A", Hangar: "H1", Retries: 2},
	}))
	assert.Equal(t, 2.0, testutil.ToFloat64(sink.placements.WithLabelValues("A", "H1")))

	require.NoError(t, sink.RecordUtilization(coremetrics.UtilizationEvent{
		Airfield: "A",
		ByBay:    map[string]float64{"H1/B1": 50, "H1/B2": 25},
	}))
	assert.Equal(t, 50.0, testutil.ToFloat64(sink.utilization.WithLabelValues("A", "H1", "B1")))
	assert.Equal(t, 2, testutil.CollectAndCount(sink.utilization))
}

func TestPusher_Push(t *testing.T) {
	var path, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	require.NoError(t, sink.RecordAnalysis(coremetrics.AnalysisEvent{Airfield: "LFPB"}))

	require.NoError(t, NewPusher(srv.URL, "hangar", reg).Push(context.Background(), "LFPB"))
	assert.Equal(t, "/metrics/job/hangar/instance/LFPB", path)
	assert.NotEmpty(t, body)
}

func TestFactoryRegistered(t *testing.T) {
	s, err := coremetrics.NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}})
	require.NoError(t, err)
	_, ok := s.(coremetrics.NopSink)
	assert.True(t, ok)
	_, err = coremetrics.NewMetricsSink([]factory.ModuleConfig{{Type: "statsd"}})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "prometheus"))
}

func TestFactoryInfluxConf(t *testing.T) {
	assert.Subset(t, coremetrics.SinkTypes(), []string{"influx", "nop", "prometheus"})

	_, err := coremetrics.NewMetricsSink([]factory.ModuleConfig{{Type: "influx", Conf: map[string]any{"org": "ops"}}})
	require.Error(t, err)

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	s, err := coremetrics.NewMetricsSink([]factory.ModuleConfig{{Type: "influx", Conf: map[string]any{
		"url": srv.URL, "bucket": "hangar", "strict": "true",
	}}})
	require.NoError(t, err)
	sink, ok := s.(*InfluxSink)
	require.True(t, ok, "got %T", s)
	require.NoError(t, sink.Close())
}
