package app

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/hangar/config"
	"github.com/kilianp07/hangar/core/analysislog"
	coremetrics "github.com/kilianp07/hangar/core/metrics"
	coremqtt "github.com/kilianp07/hangar/core/mqtt"
	"github.com/kilianp07/hangar/core/scheduler"
	"github.com/kilianp07/hangar/infra/mqtt"
)

func newService(t *testing.T) (*Service, *mqtt.MockPublisher, analysislog.Store) {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	store, err := analysislog.NewJSONLStore(filepath.Join(t.TempDir(), "runs.jsonl"), 1, 1, 0)
	require.NoError(t, err)
	pub := mqtt.NewMockPublisher()
	svc, err := New(context.Background(), cfg,
		WithMetricsSink(coremetrics.NopSink{}), WithStore(store), WithPublisher(pub))
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc, pub, store
}

func TestAnalyzeFile(t *testing.T) {
	svc, pub, _ := newService(t)
	out, err := svc.AnalyzeFile(context.Background(), "testdata/lfpb.yaml")
	require.NoError(t, err)
	assert.Equal(t, "LFPB", out.Airfield.Name)
	require.NotNil(t, out.Result.Schedule)
	assert.Len(t, out.Result.Schedule.Scheduled, 1)

	msgs := pub.Published()
	require.Len(t, msgs, 1)
	assert.Equal(t, "hangar/LFPB/analysis", msgs[0].Topic)
	var env coremqtt.Envelope
	require.NoError(t, json.Unmarshal(msgs[0].Payload, &env))
	assert.Equal(t, out.Result.RunID, env.RunID)

	hist, err := svc.History(context.Background(), analysislog.Query{Airfield: "LFPB"})
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, []string{"X1"}, hist[0].Scheduled)
	assert.Equal(t, []string{"X2"}, hist[0].Unscheduled)
	assert.Equal(t, "testdata/lfpb.yaml", hist[0].Source)
}

func TestAnalyzeFiles(t *testing.T) {
	svc, pub, _ := newService(t)
	paths := []string{"testdata/lfpb.yaml", "testdata/lfpb.yaml", "testdata/lfpb.yaml"}
	outs, err := svc.AnalyzeFiles(context.Background(), paths, 2)
	require.NoError(t, err)
	require.Len(t, outs, 3)
	for _, o := range outs {
		assert.Equal(t, "LFPB", o.Airfield.Name)
	}
	assert.Len(t, pub.Published(), 3)

	_, err = svc.AnalyzeFiles(context.Background(), []string{"testdata/lfpb.yaml", "testdata/cycle.yaml"}, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, scheduler.ErrPrecedenceCycle))
}

func TestScheduleFile(t *testing.T) {
	svc, _, _ := newService(t)
	m, res, err := svc.ScheduleFile(context.Background(), "testdata/lfpb.yaml")
	require.NoError(t, err)
	assert.Equal(t, "LFPB", m.Name)
	assert.Len(t, res.Unscheduled, 1)

	_, _, err = svc.ScheduleFile(context.Background(), "testdata/missing.yaml")
	assert.Error(t, err)
}

func TestHistoryDisabled(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	svc, err := New(context.Background(), cfg, WithMetricsSink(coremetrics.NopSink{}))
	require.NoError(t, err)
	defer func() { _ = svc.Close() }()
	_, err = svc.History(context.Background(), analysislog.Query{})
	assert.Error(t, err)
	require.NoError(t, svc.Close())
}
