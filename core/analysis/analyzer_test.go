package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/hangar/core/metrics"
	"github.com/kilianp07/hangar/core/model"
	"github.com/kilianp07/hangar/core/rules"
	"github.com/kilianp07/hangar/core/scheduler"
)

var t0 = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func at(h float64) time.Time { return t0.Add(time.Duration(h * float64(time.Hour))) }

func fixedClock() time.Time { return t0 }

func airfield() *model.Airfield {
	return &model.Airfield{
		Name: "LFPB",
		Aircraft: []model.AircraftType{
			{Name: "A320", Wingspan: 35.8, Length: 37.6, Height: 11.8},
			{Name: "A380", Wingspan: 79.8, Length: 72.7, Height: 24.1},
		},
		Hangars: []model.Hangar{{
			Name:     "H1",
			GridRows: 1,
			GridCols: 2,
			Doors:    []model.HangarDoor{{Name: "D1", Width: 40, Height: 15}},
			Bays: []model.HangarBay{
				{Name: "B1", Width: 20, Depth: 40, Height: 15, Position: &model.GridPosition{Row: 0, Col: 0}},
				{Name: "B2", Width: 20, Depth: 40, Height: 15, Position: &model.GridPosition{Row: 0, Col: 1}},
			},
		}},
		Inductions: []model.Induction{
			{ID: "M1", Aircraft: "A320", Hangar: "H1", Door: "D1", Bays: []string{"B1", "B2"}, Start: at(0), End: at(4)},
		},
		AutoInductions: []model.AutoInduction{
			{ID: "X1", Aircraft: "A320", Duration: 2 * time.Hour, PreferredHangar: "H1"},
			{ID: "X2", Aircraft: "A380", Duration: 2 * time.Hour},
		},
	}
}

type recordingSink struct {
	mu         sync.Mutex
	analyses   []metrics.AnalysisEvent
	placements []metrics.PlacementEvent
	rejections []metrics.RejectionEvent
	util       int
}

func (r *recordingSink) RecordAnalysis(ev metrics.AnalysisEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyses = append(r.analyses, ev)
	return nil
}

func (r *recordingSink) RecordPlacements(evs []metrics.PlacementEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.placements = append(r.placements, evs...)
	return nil
}

func (r *recordingSink) RecordRejections(evs []metrics.RejectionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejections = append(r.rejections, evs...)
	return nil
}

func (r *recordingSink) RecordUtilization(metrics.UtilizationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.util++
	return nil
}

type failingSink struct{}

func (failingSink) RecordAnalysis(metrics.AnalysisEvent) error { return errors.New("sink down") }

func TestAnalyzeNilModel(t *testing.T) {
	a := New(scheduler.Config{}, nil)
	_, err := a.Analyze(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoModel)
	_, err = a.Schedule(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoModel)
}

func TestAnalyzeSchedulesAndReports(t *testing.T) {
	sink := &recordingSink{}
	a := New(scheduler.Config{DefaultStart: "2024-06-01T00:00:00Z"}, nil,
		WithMetrics(sink), WithClock(fixedClock), WithRunIDs(func() string { return "run-1" }))

	res, err := a.AnalyzeSource(context.Background(), "fixture.yaml", airfield())
	require.NoError(t, err)
	require.NotNil(t, res.Schedule)
	assert.Equal(t, "run-1", res.RunID)

	require.Len(t, res.Schedule.Scheduled, 1)
	placed := res.Schedule.Scheduled[0]
	assert.Equal(t, "X1", placed.ID)
	assert.Equal(t, at(4), placed.Start)

	require.Len(t, res.Schedule.Unscheduled, 1)
	assert.Equal(t, "X2", res.Schedule.Unscheduled[0].ID)
	assert.Equal(t, 1, res.Report.Summary.ByRule[rules.RuleSchedulingFailed])
	assert.Empty(t, res.Conflicts)
	assert.Equal(t, t0, res.Report.GeneratedAt)

	require.Len(t, res.Export.AutoScheduled, 1)
	require.Len(t, res.Export.Unscheduled, 1)

	require.Len(t, sink.analyses, 1)
	ev := sink.analyses[0]
	assert.Equal(t, "LFPB", ev.Airfield)
	assert.Equal(t, "fixture.yaml", ev.Source)
	assert.Equal(t, 1, ev.Scheduled)
	assert.Equal(t, 1, ev.Unscheduled)
	assert.Equal(t, 1, ev.Warnings)
	assert.Equal(t, 1, ev.Violations[string(rules.RuleSchedulingFailed)])
	require.Len(t, sink.placements, 1)
	assert.Equal(t, 1, placed.Retries)
	assert.Equal(t, 1, sink.placements[0].Retries)
	assert.NotEmpty(t, sink.rejections)
	assert.Equal(t, 1, sink.util)
}

func TestAnalyzeManualOnly(t *testing.T) {
	m := airfield()
	m.AutoInductions = nil
	m.Inductions = append(m.Inductions, model.Induction{
		ID: "M2", Aircraft: "A320", Hangar: "H1", Bays: []string{"B2"}, Start: at(2), End: at(6),
	})
	res, err := New(scheduler.Config{}, nil, WithClock(fixedClock)).Analyze(context.Background(), m)
	require.NoError(t, err)
	assert.Nil(t, res.Schedule)
	require.Len(t, res.Conflicts, 1)
	assert.Equal(t, []string{"B2"}, res.Conflicts[0].IntersectingBays)
	assert.Equal(t, 1, res.Report.Summary.ByRule[rules.RuleTimeOverlap])
}

func TestAnalyzeCycle(t *testing.T) {
	m := airfield()
	m.AutoInductions = []model.AutoInduction{
		{ID: "X1", Aircraft: "A320", Duration: time.Hour, Preceding: []string{"X2"}},
		{ID: "X2", Aircraft: "A320", Duration: time.Hour, Preceding: []string{"X1"}},
	}
	_, err := New(scheduler.Config{}, nil).Analyze(context.Background(), m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, scheduler.ErrPrecedenceCycle))
}

func TestAnalyzeSinkFailureIsNotFatal(t *testing.T) {
	_, err := New(scheduler.Config{}, nil, WithMetrics(failingSink{})).Analyze(context.Background(), airfield())
	require.NoError(t, err)
}

func TestAnalyzeDeterministic(t *testing.T) {
	a := New(scheduler.Config{DefaultStart: "2024-06-01T00:00:00Z"}, nil, WithClock(fixedClock))
	encode := func() []byte {
		res, err := a.Analyze(context.Background(), airfield())
		require.NoError(t, err)
		b, err := json.Marshal(struct {
			Report any `json:"report"`
			Export any `json:"export"`
		}{res.Report, res.Export})
		require.NoError(t, err)
		return b
	}
	first := encode()

	var g errgroup.Group
	outs := make([][]byte, 8)
	for i := range outs {
		i := i
		g.Go(func() error {
			res, err := a.Analyze(context.Background(), airfield())
			if err != nil {
				return err
			}
			outs[i], err = json.Marshal(struct {
				Report any `json:"report"`
				Export any `json:"export"`
			}{res.Report, res.Export})
			return err
		})
	}
	require.NoError(t, g.Wait())
	for i, b := range outs {
		assert.Equal(t, string(first), string(b), "run %d differs", i)
	}
}
