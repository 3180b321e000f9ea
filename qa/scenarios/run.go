package scenarios

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/hangar/core/analysis"
	"github.com/kilianp07/hangar/core/scheduler"
	"github.com/kilianp07/hangar/infra/logger"
	"github.com/kilianp07/hangar/infra/metrics"
)

var clock = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// RunScenario analyses the scenario's airfield and checks every expectation.
//
//gocyclo:ignore
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	m, err := sc.Airfield.ToModel()
	if err != nil {
		t.Fatalf("airfield: %v", err)
	}

	a := analysis.New(sc.Scheduler, logger.NopLogger{},
		analysis.WithMetrics(sink), analysis.WithClock(func() time.Time { return clock }))
	res, err := a.Analyze(context.Background(), m)
	if sc.Expected.Cycle {
		if !errors.Is(err, scheduler.ErrPrecedenceCycle) {
			t.Fatalf("expected precedence cycle, got %v", err)
		}
		return
	}
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	placed := make(map[string]scheduler.Scheduled)
	var unscheduled []string
	if res.Schedule != nil {
		for _, s := range res.Schedule.Scheduled {
			placed[s.ID] = s
		}
		for _, u := range res.Schedule.Unscheduled {
			unscheduled = append(unscheduled, u.Key())
		}
	}
	for id, want := range sc.Expected.Scheduled {
		got, ok := placed[id]
		if !ok {
			t.Errorf("%s: expected placement, not scheduled", id)
			continue
		}
		if got.Hangar != want.Hangar || !equal(got.Bays, want.Bays) || !got.Start.Equal(want.Start) {
			t.Errorf("%s: got %s %v at %s, want %s %v at %s", id,
				got.Hangar, got.Bays, got.Start.Format(time.RFC3339),
				want.Hangar, want.Bays, want.Start.Format(time.RFC3339))
		}
	}
	if len(placed) != len(sc.Expected.Scheduled) {
		t.Errorf("scheduled %d inductions, want %d", len(placed), len(sc.Expected.Scheduled))
	}

	sort.Strings(unscheduled)
	want := append([]string(nil), sc.Expected.Unscheduled...)
	sort.Strings(want)
	if !equal(unscheduled, want) {
		t.Errorf("unscheduled %v, want %v", unscheduled, want)
	}

	for id, rule := range sc.Expected.FirstRejection {
		rej := res.Schedule.Rejections[id]
		if len(rej) == 0 || string(rej[0].Rule) != rule {
			t.Errorf("%s: first rejection %v, want %s", id, rej, rule)
		}
	}

	total := 0
	for rule, n := range sc.Expected.Violations {
		total += n
		got := 0
		for r, c := range res.Report.Summary.ByRule {
			if string(r) == rule {
				got = c
			}
		}
		if got != n {
			t.Errorf("violations[%s] = %d, want %d", rule, got, n)
		}
	}
	if res.Report.Summary.Total != total {
		t.Errorf("total violations %d, want %d: %+v", res.Report.Summary.Total, total, res.Report.Violations)
	}

	got, err := testutil.GatherAndCount(reg, "hangar_analysis_runs_total")
	if err != nil || got != 1 {
		t.Errorf("expected one run series, got %d (%v)", got, err)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
