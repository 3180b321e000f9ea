package analysis

import (
	"github.com/kilianp07/hangar/core/metrics"
	"github.com/kilianp07/hangar/core/model"
	"github.com/kilianp07/hangar/core/report"
)

// record pushes the run to the metrics sink. Sink failures are logged and
// never fail the analysis.
func (a *Analyzer) record(m *model.Airfield, res *Result, source string) {
	now := a.now().UTC()
	ev := metrics.AnalysisEvent{
		RunID:            res.RunID,
		Airfield:         m.Name,
		Source:           source,
		ManualInductions: len(m.Inductions),
		AutoInductions:   len(m.AutoInductions),
		Conflicts:        len(res.Conflicts),
		Violations:       make(map[string]int, len(res.Report.Summary.ByRule)),
		Errors:           res.Report.Summary.BySeverity[report.SeverityError],
		Warnings:         res.Report.Summary.BySeverity[report.SeverityWarning],
		Duration:         res.Duration,
		Time:             now,
	}
	for rule, n := range res.Report.Summary.ByRule {
		ev.Violations[string(rule)] = n
	}
	if res.Schedule != nil {
		ev.Scheduled = len(res.Schedule.Scheduled)
		ev.Unscheduled = len(res.Schedule.Unscheduled)
	}
	if err := a.sink.RecordAnalysis(ev); err != nil {
		a.log.Warnf("record analysis metrics: %v", err)
	}

	if rec, ok := a.sink.(metrics.PlacementRecorder); ok && res.Schedule != nil {
		evs := make([]metrics.PlacementEvent, 0, len(res.Schedule.Scheduled))
		for _, s := range res.Schedule.Scheduled {
			evs = append(evs, metrics.PlacementEvent{
				RunID:       res.RunID,
				Airfield:    m.Name,
				InductionID: s.ID,
				Aircraft:    s.Aircraft,
				Hangar:      s.Hangar,
				Door:        s.Door,
				Bays:        len(s.Bays),
				Start:       s.Start,
				End:         s.End,
				Retries:     s.Retries,
			})
		}
		if err := rec.RecordPlacements(evs); err != nil {
			a.log.Warnf("record placements: %v", err)
		}
	}

	if rec, ok := a.sink.(metrics.RejectionRecorder); ok && res.Schedule != nil {
		var evs []metrics.RejectionEvent
		for _, key := range res.Schedule.Order {
			for _, r := range res.Schedule.Rejections[key] {
				evs = append(evs, metrics.RejectionEvent{
					RunID:       res.RunID,
					Airfield:    m.Name,
					InductionID: key,
					Rule:        string(r.Rule),
					Hangar:      r.Hangar,
					Time:        now,
				})
			}
		}
		if err := rec.RecordRejections(evs); err != nil {
			a.log.Warnf("record rejections: %v", err)
		}
	}

	if rec, ok := a.sink.(metrics.UtilizationRecorder); ok {
		u := res.Export.Utilization
		if err := rec.RecordUtilization(metrics.UtilizationEvent{
			RunID:    res.RunID,
			Airfield: m.Name,
			ByHangar: u.ByHangar,
			ByBay:    u.ByBay,
			Time:     now,
		}); err != nil {
			a.log.Warnf("record utilization: %v", err)
		}
	}
}
