package metrics

import "time"

// AnalysisEvent summarises one analysis run.
type AnalysisEvent struct {
	RunID            string
	Airfield         string
	Source           string
	ManualInductions int
	AutoInductions   int
	Scheduled        int
	Unscheduled      int
	Conflicts        int
	// Violations counts violations by rule id.
	Violations map[string]int
	Errors     int
	Warnings   int
	Duration   time.Duration
	Time       time.Time
}

// MetricsSink records analysis runs for observability purposes.
type MetricsSink interface {
	RecordAnalysis(ev AnalysisEvent) error
}

// PlacementEvent describes an auto-induction placed by the scheduler.
type PlacementEvent struct {
	RunID       string
	Airfield    string
	InductionID string
	Aircraft    string
	Hangar      string
	Door        string
	Bays        int
	Start       time.Time
	End         time.Time
	Retries     int
}

// PlacementRecorder records scheduler placements.
type PlacementRecorder interface {
	RecordPlacements(evs []PlacementEvent) error
}

// RejectionEvent is one refused hangar or slot.
type RejectionEvent struct {
	RunID       string
	Airfield    string
	InductionID string
	Rule        string
	Hangar      string
	Time        time.Time
}

// RejectionRecorder records scheduler rejections.
type RejectionRecorder interface {
	RecordRejections(evs []RejectionEvent) error
}

// UtilizationEvent carries bay occupancy percentages of a run.
type UtilizationEvent struct {
	RunID    string
	Airfield string
	ByHangar map[string]float64
	// ByBay is keyed by "hangar/bay".
	ByBay map[string]float64
	Time  time.Time
}

// UtilizationRecorder records occupancy figures.
type UtilizationRecorder interface {
	RecordUtilization(ev UtilizationEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordAnalysis(AnalysisEvent) error       { return nil }
func (NopSink) RecordPlacements([]PlacementEvent) error  { return nil }
func (NopSink) RecordRejections([]RejectionEvent) error  { return nil }
func (NopSink) RecordUtilization(UtilizationEvent) error { return nil }
