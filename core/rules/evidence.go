package rules

import (
	"time"

	"github.com/kilianp07/hangar/core/geometry"
)

// Evidence is the structured payload attached to a result. The set of
// variants is closed: only types in this package implement it.
type Evidence interface {
	Rule() RuleID
	evidence()
}

// WingspanTail pairs the two dimensions relevant to a door.
type WingspanTail struct {
	Wingspan   float64 `json:"wingspan"`
	TailHeight float64 `json:"tail_height"`
}

// DoorFitEvidence explains a door-fit check.
type DoorFitEvidence struct {
	Aircraft          string       `json:"aircraft"`
	Door              string       `json:"door"`
	Raw               WingspanTail `json:"raw"`
	Effective         WingspanTail `json:"effective"`
	DoorWidth         float64      `json:"door_width"`
	DoorHeight        float64      `json:"door_height"`
	Clearance         string       `json:"clearance,omitempty"`
	WingspanFits      bool         `json:"wingspan_fits"`
	HeightFits        bool         `json:"height_fits"`
	FailedConstraints []string     `json:"failed_constraints,omitempty"`
}

// BaySetFitEvidence explains a bay-set fit check.
type BaySetFitEvidence struct {
	Aircraft          string              `json:"aircraft"`
	Bays              []string            `json:"bays"`
	BayCount          int                 `json:"bay_count"`
	Effective         geometry.Dimensions `json:"effective"`
	SumWidth          float64             `json:"sum_width"`
	MinDepth          float64             `json:"min_depth"`
	MinHeight         float64             `json:"min_height"`
	LimitingDepthBay  string              `json:"limiting_depth_bay,omitempty"`
	LimitingHeightBay string              `json:"limiting_height_bay,omitempty"`
	WidthFits         bool                `json:"width_fits"`
	DepthFits         bool                `json:"depth_fits"`
	HeightFits        bool                `json:"height_fits"`
	FailedConstraints []string            `json:"failed_constraints,omitempty"`
}

// ContiguityEvidence explains a contiguity check.
type ContiguityEvidence struct {
	Bays        []string               `json:"bays"`
	BayCount    int                    `json:"bay_count"`
	Connected   bool                   `json:"connected"`
	Reachable   []string               `json:"reachable"`
	Unreachable []string               `json:"unreachable,omitempty"`
	Components  [][]string             `json:"components,omitempty"`
	Adjacency   geometry.AdjacencyMeta `json:"adjacency"`
}

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration of the interval.
func (i Interval) Duration() time.Duration { return i.End.Sub(i.Start) }

// Occupancy identifies one side of a time overlap.
type Occupancy struct {
	ID       string    `json:"id"`
	Aircraft string    `json:"aircraft"`
	Hangar   string    `json:"hangar"`
	Bays     []string  `json:"bays"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// TimeOverlapEvidence explains a conflict between two occupancies.
type TimeOverlapEvidence struct {
	First            Occupancy `json:"first"`
	Second           Occupancy `json:"second"`
	Overlap          Interval  `json:"overlap"`
	OverlapMinutes   float64   `json:"overlap_minutes"`
	IntersectingBays []string  `json:"intersecting_bays"`
}

// OwnershipEvidence explains a containment check.
type OwnershipEvidence struct {
	Hangar string `json:"hangar"`
	Kind   string `json:"kind"` // "bay" or "door"
	Name   string `json:"name"`
	Owner  string `json:"owner,omitempty"`
}

// DoorRejection summarises one rejected door.
type DoorRejection struct {
	Door         string  `json:"door"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	WingspanFits bool    `json:"wingspan_fits"`
	HeightFits   bool    `json:"height_fits"`
}

// DoorSearchEvidence lists every door of a hangar the aircraft cannot pass.
type DoorSearchEvidence struct {
	Hangar    string          `json:"hangar"`
	Effective WingspanTail    `json:"effective"`
	Rejected  []DoorRejection `json:"rejected_doors"`
}

// BaySetSearchEvidence explains why no bay set was found in a hangar.
type BaySetSearchEvidence struct {
	Hangar       string                 `json:"hangar"`
	BaysRequired geometry.BaysRequired  `json:"bays_required"`
	Adjacency    geometry.AdjacencyMeta `json:"adjacency"`
	Rejected     []Result               `json:"rejected_sets,omitempty"`
}

// SlotConflictEvidence describes a placement attempt blocked by existing
// occupancies.
type SlotConflictEvidence struct {
	Hangar      string   `json:"hangar"`
	Bays        []string `json:"bays"`
	Requested   Interval `json:"requested"`
	Conflicting []string `json:"conflicting"`
}

// TimeWindowEvidence explains a window that cannot be honoured.
type TimeWindowEvidence struct {
	Start           time.Time  `json:"start"`
	End             time.Time  `json:"end"`
	NotBefore       *time.Time `json:"not_before,omitempty"`
	NotAfter        *time.Time `json:"not_after,omitempty"`
	DurationMinutes float64    `json:"duration_minutes,omitempty"`
}

// RejectionSummary is the condensed form of a scheduler rejection.
type RejectionSummary struct {
	Rule        RuleID   `json:"rule_id"`
	Message     string   `json:"message"`
	Hangar      string   `json:"hangar,omitempty"`
	Conflicting []string `json:"conflicting,omitempty"`
}

// SchedulingFailedEvidence summarises why an auto-induction stayed
// unscheduled.
type SchedulingFailedEvidence struct {
	InductionID     string             `json:"induction_id"`
	Aircraft        string             `json:"aircraft"`
	PreferredHangar string             `json:"preferred_hangar,omitempty"`
	DurationMinutes float64            `json:"duration_minutes"`
	NotBefore       *time.Time         `json:"not_before,omitempty"`
	NotAfter        *time.Time         `json:"not_after,omitempty"`
	Rejections      []RejectionSummary `json:"rejections"`
}

// UnresolvedEvidence names a reference that did not resolve.
type UnresolvedEvidence struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
}

func (DoorFitEvidence) Rule() RuleID          { return RuleDoorFit }
func (BaySetFitEvidence) Rule() RuleID        { return RuleBaySetFit }
func (ContiguityEvidence) Rule() RuleID       { return RuleContiguity }
func (TimeOverlapEvidence) Rule() RuleID      { return RuleTimeOverlap }
func (OwnershipEvidence) Rule() RuleID        { return RuleOwnership }
func (DoorSearchEvidence) Rule() RuleID       { return RuleDoorFit }
func (BaySetSearchEvidence) Rule() RuleID     { return RuleNoSuitableBaySet }
func (SlotConflictEvidence) Rule() RuleID     { return RuleTimeOverlap }
func (TimeWindowEvidence) Rule() RuleID       { return RuleTimeWindow }
func (SchedulingFailedEvidence) Rule() RuleID { return RuleSchedulingFailed }
func (UnresolvedEvidence) Rule() RuleID       { return RuleUnresolvedRef }

func (DoorFitEvidence) evidence()          {}
func (BaySetFitEvidence) evidence()        {}
func (ContiguityEvidence) evidence()       {}
func (TimeOverlapEvidence) evidence()      {}
func (OwnershipEvidence) evidence()        {}
func (DoorSearchEvidence) evidence()       {}
func (BaySetSearchEvidence) evidence()     {}
func (SlotConflictEvidence) evidence()     {}
func (TimeWindowEvidence) evidence()       {}
func (SchedulingFailedEvidence) evidence() {}
func (UnresolvedEvidence) evidence()       {}
