package report

import (
	"sort"
	"time"

	"github.com/kilianp07/hangar/core/conflict"
	"github.com/kilianp07/hangar/core/geometry"
	"github.com/kilianp07/hangar/core/model"
	"github.com/kilianp07/hangar/core/rules"
	"github.com/kilianp07/hangar/core/scheduler"
	"github.com/kilianp07/hangar/core/search"
)

// Derived holds values computed for an exported induction.
type Derived struct {
	Effective    geometry.Dimensions `json:"effective"`
	BaysRequired int                 `json:"bays_required"`
	Connected    bool                `json:"connected"`
}

// InductionRecord is a manual or scheduled induction in the export model.
type InductionRecord struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"` // "manual" or "auto"
	Aircraft  string    `json:"aircraft"`
	Hangar    string    `json:"hangar"`
	Door      string    `json:"door,omitempty"`
	Bays      []string  `json:"bays"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Clearance string    `json:"clearance,omitempty"`
	Derived   Derived   `json:"derived"`
	Conflicts []string  `json:"conflicts"`
}

// UnscheduledRecord is an auto-induction that found no slot.
type UnscheduledRecord struct {
	ID              string         `json:"id"`
	Aircraft        string         `json:"aircraft"`
	PreferredHangar string         `json:"preferred_hangar,omitempty"`
	ReasonRule      rules.RuleID   `json:"reason_rule_id,omitempty"`
	Reason          string         `json:"reason,omitempty"`
	Evidence        rules.Evidence `json:"evidence,omitempty"`
}

// ExportDerived holds snapshot-wide derived values.
type ExportDerived struct {
	AdjacencyModeByHangar map[string]string `json:"adjacency_mode_by_hangar"`
	Window                *search.Window    `json:"search_window,omitempty"`
}

// ExportModel is the downstream view of a snapshot and its schedule.
type ExportModel struct {
	Airfield      string              `json:"airfield"`
	Inductions    []InductionRecord   `json:"inductions"`
	AutoScheduled []InductionRecord   `json:"auto_scheduled"`
	Unscheduled   []UnscheduledRecord `json:"unscheduled"`
	Derived       ExportDerived       `json:"derived"`
	Utilization   Utilization         `json:"utilization"`
}

// BuildExportModel assembles the export model. Records whose aircraft or
// hangar cannot be resolved are left out. sched may be nil.
func BuildExportModel(a *model.Airfield, sched *scheduler.Result) ExportModel {
	idx := model.NewIndex(a)
	adj := make(map[string]*geometry.Adjacency)
	adjacency := func(h *model.Hangar) *geometry.Adjacency {
		if g, ok := adj[h.Name]; ok {
			return g
		}
		g := geometry.BuildAdjacency(h)
		adj[h.Name] = g
		return g
	}

	out := ExportModel{
		Airfield:      a.Name,
		Inductions:    []InductionRecord{},
		AutoScheduled: []InductionRecord{},
		Unscheduled:   []UnscheduledRecord{},
		Derived:       ExportDerived{AdjacencyModeByHangar: make(map[string]string)},
	}
	for _, h := range idx.Hangars() {
		out.Derived.AdjacencyModeByHangar[h.Name] = adjacency(h).Meta.Mode()
	}

	derive := func(rec *InductionRecord, clearance string) bool {
		ac, ok := idx.Aircraft(rec.Aircraft)
		if !ok {
			return false
		}
		h, ok := idx.Hangar(rec.Hangar)
		if !ok {
			return false
		}
		clr := idx.ClearanceFor(ac, clearance)
		rec.Derived.Effective = geometry.Effective(ac, clr)
		if clr != nil {
			rec.Clearance = clr.Name
		}
		if br, ok := geometry.EstimateBaysRequired(rec.Derived.Effective, h); ok {
			rec.Derived.BaysRequired = br.Count
		}
		rec.Derived.Connected = len(rec.Bays) > 0 && rules.CheckContiguity(rec.Bays, adjacency(h)).OK
		return true
	}

	var placements []conflict.Placement
	keys := model.InductionKeys(a.Inductions)
	for i, in := range a.Inductions {
		rec := InductionRecord{
			ID:       keys[i],
			Kind:     "manual",
			Aircraft: in.Aircraft,
			Hangar:   in.Hangar,
			Door:     in.Door,
			Bays:     append([]string(nil), in.Bays...),
			Start:    in.Start,
			End:      in.End,
		}
		if !derive(&rec, in.Clearance) {
			continue
		}
		out.Inductions = append(out.Inductions, rec)
		placements = append(placements, manualPlacement(in, keys[i]))
	}

	if sched != nil {
		out.Derived.Window = &sched.Window
		autos := make(map[string]model.AutoInduction, len(a.AutoInductions))
		for i, k := range model.AutoKeys(a.AutoInductions) {
			autos[k] = a.AutoInductions[i]
		}
		for _, s := range sched.Scheduled {
			rec := InductionRecord{
				ID:       s.ID,
				Kind:     "auto",
				Aircraft: s.Aircraft,
				Hangar:   s.Hangar,
				Door:     s.Door,
				Bays:     append([]string(nil), s.Bays...),
				Start:    s.Start,
				End:      s.End,
			}
			if !derive(&rec, autos[s.ID].Clearance) {
				continue
			}
			out.AutoScheduled = append(out.AutoScheduled, rec)
			placements = append(placements, s.Placement())
		}
		for _, u := range sched.Unscheduled {
			rec := UnscheduledRecord{ID: u.Key(), Aircraft: u.Aircraft, PreferredHangar: u.PreferredHangar}
			if rs := sched.Rejections[u.Key()]; len(rs) > 0 {
				rec.ReasonRule = rs[0].Rule
				rec.Reason = rs[0].Message
				rec.Evidence = rs[0].Evidence
			}
			out.Unscheduled = append(out.Unscheduled, rec)
		}
	}

	conflicts := make(map[string]map[string]bool)
	mark := func(x, y string) {
		if conflicts[x] == nil {
			conflicts[x] = make(map[string]bool)
		}
		conflicts[x][y] = true
	}
	for _, c := range conflict.Detect(placements) {
		mark(c.First.ID, c.Second.ID)
		mark(c.Second.ID, c.First.ID)
	}
	attach := func(recs []InductionRecord) {
		for i := range recs {
			ids := make([]string, 0, len(conflicts[recs[i].ID]))
			for id := range conflicts[recs[i].ID] {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			recs[i].Conflicts = ids
		}
	}
	attach(out.Inductions)
	attach(out.AutoScheduled)

	sortRecords(out.Inductions)
	sortRecords(out.AutoScheduled)
	sort.SliceStable(out.Unscheduled, func(i, j int) bool { return out.Unscheduled[i].ID < out.Unscheduled[j].ID })

	out.Utilization = ComputeUtilization(idx.Hangars(), append(append([]InductionRecord(nil), out.Inductions...), out.AutoScheduled...))
	return out
}

func sortRecords(recs []InductionRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].Start.Equal(recs[j].Start) {
			return recs[i].Start.Before(recs[j].Start)
		}
		return recs[i].ID < recs[j].ID
	})
}
