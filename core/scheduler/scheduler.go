package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/kilianp07/hangar/core/conflict"
	"github.com/kilianp07/hangar/core/geometry"
	"github.com/kilianp07/hangar/core/logger"
	"github.com/kilianp07/hangar/core/model"
	"github.com/kilianp07/hangar/core/rules"
	"github.com/kilianp07/hangar/core/search"
)

// Scheduled is an auto-induction that received a slot.
type Scheduled struct {
	ID        string    `json:"id"`
	Aircraft  string    `json:"aircraft"`
	Hangar    string    `json:"hangar"`
	Door      string    `json:"door"`
	Bays      []string  `json:"bays"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Clearance string    `json:"clearance,omitempty"`
	Retries   int       `json:"retries"`
}

// Placement converts the slot for conflict checks.
func (s Scheduled) Placement() conflict.Placement {
	return conflict.Placement{ID: s.ID, Aircraft: s.Aircraft, Hangar: s.Hangar, Bays: s.Bays, Start: s.Start, End: s.End}
}

// Rejection records why a hangar or a time slot was refused.
type Rejection struct {
	Rule        rules.RuleID   `json:"rule_id"`
	Message     string         `json:"message"`
	Hangar      string         `json:"hangar,omitempty"`
	Conflicting []string       `json:"conflicting,omitempty"`
	Evidence    rules.Evidence `json:"evidence,omitempty"`
}

// Summary drops the evidence.
func (r Rejection) Summary() rules.RejectionSummary {
	return rules.RejectionSummary{Rule: r.Rule, Message: r.Message, Hangar: r.Hangar, Conflicting: r.Conflicting}
}

// Result is the outcome of a scheduling pass.
type Result struct {
	Scheduled []Scheduled
	// Unscheduled holds copies of the declarations whose ID is set to their
	// key from model.AutoKeys.
	Unscheduled []model.AutoInduction
	// Rejections are keyed by model.AutoKeys. Inductions that were placed
	// after a refused slot keep their rejections too.
	Rejections map[string][]Rejection
	// Order lists auto-induction keys in the order they were visited.
	Order  []string
	Window search.Window
}

// AutoScheduler places auto-inductions greedily.
type AutoScheduler struct {
	cfg Config
	log logger.Logger
}

// New creates an AutoScheduler. Unset config fields take their defaults.
func New(cfg Config, log logger.Logger) *AutoScheduler {
	cfg.SetDefaults()
	return &AutoScheduler{cfg: cfg, log: logger.OrNop(log)}
}

// Schedule places every auto-induction of the snapshot. Manual inductions
// are treated as fixed occupancies. Only a precedence cycle is an error.
func (s *AutoScheduler) Schedule(a *model.Airfield) (*Result, error) {
	order, err := Order(a.AutoInductions)
	if err != nil {
		return nil, err
	}
	idx := model.NewIndex(a)
	res := &Result{
		Window:     search.CalculateWindow(a, s.cfg.Baseline(), s.cfg.Horizon()),
		Rejections: make(map[string][]Rejection),
	}
	led := newLedger(a.Inductions)
	keys := model.AutoKeys(a.AutoInductions)
	for _, i := range order {
		auto := a.AutoInductions[i]
		key := keys[i]
		res.Order = append(res.Order, key)
		placed, reasons := s.place(auto, key, idx, res.Window, led)
		if len(reasons) > 0 {
			res.Rejections[key] = append(res.Rejections[key], reasons...)
		}
		if placed == nil {
			s.log.Warnf("auto induction %s left unscheduled after %d rejections", key, len(reasons))
			auto.ID = key
			res.Unscheduled = append(res.Unscheduled, auto)
			continue
		}
		s.log.Infof("auto induction %s placed in %s bays %s at %s", key, placed.Hangar,
			strings.Join(placed.Bays, ","), placed.Start.Format(time.RFC3339))
		led.add(placed.Placement())
		res.Scheduled = append(res.Scheduled, *placed)
	}
	return res, nil
}

func (s *AutoScheduler) place(auto model.AutoInduction, key string, idx *model.Index, w search.Window, led *ledger) (*Scheduled, []Rejection) {
	ac, ok := idx.Aircraft(auto.Aircraft)
	if !ok {
		return nil, []Rejection{unresolved("aircraft", auto.Aircraft)}
	}
	hangars := idx.Hangars()
	if auto.PreferredHangar != "" {
		h, ok := idx.Hangar(auto.PreferredHangar)
		if !ok {
			return nil, []Rejection{unresolved("hangar", auto.PreferredHangar)}
		}
		hangars = []*model.Hangar{h}
	}
	if len(hangars) == 0 {
		return nil, []Rejection{unresolved("hangar", "")}
	}

	start, floor := earliestStart(auto, w, led)
	if !auto.NotAfter.IsZero() && start.Add(auto.Duration).After(auto.NotAfter) {
		start = auto.NotAfter.Add(-auto.Duration)
		if start.Before(floor) {
			return nil, []Rejection{windowRejection(auto, start)}
		}
	}
	limit := w.End
	if !auto.NotAfter.IsZero() {
		limit = auto.NotAfter
	}

	clr := idx.ClearanceFor(ac, auto.Clearance)
	var reasons []Rejection
	for _, h := range hangars {
		doors := search.FindSuitableDoors(ac, h, clr)
		if len(doors.Doors) == 0 {
			r := Rejection{
				Rule:     rules.RuleDoorFit,
				Message:  fmt.Sprintf("no door of hangar %s fits %s", h.Name, ac.Name),
				Hangar:   h.Name,
				Evidence: doors.Evidence(h.Name, geometry.Effective(ac, clr)),
			}
			s.log.Debugw("hangar rejected", map[string]any{"induction": key, "hangar": h.Name, "rule_id": r.Rule})
			reasons = append(reasons, r)
			continue
		}
		sets := search.FindSuitableBaySets(ac, h, clr, s.cfg.MaxBaysPerSet)
		if len(sets.Sets) == 0 {
			r := Rejection{
				Rule:     rules.RuleNoSuitableBaySet,
				Message:  fmt.Sprintf("no suitable bay set in hangar %s for %s (needs %d bays)", h.Name, ac.Name, sets.BaysRequired.Count),
				Hangar:   h.Name,
				Evidence: sets.Evidence(h.Name),
			}
			s.log.Debugw("hangar rejected", map[string]any{"induction": key, "hangar": h.Name, "rule_id": r.Rule})
			reasons = append(reasons, r)
			continue
		}

		at := start
		for attempt := 1; ; attempt++ {
			end := at.Add(auto.Duration)
			bays, next, blocking := freeSet(sets.Sets, h.Name, at, end, led)
			if bays != nil {
				return &Scheduled{
					ID:        key,
					Aircraft:  ac.Name,
					Hangar:    h.Name,
					Door:      doors.Doors[0].Name,
					Bays:      bays,
					Start:     at,
					End:       end,
					Clearance: clearanceName(clr),
					Retries:   len(reasons),
				}, reasons
			}
			reasons = append(reasons, slotRejection(h.Name, rules.BayNames(sets.Sets[0]), at, end, blocking))
			if next.Add(auto.Duration).After(limit) {
				s.log.Debugw("slot search exhausted", map[string]any{"induction": key, "hangar": h.Name, "attempts": attempt})
				break
			}
			at = next
		}
	}
	return nil, reasons
}

// freeSet returns the first bay set without conflicts over [start,end). When
// every set is blocked it returns the earliest time one of them frees up and
// the placements blocking the first set.
func freeSet(sets [][]model.HangarBay, hangar string, start, end time.Time, led *ledger) ([]string, time.Time, []conflict.Placement) {
	var next time.Time
	var first []conflict.Placement
	for i, set := range sets {
		names := rules.BayNames(set)
		blocking := led.conflicts(hangar, names, start, end)
		if len(blocking) == 0 {
			return names, time.Time{}, nil
		}
		if i == 0 {
			first = blocking
		}
		free := latestEnd(blocking)
		if next.IsZero() || free.Before(next) {
			next = free
		}
	}
	return nil, next, first
}

func earliestStart(auto model.AutoInduction, w search.Window, led *ledger) (start, floor time.Time) {
	floor = auto.NotBefore
	for _, ref := range auto.Preceding {
		if end, ok := led.endOf(ref); ok && end.After(floor) {
			floor = end
		}
	}
	start = w.Start
	if floor.After(start) {
		start = floor
	}
	return start, floor
}

func latestEnd(ps []conflict.Placement) time.Time {
	var t time.Time
	for _, p := range ps {
		if p.End.After(t) {
			t = p.End
		}
	}
	return t
}

func clearanceName(c *model.ClearanceEnvelope) string {
	if c == nil {
		return ""
	}
	return c.Name
}

func unresolved(kind, name string) Rejection {
	msg := fmt.Sprintf("unknown %s %q", kind, name)
	if name == "" {
		msg = "no " + kind + " declared"
	}
	return Rejection{
		Rule:     rules.RuleUnresolvedRef,
		Message:  msg,
		Evidence: rules.UnresolvedEvidence{Kind: kind, Name: name},
	}
}

func windowRejection(auto model.AutoInduction, start time.Time) Rejection {
	ev := rules.TimeWindowEvidence{
		Start:           start,
		End:             start.Add(auto.Duration),
		DurationMinutes: auto.Duration.Minutes(),
	}
	if !auto.NotBefore.IsZero() {
		nb := auto.NotBefore
		ev.NotBefore = &nb
	}
	if !auto.NotAfter.IsZero() {
		na := auto.NotAfter
		ev.NotAfter = &na
	}
	return Rejection{
		Rule: rules.RuleTimeWindow,
		Message: fmt.Sprintf("%.0f minutes do not fit before %s after predecessors and not_before",
			auto.Duration.Minutes(), auto.NotAfter.Format(time.RFC3339)),
		Evidence: ev,
	}
}

func slotRejection(hangar string, bays []string, start, end time.Time, blocking []conflict.Placement) Rejection {
	ids := make([]string, len(blocking))
	for i, p := range blocking {
		ids[i] = p.ID
	}
	return Rejection{
		Rule: rules.RuleTimeOverlap,
		Message: fmt.Sprintf("bays %s of hangar %s are occupied between %s and %s by %s",
			strings.Join(bays, ","), hangar, start.Format(time.RFC3339), end.Format(time.RFC3339), strings.Join(ids, ", ")),
		Hangar:      hangar,
		Conflicting: ids,
		Evidence: rules.SlotConflictEvidence{
			Hangar:      hangar,
			Bays:        bays,
			Requested:   rules.Interval{Start: start, End: end},
			Conflicting: ids,
		},
	}
}
