// Package report turns a snapshot and its scheduling result into the
// validation report and the export model.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kilianp07/hangar/core/conflict"
	"github.com/kilianp07/hangar/core/feasibility"
	"github.com/kilianp07/hangar/core/model"
	"github.com/kilianp07/hangar/core/rules"
	"github.com/kilianp07/hangar/core/scheduler"
)

// Severity of a violation.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Subject identifies what a violation is about.
type Subject struct {
	Type string `json:"type"`
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// Violation is a failed rule.
type Violation struct {
	Rule     rules.RuleID   `json:"rule_id"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Subject  Subject        `json:"subject"`
	Evidence rules.Evidence `json:"evidence,omitempty"`
}

// Summary counts violations.
type Summary struct {
	Total      int                  `json:"total"`
	ByRule     map[rules.RuleID]int `json:"by_rule_id"`
	BySeverity map[Severity]int     `json:"by_severity"`
}

// ValidationReport lists every violation in a stable order.
type ValidationReport struct {
	Airfield    string      `json:"airfield"`
	GeneratedAt time.Time   `json:"generated_at"`
	Violations  []Violation `json:"violations"`
	Summary     Summary     `json:"summary"`
}

// BuildValidationReport checks every manual induction, reports manual
// conflicts and adds a warning per unscheduled auto-induction. sched may be
// nil when no scheduling pass ran.
func BuildValidationReport(a *model.Airfield, sched *scheduler.Result, generatedAt time.Time) ValidationReport {
	idx := model.NewIndex(a)
	var vs []Violation

	var manual []conflict.Placement
	keys := model.InductionKeys(a.Inductions)
	declared := make(map[string]string, len(keys))
	for i, in := range a.Inductions {
		declared[keys[i]] = in.ID
		manual = append(manual, manualPlacement(in, keys[i]))
		subj := Subject{Type: "induction", Name: in.Aircraft, ID: in.ID}
		if !in.End.After(in.Start) {
			vs = append(vs, Violation{
				Rule:     rules.RuleTimeWindow,
				Severity: SeverityError,
				Message:  fmt.Sprintf("induction of %s ends at or before its start", in.Aircraft),
				Subject:  subj,
				Evidence: rules.TimeWindowEvidence{Start: in.Start, End: in.End},
			})
		}
		p, ok := resolvePlacement(idx, in)
		if !ok {
			continue
		}
		for _, r := range rules.Failures(feasibility.ValidateInduction(p)) {
			vs = append(vs, Violation{Rule: r.Rule, Severity: SeverityError, Message: r.Message, Subject: subj, Evidence: r.Evidence})
		}
	}

	for _, c := range conflict.Detect(manual) {
		vs = append(vs, Violation{
			Rule:     rules.RuleTimeOverlap,
			Severity: SeverityError,
			Message:  c.Message(),
			Subject:  Subject{Type: "induction", Name: c.First.Aircraft, ID: declared[c.First.ID]},
			Evidence: c.Evidence(),
		})
	}

	if sched != nil {
		for _, auto := range sched.Unscheduled {
			vs = append(vs, schedulingFailed(auto, sched.Rejections[auto.Key()]))
		}
	}

	SortViolations(vs)
	return ValidationReport{
		Airfield:    a.Name,
		GeneratedAt: generatedAt,
		Violations:  vs,
		Summary:     Summarize(vs),
	}
}

// SortViolations orders by rule id, subject type, subject name and subject
// id, with a present id before an absent one.
func SortViolations(vs []Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		if a.Subject.Type != b.Subject.Type {
			return a.Subject.Type < b.Subject.Type
		}
		if a.Subject.Name != b.Subject.Name {
			return a.Subject.Name < b.Subject.Name
		}
		if (a.Subject.ID == "") != (b.Subject.ID == "") {
			return a.Subject.ID != ""
		}
		return a.Subject.ID < b.Subject.ID
	})
}

// Summarize counts violations by rule id and severity.
func Summarize(vs []Violation) Summary {
	s := Summary{
		Total:      len(vs),
		ByRule:     make(map[rules.RuleID]int),
		BySeverity: make(map[Severity]int),
	}
	for _, v := range vs {
		s.ByRule[v.Rule]++
		s.BySeverity[v.Severity]++
	}
	return s
}

func schedulingFailed(auto model.AutoInduction, reasons []scheduler.Rejection) Violation {
	ev := rules.SchedulingFailedEvidence{
		InductionID:     auto.Key(),
		Aircraft:        auto.Aircraft,
		PreferredHangar: auto.PreferredHangar,
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
	for _, r := range reasons {
		ev.Rejections = append(ev.Rejections, r.Summary())
	}
	return Violation{
		Rule:     rules.RuleSchedulingFailed,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("could not schedule %s: %s", auto.Key(), failureReason(reasons)),
		Subject:  Subject{Type: "auto-induction", Name: auto.Aircraft, ID: auto.Key()},
		Evidence: ev,
	}
}

func failureReason(reasons []scheduler.Rejection) string {
	if len(reasons) == 0 {
		return "no feasible placement"
	}
	first := reasons[0]
	switch first.Rule {
	case rules.RuleTimeOverlap:
		return "time slot conflict with " + strings.Join(first.Conflicting, ", ")
	case rules.RuleDoorFit:
		return "no suitable doors found (aircraft too large)"
	case rules.RuleNoSuitableBaySet:
		return "no suitable bay configuration available"
	default:
		return first.Message
	}
}

// resolvePlacement resolves the induction's references. Bays and doors that
// resolve in no hangar are kept as unresolved names and fail ownership; an
// unknown aircraft or hangar skips the induction.
func resolvePlacement(idx *model.Index, in model.Induction) (feasibility.Placement, bool) {
	ac, ok := idx.Aircraft(in.Aircraft)
	if !ok {
		return feasibility.Placement{}, false
	}
	h, ok := idx.Hangar(in.Hangar)
	if !ok {
		return feasibility.Placement{}, false
	}
	p := feasibility.Placement{
		Aircraft:  ac,
		Hangar:    h,
		Clearance: idx.ClearanceFor(ac, in.Clearance),
		Owners:    make(map[string]string),
	}
	for _, name := range in.Bays {
		b, owner, ok := idx.ResolveBay(in.Hangar, name)
		if !ok {
			p.UnresolvedBays = append(p.UnresolvedBays, name)
			continue
		}
		p.Bays = append(p.Bays, b)
		p.Owners[name] = owner
	}
	if in.Door != "" {
		if d, ok := resolveDoor(idx, h, in.Door); ok {
			p.Door = &d
		} else {
			p.UnresolvedDoor = in.Door
		}
	}
	return p, true
}

func resolveDoor(idx *model.Index, h *model.Hangar, name string) (model.HangarDoor, bool) {
	if d, ok := h.Door(name); ok {
		return d, true
	}
	for _, other := range idx.Hangars() {
		if d, ok := other.Door(name); ok {
			return d, true
		}
	}
	return model.HangarDoor{}, false
}

func manualPlacement(in model.Induction, key string) conflict.Placement {
	return conflict.Placement{
		ID:       key,
		Aircraft: in.Aircraft,
		Hangar:   in.Hangar,
		Bays:     in.Bays,
		Start:    in.Start,
		End:      in.End,
	}
}
