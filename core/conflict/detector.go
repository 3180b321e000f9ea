// Package conflict finds pairs of occupancies that use the same bay at the
// same time.
package conflict

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kilianp07/hangar/core/rules"
)

// Placement is a resolved occupancy of bays over [Start, End).
type Placement struct {
	ID       string
	Aircraft string
	Hangar   string
	Bays     []string
	Start    time.Time
	End      time.Time
}

// Occupancy converts the placement for evidence.
func (p Placement) Occupancy() rules.Occupancy {
	return rules.Occupancy{
		ID:       p.ID,
		Aircraft: p.Aircraft,
		Hangar:   p.Hangar,
		Bays:     append([]string(nil), p.Bays...),
		Start:    p.Start,
		End:      p.End,
	}
}

// Conflict is a detected pair. First precedes Second in input order.
type Conflict struct {
	First            Placement
	Second           Placement
	IntersectingBays []string
	Overlap          rules.Interval
}

// Evidence returns the time-overlap evidence of the conflict.
func (c Conflict) Evidence() rules.TimeOverlapEvidence {
	return rules.TimeOverlapEvidence{
		First:            c.First.Occupancy(),
		Second:           c.Second.Occupancy(),
		Overlap:          c.Overlap,
		OverlapMinutes:   c.Overlap.Duration().Minutes(),
		IntersectingBays: append([]string(nil), c.IntersectingBays...),
	}
}

// Message describes the conflict for reports.
func (c Conflict) Message() string {
	return fmt.Sprintf("%s and %s overlap in hangar %s on bays %s",
		c.First.ID, c.Second.ID, c.First.Hangar, strings.Join(c.IntersectingBays, ", "))
}

// Between checks a single pair: same hangar, at least one shared bay and
// overlapping time ranges.
func Between(a, b Placement) (Conflict, bool) {
	if a.Hangar != b.Hangar {
		return Conflict{}, false
	}
	shared := SharedBays(a.Bays, b.Bays)
	if len(shared) == 0 {
		return Conflict{}, false
	}
	iv, ok := rules.Overlap(a.Start, a.End, b.Start, b.End)
	if !ok {
		return Conflict{}, false
	}
	return Conflict{First: a, Second: b, IntersectingBays: shared, Overlap: iv}, true
}

// Detect compares every pair once.
func Detect(ps []Placement) []Conflict {
	var out []Conflict
	for i := 0; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			if c, ok := Between(ps[i], ps[j]); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

// SharedBays returns the sorted, de-duplicated intersection of two bay lists.
func SharedBays(a, b []string) []string {
	in := make(map[string]bool, len(a))
	for _, n := range a {
		in[n] = true
	}
	var out []string
	for _, n := range b {
		if in[n] {
			out = append(out, n)
			delete(in, n)
		}
	}
	sort.Strings(out)
	return out
}
