package scheduler

import (
	"time"

	"github.com/kilianp07/hangar/core/conflict"
	"github.com/kilianp07/hangar/core/model"
)

// ledger accumulates the occupancies known so far in a scheduling pass:
// manual inductions first, then every placed auto-induction.
type ledger struct {
	placements []conflict.Placement
	ends       map[string]time.Time
}

func newLedger(manual []model.Induction) *ledger {
	l := &ledger{ends: make(map[string]time.Time, len(manual))}
	keys := model.InductionKeys(manual)
	for i, in := range manual {
		l.add(conflict.Placement{
			ID:       keys[i],
			Aircraft: in.Aircraft,
			Hangar:   in.Hangar,
			Bays:     in.Bays,
			Start:    in.Start,
			End:      in.End,
		})
	}
	return l
}

func (l *ledger) add(p conflict.Placement) {
	l.placements = append(l.placements, p)
	if cur, ok := l.ends[p.ID]; !ok || p.End.After(cur) {
		l.ends[p.ID] = p.End
	}
}

func (l *ledger) endOf(key string) (time.Time, bool) {
	t, ok := l.ends[key]
	return t, ok
}

// conflicts lists the occupancies sharing a bay of the hangar during
// [start,end), in insertion order.
func (l *ledger) conflicts(hangar string, bays []string, start, end time.Time) []conflict.Placement {
	probe := conflict.Placement{Hangar: hangar, Bays: bays, Start: start, End: end}
	var out []conflict.Placement
	for _, p := range l.placements {
		if _, ok := conflict.Between(p, probe); ok {
			out = append(out, p)
		}
	}
	return out
}

