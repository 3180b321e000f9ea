package report

import (
	"math"

	"github.com/kilianp07/hangar/core/model"
	"github.com/kilianp07/hangar/core/rules"
)

// Utilization reports the share of the schedule span during which bays are
// occupied, in percent.
type Utilization struct {
	Span     *rules.Interval    `json:"span,omitempty"`
	ByHangar map[string]float64 `json:"by_hangar"`
	// ByBay is keyed by "hangar/bay".
	ByBay map[string]float64 `json:"by_bay"`
}

// ComputeUtilization measures bay occupancy over the span from the earliest
// start to the latest end of recs. A hangar's figure is the mean over all of
// its bays, idle ones included.
func ComputeUtilization(hangars []*model.Hangar, recs []InductionRecord) Utilization {
	u := Utilization{ByHangar: make(map[string]float64), ByBay: make(map[string]float64)}
	if len(recs) == 0 {
		return u
	}
	span := rules.Interval{Start: recs[0].Start, End: recs[0].End}
	for _, r := range recs[1:] {
		if r.Start.Before(span.Start) {
			span.Start = r.Start
		}
		if r.End.After(span.End) {
			span.End = r.End
		}
	}
	u.Span = &span
	total := span.Duration().Seconds()
	if total <= 0 {
		return u
	}

	busy := make(map[string]float64)
	for _, r := range recs {
		d := r.End.Sub(r.Start).Seconds()
		if d <= 0 {
			continue
		}
		for _, b := range r.Bays {
			busy[r.Hangar+"/"+b] += d
		}
	}
	for _, h := range hangars {
		if len(h.Bays) == 0 {
			continue
		}
		sum := 0.0
		for _, b := range h.Bays {
			pct := round2(math.Min(busy[h.Name+"/"+b.Name]/total, 1) * 100)
			u.ByBay[h.Name+"/"+b.Name] = pct
			sum += pct
		}
		u.ByHangar[h.Name] = round2(sum / float64(len(h.Bays)))
	}
	return u
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
