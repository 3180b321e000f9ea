package search

import (
	"time"

	"github.com/kilianp07/hangar/core/model"
)

// Window bounds the auto-scheduler's search.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// CalculateWindow anchors the window at the earliest manual induction start,
// or at defaultStart when there is none, and extends it by horizon.
func CalculateWindow(a *model.Airfield, defaultStart time.Time, horizon time.Duration) Window {
	start := defaultStart
	for i, in := range a.Inductions {
		if i == 0 || in.Start.Before(start) {
			start = in.Start
		}
	}
	return Window{Start: start, End: start.Add(horizon)}
}
