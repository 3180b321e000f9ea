package geometry

import (
	"fmt"
	"math"

	"github.com/kilianp07/hangar/core/model"
)

// BaysRequired is the estimated number of side-by-side bays an aircraft
// needs, based on the narrowest bay of the hangar.
type BaysRequired struct {
	Count          int     `json:"bays_required"`
	NarrowestWidth float64 `json:"narrowest_bay_width"`
	Calculation    string  `json:"calculation"`
}

// EstimateBaysRequired returns ceil(effective wingspan / narrowest bay width),
// never less than one. ok is false when the hangar has no bays.
func EstimateBaysRequired(d Dimensions, h *model.Hangar) (BaysRequired, bool) {
	if len(h.Bays) == 0 {
		return BaysRequired{}, false
	}
	narrowest := h.Bays[0].Width
	for _, b := range h.Bays[1:] {
		narrowest = math.Min(narrowest, b.Width)
	}
	count := 1
	if narrowest > 0 {
		if n := int(math.Ceil(d.Wingspan / narrowest)); n > 1 {
			count = n
		}
	}
	return BaysRequired{
		Count:          count,
		NarrowestWidth: narrowest,
		Calculation:    fmt.Sprintf("ceil(%.2f / %.2f) = %d", d.Wingspan, narrowest, count),
	}, true
}
