package rules

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kilianp07/hangar/core/geometry"
	"github.com/kilianp07/hangar/core/model"
)

// CheckDoorFit passes when the effective wingspan fits the door width and the
// effective tail height fits the door height. Equality fits.
func CheckDoorFit(aircraft string, d geometry.Dimensions, door model.HangarDoor) Result {
	ev := DoorFitEvidence{
		Aircraft:     aircraft,
		Door:         door.Name,
		Raw:          WingspanTail{Wingspan: d.Raw.Wingspan, TailHeight: d.Raw.TailHeight},
		Effective:    WingspanTail{Wingspan: d.Wingspan, TailHeight: d.TailHeight},
		DoorWidth:    door.Width,
		DoorHeight:   door.Height,
		Clearance:    d.Clearance,
		WingspanFits: d.Wingspan <= door.Width,
		HeightFits:   d.TailHeight <= door.Height,
	}
	if !ev.WingspanFits {
		ev.FailedConstraints = append(ev.FailedConstraints,
			fmt.Sprintf("wingspan %.2fm exceeds door width %.2fm", d.Wingspan, door.Width))
	}
	if !ev.HeightFits {
		ev.FailedConstraints = append(ev.FailedConstraints,
			fmt.Sprintf("tail height %.2fm exceeds door height %.2fm", d.TailHeight, door.Height))
	}
	res := Result{OK: ev.WingspanFits && ev.HeightFits, Rule: RuleDoorFit, Evidence: ev}
	if res.OK {
		res.Message = fmt.Sprintf("%s fits through door %s", aircraft, door.Name)
	} else {
		res.Message = fmt.Sprintf("%s does not fit through door %s: %s", aircraft, door.Name, strings.Join(ev.FailedConstraints, "; "))
	}
	return res
}

// CheckBaySetFit passes when the summed bay widths cover the effective
// wingspan, the shallowest bay covers the effective length and the lowest bay
// covers the effective tail height. An empty set never fits.
func CheckBaySetFit(aircraft string, d geometry.Dimensions, bays []model.HangarBay) Result {
	ev := BaySetFitEvidence{
		Aircraft:  aircraft,
		Bays:      BayNames(bays),
		BayCount:  len(bays),
		Effective: d,
	}
	if len(bays) == 0 {
		ev.FailedConstraints = []string{"no bays"}
		return Result{Rule: RuleBaySetFit, Message: aircraft + " has no bays assigned", Evidence: ev}
	}
	ev.MinDepth, ev.LimitingDepthBay = bays[0].Depth, bays[0].Name
	ev.MinHeight, ev.LimitingHeightBay = bays[0].Height, bays[0].Name
	for _, b := range bays {
		ev.SumWidth += b.Width
		if b.Depth < ev.MinDepth {
			ev.MinDepth, ev.LimitingDepthBay = b.Depth, b.Name
		}
		if b.Height < ev.MinHeight {
			ev.MinHeight, ev.LimitingHeightBay = b.Height, b.Name
		}
	}
	ev.WidthFits = ev.SumWidth >= d.Wingspan
	ev.DepthFits = ev.MinDepth >= d.Length
	ev.HeightFits = ev.MinHeight >= d.TailHeight
	if !ev.WidthFits {
		ev.FailedConstraints = append(ev.FailedConstraints,
			fmt.Sprintf("wingspan %.2fm exceeds total bay width %.2fm", d.Wingspan, ev.SumWidth))
	}
	if !ev.DepthFits {
		ev.FailedConstraints = append(ev.FailedConstraints,
			fmt.Sprintf("length %.2fm exceeds depth %.2fm of bay %s", d.Length, ev.MinDepth, ev.LimitingDepthBay))
	}
	if !ev.HeightFits {
		ev.FailedConstraints = append(ev.FailedConstraints,
			fmt.Sprintf("tail height %.2fm exceeds height %.2fm of bay %s", d.TailHeight, ev.MinHeight, ev.LimitingHeightBay))
	}
	res := Result{OK: len(ev.FailedConstraints) == 0, Rule: RuleBaySetFit, Evidence: ev}
	if res.OK {
		res.Message = fmt.Sprintf("%s fits in bays %s", aircraft, strings.Join(ev.Bays, ", "))
	} else {
		res.Message = fmt.Sprintf("%s does not fit in bays %s: %s", aircraft, strings.Join(ev.Bays, ", "), strings.Join(ev.FailedConstraints, "; "))
	}
	return res
}

// CheckContiguity passes when every bay is reachable from the first one using
// only edges between members of the set. A single bay is trivially contiguous.
func CheckContiguity(bays []string, adj *geometry.Adjacency) Result {
	ev := ContiguityEvidence{
		Bays:      append([]string(nil), bays...),
		BayCount:  len(bays),
		Adjacency: adj.Meta,
	}
	if len(bays) <= 1 {
		ev.Connected = true
		ev.Reachable = append([]string(nil), bays...)
		return Result{OK: true, Rule: RuleContiguity, Message: "single bay is contiguous", Evidence: ev}
	}
	ev.Reachable = adj.Reachable(bays)
	seen := make(map[string]bool, len(ev.Reachable))
	for _, b := range ev.Reachable {
		seen[b] = true
	}
	for _, b := range bays {
		if !seen[b] {
			ev.Unreachable = append(ev.Unreachable, b)
		}
	}
	sort.Strings(ev.Unreachable)
	// an unknown first bay leaves the walk anchored elsewhere, so the first
	// name must have been reached as well
	ev.Connected = len(ev.Unreachable) == 0 && seen[bays[0]]
	if ev.Connected {
		return Result{OK: true, Rule: RuleContiguity, Message: fmt.Sprintf("bays %s are contiguous", strings.Join(bays, ", ")), Evidence: ev}
	}
	ev.Components = adj.Components(bays)
	return Result{
		Rule:     RuleContiguity,
		Message:  fmt.Sprintf("bays %s are not contiguous: %s unreachable", strings.Join(bays, ", "), strings.Join(ev.Unreachable, ", ")),
		Evidence: ev,
	}
}

// Overlap returns the intersection of the half-open intervals [s1,e1) and
// [s2,e2). Touching intervals do not overlap.
func Overlap(s1, e1, s2, e2 time.Time) (Interval, bool) {
	if !(s1.Before(e2) && s2.Before(e1)) {
		return Interval{}, false
	}
	iv := Interval{Start: s1, End: e1}
	if s2.After(iv.Start) {
		iv.Start = s2
	}
	if e2.Before(iv.End) {
		iv.End = e2
	}
	return iv, true
}

// CheckBayOwnership passes when the bay is declared by the hangar.
func CheckBayOwnership(h *model.Hangar, bay, owner string) Result {
	ev := OwnershipEvidence{Hangar: h.Name, Kind: "bay", Name: bay, Owner: owner}
	if _, ok := h.Bay(bay); ok {
		return Result{OK: true, Rule: RuleOwnership, Message: fmt.Sprintf("bay %s belongs to hangar %s", bay, h.Name), Evidence: ev}
	}
	msg := fmt.Sprintf("bay %s does not belong to hangar %s", bay, h.Name)
	if owner != "" {
		msg += " (declared in " + owner + ")"
	}
	return Result{Rule: RuleOwnership, Message: msg, Evidence: ev}
}

// CheckDoorOwnership passes when the door is declared by the hangar.
func CheckDoorOwnership(h *model.Hangar, door string) Result {
	ev := OwnershipEvidence{Hangar: h.Name, Kind: "door", Name: door}
	if _, ok := h.Door(door); ok {
		ev.Owner = h.Name
		return Result{OK: true, Rule: RuleOwnership, Message: fmt.Sprintf("door %s belongs to hangar %s", door, h.Name), Evidence: ev}
	}
	return Result{Rule: RuleOwnership, Message: fmt.Sprintf("door %s does not belong to hangar %s", door, h.Name), Evidence: ev}
}

// BayNames returns the names of bays in the given order.
func BayNames(bays []model.HangarBay) []string {
	out := make([]string, len(bays))
	for i, b := range bays {
		out[i] = b.Name
	}
	return out
}
