// Package feasibility validates a concrete placement of an aircraft and
// filters bays that could hold it on their own.
package feasibility

import (
	"github.com/kilianp07/hangar/core/geometry"
	"github.com/kilianp07/hangar/core/model"
	"github.com/kilianp07/hangar/core/rules"
)

// Placement is the subject of ValidateInduction. Door and Clearance are
// optional. Owners maps bay names to the hangar that actually declares them
// when the caller resolved bays across hangars. UnresolvedBays and
// UnresolvedDoor name references declared by no hangar at all.
type Placement struct {
	Aircraft       model.AircraftType
	Hangar         *model.Hangar
	Bays           []model.HangarBay
	Door           *model.HangarDoor
	Clearance      *model.ClearanceEnvelope
	Owners         map[string]string
	UnresolvedBays []string
	UnresolvedDoor string
}

// ValidateInduction runs, in order, the door fit (when a door is given), the
// bay-set fit, contiguity (for more than one bay) and the ownership checks.
// Every result is returned, passing or not.
func ValidateInduction(p Placement) []rules.Result {
	d := geometry.Effective(p.Aircraft, p.Clearance)
	var out []rules.Result
	if p.Door != nil {
		out = append(out, rules.CheckDoorFit(p.Aircraft.Name, d, *p.Door))
	}
	out = append(out, rules.CheckBaySetFit(p.Aircraft.Name, d, p.Bays))
	names := rules.BayNames(p.Bays)
	if len(p.Bays) > 1 {
		out = append(out, rules.CheckContiguity(names, geometry.BuildAdjacency(p.Hangar)))
	}
	for _, n := range names {
		owner := p.Owners[n]
		if owner == "" {
			owner = p.Hangar.Name
		}
		out = append(out, rules.CheckBayOwnership(p.Hangar, n, owner))
	}
	for _, n := range p.UnresolvedBays {
		out = append(out, rules.CheckBayOwnership(p.Hangar, n, ""))
	}
	if p.Door != nil {
		out = append(out, rules.CheckDoorOwnership(p.Hangar, p.Door.Name))
	} else if p.UnresolvedDoor != "" {
		out = append(out, rules.CheckDoorOwnership(p.Hangar, p.UnresolvedDoor))
	}
	return out
}

// FindSuitableBays returns, in declaration order, the bays that can hold the
// aircraft without any neighbour.
func FindSuitableBays(ac model.AircraftType, h *model.Hangar, c *model.ClearanceEnvelope) []model.HangarBay {
	d := geometry.Effective(ac, c)
	var out []model.HangarBay
	for _, b := range h.Bays {
		if rules.CheckBaySetFit(ac.Name, d, []model.HangarBay{b}).OK {
			out = append(out, b)
		}
	}
	return out
}
