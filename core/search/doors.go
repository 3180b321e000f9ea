// Package search finds doors, bay sets and the scheduling window the
// auto-scheduler works with.
package search

import (
	"github.com/kilianp07/hangar/core/geometry"
	"github.com/kilianp07/hangar/core/model"
	"github.com/kilianp07/hangar/core/rules"
)

// DoorSearch holds the doors an aircraft fits through, in declaration order,
// along with every failed check.
type DoorSearch struct {
	Doors    []model.HangarDoor
	Rejected []rules.Result
}

// Evidence condenses the rejected doors of the search.
func (s DoorSearch) Evidence(hangar string, d geometry.Dimensions) rules.DoorSearchEvidence {
	ev := rules.DoorSearchEvidence{
		Hangar:    hangar,
		Effective: rules.WingspanTail{Wingspan: d.Wingspan, TailHeight: d.TailHeight},
	}
	for _, r := range s.Rejected {
		de, ok := r.Evidence.(rules.DoorFitEvidence)
		if !ok {
			continue
		}
		ev.Rejected = append(ev.Rejected, rules.DoorRejection{
			Door:         de.Door,
			Width:        de.DoorWidth,
			Height:       de.DoorHeight,
			WingspanFits: de.WingspanFits,
			HeightFits:   de.HeightFits,
		})
	}
	return ev
}

// FindSuitableDoors checks every door of the hangar.
func FindSuitableDoors(ac model.AircraftType, h *model.Hangar, c *model.ClearanceEnvelope) DoorSearch {
	d := geometry.Effective(ac, c)
	var out DoorSearch
	for _, door := range h.Doors {
		res := rules.CheckDoorFit(ac.Name, d, door)
		if res.OK {
			out.Doors = append(out.Doors, door)
		} else {
			out.Rejected = append(out.Rejected, res)
		}
	}
	return out
}
