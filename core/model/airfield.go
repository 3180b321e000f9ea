package model

import (
	"fmt"
	"time"
)

// ClearanceEnvelope holds the safety margins added to an aircraft's raw
// dimensions before any fit check. Margins are metres.
type ClearanceEnvelope struct {
	Name               string
	LateralMargin      float64 // added to wingspan
	LongitudinalMargin float64 // added to length
	VerticalMargin     float64 // added to height and tail height
}

// AircraftType describes the physical envelope of an aircraft model.
type AircraftType struct {
	Name       string
	Wingspan   float64
	Length     float64
	Height     float64
	TailHeight float64 // zero means the tail is as high as Height

	// Clearance names the default envelope used when an induction does not
	// override it.
	Clearance string
}

// EffectiveTail returns the tail height used by vertical checks.
func (a AircraftType) EffectiveTail() float64 {
	if a.TailHeight > 0 {
		return a.TailHeight
	}
	return a.Height
}

// HangarDoor is an opening an aircraft must pass through.
type HangarDoor struct {
	Name   string
	Width  float64
	Height float64
}

// GridPosition locates a bay on its hangar's grid.
type GridPosition struct {
	Row int
	Col int
}

// HangarBay is a rectangular parking slot.
type HangarBay struct {
	Name     string
	Width    float64
	Depth    float64
	Height   float64
	Position *GridPosition
	Adjacent []string
}

// Hangar groups doors and bays. The grid is declared when both GridRows and
// GridCols are positive.
type Hangar struct {
	Name     string
	Doors    []HangarDoor
	Bays     []HangarBay
	GridRows int
	GridCols int
}

// HasGrid reports whether the hangar declares grid dimensions.
func (h *Hangar) HasGrid() bool {
	return h.GridRows > 0 && h.GridCols > 0
}

// Bay looks a bay up by name.
func (h *Hangar) Bay(name string) (HangarBay, bool) {
	for _, b := range h.Bays {
		if b.Name == name {
			return b, true
		}
	}
	return HangarBay{}, false
}

// Door looks a door up by name.
func (h *Hangar) Door(name string) (HangarDoor, bool) {
	for _, d := range h.Doors {
		if d.Name == name {
			return d, true
		}
	}
	return HangarDoor{}, false
}

// Induction is a manually scheduled occupation of bays over [Start, End).
type Induction struct {
	ID        string
	Aircraft  string
	Hangar    string
	Door      string
	Bays      []string
	Start     time.Time
	End       time.Time
	Clearance string
	Metadata  map[string]string
}

// Key identifies the induction in exports: its ID or aircraft_start.
func (i Induction) Key() string {
	if i.ID != "" {
		return i.ID
	}
	return i.Aircraft + "_" + i.Start.UTC().Format(time.RFC3339)
}

// AutoInduction asks the scheduler to place an aircraft for Duration.
type AutoInduction struct {
	ID              string
	Aircraft        string
	Duration        time.Duration
	PreferredHangar string
	Preceding       []string
	NotBefore       time.Time // zero means unconstrained
	NotAfter        time.Time // zero means unconstrained
	Clearance       string
	Metadata        map[string]string
}

// Key identifies the auto-induction: its ID or auto_<aircraft>.
func (a AutoInduction) Key() string {
	if a.ID != "" {
		return a.ID
	}
	return "auto_" + a.Aircraft
}

// InductionKeys returns one distinct key per induction, in order. The first
// induction with a given Key keeps it; later ones get _<position> appended,
// position being 1-based.
func InductionKeys(ins []Induction) []string {
	base := make([]string, len(ins))
	for i, in := range ins {
		base[i] = in.Key()
	}
	return uniqueKeys(base)
}

// AutoKeys is InductionKeys for auto-inductions. Scheduler results, reports
// and exports identify auto-inductions by these keys.
func AutoKeys(autos []AutoInduction) []string {
	base := make([]string, len(autos))
	for i, a := range autos {
		base[i] = a.Key()
	}
	return uniqueKeys(base)
}

func uniqueKeys(base []string) []string {
	out := make([]string, len(base))
	taken := make(map[string]bool, len(base))
	for i, k := range base {
		key := k
		for n := i + 1; taken[key]; n++ {
			key = fmt.Sprintf("%s_%d", k, n)
		}
		taken[key] = true
		out[i] = key
	}
	return out
}

// Airfield is a fully resolved snapshot handed to the engine. Cross references
// are names resolved through an Index.
type Airfield struct {
	Name           string
	Clearances     []ClearanceEnvelope
	Aircraft       []AircraftType
	Hangars        []Hangar
	Inductions     []Induction
	AutoInductions []AutoInduction
}
