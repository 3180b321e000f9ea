// Package geometry derives clearance-adjusted aircraft dimensions and the bay
// adjacency graph of a hangar.
package geometry

import "github.com/kilianp07/hangar/core/model"

// RawDimensions are the aircraft's declared measurements.
type RawDimensions struct {
	Wingspan   float64 `json:"wingspan"`
	Length     float64 `json:"length"`
	Height     float64 `json:"height"`
	TailHeight float64 `json:"tail_height"`
}

// Dimensions are the measurements used by every fit check.
type Dimensions struct {
	Wingspan   float64       `json:"wingspan"`
	Length     float64       `json:"length"`
	Height     float64       `json:"height"`
	TailHeight float64       `json:"tail_height"`
	Clearance  string        `json:"clearance,omitempty"`
	Raw        RawDimensions `json:"raw"`
}

// Effective adds the clearance margins to the aircraft's dimensions. A nil
// clearance leaves them unchanged.
func Effective(ac model.AircraftType, c *model.ClearanceEnvelope) Dimensions {
	tail := ac.EffectiveTail()
	d := Dimensions{
		Wingspan:   ac.Wingspan,
		Length:     ac.Length,
		Height:     ac.Height,
		TailHeight: tail,
		Raw: RawDimensions{
			Wingspan:   ac.Wingspan,
			Length:     ac.Length,
			Height:     ac.Height,
			TailHeight: tail,
		},
	}
	if c == nil {
		return d
	}
	d.Clearance = c.Name
	d.Wingspan += c.LateralMargin
	d.Length += c.LongitudinalMargin
	d.Height += c.VerticalMargin
	d.TailHeight += c.VerticalMargin
	return d
}
