package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for snapshot formats other than YAML and JSON.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ClearanceDef is the snapshot form of a ClearanceEnvelope.
type ClearanceDef struct {
	Name         string  `yaml:"name" json:"name"`
	Lateral      float64 `yaml:"lateral_margin" json:"lateral_margin"`
	Longitudinal float64 `yaml:"longitudinal_margin" json:"longitudinal_margin"`
	Vertical     float64 `yaml:"vertical_margin" json:"vertical_margin"`
}

// ToModel converts the definition.
func (c ClearanceDef) ToModel() ClearanceEnvelope {
	return ClearanceEnvelope{
		Name:               c.Name,
		LateralMargin:      c.Lateral,
		LongitudinalMargin: c.Longitudinal,
		VerticalMargin:     c.Vertical,
	}
}

// AircraftDef is the snapshot form of an AircraftType. A zero tail height
// means the tail is as high as the aircraft.
type AircraftDef struct {
	Name       string  `yaml:"name" json:"name"`
	Wingspan   float64 `yaml:"wingspan" json:"wingspan"`
	Length     float64 `yaml:"length" json:"length"`
	Height     float64 `yaml:"height" json:"height"`
	TailHeight float64 `yaml:"tail_height,omitempty" json:"tail_height,omitempty"`
	Clearance  string  `yaml:"clearance,omitempty" json:"clearance,omitempty"`
}

// ToModel converts the definition.
func (a AircraftDef) ToModel() AircraftType {
	return AircraftType{
		Name:       a.Name,
		Wingspan:   a.Wingspan,
		Length:     a.Length,
		Height:     a.Height,
		TailHeight: a.TailHeight,
		Clearance:  a.Clearance,
	}
}

// DoorDef is the snapshot form of a HangarDoor.
type DoorDef struct {
	Name   string  `yaml:"name" json:"name"`
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// BayDef is the snapshot form of a HangarBay. The bay gets a grid position
// only when both row and col are set.
type BayDef struct {
	Name     string   `yaml:"name" json:"name"`
	Width    float64  `yaml:"width" json:"width"`
	Depth    float64  `yaml:"depth" json:"depth"`
	Height   float64  `yaml:"height" json:"height"`
	Row      *int     `yaml:"row,omitempty" json:"row,omitempty"`
	Col      *int     `yaml:"col,omitempty" json:"col,omitempty"`
	Adjacent []string `yaml:"adjacent,omitempty" json:"adjacent,omitempty"`
}

// ToModel converts the definition, copying the adjacency list.
func (b BayDef) ToModel() HangarBay {
	bay := HangarBay{
		Name:     b.Name,
		Width:    b.Width,
		Depth:    b.Depth,
		Height:   b.Height,
		Adjacent: append([]string(nil), b.Adjacent...),
	}
	if b.Row != nil && b.Col != nil {
		bay.Position = &GridPosition{Row: *b.Row, Col: *b.Col}
	}
	return bay
}

// HangarDef is the snapshot form of a Hangar. Grid is optional.
type HangarDef struct {
	Name  string    `yaml:"name" json:"name"`
	Doors []DoorDef `yaml:"doors" json:"doors"`
	Bays  []BayDef  `yaml:"bays" json:"bays"`
	Grid  *struct {
		Rows int `yaml:"rows" json:"rows"`
		Cols int `yaml:"cols" json:"cols"`
	} `yaml:"grid,omitempty" json:"grid,omitempty"`
}

// ToModel converts the hangar with its doors and bays.
func (h HangarDef) ToModel() Hangar {
	out := Hangar{Name: h.Name}
	for _, d := range h.Doors {
		out.Doors = append(out.Doors, HangarDoor{Name: d.Name, Width: d.Width, Height: d.Height})
	}
	for _, b := range h.Bays {
		out.Bays = append(out.Bays, b.ToModel())
	}
	if h.Grid != nil {
		out.GridRows = h.Grid.Rows
		out.GridCols = h.Grid.Cols
	}
	return out
}

// InductionDef is the snapshot form of a manual Induction.
type InductionDef struct {
	ID        string            `yaml:"id,omitempty" json:"id,omitempty"`
	Aircraft  string            `yaml:"aircraft" json:"aircraft"`
	Hangar    string            `yaml:"hangar" json:"hangar"`
	Door      string            `yaml:"door,omitempty" json:"door,omitempty"`
	Bays      []string          `yaml:"bays" json:"bays"`
	Start     time.Time         `yaml:"start" json:"start"`
	End       time.Time         `yaml:"end" json:"end"`
	Clearance string            `yaml:"clearance,omitempty" json:"clearance,omitempty"`
	Metadata  map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// ToModel converts the definition.
func (i InductionDef) ToModel() Induction {
	return Induction{
		ID:        i.ID,
		Aircraft:  i.Aircraft,
		Hangar:    i.Hangar,
		Door:      i.Door,
		Bays:      append([]string(nil), i.Bays...),
		Start:     i.Start,
		End:       i.End,
		Clearance: i.Clearance,
		Metadata:  i.Metadata,
	}
}

// AutoInductionDef is the snapshot form of an AutoInduction. The duration is
// given in minutes and absent time bounds stay unconstrained.
type AutoInductionDef struct {
	ID              string            `yaml:"id,omitempty" json:"id,omitempty"`
	Aircraft        string            `yaml:"aircraft" json:"aircraft"`
	DurationMinutes float64           `yaml:"duration_minutes" json:"duration_minutes"`
	PreferredHangar string            `yaml:"preferred_hangar,omitempty" json:"preferred_hangar,omitempty"`
	Preceding       []string          `yaml:"preceding,omitempty" json:"preceding,omitempty"`
	NotBefore       *time.Time        `yaml:"not_before,omitempty" json:"not_before,omitempty"`
	NotAfter        *time.Time        `yaml:"not_after,omitempty" json:"not_after,omitempty"`
	Clearance       string            `yaml:"clearance,omitempty" json:"clearance,omitempty"`
	Metadata        map[string]string `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

// ToModel converts the definition, turning minutes into a Duration.
func (a AutoInductionDef) ToModel() AutoInduction {
	out := AutoInduction{
		ID:              a.ID,
		Aircraft:        a.Aircraft,
		Duration:        time.Duration(a.DurationMinutes * float64(time.Minute)),
		PreferredHangar: a.PreferredHangar,
		Preceding:       append([]string(nil), a.Preceding...),
		Clearance:       a.Clearance,
		Metadata:        a.Metadata,
	}
	if a.NotBefore != nil {
		out.NotBefore = *a.NotBefore
	}
	if a.NotAfter != nil {
		out.NotAfter = *a.NotAfter
	}
	return out
}

// Document is the on-disk form of an Airfield.
type Document struct {
	Name           string             `yaml:"name" json:"name"`
	Clearances     []ClearanceDef     `yaml:"clearances,omitempty" json:"clearances,omitempty"`
	Aircraft       []AircraftDef      `yaml:"aircraft" json:"aircraft"`
	Hangars        []HangarDef        `yaml:"hangars" json:"hangars"`
	Inductions     []InductionDef     `yaml:"inductions,omitempty" json:"inductions,omitempty"`
	AutoInductions []AutoInductionDef `yaml:"auto_inductions,omitempty" json:"auto_inductions,omitempty"`
}

// ToModel converts the document, checking required inputs.
func (d Document) ToModel() (*Airfield, error) {
	a := &Airfield{Name: d.Name}
	for i, c := range d.Clearances {
		if c.Name == "" {
			return nil, fmt.Errorf("clearance %d: name is required", i)
		}
		a.Clearances = append(a.Clearances, c.ToModel())
	}
	for i, ac := range d.Aircraft {
		if ac.Name == "" {
			return nil, fmt.Errorf("aircraft %d: name is required", i)
		}
		a.Aircraft = append(a.Aircraft, ac.ToModel())
	}
	for i, h := range d.Hangars {
		if h.Name == "" {
			return nil, fmt.Errorf("hangar %d: name is required", i)
		}
		for j, b := range h.Bays {
			if b.Name == "" {
				return nil, fmt.Errorf("hangar %s: bay %d: name is required", h.Name, j)
			}
		}
		for j, dr := range h.Doors {
			if dr.Name == "" {
				return nil, fmt.Errorf("hangar %s: door %d: name is required", h.Name, j)
			}
		}
		a.Hangars = append(a.Hangars, h.ToModel())
	}
	for i, in := range d.Inductions {
		if in.Aircraft == "" || in.Hangar == "" {
			return nil, fmt.Errorf("induction %d: aircraft and hangar are required", i)
		}
		if in.Start.IsZero() || in.End.IsZero() {
			return nil, fmt.Errorf("induction %d: start and end are required", i)
		}
		a.Inductions = append(a.Inductions, in.ToModel())
	}
	for i, ai := range d.AutoInductions {
		if ai.Aircraft == "" {
			return nil, fmt.Errorf("auto induction %d: aircraft is required", i)
		}
		if ai.DurationMinutes <= 0 {
			return nil, fmt.Errorf("auto induction %d: duration must be positive", i)
		}
		a.AutoInductions = append(a.AutoInductions, ai.ToModel())
	}
	return a, nil
}

// Load reads an airfield snapshot from a YAML or JSON file.
func Load(path string) (*Airfield, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	a, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return a, nil
}

// Decode reads a snapshot in the given format ("yaml", "yml" or "json").
func Decode(r io.Reader, format string) (*Airfield, error) {
	var doc Document
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return doc.ToModel()
}
