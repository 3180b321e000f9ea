package model

// Index resolves names inside an Airfield. It is built once per analysis and
// never mutated afterwards.
type Index struct {
	aircraft   map[string]AircraftType
	hangars    map[string]*Hangar
	clearances map[string]ClearanceEnvelope
	bayOwner   map[string]string
	order      []string
}

// NewIndex indexes a snapshot. When names are duplicated the first
// declaration wins.
func NewIndex(a *Airfield) *Index {
	idx := &Index{
		aircraft:   make(map[string]AircraftType, len(a.Aircraft)),
		hangars:    make(map[string]*Hangar, len(a.Hangars)),
		clearances: make(map[string]ClearanceEnvelope, len(a.Clearances)),
		bayOwner:   make(map[string]string),
	}
	for _, ac := range a.Aircraft {
		if _, ok := idx.aircraft[ac.Name]; !ok {
			idx.aircraft[ac.Name] = ac
		}
	}
	for _, c := range a.Clearances {
		if _, ok := idx.clearances[c.Name]; !ok {
			idx.clearances[c.Name] = c
		}
	}
	for i := range a.Hangars {
		h := &a.Hangars[i]
		if _, ok := idx.hangars[h.Name]; ok {
			continue
		}
		idx.hangars[h.Name] = h
		idx.order = append(idx.order, h.Name)
		for _, b := range h.Bays {
			if _, ok := idx.bayOwner[b.Name]; !ok {
				idx.bayOwner[b.Name] = h.Name
			}
		}
	}
	return idx
}

// Aircraft resolves an aircraft type.
func (x *Index) Aircraft(name string) (AircraftType, bool) {
	ac, ok := x.aircraft[name]
	return ac, ok
}

// Hangar resolves a hangar.
func (x *Index) Hangar(name string) (*Hangar, bool) {
	h, ok := x.hangars[name]
	return h, ok
}

// Hangars returns hangars in declaration order.
func (x *Index) Hangars() []*Hangar {
	out := make([]*Hangar, 0, len(x.order))
	for _, n := range x.order {
		out = append(out, x.hangars[n])
	}
	return out
}

// Clearance resolves a clearance envelope by name.
func (x *Index) Clearance(name string) (*ClearanceEnvelope, bool) {
	c, ok := x.clearances[name]
	if !ok {
		return nil, false
	}
	return &c, true
}

// ClearanceFor picks the override when set, otherwise the aircraft default.
// It returns nil when neither resolves.
func (x *Index) ClearanceFor(ac AircraftType, override string) *ClearanceEnvelope {
	if override != "" {
		if c, ok := x.Clearance(override); ok {
			return c
		}
	}
	if ac.Clearance != "" {
		if c, ok := x.Clearance(ac.Clearance); ok {
			return c
		}
	}
	return nil
}

// ResolveBay looks the bay up in the named hangar first and then in every
// other hangar. The owner is the hangar the bay was found in.
func (x *Index) ResolveBay(hangar, bay string) (HangarBay, string, bool) {
	if h, ok := x.hangars[hangar]; ok {
		if b, ok := h.Bay(bay); ok {
			return b, h.Name, true
		}
	}
	owner, ok := x.bayOwner[bay]
	if !ok {
		return HangarBay{}, "", false
	}
	b, _ := x.hangars[owner].Bay(bay)
	return b, owner, true
}
