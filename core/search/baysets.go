package search

import (
	"sort"
	"strings"

	"github.com/kilianp07/hangar/core/geometry"
	"github.com/kilianp07/hangar/core/model"
	"github.com/kilianp07/hangar/core/rules"
)

// DefaultMaxBaysPerSet caps the size of enumerated bay sets.
const DefaultMaxBaysPerSet = 5

// maxRejectedSetsKept bounds the rejected sets kept as evidence.
const maxRejectedSetsKept = 5

// BaySetSearch is the outcome of FindSuitableBaySets.
type BaySetSearch struct {
	// Sets are sorted by size then by their sorted bay names.
	Sets         [][]model.HangarBay
	BaysRequired geometry.BaysRequired
	Adjacency    geometry.AdjacencyMeta
	// Rejected holds the first failed checks, in enumeration order.
	Rejected []rules.Result
}

// Evidence describes the search for a rejection reason.
func (s BaySetSearch) Evidence(hangar string) rules.BaySetSearchEvidence {
	return rules.BaySetSearchEvidence{
		Hangar:       hangar,
		BaysRequired: s.BaysRequired,
		Adjacency:    s.Adjacency,
		Rejected:     s.Rejected,
	}
}

// FindSuitableBaySets enumerates connected bay sets starting at the estimated
// required size, stops at the first size that yields any connected set and
// keeps the sets of that size passing contiguity and fit. maxSize <= 0 uses
// DefaultMaxBaysPerSet; the cap never exceeds the number of bays.
func FindSuitableBaySets(ac model.AircraftType, h *model.Hangar, c *model.ClearanceEnvelope, maxSize int) BaySetSearch {
	d := geometry.Effective(ac, c)
	adj := geometry.BuildAdjacency(h)
	out := BaySetSearch{Adjacency: adj.Meta}
	req, ok := geometry.EstimateBaysRequired(d, h)
	if !ok {
		return out
	}
	out.BaysRequired = req
	if maxSize <= 0 {
		maxSize = DefaultMaxBaysPerSet
	}
	if maxSize > len(h.Bays) {
		maxSize = len(h.Bays)
	}

	var candidates [][]model.HangarBay
	for size := req.Count; size <= maxSize && len(candidates) == 0; size++ {
		candidates = ConnectedSets(h, adj, size)
	}
	for _, set := range candidates {
		if res := rules.CheckContiguity(rules.BayNames(set), adj); !res.OK {
			out.reject(res)
			continue
		}
		res := rules.CheckBaySetFit(ac.Name, d, set)
		if !res.OK {
			out.reject(res)
			continue
		}
		out.Sets = append(out.Sets, set)
	}
	sort.SliceStable(out.Sets, func(i, j int) bool {
		a, b := out.Sets[i], out.Sets[j]
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return signature(a) < signature(b)
	})
	return out
}

func (s *BaySetSearch) reject(r rules.Result) {
	if len(s.Rejected) < maxRejectedSetsKept {
		s.Rejected = append(s.Rejected, r)
	}
}

// ConnectedSets returns every connected set of exactly size bays. Each set is
// grown one neighbour at a time from any of its members, so every returned
// set is connected in the adjacency graph. Every distinct partial set is
// expanded once, so a set reached from several members is returned once. Bays
// inside a set keep their declaration order.
func ConnectedSets(h *model.Hangar, adj *geometry.Adjacency, size int) [][]model.HangarBay {
	if size <= 0 || size > len(h.Bays) {
		return nil
	}
	order := make(map[string]int, len(h.Bays))
	byName := make(map[string]model.HangarBay, len(h.Bays))
	for i, b := range h.Bays {
		if _, dup := order[b.Name]; dup {
			continue
		}
		order[b.Name] = i
		byName[b.Name] = b
	}

	explored := make(map[string]bool)
	var out [][]model.HangarBay
	var grow func(members []string, inSet map[string]bool)
	grow = func(members []string, inSet map[string]bool) {
		key := setKey(members)
		if explored[key] {
			return
		}
		explored[key] = true
		if len(members) == size {
			byDecl := append([]string(nil), members...)
			sort.Slice(byDecl, func(i, j int) bool { return order[byDecl[i]] < order[byDecl[j]] })
			set := make([]model.HangarBay, len(byDecl))
			for i, n := range byDecl {
				set[i] = byName[n]
			}
			out = append(out, set)
			return
		}
		frontier := map[string]bool{}
		for _, m := range members {
			for _, n := range adj.Neighbors(m) {
				if !inSet[n] {
					frontier[n] = true
				}
			}
		}
		next := make([]string, 0, len(frontier))
		for n := range frontier {
			next = append(next, n)
		}
		sort.Strings(next)
		for _, n := range next {
			inSet[n] = true
			grow(append(members, n), inSet)
			delete(inSet, n)
		}
	}

	for _, b := range h.Bays {
		grow([]string{b.Name}, map[string]bool{b.Name: true})
	}
	return out
}

func setKey(names []string) string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}

func signature(bays []model.HangarBay) string {
	return setKey(rules.BayNames(bays))
}
