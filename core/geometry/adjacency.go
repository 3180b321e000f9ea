package geometry

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/kilianp07/hangar/core/model"
)

// AdjacencyMeta describes how a hangar's adjacency graph was assembled.
type AdjacencyMeta struct {
	DerivedFromGrid bool `json:"derived_from_grid"`
	GridEdges       int  `json:"grid_edges"`
	ExplicitEdges   int  `json:"explicit_edges"`
}

// Mode is "derived" when grid edges were used and "explicit" otherwise.
func (m AdjacencyMeta) Mode() string {
	if m.DerivedFromGrid {
		return "derived"
	}
	return "explicit"
}

// Adjacency is the undirected bay graph of one hangar. Node ids are bay
// indices in declaration order.
type Adjacency struct {
	g     *simple.UndirectedGraph
	ids   map[string]int64
	names []string
	Meta  AdjacencyMeta
}

// BuildAdjacency unions grid 4-neighbour edges (only when the hangar declares
// a grid) with the explicit adjacency lists. Explicit edges are bidirectional;
// references to unknown bays and self references are ignored.
func BuildAdjacency(h *model.Hangar) *Adjacency {
	a := &Adjacency{
		g:   simple.NewUndirectedGraph(),
		ids: make(map[string]int64, len(h.Bays)),
	}
	for i, b := range h.Bays {
		if _, dup := a.ids[b.Name]; dup {
			continue
		}
		id := int64(i)
		a.ids[b.Name] = id
		a.g.AddNode(simple.Node(id))
	}
	a.names = make([]string, len(h.Bays))
	for name, id := range a.ids {
		a.names[id] = name
	}

	if h.HasGrid() {
		a.Meta.DerivedFromGrid = true
		cells := make(map[model.GridPosition]int64)
		for _, b := range h.Bays {
			if b.Position == nil {
				continue
			}
			if _, taken := cells[*b.Position]; !taken {
				cells[*b.Position] = a.ids[b.Name]
			}
		}
		for pos, id := range cells {
			// right and down neighbours cover every pair once
			for _, next := range []model.GridPosition{{Row: pos.Row, Col: pos.Col + 1}, {Row: pos.Row + 1, Col: pos.Col}} {
				other, ok := cells[next]
				if !ok || other == id {
					continue
				}
				if !a.g.HasEdgeBetween(id, other) {
					a.Meta.GridEdges++
				}
				a.g.SetEdge(simple.Edge{F: simple.Node(id), T: simple.Node(other)})
			}
		}
	}

	for _, b := range h.Bays {
		from := a.ids[b.Name]
		for _, ref := range b.Adjacent {
			to, ok := a.ids[ref]
			if !ok || to == from {
				continue
			}
			a.Meta.ExplicitEdges++
			a.g.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		}
	}
	return a
}

// Has reports whether the bay is part of the graph.
func (a *Adjacency) Has(name string) bool {
	_, ok := a.ids[name]
	return ok
}

// Neighbors returns the bays adjacent to name, sorted by name.
func (a *Adjacency) Neighbors(name string) []string {
	id, ok := a.ids[name]
	if !ok {
		return nil
	}
	out := a.namesOf(graph.NodesOf(a.g.From(id)))
	sort.Strings(out)
	return out
}

// Adjacent reports whether x and y share an edge.
func (a *Adjacency) Adjacent(x, y string) bool {
	xid, okx := a.ids[x]
	yid, oky := a.ids[y]
	return okx && oky && a.g.HasEdgeBetween(xid, yid)
}

// Reachable walks the subgraph induced by names, breadth first from the first
// known name, and returns the visited bays sorted. Unknown names are never
// reached.
func (a *Adjacency) Reachable(names []string) []string {
	sub, start, ok := a.induced(names)
	if !ok {
		return nil
	}
	var visited []graph.Node
	bf := traverse.BreadthFirst{Visit: func(n graph.Node) { visited = append(visited, n) }}
	bf.Walk(sub, simple.Node(start), nil)
	out := a.namesOf(visited)
	sort.Strings(out)
	return out
}

// Components returns the connected components of the induced subgraph. Each
// component is sorted and components are ordered by their first name.
func (a *Adjacency) Components(names []string) [][]string {
	sub, _, ok := a.induced(names)
	if !ok {
		return nil
	}
	var out [][]string
	for _, comp := range topo.ConnectedComponents(sub) {
		c := a.namesOf(comp)
		sort.Strings(c)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

func (a *Adjacency) induced(names []string) (*simple.UndirectedGraph, int64, bool) {
	sub := simple.NewUndirectedGraph()
	start := int64(-1)
	for _, n := range names {
		id, ok := a.ids[n]
		if !ok {
			continue
		}
		if start < 0 {
			start = id
		}
		if sub.Node(id) == nil {
			sub.AddNode(simple.Node(id))
		}
	}
	if start < 0 {
		return nil, 0, false
	}
	nodes := graph.NodesOf(sub.Nodes())
	for _, n := range nodes {
		for _, m := range nodes {
			if n.ID() < m.ID() && a.g.HasEdgeBetween(n.ID(), m.ID()) {
				sub.SetEdge(simple.Edge{F: n, T: m})
			}
		}
	}
	return sub, start, true
}

func (a *Adjacency) namesOf(nodes []graph.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, a.names[n.ID()])
	}
	return out
}
