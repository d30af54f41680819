// File path: internal/graph/graph.go
package graph

import (
	"github.com/nicodishanthj/flowlang/internal/schema"
)

// Graph is the in-memory model of a flow document. It is built once
// per pipeline run and never mutated; adjacency is derived on demand
// so no cached view can go stale.
type Graph struct {
	Nodes []schema.Node
	Edges []schema.Edge

	index map[string]int
}

// FromDocument copies the node and edge lists out of a parsed
// document. Input order is preserved; it is the tie-break for every
// deterministic ordering downstream.
func FromDocument(doc *schema.Document) *Graph {
	g := &Graph{}
	if doc != nil {
		g.Nodes = append([]schema.Node(nil), doc.Nodes...)
		g.Edges = append([]schema.Edge(nil), doc.Edges...)
	}
	g.index = make(map[string]int, len(g.Nodes))
	for i := range g.Nodes {
		id := g.Nodes[i].ID
		if id == "" {
			continue
		}
		if _, ok := g.index[id]; !ok {
			g.index[id] = i
		}
	}
	return g
}

// Has reports whether a node with the given id exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *schema.Node {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return &g.Nodes[i]
}

// IDs returns the unique node ids in input order.
func (g *Graph) IDs() []string {
	out := make([]string, 0, len(g.Nodes))
	for i := range g.Nodes {
		id := g.Nodes[i].ID
		if id == "" || g.index[id] != i {
			continue
		}
		out = append(out, id)
	}
	return out
}

// DanglingEdge records an edge whose endpoints are not all present in
// the node set. Such an edge never contributes to adjacency.
type DanglingEdge struct {
	EdgeID        string `json:"edge_id,omitempty"`
	Source        string `json:"source"`
	Target        string `json:"target"`
	MissingSource bool   `json:"missing_source,omitempty"`
	MissingTarget bool   `json:"missing_target,omitempty"`
}

// Adjacency is the derived dependency view of a graph. Incoming maps
// a node to the ordered list of nodes it depends on, Outgoing to the
// ordered list it feeds. List order follows edge input order.
type Adjacency struct {
	Incoming map[string][]string
	Outgoing map[string][]string
	Dangling []DanglingEdge
}

// Adjacency recomputes the dependency view from the edge list. Edges
// referencing absent nodes are collected as dangling instead of being
// silently dropped.
func (g *Graph) Adjacency() *Adjacency {
	adj := &Adjacency{
		Incoming: make(map[string][]string, len(g.Nodes)),
		Outgoing: make(map[string][]string, len(g.Nodes)),
	}
	for i := range g.Edges {
		edge := &g.Edges[i]
		missingSource := !g.Has(edge.Source)
		missingTarget := !g.Has(edge.Target)
		if missingSource || missingTarget {
			adj.Dangling = append(adj.Dangling, DanglingEdge{
				EdgeID:        edge.ID,
				Source:        edge.Source,
				Target:        edge.Target,
				MissingSource: missingSource,
				MissingTarget: missingTarget,
			})
			continue
		}
		adj.Outgoing[edge.Source] = append(adj.Outgoing[edge.Source], edge.Target)
		adj.Incoming[edge.Target] = append(adj.Incoming[edge.Target], edge.Source)
	}
	return adj
}

// InDegree returns the number of dependency edges into a node.
func (a *Adjacency) InDegree(id string) int { return len(a.Incoming[id]) }

// OutDegree returns the number of edges leaving a node.
func (a *Adjacency) OutDegree(id string) int { return len(a.Outgoing[id]) }
