// File path: internal/graph/analyzer.go
package graph

import (
	"strings"
)

// Complexity is a coarse size bucket used for advisory diagnostics.
// It never gates generation.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
)

const (
	complexNodeThreshold = 20
	complexEdgeThreshold = 30
	mediumNodeThreshold  = 8
	mediumEdgeThreshold  = 12
)

// Classify buckets a graph by node and edge counts.
func Classify(nodes, edges int) Complexity {
	switch {
	case nodes > complexNodeThreshold || edges > complexEdgeThreshold:
		return ComplexityComplex
	case nodes > mediumNodeThreshold || edges > mediumEdgeThreshold:
		return ComplexityMedium
	default:
		return ComplexitySimple
	}
}

// Analysis is the structural summary of one graph. Valid reports
// whether the graph is usable for dependency-ordered generation:
// cycles, dangling edges, and orphaned nodes all make it unusable.
type Analysis struct {
	Valid         bool           `json:"valid"`
	EntryPoints   []string       `json:"entry_points,omitempty"`
	ExitPoints    []string       `json:"exit_points,omitempty"`
	OrphanedNodes []string       `json:"orphaned_nodes,omitempty"`
	Cycles        [][]string     `json:"cycles,omitempty"`
	Dangling      []DanglingEdge `json:"dangling_edges,omitempty"`
	Complexity    Complexity     `json:"complexity"`
	NodeCount     int            `json:"node_count"`
	EdgeCount     int            `json:"edge_count"`
}

// Analyze computes entry and exit points, orphaned nodes, cycles, and
// the complexity bucket. Node lists follow input order so repeated
// runs produce identical output.
func Analyze(g *Graph) *Analysis {
	adj := g.Adjacency()
	analysis := &Analysis{
		NodeCount:  len(g.Nodes),
		EdgeCount:  len(g.Edges),
		Complexity: Classify(len(g.Nodes), len(g.Edges)),
	}

	for i := range g.Nodes {
		id := g.Nodes[i].ID
		if id == "" || g.index[id] != i {
			continue
		}
		in := adj.InDegree(id)
		out := adj.OutDegree(id)
		if in == 0 {
			analysis.EntryPoints = append(analysis.EntryPoints, id)
		}
		if out == 0 {
			analysis.ExitPoints = append(analysis.ExitPoints, id)
		}
		if in == 0 && out == 0 {
			analysis.OrphanedNodes = append(analysis.OrphanedNodes, id)
		}
	}

	analysis.Cycles = findCycles(g, adj)
	analysis.Dangling = adj.Dangling
	analysis.Valid = len(analysis.Cycles) == 0 &&
		len(analysis.Dangling) == 0 &&
		len(analysis.OrphanedNodes) == 0
	return analysis
}

// FindCycles reports every cycle reachable by depth-first traversal,
// without running the rest of the analysis.
func FindCycles(g *Graph) [][]string {
	return findCycles(g, g.Adjacency())
}

const (
	stateUnvisited = iota
	stateOnStack
	stateDone
)

// findCycles runs a depth-first traversal from every unvisited node
// in input order. A back-edge into the recursion stack identifies a
// cycle; the stack suffix from the revisited node is the cycle's node
// list. Cycles are rotated so the smallest id leads, which makes the
// output stable and lets duplicates collapse.
func findCycles(g *Graph, adj *Adjacency) [][]string {
	state := make(map[string]int, len(g.Nodes))
	seen := make(map[string]bool)
	var stack []string
	var cycles [][]string

	var visit func(id string)
	visit = func(id string) {
		state[id] = stateOnStack
		stack = append(stack, id)
		for _, next := range adj.Outgoing[id] {
			switch state[next] {
			case stateOnStack:
				start := -1
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == next {
						start = i
						break
					}
				}
				if start >= 0 {
					cycle := rotateToSmallest(append([]string(nil), stack[start:]...))
					key := strings.Join(cycle, "\x00")
					if !seen[key] {
						seen[key] = true
						cycles = append(cycles, cycle)
					}
				}
			case stateUnvisited:
				visit(next)
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = stateDone
	}

	for i := range g.Nodes {
		id := g.Nodes[i].ID
		if id == "" || g.index[id] != i {
			continue
		}
		if state[id] == stateUnvisited {
			visit(id)
		}
	}
	return cycles
}

func rotateToSmallest(cycle []string) []string {
	if len(cycle) < 2 {
		return cycle
	}
	smallest := 0
	for i := 1; i < len(cycle); i++ {
		if cycle[i] < cycle[smallest] {
			smallest = i
		}
	}
	if smallest == 0 {
		return cycle
	}
	rotated := make([]string, 0, len(cycle))
	rotated = append(rotated, cycle[smallest:]...)
	rotated = append(rotated, cycle[:smallest]...)
	return rotated
}
