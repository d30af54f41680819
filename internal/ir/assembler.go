// File path: internal/ir/assembler.go
package ir

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nicodishanthj/flowlang/internal/diag"
	"github.com/nicodishanthj/flowlang/internal/graph"
	"github.com/nicodishanthj/flowlang/internal/schema"
)

var (
	ErrCycleDetected  = errors.New("cycle detected in flow graph")
	ErrDanglingEdges  = errors.New("dangling edges in flow graph")
	ErrPartialConvert = errors.New("some nodes could not be converted")
)

// Handler produces code fragments for one node type.
type Handler interface {
	Convert(node *schema.Node, gctx *Context) ([]Fragment, error)
	Dependencies(node *schema.Node, gctx *Context) []string
}

// Resolver looks up the handler registered for a node type. The
// assembler treats the registry as a read-only black box keyed by the
// type string.
type Resolver interface {
	Resolve(nodeType string) (Handler, bool)
}

// Assembly is the output of one assembly run: nodes in dependency
// order, their fragments with duplicate imports merged, and the
// deduplicated package dependency list. When some nodes fail to
// convert the fragment list is partial and Issues names each failure.
type Assembly struct {
	Order        []string     `json:"order,omitempty"`
	Fragments    []Fragment   `json:"fragments,omitempty"`
	Dependencies []string     `json:"dependencies,omitempty"`
	Issues       []diag.Issue `json:"issues,omitempty"`
	Converted    int          `json:"converted"`
	Total        int          `json:"total"`
}

// Assemble topologically orders the graph, invokes the registered
// converter for each node in that order, and collects the fragments.
// Dangling edges and cycles abort before any converter runs; an
// unregistered node type only skips that node, so callers can report
// how many of the nodes converted.
func Assemble(g *graph.Graph, resolver Resolver, gctx *Context) (*Assembly, error) {
	ids := g.IDs()
	asm := &Assembly{Total: len(ids)}
	adj := g.Adjacency()

	if len(adj.Dangling) > 0 {
		for _, d := range adj.Dangling {
			missing := d.Target
			if d.MissingSource {
				missing = d.Source
			}
			issue := diag.New(diag.KindStructure, diag.CodeDanglingEdge,
				fmt.Sprintf("edge %q references missing node %q", d.EdgeID, missing))
			issue.NodeID = missing
			asm.Issues = append(asm.Issues, issue)
		}
		return asm, fmt.Errorf("%w: %d edge(s) reference missing nodes", ErrDanglingEdges, len(adj.Dangling))
	}

	order, complete := topoOrder(ids, adj)
	if !complete {
		cycles := graph.FindCycles(g)
		for _, cycle := range cycles {
			issue := diag.New(diag.KindStructure, diag.CodeCycle,
				fmt.Sprintf("cycle detected: %s", strings.Join(cycle, " -> ")))
			issue.NodeID = cycle[0]
			asm.Issues = append(asm.Issues, issue)
		}
		return asm, fmt.Errorf("%w: %d cycle(s) found", ErrCycleDetected, len(cycles))
	}
	asm.Order = order

	deps := make(map[string]bool)
	for _, id := range order {
		node := g.Node(id)
		typ := node.EffectiveType()
		var handler Handler
		registered := false
		if resolver != nil {
			handler, registered = resolver.Resolve(typ)
		}
		if !registered {
			issue := diag.New(diag.KindStructure, diag.CodeUnregisteredType,
				fmt.Sprintf("no converter registered for node type %q", typ))
			issue.NodeID = id
			asm.Issues = append(asm.Issues, issue)
			continue
		}

		fragments, err := handler.Convert(node, gctx)
		if err != nil {
			issue := diag.New(diag.KindStructure, diag.CodeConvertFailed,
				fmt.Sprintf("converter for %q failed: %v", typ, err))
			issue.NodeID = id
			asm.Issues = append(asm.Issues, issue)
			continue
		}
		for i := range fragments {
			if fragments[i].SourceNodeID == "" {
				fragments[i].SourceNodeID = id
			}
			for _, dep := range fragments[i].Dependencies {
				if dep != "" {
					deps[dep] = true
				}
			}
		}
		sortNodeFragments(fragments)
		asm.Fragments = append(asm.Fragments, fragments...)
		for _, dep := range handler.Dependencies(node, gctx) {
			if dep != "" {
				deps[dep] = true
			}
		}
		asm.Converted++
	}

	asm.Fragments = dedupeImports(asm.Fragments)
	asm.Dependencies = sortedSet(deps)

	if asm.Converted < asm.Total {
		return asm, fmt.Errorf("%w: converted %d of %d nodes", ErrPartialConvert, asm.Converted, asm.Total)
	}
	return asm, nil
}

// topoOrder is Kahn's algorithm with a FIFO queue seeded in input
// order, which makes the order stable across runs. An incomplete
// order means a cycle survived the analyzer, so the caller must
// abort rather than emit a partial ordering.
func topoOrder(ids []string, adj *graph.Adjacency) ([]string, bool) {
	indegree := make(map[string]int, len(ids))
	queue := make([]string, 0, len(ids))
	for _, id := range ids {
		indegree[id] = adj.InDegree(id)
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	order := make([]string, 0, len(ids))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		for _, next := range adj.Outgoing[id] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	return order, len(order) == len(ids)
}

// sortNodeFragments orders one node's fragments by kind rank, then
// the converter's order hint, then emit order.
func sortNodeFragments(fragments []Fragment) {
	sort.SliceStable(fragments, func(i, j int) bool {
		if fragments[i].Kind.Rank() != fragments[j].Kind.Rank() {
			return fragments[i].Kind.Rank() < fragments[j].Kind.Rank()
		}
		return fragments[i].Order < fragments[j].Order
	})
}

func dedupeImports(fragments []Fragment) []Fragment {
	if len(fragments) == 0 {
		return fragments
	}
	seen := make(map[string]bool)
	out := make([]Fragment, 0, len(fragments))
	for _, f := range fragments {
		if f.Kind == KindImport {
			key := f.importKey()
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		out = append(out, f)
	}
	return out
}

func sortedSet(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
