// File path: internal/ir/assembler_test.go
package ir

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/nicodishanthj/flowlang/internal/diag"
	"github.com/nicodishanthj/flowlang/internal/graph"
	"github.com/nicodishanthj/flowlang/internal/schema"
)

type stubHandler struct {
	convert func(node *schema.Node, gctx *Context) ([]Fragment, error)
	deps    []string
}

func (h *stubHandler) Convert(node *schema.Node, gctx *Context) ([]Fragment, error) {
	if h.convert != nil {
		return h.convert(node, gctx)
	}
	return []Fragment{{
		ID:      node.ID + "-init",
		Kind:    KindInitialization,
		Content: "init " + node.ID,
	}}, nil
}

func (h *stubHandler) Dependencies(node *schema.Node, gctx *Context) []string {
	return h.deps
}

type stubResolver map[string]Handler

func (r stubResolver) Resolve(nodeType string) (Handler, bool) {
	h, ok := r[nodeType]
	return h, ok
}

func defaultResolver() stubResolver {
	return stubResolver{"llmChain": &stubHandler{}}
}

// buildGraph assembles a graph from node ids and "A->B" edge
// descriptors. Every node gets the same registered type unless the
// id carries a "type:" override, written as "B=customThing".
func buildGraph(t *testing.T, ids []string, edges []string) *graph.Graph {
	t.Helper()
	doc := &schema.Document{}
	for _, entry := range ids {
		id, typ := entry, "llmChain"
		if idx := strings.IndexByte(entry, '='); idx >= 0 {
			id, typ = entry[:idx], entry[idx+1:]
		}
		doc.Nodes = append(doc.Nodes, schema.Node{ID: id, Data: schema.NodeData{Name: typ}})
	}
	for i, desc := range edges {
		parts := strings.Split(desc, "->")
		if len(parts) != 2 {
			t.Fatalf("bad edge descriptor %q", desc)
		}
		doc.Edges = append(doc.Edges, schema.Edge{
			ID:     fmt.Sprintf("e%d", i),
			Source: strings.TrimSpace(parts[0]),
			Target: strings.TrimSpace(parts[1]),
		})
	}
	return graph.FromDocument(doc)
}

func TestTopologicalOrder(t *testing.T) {
	tests := []struct {
		name  string
		ids   []string
		edges []string
		want  []string
	}{
		{
			name: "single node",
			ids:  []string{"A"},
			want: []string{"A"},
		},
		{
			name:  "dependency edge",
			ids:   []string{"A", "B"},
			edges: []string{"A->B"},
			want:  []string{"A", "B"},
		},
		{
			name:  "reversed dependency edge",
			ids:   []string{"A", "B"},
			edges: []string{"B->A"},
			want:  []string{"B", "A"},
		},
		{
			name:  "linear chain",
			ids:   []string{"A", "B", "C"},
			edges: []string{"A->B", "B->C"},
			want:  []string{"A", "B", "C"},
		},
		{
			name:  "diamond",
			ids:   []string{"A", "B", "C", "D"},
			edges: []string{"A->B", "A->C", "B->D", "C->D"},
			want:  []string{"A", "B", "C", "D"},
		},
		{
			name:  "ready nodes drain in first-seen order",
			ids:   []string{"A", "B", "C", "D", "E", "F"},
			edges: []string{"B->A", "C->A", "D->B", "D->C", "F->E", "A->E"},
			want:  []string{"D", "F", "B", "C", "A", "E"},
		},
		{
			name: "no edges keeps input order",
			ids:  []string{"X", "Y", "Z"},
			want: []string{"X", "Y", "Z"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, tt.ids, tt.edges)
			asm, err := Assemble(g, defaultResolver(), NewContext(g, schema.VersionV1, TargetTypeScript))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(asm.Order, tt.want) {
				t.Fatalf("expected order %v, got %v", tt.want, asm.Order)
			}
		})
	}
}

func TestAssembleRespectsEveryEdge(t *testing.T) {
	g := buildGraph(t,
		[]string{"A", "B", "C", "D", "E"},
		[]string{"A->C", "B->C", "C->D", "C->E", "A->E"})
	asm, err := Assemble(g, defaultResolver(), NewContext(g, schema.VersionV1, TargetTypeScript))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	position := make(map[string]int, len(asm.Order))
	for i, id := range asm.Order {
		position[id] = i
	}
	for _, edge := range g.Edges {
		if position[edge.Source] >= position[edge.Target] {
			t.Fatalf("edge %s->%s violated by order %v", edge.Source, edge.Target, asm.Order)
		}
	}
	last := -1
	for _, f := range asm.Fragments {
		if position[f.SourceNodeID] < last {
			t.Fatalf("fragments out of node order: %v", asm.Fragments)
		}
		last = position[f.SourceNodeID]
	}
}

func TestAssembleDeterministic(t *testing.T) {
	ids := []string{"A", "B", "C", "D", "E", "F"}
	edges := []string{"B->A", "C->A", "D->B", "D->C", "F->E", "A->E"}
	first, err := Assemble(buildGraph(t, ids, edges), defaultResolver(),
		NewContext(nil, schema.VersionV1, TargetTypeScript))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Assemble(buildGraph(t, ids, edges), defaultResolver(),
		NewContext(nil, schema.VersionV1, TargetTypeScript))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("assembly is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestAssembleCycleAborts(t *testing.T) {
	g := buildGraph(t, []string{"A", "B"}, []string{"A->B", "B->A"})
	asm, err := Assemble(g, defaultResolver(), NewContext(g, schema.VersionV1, TargetTypeScript))
	if !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("expected cycle error, got %v", err)
	}
	if len(asm.Fragments) != 0 {
		t.Fatalf("cycle must produce no fragments, got %d", len(asm.Fragments))
	}
	if len(asm.Issues) != 1 || asm.Issues[0].Code != diag.CodeCycle {
		t.Fatalf("expected one cycle issue, got %+v", asm.Issues)
	}
	if !strings.Contains(asm.Issues[0].Message, "A -> B") {
		t.Fatalf("cycle issue must name its nodes, got %q", asm.Issues[0].Message)
	}
}

func TestAssembleCycleBeyondValidPrefix(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "C", "D"}, []string{"A->B", "C->D", "D->C"})
	asm, err := Assemble(g, defaultResolver(), NewContext(g, schema.VersionV1, TargetTypeScript))
	if !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("expected cycle error, got %v", err)
	}
	if len(asm.Fragments) != 0 {
		t.Fatalf("no fragments may be produced when a cycle exists")
	}
}

func TestAssembleDanglingEdgeAborts(t *testing.T) {
	g := buildGraph(t, []string{"A", "B"}, []string{"A->B", "B->ghost"})
	asm, err := Assemble(g, defaultResolver(), NewContext(g, schema.VersionV1, TargetTypeScript))
	if !errors.Is(err, ErrDanglingEdges) {
		t.Fatalf("expected dangling edge error, got %v", err)
	}
	if len(asm.Fragments) != 0 {
		t.Fatalf("dangling edges must abort before conversion")
	}
	if len(asm.Issues) != 1 || asm.Issues[0].Code != diag.CodeDanglingEdge {
		t.Fatalf("expected dangling_edge issue, got %+v", asm.Issues)
	}
	if asm.Issues[0].NodeID != "ghost" {
		t.Fatalf("issue must name the missing node, got %q", asm.Issues[0].NodeID)
	}
}

func TestAssembleUnregisteredTypeIsPartial(t *testing.T) {
	g := buildGraph(t, []string{"A", "B=mysteryNode", "C"}, []string{"A->B", "B->C"})
	asm, err := Assemble(g, defaultResolver(), NewContext(g, schema.VersionV1, TargetTypeScript))
	if !errors.Is(err, ErrPartialConvert) {
		t.Fatalf("expected partial conversion error, got %v", err)
	}
	if !strings.Contains(err.Error(), "2 of 3") {
		t.Fatalf("error should report converted counts, got %q", err.Error())
	}
	if asm.Converted != 2 || asm.Total != 3 {
		t.Fatalf("expected 2 of 3 converted, got %d of %d", asm.Converted, asm.Total)
	}
	if len(asm.Fragments) != 2 {
		t.Fatalf("expected partial fragments for A and C, got %d", len(asm.Fragments))
	}
	if len(asm.Issues) != 1 || asm.Issues[0].Code != diag.CodeUnregisteredType || asm.Issues[0].NodeID != "B" {
		t.Fatalf("expected unregistered_type issue for B, got %+v", asm.Issues)
	}
}

func TestAssembleMergesIdenticalImports(t *testing.T) {
	importHandler := func(symbols ...string) Handler {
		return &stubHandler{convert: func(node *schema.Node, gctx *Context) ([]Fragment, error) {
			return []Fragment{
				{Kind: KindImport, Module: "langchain/llms", Symbols: symbols,
					Content: "import { " + strings.Join(symbols, ", ") + " } from \"langchain/llms\";"},
				{Kind: KindInitialization, Content: "init " + node.ID},
			}, nil
		}}
	}
	resolver := stubResolver{
		"alpha": importHandler("OpenAI"),
		"beta":  importHandler("OpenAI"),
		"gamma": importHandler("OpenAI", "PromptTemplate"),
	}
	g := buildGraph(t, []string{"A=alpha", "B=beta", "C=gamma"}, []string{"A->B", "B->C"})
	asm, err := Assemble(g, resolver, NewContext(g, schema.VersionV1, TargetTypeScript))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var imports []Fragment
	for _, f := range asm.Fragments {
		if f.Kind == KindImport {
			imports = append(imports, f)
		}
	}
	if len(imports) != 2 {
		t.Fatalf("expected identical imports merged but overlap kept, got %d imports", len(imports))
	}
	if imports[0].SourceNodeID != "A" {
		t.Fatalf("merged import must keep its first occurrence, got %q", imports[0].SourceNodeID)
	}
}

func TestAssembleNodeFragmentOrdering(t *testing.T) {
	resolver := stubResolver{"scrambled": &stubHandler{
		convert: func(node *schema.Node, gctx *Context) ([]Fragment, error) {
			return []Fragment{
				{Kind: KindInitialization, Order: 0, Content: "init"},
				{Kind: KindImport, Order: 9, Content: "import"},
				{Kind: KindSetup, Order: 2, Content: "setup-b"},
				{Kind: KindSetup, Order: 1, Content: "setup-a"},
				{Kind: KindDeclaration, Order: 5, Content: "decl"},
			}, nil
		},
	}}
	g := buildGraph(t, []string{"A=scrambled"}, nil)
	asm, err := Assemble(g, resolver, NewContext(g, schema.VersionV1, TargetTypeScript))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []string
	for _, f := range asm.Fragments {
		got = append(got, f.Content)
	}
	want := []string{"import", "decl", "setup-a", "setup-b", "init"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected fragment order %v, got %v", want, got)
	}
}

func TestAssembleCollectsDependencies(t *testing.T) {
	resolver := stubResolver{
		"alpha": &stubHandler{deps: []string{"langchain", "openai"}},
		"beta":  &stubHandler{deps: []string{"openai"}},
	}
	g := buildGraph(t, []string{"A=alpha", "B=beta"}, []string{"A->B"})
	asm, err := Assemble(g, resolver, NewContext(g, schema.VersionV1, TargetTypeScript))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"langchain", "openai"}
	if !reflect.DeepEqual(asm.Dependencies, want) {
		t.Fatalf("expected dependencies %v, got %v", want, asm.Dependencies)
	}
}
