// File path: internal/graph/analyzer_test.go
package graph

import (
	"reflect"
	"testing"
)

func TestAnalyzeLinearFlow(t *testing.T) {
	g := build(t, []string{"A", "B", "C"}, []string{"A->B", "B->C"})
	analysis := Analyze(g)
	if !analysis.Valid {
		t.Fatalf("expected valid analysis, got %+v", analysis)
	}
	if !reflect.DeepEqual(analysis.EntryPoints, []string{"A"}) {
		t.Fatalf("expected entry A, got %v", analysis.EntryPoints)
	}
	if !reflect.DeepEqual(analysis.ExitPoints, []string{"C"}) {
		t.Fatalf("expected exit C, got %v", analysis.ExitPoints)
	}
	if len(analysis.OrphanedNodes) != 0 {
		t.Fatalf("expected no orphans, got %v", analysis.OrphanedNodes)
	}
}

func TestAnalyzeSingleNode(t *testing.T) {
	g := build(t, []string{"A"}, nil)
	analysis := Analyze(g)
	if analysis.Valid {
		t.Fatalf("an isolated node must flag the graph invalid")
	}
	if !reflect.DeepEqual(analysis.EntryPoints, []string{"A"}) ||
		!reflect.DeepEqual(analysis.ExitPoints, []string{"A"}) ||
		!reflect.DeepEqual(analysis.OrphanedNodes, []string{"A"}) {
		t.Fatalf("expected A as entry, exit, and orphan, got %+v", analysis)
	}
}

func TestAnalyzeOrphanAmongConnectedNodes(t *testing.T) {
	g := build(t, []string{"A", "B", "C"}, []string{"A->B"})
	analysis := Analyze(g)
	if analysis.Valid {
		t.Fatalf("expected invalid analysis")
	}
	if !reflect.DeepEqual(analysis.OrphanedNodes, []string{"C"}) {
		t.Fatalf("expected orphan C, got %v", analysis.OrphanedNodes)
	}
	if !reflect.DeepEqual(analysis.EntryPoints, []string{"A", "C"}) {
		t.Fatalf("expected entries A and C, got %v", analysis.EntryPoints)
	}
}

func TestAnalyzeCyclePair(t *testing.T) {
	g := build(t, []string{"A", "B"}, []string{"A->B", "B->A"})
	analysis := Analyze(g)
	if analysis.Valid {
		t.Fatalf("expected invalid analysis")
	}
	if len(analysis.Cycles) != 1 || !reflect.DeepEqual(analysis.Cycles[0], []string{"A", "B"}) {
		t.Fatalf("expected cycle [A B], got %v", analysis.Cycles)
	}
}

func TestAnalyzeFindsEveryCycle(t *testing.T) {
	g := build(t,
		[]string{"A", "B", "C", "D", "E", "F"},
		[]string{"A->B", "B->A", "C->C", "D->E", "E->F", "F->D"})
	analysis := Analyze(g)
	want := [][]string{{"A", "B"}, {"C"}, {"D", "E", "F"}}
	if !reflect.DeepEqual(analysis.Cycles, want) {
		t.Fatalf("expected cycles %v, got %v", want, analysis.Cycles)
	}
}

func TestAnalyzeCycleRotation(t *testing.T) {
	g := build(t, []string{"C", "A", "B"}, []string{"C->A", "A->B", "B->C"})
	analysis := Analyze(g)
	if len(analysis.Cycles) != 1 {
		t.Fatalf("expected one cycle, got %v", analysis.Cycles)
	}
	if !reflect.DeepEqual(analysis.Cycles[0], []string{"A", "B", "C"}) {
		t.Fatalf("expected rotation starting at A, got %v", analysis.Cycles[0])
	}
}

func TestAnalyzeDanglingEdge(t *testing.T) {
	g := build(t, []string{"A", "B"}, []string{"A->B", "B->ghost"})
	analysis := Analyze(g)
	if analysis.Valid {
		t.Fatalf("expected invalid analysis")
	}
	if len(analysis.Dangling) != 1 || analysis.Dangling[0].Target != "ghost" {
		t.Fatalf("expected dangling edge to ghost, got %+v", analysis.Dangling)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		nodes, edges int
		want         Complexity
	}{
		{3, 2, ComplexitySimple},
		{8, 12, ComplexitySimple},
		{9, 13, ComplexityMedium},
		{9, 2, ComplexityMedium},
		{8, 13, ComplexityMedium},
		{20, 30, ComplexityMedium},
		{25, 35, ComplexityComplex},
		{21, 0, ComplexityComplex},
		{0, 31, ComplexityComplex},
	}
	for _, tt := range tests {
		if got := Classify(tt.nodes, tt.edges); got != tt.want {
			t.Fatalf("Classify(%d, %d) = %s, want %s", tt.nodes, tt.edges, got, tt.want)
		}
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	ids := []string{"A", "B", "C", "D", "E"}
	edges := []string{"A->B", "A->C", "B->D", "C->D"}
	first := Analyze(build(t, ids, edges))
	second := Analyze(build(t, ids, edges))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("analysis is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
