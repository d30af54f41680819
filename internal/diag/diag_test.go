// File path: internal/diag/diag_test.go
package diag

import "testing"

func TestNewFillsSuggestion(t *testing.T) {
	issue := New(KindValidation, CodeEmptyGraph, "document must contain at least one node")
	if issue.Suggestion == "" {
		t.Fatalf("expected stock suggestion for %s", CodeEmptyGraph)
	}
	if issue.Kind != KindValidation {
		t.Fatalf("expected kind %s, got %s", KindValidation, issue.Kind)
	}
}

func TestSuggestionUnknownCode(t *testing.T) {
	if got := Suggestion("no_such_code"); got != "" {
		t.Fatalf("expected empty suggestion, got %q", got)
	}
}

func TestSortDeterministic(t *testing.T) {
	issues := []Issue{
		{Path: "nodes.2.id", Code: CodeEmptyNodeID},
		{Path: "edges.0.source", Code: CodeUnknownEdgeSource},
		{Path: "nodes.2.id", Code: CodeDuplicateNodeID},
		{Path: "", Code: CodeEmptyGraph},
	}
	Sort(issues)
	want := []string{CodeEmptyGraph, CodeUnknownEdgeSource, CodeDuplicateNodeID, CodeEmptyNodeID}
	for i, code := range want {
		if issues[i].Code != code {
			t.Fatalf("position %d: expected %s, got %s", i, code, issues[i].Code)
		}
	}
}

func TestSortStableForTies(t *testing.T) {
	issues := []Issue{
		{Path: "nodes.0", Code: CodeWrongType, NodeID: "b", Message: "second"},
		{Path: "nodes.0", Code: CodeWrongType, NodeID: "a", Message: "first"},
	}
	Sort(issues)
	if issues[0].NodeID != "a" {
		t.Fatalf("expected node a first, got %s", issues[0].NodeID)
	}
}
