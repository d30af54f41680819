// File path: internal/schema/parse_test.go
package schema

import (
	"testing"

	"github.com/nicodishanthj/flowlang/internal/diag"
)

func TestParseMalformedJSON(t *testing.T) {
	doc, issues := Parse([]byte("{\"nodes\": [\n  {\"id\": }\n]}"))
	if doc != nil {
		t.Fatalf("expected nil document for malformed input")
	}
	if len(issues) != 1 {
		t.Fatalf("expected one issue, got %d", len(issues))
	}
	issue := issues[0]
	if issue.Kind != diag.KindSyntax || issue.Code != diag.CodeMalformedJSON {
		t.Fatalf("unexpected issue %+v", issue)
	}
	if issue.Line != 2 {
		t.Fatalf("expected error on line 2, got line %d", issue.Line)
	}
}

func TestParseEmptyInput(t *testing.T) {
	doc, issues := Parse([]byte("   \n"))
	if doc != nil {
		t.Fatalf("expected nil document")
	}
	if len(issues) != 1 || issues[0].Kind != diag.KindSyntax {
		t.Fatalf("expected a syntax issue, got %+v", issues)
	}
}

func TestParseRootNotObject(t *testing.T) {
	doc, issues := Parse([]byte("[1, 2, 3]"))
	if doc != nil {
		t.Fatalf("expected nil document")
	}
	if len(issues) != 1 || issues[0].Code != diag.CodeInvalidRoot {
		t.Fatalf("expected invalid_root, got %+v", issues)
	}
}

func TestParseCollectsAllFieldIssues(t *testing.T) {
	raw := []byte(`{
		"nodes": [
			{"id": 42, "data": {"name": "llmChain"}},
			{"id": "ok_1", "data": {"name": "chatOpenAI", "inputs": "oops"}}
		],
		"edges": [
			{"target": "ok_1"}
		]
	}`)
	doc, issues := Parse(raw)
	if doc == nil {
		t.Fatalf("expected a document despite field issues")
	}
	if len(doc.Nodes) != 2 {
		t.Fatalf("expected both nodes retained, got %d", len(doc.Nodes))
	}
	codes := map[string]string{}
	for _, issue := range issues {
		codes[issue.Path] = issue.Code
	}
	if codes["nodes.0.id"] != diag.CodeWrongType {
		t.Fatalf("expected wrong_type at nodes.0.id, got %v", codes)
	}
	if codes["nodes.1.data.inputs"] != diag.CodeWrongType {
		t.Fatalf("expected wrong_type at nodes.1.data.inputs, got %v", codes)
	}
	if codes["edges.0.source"] != diag.CodeMissingField {
		t.Fatalf("expected missing_field at edges.0.source, got %v", codes)
	}
}

func TestParseRetainsUnknownFields(t *testing.T) {
	raw := []byte(`{
		"nodes": [{"id": "a_0", "width": 300, "data": {"name": "llmChain", "loadMethods": {}}}],
		"edges": [],
		"viewport": {"x": 0, "y": 0, "zoom": 1}
	}`)
	doc, issues := Parse(raw)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %+v", issues)
	}
	if _, ok := doc.Extra["viewport"]; !ok {
		t.Fatalf("expected viewport retained at the root")
	}
	if _, ok := doc.Nodes[0].Extra["width"]; !ok {
		t.Fatalf("expected width retained on the node")
	}
	if _, ok := doc.Nodes[0].Data.Extra["loadMethods"]; !ok {
		t.Fatalf("expected loadMethods retained in data")
	}
}

func TestEffectiveTypePrefersDataName(t *testing.T) {
	node := Node{ID: "x", Type: "customNode", Data: NodeData{Name: "chatOpenAI"}}
	if got := node.EffectiveType(); got != "chatOpenAI" {
		t.Fatalf("expected chatOpenAI, got %q", got)
	}
	bare := Node{ID: "y", Type: "markdownOutput"}
	if got := bare.EffectiveType(); got != "markdownOutput" {
		t.Fatalf("expected fallback to type, got %q", got)
	}
}
