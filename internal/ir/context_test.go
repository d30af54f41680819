// File path: internal/ir/context_test.go
package ir

import (
	"reflect"
	"testing"

	"github.com/nicodishanthj/flowlang/internal/graph"
	"github.com/nicodishanthj/flowlang/internal/schema"
)

func TestEnsureVarStableAndUnique(t *testing.T) {
	gctx := NewContext(nil, schema.VersionV1, TargetTypeScript)
	first := gctx.EnsureVar("model_0", "ChatOpenAI")
	if first != "chatOpenAI" {
		t.Fatalf("expected chatOpenAI, got %q", first)
	}
	if again := gctx.EnsureVar("model_0", "somethingElse"); again != first {
		t.Fatalf("expected stable name, got %q", again)
	}
	second := gctx.EnsureVar("model_1", "ChatOpenAI")
	if second != "chatOpenAI_1" {
		t.Fatalf("expected suffixed name, got %q", second)
	}
}

func TestEnsureVarSanitizes(t *testing.T) {
	gctx := NewContext(nil, schema.VersionV1, TargetTypeScript)
	if got := gctx.EnsureVar("a", "Chat Model!"); got != "chat_Model_" {
		t.Fatalf("unexpected sanitized name %q", got)
	}
	if got := gctx.EnsureVar("b", "3model"); got != "_3model" {
		t.Fatalf("expected digit prefix guard, got %q", got)
	}
	if got := gctx.EnsureVar("c", "  "); got != "node" {
		t.Fatalf("expected fallback name, got %q", got)
	}
}

func TestSourceForMatchesHandle(t *testing.T) {
	doc := &schema.Document{
		Nodes: []schema.Node{
			{ID: "model_0", Data: schema.NodeData{Name: "chatOpenAI"}},
			{ID: "prompt_0", Data: schema.NodeData{Name: "promptTemplate"}},
			{ID: "chain_0", Data: schema.NodeData{Name: "llmChain"}},
		},
		Edges: []schema.Edge{
			{ID: "e1", Source: "model_0", Target: "chain_0",
				TargetHandle: "chain_0-input-model-BaseLanguageModel"},
			{ID: "e2", Source: "prompt_0", Target: "chain_0",
				TargetHandle: "chain_0-input-prompt-BasePromptTemplate"},
		},
	}
	g := graph.FromDocument(doc)
	gctx := NewContext(g, schema.VersionV1, TargetTypeScript)

	if src, ok := gctx.SourceFor("chain_0", "model"); !ok || src != "model_0" {
		t.Fatalf("expected model_0, got %q ok=%v", src, ok)
	}
	if src, ok := gctx.SourceFor("chain_0", "prompt"); !ok || src != "prompt_0" {
		t.Fatalf("expected prompt_0, got %q ok=%v", src, ok)
	}
	if _, ok := gctx.SourceFor("chain_0", "memory"); ok {
		t.Fatalf("expected no match for unwired input")
	}
}

func TestSourcesAndTargetsOrder(t *testing.T) {
	doc := &schema.Document{
		Nodes: []schema.Node{
			{ID: "a"}, {ID: "b"}, {ID: "c"},
		},
		Edges: []schema.Edge{
			{ID: "e1", Source: "a", Target: "c"},
			{ID: "e2", Source: "b", Target: "c"},
			{ID: "e3", Source: "a", Target: "b"},
		},
	}
	g := graph.FromDocument(doc)
	gctx := NewContext(g, schema.VersionV1, TargetTypeScript)
	if got := gctx.Sources("c"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("expected sources [a b], got %v", got)
	}
	if got := gctx.Targets("a"); !reflect.DeepEqual(got, []string{"c", "b"}) {
		t.Fatalf("expected targets [c b], got %v", got)
	}
}
