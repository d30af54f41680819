// File path: internal/schema/version_test.go
package schema

import (
	"math"
	"strings"
	"testing"
)

func checkConfidence(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected confidence %g, got %g", want, got)
	}
}

func TestDetectExplicitV2(t *testing.T) {
	doc := &Document{Nodes: []Node{
		{ID: "agent_0", Data: NodeData{Name: "toolAgent", Version: 3, HasVersion: true}},
	}}
	info := DetectVersion(doc)
	if info.Version != VersionV2 {
		t.Fatalf("expected v2, got %s", info.Version)
	}
	checkConfidence(t, info.Confidence, 0.7)
	if len(info.Indicators) == 0 || !strings.Contains(info.Indicators[0], "explicit version marker") {
		t.Fatalf("expected explicit marker indicator, got %v", info.Indicators)
	}
}

func TestDetectExplicitV1(t *testing.T) {
	doc := &Document{Nodes: []Node{
		{ID: "chain_0", Data: NodeData{Name: "llmChain", Version: 1, HasVersion: true}},
	}}
	info := DetectVersion(doc)
	if info.Version != VersionV1 {
		t.Fatalf("expected v1, got %s", info.Version)
	}
	checkConfidence(t, info.Confidence, 0.7)
}

func TestDetectStructuralEvidenceAloneIsUnknown(t *testing.T) {
	doc := &Document{Nodes: []Node{
		{ID: "seq_0", Data: NodeData{Name: "seqAgent"}},
	}}
	info := DetectVersion(doc)
	if info.Version != VersionUnknown {
		t.Fatalf("expected unknown at confidence 0.3, got %s", info.Version)
	}
	checkConfidence(t, info.Confidence, 0.3)
}

func TestDetectTagsPlusStructural(t *testing.T) {
	doc := &Document{Nodes: []Node{
		{ID: "start_0", Data: NodeData{Name: "startNode", Tags: []string{"Agentflow"}}},
		{ID: "seq_1", Data: NodeData{Name: "conditionAgent"}},
	}}
	info := DetectVersion(doc)
	if info.Version != VersionV2 {
		t.Fatalf("expected v2, got %s", info.Version)
	}
	checkConfidence(t, info.Confidence, 0.5)
}

func TestDetectConflictKeepsExplicitDialect(t *testing.T) {
	doc := &Document{Nodes: []Node{
		{ID: "chain_0", Data: NodeData{Name: "llmChain", Version: 1, HasVersion: true}},
		{ID: "seq_1", Data: NodeData{Name: "seqAgent"}},
	}}
	info := DetectVersion(doc)
	if info.Version != VersionV1 {
		t.Fatalf("explicit marker must win, got %s", info.Version)
	}
	if !info.Conflict {
		t.Fatalf("expected conflict to be recorded")
	}
	checkConfidence(t, info.Confidence, 1.0)
}

func TestDetectMetadataRaisesConfidence(t *testing.T) {
	doc, issues := Parse([]byte(`{
		"nodes": [{"id": "a_0", "data": {"name": "llmChain", "version": 2}}],
		"edges": [],
		"createdDate": "2024-03-01T10:00:00.000Z"
	}`))
	if len(issues) != 0 {
		t.Fatalf("unexpected parse issues: %+v", issues)
	}
	info := DetectVersion(doc)
	if info.Version != VersionV2 {
		t.Fatalf("expected v2, got %s", info.Version)
	}
	checkConfidence(t, info.Confidence, 0.8)
}

func TestDetectEmptyDocument(t *testing.T) {
	info := DetectVersion(nil)
	if info.Version != VersionUnknown || info.Confidence != 0 {
		t.Fatalf("expected unknown with zero confidence, got %+v", info)
	}
	info = DetectVersion(&Document{})
	if info.Version != VersionUnknown {
		t.Fatalf("expected unknown for empty node list, got %s", info.Version)
	}
}
