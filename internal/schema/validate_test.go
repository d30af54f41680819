// File path: internal/schema/validate_test.go
package schema

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/nicodishanthj/flowlang/internal/diag"
)

func hasIssue(issues []diag.Issue, code string) bool {
	for _, issue := range issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

func TestValidateEmptyGraph(t *testing.T) {
	_, report := Validate([]byte(`{"nodes": [], "edges": []}`), DefaultOptions())
	if report.Valid {
		t.Fatalf("expected invalid report")
	}
	if !hasIssue(report.Errors, diag.CodeEmptyGraph) {
		t.Fatalf("expected empty_graph, got %+v", report.Errors)
	}
	found := false
	for _, issue := range report.Errors {
		if strings.Contains(issue.Message, "at least one node") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected message mentioning at least one node")
	}
}

func TestValidateDuplicateNodeID(t *testing.T) {
	raw := []byte(`{
		"nodes": [
			{"id": "chain_0", "data": {"name": "llmChain", "version": 1}},
			{"id": "chain_0", "data": {"name": "llmChain", "version": 1}}
		],
		"edges": []
	}`)
	_, report := Validate(raw, DefaultOptions())
	if report.Valid {
		t.Fatalf("expected invalid report")
	}
	if !hasIssue(report.Errors, diag.CodeDuplicateNodeID) {
		t.Fatalf("expected duplicate_node_id, got %+v", report.Errors)
	}
}

func TestValidateUnknownEdgeEndpoints(t *testing.T) {
	raw := []byte(`{
		"nodes": [{"id": "a_0", "data": {"name": "llmChain", "version": 1}}],
		"edges": [{"id": "e1", "source": "ghost_1", "target": "a_0"},
		          {"id": "e2", "source": "a_0", "target": "ghost_2"}]
	}`)
	_, report := Validate(raw, DefaultOptions())
	if report.Valid {
		t.Fatalf("expected invalid report")
	}
	if !hasIssue(report.Errors, diag.CodeUnknownEdgeSource) || !hasIssue(report.Errors, diag.CodeUnknownEdgeTarget) {
		t.Fatalf("expected unknown edge endpoint errors, got %+v", report.Errors)
	}
}

func TestValidateHandleAgainstDeclaredPorts(t *testing.T) {
	raw := []byte(`{
		"nodes": [
			{"id": "model_0", "data": {"name": "chatOpenAI", "version": 1,
				"outputAnchors": [{"id": "model_0-output-chatOpenAI", "name": "chatOpenAI"}]}},
			{"id": "chain_0", "data": {"name": "llmChain", "version": 1,
				"inputAnchors": [{"id": "chain_0-input-model", "name": "model"}]}}
		],
		"edges": [{"id": "e1", "source": "model_0", "target": "chain_0",
			"sourceHandle": "model_0-output-chatOpenAI",
			"targetHandle": "chain_0-input-wrong"}]
	}`)
	_, report := Validate(raw, DefaultOptions())
	if report.Valid {
		t.Fatalf("expected invalid report")
	}
	if !hasIssue(report.Errors, diag.CodeUnknownHandle) {
		t.Fatalf("expected unknown_handle, got %+v", report.Errors)
	}
	for _, issue := range report.Errors {
		if issue.Code == diag.CodeUnknownHandle && issue.Path != "edges.0.targetHandle" {
			t.Fatalf("expected issue at edges.0.targetHandle, got %s", issue.Path)
		}
	}
}

func TestValidateHandleSkippedWithoutDeclaredPorts(t *testing.T) {
	raw := []byte(`{
		"nodes": [
			{"id": "a_0", "data": {"name": "llmChain", "version": 1}},
			{"id": "b_0", "data": {"name": "chatOpenAI", "version": 1}}
		],
		"edges": [{"id": "e1", "source": "a_0", "target": "b_0",
			"sourceHandle": "a_0-output", "targetHandle": "b_0-input"}]
	}`)
	_, report := Validate(raw, DefaultOptions())
	if !report.Valid {
		t.Fatalf("expected valid report, got %+v", report.Errors)
	}
}

func TestValidateStrictRejectsUnknownRootFields(t *testing.T) {
	raw := []byte(`{
		"nodes": [{"id": "a_0", "data": {"name": "llmChain", "version": 1}}],
		"edges": [],
		"exportedBy": "editor"
	}`)
	_, permissive := Validate(raw, DefaultOptions())
	if !permissive.Valid {
		t.Fatalf("permissive validation should pass, got %+v", permissive.Errors)
	}
	opts := DefaultOptions()
	opts.Strict = true
	_, strict := Validate(raw, opts)
	if strict.Valid {
		t.Fatalf("strict validation should fail")
	}
	if !hasIssue(strict.Errors, diag.CodeUnrecognizedField) {
		t.Fatalf("expected unrecognized_field, got %+v", strict.Errors)
	}
}

func TestValidateUnknownNodeFieldIsWarning(t *testing.T) {
	raw := []byte(`{
		"nodes": [{"id": "a_0", "mystery": true, "data": {"name": "llmChain", "version": 1}}],
		"edges": []
	}`)
	_, report := Validate(raw, DefaultOptions())
	if !report.Valid {
		t.Fatalf("expected valid report, got %+v", report.Errors)
	}
	if !hasIssue(report.Warnings, diag.CodeUnrecognizedField) {
		t.Fatalf("expected unrecognized_field warning, got %+v", report.Warnings)
	}
}

func TestValidateOversizedDocument(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxBytes = 16
	doc, report := Validate([]byte(`{"nodes": [], "edges": []}`), opts)
	if doc != nil {
		t.Fatalf("expected nil document for oversized input")
	}
	if report.Valid || !hasIssue(report.Errors, diag.CodeOversizedDocument) {
		t.Fatalf("expected oversized_document, got %+v", report.Errors)
	}
	if report.Errors[0].Kind != diag.KindStructure {
		t.Fatalf("expected structure kind, got %s", report.Errors[0].Kind)
	}
}

func TestValidateMinimalSkipsDeepChecks(t *testing.T) {
	raw := []byte(`{
		"nodes": [{"id": "a_0", "data": {"name": "llmChain", "inputs": "not-an-object"}}],
		"edges": []
	}`)
	opts := DefaultOptions()
	opts.Minimal = true
	_, report := Validate(raw, opts)
	if !report.Valid {
		t.Fatalf("minimal validation should pass, got %+v", report.Errors)
	}
}

func TestValidateRoundTrip(t *testing.T) {
	raw := []byte(`{
		"nodes": [
			{"id": "model_0", "width": 300, "data": {"name": "chatOpenAI", "version": 2}},
			{"id": "chain_0", "data": {"name": "llmChain", "version": 2}}
		],
		"edges": [{"id": "e1", "source": "model_0", "target": "chain_0"}],
		"createdDate": "2024-03-01T10:00:00.000Z"
	}`)
	doc, first := Validate(raw, DefaultOptions())
	if doc == nil {
		t.Fatalf("expected document")
	}
	reserialized, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	_, second := Validate(reserialized, DefaultOptions())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("round-trip changed the report:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestValidateVersionConflictWarning(t *testing.T) {
	raw := []byte(`{
		"nodes": [
			{"id": "chain_0", "data": {"name": "llmChain", "version": 1}},
			{"id": "seq_0", "data": {"name": "seqAgent", "version": 1}}
		],
		"edges": [{"id": "e1", "source": "chain_0", "target": "seq_0"}]
	}`)
	_, report := Validate(raw, DefaultOptions())
	if !report.Valid {
		t.Fatalf("conflict must stay advisory, got %+v", report.Errors)
	}
	if !hasIssue(report.Warnings, diag.CodeVersionConflict) {
		t.Fatalf("expected version_conflict warning, got %+v", report.Warnings)
	}
	if report.Version.Version != VersionV1 {
		t.Fatalf("explicit marker must win, got %s", report.Version.Version)
	}
}
