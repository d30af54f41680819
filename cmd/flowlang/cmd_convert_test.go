// File path: cmd/flowlang/cmd_convert_test.go
package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nicodishanthj/flowlang/internal/ir"
)

func TestParseTarget(t *testing.T) {
	cases := []struct {
		in   string
		want ir.Target
		ok   bool
	}{
		{"typescript", ir.TargetTypeScript, true},
		{"ts", ir.TargetTypeScript, true},
		{"", ir.TargetTypeScript, true},
		{" Python ", ir.TargetPython, true},
		{"py", ir.TargetPython, true},
		{"ruby", "", false},
	}
	for _, tc := range cases {
		got, err := parseTarget(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("parseTarget(%q) returned error: %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("parseTarget(%q) expected error", tc.in)
		}
		if got != tc.want {
			t.Fatalf("parseTarget(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCollectFlowRefsExpandsDirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "flows")
	hidden := filepath.Join(dir, ".cache")
	for _, d := range []string{sub, hidden} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	files := map[string]string{
		filepath.Join(dir, "b.json"):    "{}",
		filepath.Join(sub, "a.json"):    "{}",
		filepath.Join(sub, "notes.txt"): "skip",
		filepath.Join(hidden, "c.json"): "skip",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	refs, err := collectFlowRefs([]string{dir})
	if err != nil {
		t.Fatalf("collectFlowRefs: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d: %v", len(refs), refs)
	}
	for _, ref := range refs {
		if filepath.Ext(ref) != ".json" {
			t.Fatalf("unexpected ref %s", ref)
		}
		if filepath.Base(filepath.Dir(ref)) == ".cache" {
			t.Fatalf("hidden directory was not skipped: %s", ref)
		}
	}
}

func TestCollectFlowRefsPassesThroughURLs(t *testing.T) {
	refs, err := collectFlowRefs([]string{"https://example.com/flow.json"})
	if err != nil {
		t.Fatalf("collectFlowRefs: %v", err)
	}
	if len(refs) != 1 || refs[0] != "https://example.com/flow.json" {
		t.Fatalf("unexpected refs: %v", refs)
	}
}

func TestCollectFlowRefsMissingPath(t *testing.T) {
	if _, err := collectFlowRefs([]string{filepath.Join(t.TempDir(), "absent.json")}); err == nil {
		t.Fatal("expected stat error for missing path")
	}
}

func TestOutputNamePerFormat(t *testing.T) {
	restore := outputFormat
	defer func() { outputFormat = restore }()

	outputFormat = "code"
	if got := outputName("flows/support-bot.json", ir.TargetTypeScript); got != "support-bot.ts" {
		t.Fatalf("code/ts name = %q", got)
	}
	if got := outputName("support-bot.json", ir.TargetPython); got != "support-bot.py" {
		t.Fatalf("code/py name = %q", got)
	}
	outputFormat = "json"
	if got := outputName("support-bot.json", ir.TargetTypeScript); got != "support-bot.result.json" {
		t.Fatalf("json name = %q", got)
	}
	outputFormat = "deps"
	if got := outputName("support-bot.json", ir.TargetTypeScript); got != "support-bot.package.json" {
		t.Fatalf("deps/ts name = %q", got)
	}
	if got := outputName("support-bot.json", ir.TargetPython); got != "support-bot.requirements.txt" {
		t.Fatalf("deps/py name = %q", got)
	}
}

func TestValidOutputFormat(t *testing.T) {
	for _, f := range []string{"code", "json", "deps"} {
		if !validOutputFormat(f) {
			t.Fatalf("%q should be valid", f)
		}
	}
	if validOutputFormat("yaml") {
		t.Fatal("yaml should be rejected")
	}
}
