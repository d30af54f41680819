// File path: internal/schema/validate.go
package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/nicodishanthj/flowlang/internal/diag"
)

// DefaultMaxBytes bounds document size before any parsing happens.
const DefaultMaxBytes = 10 << 20

// Options controls how strictly a document is validated. Strict
// rejects unrecognized top-level fields. Minimal limits validation to
// structural shape and skips per-field checks; the same relaxation is
// applied automatically when dialect detection reports unknown.
type Options struct {
	Strict   bool
	Minimal  bool
	MaxBytes int
}

// DefaultOptions returns the permissive defaults used by the pipeline.
func DefaultOptions() Options {
	return Options{MaxBytes: DefaultMaxBytes}
}

// Report is the outcome of validating one document. Errors make the
// document unusable for generation; warnings never do.
type Report struct {
	Valid     bool         `json:"valid"`
	Version   VersionInfo  `json:"version"`
	Errors    []diag.Issue `json:"errors,omitempty"`
	Warnings  []diag.Issue `json:"warnings,omitempty"`
	NodeCount int          `json:"node_count"`
	EdgeCount int          `json:"edge_count"`
}

// Validate parses raw bytes, detects the dialect, and checks the
// document against the schema in effect. All violations are collected
// in one pass. The returned document is nil only when the input could
// not be parsed at all or exceeded the size ceiling.
func Validate(data []byte, opts Options) (*Document, *Report) {
	if opts.MaxBytes > 0 && len(data) > opts.MaxBytes {
		issue := diag.New(diag.KindStructure, diag.CodeOversizedDocument,
			fmt.Sprintf("document is %d bytes, limit is %d", len(data), opts.MaxBytes))
		return nil, &Report{
			Version: VersionInfo{Version: VersionUnknown},
			Errors:  []diag.Issue{issue},
		}
	}

	doc, shape, deep := parse(data)
	if doc == nil {
		return nil, &Report{
			Version: VersionInfo{Version: VersionUnknown},
			Errors:  shape,
		}
	}

	info := DetectVersion(doc)
	minimal := opts.Minimal || info.Version == VersionUnknown

	errs := append([]diag.Issue{}, shape...)
	if !minimal {
		errs = append(errs, deep...)
	}

	checkErrs, warns := checkDocument(doc, info, opts, minimal)
	errs = append(errs, checkErrs...)

	if info.Conflict {
		warns = append(warns, diag.New(diag.KindVersion, diag.CodeVersionConflict,
			"structural evidence suggests v2 but the explicit marker says v1"))
	}

	diag.Sort(errs)
	diag.Sort(warns)
	return doc, &Report{
		Valid:     len(errs) == 0,
		Version:   info,
		Errors:    errs,
		Warnings:  warns,
		NodeCount: len(doc.Nodes),
		EdgeCount: len(doc.Edges),
	}
}

func checkDocument(doc *Document, info VersionInfo, opts Options, minimal bool) ([]diag.Issue, []diag.Issue) {
	var errs, warns []diag.Issue

	if len(doc.Nodes) == 0 {
		issue := diag.New(diag.KindValidation, diag.CodeEmptyGraph,
			"document must contain at least one node")
		issue.Path = "nodes"
		errs = append(errs, issue)
	}

	ids := make(map[string]bool, len(doc.Nodes))
	for i := range doc.Nodes {
		node := &doc.Nodes[i]
		id := strings.TrimSpace(node.ID)
		if id == "" {
			continue
		}
		if ids[id] {
			issue := diag.New(diag.KindValidation, diag.CodeDuplicateNodeID,
				fmt.Sprintf("node id %q is used by more than one node", id))
			issue.Path = fmt.Sprintf("nodes.%d.id", i)
			issue.NodeID = id
			errs = append(errs, issue)
			continue
		}
		ids[id] = true
	}

	if !minimal {
		for i := range doc.Nodes {
			node := &doc.Nodes[i]
			if node.EffectiveType() == "" {
				issue := diag.New(diag.KindValidation, diag.CodeMissingField,
					"node must declare a type in data.name or type")
				issue.Path = fmt.Sprintf("nodes.%d.data.name", i)
				issue.NodeID = node.ID
				errs = append(errs, issue)
			}
			warns = append(warns, extraFieldWarnings(node.Extra,
				fmt.Sprintf("nodes.%d", i), nodeFieldAllowed(info.Version), node.ID)...)
		}
	}

	for i := range doc.Edges {
		edge := &doc.Edges[i]
		if src := strings.TrimSpace(edge.Source); src != "" && !ids[src] {
			issue := diag.New(diag.KindValidation, diag.CodeUnknownEdgeSource,
				fmt.Sprintf("edge source references unknown node id %q", src))
			issue.Path = fmt.Sprintf("edges.%d.source", i)
			issue.NodeID = src
			errs = append(errs, issue)
		}
		if dst := strings.TrimSpace(edge.Target); dst != "" && !ids[dst] {
			issue := diag.New(diag.KindValidation, diag.CodeUnknownEdgeTarget,
				fmt.Sprintf("edge target references unknown node id %q", dst))
			issue.Path = fmt.Sprintf("edges.%d.target", i)
			issue.NodeID = dst
			errs = append(errs, issue)
		}
		if !minimal {
			errs = append(errs, handleIssues(doc, edge, i)...)
			warns = append(warns, extraFieldWarnings(edge.Extra,
				fmt.Sprintf("edges.%d", i), edgeFieldAllowed, edge.ID)...)
		}
	}

	if opts.Strict {
		for _, key := range sortedKeys(doc.Extra) {
			if rootFieldAllowed[key] {
				continue
			}
			issue := diag.New(diag.KindValidation, diag.CodeUnrecognizedField,
				fmt.Sprintf("unrecognized top-level field %q", key))
			issue.Path = key
			issue.Suggestion = "remove the field or disable strict validation"
			errs = append(errs, issue)
		}
	}
	return errs, warns
}

// handleIssues checks that edge handles name ports the endpoint nodes
// actually declare. Nodes without declared ports skip the check so
// hand-written documents without anchor metadata stay valid.
func handleIssues(doc *Document, edge *Edge, index int) []diag.Issue {
	var errs []diag.Issue
	if handle := strings.TrimSpace(edge.SourceHandle); handle != "" {
		if node := doc.NodeByID(edge.Source); node != nil {
			if declared := node.OutputHandles(); len(declared) > 0 && !containsString(declared, handle) {
				issue := diag.New(diag.KindValidation, diag.CodeUnknownHandle,
					fmt.Sprintf("source handle %q is not declared by node %q", handle, edge.Source))
				issue.Path = fmt.Sprintf("edges.%d.sourceHandle", index)
				issue.NodeID = edge.Source
				errs = append(errs, issue)
			}
		}
	}
	if handle := strings.TrimSpace(edge.TargetHandle); handle != "" {
		if node := doc.NodeByID(edge.Target); node != nil {
			if declared := node.InputHandles(); len(declared) > 0 && !containsString(declared, handle) {
				issue := diag.New(diag.KindValidation, diag.CodeUnknownHandle,
					fmt.Sprintf("target handle %q is not declared by node %q", handle, edge.Target))
				issue.Path = fmt.Sprintf("edges.%d.targetHandle", index)
				issue.NodeID = edge.Target
				errs = append(errs, issue)
			}
		}
	}
	return errs
}

func extraFieldWarnings(extra map[string]json.RawMessage, prefix string, allowed map[string]bool, nodeID string) []diag.Issue {
	if len(extra) == 0 {
		return nil
	}
	var warns []diag.Issue
	for _, key := range sortedKeys(extra) {
		if allowed[key] {
			continue
		}
		issue := diag.New(diag.KindValidation, diag.CodeUnrecognizedField,
			fmt.Sprintf("unrecognized field %q", key))
		issue.Path = prefix + "." + key
		issue.NodeID = nodeID
		warns = append(warns, issue)
	}
	return warns
}

var rootFieldAllowed = map[string]bool{
	"viewport":    true,
	"name":        true,
	"id":          true,
	"createdDate": true,
	"updatedDate": true,
}

var edgeFieldAllowed = map[string]bool{
	"data":      true,
	"label":     true,
	"animated":  true,
	"style":     true,
	"markerEnd": true,
	"selected":  true,
}

func nodeFieldAllowed(version Version) map[string]bool {
	allowed := map[string]bool{
		"width":            true,
		"height":           true,
		"selected":         true,
		"positionAbsolute": true,
		"dragging":         true,
	}
	if version == VersionV2 {
		allowed["parentNode"] = true
		allowed["extent"] = true
	}
	return allowed
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]json.RawMessage) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
