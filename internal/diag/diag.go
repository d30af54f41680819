// File path: internal/diag/diag.go
package diag

import "sort"

// Kind classifies an issue by the pipeline stage that produced it.
type Kind string

const (
	KindSyntax     Kind = "syntax"
	KindValidation Kind = "validation"
	KindStructure  Kind = "structure"
	KindVersion    Kind = "version"
	KindNetwork    Kind = "network"
)

// Validation issue codes.
const (
	CodeMissingField      = "missing_field"
	CodeWrongType         = "wrong_type"
	CodeEmptyGraph        = "empty_graph"
	CodeDuplicateNodeID   = "duplicate_node_id"
	CodeEmptyNodeID       = "empty_node_id"
	CodeUnknownEdgeSource = "unknown_edge_source"
	CodeUnknownEdgeTarget = "unknown_edge_target"
	CodeUnknownHandle     = "unknown_handle"
	CodeUnrecognizedField = "unrecognized_field"
	CodeInvalidRoot       = "invalid_root"
)

// Structure issue codes.
const (
	CodeCycle             = "cycle"
	CodeDanglingEdge      = "dangling_edge"
	CodeOrphanNode        = "orphan_node"
	CodeUnregisteredType  = "unregistered_type"
	CodeConvertFailed     = "convert_failed"
	CodeFallbackApplied   = "fallback_applied"
	CodeOversizedDocument = "oversized_document"
	CodeComplexFlow       = "complex_flow"
	CodeReviewNote        = "review_note"
)

// Syntax, version and network issue codes.
const (
	CodeMalformedJSON     = "malformed_json"
	CodeVersionConflict   = "version_conflict"
	CodeVersionUnknown    = "version_unknown"
	CodeFetchFailed       = "fetch_failed"
	CodeUnsupportedScheme = "unsupported_scheme"
)

// Issue is a single diagnostic finding. Path points at the offending
// JSON location using dot notation, for example "nodes.3.data.name".
type Issue struct {
	Kind       Kind   `json:"kind"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Path       string `json:"path,omitempty"`
	NodeID     string `json:"node_id,omitempty"`
	Line       int    `json:"line,omitempty"`
	Column     int    `json:"column,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// New builds an issue and fills in the stock remediation hint for the
// code when one exists.
func New(kind Kind, code, message string) Issue {
	return Issue{Kind: kind, Code: code, Message: message, Suggestion: Suggestion(code)}
}

// Sort orders issues deterministically so repeated runs over the same
// document report identical output. Order is path, then code, then
// node id, then message.
func Sort(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		if a.NodeID != b.NodeID {
			return a.NodeID < b.NodeID
		}
		return a.Message < b.Message
	})
}

var suggestions = map[string]string{
	CodeMissingField:      "add the missing field to the document",
	CodeWrongType:         "check the field against the expected JSON type",
	CodeEmptyGraph:        "add at least one node to the flow",
	CodeDuplicateNodeID:   "give every node a unique id",
	CodeEmptyNodeID:       "assign a non-empty id to the node",
	CodeUnknownEdgeSource: "point the edge source at an existing node id",
	CodeUnknownEdgeTarget: "point the edge target at an existing node id",
	CodeUnknownHandle:     "use a handle declared on the referenced node",
	CodeInvalidRoot:       "wrap the flow in an object with nodes and edges arrays",
	CodeCycle:             "remove one edge from the cycle to restore a valid ordering",
	CodeDanglingEdge:      "delete the edge or restore the node it references",
	CodeOrphanNode:        "connect the node or remove it from the flow",
	CodeUnregisteredType:  "register a converter for the node type or remove the node",
	CodeConvertFailed:     "check the node's parameters against the converter's requirements",
	CodeFallbackApplied:   "set the node parameter explicitly to override the default",
	CodeOversizedDocument: "split the flow or raise the configured document limit",
	CodeMalformedJSON:     "fix the JSON syntax near the reported position",
	CodeUnsupportedScheme: "use a file path or an http or https URL",
}

// Suggestion returns the stock remediation hint for a code, or an
// empty string when the code has no fixed hint.
func Suggestion(code string) string {
	return suggestions[code]
}
