// File path: internal/schema/types.go
package schema

import (
	"encoding/json"
	"strings"
)

// Document is the parsed form of a flow export. Unknown top-level
// fields are retained verbatim in Extra so a document can be written
// back without losing editor metadata such as the viewport.
type Document struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Node is one typed unit of the flow graph.
type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Data     NodeData `json:"data"`

	Extra map[string]json.RawMessage `json:"-"`
}

// NodeData carries the type-specific payload of a node. Inputs is the
// free-form parameter record the editor writes; anchors describe the
// named ports edges may attach to.
type NodeData struct {
	ID            string                 `json:"id,omitempty"`
	Name          string                 `json:"name,omitempty"`
	Label         string                 `json:"label,omitempty"`
	Type          string                 `json:"type,omitempty"`
	Category      string                 `json:"category,omitempty"`
	Description   string                 `json:"description,omitempty"`
	Version       float64                `json:"version,omitempty"`
	HasVersion    bool                   `json:"-"`
	BaseClasses   []string               `json:"baseClasses,omitempty"`
	Tags          []string               `json:"tags,omitempty"`
	Credential    string                 `json:"credential,omitempty"`
	Inputs        map[string]interface{} `json:"inputs,omitempty"`
	Outputs       map[string]interface{} `json:"outputs,omitempty"`
	InputAnchors  []Anchor               `json:"inputAnchors,omitempty"`
	InputParams   []Anchor               `json:"inputParams,omitempty"`
	OutputAnchors []Anchor               `json:"outputAnchors,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Anchor is a named port on a node. Edges reference anchors through
// their id in sourceHandle and targetHandle.
type Anchor struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Label       string `json:"label,omitempty"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
	Optional    bool   `json:"optional,omitempty"`
	List        bool   `json:"list,omitempty"`
}

// Position is canvas geometry. It never influences analysis or
// ordering and is kept only for round-trip fidelity.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Edge is a directed link between two nodes, optionally pinned to a
// named handle on either end.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
	Type         string `json:"type,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// EffectiveType resolves the converter key for a node. The editor
// writes the real type into data.name and tags the canvas node with a
// generic wrapper type, so data.name wins when present.
func (n *Node) EffectiveType() string {
	if name := strings.TrimSpace(n.Data.Name); name != "" {
		return name
	}
	return strings.TrimSpace(n.Type)
}

// InputHandles returns the ids of all ports an edge may target on
// this node.
func (n *Node) InputHandles() []string {
	out := make([]string, 0, len(n.Data.InputAnchors)+len(n.Data.InputParams))
	for _, a := range n.Data.InputAnchors {
		if a.ID != "" {
			out = append(out, a.ID)
		}
	}
	for _, a := range n.Data.InputParams {
		if a.ID != "" {
			out = append(out, a.ID)
		}
	}
	return out
}

// OutputHandles returns the ids of all ports an edge may originate
// from on this node.
func (n *Node) OutputHandles() []string {
	out := make([]string, 0, len(n.Data.OutputAnchors))
	for _, a := range n.Data.OutputAnchors {
		if a.ID != "" {
			out = append(out, a.ID)
		}
	}
	return out
}

// NodeByID returns the node with the given id, or nil.
func (d *Document) NodeByID(id string) *Node {
	if d == nil {
		return nil
	}
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i]
		}
	}
	return nil
}

// InputValue returns a string parameter from the node's input record.
func (n *Node) InputValue(key string) (string, bool) {
	if n == nil || n.Data.Inputs == nil {
		return "", false
	}
	raw, ok := n.Data.Inputs[key]
	if !ok {
		return "", false
	}
	switch v := raw.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case float64:
		return strconvFormat(v), true
	case bool:
		if v {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
}

func strconvFormat(v float64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
