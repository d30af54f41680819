// File path: internal/ir/context.go
package ir

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/nicodishanthj/flowlang/internal/diag"
	"github.com/nicodishanthj/flowlang/internal/graph"
	"github.com/nicodishanthj/flowlang/internal/schema"
)

// Context carries the per-run state threaded through conversion. Each
// assembly run builds its own Context, so independent documents can
// be processed concurrently without shared mutable state.
type Context struct {
	Graph   *graph.Graph
	Version schema.Version
	Target  Target

	vars     map[string]string
	used     map[string]bool
	once     map[string]bool
	warnings []diag.Issue
}

// NewContext builds a generation context for one assembly run.
func NewContext(g *graph.Graph, version schema.Version, target Target) *Context {
	if target == "" {
		target = TargetTypeScript
	}
	return &Context{
		Graph:   g,
		Version: version,
		Target:  target,
		vars:    make(map[string]string),
		used:    make(map[string]bool),
		once:    make(map[string]bool),
	}
}

// Warn records an advisory issue. Converters use it for conditions
// that degrade the generated code without invalidating it, such as a
// substituted default.
func (c *Context) Warn(issue diag.Issue) {
	c.warnings = append(c.warnings, issue)
}

// Warnings returns the advisory issues recorded so far.
func (c *Context) Warnings() []diag.Issue {
	return c.warnings
}

// Once reports true the first time a key is seen in this run.
// Converters use it for shared scaffolding that must be emitted by
// whichever of them runs first, instead of keeping process-global
// state that would leak between runs.
func (c *Context) Once(key string) bool {
	if c.once[key] {
		return false
	}
	c.once[key] = true
	return true
}

// EnsureVar returns the stable variable name assigned to a node,
// deriving one from base on first use. Collisions get a numeric
// suffix so generated code never shadows an earlier declaration.
func (c *Context) EnsureVar(nodeID, base string) string {
	if name, ok := c.vars[nodeID]; ok {
		return name
	}
	candidate := sanitizeIdent(base)
	name := candidate
	for n := 1; c.used[name]; n++ {
		name = fmt.Sprintf("%s_%d", candidate, n)
	}
	c.vars[nodeID] = name
	c.used[name] = true
	return name
}

// VarFor returns the variable name previously assigned to a node.
func (c *Context) VarFor(nodeID string) (string, bool) {
	name, ok := c.vars[nodeID]
	return name, ok
}

// SourceFor resolves which node feeds the named input of a node, by
// matching the edge's target handle. Handles follow the editor's
// "<node>-input-<name>-<type>" convention.
func (c *Context) SourceFor(nodeID, inputName string) (string, bool) {
	if c.Graph == nil {
		return "", false
	}
	for i := range c.Graph.Edges {
		edge := &c.Graph.Edges[i]
		if edge.Target != nodeID {
			continue
		}
		if handleInputName(edge.TargetHandle) == inputName {
			return edge.Source, true
		}
	}
	return "", false
}

// SourcesFor returns every node feeding the named input, in edge
// order. Inputs that accept a list, such as an agent's tools, arrive
// as multiple edges sharing one target handle.
func (c *Context) SourcesFor(nodeID, inputName string) []string {
	if c.Graph == nil {
		return nil
	}
	var out []string
	for i := range c.Graph.Edges {
		edge := &c.Graph.Edges[i]
		if edge.Target != nodeID {
			continue
		}
		if handleInputName(edge.TargetHandle) == inputName {
			out = append(out, edge.Source)
		}
	}
	return out
}

// Sources returns the ordered list of nodes feeding a node.
func (c *Context) Sources(nodeID string) []string {
	if c.Graph == nil {
		return nil
	}
	var out []string
	for i := range c.Graph.Edges {
		edge := &c.Graph.Edges[i]
		if edge.Target == nodeID && c.Graph.Has(edge.Source) {
			out = append(out, edge.Source)
		}
	}
	return out
}

// Targets returns the ordered list of nodes fed by a node.
func (c *Context) Targets(nodeID string) []string {
	if c.Graph == nil {
		return nil
	}
	var out []string
	for i := range c.Graph.Edges {
		edge := &c.Graph.Edges[i]
		if edge.Source == nodeID && c.Graph.Has(edge.Target) {
			out = append(out, edge.Target)
		}
	}
	return out
}

func handleInputName(handle string) string {
	parts := strings.SplitN(handle, "-input-", 2)
	if len(parts) != 2 {
		return ""
	}
	rest := parts[1]
	if idx := strings.IndexByte(rest, '-'); idx >= 0 {
		return rest[:idx]
	}
	return rest
}

func sanitizeIdent(base string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(base) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" {
		return "node"
	}
	runes := []rune(out)
	if unicode.IsDigit(runes[0]) {
		return "_" + out
	}
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
