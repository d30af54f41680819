// File path: internal/converter/registry.go
package converter

import (
	"sort"
	"strings"
	"sync"

	"github.com/nicodishanthj/flowlang/internal/ir"
	"github.com/nicodishanthj/flowlang/internal/schema"
)

// Converter produces code fragments for one or more node types. Most
// converters serve a single type; NodeTypes is a list so editor-side
// aliases of the same node can share an implementation.
type Converter interface {
	NodeTypes() []string
	Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error)
	Dependencies(node *schema.Node, gctx *ir.Context) []string
}

// Registry maps node types to converters. It is populated once at
// startup and read-only afterwards, so concurrent assembly runs can
// share one instance.
type Registry struct {
	mu         sync.RWMutex
	converters map[string]Converter
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{converters: make(map[string]Converter)}
}

// Default returns a registry with every built-in converter installed.
func Default() *Registry {
	reg := NewRegistry()
	for _, c := range builtinConverters() {
		reg.Register(c)
	}
	return reg
}

// Register installs a converter under each of its declared types.
// Later registrations replace earlier ones, which lets embedders
// override built-ins.
func (r *Registry) Register(c Converter) {
	if c == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, typ := range c.NodeTypes() {
		key := strings.TrimSpace(typ)
		if key == "" {
			continue
		}
		r.converters[key] = c
	}
}

// Resolve satisfies ir.Resolver.
func (r *Registry) Resolve(nodeType string) (ir.Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.converters[strings.TrimSpace(nodeType)]
	if !ok {
		return nil, false
	}
	return c, true
}

// Known reports whether a converter is registered for the type.
func (r *Registry) Known(nodeType string) bool {
	_, ok := r.Resolve(nodeType)
	return ok
}

// Types returns the registered node types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.converters))
	for key := range r.converters {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered converters.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.converters)
}

func builtinConverters() []Converter {
	var out []Converter
	out = append(out, llmConverters()...)
	out = append(out, promptConverters()...)
	out = append(out, chainConverters()...)
	out = append(out, memoryConverters()...)
	out = append(out, retrievalConverters()...)
	out = append(out, outputParserConverters()...)
	out = append(out, agentConverters()...)
	return out
}
