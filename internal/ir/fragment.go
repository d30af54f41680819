// File path: internal/ir/fragment.go
package ir

import (
	"sort"
	"strings"
)

// Kind classifies the structural role of a fragment. Within a node's
// own output, fragments are ordered import, declaration, setup,
// initialization, postInit.
type Kind string

const (
	KindImport         Kind = "import"
	KindDeclaration    Kind = "declaration"
	KindSetup          Kind = "setup"
	KindInitialization Kind = "initialization"
	KindPostInit       Kind = "postInit"
)

var kindRank = map[Kind]int{
	KindImport:         0,
	KindDeclaration:    1,
	KindSetup:          2,
	KindInitialization: 3,
	KindPostInit:       4,
}

// Rank returns the sort position of a kind. Unknown kinds sort last.
func (k Kind) Rank() int {
	if r, ok := kindRank[k]; ok {
		return r
	}
	return len(kindRank)
}

// Target selects the language the emitter will render fragments into.
type Target string

const (
	TargetTypeScript Target = "typescript"
	TargetPython     Target = "python"
)

// Fragment is one opaque, ordered unit of generated source text.
// Import fragments additionally carry the module path and imported
// symbols so identical imports from different nodes can be merged.
// SourceNodeID is a plain back-reference used only for attribution.
type Fragment struct {
	ID           string   `json:"id"`
	Kind         Kind     `json:"kind"`
	Content      string   `json:"content"`
	Module       string   `json:"module,omitempty"`
	Symbols      []string `json:"symbols,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	SourceNodeID string   `json:"source_node_id,omitempty"`
	Order        int      `json:"order"`
}

// importKey is the exact-match identity used for import merging. Two
// imports merge only when module and symbol set are identical;
// partial overlaps stay separate for the emitter to coalesce.
func (f *Fragment) importKey() string {
	if f.Kind != KindImport {
		return ""
	}
	if f.Module == "" && len(f.Symbols) == 0 {
		return "content\x00" + f.Content
	}
	symbols := append([]string(nil), f.Symbols...)
	sort.Strings(symbols)
	return f.Module + "\x00" + strings.Join(symbols, ",")
}
