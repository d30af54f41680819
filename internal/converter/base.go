// File path: internal/converter/base.go
package converter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nicodishanthj/flowlang/internal/ir"
	"github.com/nicodishanthj/flowlang/internal/schema"
)

// inputOr reads a string parameter from the node's input record,
// falling back to a default when absent or empty.
func inputOr(node *schema.Node, key, fallback string) string {
	if value, ok := node.InputValue(key); ok {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

// inputVar resolves the variable name of the node feeding the named
// input. When the document carries no handle metadata and exactly one
// node feeds this one, that single source is used.
func inputVar(gctx *ir.Context, node *schema.Node, name string) (string, bool) {
	if src, ok := gctx.SourceFor(node.ID, name); ok {
		if v, ok := gctx.VarFor(src); ok {
			return v, true
		}
	}
	sources := gctx.Sources(node.ID)
	if len(sources) == 1 {
		if v, ok := gctx.VarFor(sources[0]); ok {
			return v, true
		}
	}
	return "", false
}

// requireInput is inputVar with a descriptive error for converters
// whose output is meaningless without the wired dependency.
func requireInput(gctx *ir.Context, node *schema.Node, name string) (string, error) {
	v, ok := inputVar(gctx, node, name)
	if !ok {
		return "", fmt.Errorf("node %q requires a %s input", node.ID, name)
	}
	return v, nil
}

// escapeString makes a parameter value safe inside a double-quoted
// literal in either target language.
func escapeString(value string) string {
	quoted := strconv.Quote(value)
	return quoted[1 : len(quoted)-1]
}

func importTS(module string, symbols ...string) ir.Fragment {
	return ir.Fragment{
		Kind:    ir.KindImport,
		Module:  module,
		Symbols: symbols,
		Content: fmt.Sprintf("import { %s } from %q;", strings.Join(symbols, ", "), module),
	}
}

func importPy(module string, symbols ...string) ir.Fragment {
	return ir.Fragment{
		Kind:    ir.KindImport,
		Module:  module,
		Symbols: symbols,
		Content: fmt.Sprintf("from %s import %s", module, strings.Join(symbols, ", ")),
	}
}

func initFragment(order int, content string) ir.Fragment {
	return ir.Fragment{Kind: ir.KindInitialization, Order: order, Content: content}
}

func setupFragment(order int, content string) ir.Fragment {
	return ir.Fragment{Kind: ir.KindSetup, Order: order, Content: content}
}

func postInitFragment(order int, content string) ir.Fragment {
	return ir.Fragment{Kind: ir.KindPostInit, Order: order, Content: content}
}

func declFragment(order int, content string) ir.Fragment {
	return ir.Fragment{Kind: ir.KindDeclaration, Order: order, Content: content}
}

// numberOr parses a numeric parameter, falling back when the value is
// absent or not a number.
func numberOr(node *schema.Node, key string, fallback float64) float64 {
	value, ok := node.InputValue(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
