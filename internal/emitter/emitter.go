// File path: internal/emitter/emitter.go
package emitter

import (
	"fmt"
	"strings"

	"github.com/nicodishanthj/flowlang/internal/ir"
)

// Options controls how an assembly is rendered. FlowName only feeds
// the banner comment and may be empty.
type Options struct {
	Target   ir.Target
	FlowName string
}

// Emit renders an assembly into a single source text. Fragments are
// laid out by kind: the coalesced import block, then declarations,
// then each node's setup, initialization and post-init statements in
// dependency order. Fragment contents are written verbatim.
func Emit(asm *ir.Assembly, opts Options) string {
	if asm == nil {
		return ""
	}
	target := opts.Target
	if target == "" {
		target = ir.TargetTypeScript
	}

	var imports, decls, body []ir.Fragment
	for _, f := range asm.Fragments {
		switch f.Kind {
		case ir.KindImport:
			imports = append(imports, f)
		case ir.KindDeclaration:
			decls = append(decls, f)
		default:
			body = append(body, f)
		}
	}

	var b strings.Builder
	writeBanner(&b, target, opts.FlowName)

	if block := renderImports(imports, target); block != "" {
		b.WriteString(block)
	}

	for _, f := range decls {
		b.WriteString("\n")
		b.WriteString(f.Content)
		b.WriteString("\n")
	}

	lastNode := ""
	for _, f := range body {
		if f.SourceNodeID != lastNode {
			b.WriteString("\n")
			lastNode = f.SourceNodeID
		}
		b.WriteString(f.Content)
		b.WriteString("\n")
	}

	if usesStateGraph(imports, target) {
		if target == ir.TargetPython {
			b.WriteString("\napp = workflow.compile()\n")
		} else {
			b.WriteString("\nconst app = workflow.compile();\n")
		}
	}

	return b.String()
}

// Extension returns the source file extension for a target.
func Extension(target ir.Target) string {
	if target == ir.TargetPython {
		return ".py"
	}
	return ".ts"
}

// Dependencies renders the package list in the target ecosystem's
// native format: a package.json dependencies object for TypeScript, a
// requirements list for Python.
func Dependencies(deps []string, target ir.Target) string {
	if target == ir.TargetPython {
		if len(deps) == 0 {
			return ""
		}
		return strings.Join(deps, "\n") + "\n"
	}
	var b strings.Builder
	b.WriteString("{\n  \"dependencies\": {\n")
	for i, dep := range deps {
		fmt.Fprintf(&b, "    %q: \"latest\"", dep)
		if i < len(deps)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("  }\n}\n")
	return b.String()
}

func writeBanner(b *strings.Builder, target ir.Target, flowName string) {
	marker := "//"
	if target == ir.TargetPython {
		marker = "#"
	}
	if flowName != "" {
		fmt.Fprintf(b, "%s Generated by flowlang from %s. Do not edit by hand.\n", marker, flowName)
	} else {
		fmt.Fprintf(b, "%s Generated by flowlang. Do not edit by hand.\n", marker)
	}
}

// renderImports merges imports that share a module into one statement
// where the statement shape allows it, and writes everything else
// verbatim. First use fixes the module order.
func renderImports(imports []ir.Fragment, target ir.Target) string {
	if len(imports) == 0 {
		return ""
	}
	type group struct {
		module      string
		symbols     []string
		seen        map[string]bool
		contents    []string
		rebuildable bool
	}
	var order []string
	groups := make(map[string]*group)

	for _, f := range imports {
		key := f.Module
		if key == "" {
			key = "\x00" + f.Content
		}
		g, ok := groups[key]
		if !ok {
			g = &group{module: f.Module, seen: make(map[string]bool), rebuildable: true}
			groups[key] = g
			order = append(order, key)
		}
		if !mergeable(f, target) {
			g.rebuildable = false
		}
		g.contents = append(g.contents, f.Content)
		for _, s := range f.Symbols {
			if !g.seen[s] {
				g.seen[s] = true
				g.symbols = append(g.symbols, s)
			}
		}
	}

	var b strings.Builder
	for _, key := range order {
		g := groups[key]
		if g.rebuildable && g.module != "" && len(g.symbols) > 0 {
			if target == ir.TargetPython {
				fmt.Fprintf(&b, "from %s import %s\n", g.module, strings.Join(g.symbols, ", "))
			} else {
				fmt.Fprintf(&b, "import { %s } from %q;\n", strings.Join(g.symbols, ", "), g.module)
			}
			continue
		}
		written := make(map[string]bool)
		for _, content := range g.contents {
			if written[content] {
				continue
			}
			written[content] = true
			b.WriteString(content)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// mergeable reports whether an import statement follows the standard
// shape that renderImports knows how to rebuild from module and
// symbols alone.
func mergeable(f ir.Fragment, target ir.Target) bool {
	if f.Module == "" || len(f.Symbols) == 0 {
		return false
	}
	if target == ir.TargetPython {
		return strings.HasPrefix(f.Content, "from ")
	}
	return strings.HasPrefix(f.Content, "import {")
}

func usesStateGraph(imports []ir.Fragment, target ir.Target) bool {
	module := "@langchain/langgraph"
	if target == ir.TargetPython {
		module = "langgraph.graph"
	}
	for _, f := range imports {
		if f.Module == module {
			for _, s := range f.Symbols {
				if s == "StateGraph" {
					return true
				}
			}
		}
	}
	return false
}
