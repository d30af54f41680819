// File path: internal/converter/outputparser.go
package converter

import (
	"fmt"

	"github.com/nicodishanthj/flowlang/internal/ir"
	"github.com/nicodishanthj/flowlang/internal/schema"
)

func outputParserConverters() []Converter {
	return []Converter{structuredOutputParserConverter{}}
}

type structuredOutputParserConverter struct{}

func (structuredOutputParserConverter) NodeTypes() []string {
	return []string{"structuredOutputParser"}
}

func (structuredOutputParserConverter) Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error) {
	name := gctx.EnsureVar(node.ID, "outputParser")
	field := inputOr(node, "schemaName", "answer")
	description := inputOr(node, "schemaDescription", "answer to the user's question")

	if gctx.Target == ir.TargetPython {
		return []ir.Fragment{
			importPy("langchain.output_parsers", "ResponseSchema", "StructuredOutputParser"),
			initFragment(0, fmt.Sprintf(
				"%s = StructuredOutputParser.from_response_schemas([\n    ResponseSchema(name=\"%s\", description=\"%s\"),\n])",
				name, escapeString(field), escapeString(description))),
		}, nil
	}
	return []ir.Fragment{
		importTS("langchain/output_parsers", "StructuredOutputParser"),
		initFragment(0, fmt.Sprintf(
			"const %s = StructuredOutputParser.fromNamesAndDescriptions({\n  %s: \"%s\",\n});",
			name, field, escapeString(description))),
	}, nil
}

// Dependencies is "langchain" in both targets: the parser lives in the
// main package on each side.
func (structuredOutputParserConverter) Dependencies(node *schema.Node, gctx *ir.Context) []string {
	return []string{"langchain"}
}
