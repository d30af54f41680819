// File path: internal/converter/prompts.go
package converter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nicodishanthj/flowlang/internal/ir"
	"github.com/nicodishanthj/flowlang/internal/schema"
)

func promptConverters() []Converter {
	return []Converter{
		promptTemplateConverter{},
		chatPromptTemplateConverter{},
		fewShotPromptTemplateConverter{},
	}
}

type promptTemplateConverter struct{}

func (promptTemplateConverter) NodeTypes() []string { return []string{"promptTemplate"} }

func (promptTemplateConverter) Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error) {
	name := gctx.EnsureVar(node.ID, "promptTemplate")
	template := inputOr(node, "template", "{input}")

	if gctx.Target == ir.TargetPython {
		return []ir.Fragment{
			importPy("langchain_core.prompts", "PromptTemplate"),
			initFragment(0, fmt.Sprintf("%s = PromptTemplate.from_template(\"%s\")",
				name, escapeString(template))),
		}, nil
	}
	return []ir.Fragment{
		importTS("@langchain/core/prompts", "PromptTemplate"),
		initFragment(0, fmt.Sprintf("const %s = PromptTemplate.fromTemplate(\"%s\");",
			name, escapeString(template))),
	}, nil
}

func (promptTemplateConverter) Dependencies(node *schema.Node, gctx *ir.Context) []string {
	if gctx.Target == ir.TargetPython {
		return []string{"langchain-core"}
	}
	return []string{"@langchain/core"}
}

type chatPromptTemplateConverter struct{}

func (chatPromptTemplateConverter) NodeTypes() []string { return []string{"chatPromptTemplate"} }

func (chatPromptTemplateConverter) Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error) {
	name := gctx.EnsureVar(node.ID, "chatPromptTemplate")
	system := inputOr(node, "systemMessagePrompt", "You are a helpful assistant.")
	human := inputOr(node, "humanMessagePrompt", "{input}")

	if gctx.Target == ir.TargetPython {
		return []ir.Fragment{
			importPy("langchain_core.prompts", "ChatPromptTemplate"),
			initFragment(0, fmt.Sprintf(
				"%s = ChatPromptTemplate.from_messages([\n    (\"system\", \"%s\"),\n    (\"human\", \"%s\"),\n])",
				name, escapeString(system), escapeString(human))),
		}, nil
	}
	return []ir.Fragment{
		importTS("@langchain/core/prompts", "ChatPromptTemplate"),
		initFragment(0, fmt.Sprintf(
			"const %s = ChatPromptTemplate.fromMessages([\n  [\"system\", \"%s\"],\n  [\"human\", \"%s\"],\n]);",
			name, escapeString(system), escapeString(human))),
	}, nil
}

func (chatPromptTemplateConverter) Dependencies(node *schema.Node, gctx *ir.Context) []string {
	if gctx.Target == ir.TargetPython {
		return []string{"langchain-core"}
	}
	return []string{"@langchain/core"}
}

type fewShotPromptTemplateConverter struct{}

func (fewShotPromptTemplateConverter) NodeTypes() []string { return []string{"fewShotPromptTemplate"} }

func (fewShotPromptTemplateConverter) Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error) {
	name := gctx.EnsureVar(node.ID, "fewShotPrompt")
	prefix := inputOr(node, "prefix", "Give the antonym of every input.")
	suffix := inputOr(node, "suffix", "Input: {input}\nOutput:")
	template := inputOr(node, "template", "Input: {input}\nOutput: {output}")
	examples := exampleLiteral(node)

	if gctx.Target == ir.TargetPython {
		return []ir.Fragment{
			importPy("langchain_core.prompts", "FewShotPromptTemplate", "PromptTemplate"),
			setupFragment(0, fmt.Sprintf("%s_examples = %s", name, examples)),
			initFragment(0, fmt.Sprintf(
				"%s = FewShotPromptTemplate(\n    examples=%s_examples,\n    example_prompt=PromptTemplate.from_template(\"%s\"),\n    prefix=\"%s\",\n    suffix=\"%s\",\n    input_variables=[\"input\"],\n)",
				name, name, escapeString(template), escapeString(prefix), escapeString(suffix))),
		}, nil
	}
	return []ir.Fragment{
		importTS("@langchain/core/prompts", "FewShotPromptTemplate", "PromptTemplate"),
		setupFragment(0, fmt.Sprintf("const %sExamples = %s;", name, examples)),
		initFragment(0, fmt.Sprintf(
			"const %s = new FewShotPromptTemplate({\n  examples: %sExamples,\n  examplePrompt: PromptTemplate.fromTemplate(\"%s\"),\n  prefix: \"%s\",\n  suffix: \"%s\",\n  inputVariables: [\"input\"],\n});",
			name, name, escapeString(template), escapeString(prefix), escapeString(suffix))),
	}, nil
}

func (fewShotPromptTemplateConverter) Dependencies(node *schema.Node, gctx *ir.Context) []string {
	if gctx.Target == ir.TargetPython {
		return []string{"langchain-core"}
	}
	return []string{"@langchain/core"}
}

// exampleLiteral returns the examples input verbatim when it is a JSON
// array, which is literal syntax in both targets. Anything else falls
// back to a minimal placeholder pair.
func exampleLiteral(node *schema.Node) string {
	if raw, ok := node.InputValue("examples"); ok {
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "[") && json.Valid([]byte(trimmed)) {
			return trimmed
		}
	}
	return `[{"input": "happy", "output": "sad"}]`
}
