// File path: internal/converter/llm.go
package converter

import (
	"fmt"

	"github.com/nicodishanthj/flowlang/internal/ir"
	"github.com/nicodishanthj/flowlang/internal/schema"
)

// llmConverter covers the chat and completion model nodes. The
// models only differ by class and package, so one parameterized
// converter serves them all.
type llmConverter struct {
	typeName     string
	aliases      []string
	tsModule     string
	tsClass      string
	tsDep        string
	pyModule     string
	pyClass      string
	pyDep        string
	defaultModel string
}

func llmConverters() []Converter {
	return []Converter{
		&llmConverter{
			typeName: "chatOpenAI",
			tsModule: "@langchain/openai", tsClass: "ChatOpenAI", tsDep: "@langchain/openai",
			pyModule: "langchain_openai", pyClass: "ChatOpenAI", pyDep: "langchain-openai",
			defaultModel: "gpt-4o-mini",
		},
		&llmConverter{
			typeName: "openAI",
			tsModule: "@langchain/openai", tsClass: "OpenAI", tsDep: "@langchain/openai",
			pyModule: "langchain_openai", pyClass: "OpenAI", pyDep: "langchain-openai",
			defaultModel: "gpt-3.5-turbo-instruct",
		},
		&llmConverter{
			typeName: "chatAnthropic",
			tsModule: "@langchain/anthropic", tsClass: "ChatAnthropic", tsDep: "@langchain/anthropic",
			pyModule: "langchain_anthropic", pyClass: "ChatAnthropic", pyDep: "langchain-anthropic",
			defaultModel: "claude-3-5-sonnet-latest",
		},
		&llmConverter{
			typeName: "chatOllama", aliases: []string{"ollama"},
			tsModule: "@langchain/ollama", tsClass: "ChatOllama", tsDep: "@langchain/ollama",
			pyModule: "langchain_ollama", pyClass: "ChatOllama", pyDep: "langchain-ollama",
			defaultModel: "llama3",
		},
	}
}

func (c *llmConverter) NodeTypes() []string {
	return append([]string{c.typeName}, c.aliases...)
}

func (c *llmConverter) Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error) {
	name := gctx.EnsureVar(node.ID, c.typeName)
	model := inputOr(node, "modelName", c.defaultModel)
	temperature := formatNumber(numberOr(node, "temperature", 0.7))

	if gctx.Target == ir.TargetPython {
		return []ir.Fragment{
			importPy(c.pyModule, c.pyClass),
			initFragment(0, fmt.Sprintf("%s = %s(model=\"%s\", temperature=%s)",
				name, c.pyClass, escapeString(model), temperature)),
		}, nil
	}
	return []ir.Fragment{
		importTS(c.tsModule, c.tsClass),
		initFragment(0, fmt.Sprintf("const %s = new %s({\n  modelName: \"%s\",\n  temperature: %s,\n});",
			name, c.tsClass, escapeString(model), temperature)),
	}, nil
}

func (c *llmConverter) Dependencies(node *schema.Node, gctx *ir.Context) []string {
	if gctx.Target == ir.TargetPython {
		return []string{c.pyDep}
	}
	return []string{c.tsDep}
}
