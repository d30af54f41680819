// File path: internal/converter/memory.go
package converter

import (
	"fmt"

	"github.com/nicodishanthj/flowlang/internal/ir"
	"github.com/nicodishanthj/flowlang/internal/schema"
)

type memoryConverter struct {
	typeName string
	tsClass  string
	pyClass  string
	windowed bool
}

func memoryConverters() []Converter {
	return []Converter{
		&memoryConverter{typeName: "bufferMemory", tsClass: "BufferMemory", pyClass: "ConversationBufferMemory"},
		&memoryConverter{typeName: "bufferWindowMemory", tsClass: "BufferWindowMemory", pyClass: "ConversationBufferWindowMemory", windowed: true},
	}
}

func (c *memoryConverter) NodeTypes() []string { return []string{c.typeName} }

func (c *memoryConverter) Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error) {
	name := gctx.EnsureVar(node.ID, c.typeName)
	memoryKey := inputOr(node, "memoryKey", "chat_history")

	if gctx.Target == ir.TargetPython {
		args := fmt.Sprintf("memory_key=\"%s\"", escapeString(memoryKey))
		if c.windowed {
			args += fmt.Sprintf(", k=%s", formatNumber(numberOr(node, "k", 4)))
		}
		return []ir.Fragment{
			importPy("langchain.memory", c.pyClass),
			initFragment(0, fmt.Sprintf("%s = %s(%s)", name, c.pyClass, args)),
		}, nil
	}

	args := fmt.Sprintf("memoryKey: \"%s\"", escapeString(memoryKey))
	if c.windowed {
		args += fmt.Sprintf(", k: %s", formatNumber(numberOr(node, "k", 4)))
	}
	return []ir.Fragment{
		importTS("langchain/memory", c.tsClass),
		initFragment(0, fmt.Sprintf("const %s = new %s({ %s });", name, c.tsClass, args)),
	}, nil
}

func (c *memoryConverter) Dependencies(node *schema.Node, gctx *ir.Context) []string {
	return []string{"langchain"}
}
