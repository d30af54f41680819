// File path: internal/converter/chains.go
package converter

import (
	"fmt"

	"github.com/nicodishanthj/flowlang/internal/ir"
	"github.com/nicodishanthj/flowlang/internal/schema"
)

func chainConverters() []Converter {
	return []Converter{
		llmChainConverter{},
		conversationChainConverter{},
		retrievalQAChainConverter{},
	}
}

type llmChainConverter struct{}

func (llmChainConverter) NodeTypes() []string { return []string{"llmChain"} }

func (llmChainConverter) Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error) {
	name := gctx.EnsureVar(node.ID, "llmChain")
	model, err := requireInput(gctx, node, "model")
	if err != nil {
		return nil, err
	}
	prompt, promptWired := inputVar(gctx, node, "prompt")

	if gctx.Target == ir.TargetPython {
		fragments := []ir.Fragment{importPy("langchain.chains", "LLMChain")}
		if promptWired {
			fragments = append(fragments, initFragment(0,
				fmt.Sprintf("%s = LLMChain(llm=%s, prompt=%s)", name, model, prompt)))
		} else {
			fragments = append(fragments, initFragment(0,
				fmt.Sprintf("%s = LLMChain(llm=%s)", name, model)))
		}
		return fragments, nil
	}

	fragments := []ir.Fragment{importTS("langchain/chains", "LLMChain")}
	if promptWired {
		fragments = append(fragments, initFragment(0,
			fmt.Sprintf("const %s = new LLMChain({ llm: %s, prompt: %s });", name, model, prompt)))
	} else {
		fragments = append(fragments, initFragment(0,
			fmt.Sprintf("const %s = new LLMChain({ llm: %s });", name, model)))
	}
	return fragments, nil
}

func (llmChainConverter) Dependencies(node *schema.Node, gctx *ir.Context) []string {
	return chainDeps(gctx)
}

type conversationChainConverter struct{}

func (conversationChainConverter) NodeTypes() []string { return []string{"conversationChain"} }

func (conversationChainConverter) Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error) {
	name := gctx.EnsureVar(node.ID, "conversationChain")
	model, err := requireInput(gctx, node, "model")
	if err != nil {
		return nil, err
	}
	memory, memoryWired := inputVar(gctx, node, "memory")

	if gctx.Target == ir.TargetPython {
		fragments := []ir.Fragment{importPy("langchain.chains", "ConversationChain")}
		if memoryWired {
			fragments = append(fragments, initFragment(0,
				fmt.Sprintf("%s = ConversationChain(llm=%s, memory=%s)", name, model, memory)))
		} else {
			fragments = append(fragments, initFragment(0,
				fmt.Sprintf("%s = ConversationChain(llm=%s)", name, model)))
		}
		return fragments, nil
	}

	fragments := []ir.Fragment{importTS("langchain/chains", "ConversationChain")}
	if memoryWired {
		fragments = append(fragments, initFragment(0,
			fmt.Sprintf("const %s = new ConversationChain({ llm: %s, memory: %s });", name, model, memory)))
	} else {
		fragments = append(fragments, initFragment(0,
			fmt.Sprintf("const %s = new ConversationChain({ llm: %s });", name, model)))
	}
	return fragments, nil
}

func (conversationChainConverter) Dependencies(node *schema.Node, gctx *ir.Context) []string {
	return chainDeps(gctx)
}

type retrievalQAChainConverter struct{}

func (retrievalQAChainConverter) NodeTypes() []string { return []string{"retrievalQAChain"} }

func (retrievalQAChainConverter) Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error) {
	name := gctx.EnsureVar(node.ID, "retrievalQAChain")
	model, err := requireInput(gctx, node, "model")
	if err != nil {
		return nil, err
	}
	store, err := requireInput(gctx, node, "vectorStoreRetriever")
	if err != nil {
		return nil, err
	}

	if gctx.Target == ir.TargetPython {
		return []ir.Fragment{
			importPy("langchain.chains", "RetrievalQA"),
			initFragment(0, fmt.Sprintf(
				"%s = RetrievalQA.from_chain_type(llm=%s, retriever=%s.as_retriever())",
				name, model, store)),
		}, nil
	}
	return []ir.Fragment{
		importTS("langchain/chains", "RetrievalQAChain"),
		initFragment(0, fmt.Sprintf(
			"const %s = RetrievalQAChain.fromLLM(%s, %s.asRetriever());",
			name, model, store)),
	}, nil
}

func (retrievalQAChainConverter) Dependencies(node *schema.Node, gctx *ir.Context) []string {
	return chainDeps(gctx)
}

// The classic chain classes live in the main langchain package for
// both targets.
func chainDeps(gctx *ir.Context) []string {
	return []string{"langchain"}
}
