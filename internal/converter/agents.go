// File path: internal/converter/agents.go
package converter

import (
	"fmt"
	"strings"

	"github.com/nicodishanthj/flowlang/internal/diag"
	"github.com/nicodishanthj/flowlang/internal/ir"
	"github.com/nicodishanthj/flowlang/internal/schema"
)

func agentConverters() []Converter {
	return []Converter{
		&toolConverter{typeName: "serpAPI", tsModule: "@langchain/community/tools/serpapi", tsClass: "SerpAPI"},
		&toolConverter{typeName: "calculator", tsModule: "@langchain/community/tools/calculator", tsClass: "Calculator"},
		&executorAgentConverter{typeName: "toolAgent", agentTypeTS: "openai-functions", agentTypePy: "OPENAI_FUNCTIONS"},
		&executorAgentConverter{typeName: "openAIFunctionsAgent", agentTypeTS: "openai-functions", agentTypePy: "OPENAI_FUNCTIONS"},
		&executorAgentConverter{typeName: "conversationalAgent", agentTypeTS: "chat-conversational-react-description", agentTypePy: "CHAT_CONVERSATIONAL_REACT_DESCRIPTION", withMemory: true},
		seqAgentConverter{},
		conditionAgentConverter{},
		loopAgentConverter{},
		agentMemoryConverter{},
		humanInputConverter{},
		executeFlowConverter{},
	}
}

// graphNodeTypes are the node types that become vertices of the
// generated state graph. agentMemory is deliberately absent: it is a
// checkpointer, not a vertex.
var graphNodeTypes = map[string]bool{
	"seqAgent":       true,
	"conditionAgent": true,
	"loopAgent":      true,
	"humanInput":     true,
	"executeFlow":    true,
}

// statePrelude emits the shared state graph declaration exactly once
// per run, from whichever graph node converts first.
func statePrelude(gctx *ir.Context) []ir.Fragment {
	if !gctx.Once("state-graph") {
		return nil
	}
	gctx.EnsureVar("__workflow__", "workflow")
	if gctx.Target == ir.TargetPython {
		return []ir.Fragment{
			importPy("langgraph.graph", "StateGraph", "MessagesState", "START", "END"),
			declFragment(-1, "workflow = StateGraph(MessagesState)"),
		}
	}
	return []ir.Fragment{
		importTS("@langchain/langgraph", "StateGraph", "MessagesAnnotation", "START", "END"),
		declFragment(-1, "const workflow = new StateGraph(MessagesAnnotation);"),
	}
}

// graphSources returns the upstream nodes that are graph vertices,
// with variable names pre-assigned so edges can reference them.
func graphSources(gctx *ir.Context, node *schema.Node) []string {
	var out []string
	for _, src := range gctx.Sources(node.ID) {
		source := gctx.Graph.Node(src)
		if source == nil || !graphNodeTypes[source.EffectiveType()] {
			continue
		}
		out = append(out, gctx.EnsureVar(src, source.EffectiveType()))
	}
	return out
}

// graphTargets mirrors graphSources for downstream vertices. Targets
// convert later in topological order, so their names are reserved
// here and reused when their own converter runs.
func graphTargets(gctx *ir.Context, node *schema.Node) []string {
	var out []string
	for _, dst := range gctx.Targets(node.ID) {
		target := gctx.Graph.Node(dst)
		if target == nil || !graphNodeTypes[target.EffectiveType()] {
			continue
		}
		out = append(out, gctx.EnsureVar(dst, target.EffectiveType()))
	}
	return out
}

// incomingEdgeFragments wires a vertex to its upstream vertices, or
// to the graph entry when it has none.
func incomingEdgeFragments(gctx *ir.Context, node *schema.Node, name string, order int) []ir.Fragment {
	addEdge, terminator := "workflow.addEdge", ";"
	if gctx.Target == ir.TargetPython {
		addEdge, terminator = "workflow.add_edge", ""
	}
	sources := graphSources(gctx, node)
	if len(sources) == 0 {
		return []ir.Fragment{initFragment(order, fmt.Sprintf("%s(START, %q)%s", addEdge, name, terminator))}
	}
	var out []ir.Fragment
	for i, src := range sources {
		out = append(out, initFragment(order+i, fmt.Sprintf("%s(%q, %q)%s", addEdge, src, name, terminator)))
	}
	return out
}

type toolConverter struct {
	typeName string
	tsModule string
	tsClass  string
}

func (c *toolConverter) NodeTypes() []string { return []string{c.typeName} }

func (c *toolConverter) Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error) {
	name := gctx.EnsureVar(node.ID, c.typeName)
	if gctx.Target == ir.TargetPython {
		if c.typeName == "serpAPI" {
			return []ir.Fragment{
				importPy("langchain_community.utilities", "SerpAPIWrapper"),
				importPy("langchain_core.tools", "Tool"),
				initFragment(0, fmt.Sprintf(
					"%s = Tool(name=\"search\", func=SerpAPIWrapper().run, description=\"Searches the web.\")", name)),
			}, nil
		}
		return []ir.Fragment{
			importPy("langchain_core.tools", "Tool"),
			importPy("numexpr", "evaluate"),
			initFragment(0, fmt.Sprintf(
				"%s = Tool(name=\"calculator\", func=lambda expression: str(evaluate(expression)), description=\"Evaluates arithmetic expressions.\")", name)),
		}, nil
	}
	return []ir.Fragment{
		importTS(c.tsModule, c.tsClass),
		initFragment(0, fmt.Sprintf("const %s = new %s();", name, c.tsClass)),
	}, nil
}

func (c *toolConverter) Dependencies(node *schema.Node, gctx *ir.Context) []string {
	if gctx.Target == ir.TargetPython {
		if c.typeName == "calculator" {
			return []string{"langchain-core", "numexpr"}
		}
		return []string{"langchain-community", "google-search-results"}
	}
	return []string{"@langchain/community"}
}

// executorAgentConverter covers the executor-style agents. They share
// the tool collection logic and differ only in the agent type constant
// and whether a memory input is honored.
type executorAgentConverter struct {
	typeName    string
	agentTypeTS string
	agentTypePy string
	withMemory  bool
}

func (c *executorAgentConverter) NodeTypes() []string { return []string{c.typeName} }

func (c *executorAgentConverter) Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error) {
	name := gctx.EnsureVar(node.ID, c.typeName)
	model, err := requireInput(gctx, node, "model")
	if err != nil {
		return nil, err
	}

	memory := ""
	if c.withMemory {
		if src, ok := gctx.SourceFor(node.ID, "memory"); ok {
			memory, _ = gctx.VarFor(src)
		}
	}

	var tools []string
	for _, src := range gctx.SourcesFor(node.ID, "tools") {
		if v, ok := gctx.VarFor(src); ok {
			tools = append(tools, v)
		}
	}
	if len(tools) == 0 {
		modelSource, _ := gctx.SourceFor(node.ID, "model")
		memorySource, _ := gctx.SourceFor(node.ID, "memory")
		for _, src := range gctx.Sources(node.ID) {
			if src == modelSource || src == memorySource {
				continue
			}
			if v, ok := gctx.VarFor(src); ok {
				tools = append(tools, v)
			}
		}
	}
	if len(tools) == 0 {
		issue := diag.New(diag.KindStructure, diag.CodeFallbackApplied,
			fmt.Sprintf("agent %q has no tools wired and will answer from the model alone", node.ID))
		issue.NodeID = node.ID
		gctx.Warn(issue)
	}
	toolList := strings.Join(tools, ", ")

	if gctx.Target == ir.TargetPython {
		args := fmt.Sprintf("[%s], %s, agent=AgentType.%s", toolList, model, c.agentTypePy)
		if memory != "" {
			args += ", memory=" + memory
		}
		return []ir.Fragment{
			importPy("langchain.agents", "AgentType", "initialize_agent"),
			initFragment(0, fmt.Sprintf("%s = initialize_agent(%s)", name, args)),
		}, nil
	}

	opts := fmt.Sprintf("  agentType: %q,", c.agentTypeTS)
	if memory != "" {
		opts += fmt.Sprintf("\n  memory: %s,", memory)
	}
	return []ir.Fragment{
		importTS("langchain/agents", "initializeAgentExecutorWithOptions"),
		initFragment(0, fmt.Sprintf(
			"const %s = await initializeAgentExecutorWithOptions([%s], %s, {\n%s\n});",
			name, toolList, model, opts)),
	}, nil
}

func (c *executorAgentConverter) Dependencies(node *schema.Node, gctx *ir.Context) []string {
	return []string{"langchain"}
}

type seqAgentConverter struct{}

func (seqAgentConverter) NodeTypes() []string { return []string{"seqAgent"} }

func (seqAgentConverter) Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error) {
	name := gctx.EnsureVar(node.ID, "seqAgent")
	model, err := requireInput(gctx, node, "model")
	if err != nil {
		return nil, err
	}
	fragments := statePrelude(gctx)

	if gctx.Target == ir.TargetPython {
		fragments = append(fragments, declFragment(0, fmt.Sprintf(
			"def %s_node(state):\n    response = %s.invoke(state[\"messages\"])\n    return {\"messages\": [response]}",
			name, model)))
		fragments = append(fragments, initFragment(0, fmt.Sprintf(
			"workflow.add_node(%q, %s_node)", name, name)))
		fragments = append(fragments, incomingEdgeFragments(gctx, node, name, 1)...)
		return fragments, nil
	}

	fragments = append(fragments, declFragment(0, fmt.Sprintf(
		"const %sNode = async (state) => {\n  const response = await %s.invoke(state.messages);\n  return { messages: [response] };\n};",
		name, model)))
	fragments = append(fragments, initFragment(0, fmt.Sprintf(
		"workflow.addNode(%q, %sNode);", name, name)))
	fragments = append(fragments, incomingEdgeFragments(gctx, node, name, 1)...)
	return fragments, nil
}

func (seqAgentConverter) Dependencies(node *schema.Node, gctx *ir.Context) []string {
	return stateGraphDeps(gctx)
}

type conditionAgentConverter struct{}

func (conditionAgentConverter) NodeTypes() []string { return []string{"conditionAgent"} }

func (conditionAgentConverter) Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error) {
	name := gctx.EnsureVar(node.ID, "conditionAgent")
	keyword := inputOr(node, "condition", "yes")
	targets := graphTargets(gctx, node)
	thenBranch := "END"
	elseBranch := "END"
	if len(targets) > 0 {
		thenBranch = fmt.Sprintf("%q", targets[0])
	}
	if len(targets) > 1 {
		elseBranch = fmt.Sprintf("%q", targets[1])
	}
	fragments := statePrelude(gctx)

	if gctx.Target == ir.TargetPython {
		fragments = append(fragments, declFragment(0, fmt.Sprintf(
			"def %s_router(state):\n    last = state[\"messages\"][-1]\n    return %s if \"%s\" in str(last.content) else %s",
			name, thenBranch, escapeString(keyword), elseBranch)))
		fragments = append(fragments, declFragment(1, fmt.Sprintf(
			"def %s_node(state):\n    return {\"messages\": state[\"messages\"]}", name)))
		fragments = append(fragments, initFragment(0, fmt.Sprintf(
			"workflow.add_node(%q, %s_node)", name, name)))
		fragments = append(fragments, incomingEdgeFragments(gctx, node, name, 1)...)
		fragments = append(fragments, postInitFragment(0, fmt.Sprintf(
			"workflow.add_conditional_edges(%q, %s_router)", name, name)))
		return fragments, nil
	}

	fragments = append(fragments, declFragment(0, fmt.Sprintf(
		"const %sRouter = (state) => {\n  const last = state.messages[state.messages.length - 1];\n  return String(last.content).includes(\"%s\") ? %s : %s;\n};",
		name, escapeString(keyword), thenBranch, elseBranch)))
	fragments = append(fragments, declFragment(1, fmt.Sprintf(
		"const %sNode = (state) => ({ messages: state.messages });", name)))
	fragments = append(fragments, initFragment(0, fmt.Sprintf(
		"workflow.addNode(%q, %sNode);", name, name)))
	fragments = append(fragments, incomingEdgeFragments(gctx, node, name, 1)...)
	fragments = append(fragments, postInitFragment(0, fmt.Sprintf(
		"workflow.addConditionalEdges(%q, %sRouter);", name, name)))
	return fragments, nil
}

func (conditionAgentConverter) Dependencies(node *schema.Node, gctx *ir.Context) []string {
	return stateGraphDeps(gctx)
}

type loopAgentConverter struct{}

func (loopAgentConverter) NodeTypes() []string { return []string{"loopAgent"} }

func (loopAgentConverter) Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error) {
	name := gctx.EnsureVar(node.ID, "loopAgent")
	maxTurns := formatNumber(numberOr(node, "maxLoopCount", 5))
	back := "END"
	if sources := graphSources(gctx, node); len(sources) > 0 {
		back = fmt.Sprintf("%q", sources[0])
	}
	fragments := statePrelude(gctx)

	if gctx.Target == ir.TargetPython {
		fragments = append(fragments, declFragment(0, fmt.Sprintf(
			"def %s_router(state):\n    return %s if len(state[\"messages\"]) < %s else END",
			name, back, maxTurns)))
		fragments = append(fragments, declFragment(1, fmt.Sprintf(
			"def %s_node(state):\n    return {\"messages\": state[\"messages\"]}", name)))
		fragments = append(fragments, initFragment(0, fmt.Sprintf(
			"workflow.add_node(%q, %s_node)", name, name)))
		fragments = append(fragments, incomingEdgeFragments(gctx, node, name, 1)...)
		fragments = append(fragments, postInitFragment(0, fmt.Sprintf(
			"workflow.add_conditional_edges(%q, %s_router)", name, name)))
		return fragments, nil
	}

	fragments = append(fragments, declFragment(0, fmt.Sprintf(
		"const %sRouter = (state) => state.messages.length < %s ? %s : END;",
		name, maxTurns, back)))
	fragments = append(fragments, declFragment(1, fmt.Sprintf(
		"const %sNode = (state) => ({ messages: state.messages });", name)))
	fragments = append(fragments, initFragment(0, fmt.Sprintf(
		"workflow.addNode(%q, %sNode);", name, name)))
	fragments = append(fragments, incomingEdgeFragments(gctx, node, name, 1)...)
	fragments = append(fragments, postInitFragment(0, fmt.Sprintf(
		"workflow.addConditionalEdges(%q, %sRouter);", name, name)))
	return fragments, nil
}

func (loopAgentConverter) Dependencies(node *schema.Node, gctx *ir.Context) []string {
	return stateGraphDeps(gctx)
}

type agentMemoryConverter struct{}

func (agentMemoryConverter) NodeTypes() []string { return []string{"agentMemory"} }

func (agentMemoryConverter) Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error) {
	name := gctx.EnsureVar(node.ID, "agentMemory")
	if gctx.Target == ir.TargetPython {
		return []ir.Fragment{
			importPy("langgraph.checkpoint.memory", "MemorySaver"),
			initFragment(0, fmt.Sprintf("%s = MemorySaver()", name)),
		}, nil
	}
	return []ir.Fragment{
		importTS("@langchain/langgraph", "MemorySaver"),
		initFragment(0, fmt.Sprintf("const %s = new MemorySaver();", name)),
	}, nil
}

func (agentMemoryConverter) Dependencies(node *schema.Node, gctx *ir.Context) []string {
	return stateGraphDeps(gctx)
}

type humanInputConverter struct{}

func (humanInputConverter) NodeTypes() []string { return []string{"humanInput"} }

func (humanInputConverter) Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error) {
	name := gctx.EnsureVar(node.ID, "humanInput")
	prompt := inputOr(node, "description", "Provide input to continue:")
	fragments := statePrelude(gctx)

	if gctx.Target == ir.TargetPython {
		fragments = append(fragments, importPy("langgraph.types", "interrupt"))
		fragments = append(fragments, importPy("langchain_core.messages", "HumanMessage"))
		fragments = append(fragments, declFragment(0, fmt.Sprintf(
			"def %s_node(state):\n    answer = interrupt(\"%s\")\n    return {\"messages\": [HumanMessage(str(answer))]}",
			name, escapeString(prompt))))
		fragments = append(fragments, initFragment(0, fmt.Sprintf(
			"workflow.add_node(%q, %s_node)", name, name)))
		fragments = append(fragments, incomingEdgeFragments(gctx, node, name, 1)...)
		return fragments, nil
	}

	fragments = append(fragments, importTS("@langchain/langgraph", "interrupt"))
	fragments = append(fragments, importTS("@langchain/core/messages", "HumanMessage"))
	fragments = append(fragments, declFragment(0, fmt.Sprintf(
		"const %sNode = (state) => {\n  const answer = interrupt(\"%s\");\n  return { messages: [new HumanMessage(String(answer))] };\n};",
		name, escapeString(prompt))))
	fragments = append(fragments, initFragment(0, fmt.Sprintf(
		"workflow.addNode(%q, %sNode);", name, name)))
	fragments = append(fragments, incomingEdgeFragments(gctx, node, name, 1)...)
	return fragments, nil
}

func (humanInputConverter) Dependencies(node *schema.Node, gctx *ir.Context) []string {
	return stateGraphDeps(gctx)
}

type executeFlowConverter struct{}

func (executeFlowConverter) NodeTypes() []string { return []string{"executeFlow"} }

func (executeFlowConverter) Convert(node *schema.Node, gctx *ir.Context) ([]ir.Fragment, error) {
	name := gctx.EnsureVar(node.ID, "executeFlow")
	flowID := inputOr(node, "selectedFlow", "flow-id")
	baseURL := inputOr(node, "baseURL", "http://localhost:3000")
	endpoint := fmt.Sprintf("%s/api/v1/prediction/%s",
		strings.TrimRight(escapeString(baseURL), "/"), escapeString(flowID))
	fragments := statePrelude(gctx)

	if gctx.Target == ir.TargetPython {
		fragments = append(fragments, importPy("langchain_core.messages", "AIMessage"))
		fragments = append(fragments, ir.Fragment{Kind: ir.KindImport, Module: "requests",
			Symbols: []string{"requests"}, Content: "import requests"})
		fragments = append(fragments, declFragment(0, fmt.Sprintf(
			"def %s_node(state):\n    question = str(state[\"messages\"][-1].content)\n    payload = requests.post(\"%s\", json={\"question\": question}).json()\n    return {\"messages\": [AIMessage(str(payload.get(\"text\", \"\")))]}",
			name, endpoint)))
		fragments = append(fragments, initFragment(0, fmt.Sprintf(
			"workflow.add_node(%q, %s_node)", name, name)))
		fragments = append(fragments, incomingEdgeFragments(gctx, node, name, 1)...)
		return fragments, nil
	}

	fragments = append(fragments, importTS("@langchain/core/messages", "AIMessage"))
	fragments = append(fragments, declFragment(0, fmt.Sprintf(
		"const %sNode = async (state) => {\n  const question = String(state.messages[state.messages.length - 1].content);\n  const response = await fetch(\"%s\", {\n    method: \"POST\",\n    headers: { \"Content-Type\": \"application/json\" },\n    body: JSON.stringify({ question }),\n  });\n  const payload = await response.json();\n  return { messages: [new AIMessage(String(payload.text ?? \"\"))] };\n};",
		name, endpoint)))
	fragments = append(fragments, initFragment(0, fmt.Sprintf(
		"workflow.addNode(%q, %sNode);", name, name)))
	fragments = append(fragments, incomingEdgeFragments(gctx, node, name, 1)...)
	return fragments, nil
}

func (executeFlowConverter) Dependencies(node *schema.Node, gctx *ir.Context) []string {
	deps := stateGraphDeps(gctx)
	if gctx.Target == ir.TargetPython {
		deps = append(deps, "requests")
	}
	return deps
}

func stateGraphDeps(gctx *ir.Context) []string {
	if gctx.Target == ir.TargetPython {
		return []string{"langgraph", "langchain-core"}
	}
	return []string{"@langchain/langgraph", "@langchain/core"}
}
