// File path: internal/review/review.go
package review

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langgraphgo/graph"

	"github.com/nicodishanthj/flowlang/internal/common"
	"github.com/nicodishanthj/flowlang/internal/diag"
	"github.com/nicodishanthj/flowlang/internal/llm"
	"github.com/nicodishanthj/flowlang/internal/pipeline"
)

const (
	maxCodeExcerpt = 4000
	maxNotes       = 5
)

const systemPrompt = "You review generated LangChain pipelines. " +
	"Reply with at most five short, concrete improvement suggestions, one per line. " +
	"Never suggest running the code."

// Reviewer asks a language model for advisory notes on a finished
// conversion. Notes never change the conversion result and never
// execute generated code.
type Reviewer struct {
	provider llm.Provider
}

func NewReviewer(provider llm.Provider) *Reviewer {
	return &Reviewer{provider: provider}
}

// Review runs a two-step message graph: summarize the run, then ask
// the provider for suggestions. A nil provider disables review.
func (r *Reviewer) Review(ctx context.Context, res *pipeline.Result) ([]diag.Issue, error) {
	if r == nil || r.provider == nil || res == nil {
		return nil, nil
	}

	g := graph.NewMessageGraph()
	g.AddNode("summarize", func(ctx context.Context, state []llms.MessageContent) ([]llms.MessageContent, error) {
		return append(state, llms.TextParts(llms.ChatMessageTypeHuman, summarize(res))), nil
	})
	g.AddNode("suggest", func(ctx context.Context, state []llms.MessageContent) ([]llms.MessageContent, error) {
		reply, err := r.provider.Chat(ctx, toProviderMessages(state))
		if err != nil {
			return nil, err
		}
		return append(state, llms.TextParts(llms.ChatMessageTypeAI, reply)), nil
	})
	g.AddEdge("summarize", "suggest")
	g.AddEdge("suggest", graph.END)
	g.SetEntryPoint("summarize")

	runnable, err := g.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile review graph: %w", err)
	}
	state, err := runnable.Invoke(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
	})
	if err != nil {
		return nil, fmt.Errorf("review: %w", err)
	}

	notes := splitNotes(lastAIText(state))
	common.Logger().Info("review: provider replied",
		"provider", r.provider.Name(), "notes", len(notes))
	issues := make([]diag.Issue, 0, len(notes))
	for _, note := range notes {
		issues = append(issues, diag.New(diag.KindStructure, diag.CodeReviewNote, note))
	}
	return issues, nil
}

// summarize renders the run as compact prose for the model: the
// metadata line first, then a bounded excerpt of the generated code.
func summarize(res *pipeline.Result) string {
	var b strings.Builder
	meta := res.Metadata
	fmt.Fprintf(&b, "Flow %q converted to %s: %d nodes, %d edges, complexity %s, %d of %d nodes converted, %d warning(s).\n",
		meta.FlowName, meta.Target, meta.NodeCount, meta.EdgeCount,
		meta.Complexity, meta.Converted, meta.Total, len(res.Warnings))
	code := res.Code
	if len(code) > maxCodeExcerpt {
		code = code[:maxCodeExcerpt] + "\n... (truncated)"
	}
	if code != "" {
		b.WriteString("Generated code:\n")
		b.WriteString(code)
	}
	return b.String()
}

func toProviderMessages(state []llms.MessageContent) []llm.Message {
	out := make([]llm.Message, 0, len(state))
	for _, mc := range state {
		msg := llm.Message{Role: llm.RoleUser, Content: textOf(mc)}
		switch mc.Role {
		case llms.ChatMessageTypeSystem:
			msg.Role = llm.RoleSystem
		case llms.ChatMessageTypeAI:
			msg.Role = llm.RoleAssistant
		}
		out = append(out, msg)
	}
	return out
}

func textOf(mc llms.MessageContent) string {
	var parts []string
	for _, part := range mc.Parts {
		if text, ok := part.(llms.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func lastAIText(state []llms.MessageContent) string {
	for i := len(state) - 1; i >= 0; i-- {
		if state[i].Role == llms.ChatMessageTypeAI {
			return textOf(state[i])
		}
	}
	return ""
}

// splitNotes turns a model reply into one note per non-empty line,
// dropping list markers and capping the count.
func splitNotes(reply string) []string {
	var notes []string
	for _, line := range strings.Split(reply, "\n") {
		line = stripMarker(line)
		if line == "" {
			continue
		}
		notes = append(notes, line)
		if len(notes) >= maxNotes {
			break
		}
	}
	return notes
}

func stripMarker(line string) string {
	line = strings.TrimSpace(line)
	for _, prefix := range []string{"- ", "* "} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line[len(prefix):])
		}
	}
	if i := strings.IndexAny(line, ".)"); i > 0 && i <= 2 {
		if _, err := strconv.Atoi(line[:i]); err == nil {
			return strings.TrimSpace(line[i+1:])
		}
	}
	return line
}
