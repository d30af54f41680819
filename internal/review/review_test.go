// File path: internal/review/review_test.go
package review

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nicodishanthj/flowlang/internal/diag"
	"github.com/nicodishanthj/flowlang/internal/ir"
	"github.com/nicodishanthj/flowlang/internal/llm"
	"github.com/nicodishanthj/flowlang/internal/pipeline"
)

type stubProvider struct {
	reply    string
	err      error
	received [][]llm.Message
}

func (s *stubProvider) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	s.received = append(s.received, messages)
	return s.reply, s.err
}

func (s *stubProvider) Name() string { return "stub" }

func sampleResult() *pipeline.Result {
	return &pipeline.Result{
		Success: true,
		Code:    "const chatOpenAI = new ChatOpenAI({});",
		Metadata: pipeline.Metadata{
			FlowName:  "support-bot",
			Target:    ir.TargetTypeScript,
			NodeCount: 2,
			EdgeCount: 1,
			Converted: 2,
			Total:     2,
		},
	}
}

func TestReviewProducesNotes(t *testing.T) {
	stub := &stubProvider{reply: "- Add a prompt template.\n- Wire a memory node."}
	notes, err := NewReviewer(stub).Review(context.Background(), sampleResult())
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(notes))
	}
	for _, note := range notes {
		if note.Code != diag.CodeReviewNote {
			t.Fatalf("unexpected code %q", note.Code)
		}
		if strings.HasPrefix(note.Message, "-") {
			t.Fatalf("marker not stripped from %q", note.Message)
		}
	}
	if notes[0].Message != "Add a prompt template." {
		t.Fatalf("unexpected note %q", notes[0].Message)
	}
}

func TestReviewSendsSummaryAndCode(t *testing.T) {
	stub := &stubProvider{reply: "looks fine"}
	if _, err := NewReviewer(stub).Review(context.Background(), sampleResult()); err != nil {
		t.Fatalf("review: %v", err)
	}
	if len(stub.received) != 1 {
		t.Fatalf("expected one chat call, got %d", len(stub.received))
	}
	messages := stub.received[0]
	if len(messages) != 2 || messages[0].Role != llm.RoleSystem {
		t.Fatalf("unexpected message shape %+v", messages)
	}
	summary := messages[1].Content
	if !strings.Contains(summary, `Flow "support-bot"`) {
		t.Fatalf("summary missing flow name: %q", summary)
	}
	if !strings.Contains(summary, "2 nodes, 1 edges") {
		t.Fatalf("summary missing counts: %q", summary)
	}
	if !strings.Contains(summary, "new ChatOpenAI") {
		t.Fatalf("summary missing code excerpt: %q", summary)
	}
}

func TestReviewCapsNotes(t *testing.T) {
	stub := &stubProvider{reply: "1. a\n2. b\n3. c\n4. d\n5. e\n6. f\n7. g"}
	notes, err := NewReviewer(stub).Review(context.Background(), sampleResult())
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if len(notes) != 5 {
		t.Fatalf("expected the cap of 5, got %d", len(notes))
	}
	if notes[0].Message != "a" {
		t.Fatalf("numbered marker not stripped: %q", notes[0].Message)
	}
}

func TestReviewNilProviderDisabled(t *testing.T) {
	notes, err := NewReviewer(nil).Review(context.Background(), sampleResult())
	if err != nil || notes != nil {
		t.Fatalf("nil provider should disable review, got %v / %v", notes, err)
	}
}

func TestReviewPropagatesProviderError(t *testing.T) {
	stub := &stubProvider{err: errors.New("rate limited")}
	if _, err := NewReviewer(stub).Review(context.Background(), sampleResult()); err == nil {
		t.Fatalf("expected the provider error to surface")
	}
}

func TestReviewTruncatesLongCode(t *testing.T) {
	stub := &stubProvider{reply: "ok"}
	res := sampleResult()
	res.Code = strings.Repeat("x", maxCodeExcerpt+100)
	if _, err := NewReviewer(stub).Review(context.Background(), res); err != nil {
		t.Fatalf("review: %v", err)
	}
	summary := stub.received[0][1].Content
	if !strings.Contains(summary, "(truncated)") {
		t.Fatalf("long code should be truncated")
	}
	if len(summary) > maxCodeExcerpt+300 {
		t.Fatalf("summary still too large: %d bytes", len(summary))
	}
}
