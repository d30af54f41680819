// File path: internal/llm/llm_test.go
package llm

import (
	"context"
	"strings"
	"testing"
)

func TestNewProviderFallsBackToLocal(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	provider := NewProvider()
	if provider.Name() != "local" {
		t.Fatalf("expected local provider, got %q", provider.Name())
	}
}

func TestNewProviderSelectsOpenAI(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	provider := NewProvider()
	if provider.Name() != "openai" {
		t.Fatalf("expected openai provider, got %q", provider.Name())
	}
}

func TestLocalChatIsDeterministic(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	provider := NewProvider()
	messages := []Message{
		{Role: RoleSystem, Content: "you review generated pipelines"},
		{Role: RoleUser, Content: "anything to improve?"},
	}
	first, err := provider.Chat(context.Background(), messages)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	second, err := provider.Chat(context.Background(), messages)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if first != second {
		t.Fatalf("local replies differ: %q vs %q", first, second)
	}
	if !strings.Contains(first, "2 message(s)") {
		t.Fatalf("unexpected reply %q", first)
	}
}

func TestLocalChatRequiresMessages(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	provider := NewProvider()
	if _, err := provider.Chat(context.Background(), nil); err == nil {
		t.Fatalf("expected an error for empty input")
	}
}
