// File path: internal/llm/providers/local.go
package providers

import (
	"context"
	"fmt"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string
	Content string
}

type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	Name() string
}

// LocalProvider answers without a network. Replies are deterministic,
// which keeps offline runs and tests stable.
type LocalProvider struct{}

func NewLocalProvider() *LocalProvider {
	return &LocalProvider{}
}

func (l *LocalProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages provided")
	}
	return fmt.Sprintf("[local] %d message(s) received; set OPENAI_API_KEY for model-backed replies",
		len(messages)), nil
}

func (l *LocalProvider) Name() string {
	return "local"
}
