// Package providers implements the completion engine collaborators.
package providers

import "context"

// Conversation roles understood by providers.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a role-tagged message sent to the completion engine.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider defines the interface for completion engines.
type Provider interface {
	// Name returns the provider's name.
	Name() string

	// Chat sends the ordered messages and returns the reply text.
	Chat(ctx context.Context, messages []Message) (string, error)
}
