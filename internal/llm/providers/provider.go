// File path: internal/llm/providers/provider.go
package providers

import "context"

// Role tags a chat message author.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one turn of a chat exchange.
type Message struct {
	Role    Role
	Content string
}

// Provider generates text from a chat transcript.
type Provider interface {
	Name() string
	Chat(ctx context.Context, messages []Message) (string, error)
}
