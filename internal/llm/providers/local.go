// File path: internal/llm/providers/local.go
package providers

import (
	"context"
	"fmt"
	"strings"
)

// Local is an offline fallback that produces a deterministic extract of the
// prompt instead of a generated answer. It keeps the documentation workflows
// usable without credentials and gives tests a stable provider.
type Local struct{}

func NewLocal() *Local { return &Local{} }

func (p *Local) Name() string { return "local" }

func (p *Local) Chat(ctx context.Context, messages []Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var user string
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			user = messages[i].Content
			break
		}
	}
	if user == "" {
		return "", fmt.Errorf("local: no user message")
	}
	lines := strings.Split(user, "\n")
	kept := make([]string, 0, 8)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		kept = append(kept, line)
		if len(kept) == 8 {
			break
		}
	}
	return "Summary (offline): " + strings.Join(kept, " | "), nil
}
