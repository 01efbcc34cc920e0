// File path: internal/llm/llm.go
package llm

import (
	"context"
	"os"
	"strings"

	"github.com/nicodishanthj/Batchlens_phase1/internal/common"
	"github.com/nicodishanthj/Batchlens_phase1/internal/llm/providers"
)

// Message is one turn of a chat exchange.
type Message = providers.Message

// Provider generates text from a chat transcript. Implementations must be
// safe for concurrent use.
type Provider = providers.Provider

// NewProvider selects a provider from the environment: OpenAI when
// OPENAI_API_KEY is set, otherwise a deterministic local summarizer so the
// documentation workflows keep working offline.
func NewProvider() Provider {
	logger := common.Logger()
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		p := providers.NewOpenAI(key)
		logger.Info("llm: provider selected", "provider", p.Name(), "model", p.Model())
		return p
	}
	logger.Warn("llm: OPENAI_API_KEY not set, using local provider")
	return providers.NewLocal()
}

// Chat is a convenience wrapper for single system+user exchanges.
func Chat(ctx context.Context, p Provider, system, user string) (string, error) {
	return p.Chat(ctx, []Message{
		{Role: providers.RoleSystem, Content: system},
		{Role: providers.RoleUser, Content: user},
	})
}
