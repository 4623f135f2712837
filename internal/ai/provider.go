// Package ai drafts guide scripts from the crawled tour map. The output is
// a starting point for a human author; drafts are never compiled directly.
package ai

import (
	"fmt"

	"github.com/Danejw/viewbait-tourkit/internal/tourmap"
)

// Provider defines the interface for guide drafting.
type Provider interface {
	DraftGuide(m *tourmap.Map, prompt string) (string, error)
}

// NewProvider creates a provider by name.
func NewProvider(name, model string) (Provider, error) {
	switch name {
	case "claude", "anthropic":
		return NewClaudeProvider(model)
	case "openai", "gpt":
		return NewOpenAIProvider(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: claude, openai)", name)
	}
}
