package llm

import (
	"context"
	"fmt"
)

// ErrNotConfigured is returned by the disabled client. Callers that see it
// should use their deterministic fallback without logging a failure.
var ErrNotConfigured = fmt.Errorf("language model is not configured")

// Client defines an interface for completing prompts against an external
// language model. This decouples the summary pipeline from the specific
// provider SDK.
type Client interface {
	// Enabled reports whether a real model is configured. When false,
	// Complete always fails with ErrNotConfigured and callers must not
	// treat that as an external failure.
	Enabled() bool
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Disabled is the no-model variant, selected at startup when no API key is set.
type Disabled struct{}

func (Disabled) Enabled() bool { return false }

func (Disabled) Complete(context.Context, string, int) (string, error) {
	return "", ErrNotConfigured
}
