package llm

import "context"

// Provider is a minimal text-completion interface for the prompt optimizer.
type Provider interface {
	// Complete sends the system instruction and user prompt and returns the
	// model's text reply.
	Complete(ctx context.Context, system, prompt string) (string, error)
}
