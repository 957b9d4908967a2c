package llm

import "context"

// Request is a single system+user prompt pair. Temperature is passed through
// to the backend untouched; zero means fully deterministic sampling.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
}

// TextCompletionProvider is the one capability the pipeline needs from a
// generative backend. Implementations must be safe for concurrent use.
type TextCompletionProvider interface {
	Complete(ctx context.Context, req Request) (string, error)
}
