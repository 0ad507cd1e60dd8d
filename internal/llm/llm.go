package llm

import "context"

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Client is a text generator backed by a remote API that must be closed.
type Client interface {
	TextGenerator
	Close() error
}
