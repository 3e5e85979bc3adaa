package llm

import (
	"context"

	"mealmuse/internal/shared"
)

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// Generator produces a JSON document for a prompt, asking the model to
// conform to schema. Each call performs exactly one outbound request.
type Generator interface {
	Generate(ctx context.Context, prompt string, schema *Schema) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// GenerateCloser is a Generator holding resources that must be released.
type GenerateCloser interface {
	Generator
	Closer
}
