package llm

import (
	"context"

	"ai-diet-planner/internal/shared"
)

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// StructuredGenerator generates text constrained by a response schema.
// Implementations return the raw text; interpreting it is left to the caller.
type StructuredGenerator interface {
	GenerateStructured(ctx context.Context, prompt string, schema *Schema, temperature float32) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}
