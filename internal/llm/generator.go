// Package llm provides the text generation gateway for answering queries over
// retrieved context.
package llm

import (
	"context"

	"github.com/hassaaali/research-chatbot/internal/models"
)

// Options are per-request generation settings.
type Options struct {
	MaxTokens   int
	Temperature float64
}

// Result is a generated answer with provenance.
type Result struct {
	Text       string
	Model      string
	TokensUsed int
}

// Generator produces an answer for a query conditioned on ranked context.
// Failures are recoverable: the orchestrator falls back to an extractive
// answer rather than propagating the error.
type Generator interface {
	Generate(ctx context.Context, query string, contextItems []models.ContextItem, opts Options) (*Result, error)
}
