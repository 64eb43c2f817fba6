// Package embedding provides the embedding gateway: text to fixed-dimension vectors.
package embedding

import "context"

// Embedder produces vector embeddings for text. Implementations must be
// deterministic for identical input within a session; determinism across
// restarts is not required.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
