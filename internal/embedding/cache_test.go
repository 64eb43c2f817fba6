package embedding

import (
	"context"
	"sync/atomic"
	"testing"
)

// countingEmbedder counts inner calls to verify cache hits.
type countingEmbedder struct {
	*MockEmbedder
	batchCalls atomic.Int64
	textsSeen  atomic.Int64
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.textsSeen.Add(1)
	return c.MockEmbedder.Embed(ctx, text)
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.batchCalls.Add(1)
	c.textsSeen.Add(int64(len(texts)))
	return c.MockEmbedder.EmbedBatch(ctx, texts)
}

func TestCachingEmbedder_BatchSkipsCached(t *testing.T) {
	inner := &countingEmbedder{MockEmbedder: NewMockEmbedder(8)}
	e := NewCachingEmbedder(inner, 100)
	ctx := context.Background()

	first, err := e.EmbedBatch(ctx, []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.EmbedBatch(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if got := inner.textsSeen.Load(); got != 3 {
		t.Errorf("inner saw %d texts, want 3 (a, b, then only c)", got)
	}
	for i := range first {
		for j := range first[i] {
			if first[i][j] != second[i][j] {
				t.Fatalf("cached embedding changed at [%d][%d]", i, j)
			}
		}
	}
}

func TestCachingEmbedder_Eviction(t *testing.T) {
	inner := &countingEmbedder{MockEmbedder: NewMockEmbedder(8)}
	e := NewCachingEmbedder(inner, 1)
	ctx := context.Background()

	if _, err := e.Embed(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Embed(ctx, "b"); err != nil {
		t.Fatal(err)
	}
	// "a" was evicted by "b" with capacity 1
	if _, err := e.Embed(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if got := inner.textsSeen.Load(); got != 3 {
		t.Errorf("inner saw %d texts, want 3", got)
	}
}

func TestCachingEmbedder_ZeroCapacityPassthrough(t *testing.T) {
	inner := NewMockEmbedder(8)
	if e := NewCachingEmbedder(inner, 0); e != Embedder(inner) {
		t.Error("zero capacity should return inner embedder unchanged")
	}
}
