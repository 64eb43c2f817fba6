package embedding

import (
	"context"
	"math"
	"testing"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	e := NewMockEmbedder(16)
	ctx := context.Background()

	v1, err := e.Embed(ctx, "alpha beta")
	if err != nil {
		t.Fatal(err)
	}
	v2, err := e.Embed(ctx, "alpha beta")
	if err != nil {
		t.Fatal(err)
	}
	if len(v1) != 16 {
		t.Fatalf("dimension = %d, want 16", len(v1))
	}
	for i := range v1 {
		if v1[i] != v2[i] {
			t.Fatalf("not deterministic at index %d: %v vs %v", i, v1[i], v2[i])
		}
	}
}

func TestMockEmbedder_DifferentTextsDiffer(t *testing.T) {
	e := NewMockEmbedder(16)
	ctx := context.Background()

	v1, _ := e.Embed(ctx, "alpha beta")
	v2, _ := e.Embed(ctx, "gamma delta")
	same := true
	for i := range v1 {
		if v1[i] != v2[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("expected different embeddings for different texts")
	}
}

func TestMockEmbedder_UnitNorm(t *testing.T) {
	e := NewMockEmbedder(32)
	v, _ := e.Embed(context.Background(), "some text")
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if math.Abs(math.Sqrt(sum)-1.0) > 1e-4 {
		t.Errorf("norm = %f, want 1", math.Sqrt(sum))
	}
}
