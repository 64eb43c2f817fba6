package rag

import (
	"strings"
	"testing"

	"github.com/hassaaali/research-chatbot/internal/models"
)

func TestBuildContextFusesAndSorts(t *testing.T) {
	hits := []models.SearchHit{
		{DocumentID: "doc1", ChunkIndex: 0, Text: "chunk a", Similarity: 0.9},
		{DocumentID: "doc2", ChunkIndex: 1, Text: "chunk b", Similarity: 0.4},
	}
	web := []models.WebResult{
		{Title: "paper", URL: "https://arxiv.org/abs/1", Snippet: "web snippet", RelevanceScore: 0.7},
	}

	items := BuildContext(hits, web)
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].Score > items[i-1].Score {
			t.Errorf("items not sorted descending at %d: %v > %v", i, items[i].Score, items[i-1].Score)
		}
	}
	if items[0].SourceType != models.SourceDocument || items[0].Score != 0.9 {
		t.Errorf("items[0] = %+v, want top document hit", items[0])
	}
	if items[1].SourceType != models.SourceWeb || items[1].Title != "paper" {
		t.Errorf("items[1] = %+v, want web result", items[1])
	}
}

func TestBuildContextCapsWebResults(t *testing.T) {
	web := []models.WebResult{
		{Title: "w1", RelevanceScore: 0.9},
		{Title: "w2", RelevanceScore: 0.8},
		{Title: "w3", RelevanceScore: 0.7},
	}
	items := BuildContext(nil, web)
	if len(items) != maxWebContext {
		t.Fatalf("len(items) = %d, want %d", len(items), maxWebContext)
	}
	for _, it := range items {
		if it.Title == "w3" {
			t.Errorf("third web result should not enter context")
		}
	}
}

func TestBuildContextEmpty(t *testing.T) {
	if items := BuildContext(nil, nil); len(items) != 0 {
		t.Errorf("len(items) = %d, want 0", len(items))
	}
}

func TestTopContext(t *testing.T) {
	items := make([]models.ContextItem, 8)
	got := TopContext(items)
	if len(got) != maxGenerationContext {
		t.Errorf("len = %d, want %d", len(got), maxGenerationContext)
	}
	if got := TopContext(items[:3]); len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}
}

func TestDedupSources(t *testing.T) {
	hits := []models.SearchHit{
		{DocumentID: "doc1", ChunkIndex: 2, Text: "best chunk of doc1", Similarity: 0.9},
		{DocumentID: "doc2", ChunkIndex: 0, Text: "only chunk of doc2", Similarity: 0.8},
		{DocumentID: "doc1", ChunkIndex: 5, Text: "worse chunk of doc1", Similarity: 0.6},
	}

	sources := DedupSources(hits)
	if len(sources) != 2 {
		t.Fatalf("len(sources) = %d, want 2", len(sources))
	}
	if sources[0].DocumentID != "doc1" || sources[0].Similarity != 0.9 || sources[0].ChunkCount != 2 {
		t.Errorf("sources[0] = %+v, want doc1 best hit with 2 chunks", sources[0])
	}
	if !strings.Contains(sources[0].Preview, "best chunk") {
		t.Errorf("preview %q should come from the best hit", sources[0].Preview)
	}
	if sources[1].DocumentID != "doc2" || sources[1].ChunkCount != 1 {
		t.Errorf("sources[1] = %+v, want doc2 with 1 chunk", sources[1])
	}
}

func TestDedupSourcesTruncatesPreview(t *testing.T) {
	long := strings.Repeat("x", 500)
	sources := DedupSources([]models.SearchHit{
		{DocumentID: "doc1", Text: long, Similarity: 0.9},
	})
	if len(sources) != 1 {
		t.Fatalf("len(sources) = %d, want 1", len(sources))
	}
	if len(sources[0].Preview) > previewLength+3 {
		t.Errorf("preview length = %d, want at most %d plus ellipsis", len(sources[0].Preview), previewLength)
	}
}
