package indexer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hassaaali/research-chatbot/internal/config"
	"github.com/hassaaali/research-chatbot/internal/embedding"
	"github.com/hassaaali/research-chatbot/internal/extract"
	"github.com/hassaaali/research-chatbot/internal/models"
	"github.com/hassaaali/research-chatbot/internal/storage"
	"github.com/hassaaali/research-chatbot/internal/store"
)

func newTestIngestor(t *testing.T) (*Ingestor, *storage.Registry, *store.Store) {
	t.Helper()
	registry, err := storage.NewRegistry(filepath.Join(t.TempDir(), "documents.db"))
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	t.Cleanup(func() { registry.Close() })

	st, err := store.New(embedding.NewMockEmbedder(32), "")
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	cfg := &config.SearchConfig{ChunkSize: 5, ChunkOverlap: 1}
	return NewIngestor(registry, st, extract.NewExtractor(), cfg), registry, st
}

func TestIngestBytes(t *testing.T) {
	ing, registry, st := newTestIngestor(t)
	ctx := context.Background()

	text := strings.Repeat("research findings on neural networks ", 5)
	doc, err := ing.IngestBytes(ctx, "neural_networks_survey.txt", []byte(text))
	if err != nil {
		t.Fatalf("IngestBytes() error = %v", err)
	}
	if doc.Status != models.DocumentStatusIndexed {
		t.Errorf("Status = %q, want indexed", doc.Status)
	}
	if doc.Title != "neural networks survey" {
		t.Errorf("Title = %q", doc.Title)
	}
	if doc.NumChunks == 0 {
		t.Error("NumChunks = 0, want > 0")
	}

	got, err := registry.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != models.DocumentStatusIndexed || got.NumChunks != doc.NumChunks {
		t.Errorf("registry record = %+v", got)
	}

	stats := st.Stats()
	if stats.TotalDocuments != 1 || stats.TotalVectors != doc.NumChunks {
		t.Errorf("store stats = %+v", stats)
	}

	hits, err := st.Search(ctx, "research findings on neural networks", 3, nil, 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) == 0 || hits[0].DocumentID != doc.ID {
		t.Errorf("hits = %+v, want ingested document retrievable", hits)
	}
}

func TestIngestBytesUnsupportedType(t *testing.T) {
	ing, _, _ := newTestIngestor(t)
	if _, err := ing.IngestBytes(context.Background(), "slides.pptx", []byte("x")); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestIngestBytesEmptyContent(t *testing.T) {
	ing, registry, _ := newTestIngestor(t)
	ctx := context.Background()

	doc, err := ing.IngestBytes(ctx, "empty.txt", []byte("   \n  "))
	if err == nil {
		t.Fatal("expected error for empty content")
	}
	if doc == nil || doc.Status != models.DocumentStatusFailed {
		t.Fatalf("doc = %+v, want failed record", doc)
	}
	got, err := registry.Get(ctx, doc.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != models.DocumentStatusFailed {
		t.Errorf("registry status = %q, want failed", got.Status)
	}
}

func TestIngestFile(t *testing.T) {
	ing, _, _ := newTestIngestor(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(path, []byte("markdown content for the chunker to split"), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := ing.IngestFile(context.Background(), path)
	if err != nil {
		t.Fatalf("IngestFile() error = %v", err)
	}
	if doc.Filename != "notes.md" || doc.Status != models.DocumentStatusIndexed {
		t.Errorf("doc = %+v", doc)
	}

	if _, err := ing.IngestFile(context.Background(), filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDeleteDocument(t *testing.T) {
	ing, registry, st := newTestIngestor(t)
	ctx := context.Background()

	doc, err := ing.IngestBytes(ctx, "paper.txt", []byte("some indexed research content"))
	if err != nil {
		t.Fatalf("IngestBytes() error = %v", err)
	}

	result, err := ing.DeleteDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("DeleteDocument() error = %v", err)
	}
	if result.RemovedChunks != doc.NumChunks {
		t.Errorf("RemovedChunks = %d, want %d", result.RemovedChunks, doc.NumChunks)
	}
	if _, err := registry.Get(ctx, doc.ID); err == nil {
		t.Error("registry record still present after delete")
	}
	if st.Stats().TotalVectors != 0 {
		t.Errorf("TotalVectors = %d, want 0", st.Stats().TotalVectors)
	}

	// Unknown IDs are a no-op.
	if _, err := ing.DeleteDocument(ctx, "unknown"); err != nil {
		t.Errorf("DeleteDocument(unknown) error = %v", err)
	}
}
