package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hassaaali/research-chatbot/internal/models"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(filepath.Join(t.TempDir(), "documents.db"))
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestCreateAndGet(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	doc := &models.Document{ID: "doc1", Filename: "paper.pdf", Title: "A Paper"}
	if err := r.Create(ctx, doc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if doc.Status != models.DocumentStatusProcessing {
		t.Errorf("Status = %q, want default processing", doc.Status)
	}

	got, err := r.Get(ctx, "doc1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Filename != "paper.pdf" || got.Title != "A Paper" || got.Status != models.DocumentStatusProcessing {
		t.Errorf("Get() = %+v", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestGetMissing(t *testing.T) {
	r := newTestRegistry(t)
	if _, err := r.Get(context.Background(), "nope"); err == nil {
		t.Error("expected error for unknown document")
	}
}

func TestCreateDuplicate(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	doc := &models.Document{ID: "doc1", Filename: "a.txt"}
	if err := r.Create(ctx, doc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := r.Create(ctx, &models.Document{ID: "doc1", Filename: "b.txt"}); err == nil {
		t.Error("expected error for duplicate ID")
	}
}

func TestUpdateStatus(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	if err := r.Create(ctx, &models.Document{ID: "doc1", Filename: "a.pdf"}); err != nil {
		t.Fatal(err)
	}

	if err := r.UpdateStatus(ctx, "doc1", models.DocumentStatusIndexed, 7); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	got, err := r.Get(ctx, "doc1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.DocumentStatusIndexed || got.NumChunks != 7 {
		t.Errorf("after update: %+v", got)
	}

	if err := r.UpdateStatus(ctx, "missing", models.DocumentStatusFailed, 0); err == nil {
		t.Error("expected error for unknown document")
	}
}

func TestListAndCount(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c"} {
		if err := r.Create(ctx, &models.Document{ID: id, Filename: id + ".txt"}); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := r.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("len(docs) = %d, want 3", len(docs))
	}

	n, err := r.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Count() = %d, want 3", n)
	}
}

func TestDelete(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	if err := r.Create(ctx, &models.Document{ID: "doc1", Filename: "a.pdf"}); err != nil {
		t.Fatal(err)
	}

	if err := r.Delete(ctx, "doc1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := r.Get(ctx, "doc1"); err == nil {
		t.Error("document still present after delete")
	}

	// Unknown ID is a no-op.
	if err := r.Delete(ctx, "doc1"); err != nil {
		t.Errorf("Delete() second call error = %v", err)
	}
}
