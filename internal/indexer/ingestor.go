package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hassaaali/research-chatbot/internal/config"
	"github.com/hassaaali/research-chatbot/internal/extract"
	"github.com/hassaaali/research-chatbot/internal/models"
	"github.com/hassaaali/research-chatbot/internal/storage"
	"github.com/hassaaali/research-chatbot/internal/store"
)

// Ingestor drives the document pipeline: extract text, chunk it, register the
// document, and add its chunks to the vector store. The registry records the
// lifecycle (processing, indexed, failed) so callers can observe progress.
type Ingestor struct {
	registry  *storage.Registry
	store     *store.Store
	extractor *extract.Extractor
	chunker   *Chunker
	logger    *zap.Logger
}

// IngestorOption configures an Ingestor.
type IngestorOption func(*Ingestor)

// WithLogger sets a logger for ingest events.
func WithLogger(l *zap.Logger) IngestorOption {
	return func(ing *Ingestor) { ing.logger = l }
}

// NewIngestor creates an ingestor with the given dependencies.
func NewIngestor(
	registry *storage.Registry,
	st *store.Store,
	extractor *extract.Extractor,
	cfg *config.SearchConfig,
	opts ...IngestorOption,
) *Ingestor {
	ing := &Ingestor{
		registry:  registry,
		store:     st,
		extractor: extractor,
		chunker:   NewChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ing)
	}
	return ing
}

// IngestFile reads a file from disk and ingests it.
func (ing *Ingestor) IngestFile(ctx context.Context, path string) (*models.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return ing.IngestBytes(ctx, filepath.Base(path), content)
}

// IngestBytes ingests a document from raw file content. The document is
// registered as processing, then marked indexed or failed depending on the
// outcome. Returns the final registry record.
func (ing *Ingestor) IngestBytes(ctx context.Context, filename string, content []byte) (*models.Document, error) {
	ext := filepath.Ext(filename)
	if !extract.Supported(ext) {
		return nil, fmt.Errorf("unsupported file type: %q", ext)
	}

	doc := &models.Document{
		ID:       uuid.New().String(),
		Filename: filename,
		Title:    titleFromFilename(filename),
		Status:   models.DocumentStatusProcessing,
	}
	if err := ing.registry.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("register document: %w", err)
	}

	if err := ing.index(ctx, doc, content, ext); err != nil {
		if uerr := ing.registry.UpdateStatus(ctx, doc.ID, models.DocumentStatusFailed, 0); uerr != nil {
			ing.logger.Warn("failed to mark document failed", zap.String("id", doc.ID), zap.Error(uerr))
		}
		doc.Status = models.DocumentStatusFailed
		return doc, err
	}
	return doc, nil
}

func (ing *Ingestor) index(ctx context.Context, doc *models.Document, content []byte, ext string) error {
	text, err := ing.extractor.ExtractBytes(content, ext)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}
	chunks := ing.chunker.Chunk(text)
	if len(chunks) == 0 {
		return fmt.Errorf("no text content in %s", doc.Filename)
	}

	result, err := ing.store.AddDocument(ctx, doc.ID, chunks)
	if err != nil {
		return fmt.Errorf("add to vector store: %w", err)
	}

	if err := ing.registry.UpdateStatus(ctx, doc.ID, models.DocumentStatusIndexed, result.ChunksAdded); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	doc.Status = models.DocumentStatusIndexed
	doc.NumChunks = result.ChunksAdded

	ing.logger.Info("document ingested",
		zap.String("id", doc.ID),
		zap.String("filename", doc.Filename),
		zap.Int("chunks", result.ChunksAdded),
	)
	return nil
}

// DeleteDocument removes a document from both the vector store and the
// registry. Unknown IDs are a no-op.
func (ing *Ingestor) DeleteDocument(ctx context.Context, id string) (*models.RemoveResult, error) {
	result, err := ing.store.RemoveDocument(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("remove from vector store: %w", err)
	}
	if err := ing.registry.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("remove from registry: %w", err)
	}
	ing.logger.Info("document removed",
		zap.String("id", id),
		zap.Int("chunks", result.RemovedChunks),
	)
	return result, nil
}

// titleFromFilename derives a readable title: extension stripped, underscores
// as spaces.
func titleFromFilename(filename string) string {
	title := strings.TrimSuffix(filename, filepath.Ext(filename))
	return strings.ReplaceAll(title, "_", " ")
}
