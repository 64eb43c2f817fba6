// Package store provides the persistent vector store: a flat vector index,
// per-position chunk metadata, and chunk payloads kept mutually consistent
// across add, search, and remove operations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/hassaaali/research-chatbot/internal/embedding"
	"github.com/hassaaali/research-chatbot/internal/models"
	"github.com/hassaaali/research-chatbot/internal/vector"
)

// Store orchestrates the vector index, metadata table, and chunk payload
// store. A single RWMutex guards all three: AddDocument and RemoveDocument
// take exclusive access, Search and Stats shared access.
//
// Invariants after every public operation:
//   - len(metadata) == index.Size()
//   - every metadata entry resolves to a chunk payload
//   - positions are the dense range 0..index.Size()-1
type Store struct {
	mu       sync.RWMutex
	index    *vector.FlatIndex
	metadata []models.ChunkMeta
	chunks   map[string]map[int]string // document id -> chunk index -> text
	embedder embedding.Embedder

	dir        string // artifact directory; empty disables persistence
	generation uint64
	logger     *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a logger for store events.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a vector store using embedder for all text encoding, persisting
// artifacts under dir. An empty dir keeps the store memory-only. Existing
// artifacts under dir are loaded; unreadable artifacts are logged and replaced
// by a fresh store.
func New(embedder embedding.Embedder, dir string, opts ...Option) (*Store, error) {
	idx, err := vector.NewFlatIndex(embedder.Dimensions())
	if err != nil {
		return nil, err
	}
	s := &Store{
		index:    idx,
		chunks:   make(map[string]map[int]string),
		embedder: embedder,
		dir:      dir,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if dir != "" {
		if err := s.load(); err != nil {
			s.logger.Warn("failed to load existing vector store, starting fresh", zap.Error(err))
			s.reset()
		}
	}
	return s, nil
}

// reset replaces all three structures with empty ones.
func (s *Store) reset() {
	idx, _ := vector.NewFlatIndex(s.embedder.Dimensions())
	s.index = idx
	s.metadata = nil
	s.chunks = make(map[string]map[int]string)
}

// AddDocument embeds chunk texts in one batched gateway call, appends the
// vectors, and registers metadata and payloads at the assigned positions.
// All-or-nothing: an embedding failure commits no state. Persists before
// returning.
func (s *Store) AddDocument(ctx context.Context, documentID string, chunks []models.Chunk) (*models.AddResult, error) {
	if documentID == "" {
		return nil, fmt.Errorf("document id cannot be empty")
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("document %s has no chunks", documentID)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	// Embedding runs outside the lock; it touches no shared state and may be slow.
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings for document %s: %w", documentID, err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embedding gateway returned %d vectors for %d chunks", len(embeddings), len(chunks))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start, err := s.index.Append(embeddings)
	if err != nil {
		return nil, fmt.Errorf("failed to append vectors: %w", err)
	}
	positions := make([]int, len(chunks))
	for i, c := range chunks {
		positions[i] = start + i
		s.metadata = append(s.metadata, models.ChunkMeta{
			DocumentID: documentID,
			ChunkIndex: c.Index,
			ChunkSize:  c.Size,
			StartPos:   c.StartPos,
		})
		if s.chunks[documentID] == nil {
			s.chunks[documentID] = make(map[int]string)
		}
		s.chunks[documentID][c.Index] = c.Text
	}

	if err := s.persistLocked(); err != nil {
		return nil, fmt.Errorf("failed to persist vector store: %w", err)
	}

	s.logger.Info("added document to vector store",
		zap.String("document_id", documentID),
		zap.Int("chunks", len(chunks)),
		zap.Int("total_vectors", s.index.Size()),
	)
	return &models.AddResult{
		DocumentID:   documentID,
		ChunksAdded:  len(chunks),
		TotalVectors: s.index.Size(),
		Positions:    positions,
	}, nil
}

// Search embeds the query and returns up to topK hits at or above threshold,
// sorted descending by similarity. documentIDs, when non-empty, restricts hits
// to those documents; the candidate fetch is widened to compensate for
// post-filtering. An empty index yields an empty result, never an error.
func (s *Store) Search(ctx context.Context, query string, topK int, documentIDs []string, threshold float64) ([]models.SearchHit, error) {
	if topK <= 0 {
		return nil, nil
	}

	// An empty index answers without touching the embedding gateway.
	s.mu.RLock()
	empty := s.index.Size() == 0
	s.mu.RUnlock()
	if empty {
		return nil, nil
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := s.index.Size()
	if n == 0 {
		return nil, nil
	}
	fetchK := topK
	if len(documentIDs) > 0 {
		fetchK = topK * 3
	}
	if fetchK > n {
		fetchK = n
	}
	candidates, err := s.index.Search(queryVec, fetchK)
	if err != nil {
		return nil, err
	}

	var filter map[string]bool
	if len(documentIDs) > 0 {
		filter = make(map[string]bool, len(documentIDs))
		for _, id := range documentIDs {
			filter[id] = true
		}
	}

	hits := make([]models.SearchHit, 0, topK)
	for _, c := range candidates {
		similarity := vector.SimilarityFromDistance(c.Distance)
		if similarity < threshold {
			continue
		}
		meta := s.metadata[c.Position]
		if filter != nil && !filter[meta.DocumentID] {
			continue
		}
		hits = append(hits, models.SearchHit{
			Position:   c.Position,
			DocumentID: meta.DocumentID,
			ChunkIndex: meta.ChunkIndex,
			Text:       s.chunks[meta.DocumentID][meta.ChunkIndex],
			Similarity: similarity,
			Distance:   c.Distance,
		})
		if len(hits) >= topK {
			break
		}
	}

	sortHitsBySimilarity(hits)
	return hits, nil
}

// RemoveDocument removes all chunks belonging to documentID. The index has no
// delete primitive, so surviving vectors are reconstructed in ascending
// position order into a fresh index, renumbering positions densely from 0.
// O(N) in index size. Removing an unknown document is a no-op reporting zero
// removed chunks.
func (s *Store) RemoveDocument(ctx context.Context, documentID string) (*models.RemoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, meta := range s.metadata {
		if meta.DocumentID == documentID {
			removed++
		}
	}
	if removed == 0 {
		return &models.RemoveResult{
			DocumentID:    documentID,
			RemovedChunks: 0,
			TotalVectors:  s.index.Size(),
		}, nil
	}

	newIndex, err := vector.NewFlatIndex(s.index.Dimensions())
	if err != nil {
		return nil, err
	}
	newMetadata := make([]models.ChunkMeta, 0, s.index.Size()-removed)
	for pos := 0; pos < s.index.Size(); pos++ {
		meta := s.metadata[pos]
		if meta.DocumentID == documentID {
			continue
		}
		vec, err := s.index.Reconstruct(pos)
		if err != nil {
			return nil, fmt.Errorf("failed to reconstruct vector %d during rebuild: %w", pos, err)
		}
		if _, err := newIndex.Append([][]float32{vec}); err != nil {
			return nil, fmt.Errorf("failed to rebuild index: %w", err)
		}
		newMetadata = append(newMetadata, meta)
	}

	s.index = newIndex
	s.metadata = newMetadata
	delete(s.chunks, documentID)

	if err := s.persistLocked(); err != nil {
		return nil, fmt.Errorf("failed to persist vector store: %w", err)
	}

	s.logger.Info("removed document from vector store",
		zap.String("document_id", documentID),
		zap.Int("removed_chunks", removed),
		zap.Int("total_vectors", s.index.Size()),
	)
	return &models.RemoveResult{
		DocumentID:    documentID,
		RemovedChunks: removed,
		TotalVectors:  s.index.Size(),
	}, nil
}

// Stats returns the current vector and document counts.
func (s *Store) Stats() models.StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make(map[string]bool)
	for _, meta := range s.metadata {
		docs[meta.DocumentID] = true
	}
	return models.StoreStats{
		TotalVectors:   s.index.Size(),
		TotalDocuments: len(docs),
		Dimension:      s.index.Dimensions(),
		Initialized:    true,
	}
}

// Persist writes the current state to disk. No-op for memory-only stores.
func (s *Store) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked()
}

func sortHitsBySimilarity(hits []models.SearchHit) {
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Similarity > hits[j].Similarity })
}
