// Package models defines core data structures for documents, chunks, queries, and results.
package models

import "time"

// Document statuses in the registry.
const (
	DocumentStatusProcessing = "processing"
	DocumentStatusIndexed    = "indexed"
	DocumentStatusFailed     = "failed"
)

// Document represents an ingested document in the registry. The registry owns
// document lifecycle; the vector store only knows the chunks registered against it.
type Document struct {
	ID        string    `json:"id" db:"id"`
	Filename  string    `json:"filename" db:"filename"`
	Title     string    `json:"title" db:"title"`
	Status    string    `json:"status" db:"status"`
	NumChunks int       `json:"num_chunks" db:"num_chunks"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Chunk is a bounded span of a document's text, the unit of indexing and
// retrieval. Chunks are created once during ingestion and are immutable
// thereafter except for deletion.
type Chunk struct {
	Index    int    `json:"index"`
	Text     string `json:"text"`
	Size     int    `json:"size"`
	StartPos int    `json:"start_pos"`
}

// ChunkMeta is the per-vector metadata recorded at an index position.
type ChunkMeta struct {
	DocumentID string `json:"document_id"`
	ChunkIndex int    `json:"chunk_index"`
	ChunkSize  int    `json:"chunk_size"`
	StartPos   int    `json:"start_pos"`
}

// AddResult reports the outcome of adding a document's chunks to the vector store.
type AddResult struct {
	DocumentID   string `json:"document_id"`
	ChunksAdded  int    `json:"chunks_added"`
	TotalVectors int    `json:"total_vectors"`
	Positions    []int  `json:"positions"`
}

// RemoveResult reports the outcome of removing a document from the vector store.
type RemoveResult struct {
	DocumentID    string `json:"document_id"`
	RemovedChunks int    `json:"removed_chunks"`
	TotalVectors  int    `json:"total_vectors"`
}

// StoreStats describes the current state of the vector store.
type StoreStats struct {
	TotalVectors   int  `json:"total_vectors"`
	TotalDocuments int  `json:"total_documents"`
	Dimension      int  `json:"dimension"`
	Initialized    bool `json:"initialized"`
}
