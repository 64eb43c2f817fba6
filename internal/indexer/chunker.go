// Package indexer provides the ingestion pipeline: extraction, chunking, and
// registration of documents into the registry and vector store.
package indexer

import (
	"strings"

	"github.com/hassaaali/research-chatbot/internal/models"
)

// Chunker splits text into overlapping word-based chunks.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a chunker with the given size and overlap (in words).
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Chunk splits text into overlapping windows of words. StartPos is the byte
// offset of each chunk within the preprocessed text.
func (c *Chunker) Chunk(text string) []models.Chunk {
	text = Preprocess(text)
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	// Byte offset of each word within the space-joined text.
	offsets := make([]int, len(words))
	pos := 0
	for i, w := range words {
		offsets[i] = pos
		pos += len(w) + 1
	}

	step := c.chunkSize - c.chunkOverlap
	if step <= 0 {
		step = 1
	}

	var chunks []models.Chunk
	for i := 0; i < len(words); i += step {
		end := i + c.chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunkText := strings.Join(words[i:end], " ")
		chunks = append(chunks, models.Chunk{
			Index:    len(chunks),
			Text:     chunkText,
			Size:     len(chunkText),
			StartPos: offsets[i],
		})
		if end >= len(words) {
			break
		}
	}
	return chunks
}
