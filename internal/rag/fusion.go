// Package rag provides the retrieval-augmented generation pipeline: retrieval
// fusion, query classification, and query-to-answer orchestration.
package rag

import (
	"sort"

	"github.com/hassaaali/research-chatbot/internal/models"
	"github.com/hassaaali/research-chatbot/pkg/utils"
)

const (
	// maxWebContext caps how many web results enter the fused context.
	maxWebContext = 2
	// maxGenerationContext caps how many fused items are forwarded to generation.
	maxGenerationContext = 5
	// previewLength is the character budget for per-document source previews.
	previewLength = 200
)

// BuildContext fuses document hits and web results into one context list
// sorted descending by score. Document similarities and web relevance scores
// are compared raw; both are nominally in [0,1] but come from unrelated
// processes, and the web side is capped at maxWebContext items.
func BuildContext(hits []models.SearchHit, webResults []models.WebResult) []models.ContextItem {
	items := make([]models.ContextItem, 0, len(hits)+maxWebContext)
	for _, h := range hits {
		items = append(items, models.ContextItem{
			Text:       h.Text,
			SourceType: models.SourceDocument,
			Score:      h.Similarity,
			DocumentID: h.DocumentID,
			ChunkIndex: h.ChunkIndex,
		})
	}
	for i, r := range webResults {
		if i >= maxWebContext {
			break
		}
		items = append(items, models.ContextItem{
			Text:       r.Snippet,
			SourceType: models.SourceWeb,
			Score:      r.RelevanceScore,
			Title:      r.Title,
			URL:        r.URL,
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Score > items[j].Score })
	return items
}

// TopContext returns the highest-ranked items forwarded to generation.
func TopContext(items []models.ContextItem) []models.ContextItem {
	if len(items) > maxGenerationContext {
		return items[:maxGenerationContext]
	}
	return items
}

// DedupSources collapses hits to one user-facing source entry per document:
// the highest-similarity hit's preview plus a count of how many chunks from
// that document appeared anywhere in the hit list. Hits arrive sorted
// descending by similarity, so the first hit per document is its best.
func DedupSources(hits []models.SearchHit) []models.DocumentSource {
	chunkCounts := make(map[string]int)
	for _, h := range hits {
		chunkCounts[h.DocumentID]++
	}

	sources := make([]models.DocumentSource, 0, len(chunkCounts))
	seen := make(map[string]bool)
	for _, h := range hits {
		if seen[h.DocumentID] {
			continue
		}
		seen[h.DocumentID] = true
		sources = append(sources, models.DocumentSource{
			DocumentID: h.DocumentID,
			Similarity: h.Similarity,
			ChunkCount: chunkCounts[h.DocumentID],
			Preview:    utils.Truncate(h.Text, previewLength),
		})
	}
	return sources
}
