// Package websearch provides the web search collaborator used to augment
// document retrieval.
package websearch

import (
	"context"

	"github.com/hassaaali/research-chatbot/internal/models"
)

// Searcher finds web results for a query. academicOnly restricts results to
// academic sources. Implementations may fail; the orchestrator treats any
// failure as zero results.
type Searcher interface {
	Search(ctx context.Context, query string, numResults int, academicOnly bool) ([]models.WebResult, error)
}

// Disabled is a Searcher that always returns no results. Used when web search
// is turned off or unconfigured.
type Disabled struct{}

// Search returns no results.
func (Disabled) Search(ctx context.Context, query string, numResults int, academicOnly bool) ([]models.WebResult, error) {
	return nil, nil
}
