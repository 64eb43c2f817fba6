package models

import (
	"fmt"
	"strings"
)

// Default and maximum values applied by QueryRequest.Validate.
const (
	DefaultTopK        = 5
	MaxTopK            = 50
	DefaultMaxTokens   = 512
	MaxMaxTokens       = 2048
	DefaultTemperature = 0.7
)

// QueryRequest is a question for the RAG pipeline with optional filters and
// generation options.
type QueryRequest struct {
	Question         string   `json:"question"`
	DocumentIDs      []string `json:"document_ids,omitempty"`
	IncludeWebSearch *bool    `json:"include_web_search,omitempty"`
	TopK             int      `json:"top_k,omitempty"`
	MaxTokens        int      `json:"max_tokens,omitempty"`
	Temperature      float64  `json:"temperature,omitempty"`
}

// Validate ensures the request has valid fields and sets defaults.
// Returns an error if the question is empty; otherwise normalizes limits.
func (q *QueryRequest) Validate() error {
	q.Question = strings.TrimSpace(q.Question)
	if q.Question == "" {
		return fmt.Errorf("question cannot be empty")
	}
	if q.TopK <= 0 {
		q.TopK = DefaultTopK
	}
	if q.TopK > MaxTopK {
		q.TopK = MaxTopK
	}
	if q.MaxTokens <= 0 {
		q.MaxTokens = DefaultMaxTokens
	}
	if q.MaxTokens > MaxMaxTokens {
		q.MaxTokens = MaxMaxTokens
	}
	if q.Temperature <= 0 {
		q.Temperature = DefaultTemperature
	}
	return nil
}

// WebSearchEnabled reports whether web search augmentation was requested.
// Defaults to true when unset.
func (q *QueryRequest) WebSearchEnabled() bool {
	if q.IncludeWebSearch != nil {
		return *q.IncludeWebSearch
	}
	return true
}
