package models

// Context source kinds.
const (
	SourceDocument = "document"
	SourceWeb      = "web"
)

// SearchHit is a single vector store search result. Derived per query, never persisted.
type SearchHit struct {
	Position   int     `json:"position"`
	DocumentID string  `json:"document_id"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Similarity float64 `json:"similarity"`
	Distance   float64 `json:"distance"`
}

// WebResult is a single result from the web search collaborator.
type WebResult struct {
	Title          string  `json:"title"`
	URL            string  `json:"url"`
	Snippet        string  `json:"snippet"`
	RelevanceScore float64 `json:"relevance_score"`
}

// ContextItem is one entry in the fused context forwarded to generation.
// Exactly one of the document fields (DocumentID, ChunkIndex) or the web
// fields (Title, URL) is populated, depending on SourceType.
type ContextItem struct {
	Text       string  `json:"text"`
	SourceType string  `json:"source_type"`
	Score      float64 `json:"score"`
	DocumentID string  `json:"document_id,omitempty"`
	ChunkIndex int     `json:"chunk_index,omitempty"`
	Title      string  `json:"title,omitempty"`
	URL        string  `json:"url,omitempty"`
}

// DocumentSource is a deduplicated per-document entry in the user-facing
// sources section.
type DocumentSource struct {
	DocumentID string  `json:"document_id"`
	Similarity float64 `json:"similarity"`
	ChunkCount int     `json:"chunk_count"`
	Preview    string  `json:"preview"`
}

// Classification is the advisory query category produced by the classifier.
type Classification struct {
	Category   string             `json:"category"`
	Confidence float64            `json:"confidence"`
	Scores     map[string]float64 `json:"scores,omitempty"`
}

// QueryMetadata describes how a response was produced.
type QueryMetadata struct {
	QueryType       string  `json:"query_type"`
	Confidence      float64 `json:"confidence"`
	ChunksRetrieved int     `json:"chunks_retrieved"`
	WebResults      int     `json:"web_results"`
	ModelUsed       string  `json:"model_used"`
	TokensUsed      int     `json:"tokens_used"`
	ContextLength   int     `json:"context_length"`
	GenerationError bool    `json:"generation_error,omitempty"`
	Error           string  `json:"error,omitempty"`
}

// QueryResponse is the final answer for a RAG query. Callers always receive a
// well-formed response; failures degrade the answer and set metadata flags.
type QueryResponse struct {
	Answer          string           `json:"answer"`
	DocumentSources []DocumentSource `json:"document_sources"`
	WebSources      []WebResult      `json:"web_sources"`
	Metadata        QueryMetadata    `json:"metadata"`
}

// SummaryResult is the outcome of summarizing a set of documents.
type SummaryResult struct {
	Summary        string `json:"summary"`
	DocumentCount  int    `json:"document_count"`
	ChunksAnalyzed int    `json:"chunks_analyzed"`
	ModelUsed      string `json:"model_used,omitempty"`
}
