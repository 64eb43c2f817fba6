package rag

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hassaaali/research-chatbot/internal/config"
	"github.com/hassaaali/research-chatbot/internal/llm"
	"github.com/hassaaali/research-chatbot/internal/models"
	"github.com/hassaaali/research-chatbot/internal/store"
	"github.com/hassaaali/research-chatbot/internal/websearch"
	"github.com/hassaaali/research-chatbot/pkg/utils"
)

// Engine runs the query-to-answer pipeline: retrieve, fuse, classify,
// generate. Every failure path yields a degraded but well-formed response;
// callers never see a low-level error for anything past input validation.
type Engine struct {
	store        *store.Store
	generator    llm.Generator // nil means extractive answers only
	searcher     websearch.Searcher
	threshold    float64
	webEnabled   bool
	webResults   int
	academicOnly bool
	logger       *zap.Logger
}

// NewEngine creates an engine with the given dependencies. generator may be
// nil, in which case answers are always extractive.
func NewEngine(
	st *store.Store,
	generator llm.Generator,
	searcher websearch.Searcher,
	searchCfg *config.SearchConfig,
	webCfg *config.WebSearchConfig,
	logger *zap.Logger,
) *Engine {
	if searcher == nil {
		searcher = websearch.Disabled{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		store:        st,
		generator:    generator,
		searcher:     searcher,
		threshold:    searchCfg.SimilarityThreshold,
		webEnabled:   webCfg.Enabled,
		webResults:   webCfg.MaxResults,
		academicOnly: webCfg.AcademicOnlyOrDefault(),
		logger:       logger,
	}
}

// Query answers a question over the indexed corpus, optionally augmented with
// web results. Returns an error only for invalid input.
func (e *Engine) Query(ctx context.Context, req *models.QueryRequest) (*models.QueryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		hits       []models.SearchHit
		webResults []models.WebResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hits, err = e.store.Search(gctx, req.Question, req.TopK, req.DocumentIDs, e.threshold)
		return err
	})
	if e.webEnabled && req.WebSearchEnabled() {
		g.Go(func() error {
			results, err := e.searcher.Search(gctx, req.Question, e.webResults, e.academicOnly)
			if err != nil {
				// Web search is best-effort; failure means zero results.
				e.logger.Warn("web search failed", zap.Error(err))
				return nil
			}
			webResults = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.logger.Error("retrieval failed", zap.Error(err))
		return e.degradedResponse(err), nil
	}

	items := BuildContext(hits, webResults)
	classification := Classify(req.Question)
	topItems := TopContext(items)

	answer, model, tokens, genFailed := e.generate(ctx, req, topItems)

	// Context admission is capped in BuildContext; the response carries
	// every retrieved web result so clients can cite all of them.
	return &models.QueryResponse{
		Answer:          answer,
		DocumentSources: DedupSources(hits),
		WebSources:      webResults,
		Metadata: models.QueryMetadata{
			QueryType:       classification.Category,
			Confidence:      classification.Confidence,
			ChunksRetrieved: len(hits),
			WebResults:      len(webResults),
			ModelUsed:       model,
			TokensUsed:      tokens,
			ContextLength:   len(items),
			GenerationError: genFailed,
		},
	}, nil
}

// generate calls the generation gateway and falls back to a local extractive
// answer on failure. The returned bool reports whether generation failed.
func (e *Engine) generate(ctx context.Context, req *models.QueryRequest, items []models.ContextItem) (answer, model string, tokens int, failed bool) {
	if e.generator == nil {
		return extractiveAnswer(items), "extractive", 0, false
	}
	res, err := e.generator.Generate(ctx, req.Question, items, llm.Options{
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		e.logger.Warn("generation failed, using extractive fallback", zap.Error(err))
		return extractiveAnswer(items), "fallback", 0, true
	}
	return res.Text, res.Model, res.TokensUsed, false
}

// extractiveAnswer concatenates the top context snippets with a disclaimer.
func extractiveAnswer(items []models.ContextItem) string {
	if len(items) == 0 {
		return "I don't have enough information in the uploaded documents to answer your question. " +
			"Please make sure you've uploaded relevant research papers."
	}
	answer := "Based on the research papers, here's what I found:\n\n"
	n := len(items)
	if n > 3 {
		n = 3
	}
	for i := 0; i < n; i++ {
		answer += fmt.Sprintf("%s [%d]\n\n", utils.Truncate(items[i].Text, 200), i+1)
	}
	return answer
}

// degradedResponse is the well-formed answer returned when retrieval itself
// fails.
func (e *Engine) degradedResponse(err error) *models.QueryResponse {
	return &models.QueryResponse{
		Answer: "I apologize, but I encountered an error while processing your question. Please try again.",
		Metadata: models.QueryMetadata{
			QueryType:  "general",
			Confidence: 0.5,
			Error:      err.Error(),
		},
	}
}

// cannedQuestions is the static suggestion list served once any relevant
// chunk exists. Suggestion generation is not content-aware.
var cannedQuestions = []string{
	"What are the main findings discussed in these papers?",
	"Can you summarize the methodology used?",
	"What are the key conclusions?",
}

// SimilarQuestions returns follow-up question suggestions when the corpus has
// content relevant to the given question, and none otherwise.
func (e *Engine) SimilarQuestions(ctx context.Context, question string, documentIDs []string) ([]string, error) {
	hits, err := e.store.Search(ctx, question, 3, documentIDs, e.threshold)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}
	return cannedQuestions, nil
}

// summaryQuery retrieves representative chunks; summaryPrompt asks for the synthesis.
const (
	summaryQuery  = "summary main findings conclusions"
	summaryPrompt = "Please provide a comprehensive summary of these research papers, " +
		"highlighting the main findings, methodologies, and conclusions."
)

// SummarizeDocuments generates a summary over representative chunks of the
// given documents.
func (e *Engine) SummarizeDocuments(ctx context.Context, documentIDs []string) (*models.SummaryResult, error) {
	if len(documentIDs) == 0 {
		return nil, fmt.Errorf("document ids cannot be empty")
	}

	var items []models.ContextItem
	for _, docID := range documentIDs {
		hits, err := e.store.Search(ctx, summaryQuery, 3, []string{docID}, 0)
		if err != nil {
			return nil, err
		}
		for _, h := range hits {
			items = append(items, models.ContextItem{
				Text:       h.Text,
				SourceType: models.SourceDocument,
				Score:      h.Similarity,
				DocumentID: h.DocumentID,
				ChunkIndex: h.ChunkIndex,
			})
		}
	}
	if len(items) == 0 {
		return &models.SummaryResult{
			Summary:       "No content found in the specified documents.",
			DocumentCount: len(documentIDs),
		}, nil
	}

	result := &models.SummaryResult{
		DocumentCount:  len(documentIDs),
		ChunksAnalyzed: len(items),
	}
	if e.generator == nil {
		result.Summary = extractiveAnswer(items)
		result.ModelUsed = "extractive"
		return result, nil
	}
	res, err := e.generator.Generate(ctx, summaryPrompt, items, llm.Options{MaxTokens: 1024, Temperature: 0.5})
	if err != nil {
		e.logger.Warn("summary generation failed, using extractive fallback", zap.Error(err))
		result.Summary = extractiveAnswer(items)
		result.ModelUsed = "fallback"
		return result, nil
	}
	result.Summary = res.Text
	result.ModelUsed = res.Model
	return result, nil
}

// Stats exposes the underlying vector store statistics.
func (e *Engine) Stats() models.StoreStats {
	return e.store.Stats()
}
