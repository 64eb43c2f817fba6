package rag

import (
	"strings"

	"github.com/hassaaali/research-chatbot/internal/models"
)

// category is a classifier bucket: a name and its keyword list. Buckets are
// evaluated in declaration order; ties go to the earlier bucket.
type category struct {
	name     string
	keywords []string
}

var categories = []category{
	{"definition", []string{"what is", "define", "definition", "meaning", "explain"}},
	{"comparison", []string{"compare", "difference", "versus", "vs", "similar", "different"}},
	{"summary", []string{"summarize", "summary", "overview", "main points", "key findings"}},
	{"methodology", []string{"methodology", "method", "approach", "procedure", "how"}},
	{"results", []string{"results", "findings", "outcomes", "conclusions"}},
	{"analysis", []string{"analyze", "analysis", "evaluate", "assessment"}},
}

// Classify assigns an advisory category to a query by keyword-bucket scoring:
// each bucket scores matched keywords over bucket size, the highest score
// wins. A query matching nothing is "general" with confidence 0.5. The result
// is response metadata only and never gates retrieval or generation.
func Classify(query string) models.Classification {
	lower := strings.ToLower(query)

	scores := make(map[string]float64)
	best := ""
	bestScore := 0.0
	for _, cat := range categories {
		matched := 0
		for _, kw := range cat.keywords {
			if strings.Contains(lower, kw) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}
		score := float64(matched) / float64(len(cat.keywords))
		scores[cat.name] = score
		if score > bestScore {
			best = cat.name
			bestScore = score
		}
	}

	if best == "" {
		return models.Classification{Category: "general", Confidence: 0.5}
	}
	return models.Classification{Category: best, Confidence: bestScore, Scores: scores}
}
