package websearch

import (
	"strings"

	"github.com/hassaaali/research-chatbot/internal/models"
)

// academicDomains boost a result's relevance when present in its URL.
var academicDomains = []string{
	"scholar.google.com",
	"arxiv.org",
	"pubmed.ncbi.nlm.nih.gov",
	"researchgate.net",
}

// AcademicQuery augments a query to favor academic sources.
func AcademicQuery(query string) string {
	sites := make([]string, len(academicDomains))
	for i, d := range academicDomains {
		sites[i] = "site:" + d
	}
	return query + " " + strings.Join(sites, " OR ")
}

// RelevanceScore assigns a heuristic relevance in [0,1]: base 0.5, +0.3 for an
// academic domain, +0.1 each for a substantive title and snippet.
func RelevanceScore(r models.WebResult) float64 {
	score := 0.5
	for _, domain := range academicDomains {
		if strings.Contains(r.URL, domain) {
			score += 0.3
			break
		}
	}
	if len(r.Title) > 20 {
		score += 0.1
	}
	if len(r.Snippet) > 50 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
