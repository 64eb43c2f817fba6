package llm

import (
	"fmt"
	"strings"

	"github.com/hassaaali/research-chatbot/internal/models"
)

const (
	// maxPromptContexts bounds how many context items enter the prompt.
	maxPromptContexts = 5
	// maxContextChars bounds each context item's contribution.
	maxContextChars = 500
)

const systemPrompt = "You are a research assistant helping users understand academic papers. " +
	"Use the provided context to answer questions accurately and comprehensively."

// BuildPrompt formats the query and ranked context into a generation prompt
// with numbered sources for citation.
func BuildPrompt(query string, contextItems []models.ContextItem) string {
	var b strings.Builder
	b.WriteString("Context from research papers:\n")
	n := len(contextItems)
	if n > maxPromptContexts {
		n = maxPromptContexts
	}
	for i := 0; i < n; i++ {
		item := contextItems[i]
		text := item.Text
		if len(text) > maxContextChars {
			text = text[:maxContextChars]
		}
		source := item.DocumentID
		if item.SourceType == models.SourceWeb {
			source = item.Title
		}
		if source == "" {
			source = "Unknown"
		}
		fmt.Fprintf(&b, "[%d] From %s: %s\n\n", i+1, source, text)
	}

	fmt.Fprintf(&b, "Question: %s\n\n", query)
	b.WriteString(`Instructions:
- Provide a detailed, accurate answer based on the context
- Include specific references using [1], [2], etc. when citing sources
- If the context doesn't contain enough information, say so clearly
- Use clear, academic language but keep it accessible
- Focus on the most relevant information

Answer:`)
	return b.String()
}

// CleanResponse strips prompt echoes and boilerplate prefixes from a
// generated answer.
func CleanResponse(response, prompt string) string {
	response = strings.ReplaceAll(response, prompt, "")
	response = strings.TrimSpace(response)
	for _, prefix := range []string{"Answer:", "Response:", "A:", "Based on the context,"} {
		if strings.HasPrefix(response, prefix) {
			response = strings.TrimSpace(strings.TrimPrefix(response, prefix))
		}
	}
	for strings.Contains(response, "\n\n\n") {
		response = strings.ReplaceAll(response, "\n\n\n", "\n\n")
	}
	return response
}

// EstimateTokens roughly estimates the token count of text (~4 chars/token).
func EstimateTokens(text string) int {
	return len(text) / 4
}
