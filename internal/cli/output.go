// Package cli provides output formatting for the command-line client.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hassaaali/research-chatbot/internal/models"
)

// OutputFormat selects how results are rendered.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseFormat validates a format string.
func ParseFormat(s string) (OutputFormat, error) {
	switch s {
	case "", "text":
		return OutputText, nil
	case "json":
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// WriteQueryResponse writes an answer with its sources to w.
func WriteQueryResponse(w io.Writer, response *models.QueryResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	fmt.Fprintf(w, "\n%s\n", response.Answer)
	if len(response.DocumentSources) > 0 {
		fmt.Fprintln(w, "\nSources:")
		for i, src := range response.DocumentSources {
			fmt.Fprintf(w, "  [%d] %s (similarity %.2f, %d chunks)\n      %s\n",
				i+1, src.DocumentID, src.Similarity, src.ChunkCount, src.Preview)
		}
	}
	if len(response.WebSources) > 0 {
		fmt.Fprintln(w, "\nWeb sources:")
		for _, src := range response.WebSources {
			fmt.Fprintf(w, "  - %s\n    %s\n", src.Title, src.URL)
		}
	}
	m := response.Metadata
	fmt.Fprintf(w, "\n(%s, confidence %.2f, %d chunks, model %s)\n",
		m.QueryType, m.Confidence, m.ChunksRetrieved, m.ModelUsed)
	if m.GenerationError {
		fmt.Fprintln(w, "note: generation failed; answer is extracted from retrieved text")
	}
	return nil
}

// WriteDocuments writes a document listing to w.
func WriteDocuments(w io.Writer, docs []*models.Document, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, docs)
	}
	if len(docs) == 0 {
		fmt.Fprintln(w, "No documents.")
		return nil
	}
	for _, d := range docs {
		fmt.Fprintf(w, "%s  %-10s  %3d chunks  %s\n", d.ID, d.Status, d.NumChunks, d.Filename)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
