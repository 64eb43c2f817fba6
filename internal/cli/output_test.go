package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hassaaali/research-chatbot/internal/models"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputText, false},
		{"text", OutputText, false},
		{"json", OutputJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func sampleResponse() *models.QueryResponse {
	return &models.QueryResponse{
		Answer: "The answer.",
		DocumentSources: []models.DocumentSource{
			{DocumentID: "doc1", Similarity: 0.92, ChunkCount: 3, Preview: "preview text"},
		},
		WebSources: []models.WebResult{
			{Title: "Paper", URL: "https://arxiv.org/abs/1"},
		},
		Metadata: models.QueryMetadata{QueryType: "definition", Confidence: 0.4, ChunksRetrieved: 3, ModelUsed: "gpt-4o-mini"},
	}
}

func TestWriteQueryResponseText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteQueryResponse(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatalf("WriteQueryResponse() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"The answer.", "doc1", "arxiv.org", "definition"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteQueryResponseJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteQueryResponse(&buf, sampleResponse(), OutputJSON); err != nil {
		t.Fatalf("WriteQueryResponse() error = %v", err)
	}
	var decoded models.QueryResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Answer != "The answer." {
		t.Errorf("Answer = %q", decoded.Answer)
	}
}

func TestWriteDocuments(t *testing.T) {
	var buf bytes.Buffer
	docs := []*models.Document{
		{ID: "id1", Filename: "a.pdf", Status: models.DocumentStatusIndexed, NumChunks: 4},
	}
	if err := WriteDocuments(&buf, docs, OutputText); err != nil {
		t.Fatalf("WriteDocuments() error = %v", err)
	}
	if !strings.Contains(buf.String(), "a.pdf") || !strings.Contains(buf.String(), "indexed") {
		t.Errorf("output = %q", buf.String())
	}

	buf.Reset()
	if err := WriteDocuments(&buf, nil, OutputText); err != nil {
		t.Fatalf("WriteDocuments() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No documents") {
		t.Errorf("output = %q", buf.String())
	}
}
