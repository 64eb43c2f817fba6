package indexer

import (
	"strings"
	"testing"
)

func TestChunkEmpty(t *testing.T) {
	c := NewChunker(10, 2)
	if chunks := c.Chunk(""); chunks != nil {
		t.Errorf("Chunk(\"\") = %v, want nil", chunks)
	}
	if chunks := c.Chunk("   \n\t  "); chunks != nil {
		t.Errorf("Chunk(whitespace) = %v, want nil", chunks)
	}
}

func TestChunkSingleWindow(t *testing.T) {
	c := NewChunker(10, 2)
	chunks := c.Chunk("one two three")
	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1", len(chunks))
	}
	got := chunks[0]
	if got.Text != "one two three" || got.Index != 0 || got.StartPos != 0 {
		t.Errorf("chunk = %+v", got)
	}
	if got.Size != len(got.Text) {
		t.Errorf("Size = %d, want %d", got.Size, len(got.Text))
	}
}

func TestChunkOverlap(t *testing.T) {
	words := make([]string, 10)
	for i := range words {
		words[i] = string(rune('a' + i))
	}
	c := NewChunker(4, 2)
	chunks := c.Chunk(strings.Join(words, " "))

	// Step is 2, so windows start at words 0, 2, 4, 6 and the last covers the tail.
	if len(chunks) != 4 {
		t.Fatalf("len(chunks) = %d, want 4", len(chunks))
	}
	if chunks[0].Text != "a b c d" {
		t.Errorf("chunks[0].Text = %q", chunks[0].Text)
	}
	if chunks[1].Text != "c d e f" {
		t.Errorf("chunks[1].Text = %q", chunks[1].Text)
	}
	if chunks[3].Text != "g h i j" {
		t.Errorf("chunks[3].Text = %q", chunks[3].Text)
	}
	for i, ch := range chunks {
		if ch.Index != i {
			t.Errorf("chunks[%d].Index = %d", i, ch.Index)
		}
	}
	// Chunks start every 2 words; single-letter words joined by spaces.
	if chunks[1].StartPos != 4 || chunks[2].StartPos != 8 {
		t.Errorf("StartPos = %d, %d; want 4, 8", chunks[1].StartPos, chunks[2].StartPos)
	}
}

func TestChunkDegenerateOverlap(t *testing.T) {
	// Overlap >= size must still advance.
	c := NewChunker(2, 5)
	chunks := c.Chunk("a b c d")
	if len(chunks) == 0 {
		t.Fatal("no chunks produced")
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].StartPos <= chunks[i-1].StartPos {
			t.Fatalf("chunk %d does not advance: %d <= %d", i, chunks[i].StartPos, chunks[i-1].StartPos)
		}
	}
}

func TestChunkNormalizesWhitespace(t *testing.T) {
	c := NewChunker(10, 0)
	chunks := c.Chunk("  hello\n\nworld\ttabs  ")
	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1", len(chunks))
	}
	if chunks[0].Text != "hello world tabs" {
		t.Errorf("Text = %q", chunks[0].Text)
	}
}

func TestPreprocess(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  a  b  ", "a b"},
		{"line1\nline2", "line1 line2"},
		{"one", "one"},
	}
	for _, tt := range tests {
		if got := Preprocess(tt.in); got != tt.want {
			t.Errorf("Preprocess(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
