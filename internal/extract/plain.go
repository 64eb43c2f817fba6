package extract

import (
	"bytes"
	"unicode/utf8"
)

// extractPlain passes the bytes through as text. Invalid UTF-8 sequences
// are mapped to U+FFFD so downstream chunking always sees valid runes.
func extractPlain(content []byte) (string, error) {
	if utf8.Valid(content) {
		return string(content), nil
	}
	return string(bytes.ToValidUTF8(content, []byte("�"))), nil
}
