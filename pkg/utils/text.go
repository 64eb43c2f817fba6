// Package utils provides shared utilities for text, math, and logging.
package utils

import "unicode/utf8"

// Truncate shortens s to at most max runes and appends "..." when it cuts.
// Counting runes keeps multi-byte text from being split mid-character.
// A max of 0 or less disables truncation.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
