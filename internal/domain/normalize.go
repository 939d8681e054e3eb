package domain

import (
	"strings"
	"unicode"
)

// NormalizeText prepares text for storage and comparison:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses runs of whitespace into a single space
//
// Diacritics, hyphens, and apostrophes are preserved.
func NormalizeText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteRune(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// WordKey is the identity key of a notebook word. Every comparison of words
// (insert, remove, lookup, import dedup) goes through it.
func WordKey(word string) string {
	return NormalizeText(word)
}

// SameWord reports whether a and b name the same notebook word.
func SameWord(a, b string) bool {
	return WordKey(a) == WordKey(b)
}

// CleanWord trims a user-supplied word and collapses inner whitespace,
// keeping its original casing for display.
func CleanWord(word string) string {
	return strings.Join(strings.Fields(word), " ")
}
