package domain

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// TagAll is the filter sentinel that matches every saved entry.
	TagAll = "All"
	// TagImported is applied to batch-imported words when the caller supplies no tags.
	TagImported = "Imported"

	MaxTagLength    = 32
	MaxTagsPerEntry = 10
)

// DefaultTags is the tag catalog a fresh notebook starts with.
var DefaultTags = []string{"Daily", "Work", "Travel", "Academic", TagImported}

// SavedEntry is a word the user chose to keep, with its explanation and tags.
type SavedEntry struct {
	ID        uuid.UUID    `json:"id"`
	Word      string       `json:"word"`
	Entry     LexicalEntry `json:"entry"`
	Tags      []string     `json:"tags"`
	CreatedAt time.Time    `json:"createdAt"`
}

// Key returns the case-insensitive identity key of the entry.
func (s SavedEntry) Key() string {
	return WordKey(s.Word)
}

// HasTag reports whether the entry carries tag (case-insensitive).
// TagAll matches every entry.
func (s SavedEntry) HasTag(tag string) bool {
	if tag == TagAll {
		return true
	}
	for _, t := range s.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the entry.
func (s SavedEntry) Clone() SavedEntry {
	c := s
	c.Entry = s.Entry.Clone()
	c.Tags = slices.Clone(s.Tags)
	return c
}

// TagCount is the number of entries carrying a tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// NotebookSnapshot is the persisted state of one notebook.
type NotebookSnapshot struct {
	Entries []SavedEntry
	Tags    []string
}

// CleanTag trims a tag label and collapses inner whitespace.
func CleanTag(tag string) string {
	return strings.Join(strings.Fields(tag), " ")
}

// ValidateTag checks a single (already cleaned) tag label.
func ValidateTag(tag string) error {
	switch {
	case tag == "":
		return NewValidationError("tag", "required")
	case utf8.RuneCountInString(tag) > MaxTagLength:
		return NewValidationError("tag", "too long (max 32)")
	case strings.EqualFold(tag, TagAll):
		return NewValidationError("tag", "reserved")
	}
	return nil
}

// NormalizeTags cleans, validates, and deduplicates a tag list case-insensitively,
// keeping the first spelling seen. The result is sorted for stable output.
func NormalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = CleanTag(t)
		if err := ValidateTag(t); err != nil {
			return nil, err
		}
		k := strings.ToLower(t)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}
	if len(out) > MaxTagsPerEntry {
		return nil, NewValidationError("tags", "too many (max 10)")
	}
	slices.SortFunc(out, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	return out, nil
}
