package lookup

import (
	"errors"

	"github.com/heartmarshall/vibevocab/internal/domain"
)

// fallbackEntry builds the static placeholder shown when the collaborator is unavailable.
func fallbackEntry(query string, kind error) domain.LexicalEntry {
	content := "The explanation service did not answer. Try the word again in a moment."
	if errors.Is(kind, domain.ErrConfigMissing) {
		content = "No API key is configured for the explanation service, so only this placeholder is available."
	}

	return domain.LexicalEntry{
		Query: query,
		Meanings: []domain.Meaning{
			{PartOfSpeech: "", Meaning: "Explanation unavailable."},
		},
		Vibe: domain.Vibe{
			Title:   "Offline card",
			Content: content,
			Tags:    []string{"fallback"},
		},
		Placeholder: true,
	}
}
