package study

import (
	"fmt"

	"github.com/heartmarshall/vibevocab/internal/domain"
)

// MaxStoryWords caps how many words one story may weave in.
const MaxStoryWords = 20

// FlashcardsInput holds the parameters for building a deck.
type FlashcardsInput struct {
	// Tag selects the entries; empty or "All" means every entry.
	Tag string
	// Seed shuffles the deck deterministically. Zero keeps notebook order.
	Seed uint64
}

// StoryInput holds the parameters for a practice story.
type StoryInput struct {
	Words    []string
	Language string
}

// validate cleans the words in place and resolves the language.
func (i *StoryInput) validate(languages domain.LanguageSet) (domain.Language, error) {
	var errs []domain.FieldError

	words := make([]string, 0, len(i.Words))
	seen := make(map[string]bool, len(i.Words))
	for _, w := range i.Words {
		w = domain.CleanWord(w)
		if w == "" || seen[domain.WordKey(w)] {
			continue
		}
		seen[domain.WordKey(w)] = true
		words = append(words, w)
	}
	i.Words = words

	switch {
	case len(words) == 0:
		errs = append(errs, domain.FieldError{Field: "words", Message: "required"})
	case len(words) > MaxStoryWords:
		errs = append(errs, domain.FieldError{Field: "words", Message: fmt.Sprintf("too many (max %d)", MaxStoryWords)})
	}

	lang, ok := languages.Get(i.Language)
	if !ok {
		errs = append(errs, domain.FieldError{Field: "language", Message: "unsupported"})
	}

	if len(errs) > 0 {
		return domain.Language{}, domain.NewValidationErrors(errs)
	}
	return lang, nil
}
