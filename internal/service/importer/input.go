package importer

import (
	"fmt"

	"github.com/heartmarshall/vibevocab/internal/domain"
)

// Input holds the parameters of a batch import.
type Input struct {
	Words    []string
	Language string
	// Tags applied to every resolved word. Empty means the configured default tag.
	Tags []string
	// Commit saves the resolved candidates once the whole batch has settled.
	Commit bool
}

// prepare validates the input and returns the cleaned, case-insensitively unique words
// in their original order together with the normalized tags. On success i.Language
// holds the canonical language code.
func (i *Input) prepare(languages domain.LanguageSet, maxWords int, defaultTag string) ([]string, []string, error) {
	var errs []domain.FieldError

	words := uniqueWords(i.Words)
	switch {
	case len(words) == 0:
		errs = append(errs, domain.FieldError{Field: "words", Message: "required"})
	case len(words) > maxWords:
		errs = append(errs, domain.FieldError{Field: "words", Message: fmt.Sprintf("too many (max %d)", maxWords)})
	}

	if lang, ok := languages.Get(i.Language); ok {
		i.Language = lang.Code
	} else if i.Language == "" {
		errs = append(errs, domain.FieldError{Field: "language", Message: "required"})
	} else {
		errs = append(errs, domain.FieldError{Field: "language", Message: "unsupported"})
	}

	raw := i.Tags
	if len(raw) == 0 {
		raw = []string{defaultTag}
	}
	tags, err := domain.NormalizeTags(raw)
	if err != nil {
		errs = append(errs, domain.FieldError{Field: "tags", Message: err.Error()})
	}

	if len(errs) > 0 {
		return nil, nil, domain.NewValidationErrors(errs)
	}
	return words, tags, nil
}

func uniqueWords(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, w := range in {
		w = domain.CleanWord(w)
		k := domain.WordKey(w)
		if w == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, w)
	}
	return out
}
