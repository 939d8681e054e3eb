package notebook

import (
	"fmt"

	"github.com/heartmarshall/vibevocab/internal/domain"
)

// SaveInput holds the parameters for saving one word.
type SaveInput struct {
	Word  string
	Entry domain.LexicalEntry
	Tags  []string
}

// Validate checks all fields and collects all errors.
func (i *SaveInput) Validate() error {
	var errs []domain.FieldError

	if domain.CleanWord(i.Word) == "" {
		errs = append(errs, domain.FieldError{Field: "word", Message: "required"})
	}
	if msg := checkEntry(i.Entry); msg != "" {
		errs = append(errs, domain.FieldError{Field: "entry", Message: msg})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func validateCandidates(candidates []domain.SavedEntry) error {
	var errs []domain.FieldError
	for i, c := range candidates {
		if domain.CleanWord(c.Word) == "" {
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("entries[%d].word", i), Message: "required"})
		}
		if msg := checkEntry(c.Entry); msg != "" {
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("entries[%d].entry", i), Message: msg})
		}
		if _, err := domain.NormalizeTags(c.Tags); err != nil {
			errs = append(errs, domain.FieldError{Field: fmt.Sprintf("entries[%d].tags", i), Message: err.Error()})
		}
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// checkEntry returns why entry cannot be stored, or "".
func checkEntry(entry domain.LexicalEntry) string {
	switch {
	case entry.Placeholder:
		return "is an offline placeholder"
	case entry.IsEmpty():
		return "has no meanings"
	}
	return ""
}
