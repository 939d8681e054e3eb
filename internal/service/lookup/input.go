package lookup

import (
	"fmt"
	"unicode/utf8"

	"github.com/heartmarshall/vibevocab/internal/domain"
)

// Input holds the parameters of a single-word lookup.
type Input struct {
	Query    string
	Language string
}

// validate cleans the input in place and checks it against the supported languages.
func (i *Input) validate(languages domain.LanguageSet, maxLen int) (domain.Language, error) {
	var errs []domain.FieldError

	i.Query = domain.CleanWord(i.Query)
	if i.Query == "" {
		errs = append(errs, domain.FieldError{Field: "query", Message: "required"})
	} else if utf8.RuneCountInString(i.Query) > maxLen {
		errs = append(errs, domain.FieldError{Field: "query", Message: fmt.Sprintf("too long (max %d)", maxLen)})
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
