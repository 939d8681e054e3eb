package lookup

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/heartmarshall/vibevocab/internal/domain"
)

var errNoMeanings = errors.New("response has no meanings")

// wireEntry mirrors the requested schema. Every field is optional on the wire.
type wireEntry struct {
	Query             string   `json:"query"`
	IsMisspelled      bool     `json:"isMisspelled"`
	CorrectedSpelling string   `json:"correctedSpelling"`
	SourceLanguage    string   `json:"sourceLanguage"`
	Meanings          []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Meaning      string `json:"meaning"`
	} `json:"meanings"`
	Patterns []string `json:"patterns"`
	Vibe     *struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
	} `json:"vibe"`
	Etymology *struct {
		Fragments []struct {
			Fragment string `json:"fragment"`
			Type     string `json:"type"`
			Meaning  string `json:"meaning"`
		} `json:"fragments"`
		Narrative string `json:"narrative"`
	} `json:"etymology"`
	Synonyms    []string `json:"synonyms"`
	Antonyms    []string `json:"antonyms"`
	MovieQuotes []struct {
		Title string `json:"title"`
		Quote string `json:"quote"`
	} `json:"movieQuotes"`
	Examples []struct {
		Original   string `json:"original"`
		Translated string `json:"translated"`
	} `json:"examples"`
}

// parsed is a validated collaborator reply.
type parsed struct {
	entry      domain.LexicalEntry
	correction string
}

// parseEntry decodes and validates a reply. Partially populated replies are
// accepted as long as at least one meaning survives cleaning; anything else fails closed.
func parseEntry(raw, query string) (parsed, error) {
	var w wireEntry
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return parsed{}, fmt.Errorf("decode entry: %w", err)
	}

	e := domain.LexicalEntry{
		Query:          query,
		SourceLanguage: strings.TrimSpace(w.SourceLanguage),
		Patterns:       cleanList(w.Patterns),
		Synonyms:       cleanList(w.Synonyms),
		Antonyms:       cleanList(w.Antonyms),
	}

	for _, m := range w.Meanings {
		text := strings.TrimSpace(m.Meaning)
		if text == "" {
			continue
		}
		e.Meanings = append(e.Meanings, domain.Meaning{
			PartOfSpeech: strings.ToLower(strings.TrimSpace(m.PartOfSpeech)),
			Meaning:      text,
		})
	}
	if len(e.Meanings) == 0 {
		return parsed{}, errNoMeanings
	}

	if w.Vibe != nil {
		e.Vibe = domain.Vibe{
			Title:   strings.TrimSpace(w.Vibe.Title),
			Content: strings.TrimSpace(w.Vibe.Content),
			Tags:    cleanList(w.Vibe.Tags),
		}
	}

	if w.Etymology != nil {
		e.Etymology.Narrative = strings.TrimSpace(w.Etymology.Narrative)
		for _, f := range w.Etymology.Fragments {
			frag := strings.TrimSpace(f.Fragment)
			if frag == "" {
				continue
			}
			e.Etymology.Fragments = append(e.Etymology.Fragments, domain.EtymologyFragment{
				Fragment: frag,
				Type:     strings.TrimSpace(f.Type),
				Meaning:  strings.TrimSpace(f.Meaning),
			})
		}
	}

	for _, q := range w.MovieQuotes {
		quote := strings.TrimSpace(q.Quote)
		if quote == "" {
			continue
		}
		e.MovieQuotes = append(e.MovieQuotes, domain.MovieQuote{Title: strings.TrimSpace(q.Title), Quote: quote})
	}

	for _, ex := range w.Examples {
		orig := strings.TrimSpace(ex.Original)
		if orig == "" {
			continue
		}
		e.Examples = append(e.Examples, domain.ExamplePair{Original: orig, Translated: strings.TrimSpace(ex.Translated)})
	}

	var correction string
	if w.IsMisspelled {
		c := domain.CleanWord(w.CorrectedSpelling)
		if c != "" && !domain.SameWord(c, query) {
			correction = c
		}
	}

	return parsed{entry: e, correction: correction}, nil
}

// cleanList trims items and drops empty and case-insensitive duplicate ones.
func cleanList(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		k := strings.ToLower(s)
		if s == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}
