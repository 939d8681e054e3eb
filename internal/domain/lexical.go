package domain

import "slices"

// LexicalEntry is the structured explanation of one word returned by the AI collaborator.
// It is treated as immutable once built; holders that need to modify it work on a Clone.
type LexicalEntry struct {
	Query             string        `json:"query"`
	CorrectedSpelling string        `json:"correctedSpelling,omitempty"`
	SourceLanguage    string        `json:"sourceLanguage,omitempty"`
	Meanings          []Meaning     `json:"meanings"`
	Patterns          []string      `json:"patterns"`
	Vibe              Vibe          `json:"vibe"`
	Etymology         Etymology     `json:"etymology"`
	Synonyms          []string      `json:"synonyms"`
	Antonyms          []string      `json:"antonyms"`
	MovieQuotes       []MovieQuote  `json:"movieQuotes"`
	Examples          []ExamplePair `json:"examples"`
	// Placeholder marks the offline card built when the collaborator is unavailable.
	// Placeholders are shown, never saved.
	Placeholder bool `json:"placeholder,omitempty"`
}

// Meaning pairs a part of speech with one explanation.
type Meaning struct {
	PartOfSpeech string `json:"partOfSpeech"`
	Meaning      string `json:"meaning"`
}

// Vibe describes the feel and register of a word.
type Vibe struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// Etymology breaks a word into fragments with a short origin story.
type Etymology struct {
	Fragments []EtymologyFragment `json:"fragments"`
	Narrative string              `json:"narrative"`
}

// EtymologyFragment is one root, prefix, or suffix.
type EtymologyFragment struct {
	Fragment string `json:"fragment"`
	Type     string `json:"type"`
	Meaning  string `json:"meaning"`
}

// MovieQuote is a film line that uses the word.
type MovieQuote struct {
	Title string `json:"title"`
	Quote string `json:"quote"`
}

// ExamplePair is an example sentence and its translation into the explanation language.
type ExamplePair struct {
	Original   string `json:"original"`
	Translated string `json:"translated"`
}

// Word returns the effective word of the entry: the corrected spelling when one was detected.
func (e LexicalEntry) Word() string {
	if e.CorrectedSpelling != "" {
		return e.CorrectedSpelling
	}
	return e.Query
}

// IsEmpty reports whether the entry carries no usable explanation.
func (e LexicalEntry) IsEmpty() bool {
	return len(e.Meanings) == 0
}

// Clone returns a deep copy so that stored entries never share slices with callers.
func (e LexicalEntry) Clone() LexicalEntry {
	c := e
	c.Meanings = slices.Clone(e.Meanings)
	c.Patterns = slices.Clone(e.Patterns)
	c.Vibe.Tags = slices.Clone(e.Vibe.Tags)
	c.Etymology.Fragments = slices.Clone(e.Etymology.Fragments)
	c.Synonyms = slices.Clone(e.Synonyms)
	c.Antonyms = slices.Clone(e.Antonyms)
	c.MovieQuotes = slices.Clone(e.MovieQuotes)
	c.Examples = slices.Clone(e.Examples)
	return c
}

// LookupResult is what a single-word lookup hands back to the caller.
type LookupResult struct {
	Entry LexicalEntry `json:"entry"`
	// Input is the query exactly as the user typed it.
	Input string `json:"input"`
	// Corrected is set when the collaborator reported a misspelling and
	// Entry.Query was replaced by the corrected spelling.
	Corrected bool `json:"corrected"`
	// Fallback marks a locally built placeholder returned because the collaborator was unavailable.
	Fallback bool   `json:"fallback"`
	Language string `json:"language"`
}

// CorrectionNotice returns the user-facing "corrected from X to Y" line, or "" when no correction happened.
func (r LookupResult) CorrectionNotice() string {
	if !r.Corrected {
		return ""
	}
	return "corrected from " + r.Input + " to " + r.Entry.Query
}
