package lookup

import (
	"fmt"

	"github.com/heartmarshall/vibevocab/internal/domain"
)

// entrySchema is the JSON shape requested from the collaborator.
const entrySchema = `{
  "query": "<the word as given>",
  "isMisspelled": <true|false>,
  "correctedSpelling": "<correct spelling, or empty when not misspelled>",
  "sourceLanguage": "<BCP 47 tag of the word's language>",
  "meanings": [{"partOfSpeech": "<noun|verb|adjective|...>", "meaning": "<explanation>"}],
  "patterns": ["<common collocation or pattern>"],
  "vibe": {"title": "<short title>", "content": "<how the word feels and when natives use it>", "tags": ["<register or mood>"]},
  "etymology": {
    "fragments": [{"fragment": "<root/prefix/suffix>", "type": "<prefix|root|suffix>", "meaning": "<meaning>"}],
    "narrative": "<short origin story>"
  },
  "synonyms": ["<word>"],
  "antonyms": ["<word>"],
  "movieQuotes": [{"title": "<film>", "quote": "<line using the word>"}],
  "examples": [{"original": "<sentence in the source language>", "translated": "<translation>"}]
}`

func buildLookupPrompt(query string, lang domain.Language) domain.Prompt {
	instruction := fmt.Sprintf(`Explain the word or phrase "%s" to a language learner.

Write every explanation, meaning, vibe, narrative and translation in %s (%s).
Keep "query", synonyms, antonyms, patterns, movie quotes and example originals in the word's own language.

Rules:
- If the input looks like a typo, set "isMisspelled" to true and put the intended word in "correctedSpelling"; explain the corrected word.
- Give 1-4 meanings, most common first.
- Give 2-3 natural example sentences.
- Movie quotes must be real and recognizable; leave the list empty if unsure.
- Break the etymology into fragments only when the word has clear parts.`, query, lang.Name, lang.Code)

	return domain.Prompt{
		Instruction: instruction,
		Schema:      entrySchema,
	}
}
