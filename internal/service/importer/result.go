package importer

import "github.com/heartmarshall/vibevocab/internal/domain"

// Result is the outcome of a batch import. Per-word failures are only counted.
type Result struct {
	// Entries are the resolved candidates, or the saved entries when the import was committed.
	Entries []domain.SavedEntry
	// Requested is the number of unique words submitted.
	Requested int
	// Existing is the number of words skipped because they were already saved.
	Existing int
	// Failed is the number of words that could not be resolved.
	Failed int
	// Committed reports whether Entries were saved to the notebook.
	Committed bool
}
