package notebook

import "github.com/heartmarshall/vibevocab/internal/domain"

// TagsResult is the tag catalog plus live counts.
type TagsResult struct {
	Tags   []string
	Counts []domain.TagCount
}

// CommitResult reports what an import commit stored.
type CommitResult struct {
	Saved   []domain.SavedEntry
	Skipped []string
}
