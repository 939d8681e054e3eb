package study

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/vibevocab/internal/config"
	"github.com/heartmarshall/vibevocab/internal/domain"
)

// ---------------------------------------------------------------------------
// Manual mocks (moq-style with func fields)
// ---------------------------------------------------------------------------

type mockGenerator struct {
	GenerateFunc func(ctx context.Context, p domain.Prompt) (string, error)
	calls        int
}

func (m *mockGenerator) Generate(ctx context.Context, p domain.Prompt) (string, error) {
	m.calls++
	return m.GenerateFunc(ctx, p)
}

type mockNotebook struct {
	ListFunc func(ctx context.Context, tag string) ([]domain.SavedEntry, error)
}

func (m *mockNotebook) List(ctx context.Context, tag string) ([]domain.SavedEntry, error) {
	return m.ListFunc(ctx, tag)
}

func newTestService(gen generator, nb notebookLister) *Service {
	return NewService(slog.Default(), gen, nb, config.LookupConfig{Languages: []string{"en", "ja"}})
}

func TestFlashcards(t *testing.T) {
	t.Parallel()

	nb := &mockNotebook{ListFunc: func(_ context.Context, tag string) ([]domain.SavedEntry, error) {
		assert.Equal(t, "Daily", tag)
		return savedEntries("cat", "dog"), nil
	}}

	deck, err := newTestService(&mockGenerator{}, nb).Flashcards(context.Background(), FlashcardsInput{Tag: "Daily"})
	require.NoError(t, err)
	assert.Equal(t, 2, deck.Progress().Total)
}

func TestFlashcards_NotebookError(t *testing.T) {
	t.Parallel()

	nb := &mockNotebook{ListFunc: func(context.Context, string) ([]domain.SavedEntry, error) {
		return nil, domain.ErrUnauthorized
	}}

	_, err := newTestService(&mockGenerator{}, nb).Flashcards(context.Background(), FlashcardsInput{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestStory(t *testing.T) {
	t.Parallel()

	gen := &mockGenerator{GenerateFunc: func(_ context.Context, p domain.Prompt) (string, error) {
		assert.Contains(t, p.Instruction, "cat, dog")
		assert.Contains(t, p.Instruction, "Japanese")
		assert.Empty(t, p.Schema)
		return "  Once a **cat** met a **dog**.  \n", nil
	}}

	story, err := newTestService(gen, nil).Story(context.Background(), StoryInput{
		Words:    []string{" cat ", "dog", "Cat"},
		Language: "ja",
	})
	require.NoError(t, err)
	assert.Equal(t, "Once a **cat** met a **dog**.", story.Text)
	assert.Equal(t, []string{"cat", "dog"}, story.Words)
	assert.Equal(t, "ja", story.Language)
}

func TestStory_Validation(t *testing.T) {
	t.Parallel()

	many := make([]string, MaxStoryWords+1)
	for i := range many {
		many[i] = fmt.Sprintf("word%d", i)
	}

	tests := []struct {
		name  string
		input StoryInput
	}{
		{"no words", StoryInput{Words: []string{" "}, Language: "en"}},
		{"too many words", StoryInput{Words: many, Language: "en"}},
		{"unsupported language", StoryInput{Words: []string{"cat"}, Language: "ko"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gen := &mockGenerator{}
			_, err := newTestService(gen, nil).Story(context.Background(), tt.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Zero(t, gen.calls)
		})
	}
}

func TestStory_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		reply string
		err   error
		want  error
	}{
		{"no credentials", "", domain.ErrNoCredentials, domain.ErrConfigMissing},
		{"upstream", "", errors.New("timeout"), domain.ErrUpstreamFailure},
		{"empty", "   ", nil, domain.ErrUpstreamFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gen := &mockGenerator{GenerateFunc: func(context.Context, domain.Prompt) (string, error) {
				return tt.reply, tt.err
			}}
			_, err := newTestService(gen, nil).Story(context.Background(), StoryInput{Words: []string{"cat"}, Language: "en"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
