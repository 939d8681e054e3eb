// Package scan recognizes candidate words in a photographed word list.
package scan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"unicode"

	"github.com/heartmarshall/vibevocab/internal/config"
	"github.com/heartmarshall/vibevocab/internal/domain"
)

// SupportedMIMETypes are the image formats the collaborator accepts.
var SupportedMIMETypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

const wordsSchema = `{"words": ["<word or short phrase>"]}`

const scanInstruction = `The image shows a vocabulary list, a page of notes, or a printed text.
Extract every distinct word or short phrase a learner would want to look up.
Keep the original spelling, drop numbering, bullets, page numbers and punctuation.
Do not translate or explain anything.`

type generator interface {
	Generate(ctx context.Context, p domain.Prompt) (string, error)
}

// Service extracts words from images through the AI collaborator.
type Service struct {
	log      *slog.Logger
	gen      generator
	maxWords int
	maxBytes int64
}

// NewService creates a scan service.
func NewService(logger *slog.Logger, gen generator, cfg config.ImportConfig) *Service {
	return &Service{
		log:      logger.With("service", "scan"),
		gen:      gen,
		maxWords: cfg.MaxWords,
		maxBytes: int64(cfg.MaxImageMB) << 20,
	}
}

// MaxBytes returns the largest accepted image size.
func (s *Service) MaxBytes() int64 { return s.maxBytes }

// ExtractWords returns the recognized words in reading order, deduplicated
// case-insensitively and capped at the import word limit. An empty mimeType is sniffed.
func (s *Service) ExtractWords(ctx context.Context, image []byte, mimeType string) ([]string, error) {
	mt, err := s.validate(image, mimeType)
	if err != nil {
		return nil, err
	}

	raw, err := s.gen.Generate(ctx, domain.Prompt{
		Instruction: scanInstruction,
		Schema:      wordsSchema,
		Image:       &domain.InlineImage{Data: image, MIMEType: mt},
	})
	if err != nil {
		if errors.Is(err, domain.ErrNoCredentials) {
			return nil, domain.NewConfigMissingError("", err)
		}
		return nil, domain.NewUpstreamError("", err)
	}

	var reply struct {
		Words []string `json:"words"`
	}
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		return nil, domain.NewUpstreamError("", fmt.Errorf("decode words: %w", err))
	}

	words := s.clean(reply.Words)
	s.log.InfoContext(ctx, "image scanned",
		slog.Int("recognized", len(reply.Words)),
		slog.Int("kept", len(words)),
	)
	return words, nil
}

func (s *Service) validate(image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", domain.NewValidationError("image", "required")
	}
	if int64(len(image)) > s.maxBytes {
		return "", domain.NewValidationError("image", fmt.Sprintf("too large (max %d MiB)", s.maxBytes>>20))
	}

	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}
	mt, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return "", domain.NewValidationError("image", "invalid content type")
	}
	for _, ok := range SupportedMIMETypes {
		if mt == ok {
			return mt, nil
		}
	}
	return "", domain.NewValidationError("image", "unsupported type "+mt)
}

func (s *Service) clean(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, w := range in {
		w = domain.CleanWord(strings.Trim(w, " \t.,;:!?\"'()[]-•*"))
		if w == "" || !strings.ContainsFunc(w, unicode.IsLetter) {
			continue
		}
		k := domain.WordKey(w)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, w)
		if s.maxWords > 0 && len(out) == s.maxWords {
			break
		}
	}
	return out
}
