// Package llm adapts the Anthropic Messages API to the collaborator interface
// used by the lookup, scan and study services.
package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/heartmarshall/vibevocab/internal/config"
	"github.com/heartmarshall/vibevocab/internal/domain"
)

const systemPrompt = "You are a concise, accurate vocabulary tutor. Follow the requested output format exactly."

// Client sends prompts to Claude. It never retries; retry policy belongs to callers.
type Client struct {
	api        anthropic.Client
	model      string
	maxTokens  int
	configured bool
	log        *slog.Logger
}

// New creates a Client from configuration. A missing API key is not an error here:
// every Generate call then fails with domain.ErrNoCredentials.
func New(cfg config.LLMConfig, logger *slog.Logger) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.RequestTimeout))
	}

	return &Client{
		api:        anthropic.NewClient(opts...),
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		configured: cfg.Configured(),
		log:        logger.With("adapter", "llm"),
	}
}

// Configured reports whether the client has credentials.
func (c *Client) Configured() bool { return c.configured }

// Generate sends one prompt and returns the text of the reply.
// When p.Schema is set, the reply is reduced to its JSON object and checked for validity.
func (c *Client) Generate(ctx context.Context, p domain.Prompt) (string, error) {
	if !c.configured {
		return "", domain.ErrNoCredentials
	}

	maxTokens := c.maxTokens
	if p.MaxTokens > 0 {
		maxTokens = p.MaxTokens
	}

	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(contentBlocks(p)...),
		},
	})
	if err != nil {
		return "", fmt.Errorf("llm: messages: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := b.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("llm: empty response (stop reason %q)", msg.StopReason)
	}

	c.log.DebugContext(ctx, "llm reply",
		slog.String("model", c.model),
		slog.Int64("input_tokens", msg.Usage.InputTokens),
		slog.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	if p.Schema == "" {
		return text, nil
	}

	jsonStr, err := ExtractJSON(text)
	if err != nil {
		return "", fmt.Errorf("llm: %w", err)
	}
	if !json.Valid([]byte(jsonStr)) {
		return "", fmt.Errorf("llm: response does not contain valid JSON")
	}
	return jsonStr, nil
}

func contentBlocks(p domain.Prompt) []anthropic.ContentBlockParamUnion {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, 2)
	if p.Image != nil {
		blocks = append(blocks, anthropic.NewImageBlockBase64(
			p.Image.MIMEType,
			base64.StdEncoding.EncodeToString(p.Image.Data),
		))
	}

	text := p.Instruction
	if p.Schema != "" {
		text += "\n\nOutput ONLY a valid JSON object matching this schema, no markdown, no explanations:\n" + p.Schema
	}
	blocks = append(blocks, anthropic.NewTextBlock(text))
	return blocks
}

// ExtractJSON returns the span between the first '{' and the last '}' of s.
func ExtractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}
