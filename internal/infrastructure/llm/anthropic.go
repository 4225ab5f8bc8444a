package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"NewsBulletin/internal/config"
	"NewsBulletin/internal/domain"
	"NewsBulletin/internal/ports"
)

const (
	defaultAnthropicModel     = anthropic.ModelClaudeSonnet4_5
	defaultAnthropicMaxTokens = 4000
)

// AnthropicWriter implements ports.BulletinWriter with the Anthropic messages API.
type AnthropicWriter struct {
	client      *anthropic.Client
	model       anthropic.Model
	maxTokens   int64
	temperature float64
}

var _ ports.BulletinWriter = (*AnthropicWriter)(nil)

// NewAnthropicWriter builds a writer from configuration; the key is passed explicitly.
func NewAnthropicWriter(cfg config.WriterConfig, opts ...option.RequestOption) *AnthropicWriter {
	reqOpts := []option.RequestOption{option.WithAPIKey(cfg.AnthropicAPIKey)}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	if timeout := cfg.Timeout(); timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(timeout))
	}
	reqOpts = append(reqOpts, opts...)

	model := anthropic.Model(strings.TrimSpace(cfg.Model))
	if model == "" {
		model = defaultAnthropicModel
	}

	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	client := anthropic.NewClient(reqOpts...)
	return &AnthropicWriter{
		client:      &client,
		model:       model,
		maxTokens:   maxTokens,
		temperature: cfg.Temperature,
	}
}

// WriteBulletin asks the model for the bulletin text and joins its text blocks.
func (w *AnthropicWriter) WriteBulletin(ctx context.Context, req domain.BulletinRequest) (string, error) {
	resp, err := w.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     w.model,
		MaxTokens: w.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(BuildPrompt(req))),
		},
		Temperature: anthropic.Float(w.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	content := strings.TrimSpace(sb.String())
	if content == "" {
		return "", fmt.Errorf("no response from anthropic")
	}
	return content, nil
}
