package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"NewsBulletin/internal/config"
	"NewsBulletin/internal/domain"
	"NewsBulletin/internal/ports"
)

const defaultOpenAIModel = openai.ChatModelGPT4o

// OpenAIWriter implements ports.BulletinWriter with OpenAI chat completions.
type OpenAIWriter struct {
	client      *openai.Client
	model       openai.ChatModel
	maxTokens   int64
	temperature float64
}

var _ ports.BulletinWriter = (*OpenAIWriter)(nil)

// NewOpenAIWriter builds a writer from configuration; the key is passed explicitly.
func NewOpenAIWriter(cfg config.WriterConfig, opts ...option.RequestOption) *OpenAIWriter {
	reqOpts := []option.RequestOption{option.WithAPIKey(cfg.OpenAIAPIKey)}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	if timeout := cfg.Timeout(); timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(timeout))
	}
	reqOpts = append(reqOpts, opts...)

	model := openai.ChatModel(strings.TrimSpace(cfg.Model))
	if model == "" {
		model = defaultOpenAIModel
	}

	client := openai.NewClient(reqOpts...)
	return &OpenAIWriter{
		client:      &client,
		model:       model,
		maxTokens:   int64(cfg.MaxTokens),
		temperature: cfg.Temperature,
	}
}

// WriteBulletin asks the model for the bulletin text.
func (w *OpenAIWriter) WriteBulletin(ctx context.Context, req domain.BulletinRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: w.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(BuildPrompt(req)),
		},
		Temperature: openai.Float(w.temperature),
	}
	if w.maxTokens > 0 {
		params.MaxTokens = openai.Int(w.maxTokens)
	}

	resp, err := w.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty response from openai")
	}
	return content, nil
}
