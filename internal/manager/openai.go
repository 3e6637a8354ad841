package manager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"aiengine/pkg/types"
)

const openAISystemPrompt = "You are a data analyst. Answer the question using only the dataset provided. " +
	"Be concise and state numbers exactly as computed from the data."

// openAIEngine answers free-form questions with a chat completion over a
// preview of the dataset.
type openAIEngine struct {
	client      *openai.Client
	model       string
	previewRows int
}

func newOpenAIEngine(cfg OpenAIConfig) *openAIEngine {
	c := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	rows := cfg.PreviewRows
	if rows <= 0 {
		rows = defaultPreviewRows
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	return &openAIEngine{client: openai.NewClientWithConfig(c), model: model, previewRows: rows}
}

func (e *openAIEngine) Query(ctx context.Context, query string, data *types.ProcessedData, params map[string]any) (types.Result, error) {
	temperature, err := floatParam(params, "temperature", 0)
	if err != nil {
		return nil, err
	}
	n := min(len(data.Records), e.previewRows)
	preview, err := json.Marshal(data.Records[:n])
	if err != nil {
		return nil, fmt.Errorf("encode dataset preview: %w", err)
	}
	prompt := fmt.Sprintf("Dataset (%d rows, first %d shown as JSON):\n%s\n\nQuestion: %s", len(data.Records), n, preview, query)

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openAISystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32(temperature),
	})
	if err != nil {
		return nil, fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("openai completion: empty response")
	}
	return types.Result{
		"answer":    strings.TrimSpace(resp.Choices[0].Message.Content),
		"rows_sent": n,
		"usage": map[string]any{
			"prompt_tokens":     resp.Usage.PromptTokens,
			"completion_tokens": resp.Usage.CompletionTokens,
			"total_tokens":      resp.Usage.TotalTokens,
		},
	}, nil
}
