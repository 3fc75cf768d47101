// internal/services/ai/client.go
package ai

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	apperrors "permitcheck/internal/common/errors"
	"permitcheck/internal/common/logger"
	"permitcheck/internal/common/metrics"
)

// Model temperatures per operation. Lower temperature for tasks requiring
// consistency.
const (
	temperatureFeasibility float32 = 0.3
	temperatureNarrative   float32 = 0.4
	temperatureReview      float32 = 0.2
)

// reviewDocumentTextLimit bounds the document excerpt embedded in the review
// prompt to keep token usage predictable.
const reviewDocumentTextLimit = 4000

var errEmptyCompletion = errors.New("model returned no choices")

type Config struct {
	APIKey     string
	BaseURL    string // empty uses the provider default; tests point it at a fake
	Model      string
	ImageModel string
}

// Client wraps the chat-completion and image models behind typed operations.
// One outbound call per operation, no retries: transient upstream failures
// surface as failed requests.
type Client struct {
	api    *openai.Client
	config *Config
	logger logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	if config.Model == "" {
		config.Model = openai.GPT4o
	}
	if config.ImageModel == "" {
		config.ImageModel = openai.CreateImageModelDallE3
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &Client{
		api:    openai.NewClientWithConfig(clientConfig),
		config: config,
		logger: log.WithFields(map[string]interface{}{"service": "ai"}),
	}
}

// chatCompletion performs a single chat call with a fixed system role.
func (c *Client) chatCompletion(ctx context.Context, operation, systemRole, prompt string, temperature float32) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemRole},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		metrics.AICallsTotal.WithLabelValues(operation, "error").Inc()
		return "", apperrors.NewAIAnalysisFailedError(operation, err)
	}
	if len(resp.Choices) == 0 {
		metrics.AICallsTotal.WithLabelValues(operation, "error").Inc()
		return "", apperrors.NewAIAnalysisFailedError(operation, errEmptyCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}

// extractJSON strips the markdown code fences models like to wrap JSON in.
func extractJSON(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

// clampConfidence forces a reported confidence score into [0,100].
func clampConfidence(score *int) *int {
	if score == nil {
		return nil
	}
	v := *score
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return &v
}
