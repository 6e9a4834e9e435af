package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/researcher/internal/domain"
	"github.com/kailas-cloud/researcher/internal/metrics"
)

// DefaultModel is used when no model is configured.
const DefaultModel = openai.GPT4oMini

// Model is a generative model using the OpenAI-compatible chat completion API.
type Model struct {
	client      *openai.Client
	model       string
	temperature float32
	provider    string
	logger      *zap.Logger
}

// Config holds the model provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Provider    string
	Logger      *zap.Logger
}

// NewModel creates an OpenAI-compatible chat model.
func NewModel(cfg *Config) *Model {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Model{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: cfg.Temperature,
		provider:    provider,
		logger:      logger,
	}
}

// Name returns the provider and model identifier.
func (m *Model) Name() string { return m.provider + ":" + m.model }

// Generate sends the prompt as a single user message and returns the first choice.
func (m *Model) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: m.temperature,
	}

	start := time.Now()

	resp, err := m.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.ModelRequestsTotal.WithLabelValues(m.provider, m.model, "error").Inc()
		return "", parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.ModelRequestsTotal.WithLabelValues(m.provider, m.model, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrModelProvider)
	}

	metrics.ModelRequestsTotal.WithLabelValues(m.provider, m.model, "success").Inc()
	metrics.ModelRequestDuration.WithLabelValues(m.provider, m.model).Observe(duration.Seconds())
	if resp.Usage.TotalTokens > 0 {
		metrics.ModelTokensTotal.WithLabelValues(m.provider, m.model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.ModelTokensTotal.WithLabelValues(m.provider, m.model, "completion").Add(float64(resp.Usage.CompletionTokens))
	}

	m.logger.Debug("Chat completion finished",
		zap.String("model", m.model),
		zap.Duration("duration", duration),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)

	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (m *Model) HealthCheck(ctx context.Context) error {
	if _, err := m.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrModelProvider for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrModelProvider

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("model API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("model API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("model API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("model request: %w: %w", wrap, err)
	}

	return fmt.Errorf("model request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
