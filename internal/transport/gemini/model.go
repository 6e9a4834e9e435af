// Package gemini provides a generative model backed by the Google Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/kailas-cloud/researcher/internal/domain"
	"github.com/kailas-cloud/researcher/internal/metrics"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-1.5-flash"

const provider = "gemini"

// Config holds the Gemini settings.
type Config struct {
	APIKey      string
	BaseURL     string // test override
	Model       string
	Temperature float32
	Logger      *zap.Logger
}

// Model generates text with Models.GenerateContent.
type Model struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewModel creates a Gemini model client.
func NewModel(ctx context.Context, cfg *Config) (*Model, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Model{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
		logger:      logger,
	}, nil
}

// Name returns the provider and model identifier.
func (m *Model) Name() string { return provider + ":" + m.model }

// Generate sends the prompt as a single user turn and returns the concatenated text parts.
// A reply without text yields an empty string, not an error.
func (m *Model) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(m.temperature),
	})

	duration := time.Since(start)

	if err != nil {
		metrics.ModelRequestsTotal.WithLabelValues(provider, m.model, "error").Inc()
		return "", fmt.Errorf("gemini generate: %w: %w", domain.ErrModelProvider, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		m.logger.Warn("Gemini returned no text", zap.String("model", m.model))
	}

	metrics.ModelRequestsTotal.WithLabelValues(provider, m.model, "success").Inc()
	metrics.ModelRequestDuration.WithLabelValues(provider, m.model).Observe(duration.Seconds())
	if u := resp.UsageMetadata; u != nil {
		metrics.ModelTokensTotal.WithLabelValues(provider, m.model, "prompt").Add(float64(u.PromptTokenCount))
		metrics.ModelTokensTotal.WithLabelValues(provider, m.model, "completion").Add(float64(u.CandidatesTokenCount))
	}

	m.logger.Debug("Gemini generation finished",
		zap.String("model", m.model),
		zap.Duration("duration", duration),
	)
	return text, nil
}
