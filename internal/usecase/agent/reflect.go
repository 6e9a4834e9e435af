package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/researcher/internal/domain"
)

// Reflector asks the model whether the accumulated documents answer the question.
type Reflector struct {
	model  Model
	slots  SlotExtractor
	logger *zap.Logger
}

// NewReflector creates a reflector. A nil slots extractor sends an empty slot list.
func NewReflector(model Model, slots SlotExtractor, logger *zap.Logger) *Reflector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reflector{model: model, slots: slots, logger: logger}
}

// Reflect returns the model's sufficiency judgment.
// Unparsable output is an error wrapping domain.ErrMalformedOutput; no fallback is synthesized.
func (r *Reflector) Reflect(ctx context.Context, question string, docs []domain.Document) (domain.Reflection, error) {
	slots := []string{}
	if r.slots != nil {
		extracted, err := r.slots.ExtractSlots(ctx, question)
		if err != nil {
			return domain.Reflection{}, fmt.Errorf("reflect: %w", err)
		}
		if extracted != nil {
			slots = extracted
		}
	}
	slotsJSON, err := json.Marshal(slots)
	if err != nil {
		return domain.Reflection{}, fmt.Errorf("reflect: encode slots: %w", err)
	}

	text, err := r.model.Generate(ctx, fmt.Sprintf(reflectPrompt, question, slotsJSON, formatContext(docs)))
	if err != nil {
		return domain.Reflection{}, fmt.Errorf("reflect: %w", err)
	}

	var out domain.Reflection
	if err := json.Unmarshal([]byte(jsonObject(text)), &out); err != nil {
		r.logger.Warn("Failed to parse reflection", zap.String("raw", text), zap.Error(err))
		return domain.Reflection{}, fmt.Errorf("reflect: %w: %w", domain.ErrMalformedOutput, err)
	}

	r.logger.Debug("Reflection parsed",
		zap.Bool("need_more", out.NeedMore),
		zap.Strings("new_queries", out.NewQueries),
		zap.Int("docs", len(docs)),
	)
	return out, nil
}

// formatContext renders documents for the reflection prompt.
func formatContext(docs []domain.Document) string {
	parts := make([]string, len(docs))
	for i, d := range docs {
		parts[i] = fmt.Sprintf("Title: %s\nSnippet: %s\nURL: %s", d.Title, d.Snippet, d.URL)
	}
	return strings.Join(parts, "\n\n")
}
