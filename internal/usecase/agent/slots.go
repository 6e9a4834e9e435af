package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// SlotExtractor lists the pieces of information a question needs answered.
type SlotExtractor interface {
	ExtractSlots(ctx context.Context, question string) ([]string, error)
}

// Slots extracts information slots with a dedicated model call.
type Slots struct {
	model  Model
	logger *zap.Logger
}

// NewSlots creates a slot extractor.
func NewSlots(model Model, logger *zap.Logger) *Slots {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Slots{model: model, logger: logger}
}

// ExtractSlots returns the slot names for question.
// Unparsable output yields an empty list; only model errors are returned.
func (s *Slots) ExtractSlots(ctx context.Context, question string) ([]string, error) {
	text, err := s.model.Generate(ctx, fmt.Sprintf(slotsPrompt, question))
	if err != nil {
		return nil, fmt.Errorf("extract slots: %w", err)
	}

	var raw []any
	if err := json.Unmarshal([]byte(jsonArray(text)), &raw); err != nil {
		s.logger.Warn("Failed to parse slot list", zap.String("raw", text), zap.Error(err))
		return []string{}, nil
	}

	slots := make([]string, 0, len(raw))
	for _, v := range raw {
		if str, ok := v.(string); ok && strings.TrimSpace(str) != "" {
			slots = append(slots, str)
		}
	}
	s.logger.Debug("Extracted slots", zap.Strings("slots", slots))
	return slots, nil
}
