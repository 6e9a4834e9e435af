package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/researcher/internal/domain"
)

// Synthesizer writes a cited answer from the collected documents.
type Synthesizer struct {
	model  Model
	logger *zap.Logger
}

// NewSynthesizer creates a synthesizer.
func NewSynthesizer(model Model, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{model: model, logger: logger}
}

type synthesisJSON struct {
	Answer    string            `json:"answer"`
	Citations []domain.Citation `json:"citations"`
}

// Synthesize returns the model answer with its raw citation list.
// Unparsable output degrades to a StatusIncomplete synthesis carrying the raw text,
// and a vague answer is marked StatusIncomplete. Only model transport errors are returned.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, docs []domain.Document) (domain.Synthesis, error) {
	text, err := s.model.Generate(ctx, fmt.Sprintf(synthesizePrompt, question, formatNumbered(docs)))
	if err != nil {
		return domain.Synthesis{}, fmt.Errorf("synthesize: %w", err)
	}

	var parsed synthesisJSON
	if err := json.Unmarshal([]byte(jsonObject(text)), &parsed); err != nil {
		s.logger.Warn("Failed to parse synthesis, degrading to incomplete",
			zap.String("raw", text), zap.Error(err))
		return domain.Synthesis{
			Status:    domain.StatusIncomplete,
			Answer:    strings.TrimSpace(text),
			Citations: []domain.Citation{},
		}, nil
	}

	if parsed.Citations == nil {
		parsed.Citations = []domain.Citation{}
	}
	status := domain.StatusComplete
	if vague(parsed.Answer) {
		s.logger.Warn("Model returned an insufficient answer", zap.String("answer", parsed.Answer))
		status = domain.StatusIncomplete
	}
	return domain.Synthesis{
		Status:    status,
		Answer:    parsed.Answer,
		Citations: parsed.Citations,
	}, nil
}

// minAnswerWords is the shortest answer accepted as complete.
const minAnswerWords = 4

// vague reports an empty answer, one admitting "not enough" information,
// or one shorter than minAnswerWords.
func vague(answer string) bool {
	return strings.Contains(strings.ToLower(answer), "not enough") ||
		len(strings.Fields(answer)) < minAnswerWords
}

// formatNumbered renders documents as "[i] Title/Snippet/URL" blocks, 1-based.
func formatNumbered(docs []domain.Document) string {
	var b strings.Builder
	for i, d := range docs {
		fmt.Fprintf(&b, "[%d] Title: %s\nSnippet: %s\nURL: %s\n\n", i+1, d.Title, d.Snippet, d.URL)
	}
	return b.String()
}
