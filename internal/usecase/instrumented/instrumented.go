// Package instrumented wraps pipeline collaborators with tool metrics and logging.
// Transport metrics (model requests, tokens) are recorded in the transports.
package instrumented

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/researcher/internal/domain"
	"github.com/kailas-cloud/researcher/internal/logger"
	"github.com/kailas-cloud/researcher/internal/metrics"
	"github.com/kailas-cloud/researcher/internal/usecase/agent"
	"github.com/kailas-cloud/researcher/internal/usecase/research"
)

// Tool names used as metric labels.
const (
	ToolGenerateQueries = "generate_queries"
	ToolWebSearch       = "web_search"
	ToolExtractSlots    = "extract_slots"
	ToolReflect         = "reflect"
	ToolSynthesize      = "synthesize"
)

// observe records one tool call and logs its outcome.
func observe(ctx context.Context, tool string, start time.Time, err error, fields ...zap.Field) {
	duration := time.Since(start)
	metrics.ToolLatency.WithLabelValues(tool).Observe(duration.Seconds())

	log := logger.FromContext(ctx).With(zap.String("tool", tool), zap.Duration("duration", duration))
	if err != nil {
		metrics.ToolCallsTotal.WithLabelValues(tool, "error").Inc()
		log.Error("Tool call failed", zap.Error(err))
		return
	}
	metrics.ToolCallsTotal.WithLabelValues(tool, "success").Inc()
	log.Debug("Tool call completed", fields...)
}

// QueryGenerator instruments a research.QueryGenerator.
type QueryGenerator struct{ inner research.QueryGenerator }

// NewQueryGenerator wraps inner.
func NewQueryGenerator(inner research.QueryGenerator) *QueryGenerator {
	return &QueryGenerator{inner: inner}
}

// GenerateQueries delegates and records the call.
func (q *QueryGenerator) GenerateQueries(ctx context.Context, question string) ([]string, error) {
	start := time.Now()
	out, err := q.inner.GenerateQueries(ctx, question)
	observe(ctx, ToolGenerateQueries, start, err, zap.Int("queries", len(out)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ToolGenerateQueries, err)
	}
	return out, nil
}

// Searcher instruments a research.Searcher.
type Searcher struct{ inner research.Searcher }

// NewSearcher wraps inner.
func NewSearcher(inner research.Searcher) *Searcher { return &Searcher{inner: inner} }

// Search delegates and records the call.
func (s *Searcher) Search(ctx context.Context, query string) ([]domain.Document, error) {
	start := time.Now()
	docs, err := s.inner.Search(ctx, query)
	observe(ctx, ToolWebSearch, start, err, zap.String("query", query), zap.Int("results", len(docs)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ToolWebSearch, err)
	}
	return docs, nil
}

// SlotExtractor instruments an agent.SlotExtractor.
type SlotExtractor struct{ inner agent.SlotExtractor }

// NewSlotExtractor wraps inner.
func NewSlotExtractor(inner agent.SlotExtractor) *SlotExtractor {
	return &SlotExtractor{inner: inner}
}

// ExtractSlots delegates and records the call.
func (s *SlotExtractor) ExtractSlots(ctx context.Context, question string) ([]string, error) {
	start := time.Now()
	slots, err := s.inner.ExtractSlots(ctx, question)
	observe(ctx, ToolExtractSlots, start, err, zap.Strings("slots", slots))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ToolExtractSlots, err)
	}
	return slots, nil
}

// Reflector instruments a research.Reflector.
type Reflector struct{ inner research.Reflector }

// NewReflector wraps inner.
func NewReflector(inner research.Reflector) *Reflector { return &Reflector{inner: inner} }

// Reflect delegates and records the call.
func (r *Reflector) Reflect(ctx context.Context, question string, docs []domain.Document) (domain.Reflection, error) {
	start := time.Now()
	refl, err := r.inner.Reflect(ctx, question, docs)
	observe(ctx, ToolReflect, start, err,
		zap.Bool("need_more", refl.NeedMore),
		zap.Int("new_queries", len(refl.NewQueries)),
	)
	if err != nil {
		return domain.Reflection{}, fmt.Errorf("%s: %w", ToolReflect, err)
	}
	return refl, nil
}

// Synthesizer instruments a research.Synthesizer.
type Synthesizer struct{ inner research.Synthesizer }

// NewSynthesizer wraps inner.
func NewSynthesizer(inner research.Synthesizer) *Synthesizer { return &Synthesizer{inner: inner} }

// Synthesize delegates and records the call. A degraded synthesis counts as success.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, docs []domain.Document) (domain.Synthesis, error) {
	start := time.Now()
	syn, err := s.inner.Synthesize(ctx, question, docs)
	observe(ctx, ToolSynthesize, start, err,
		zap.String("status", string(syn.Status)),
		zap.Int("citations", len(syn.Citations)),
	)
	if err != nil {
		return domain.Synthesis{}, fmt.Errorf("%s: %w", ToolSynthesize, err)
	}
	return syn, nil
}
