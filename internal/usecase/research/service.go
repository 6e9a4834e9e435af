// Package research orchestrates the retrieve, reflect and synthesize pipeline.
package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/researcher/internal/domain"
	"github.com/kailas-cloud/researcher/internal/domain/citation"
	"github.com/kailas-cloud/researcher/internal/logger"
	"github.com/kailas-cloud/researcher/internal/metrics"
)

// Service answers questions from web search results.
type Service struct {
	queries     QueryGenerator
	searcher    Searcher
	synthesizer Synthesizer
	cache       Cache
	loop        *Loop
	logger      *zap.Logger
}

// New creates a Service. maxRounds bounds reflection calls per run.
func New(
	queries QueryGenerator, searcher Searcher, reflector Reflector,
	synthesizer Synthesizer, cache Cache, maxRounds int, logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		queries:     queries,
		searcher:    searcher,
		synthesizer: synthesizer,
		cache:       cache,
		loop:        NewLoop(reflector, searcher, maxRounds),
		logger:      logger,
	}
}

// Run answers question. A cached answer is returned verbatim.
// Only complete answers are cached.
func (s *Service) Run(ctx context.Context, question string) (domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return domain.Answer{}, domain.ErrEmptyQuestion
	}

	start := time.Now()
	key := s.cache.Key(question)
	ctx = logger.With(ctx, s.logger, zap.String("cache_key", key))
	log := logger.FromContext(ctx)

	cached, ok, err := s.cache.Lookup(ctx, key)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("cache lookup: %w", err)
	}
	if ok {
		log.Info("Answer served from cache", zap.Duration("duration", time.Since(start)))
		return cached, nil
	}

	queries, err := s.queries.GenerateQueries(ctx, question)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("generate queries: %w", err)
	}
	log.Debug("Queries generated", zap.Strings("queries", queries))

	docs, err := searchAll(ctx, s.searcher, queries)
	if err != nil {
		return domain.Answer{}, err
	}

	docs, stats, err := s.loop.Run(ctx, question, docs)
	if err != nil {
		return domain.Answer{}, err
	}
	metrics.ReflectionRounds.Observe(float64(stats.Rounds))

	syn, err := s.synthesizer.Synthesize(ctx, question, docs)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("synthesize: %w", err)
	}

	if syn.Status == domain.StatusIncomplete {
		log.Warn("Synthesis incomplete, answer not cached",
			zap.Int("queries", len(queries)),
			zap.Int("docs", len(docs)),
			zap.Int("rounds", stats.Rounds),
		)
		return domain.Answer{
			Status:    domain.StatusIncomplete,
			Answer:    syn.Answer,
			Citations: []domain.Citation{},
		}, nil
	}

	text, cites := citation.Normalize(syn.Answer, syn.Citations)
	ans := domain.Answer{
		Status:    domain.StatusComplete,
		Answer:    text,
		Citations: cites,
	}

	if err := s.cache.Put(ctx, key, ans); err != nil {
		return domain.Answer{}, fmt.Errorf("cache put: %w", err)
	}

	log.Info("Research run finished",
		zap.Int("queries", len(queries)),
		zap.Int("docs", len(docs)),
		zap.Int("rounds", stats.Rounds),
		zap.Int("reflection_calls", stats.ReflectionCalls),
		zap.Bool("sufficient", stats.Sufficient),
		zap.Int("citations", len(cites)),
		zap.Duration("duration", time.Since(start)),
	)
	return ans, nil
}
