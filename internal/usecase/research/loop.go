package research

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/researcher/internal/domain"
	"github.com/kailas-cloud/researcher/internal/domain/document"
	"github.com/kailas-cloud/researcher/internal/logger"
)

// DefaultMaxReflectionRounds bounds reflection calls per run.
const DefaultMaxReflectionRounds = 2

// LoopStats describes how a reflection loop ended.
type LoopStats struct {
	Rounds          int  // search expansions performed
	ReflectionCalls int
	Sufficient      bool // false when the round budget ran out
}

// Loop alternates reflection and follow-up searches until the documents are
// judged sufficient or the round budget is spent.
type Loop struct {
	reflector Reflector
	searcher  Searcher
	maxRounds int
}

// NewLoop creates a Loop. A negative maxRounds falls back to the default;
// zero disables reflection.
func NewLoop(reflector Reflector, searcher Searcher, maxRounds int) *Loop {
	if maxRounds < 0 {
		maxRounds = DefaultMaxReflectionRounds
	}
	return &Loop{reflector: reflector, searcher: searcher, maxRounds: maxRounds}
}

// Run returns the accumulated documents. Exhausting the budget is not an error.
func (l *Loop) Run(ctx context.Context, question string, docs []domain.Document) ([]domain.Document, LoopStats, error) {
	log := logger.FromContext(ctx)
	var stats LoopStats

	for stats.ReflectionCalls < l.maxRounds {
		refl, err := l.reflector.Reflect(ctx, question, docs)
		stats.ReflectionCalls++
		if err != nil {
			return nil, stats, fmt.Errorf("reflect round %d: %w", stats.Rounds, err)
		}

		if refl.Sufficient() {
			stats.Sufficient = true
			log.Debug("Reflection sufficient",
				zap.Int("round", stats.Rounds),
				zap.Int("docs", len(docs)),
			)
			return docs, stats, nil
		}

		extra, err := searchAll(ctx, l.searcher, refl.NewQueries)
		if err != nil {
			return nil, stats, fmt.Errorf("follow-up search round %d: %w", stats.Rounds, err)
		}

		before := len(docs)
		docs = document.Merge(docs, extra)
		stats.Rounds++

		log.Debug("Reflection expanded search",
			zap.Int("round", stats.Rounds),
			zap.Strings("new_queries", refl.NewQueries),
			zap.Int("new_docs", len(docs)-before),
		)
	}

	return docs, stats, nil
}
