package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// DefaultMaxQueries caps the number of generated search queries.
const DefaultMaxQueries = 5

// QueryGenerator breaks a question into web search queries.
type QueryGenerator struct {
	model      Model
	maxQueries int
	logger     *zap.Logger
}

// NewQueryGenerator creates a query generator. maxQueries <= 0 uses DefaultMaxQueries.
func NewQueryGenerator(model Model, maxQueries int, logger *zap.Logger) *QueryGenerator {
	if maxQueries <= 0 {
		maxQueries = DefaultMaxQueries
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueryGenerator{model: model, maxQueries: maxQueries, logger: logger}
}

// GenerateQueries returns 0..maxQueries queries. An empty result is not an error.
func (g *QueryGenerator) GenerateQueries(ctx context.Context, question string) ([]string, error) {
	text, err := g.model.Generate(ctx, fmt.Sprintf(queriesPrompt, question))
	if err != nil {
		return nil, fmt.Errorf("generate queries: %w", err)
	}

	queries := parseQueryLines(text)
	if len(queries) > g.maxQueries {
		queries = queries[:g.maxQueries]
	}

	g.logger.Debug("Generated search queries", zap.Strings("queries", queries))
	return queries, nil
}
