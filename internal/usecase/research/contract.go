package research

import (
	"context"

	"github.com/kailas-cloud/researcher/internal/domain"
)

// QueryGenerator breaks a question into web search queries.
type QueryGenerator interface {
	GenerateQueries(ctx context.Context, question string) ([]string, error)
}

// Searcher runs a single web search query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]domain.Document, error)
}

// Reflector judges whether the gathered documents cover the question.
type Reflector interface {
	Reflect(ctx context.Context, question string, docs []domain.Document) (domain.Reflection, error)
}

// Synthesizer writes the final answer with bracket citations.
type Synthesizer interface {
	Synthesize(ctx context.Context, question string, docs []domain.Document) (domain.Synthesis, error)
}

// Cache stores finished answers keyed by normalized question.
type Cache interface {
	Key(question string) string
	Lookup(ctx context.Context, key string) (domain.Answer, bool, error)
	Put(ctx context.Context, key string, ans domain.Answer) error
}
