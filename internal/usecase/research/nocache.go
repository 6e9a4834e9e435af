package research

import (
	"context"

	"github.com/kailas-cloud/researcher/internal/domain"
)

// NoCache always misses and drops writes.
type NoCache struct{}

// Key returns the normalized question.
func (NoCache) Key(question string) string { return domain.NormalizeQuestion(question) }

// Lookup always misses.
func (NoCache) Lookup(context.Context, string) (domain.Answer, bool, error) {
	return domain.Answer{}, false, nil
}

// Put discards the answer.
func (NoCache) Put(context.Context, string, domain.Answer) error { return nil }
