package research

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/researcher/internal/domain"
	"github.com/kailas-cloud/researcher/internal/domain/document"
)

// searchAll runs one search per query concurrently and deduplicates the
// results by URL. Batches are merged in query order, so the output does not
// depend on completion order. The first failure cancels the rest.
func searchAll(ctx context.Context, s Searcher, queries []string) ([]domain.Document, error) {
	if len(queries) == 0 {
		return nil, nil
	}

	batches := make([][]domain.Document, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		g.Go(func() error {
			docs, err := s.Search(gctx, q)
			if err != nil {
				return fmt.Errorf("search %q: %w", q, err)
			}
			batches[i] = docs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return document.Dedup(batches...), nil
}
