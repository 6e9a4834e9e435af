// Package document merges search result batches into a unique-by-URL sequence.
package document

import "github.com/kailas-cloud/researcher/internal/domain"

// Dedup concatenates batches in the given order and keeps the first document per URL.
// Documents without a URL are dropped.
func Dedup(batches ...[]domain.Document) []domain.Document {
	total := 0
	for _, b := range batches {
		total += len(b)
	}

	seen := make(map[string]struct{}, total)
	out := make([]domain.Document, 0, total)

	for _, batch := range batches {
		for _, d := range batch {
			if d.URL == "" {
				continue
			}
			if _, ok := seen[d.URL]; ok {
				continue
			}
			seen[d.URL] = struct{}{}
			out = append(out, d)
		}
	}
	return out
}

// Merge adds the extra batches to the accumulated set, deduplicating against all of it.
func Merge(current []domain.Document, extra ...[]domain.Document) []domain.Document {
	return Dedup(append([][]domain.Document{current}, extra...)...)
}
