package research

import (
	"context"
	"sync"

	"github.com/kailas-cloud/researcher/internal/domain"
)

// --- Mocks ---

type mockQueries struct {
	mu      sync.Mutex
	queries []string
	err     error
	calls   int
}

func (m *mockQueries) GenerateQueries(_ context.Context, _ string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.queries, m.err
}

type mockSearcher struct {
	mu      sync.Mutex
	results map[string][]domain.Document
	errs    map[string]error
	calls   []string
}

func (m *mockSearcher) Search(_ context.Context, query string) ([]domain.Document, error) {
	m.mu.Lock()
	m.calls = append(m.calls, query)
	m.mu.Unlock()
	if err := m.errs[query]; err != nil {
		return nil, err
	}
	return m.results[query], nil
}

func (m *mockSearcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockReflector replays reflections in order, repeating the last one.
type mockReflector struct {
	mu      sync.Mutex
	replies []domain.Reflection
	err     error
	seen    [][]domain.Document
}

func (m *mockReflector) Reflect(_ context.Context, _ string, docs []domain.Document) (domain.Reflection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = append(m.seen, docs)
	if m.err != nil {
		return domain.Reflection{}, m.err
	}
	i := len(m.seen) - 1
	if i >= len(m.replies) {
		i = len(m.replies) - 1
	}
	if i < 0 {
		return domain.Reflection{}, nil
	}
	return m.replies[i], nil
}

type mockSynthesizer struct {
	mu     sync.Mutex
	result domain.Synthesis
	err    error
	docs   []domain.Document
	calls  int
}

func (m *mockSynthesizer) Synthesize(_ context.Context, _ string, docs []domain.Document) (domain.Synthesis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.docs = docs
	return m.result, m.err
}

type mockCache struct {
	mu        sync.Mutex
	entries   map[string]domain.Answer
	lookupErr error
	putErr    error
	puts      int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]domain.Answer)}
}

func (m *mockCache) Key(q string) string { return "test:" + domain.NormalizeQuestion(q) }

func (m *mockCache) Lookup(_ context.Context, key string) (domain.Answer, bool, error) {
	if m.lookupErr != nil {
		return domain.Answer{}, false, m.lookupErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.entries[key]
	return a, ok, nil
}

func (m *mockCache) Put(_ context.Context, key string, a domain.Answer) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	m.entries[key] = a
	return nil
}

func doc(url string) domain.Document {
	return domain.Document{Title: "T " + url, Snippet: "S " + url, URL: url}
}

func sufficient() domain.Reflection { return domain.Reflection{NeedMore: false} }

func needMore(queries ...string) domain.Reflection {
	return domain.Reflection{NeedMore: true, NewQueries: queries}
}
