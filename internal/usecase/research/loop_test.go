package research

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/researcher/internal/domain"
)

func TestLoop_SufficientFirstRound(t *testing.T) {
	refl := &mockReflector{replies: []domain.Reflection{sufficient()}}
	search := &mockSearcher{}
	l := NewLoop(refl, search, 2)

	in := []domain.Document{doc("a"), doc("b")}
	out, stats, err := l.Run(context.Background(), "q", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("expected 2 docs, got %d", len(out))
	}
	if stats.Rounds != 0 || stats.ReflectionCalls != 1 || !stats.Sufficient {
		t.Errorf("unexpected stats %+v", stats)
	}
	if search.callCount() != 0 {
		t.Errorf("expected no searches, got %d", search.callCount())
	}
}

func TestLoop_NeedMoreWithoutQueriesIsSufficient(t *testing.T) {
	refl := &mockReflector{replies: []domain.Reflection{{NeedMore: true}}}
	l := NewLoop(refl, &mockSearcher{}, 2)

	_, stats, err := l.Run(context.Background(), "q", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stats.Sufficient || stats.Rounds != 0 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestLoop_ExpandsAndMerges(t *testing.T) {
	refl := &mockReflector{replies: []domain.Reflection{needMore("more"), sufficient()}}
	search := &mockSearcher{results: map[string][]domain.Document{
		"more": {doc("b"), doc("c")},
	}}
	l := NewLoop(refl, search, 2)

	out, stats, err := l.Run(context.Background(), "q", []domain.Document{doc("a"), doc("b")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(out) != len(want) {
		t.Fatalf("expected %d docs, got %d", len(want), len(out))
	}
	for i, u := range want {
		if out[i].URL != u {
			t.Errorf("out[%d] = %q, want %q", i, out[i].URL, u)
		}
	}
	if stats.Rounds != 1 || stats.ReflectionCalls != 2 || !stats.Sufficient {
		t.Errorf("unexpected stats %+v", stats)
	}
	// second reflection sees the merged set
	if len(refl.seen[1]) != 3 {
		t.Errorf("second reflection saw %d docs, want 3", len(refl.seen[1]))
	}
}

func TestLoop_BudgetExhausted(t *testing.T) {
	refl := &mockReflector{replies: []domain.Reflection{needMore("x")}}
	search := &mockSearcher{results: map[string][]domain.Document{"x": {doc("x")}}}
	l := NewLoop(refl, search, 2)

	out, stats, err := l.Run(context.Background(), "q", []domain.Document{doc("a")})
	if err != nil {
		t.Fatalf("budget exhaustion must not fail: %v", err)
	}
	if stats.ReflectionCalls != 2 {
		t.Errorf("expected 2 reflection calls, got %d", stats.ReflectionCalls)
	}
	if stats.Sufficient {
		t.Error("expected Sufficient=false")
	}
	if len(out) != 2 {
		t.Errorf("expected 2 docs, got %d", len(out))
	}
}

func TestLoop_NeverExceedsBudget(t *testing.T) {
	for rounds := 0; rounds <= 4; rounds++ {
		refl := &mockReflector{replies: []domain.Reflection{needMore("x")}}
		l := NewLoop(refl, &mockSearcher{}, rounds)

		_, stats, err := l.Run(context.Background(), "q", nil)
		if err != nil {
			t.Fatalf("rounds=%d: %v", rounds, err)
		}
		if stats.ReflectionCalls > rounds {
			t.Errorf("rounds=%d: %d reflection calls", rounds, stats.ReflectionCalls)
		}
	}
}

func TestLoop_NegativeRoundsUsesDefault(t *testing.T) {
	refl := &mockReflector{replies: []domain.Reflection{needMore("x")}}
	l := NewLoop(refl, &mockSearcher{}, -1)

	_, stats, _ := l.Run(context.Background(), "q", nil)
	if stats.ReflectionCalls != DefaultMaxReflectionRounds {
		t.Errorf("expected %d calls, got %d", DefaultMaxReflectionRounds, stats.ReflectionCalls)
	}
}

func TestLoop_ReflectErrorPropagates(t *testing.T) {
	refl := &mockReflector{err: domain.ErrMalformedOutput}
	l := NewLoop(refl, &mockSearcher{}, 2)

	_, _, err := l.Run(context.Background(), "q", nil)
	if !errors.Is(err, domain.ErrMalformedOutput) {
		t.Errorf("expected ErrMalformedOutput, got %v", err)
	}
	if len(refl.seen) != 1 {
		t.Errorf("expected no retry, got %d calls", len(refl.seen))
	}
}

func TestLoop_SearchErrorPropagates(t *testing.T) {
	refl := &mockReflector{replies: []domain.Reflection{needMore("bad")}}
	search := &mockSearcher{errs: map[string]error{"bad": domain.ErrSearchProvider}}
	l := NewLoop(refl, search, 2)

	_, _, err := l.Run(context.Background(), "q", nil)
	if !errors.Is(err, domain.ErrSearchProvider) {
		t.Errorf("expected ErrSearchProvider, got %v", err)
	}
}
