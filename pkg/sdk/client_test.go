package researcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	zapobserver "go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/researcher/internal/domain"
	healthuc "github.com/kailas-cloud/researcher/internal/usecase/health"
)

// --- Mocks ---

type mockAsker struct {
	runFn func(ctx context.Context, q string) (domain.Answer, error)
}

func (m *mockAsker) Run(ctx context.Context, q string) (domain.Answer, error) { return m.runFn(ctx, q) }

type mockHealth struct{ report healthuc.Report }

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

// --- Tests ---

func TestNew_RequiresModelKey(t *testing.T) {
	_, err := New(context.Background(), WithCustomSearch("k", "cx"))
	if err == nil {
		t.Fatal("expected error without model key")
	}
}

func TestNew_RequiresSearch(t *testing.T) {
	_, err := New(context.Background(), WithOpenAI("k", ""))
	if err == nil {
		t.Fatal("expected error without search credentials")
	}
}

func TestNew_NoCache(t *testing.T) {
	c, err := New(context.Background(),
		WithOpenAI("k", "http://127.0.0.1:1/v1"),
		WithCustomSearch("k", "cx"),
		WithMaxReflectionRounds(0),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	h := c.Health(context.Background())
	if h.Status != "ok" || len(h.Checks) != 0 {
		t.Errorf("unexpected health %+v", h)
	}
}

func TestClientOptions(t *testing.T) {
	cc := &clientConfig{}
	for _, o := range []Option{
		WithRedis("localhost:6379", "pw"),
		WithGemini("gk"),
		WithModel("gemini-2.0-flash"),
		WithCustomSearch("sk", "cx"),
		WithMaxReflectionRounds(3),
		WithCacheLimit(7),
		WithoutCache(),
	} {
		o.apply(cc)
	}

	if cc.cfg.Database.Addrs[0] != "localhost:6379" || cc.cfg.Database.Password != "pw" {
		t.Errorf("database = %+v", cc.cfg.Database)
	}
	if cc.cfg.LLM.Provider != "gemini" || cc.cfg.LLM.APIKey != "gk" || cc.cfg.LLM.Model != "gemini-2.0-flash" {
		t.Errorf("llm = %+v", cc.cfg.LLM)
	}
	if cc.cfg.Search.CX != "cx" {
		t.Errorf("search = %+v", cc.cfg.Search)
	}
	if cc.cfg.Pipeline.ReflectionRounds() != 3 || cc.cfg.Cache.Limit != 7 || !cc.noCache {
		t.Errorf("pipeline/cache options not applied: %+v", cc)
	}
}

func TestAsk(t *testing.T) {
	c := &Client{research: &mockAsker{runFn: func(_ context.Context, q string) (domain.Answer, error) {
		return domain.Answer{Status: domain.StatusComplete, Answer: q + " [1]"}, nil
	}}}

	ans, err := c.Ask(context.Background(), "q")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if ans.Answer != "q [1]" || ans.Status != StatusComplete {
		t.Errorf("unexpected answer %+v", ans)
	}
}

func TestAsk_ErrorSentinel(t *testing.T) {
	c := &Client{research: &mockAsker{runFn: func(context.Context, string) (domain.Answer, error) {
		return domain.Answer{}, domain.ErrEmptyQuestion
	}}}

	if _, err := c.Ask(context.Background(), " "); !errors.Is(err, ErrEmptyQuestion) {
		t.Errorf("expected ErrEmptyQuestion, got %v", err)
	}
}

func TestHealth_Report(t *testing.T) {
	c := &Client{health: &mockHealth{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckError},
	}}}

	h := c.Health(context.Background())
	if h.Status != "degraded" || h.Checks["database"] != "error" {
		t.Errorf("unexpected health %+v", h)
	}
}

func TestClient_Close_Nil(t *testing.T) {
	(&Client{}).Close()
}

func TestObserver_NilSafe(t *testing.T) {
	var o *observer
	o.observe("ask", time.Now(), nil)
}

func TestObserver_WithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	o, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	o.observe("ask", time.Now(), nil)
	o.observe("ask", time.Now(), errors.New("fail"))

	if v := testutil.ToFloat64(o.metrics.operations.WithLabelValues("ask", "ok")); v != 1 {
		t.Errorf("ok = %v, want 1", v)
	}
	if v := testutil.ToFloat64(o.metrics.operations.WithLabelValues("ask", "error")); v != 1 {
		t.Errorf("error = %v, want 1", v)
	}

	// second observer on the same registry reuses collectors
	o2, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("reuse: %v", err)
	}
	if o2.metrics.operations != o.metrics.operations {
		t.Error("expected reused collector")
	}
}

func TestObserver_WithLogger(t *testing.T) {
	core, logs := zapobserver.New(zapcore.DebugLevel)
	o, err := newObserver(zap.New(core), nil)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	o.observe("ask", time.Now(), errors.New("boom"))
	if logs.FilterMessage("operation failed").Len() != 1 {
		t.Errorf("expected failure log, got %v", logs.All())
	}
}
