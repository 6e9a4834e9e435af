package researcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/researcher/internal/app"
	"github.com/kailas-cloud/researcher/internal/domain"
	healthuc "github.com/kailas-cloud/researcher/internal/usecase/health"
)

// Answer is the result of a research run.
type Answer = domain.Answer

// Citation is a source referenced by a bracket marker in Answer.Answer.
type Citation = domain.Citation

// Answer statuses.
const (
	StatusComplete   = domain.StatusComplete
	StatusIncomplete = domain.StatusIncomplete
)

// HealthStatus represents the aggregated component health.
type HealthStatus struct {
	Status string            // "ok", "degraded"
	Checks map[string]string // component -> "ok"/"error"
}

type asker interface {
	Run(ctx context.Context, question string) (domain.Answer, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the researcher SDK entry point.
type Client struct {
	research asker
	health   healthUseCase // nil without a cache store
	closeFn  func()
	obs      *observer
}

// New assembles the pipeline and, when WithRedis is set, connects to the store.
// The provided context bounds the readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cc := &clientConfig{}
	for _, o := range opts {
		o.apply(cc)
	}
	cc.cfg.ApplyDefaults()

	if cc.cfg.LLM.APIKey == "" {
		return nil, errors.New("researcher: model API key required (use WithOpenAI or WithGemini)")
	}
	noCache := cc.noCache || len(cc.cfg.Database.Addrs) == 0

	obs, err := newObserver(cc.logger, cc.metricsReg)
	if err != nil {
		return nil, err
	}

	a, err := app.Build(ctx, cc.cfg, app.Options{NoCache: noCache}, obs.logger)
	if err != nil {
		return nil, fmt.Errorf("researcher: %w", err)
	}

	c := &Client{research: a.Research, closeFn: a.Close, obs: obs}
	if a.Health != nil {
		c.health = a.Health
	}
	return c, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.closeFn != nil {
		c.closeFn()
	}
}

// Ask answers question. Cached answers are returned verbatim.
func (c *Client) Ask(ctx context.Context, question string) (ans Answer, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ask", start, err) }()

	ans, err = c.research.Run(ctx, question)
	if err != nil {
		return Answer{}, fmt.Errorf("ask: %w", err)
	}
	return ans, nil
}

// Health checks the cache store and model provider.
// Without a store it reports "ok" with no checks.
func (c *Client) Health(ctx context.Context) HealthStatus {
	if c.health == nil {
		return HealthStatus{Status: string(healthuc.Healthy), Checks: map[string]string{}}
	}
	report := c.health.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{Status: string(report.Status), Checks: checks}
}
