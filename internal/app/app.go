// Package app assembles the research pipeline from configuration.
// It is shared by the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/researcher/internal/config"
	"github.com/kailas-cloud/researcher/internal/db"
	dbRedis "github.com/kailas-cloud/researcher/internal/db/redis"
	"github.com/kailas-cloud/researcher/internal/metrics"
	"github.com/kailas-cloud/researcher/internal/repository/answercache"
	"github.com/kailas-cloud/researcher/internal/transport/gemini"
	openaiModel "github.com/kailas-cloud/researcher/internal/transport/openai"
	"github.com/kailas-cloud/researcher/internal/transport/websearch"
	"github.com/kailas-cloud/researcher/internal/usecase/agent"
	healthuc "github.com/kailas-cloud/researcher/internal/usecase/health"
	"github.com/kailas-cloud/researcher/internal/usecase/instrumented"
	"github.com/kailas-cloud/researcher/internal/usecase/research"
)

// Options tweak the assembly.
type Options struct {
	NoCache bool // skip the store and cache nothing
}

// App is the assembled pipeline.
type App struct {
	Research *research.Service
	Health   *healthuc.Service // nil when built with NoCache
	store    db.Store
}

// Close releases the store connection.
func (a *App) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

// Build wires store, model, searcher, collaborators and the orchestrator.
func Build(ctx context.Context, cfg config.Config, opts Options, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.RegisterResearchMetrics()

	model, err := NewModel(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, err
	}

	searcher, err := websearch.New(ctx, &websearch.Config{
		APIKey:          cfg.Search.APIKey,
		CX:              cfg.Search.CX,
		ResultsPerQuery: cfg.Search.ResultsPerQuery,
		BaseURL:         cfg.Search.BaseURL,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("web search: %w", err)
	}

	a := &App{}

	var cache research.Cache = research.NoCache{}
	if !opts.NoCache {
		store, err := NewStore(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		a.store = store
		cache = answercache.New(store, answercache.Config{
			Prefix: cfg.Cache.KeyPrefix,
			TTL:    time.Duration(cfg.Cache.TTLSec) * time.Second,
			Limit:  cfg.Cache.Limit,
		}, metrics.AnswerCacheTotal, logger)

		var checker healthuc.ModelChecker
		if hc, ok := model.(healthuc.ModelChecker); ok {
			checker = hc
		}
		a.Health = healthuc.New(store, checker)
	}

	a.Research = research.New(
		instrumented.NewQueryGenerator(agent.NewQueryGenerator(model, cfg.Pipeline.MaxQueries, logger)),
		instrumented.NewSearcher(searcher),
		instrumented.NewReflector(agent.NewReflector(
			model,
			instrumented.NewSlotExtractor(agent.NewSlots(model, logger)),
			logger,
		)),
		instrumented.NewSynthesizer(agent.NewSynthesizer(model, logger)),
		cache,
		cfg.Pipeline.ReflectionRounds(),
		logger,
	)
	return a, nil
}

// NewModel returns the configured generative model.
func NewModel(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (agent.Model, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Provider {
	case config.ProviderGemini:
		m, err := gemini.NewModel(ctx, &gemini.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Logger:      logger,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini model: %w", err)
		}
		logger.Info("Generative model configured", zap.String("model", m.Name()))
		return m, nil
	case config.ProviderOpenAI, "":
		m := openaiModel.NewModel(&openaiModel.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Provider:    config.ProviderOpenAI,
			Logger:      logger,
		})
		logger.Info("Generative model configured", zap.String("model", m.Name()))
		return m, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// NewStore connects to Redis and waits until it answers.
func NewStore(ctx context.Context, cfg config.DatabaseConfig) (db.Store, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("store not ready: %w", err)
	}
	return store, nil
}
