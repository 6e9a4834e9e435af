package researcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/researcher/internal/config"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	cfg        config.Config
	noCache    bool
	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithRedis stores answers in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Database.Addrs = []string{addr}
		c.cfg.Database.Password = password
	})
}

// WithoutCache disables the answer cache even when WithRedis is set.
func WithoutCache() Option {
	return optionFunc(func(c *clientConfig) {
		c.noCache = true
	})
}

// WithOpenAI uses an OpenAI-compatible chat model. Empty baseURL means api.openai.com.
func WithOpenAI(apiKey, baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.LLM.Provider = config.ProviderOpenAI
		c.cfg.LLM.APIKey = apiKey
		c.cfg.LLM.BaseURL = baseURL
	})
}

// WithGemini uses a Google Gemini model.
func WithGemini(apiKey string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.LLM.Provider = config.ProviderGemini
		c.cfg.LLM.APIKey = apiKey
	})
}

// WithModel overrides the provider default model name.
func WithModel(model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.LLM.Model = model
	})
}

// WithCustomSearch sets the Google Custom Search credentials.
func WithCustomSearch(apiKey, cx string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Search.APIKey = apiKey
		c.cfg.Search.CX = cx
	})
}

// WithMaxReflectionRounds bounds reflection calls per question. Default: 2.
// Zero skips reflection.
func WithMaxReflectionRounds(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Pipeline.MaxReflectionRounds = &n
	})
}

// WithCacheLimit caps the number of cached answers. Default: 50.
func WithCacheLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cfg.Cache.Limit = n
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
