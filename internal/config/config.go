package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the researcher configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	Search   SearchConfig   `yaml:"search"`
	Cache    CacheConfig    `yaml:"cache"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication and CORS settings.
type AuthConfig struct {
	APIKeys     []string `yaml:"api_keys"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"` // covers a full pipeline run
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds answer cache store connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// LLM providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// LLMConfig holds generative model settings.
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // openai (default), gemini
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"` // empty = provider default
	Temperature float32 `yaml:"temperature"`
}

// SearchConfig holds Google Custom Search settings.
type SearchConfig struct {
	APIKey          string `yaml:"api_key"`
	CX              string `yaml:"cx"`
	ResultsPerQuery int    `yaml:"results_per_query"`
	BaseURL         string `yaml:"base_url"`
}

// CacheConfig holds answer cache settings.
type CacheConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
	TTLSec    int    `yaml:"ttl_sec"`
	Limit     int    `yaml:"limit"`
}

// PipelineConfig holds research loop settings.
type PipelineConfig struct {
	// MaxReflectionRounds caps reflection calls; nil means default, 0 disables reflection.
	MaxReflectionRounds *int `yaml:"max_reflection_rounds"`
	MaxQueries          int  `yaml:"max_queries"`
}

// ReflectionRounds returns the configured round budget.
func (p PipelineConfig) ReflectionRounds() int {
	if p.MaxReflectionRounds == nil {
		return DefaultMaxReflectionRounds
	}
	return *p.MaxReflectionRounds
}

// Defaults.
const (
	DefaultMaxReflectionRounds = 2
	DefaultMaxQueries          = 5
	DefaultResultsPerQuery     = 10
	DefaultCacheKeyPrefix      = "llm_cache:"
	DefaultCacheTTLSec         = 86400
	DefaultCacheLimit          = 50
	DefaultCORSOrigin          = "http://localhost:5173"
)

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderOpenAI
	}
	if c.Search.ResultsPerQuery == 0 {
		c.Search.ResultsPerQuery = DefaultResultsPerQuery
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = DefaultCacheKeyPrefix
	}
	if c.Cache.TTLSec == 0 {
		c.Cache.TTLSec = DefaultCacheTTLSec
	}
	if c.Cache.Limit == 0 {
		c.Cache.Limit = DefaultCacheLimit
	}
	if c.Pipeline.MaxQueries == 0 {
		c.Pipeline.MaxQueries = DefaultMaxQueries
	}
	if c.Pipeline.MaxReflectionRounds == nil {
		n := DefaultMaxReflectionRounds
		c.Pipeline.MaxReflectionRounds = &n
	}
	if len(c.Auth.CORSOrigins) == 0 {
		c.Auth.CORSOrigins = []string{DefaultCORSOrigin}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderGemini:
		// ok
	default:
		return fmt.Errorf("llm.provider must be %q or %q, got %q", ProviderOpenAI, ProviderGemini, c.LLM.Provider)
	}
	if c.Search.ResultsPerQuery < 1 || c.Search.ResultsPerQuery > 10 {
		return fmt.Errorf("search.results_per_query must be between 1 and 10, got %d", c.Search.ResultsPerQuery)
	}
	if c.Cache.Limit < 1 {
		return fmt.Errorf("cache.limit must be at least 1, got %d", c.Cache.Limit)
	}
	if c.Cache.TTLSec < 1 {
		return fmt.Errorf("cache.ttl_sec must be positive, got %d", c.Cache.TTLSec)
	}
	if c.Pipeline.ReflectionRounds() < 0 {
		return fmt.Errorf("pipeline.max_reflection_rounds must not be negative, got %d", c.Pipeline.ReflectionRounds())
	}
	if c.Pipeline.MaxQueries < 1 {
		return fmt.Errorf("pipeline.max_queries must be at least 1, got %d", c.Pipeline.MaxQueries)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
