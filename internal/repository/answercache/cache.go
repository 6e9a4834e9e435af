// Package answercache stores pipeline answers in a key-value store under a
// bounded key namespace.
//
// Eviction is lexicographic on the key string. Keys are content hashes, so
// the smallest key is not the oldest entry: this is an arbitrary, not a
// least-recently-used, policy.
package answercache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/researcher/internal/db"
	"github.com/kailas-cloud/researcher/internal/domain"
)

// Defaults for the answer cache.
const (
	DefaultPrefix = "llm_cache:"
	DefaultTTL    = 24 * time.Hour
	DefaultLimit  = 50
)

// store is the consumer interface for the answer cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	Del(ctx context.Context, keys ...string) error
}

// Config holds answer cache settings. Zero values fall back to defaults.
type Config struct {
	Prefix string
	TTL    time.Duration
	Limit  int
}

// Cache is a bounded answer cache. It is safe for concurrent use but the
// enumerate-then-delete eviction is not atomic: concurrent writers may
// transiently exceed the limit.
type Cache struct {
	store      store
	prefix     string
	ttl        time.Duration
	limit      int
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates an answer cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"/"evicted"), may be nil.
func New(s store, cfg Config, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		store:      s,
		prefix:     cfg.Prefix,
		ttl:        cfg.TTL,
		limit:      cfg.Limit,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Key derives the cache key from the normalized question text.
func (c *Cache) Key(question string) string {
	h := sha256.Sum256([]byte(domain.NormalizeQuestion(question)))
	return c.prefix + hex.EncodeToString(h[:])
}

// Lookup reads a cached answer. A missing key is (zero, false, nil);
// store failures are returned to the caller.
func (c *Cache) Lookup(ctx context.Context, key string) (domain.Answer, bool, error) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			c.inc("miss", 1)
			return domain.Answer{}, false, nil
		}
		return domain.Answer{}, false, fmt.Errorf("cache get %s: %w", key, err)
	}

	var ans domain.Answer
	if err := json.Unmarshal(data, &ans); err != nil {
		return domain.Answer{}, false, fmt.Errorf("decode cached answer %s: %w", key, err)
	}

	c.inc("hit", 1)
	return ans, true, nil
}

// Store writes the answer unconditionally with the configured TTL (last writer wins).
func (c *Cache) Store(ctx context.Context, key string, ans domain.Answer) error {
	data, err := json.Marshal(ans)
	if err != nil {
		return fmt.Errorf("encode answer: %w", err)
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// EvictOverflow deletes the lexicographically smallest keys under the prefix
// until at most limit keys remain. Returns the number of deleted keys.
func (c *Cache) EvictOverflow(ctx context.Context, limit int) (int, error) {
	keys, err := c.store.Scan(ctx, c.prefix+"*")
	if err != nil {
		return 0, fmt.Errorf("cache scan: %w", err)
	}
	if len(keys) <= limit {
		return 0, nil
	}

	sort.Strings(keys)
	victims := keys[:len(keys)-limit]
	if err := c.store.Del(ctx, victims...); err != nil {
		return 0, fmt.Errorf("cache evict: %w", err)
	}

	c.inc("evicted", len(victims))
	c.logger.Debug("Evicted cached answers",
		zap.Int("evicted", len(victims)),
		zap.Int("limit", limit),
	)
	return len(victims), nil
}

// Put stores the answer and trims the namespace to the configured limit.
func (c *Cache) Put(ctx context.Context, key string, ans domain.Answer) error {
	if err := c.Store(ctx, key, ans); err != nil {
		return err
	}
	if _, err := c.EvictOverflow(ctx, c.limit); err != nil {
		return err
	}
	return nil
}

func (c *Cache) inc(result string, n int) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Add(float64(n))
	}
}
