// Package websearch implements web search over the Google Custom Search JSON API.
package websearch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/kailas-cloud/researcher/internal/domain"
)

// DefaultResultsPerQuery is the API maximum for a single page.
const DefaultResultsPerQuery = 10

// Config holds the Custom Search settings.
type Config struct {
	APIKey          string
	CX              string // search engine id
	ResultsPerQuery int
	BaseURL         string // test override
	Logger          *zap.Logger
}

// Client issues one Custom Search request per query.
type Client struct {
	svc    *customsearch.Service
	cx     string
	num    int64
	logger *zap.Logger
}

// New creates a Custom Search client.
func New(ctx context.Context, cfg *Config) (*Client, error) {
	if cfg.APIKey == "" || cfg.CX == "" {
		return nil, fmt.Errorf("search api_key and cx are required")
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(strings.TrimRight(cfg.BaseURL, "/")+"/"))
	}

	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create custom search service: %w", err)
	}

	num := cfg.ResultsPerQuery
	if num <= 0 || num > DefaultResultsPerQuery {
		num = DefaultResultsPerQuery
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{svc: svc, cx: cfg.CX, num: int64(num), logger: logger}, nil
}

// Search returns the result items for query in API order.
// Items without a link are kept; deduplication drops them later.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Document, error) {
	start := time.Now()

	res, err := c.svc.Cse.List().Cx(c.cx).Q(query).Num(c.num).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("custom search %q: %w: %w", query, domain.ErrSearchProvider, err)
	}

	docs := make([]domain.Document, 0, len(res.Items))
	for _, item := range res.Items {
		if item == nil {
			continue
		}
		docs = append(docs, domain.Document{
			Title:   item.Title,
			Snippet: item.Snippet,
			URL:     item.Link,
		})
	}

	c.logger.Debug("Custom search finished",
		zap.String("query", query),
		zap.Int("results", len(docs)),
		zap.Duration("duration", time.Since(start)),
	)
	return docs, nil
}
