package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"NewsBulletin/internal/domain"
	"NewsBulletin/internal/ports"
)

const (
	searchDepth = "advanced"
	searchTopic = "news"

	// minFilteredResults below this count a domain-restricted search is retried unrestricted.
	minFilteredResults = 5
	// DefaultMaxResults bounds a search when the caller passes zero.
	DefaultMaxResults = 25
)

// CollectRequest describes one article collection.
type CollectRequest struct {
	Query      string
	Window     domain.DateWindow
	Sources    domain.SourceFilter
	MaxResults int
}

// Collector turns search hits into validated, categorized, in-window articles.
type Collector struct {
	searcher ports.Searcher
	logger   *slog.Logger
}

// NewCollector wires the search collaborator.
func NewCollector(searcher ports.Searcher, logger *slog.Logger) *Collector {
	return &Collector{searcher: searcher, logger: logger}
}

// Collect searches once, retries once without domains when a restricted search
// fails or comes back thin, then maps and filters the hits in received order.
func (c *Collector) Collect(ctx context.Context, req CollectRequest) ([]domain.Article, error) {
	if c.searcher == nil {
		return nil, fmt.Errorf("%w: search client is not configured", domain.ErrSearchUnavailable)
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	search := ports.SearchRequest{
		Query:             req.Query,
		Depth:             searchDepth,
		Topic:             searchTopic,
		Days:              req.Window.Days(),
		MaxResults:        maxResults,
		IncludeRawContent: true,
		Domains:           req.Sources.Domains(),
	}

	results, err := c.searcher.Search(ctx, search)
	if err != nil {
		c.warn("search failed", "query", req.Query, "domains", len(search.Domains), "error", err)
	}

	if !req.Sources.IsEmpty() && (err != nil || len(results) < minFilteredResults) {
		c.debug("broadening search", "first_results", len(results))
		broadened := search
		broadened.Domains = nil

		retried, retryErr := c.searcher.Search(ctx, broadened)
		switch {
		case retryErr == nil:
			results, err = retried, nil
		case err == nil:
			c.warn("broadened search failed, keeping restricted results", "error", retryErr)
		default:
			err = errors.Join(err, retryErr)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSearchUnavailable, err)
	}

	articles := c.filter(results, req.Window)
	c.debug("collected articles", "raw", len(results), "kept", len(articles))
	return articles, nil
}

func (c *Collector) filter(results []domain.RawResult, window domain.DateWindow) []domain.Article {
	articles := make([]domain.Article, 0, len(results))
	seen := make(map[string]struct{}, len(results))

	for _, raw := range results {
		article, err := domain.NewArticle(raw)
		if err != nil {
			c.debug("dropping search result", "url", raw.URL, "reason", err)
			continue
		}
		if !article.InWindow(window) {
			continue
		}
		if _, dup := seen[article.URL()]; dup {
			continue
		}
		seen[article.URL()] = struct{}{}
		articles = append(articles, article)
	}

	return articles
}

func (c *Collector) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Collector) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
