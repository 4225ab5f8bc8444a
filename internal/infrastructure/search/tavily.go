package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"NewsBulletin/internal/config"
	"NewsBulletin/internal/domain"
	"NewsBulletin/internal/ports"
)

const defaultEndpoint = "https://api.tavily.com/search"

// TavilyClient implements ports.Searcher against the Tavily search API.
type TavilyClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ ports.Searcher = (*TavilyClient)(nil)

// NewTavilyClient builds a client from configuration.
func NewTavilyClient(cfg config.SearchConfig) *TavilyClient {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &TavilyClient{
		endpoint:   endpoint,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
	}
}

type searchPayload struct {
	APIKey            string   `json:"api_key"`
	Query             string   `json:"query"`
	SearchDepth       string   `json:"search_depth,omitempty"`
	Topic             string   `json:"topic,omitempty"`
	Days              int      `json:"days,omitempty"`
	MaxResults        int      `json:"max_results,omitempty"`
	IncludeRawContent bool     `json:"include_raw_content"`
	IncludeDomains    []string `json:"include_domains,omitempty"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Content       string `json:"content"`
	RawContent    string `json:"raw_content"`
	PublishedDate string `json:"published_date"`
}

// Search posts the query to Tavily and returns the hits in API order.
func (c *TavilyClient) Search(ctx context.Context, req ports.SearchRequest) ([]domain.RawResult, error) {
	if c == nil {
		return nil, fmt.Errorf("tavily client is nil")
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("tavily client misconfigured: missing api key")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("tavily rate limit: %w", err)
	}

	body, err := json.Marshal(searchPayload{
		APIKey:            c.apiKey,
		Query:             req.Query,
		SearchDepth:       req.Depth,
		Topic:             req.Topic,
		Days:              req.Days,
		MaxResults:        req.MaxResults,
		IncludeRawContent: req.IncludeRawContent,
		IncludeDomains:    req.Domains,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal tavily payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("tavily search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("tavily error %s: %s", resp.Status, strings.TrimSpace(string(excerpt)))
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode tavily response: %w", err)
	}

	results := make([]domain.RawResult, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		content := PlainText(r.Content)
		if strings.TrimSpace(content) == "" {
			content = PlainText(r.RawContent)
		}
		results = append(results, domain.RawResult{
			Title:         r.Title,
			URL:           r.URL,
			Content:       content,
			PublishedDate: r.PublishedDate,
		})
	}

	return results, nil
}
