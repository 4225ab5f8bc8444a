package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsBulletin/internal/config"
	"NewsBulletin/internal/ports"
)

func TestTavilySearch(t *testing.T) {
	t.Parallel()

	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tvly-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"title":"First","url":"https://techcrunch.com/a","content":"<p>Plain <b>text</b></p>","published_date":"2025-08-25","score":0.9},
			{"title":"Second","url":"https://wired.com/b","content":"no markup","raw_content":"ignored full page","score":0.5},
			{"title":"Third","url":"https://venturebeat.com/c","content":"  ","raw_content":"<article><p>Full page body</p></article>"}
		]}`))
	}))
	defer server.Close()

	client := NewTavilyClient(config.SearchConfig{Endpoint: server.URL, APIKey: "tvly-test"})
	results, err := client.Search(context.Background(), ports.SearchRequest{
		Query:             "ai",
		Depth:             "advanced",
		Topic:             "news",
		Days:              7,
		MaxResults:        25,
		IncludeRawContent: true,
		Domains:           []string{"techcrunch.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, "tvly-test", got["api_key"])
	assert.Equal(t, "ai", got["query"])
	assert.Equal(t, "advanced", got["search_depth"])
	assert.Equal(t, "news", got["topic"])
	assert.EqualValues(t, 7, got["days"])
	assert.EqualValues(t, 25, got["max_results"])
	assert.Equal(t, true, got["include_raw_content"])
	assert.Equal(t, []any{"techcrunch.com"}, got["include_domains"])

	require.Len(t, results, 3)
	assert.Equal(t, "First", results[0].Title)
	assert.Equal(t, "Plain text", results[0].Content)
	assert.Equal(t, "2025-08-25", results[0].PublishedDate)
	assert.Equal(t, "no markup", results[1].Content)
	assert.Empty(t, results[1].PublishedDate)
	assert.Equal(t, "Full page body", results[2].Content, "raw content fills an empty snippet")
}

func TestTavilySearchOmitsEmptyDomains(t *testing.T) {
	t.Parallel()

	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	client := NewTavilyClient(config.SearchConfig{Endpoint: server.URL, APIKey: "k"})
	results, err := client.Search(context.Background(), ports.SearchRequest{Query: "ai"})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.NotContains(t, got, "include_domains")
}

func TestTavilySearchHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewTavilyClient(config.SearchConfig{Endpoint: server.URL, APIKey: "bad"})
	_, err := client.Search(context.Background(), ports.SearchRequest{Query: "ai"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestTavilySearchRequiresKey(t *testing.T) {
	t.Parallel()

	client := NewTavilyClient(config.SearchConfig{Endpoint: "http://127.0.0.1:0"})
	_, err := client.Search(context.Background(), ports.SearchRequest{Query: "ai"})
	require.Error(t, err)
}

func TestTavilySearchHonoursContext(t *testing.T) {
	t.Parallel()

	client := NewTavilyClient(config.SearchConfig{Endpoint: "http://127.0.0.1:0", APIKey: "k", RequestsPerSecond: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Search(ctx, ports.SearchRequest{Query: "ai"})
	require.Error(t, err)
}
