package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsBulletin/internal/domain"
)

func restricted(t *testing.T) domain.SourceFilter {
	t.Helper()
	filter, err := domain.NewSourceFilter([]string{"techcrunch.com", "wired.com"})
	require.NoError(t, err)
	return filter
}

func TestCollectFiltersByWindowAndDate(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{replies: []searchReply{{results: []domain.RawResult{
		raw("inside", "https://a.example.com/in", "2025-08-25"),
		raw("outside", "https://a.example.com/out", "2025-08-10"),
		raw("undated", "https://a.example.com/none", ""),
	}}}}

	articles, err := NewCollector(searcher, nil).Collect(context.Background(), CollectRequest{
		Query:  "ai",
		Window: augustWindow(),
	})
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "https://a.example.com/in", articles[0].URL())
	require.Len(t, searcher.calls, 1, "unrestricted search is never retried")
}

func TestCollectBuildsSearchRequest(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{replies: []searchReply{{results: inWindowResults(6)}}}

	_, err := NewCollector(searcher, nil).Collect(context.Background(), CollectRequest{
		Query:   "ai news",
		Window:  augustWindow(),
		Sources: restricted(t),
	})
	require.NoError(t, err)

	require.Len(t, searcher.calls, 1)
	call := searcher.calls[0]
	assert.Equal(t, "ai news", call.Query)
	assert.Equal(t, "advanced", call.Depth)
	assert.Equal(t, "news", call.Topic)
	assert.Equal(t, 7, call.Days)
	assert.Equal(t, DefaultMaxResults, call.MaxResults)
	assert.True(t, call.IncludeRawContent)
	assert.Equal(t, []string{"techcrunch.com", "wired.com"}, call.Domains)
}

func TestCollectRetriesThinRestrictedSearch(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{replies: []searchReply{
		{results: inWindowResults(3)},
		{results: []domain.RawResult{
			raw("broad one", "https://b.example.com/1", "2025-08-27"),
			raw("broad two", "https://b.example.com/2", "2025-08-28"),
		}},
	}}

	articles, err := NewCollector(searcher, nil).Collect(context.Background(), CollectRequest{
		Window:  augustWindow(),
		Sources: restricted(t),
	})
	require.NoError(t, err)

	require.Len(t, searcher.calls, 2)
	assert.NotEmpty(t, searcher.calls[0].Domains)
	assert.Empty(t, searcher.calls[1].Domains)

	require.Len(t, articles, 2)
	assert.Equal(t, "https://b.example.com/1", articles[0].URL())
	assert.Equal(t, "https://b.example.com/2", articles[1].URL())
}

func TestCollectRetriesFailedRestrictedSearch(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{replies: []searchReply{
		{err: errors.New("timeout")},
		{results: inWindowResults(2)},
	}}

	articles, err := NewCollector(searcher, nil).Collect(context.Background(), CollectRequest{
		Window:  augustWindow(),
		Sources: restricted(t),
	})
	require.NoError(t, err)
	assert.Len(t, articles, 2)
}

func TestCollectKeepsRestrictedResultsWhenRetryFails(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{replies: []searchReply{
		{results: inWindowResults(2)},
		{err: errors.New("rate limited")},
	}}

	articles, err := NewCollector(searcher, nil).Collect(context.Background(), CollectRequest{
		Window:  augustWindow(),
		Sources: restricted(t),
	})
	require.NoError(t, err)
	assert.Len(t, articles, 2)
}

func TestCollectFailsWhenEveryAttemptFails(t *testing.T) {
	t.Parallel()

	first, second := errors.New("first"), errors.New("second")
	searcher := &fakeSearcher{replies: []searchReply{{err: first}, {err: second}}}

	_, err := NewCollector(searcher, nil).Collect(context.Background(), CollectRequest{
		Window:  augustWindow(),
		Sources: restricted(t),
	})
	require.ErrorIs(t, err, domain.ErrSearchUnavailable)
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
}

func TestCollectUnrestrictedFailure(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{replies: []searchReply{{err: errors.New("down")}}}

	_, err := NewCollector(searcher, nil).Collect(context.Background(), CollectRequest{Window: augustWindow()})
	require.ErrorIs(t, err, domain.ErrSearchUnavailable)
	assert.Len(t, searcher.calls, 1)
}

func TestCollectWithoutSearcher(t *testing.T) {
	t.Parallel()

	_, err := NewCollector(nil, nil).Collect(context.Background(), CollectRequest{Window: augustWindow()})
	require.ErrorIs(t, err, domain.ErrSearchUnavailable)
}

func TestCollectDropsInvalidAndDuplicateResults(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{replies: []searchReply{{results: []domain.RawResult{
		raw("first", "https://a.example.com/x", "2025-08-25"),
		raw("again", "https://a.example.com/x", "2025-08-26"),
		raw("", "https://a.example.com/untitled", "2025-08-25"),
		raw("ftp", "ftp://a.example.com/file", "2025-08-25"),
		raw("undated", "https://b.example.com/y", ""),
		raw("dated", "https://b.example.com/y", "2025-08-27"),
		raw("july", "https://c.example.com/z", "2025-07-01"),
		raw("august", "https://c.example.com/z", "2025-08-28"),
	}}}}

	articles, err := NewCollector(searcher, nil).Collect(context.Background(), CollectRequest{Window: augustWindow()})
	require.NoError(t, err)
	require.Len(t, articles, 3)
	assert.Equal(t, "first", articles[0].Title())
	assert.Equal(t, "dated", articles[1].Title())
	assert.Equal(t, "august", articles[2].Title())
}
