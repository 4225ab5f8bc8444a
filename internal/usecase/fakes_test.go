package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"NewsBulletin/internal/domain"
	"NewsBulletin/internal/ports"
)

type searchReply struct {
	results []domain.RawResult
	err     error
}

type fakeSearcher struct {
	mu      sync.Mutex
	replies []searchReply
	calls   []ports.SearchRequest
}

func (f *fakeSearcher) Search(_ context.Context, req ports.SearchRequest) ([]domain.RawResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := len(f.calls)
	f.calls = append(f.calls, req)
	if idx >= len(f.replies) {
		return nil, errors.New("unexpected search call")
	}
	return f.replies[idx].results, f.replies[idx].err
}

type fakeWriter struct {
	content  string
	err      error
	requests []domain.BulletinRequest
}

func (f *fakeWriter) WriteBulletin(_ context.Context, req domain.BulletinRequest) (string, error) {
	f.requests = append(f.requests, req)
	return f.content, f.err
}

type fakeArchive struct {
	featured map[string]bool
	err      error
	saved    []domain.Bulletin
}

func (f *fakeArchive) AlreadyFeatured(_ context.Context, urls []string) (map[string]bool, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]bool{}
	for _, u := range urls {
		if f.featured[u] {
			out[u] = true
		}
	}
	return out, nil
}

func (f *fakeArchive) SaveBulletin(_ context.Context, b domain.Bulletin) error {
	f.saved = append(f.saved, b)
	return nil
}

type fakeNotifier struct {
	texts []string
	err   error
}

func (f *fakeNotifier) PublishBulletin(_ context.Context, text string) error {
	f.texts = append(f.texts, text)
	return f.err
}

func augustWindow() domain.DateWindow {
	w, err := domain.NewDateWindow(
		time.Date(2025, time.August, 24, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.August, 31, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		panic(err)
	}
	return w
}

func raw(title, link, published string) domain.RawResult {
	return domain.RawResult{Title: title, URL: link, Content: "content for " + title, PublishedDate: published}
}

func inWindowResults(n int) []domain.RawResult {
	out := make([]domain.RawResult, n)
	for i := range out {
		out[i] = raw("story", "https://example.com/"+string(rune('a'+i)), "2025-08-26T12:00:00Z")
	}
	return out
}
