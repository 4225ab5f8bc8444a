package ports

import (
	"context"
	"time"

	"NewsBulletin/internal/domain"
)

// SearchRequest carries the parameters of one call to the news search API.
type SearchRequest struct {
	Query             string
	Depth             string
	Topic             string
	Days              int
	MaxResults        int
	IncludeRawContent bool
	Domains           []string
}

// Searcher queries the upstream news search provider (Tavily).
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) ([]domain.RawResult, error)
}

// BulletinWriter turns a bulletin request into formatted text via an LLM.
type BulletinWriter interface {
	WriteBulletin(ctx context.Context, req domain.BulletinRequest) (string, error)
}

// BulletinArchive persists finished bulletins and remembers featured articles.
type BulletinArchive interface {
	AlreadyFeatured(ctx context.Context, urls []string) (map[string]bool, error)
	SaveBulletin(ctx context.Context, bulletin domain.Bulletin) error
}

// Notifier streams finished bulletins to Telegram or other channels.
type Notifier interface {
	PublishBulletin(ctx context.Context, text string) error
}

// Scheduler controls when bulletin runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
