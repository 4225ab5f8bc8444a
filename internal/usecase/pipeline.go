package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"NewsBulletin/internal/domain"
	"NewsBulletin/internal/ports"
)

var errWriterNotConfigured = errors.New("bulletin writer is not configured")

// PipelineDeps wires all driven adapters into the bulletin pipeline.
type PipelineDeps struct {
	Searcher ports.Searcher
	Writer   ports.BulletinWriter
	Archive  ports.BulletinArchive
	Notifier ports.Notifier
	Logger   *slog.Logger
	// SkipFeatured drops articles the archive reports as already published.
	SkipFeatured bool
	Now          func() time.Time
}

// GenerateRequest holds the per-run inputs.
type GenerateRequest struct {
	Query      string
	Window     domain.DateWindow
	Sources    domain.SourceFilter
	MaxResults int
}

// Pipeline implements the bulletin generation workflow.
type Pipeline struct {
	collector    *Collector
	writer       ports.BulletinWriter
	archive      ports.BulletinArchive
	notifier     ports.Notifier
	logger       *slog.Logger
	skipFeatured bool
	now          func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		collector:    NewCollector(deps.Searcher, deps.Logger),
		writer:       deps.Writer,
		archive:      deps.Archive,
		notifier:     deps.Notifier,
		logger:       deps.Logger,
		skipFeatured: deps.SkipFeatured,
		now:          now,
	}
}

// Collect runs only the collection stage; used by the search command.
func (p *Pipeline) Collect(ctx context.Context, req GenerateRequest) ([]domain.Article, error) {
	return p.collector.Collect(ctx, collectRequest(req))
}

// Generate collects articles, asks the writer for a bulletin, then archives and
// delivers it. Only collection errors fail the run; writer errors become text.
func (p *Pipeline) Generate(ctx context.Context, req GenerateRequest) (domain.Bulletin, error) {
	runID := uuid.NewString()
	log := p.runLogger(runID)

	articles, err := p.collector.Collect(ctx, collectRequest(req))
	if err != nil {
		return domain.Bulletin{}, fmt.Errorf("collect articles: %w", err)
	}
	log.Info("articles collected", "count", len(articles), "window", req.Window.Display())

	articles = p.dropFeatured(ctx, log, articles)

	bulletin := domain.Bulletin{
		RunID:        runID,
		DateRange:    req.Window.Display(),
		WindowStart:  req.Window.Start(),
		WindowEnd:    req.Window.End(),
		ArticleCount: len(articles),
		Articles:     articles,
	}

	switch {
	case len(articles) == 0:
		bulletin.Content = domain.EmptyBulletinContent(req.Window)
	case p.writer == nil:
		bulletin.Content = domain.WriterFailureContent(errWriterNotConfigured)
		bulletin.WriterFailed = true
	default:
		content, wErr := p.writer.WriteBulletin(ctx, domain.NewBulletinRequest(articles, req.Window))
		if wErr != nil {
			log.Warn("bulletin writer failed", "error", wErr)
			bulletin.Content = domain.WriterFailureContent(wErr)
			bulletin.WriterFailed = true
		} else {
			bulletin.Content = content
		}
	}
	bulletin.GeneratedAt = p.now()

	if bulletin.WriterFailed {
		return bulletin, nil
	}

	if p.archive != nil {
		if err := p.archive.SaveBulletin(ctx, bulletin); err != nil {
			log.Error("archive bulletin", "error", err)
		}
	}

	if p.notifier != nil {
		if err := p.notifier.PublishBulletin(ctx, bulletin.Document()); err != nil {
			log.Error("publish bulletin", "error", err)
		}
	}

	return bulletin, nil
}

func (p *Pipeline) dropFeatured(ctx context.Context, log *slog.Logger, articles []domain.Article) []domain.Article {
	if !p.skipFeatured || p.archive == nil || len(articles) == 0 {
		return articles
	}

	urls := make([]string, len(articles))
	for i, a := range articles {
		urls[i] = a.URL()
	}

	featured, err := p.archive.AlreadyFeatured(ctx, urls)
	if err != nil {
		log.Warn("load featured articles, keeping all", "error", err)
		return articles
	}

	kept := articles[:0:0]
	for _, a := range articles {
		if featured[a.URL()] {
			continue
		}
		kept = append(kept, a)
	}
	if skipped := len(articles) - len(kept); skipped > 0 {
		log.Info("skipped previously featured articles", "count", skipped)
	}
	return kept
}

func (p *Pipeline) runLogger(runID string) *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.logger.With("run_id", runID)
}

func collectRequest(req GenerateRequest) CollectRequest {
	return CollectRequest{
		Query:      req.Query,
		Window:     req.Window,
		Sources:    req.Sources,
		MaxResults: req.MaxResults,
	}
}
