package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"NewsBulletin/internal/config"
	"NewsBulletin/internal/domain"
	"NewsBulletin/internal/infrastructure/cache"
	"NewsBulletin/internal/infrastructure/llm"
	"NewsBulletin/internal/infrastructure/scheduler"
	"NewsBulletin/internal/infrastructure/search"
	"NewsBulletin/internal/infrastructure/storage"
	"NewsBulletin/internal/infrastructure/telegram"
	"NewsBulletin/internal/logging"
	"NewsBulletin/internal/ports"
	"NewsBulletin/internal/presenter"
	"NewsBulletin/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	now      func() time.Time

	db    *sql.DB
	redis *redis.Client
}

// RunOptions are the per-invocation inputs shared by generate and search.
type RunOptions struct {
	// EndDate is a localized day such as "31 Ağustos 2025"; empty means today.
	EndDate string
	// Days overrides bulletin.lookbackDays when positive.
	Days int
}

// New builds the application; optional backends (Redis, Postgres, Telegram) are
// attached only when configured.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	a := &Application{cfg: cfg, logger: baseLogger, now: time.Now}

	var searcher ports.Searcher = search.NewTavilyClient(cfg.Search)
	if cfg.Cache.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.Cache.RedisURL)
		if err != nil {
			baseLogger.Warn("search cache disabled", "error", err)
		} else {
			a.redis = client
			searcher = cache.NewRedisSearcher(searcher, client, cfg.Cache.TTL(), baseLogger.With("component", "cache"))
		}
	}

	var archive ports.BulletinArchive
	if cfg.Archive.DSN != "" {
		db, err := storage.Open(ctx, cfg.Archive.DSN)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		repo := storage.NewPostgresRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			_ = a.Close()
			return nil, err
		}
		a.db = db
		archive = repo
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.Enabled() {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Searcher:     searcher,
		Writer:       newWriter(cfg.Writer),
		Archive:      archive,
		Notifier:     notifier,
		Logger:       baseLogger.With("component", "pipeline"),
		SkipFeatured: cfg.Archive.SkipFeatured,
	})

	return a, nil
}

func newWriter(cfg config.WriterConfig) ports.BulletinWriter {
	if cfg.APIKey() == "" {
		return nil
	}
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return llm.NewAnthropicWriter(cfg)
	default:
		return llm.NewOpenAIWriter(cfg)
	}
}

// Window resolves the bulletin window for the options.
func (a *Application) Window(opts RunOptions) (domain.DateWindow, error) {
	days := opts.Days
	if days <= 0 {
		days = a.cfg.Bulletin.LookbackDays
	}

	loc := a.cfg.Bulletin.Location()
	if opts.EndDate != "" {
		return domain.ParseLocalizedDate(opts.EndDate, days, loc)
	}
	return domain.LastNDays(midnight(a.now(), loc), days)
}

// Sources returns the configured domain filter or the default list.
func (a *Application) Sources() (domain.SourceFilter, error) {
	if len(a.cfg.Bulletin.Domains) == 0 {
		return domain.DefaultSourceFilter(), nil
	}
	return domain.NewSourceFilter(a.cfg.Bulletin.Domains)
}

// Generate runs the full pipeline for the options.
func (a *Application) Generate(ctx context.Context, opts RunOptions) (domain.Bulletin, error) {
	req, err := a.request(opts)
	if err != nil {
		return domain.Bulletin{}, err
	}
	return a.pipeline.Generate(ctx, req)
}

// Search runs only the collection stage and returns the window it used.
func (a *Application) Search(ctx context.Context, opts RunOptions) (domain.DateWindow, []domain.Article, error) {
	req, err := a.request(opts)
	if err != nil {
		return domain.DateWindow{}, nil, err
	}
	articles, err := a.pipeline.Collect(ctx, req)
	return req.Window, articles, err
}

// Schedule generates and saves a bulletin on every cron trigger until ctx ends.
func (a *Application) Schedule(ctx context.Context) error {
	driver := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())
	if next, err := driver.Next(a.now()); err == nil {
		a.logger.Info("scheduler started", "cron", a.cfg.Scheduler.CronExpression, "next", next.Format(time.RFC3339))
	}

	sched := usecase.NewScheduler(driver, a.scheduledRun, a.logger.With("component", "scheduler"))
	if err := sched.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return sched.Stop(stopCtx)
}

func (a *Application) scheduledRun(ctx context.Context, trigger time.Time) error {
	window, err := domain.LastNDays(midnight(trigger, a.cfg.Bulletin.Location()), a.cfg.Bulletin.LookbackDays)
	if err != nil {
		return err
	}
	sources, err := a.Sources()
	if err != nil {
		return err
	}

	bulletin, err := a.pipeline.Generate(ctx, usecase.GenerateRequest{
		Query:      a.cfg.Bulletin.Query,
		Window:     window,
		Sources:    sources,
		MaxResults: a.cfg.Bulletin.MaxResults,
	})
	if err != nil {
		return err
	}
	if bulletin.WriterFailed {
		return fmt.Errorf("bulletin %s not saved: %s", bulletin.RunID, bulletin.Content)
	}

	path, err := presenter.SaveBulletin(a.cfg.Bulletin.OutputDir, "", bulletin)
	if err != nil {
		return err
	}
	a.logger.Info("scheduled bulletin saved", "run_id", bulletin.RunID, "path", path, "articles", bulletin.ArticleCount)
	return nil
}

func (a *Application) request(opts RunOptions) (usecase.GenerateRequest, error) {
	window, err := a.Window(opts)
	if err != nil {
		return usecase.GenerateRequest{}, err
	}
	sources, err := a.Sources()
	if err != nil {
		return usecase.GenerateRequest{}, err
	}
	return usecase.GenerateRequest{
		Query:      a.cfg.Bulletin.Query,
		Window:     window,
		Sources:    sources,
		MaxResults: a.cfg.Bulletin.MaxResults,
	}, nil
}

// Close releases the optional backend connections.
func (a *Application) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
		a.redis = nil
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
		a.db = nil
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close application: %w", err)
	}
	return nil
}

func midnight(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
