package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"NewsBulletin/internal/ports"
)

var specParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// CronScheduler triggers jobs on a standard 5-field cron expression.
type CronScheduler struct {
	spec     string
	location *time.Location

	mu   sync.Mutex
	cron *cron.Cron
	// stopped is done once the last stopped runner has no job in flight.
	stopped context.Context
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler for spec evaluated in loc.
func NewCronScheduler(spec string, loc *time.Location) *CronScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &CronScheduler{spec: spec, location: loc}
}

// Start registers job; overlapping runs are skipped rather than queued.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	schedule, err := c.parse()
	if err != nil {
		return err
	}
	return c.start(ctx, schedule, job)
}

func (c *CronScheduler) start(ctx context.Context, schedule cron.Schedule, job func(time.Time)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cron != nil {
		return nil
	}

	runner := cron.New(
		cron.WithLocation(c.location),
		cron.WithParser(specParser),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	runner.Schedule(schedule, cron.FuncJob(func() {
		job(time.Now().In(c.location))
	}))
	runner.Start()
	c.cron = runner

	go func() {
		<-ctx.Done()
		_ = c.Stop(context.Background())
	}()

	return nil
}

// Stop halts the cron runner and waits for a running job to finish or ctx to end.
// Every call waits on the same in-flight job, including calls made after the
// runner was already stopped.
func (c *CronScheduler) Stop(ctx context.Context) error {
	c.mu.Lock()
	if c.cron != nil {
		c.stopped = c.cron.Stop()
		c.cron = nil
	}
	stopped := c.stopped
	c.mu.Unlock()

	if stopped == nil {
		return nil
	}

	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next reports the next trigger after t, useful for logging.
func (c *CronScheduler) Next(t time.Time) (time.Time, error) {
	schedule, err := c.parse()
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Next(t.In(c.location)), nil
}

func (c *CronScheduler) parse() (cron.Schedule, error) {
	schedule, err := specParser.Parse(c.spec)
	if err != nil {
		return nil, fmt.Errorf("parse cron expression %q: %w", c.spec, err)
	}
	return schedule, nil
}
