// Package schedule drives the bot's background tasks, each on its own ticker.
package schedule

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/moaibot/discord-snark-bot/logging"
)

// Task is one recurring background job.
type Task interface {
	Name() string
	Run(ctx context.Context) error
}

type entry struct {
	task         Task
	interval     time.Duration
	initialDelay time.Duration
}

// Runner owns a set of tasks and ticks each one on its own goroutine. Task
// errors are logged and the ticking continues; only context cancellation
// stops a task.
type Runner struct {
	entries []entry
	logger  *logging.Logger
	group   *errgroup.Group
}

func NewRunner(logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.Default()
	}
	return &Runner{logger: logger.WithComponent("schedule")}
}

// Add registers a task. Must be called before Start.
func (r *Runner) Add(task Task, interval, initialDelay time.Duration) {
	r.entries = append(r.entries, entry{task: task, interval: interval, initialDelay: initialDelay})
}

// Start launches every registered task and returns. Cancel the context to
// stop them, then Wait for the loops to drain.
func (r *Runner) Start(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)
	r.group = g
	for _, e := range r.entries {
		e := e
		g.Go(func() error {
			r.loop(ctx, e)
			return nil
		})
	}
}

// Wait blocks until every task loop has exited.
func (r *Runner) Wait() {
	if r.group != nil {
		_ = r.group.Wait()
	}
}

func (r *Runner) loop(ctx context.Context, e entry) {
	r.logger.Info("task scheduled", "task", e.task.Name(), "interval", e.interval.String(), "initialDelay", e.initialDelay.String())

	delay := time.NewTimer(e.initialDelay)
	defer delay.Stop()
	select {
	case <-ctx.Done():
		return
	case <-delay.C:
	}
	r.runOne(ctx, e.task)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("task stopped", "task", e.task.Name())
			return
		case <-ticker.C:
			r.runOne(ctx, e.task)
		}
	}
}

// runOne executes a single tick. A panicking task is contained and logged so
// one bad tick cannot take the scheduler down.
func (r *Runner) runOne(ctx context.Context, t Task) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("task panicked", "task", t.Name(), "panic", errors.Errorf("%v", rec).Error())
		}
	}()
	if err := t.Run(ctx); err != nil {
		r.logger.Error("task run failed", "task", t.Name(), "error", err.Error())
	}
}
