package digest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hubwatch/hubwatch/internal/config"
	"github.com/hubwatch/hubwatch/internal/notify"
	"github.com/hubwatch/hubwatch/internal/repository"
	"github.com/robfig/cron/v3"
)

// Scheduler registers the configured digest schedule with robfig/cron.
// When it fires, a summary of the watched repositories is pushed through
// the notify dispatcher as a "digest" event.
type Scheduler struct {
	cfg        config.DigestConfig
	provider   repository.Provider
	dispatcher *notify.Dispatcher
	cron       *cron.Cron
}

func New(cfg config.DigestConfig, provider repository.Provider, dispatcher *notify.Dispatcher) *Scheduler {
	return &Scheduler{
		cfg:        cfg,
		provider:   provider,
		dispatcher: dispatcher,
		cron:       cron.New(),
	}
}

// Enabled reports whether a digest schedule is configured at all.
func (s *Scheduler) Enabled() bool {
	return strings.TrimSpace(s.cfg.Schedule) != "" && len(s.cfg.Repos) > 0
}

// Start registers the schedule and starts the cron runner. A scheduler
// with no configured schedule starts as a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.Enabled() {
		slog.Debug("digest scheduler disabled, no schedule configured")
		return nil
	}
	_, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		if err := s.run(ctx); err != nil {
			slog.Warn("digest run failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid digest schedule %q: %w", s.cfg.Schedule, err)
	}
	s.cron.Start()
	slog.Info("digest scheduler started", "schedule", s.cfg.Schedule, "repos", len(s.cfg.Repos))
	return nil
}

// Stop halts the cron runner gracefully.
func (s *Scheduler) Stop() { s.cron.Stop() }

// Validate checks that expr is parseable by robfig/cron without adding it
// permanently to any runner.
func Validate(expr string) error {
	tmp := cron.New()
	id, err := tmp.AddFunc(expr, func() {})
	if err != nil {
		return err
	}
	tmp.Remove(id)
	return nil
}

// run fetches the watched repositories and sends one digest notification.
// Repos that fail to load are listed as errors rather than aborting the
// whole digest.
func (s *Scheduler) run(ctx context.Context) error {
	event, err := s.build(ctx)
	if err != nil {
		return err
	}
	s.dispatcher.Notify(ctx, event)
	return nil
}

func (s *Scheduler) build(ctx context.Context) (notify.Event, error) {
	var b strings.Builder
	for _, path := range s.cfg.Repos {
		owner, name, err := repository.SplitRepoPath(path)
		if err != nil {
			fmt.Fprintf(&b, "🔸 %s: %v\n", path, err)
			continue
		}
		repo, err := s.provider.GetRepo(ctx, owner, name)
		if err != nil {
			slog.Warn("digest: skipping repo", "repo", path, "error", err)
			fmt.Fprintf(&b, "🔸 %s: unavailable\n", path)
			continue
		}
		fmt.Fprintf(&b, "🔸 %s — ⭐ %d  🍴 %d  🐛 %d open\n",
			repo.FullName, repo.Stars, repo.Forks, repo.OpenIssues)
	}
	return notify.Event{
		Type:  "digest",
		Title: "📊 Repository digest",
		Body:  strings.TrimRight(b.String(), "\n"),
	}, nil
}
