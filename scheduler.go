package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kova98/threadbrief/data"
	"github.com/kova98/threadbrief/data/repos"
	"github.com/kova98/threadbrief/digest"
	"github.com/kova98/threadbrief/exporters"
	"github.com/kova98/threadbrief/notifiers"
)

type Scheduler struct {
	pipeline   *digest.Pipeline
	cacheRepo  *repos.CacheRepo
	mailer     *notifiers.Mailer
	subreddits []string
	recipients []string
	interval   time.Duration
}

func NewScheduler(pipeline *digest.Pipeline, cacheRepo *repos.CacheRepo, mailer *notifiers.Mailer, subreddits, recipients []string, interval time.Duration) *Scheduler {
	return &Scheduler{
		pipeline:   pipeline,
		cacheRepo:  cacheRepo,
		mailer:     mailer,
		subreddits: subreddits,
		recipients: recipients,
		interval:   interval,
	}
}

// Start runs a digest cycle immediately and then on every tick. Epoch
// idempotency makes extra ticks within the same epoch no-ops, so the interval
// only has to be short enough to not miss a day.
func (s *Scheduler) Start(ctx context.Context) {
	s.runCycle(ctx)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				slog.Info("stopping scheduler")
				return
			case <-ticker.C:
				s.runCycle(ctx)
			}
		}
	}()
}

func (s *Scheduler) runCycle(ctx context.Context) {
	runID := uuid.New().String()
	slog.Info("starting digest cycle", "run_id", runID, "subreddits", s.subreddits)

	for _, subreddit := range s.subreddits {
		stored, processed, err := s.pipeline.Run(ctx, subreddit)
		if err != nil {
			slog.Error("digest run failed", "run_id", runID, "subreddit", subreddit, "error", err)
			continue
		}

		if processed && stored != nil {
			if err := s.sendDigest(subreddit, *stored); err != nil {
				slog.Error("send digest email", "run_id", runID, "subreddit", subreddit, "error", err)
			}
		}
	}

	deleted, err := s.cacheRepo.PurgeExpired()
	if err != nil {
		slog.Error("purge raw cache", "run_id", runID, "error", err)
	} else if deleted > 0 {
		slog.Info("purged expired raw cache entries", "run_id", runID, "deleted", deleted)
	}
}

func (s *Scheduler) sendDigest(subreddit string, stored data.Digest) error {
	if s.mailer == nil || len(s.recipients) == 0 {
		return nil
	}

	rendered, err := exporters.RenderPosts(stored)
	if err != nil {
		return errors.Wrap(err, "render digest for email")
	}

	for _, recipient := range s.recipients {
		mail, err := s.mailer.DigestEmail(recipient, subreddit, stored.Date, rendered)
		if err != nil {
			return errors.Wrap(err, "create digest email")
		}
		if err := s.mailer.Send(mail); err != nil {
			return errors.Wrap(err, "send digest email")
		}
	}

	return nil
}
