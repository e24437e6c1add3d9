package digest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/kova98/threadbrief/data"
	"github.com/kova98/threadbrief/metrics"
	"github.com/kova98/threadbrief/models"
)

type Fetcher interface {
	FetchTopPosts(ctx context.Context, subreddit string) ([]models.RawPost, error)
}

type Store interface {
	Exists(cacheKey string) (bool, error)
	InsertOnce(digest data.Digest) (bool, error)
	UpdateDescriptions(cacheKey string, posts []models.FilteredPost) error
	GetByKey(cacheKey string) (*data.Digest, error)
}

// Pipeline runs one epoch for one subreddit: derive the cache key, short-
// circuit if the epoch is already stored, otherwise fetch, filter, summarize,
// store once, then describe and write the descriptions back.
type Pipeline struct {
	logger     *slog.Logger
	fetcher    Fetcher
	summarizer *Summarizer
	describer  *Describer
	store      Store
}

func NewPipeline(logger *slog.Logger, fetcher Fetcher, summarizer *Summarizer, describer *Describer, store Store) *Pipeline {
	return &Pipeline{
		logger:     logger,
		fetcher:    fetcher,
		summarizer: summarizer,
		describer:  describer,
		store:      store,
	}
}

// Run processes one epoch. The second return reports whether this call did
// the processing, as opposed to finding the epoch already stored.
func (p *Pipeline) Run(ctx context.Context, subreddit string) (*data.Digest, bool, error) {
	key, date := CacheKey(subreddit)

	exists, err := p.store.Exists(key)
	if err != nil {
		metrics.DigestRuns.WithLabelValues(subreddit, metrics.OutcomeError).Inc()
		return nil, false, fmt.Errorf("check existing digest: %w", err)
	}
	if exists {
		p.logger.Info("digest already processed, skipping", "subreddit", subreddit, "date", date)
		metrics.DigestRuns.WithLabelValues(subreddit, metrics.OutcomeCached).Inc()
		stored, err := p.store.GetByKey(key)
		return stored, false, err
	}

	posts, err := p.fetcher.FetchTopPosts(ctx, subreddit)
	if err != nil {
		metrics.DigestRuns.WithLabelValues(subreddit, metrics.OutcomeError).Inc()
		return nil, false, fmt.Errorf("fetch posts: %w", err)
	}

	filtered := FilterPosts(posts)
	filtered = p.summarizer.Summarize(ctx, filtered)

	postsRaw, err := json.Marshal(filtered)
	if err != nil {
		metrics.DigestRuns.WithLabelValues(subreddit, metrics.OutcomeError).Inc()
		return nil, false, fmt.Errorf("marshal filtered posts: %w", err)
	}

	inserted, err := p.store.InsertOnce(data.Digest{
		CacheKey:  key,
		Subreddit: subreddit,
		Date:      date,
		PostsRaw:  postsRaw,
	})
	if err != nil {
		metrics.DigestRuns.WithLabelValues(subreddit, metrics.OutcomeError).Inc()
		return nil, false, fmt.Errorf("store digest: %w", err)
	}
	if !inserted {
		// A concurrent run for the same epoch won the insert; its document stands.
		p.logger.Info("digest already stored by another run", "subreddit", subreddit, "date", date)
		metrics.DigestRuns.WithLabelValues(subreddit, metrics.OutcomeDuplicate).Inc()
		stored, err := p.store.GetByKey(key)
		return stored, false, err
	}

	described := p.describer.Describe(ctx, filtered)
	if err := p.store.UpdateDescriptions(key, described); err != nil {
		metrics.DigestRuns.WithLabelValues(subreddit, metrics.OutcomeError).Inc()
		return nil, false, fmt.Errorf("store descriptions: %w", err)
	}

	p.logger.Info("digest processed", "subreddit", subreddit, "date", date, "posts", len(described))
	metrics.DigestRuns.WithLabelValues(subreddit, metrics.OutcomeProcessed).Inc()

	stored, err := p.store.GetByKey(key)
	return stored, true, err
}
