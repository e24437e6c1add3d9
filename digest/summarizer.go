package digest

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/pemistahl/lingua-go"
	"golang.org/x/sync/errgroup"

	"github.com/kova98/threadbrief/config"
	"github.com/kova98/threadbrief/metrics"
	"github.com/kova98/threadbrief/models"
)

// Completer is the text-generation boundary: one system instruction, one user
// payload, one completion.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type Summarizer struct {
	logger   *slog.Logger
	llm      Completer
	workers  int
	detector lingua.LanguageDetector
}

func NewSummarizer(logger *slog.Logger, llm Completer) *Summarizer {
	s := &Summarizer{
		logger:  logger,
		llm:     llm,
		workers: config.Config.SummaryWorkers,
	}

	if config.Config.SkipNonEnglish {
		s.detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.English, lingua.Spanish, lingua.French, lingua.German, lingua.Portuguese, lingua.Russian, lingua.Chinese, lingua.Japanese).
			Build()
	}

	return s
}

// Summarize enriches every retained top-level comment with an LLM summary of
// its thread. One call per top-level comment, at most workers in flight. A
// failed call leaves that comment's summary empty and never touches the rest;
// output order is the input order because each task writes only into its own
// comment.
func (s *Summarizer) Summarize(ctx context.Context, posts []models.FilteredPost) []models.FilteredPost {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for pi := range posts {
		for ci := range posts[pi].Comments {
			comment := &posts[pi].Comments[ci]
			g.Go(func() error {
				s.summarize(ctx, comment)
				return nil
			})
		}
	}

	// Tasks never return errors; failures are per-comment and non-fatal.
	_ = g.Wait()

	return posts
}

func (s *Summarizer) summarize(ctx context.Context, comment *models.FilteredComment) {
	if s.detector != nil {
		if lang, ok := s.detector.DetectLanguageOf(comment.Text); ok && lang != lingua.English {
			s.logger.Info("skipping non-english comment", "comment_id", comment.ID, "language", lang.String())
			return
		}
	}

	payload, err := json.Marshal(comment)
	if err != nil {
		s.logger.Error("failed to serialize comment", "comment_id", comment.ID, "error", err)
		metrics.SummaryFailures.Inc()
		return
	}

	summary, err := s.llm.Complete(ctx, commentSummaryPrompt, string(payload))
	if err != nil {
		s.logger.Error("failed to summarize comment", "comment_id", comment.ID, "error", err)
		metrics.SummaryFailures.Inc()
		return
	}

	comment.Summary = summary
}
