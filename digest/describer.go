package digest

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/kova98/threadbrief/metrics"
	"github.com/kova98/threadbrief/models"
)

type Describer struct {
	logger *slog.Logger
	llm    Completer
}

func NewDescriber(logger *slog.Logger, llm Completer) *Describer {
	return &Describer{logger: logger, llm: llm}
}

type describeInput struct {
	Title            string   `json:"title"`
	CommentSummaries []string `json:"comment_summaries"`
}

// Describe synthesizes one short description per post from its title and the
// summaries of its top-level comments. Posts are few, so calls are sequential.
// A failed call leaves that post's description empty and the run continues.
func (d *Describer) Describe(ctx context.Context, posts []models.FilteredPost) []models.FilteredPost {
	for i := range posts {
		post := &posts[i]

		summaries := make([]string, 0, len(post.Comments))
		for _, comment := range post.Comments {
			summaries = append(summaries, comment.Summary)
		}

		payload, err := json.Marshal(describeInput{
			Title:            post.Title,
			CommentSummaries: summaries,
		})
		if err != nil {
			d.logger.Error("failed to serialize post for description", "post_id", post.ID, "error", err)
			metrics.DescriptionFailures.Inc()
			continue
		}

		description, err := d.llm.Complete(ctx, descriptionPrompt, string(payload))
		if err != nil {
			d.logger.Error("failed to generate description", "post_id", post.ID, "error", err)
			metrics.DescriptionFailures.Inc()
			post.Description = ""
			continue
		}

		post.Description = description
	}

	return posts
}
