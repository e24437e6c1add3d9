package exporters

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kova98/threadbrief/data"
	"github.com/kova98/threadbrief/models"
)

// RenderPosts reduces a stored digest to the export shape: post metadata plus
// id/score/summary for each top-level comment.
func RenderPosts(digest data.Digest) ([]models.RenderPost, error) {
	var posts []models.FilteredPost
	if err := json.Unmarshal(digest.PostsRaw, &posts); err != nil {
		return nil, fmt.Errorf("unmarshal digest posts: %w", err)
	}

	rendered := make([]models.RenderPost, 0, len(posts))
	for _, post := range posts {
		comments := make([]models.RenderComment, 0, len(post.Comments))
		for _, comment := range post.Comments {
			comments = append(comments, models.RenderComment{
				ID:      comment.ID,
				Score:   comment.Score,
				Summary: comment.Summary,
			})
		}

		rendered = append(rendered, models.RenderPost{
			ID:          post.ID,
			Title:       post.Title,
			Description: post.Description,
			Upvotes:     post.Upvotes,
			Rank:        post.Rank,
			Comments:    comments,
		})
	}

	return rendered, nil
}

func ExportJSON(w io.Writer, digest data.Digest) error {
	rendered, err := RenderPosts(digest)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(rendered); err != nil {
		return fmt.Errorf("encode digest json: %w", err)
	}

	return nil
}
