package exporters

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kova98/threadbrief/data"
	"github.com/kova98/threadbrief/models"
)

func ExportMarkdown(w io.Writer, digest data.Digest) error {
	var posts []models.FilteredPost
	if err := json.Unmarshal(digest.PostsRaw, &posts); err != nil {
		return fmt.Errorf("unmarshal digest posts: %w", err)
	}

	if _, err := fmt.Fprintf(w, "# Top Posts from r/%s This Week\n\n", digest.Subreddit); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}

	for _, post := range posts {
		description := post.Description
		if description == "" {
			description = "No Description"
		}

		_, err := fmt.Fprintf(w, "## %d. %s\n\n**URL:** %s\n\n**Upvotes:** %d\n\n**Description:** %s\n\n---\n\n",
			post.Rank, post.Title, post.URL, post.Upvotes, description)
		if err != nil {
			return fmt.Errorf("write markdown: %w", err)
		}
	}

	return nil
}
