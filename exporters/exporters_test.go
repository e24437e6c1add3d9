package exporters

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kova98/threadbrief/data"
	"github.com/kova98/threadbrief/models"
)

func storedDigest(t *testing.T) data.Digest {
	posts := []models.FilteredPost{
		{
			ID:          "post_1",
			Title:       "big news",
			URL:         "https://example.com/article",
			Upvotes:     120,
			Rank:        1,
			Description: "A discussion about big news.",
			Comments: []models.FilteredComment{
				{ID: "post_1_c1", Score: 40, Summary: "the summary", Replies: []models.FilteredComment{
					{ID: "post_1_c1_r1", Score: 7},
				}},
			},
		},
		{ID: "post_2", Title: "small news", URL: "https://example.com/other", Upvotes: 80, Rank: 2},
	}

	raw, err := json.Marshal(posts)
	assert.NoError(t, err)

	return data.Digest{Subreddit: "golang", Date: "2025-01-15", PostsRaw: raw}
}

func TestExportJSON_RendersTrimmedShape(t *testing.T) {
	var buf bytes.Buffer

	assert.NoError(t, ExportJSON(&buf, storedDigest(t)))

	var rendered []models.RenderPost
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &rendered))
	assert.Len(t, rendered, 2)

	assert.Equal(t, "post_1", rendered[0].ID)
	assert.Equal(t, "A discussion about big news.", rendered[0].Description)
	assert.Equal(t, 120, rendered[0].Upvotes)
	assert.Equal(t, 1, rendered[0].Rank)

	// Only top-level comments, only id/score/summary.
	assert.Len(t, rendered[0].Comments, 1)
	assert.Equal(t, "post_1_c1", rendered[0].Comments[0].ID)
	assert.Equal(t, "the summary", rendered[0].Comments[0].Summary)

	assert.Empty(t, rendered[1].Comments)
}

func TestExportJSON_InvalidPayload(t *testing.T) {
	var buf bytes.Buffer

	err := ExportJSON(&buf, data.Digest{PostsRaw: []byte("not json")})

	assert.Error(t, err)
}

func TestExportMarkdown_RendersSections(t *testing.T) {
	var buf bytes.Buffer

	assert.NoError(t, ExportMarkdown(&buf, storedDigest(t)))
	output := buf.String()

	assert.Contains(t, output, "# Top Posts from r/golang This Week")
	assert.Contains(t, output, "## 1. big news")
	assert.Contains(t, output, "**URL:** https://example.com/article")
	assert.Contains(t, output, "**Upvotes:** 120")
	assert.Contains(t, output, "**Description:** A discussion about big news.")
	// Posts without a description fall back to a placeholder.
	assert.Contains(t, output, "**Description:** No Description")
}
