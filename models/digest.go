package models

// FilteredPost is a ranked post with its threshold-pruned comment tree.
// ID and Rank are derived from score order on every run, never from reddit.
type FilteredPost struct {
	ID          string            `json:"id"`
	URL         string            `json:"url"`
	RedditURL   string            `json:"reddit_url"`
	Title       string            `json:"title"`
	Upvotes     int               `json:"upvotes"`
	Rank        int               `json:"rank"`
	Description string            `json:"description,omitempty"`
	Comments    []FilteredComment `json:"comments"`
}

// FilteredComment is a retained comment with a hierarchical synthetic ID:
// post_{rank}_c{i} at the top level, then _r{i} at every level below.
// Summary stays empty when the summarization call for the comment fails.
type FilteredComment struct {
	ID      string            `json:"id"`
	Text    string            `json:"text"`
	Score   int               `json:"score"`
	Summary string            `json:"comment_summary,omitempty"`
	Replies []FilteredComment `json:"replies,omitempty"`
}

// RenderPost is the trimmed export shape served by the read API and the JSON
// exporter.
type RenderPost struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Upvotes     int             `json:"upvotes"`
	Rank        int             `json:"rank"`
	Comments    []RenderComment `json:"comments"`
}

type RenderComment struct {
	ID      string `json:"id"`
	Score   int    `json:"score"`
	Summary string `json:"comment_summary"`
}
