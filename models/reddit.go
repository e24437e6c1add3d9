package models

import "encoding/json"

// RedditListing is the envelope reddit wraps every listing endpoint in.
type RedditListing struct {
	Data struct {
		Children []RedditThing `json:"children"`
	} `json:"data"`
}

// RedditThing is a kind-tagged node. Kind "t3" carries a post, "t1" a comment,
// "more" a collapsed-comments stub.
type RedditThing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type RedditPostData struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Score       int     `json:"score"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Subreddit   string  `json:"subreddit"`
}

// RedditCommentData leaves Replies raw because reddit serializes an empty
// reply tree as "" instead of an object.
type RedditCommentData struct {
	ID         string          `json:"id"`
	Author     string          `json:"author"`
	Body       string          `json:"body"`
	Score      int             `json:"score"`
	CreatedUTC float64         `json:"created_utc"`
	Replies    json.RawMessage `json:"replies"`
}

// RawPost is a fetched post with its full nested comment tree, as cached and
// handed to the filter. Immutable once returned by the fetcher.
type RawPost struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Score       int          `json:"score"`
	URL         string       `json:"url"`
	RedditURL   string       `json:"reddit_url"`
	NumComments int          `json:"num_comments"`
	CreatedUTC  float64      `json:"created_utc"`
	Subreddit   string       `json:"subreddit"`
	Comments    []RawComment `json:"comments"`
}

type RawComment struct {
	ID         string       `json:"id"`
	Author     string       `json:"author"`
	Body       string       `json:"body"`
	Score      int          `json:"score"`
	CreatedUTC float64      `json:"created_utc"`
	Replies    []RawComment `json:"replies,omitempty"`
}
