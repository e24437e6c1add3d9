package data

import (
	"encoding/json"
	"time"
)

// Digest is one processed epoch: the enriched posts for a subreddit on a UTC
// calendar date. cache_key is unique, which is what makes InsertOnce atomic.
type Digest struct {
	ID        int             `db:"id"`
	CacheKey  string          `db:"cache_key"`
	Subreddit string          `db:"subreddit"`
	Date      string          `db:"date"`
	PostsRaw  json.RawMessage `db:"posts"`
	CreatedAt time.Time       `db:"created_at"`
}

// RawCacheEntry holds fetched post trees so a repeated run within the same
// epoch skips the reddit round trips. Purged after 30 days.
type RawCacheEntry struct {
	ID        int             `db:"id"`
	CacheKey  string          `db:"cache_key"`
	Subreddit string          `db:"subreddit"`
	Date      string          `db:"date"`
	PostsRaw  json.RawMessage `db:"posts"`
	CreatedAt time.Time       `db:"created_at"`
}
