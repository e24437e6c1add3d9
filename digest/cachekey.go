package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// CacheKeyFor derives the stable key a digest and its raw-fetch cache are
// stored under for a given UTC calendar date (YYYY-MM-DD) and subreddit.
func CacheKeyFor(date, subreddit string) string {
	input := fmt.Sprintf("%s_%s", date, subreddit)
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// CacheKey derives the key for today's epoch and returns it with the date.
func CacheKey(subreddit string) (string, string) {
	date := time.Now().UTC().Format("2006-01-02")
	return CacheKeyFor(date, subreddit), date
}
