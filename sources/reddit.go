package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/kova98/threadbrief/config"
	"github.com/kova98/threadbrief/digest"
	"github.com/kova98/threadbrief/enums"
	"github.com/kova98/threadbrief/models"
)

const defaultBaseURL = "https://www.reddit.com"

// RawCache stores fetched post trees per epoch so a re-run within the same
// epoch skips the reddit round trips.
type RawCache interface {
	Get(cacheKey string) ([]models.RawPost, error)
	Put(cacheKey, subreddit, date string, posts []models.RawPost) error
}

type RedditFetcher struct {
	logger       *slog.Logger
	httpClient   *http.Client
	cache        RawCache
	baseURL      string
	timeFilter   enums.TimeFilter
	numPosts     int
	requestDelay time.Duration
}

func NewRedditFetcher(logger *slog.Logger, httpClient *http.Client, cache RawCache) *RedditFetcher {
	return &RedditFetcher{
		logger:       logger,
		httpClient:   httpClient,
		cache:        cache,
		baseURL:      defaultBaseURL,
		timeFilter:   config.Config.TimeFilter,
		numPosts:     config.Config.NumPosts,
		requestDelay: 2 * time.Second, // Delay between requests to avoid rate limiting
	}
}

// FetchTopPosts returns the top posts of the subreddit for the configured
// lookback window, each with its full nested comment tree. Results are served
// from the raw cache when the epoch was already fetched.
func (f *RedditFetcher) FetchTopPosts(ctx context.Context, subreddit string) ([]models.RawPost, error) {
	key, date := digest.CacheKey(subreddit)

	if f.cache != nil {
		cached, err := f.cache.Get(key)
		if err != nil {
			return nil, fmt.Errorf("read raw cache: %w", err)
		}
		if cached != nil {
			f.logger.Info("using cached posts", "subreddit", subreddit, "date", date)
			return cached, nil
		}
	}

	url := fmt.Sprintf("%s/r/%s/top.json?t=%s&limit=%d", f.baseURL, subreddit, f.timeFilter, f.numPosts)
	var listing models.RedditListing
	if err := f.fetchJSON(ctx, url, &listing); err != nil {
		return nil, fmt.Errorf("fetch top posts: %w", err)
	}

	posts := make([]models.RawPost, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		if child.Kind != "t3" {
			continue
		}

		var postData models.RedditPostData
		if err := json.Unmarshal(child.Data, &postData); err != nil {
			f.logger.Error("failed to decode post, skipping", "subreddit", subreddit, "error", err)
			continue
		}
		if postData.ID == "" {
			f.logger.Error("post missing id, skipping", "subreddit", subreddit)
			continue
		}

		comments, err := f.fetchComments(ctx, subreddit, postData.ID)
		if err != nil {
			return nil, fmt.Errorf("fetch comments for post %s: %w", postData.ID, err)
		}

		posts = append(posts, models.RawPost{
			ID:          postData.ID,
			Title:       postData.Title,
			Score:       postData.Score,
			URL:         postData.URL,
			RedditURL:   defaultBaseURL + postData.Permalink,
			NumComments: postData.NumComments,
			CreatedUTC:  postData.CreatedUTC,
			Subreddit:   subreddit,
			Comments:    comments,
		})

		time.Sleep(f.requestDelay)
	}

	if f.cache != nil {
		if err := f.cache.Put(key, subreddit, date, posts); err != nil {
			f.logger.Error("failed to cache posts", "subreddit", subreddit, "error", err)
		}
	}

	f.logger.Info("fetched posts", "subreddit", subreddit, "count", len(posts))
	return posts, nil
}

func (f *RedditFetcher) fetchComments(ctx context.Context, subreddit, postID string) ([]models.RawComment, error) {
	url := fmt.Sprintf("%s/r/%s/comments/%s.json?limit=500", f.baseURL, subreddit, postID)

	// The comments endpoint returns two listings: the post itself, then the tree.
	var listings []models.RedditListing
	if err := f.fetchJSON(ctx, url, &listings); err != nil {
		return nil, err
	}
	if len(listings) < 2 {
		return nil, nil
	}

	return f.parseComments(listings[1].Data.Children), nil
}

func (f *RedditFetcher) parseComments(things []models.RedditThing) []models.RawComment {
	comments := make([]models.RawComment, 0, len(things))
	for _, thing := range things {
		// "more" stubs stand in for collapsed subtrees; resolving them needs
		// authenticated morechildren calls, so they are dropped.
		if thing.Kind != "t1" {
			continue
		}

		var commentData models.RedditCommentData
		if err := json.Unmarshal(thing.Data, &commentData); err != nil {
			f.logger.Error("failed to decode comment, skipping", "error", err)
			continue
		}
		if commentData.ID == "" {
			f.logger.Error("comment missing id, skipping")
			continue
		}

		comments = append(comments, models.RawComment{
			ID:         commentData.ID,
			Author:     commentData.Author,
			Body:       commentData.Body,
			Score:      commentData.Score,
			CreatedUTC: commentData.CreatedUTC,
			Replies:    f.parseReplies(commentData.Replies),
		})
	}
	return comments
}

// parseReplies handles reddit serializing an empty reply tree as "".
func (f *RedditFetcher) parseReplies(raw json.RawMessage) []models.RawComment {
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}

	var listing models.RedditListing
	if err := json.Unmarshal(raw, &listing); err != nil {
		f.logger.Error("failed to decode replies, skipping subtree", "error", err)
		return nil
	}

	return f.parseComments(listing.Data.Children)
}

func (f *RedditFetcher) fetchJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	// Make the request look like a real browser to avoid blocks
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Connection", "keep-alive")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return fmt.Errorf("reddit returned status %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
