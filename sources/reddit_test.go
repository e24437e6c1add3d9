package sources

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kova98/threadbrief/digest"
	"github.com/kova98/threadbrief/enums"
	"github.com/kova98/threadbrief/models"
)

const topListing = `{
	"data": {
		"children": [
			{"kind": "t3", "data": {"id": "abc", "title": "big news", "score": 120, "url": "https://example.com/article", "permalink": "/r/golang/comments/abc/big_news/", "num_comments": 42, "created_utc": 1700000000, "subreddit": "golang"}},
			{"kind": "t3", "data": {"title": "broken, no id", "score": 5}},
			{"kind": "t3", "data": {"id": "def", "title": "small news", "score": 80, "url": "https://example.com/other", "permalink": "/r/golang/comments/def/small_news/", "num_comments": 1, "created_utc": 1700000100, "subreddit": "golang"}}
		]
	}
}`

const abcComments = `[
	{"data": {"children": [{"kind": "t3", "data": {"id": "abc"}}]}},
	{"data": {"children": [
		{"kind": "t1", "data": {"id": "c1", "author": "alice", "body": "great point", "score": 40, "created_utc": 1700000200, "replies": {"data": {"children": [
			{"kind": "t1", "data": {"id": "r1", "author": "bob", "body": "agreed", "score": 7, "created_utc": 1700000300, "replies": ""}},
			{"kind": "more", "data": {"count": 12}}
		]}}}},
		{"kind": "t1", "data": {"id": "c2", "body": "no author here", "score": 3, "created_utc": 1700000400, "replies": ""}}
	]}}
]`

const defComments = `[
	{"data": {"children": [{"kind": "t3", "data": {"id": "def"}}]}},
	{"data": {"children": []}}
]`

type fakeRawCache struct {
	entries map[string][]models.RawPost
	puts    int
}

func newFakeRawCache() *fakeRawCache {
	return &fakeRawCache{entries: make(map[string][]models.RawPost)}
}

func (c *fakeRawCache) Get(cacheKey string) ([]models.RawPost, error) {
	return c.entries[cacheKey], nil
}

func (c *fakeRawCache) Put(cacheKey, _, _ string, posts []models.RawPost) error {
	c.entries[cacheKey] = posts
	c.puts++
	return nil
}

func newTestServer(t *testing.T, requests *int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*requests++
		switch r.URL.Path {
		case "/r/golang/top.json":
			assert.Equal(t, "week", r.URL.Query().Get("t"))
			assert.Equal(t, "2", r.URL.Query().Get("limit"))
			io.WriteString(w, topListing)
		case "/r/golang/comments/abc.json":
			io.WriteString(w, abcComments)
		case "/r/golang/comments/def.json":
			io.WriteString(w, defComments)
		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestFetcher(server *httptest.Server, cache RawCache) *RedditFetcher {
	return &RedditFetcher{
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		httpClient: server.Client(),
		cache:      cache,
		baseURL:    server.URL,
		timeFilter: enums.TimeFilterWeek,
		numPosts:   2,
	}
}

func TestFetchTopPosts_ParsesPostsAndCommentTrees(t *testing.T) {
	requests := 0
	server := newTestServer(t, &requests)
	defer server.Close()
	cache := newFakeRawCache()

	posts, err := newTestFetcher(server, cache).FetchTopPosts(context.Background(), "golang")

	assert.NoError(t, err)
	// The child without an id is skipped, the other two survive.
	assert.Len(t, posts, 2)

	abc := posts[0]
	assert.Equal(t, "abc", abc.ID)
	assert.Equal(t, "big news", abc.Title)
	assert.Equal(t, 120, abc.Score)
	assert.Equal(t, "https://www.reddit.com/r/golang/comments/abc/big_news/", abc.RedditURL)
	assert.Len(t, abc.Comments, 2)

	c1 := abc.Comments[0]
	assert.Equal(t, "alice", c1.Author)
	assert.Equal(t, "great point", c1.Body)
	// The "more" stub is dropped, the real reply survives.
	assert.Len(t, c1.Replies, 1)
	assert.Equal(t, "agreed", c1.Replies[0].Body)
	assert.Empty(t, c1.Replies[0].Replies)

	// "replies": "" decodes as no replies.
	assert.Empty(t, abc.Comments[1].Replies)

	assert.Equal(t, "def", posts[1].ID)
	assert.Empty(t, posts[1].Comments)
}

func TestFetchTopPosts_StoresResultInRawCache(t *testing.T) {
	requests := 0
	server := newTestServer(t, &requests)
	defer server.Close()
	cache := newFakeRawCache()

	posts, err := newTestFetcher(server, cache).FetchTopPosts(context.Background(), "golang")

	assert.NoError(t, err)
	assert.Equal(t, 1, cache.puts)

	key, _ := digest.CacheKey("golang")
	assert.Equal(t, posts, cache.entries[key])
}

func TestFetchTopPosts_ServesFromCacheWithoutRequests(t *testing.T) {
	requests := 0
	server := newTestServer(t, &requests)
	defer server.Close()

	cache := newFakeRawCache()
	key, _ := digest.CacheKey("golang")
	cached := []models.RawPost{{ID: "cached", Title: "from cache", Score: 1}}
	cache.entries[key] = cached

	posts, err := newTestFetcher(server, cache).FetchTopPosts(context.Background(), "golang")

	assert.NoError(t, err)
	assert.Equal(t, cached, posts)
	assert.Equal(t, 0, requests)
	assert.Equal(t, 0, cache.puts)
}

func TestFetchTopPosts_ErrorStatusIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	_, err := newTestFetcher(server, newFakeRawCache()).FetchTopPosts(context.Background(), "golang")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestFetchTopPosts_WorksWithoutCache(t *testing.T) {
	requests := 0
	server := newTestServer(t, &requests)
	defer server.Close()

	posts, err := newTestFetcher(server, nil).FetchTopPosts(context.Background(), "golang")

	assert.NoError(t, err)
	assert.Len(t, posts, 2)
}
