package handlers

import (
	"net/http"
	"time"

	"github.com/kova98/threadbrief/data"
	"github.com/kova98/threadbrief/digest"
	"github.com/kova98/threadbrief/exporters"
)

type DigestHandler struct {
	repo DigestReader
}

// DigestReader is the read side of the digest store used by the HTTP surface.
type DigestReader interface {
	GetByKey(cacheKey string) (*data.Digest, error)
	GetLatest(subreddit string) (*data.Digest, error)
}

func NewDigestHandler(repo DigestReader) *DigestHandler {
	return &DigestHandler{repo}
}

// GetDigest serves the export JSON for a subreddit's digest: the latest one,
// or the one for ?date=YYYY-MM-DD when given.
func (h *DigestHandler) GetDigest(w http.ResponseWriter, r *http.Request) Result {
	stored, res := h.lookup(r)
	if stored == nil {
		return res
	}

	rendered, err := exporters.RenderPosts(*stored)
	if err != nil {
		return InternalError(err, "render digest")
	}

	return Ok(rendered)
}

// GetDigestMarkdown writes the markdown render directly; it does not fit the
// JSON Result envelope.
func (h *DigestHandler) GetDigestMarkdown(w http.ResponseWriter, r *http.Request) {
	stored, res := h.lookup(r)
	if stored == nil {
		w.WriteHeader(res.Code)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	if err := exporters.ExportMarkdown(w, *stored); err != nil {
		http.Error(w, "render digest", http.StatusInternalServerError)
	}
}

func (h *DigestHandler) lookup(r *http.Request) (*data.Digest, Result) {
	subreddit := r.PathValue("subreddit")
	if subreddit == "" {
		return nil, BadRequest("missing subreddit")
	}

	date := r.URL.Query().Get("date")
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return nil, BadRequest("invalid date, expected YYYY-MM-DD")
		}

		stored, err := h.repo.GetByKey(digest.CacheKeyFor(date, subreddit))
		if err != nil {
			return nil, InternalError(err, "get digest")
		}
		if stored == nil {
			return nil, NotFound("no digest for subreddit on date")
		}
		return stored, Result{}
	}

	stored, err := h.repo.GetLatest(subreddit)
	if err != nil {
		return nil, InternalError(err, "get latest digest")
	}
	if stored == nil {
		return nil, NotFound("no digest for subreddit")
	}
	return stored, Result{}
}
