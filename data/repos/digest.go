package repos

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/kova98/threadbrief/data"
	"github.com/kova98/threadbrief/models"
)

type DigestRepo struct {
	db *sqlx.DB
}

func NewDigestRepo(db *sqlx.DB) *DigestRepo {
	return &DigestRepo{db}
}

func (r *DigestRepo) Exists(cacheKey string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS (SELECT 1 FROM digests WHERE cache_key = $1)"

	err := r.db.Get(&exists, query, cacheKey)
	if err != nil {
		return false, fmt.Errorf("digest exists: %w", err)
	}

	return exists, nil
}

// InsertOnce stores the digest unless one already exists for the same cache
// key. Returns false when another writer got there first; the existing row is
// left untouched either way.
func (r *DigestRepo) InsertOnce(digest data.Digest) (bool, error) {
	query := `
		INSERT INTO digests (cache_key, subreddit, date, posts, created_at)
		VALUES (:cache_key, :subreddit, :date, :posts, now())
		ON CONFLICT (cache_key) DO NOTHING`

	result, err := r.db.NamedExec(query, digest)
	if err != nil {
		return false, fmt.Errorf("insert digest: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert digest rows affected: %w", err)
	}

	return rows > 0, nil
}

// UpdateDescriptions replaces the posts payload of an existing digest with the
// described version. Last writer wins.
func (r *DigestRepo) UpdateDescriptions(cacheKey string, posts []models.FilteredPost) error {
	raw, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("marshal described posts: %w", err)
	}

	query := "UPDATE digests SET posts = $1 WHERE cache_key = $2"
	_, err = r.db.Exec(query, raw, cacheKey)
	if err != nil {
		return fmt.Errorf("update descriptions: %w", err)
	}

	return nil
}

func (r *DigestRepo) GetByKey(cacheKey string) (*data.Digest, error) {
	var digest data.Digest
	query := `
		SELECT id, cache_key, subreddit, date, posts, created_at
		FROM digests
		WHERE cache_key = $1`

	err := r.db.Get(&digest, query, cacheKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get digest by key: %w", err)
	}

	return &digest, nil
}

func (r *DigestRepo) GetLatest(subreddit string) (*data.Digest, error) {
	var digest data.Digest
	query := `
		SELECT id, cache_key, subreddit, date, posts, created_at
		FROM digests
		WHERE subreddit = $1
		ORDER BY date DESC
		LIMIT 1`

	err := r.db.Get(&digest, query, subreddit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest digest: %w", err)
	}

	return &digest, nil
}
