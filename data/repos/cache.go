package repos

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/kova98/threadbrief/models"
)

// rawCacheExpiry matches the 30-day TTL on transient fetch caches.
const rawCacheExpiry = "30 days"

type CacheRepo struct {
	db *sqlx.DB
}

func NewCacheRepo(db *sqlx.DB) *CacheRepo {
	return &CacheRepo{db}
}

// Get returns the cached post trees for a cache key, or nil on a miss.
func (r *CacheRepo) Get(cacheKey string) ([]models.RawPost, error) {
	var raw json.RawMessage
	query := "SELECT posts FROM raw_cache WHERE cache_key = $1"

	err := r.db.Get(&raw, query, cacheKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cached posts: %w", err)
	}

	var posts []models.RawPost
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, fmt.Errorf("unmarshal cached posts: %w", err)
	}

	return posts, nil
}

func (r *CacheRepo) Put(cacheKey, subreddit, date string, posts []models.RawPost) error {
	raw, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("marshal posts for cache: %w", err)
	}

	query := `
		INSERT INTO raw_cache (cache_key, subreddit, date, posts, created_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (cache_key) DO NOTHING`

	_, err = r.db.Exec(query, cacheKey, subreddit, date, raw)
	if err != nil {
		return fmt.Errorf("cache posts: %w", err)
	}

	return nil
}

// PurgeExpired deletes cache entries past the expiry window. Postgres has no
// TTL indexes, so the scheduler sweeps instead.
func (r *CacheRepo) PurgeExpired() (int64, error) {
	query := fmt.Sprintf("DELETE FROM raw_cache WHERE created_at < now() - INTERVAL '%s'", rawCacheExpiry)

	result, err := r.db.Exec(query)
	if err != nil {
		return 0, fmt.Errorf("purge raw cache: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge raw cache rows affected: %w", err)
	}

	return deleted, nil
}
