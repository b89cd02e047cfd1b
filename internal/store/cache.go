package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Stats summarizes the cache contents.
type Stats struct {
	Entries    int            `json:"entries"`
	Expired    int            `json:"expired"`
	ByEndpoint map[string]int `json:"by_endpoint"`
}

// GetResponse returns the cached payload for key if it has not expired.
func (s *Store) GetResponse(ctx context.Context, key string) (map[string]any, bool, error) {
	if s == nil || s.DB == nil {
		return nil, false, errors.New("store is not initialized")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, errors.New("cache key is required")
	}

	var raw string
	row := s.DB.QueryRowContext(ctx, `
		SELECT payload FROM response_cache
		WHERE cache_key = ? AND expires_at > ?
	`, key, s.clock().Unix())
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("fetch cached response: %w", err)
	}

	payload := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, false, fmt.Errorf("decode cached response: %w", err)
	}
	return payload, true, nil
}

// SetResponse stores payload under key for ttl. A non-positive ttl is a no-op.
func (s *Store) SetResponse(ctx context.Context, key string, payload map[string]any, ttl time.Duration) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}
	if ttl <= 0 || payload == nil {
		return nil
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("cache key is required")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode cached response: %w", err)
	}

	now := s.clock()
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO response_cache (cache_key, endpoint, payload, fetched_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at,
			expires_at = excluded.expires_at
	`, key, endpointOf(key), string(data), now.Unix(), now.Add(ttl).Unix())
	if err != nil {
		return fmt.Errorf("store cached response: %w", err)
	}
	return nil
}

// PurgeExpired deletes expired entries and returns how many were removed.
func (s *Store) PurgeExpired(ctx context.Context) (int64, error) {
	return s.delete(ctx, `DELETE FROM response_cache WHERE expires_at <= ?`, s.clock().Unix())
}

// Clear deletes every entry.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	return s.delete(ctx, `DELETE FROM response_cache`)
}

// Stats counts live and expired entries per endpoint.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT endpoint, expires_at > ? AS live, COUNT(*)
		FROM response_cache
		GROUP BY endpoint, live
	`, s.clock().Unix())
	if err != nil {
		return nil, fmt.Errorf("query cache stats: %w", err)
	}
	defer rows.Close() // nolint:errcheck // best-effort cleanup on SQL rows

	stats := &Stats{ByEndpoint: map[string]int{}}
	for rows.Next() {
		var (
			endpoint string
			live     int
			count    int
		)
		if err := rows.Scan(&endpoint, &live, &count); err != nil {
			return nil, fmt.Errorf("scan cache stats: %w", err)
		}
		stats.Entries += count
		if live == 0 {
			stats.Expired += count
			continue
		}
		stats.ByEndpoint[endpoint] += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan cache stats: %w", err)
	}
	return stats, nil
}

func (s *Store) delete(ctx context.Context, stmt string, args ...any) (int64, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("store is not initialized")
	}

	res, err := s.DB.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("delete cached responses: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted responses: %w", err)
	}
	return n, nil
}

// endpointOf strips the query from a cache key.
func endpointOf(key string) string {
	endpoint, _, _ := strings.Cut(key, "?")
	return endpoint
}
