// Package redis caches raw Notion snapshots and publishes board counters.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Jayphen/opsboard/internal/board"
	"github.com/Jayphen/opsboard/internal/notion"
	"github.com/redis/go-redis/v9"
)

const (
	// SnapshotKey is the default key holding the latest raw batch.
	SnapshotKey = "opsboard:snapshot"
	// ArchiveKeyPrefix prefixes the per-day snapshot copies.
	ArchiveKeyPrefix = "opsboard:archive:"
	// StatsKey is the hash holding the last published board counters.
	StatsKey = "opsboard:stats"
	// SyncKey holds metadata about the last sync.
	SyncKey = "opsboard:sync"
	// DefaultRedisURL is the default Redis connection URL.
	DefaultRedisURL = "redis://localhost:6379"
	// ArchiveTTL is how long per-day snapshots are kept.
	ArchiveTTL = 30 * 24 * time.Hour
)

// ErrNoSnapshot is returned when the requested snapshot key does not exist.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Client wraps a Redis client with opsboard-specific operations.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client. An empty url falls back to REDIS_URL
// and then DefaultRedisURL.
func NewClient(url string) (*Client, error) {
	if url == "" {
		url = os.Getenv("REDIS_URL")
	}
	if url == "" {
		url = DefaultRedisURL
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// SetSnapshot stores a raw batch under key, or SnapshotKey when key is empty.
func (c *Client) SetSnapshot(ctx context.Context, key string, result *notion.QueryResult) error {
	if key == "" {
		key = SnapshotKey
	}
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, 0).Err()
}

// GetSnapshot loads the raw batch stored under key, or SnapshotKey when key
// is empty.
func (c *Client) GetSnapshot(ctx context.Context, key string) (*notion.QueryResult, error) {
	if key == "" {
		key = SnapshotKey
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, key)
	}
	if err != nil {
		return nil, err
	}

	var result notion.QueryResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", key, err)
	}
	if result.Results == nil {
		result.Results = []notion.Page{}
	}
	return &result, nil
}

// ArchiveSnapshot keeps a copy of the batch for day. Archives expire after
// ArchiveTTL.
func (c *Client) ArchiveSnapshot(ctx context.Context, day board.Date, result *notion.QueryResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, ArchiveKeyPrefix+day.String(), data, ArchiveTTL).Err()
}

// ArchiveKey returns the key of the archived snapshot for day.
func ArchiveKey(day board.Date) string {
	return ArchiveKeyPrefix + day.String()
}

// ListArchives returns the archived days, oldest first.
func (c *Client) ListArchives(ctx context.Context) ([]board.Date, error) {
	keys, err := c.scanKeys(ctx, ArchiveKeyPrefix+"*")
	if err != nil {
		return nil, err
	}

	days := make([]board.Date, 0, len(keys))
	for _, key := range keys {
		var d board.Date
		if err := d.UnmarshalText([]byte(strings.TrimPrefix(key, ArchiveKeyPrefix))); err != nil {
			continue
		}
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, nil
}

// PublishStats writes the board counters to the StatsKey hash.
func (c *Client) PublishStats(ctx context.Context, today board.Date, stats board.Stats) error {
	return c.rdb.HSet(ctx, StatsKey, map[string]interface{}{
		"today":   today.String(),
		"total":   stats.Total,
		"overdue": stats.Overdue,
		"p0":      stats.P0,
		"p1":      stats.P1,
		"p2":      stats.P2,
		"done":    stats.Done,
	}).Err()
}

// GetStats reads the last published counters.
func (c *Client) GetStats(ctx context.Context) (board.Date, board.Stats, error) {
	var (
		today board.Date
		stats board.Stats
	)

	fields, err := c.rdb.HGetAll(ctx, StatsKey).Result()
	if err != nil {
		return today, stats, err
	}
	if len(fields) == 0 {
		return today, stats, fmt.Errorf("%w: %s", ErrNoSnapshot, StatsKey)
	}

	if err := today.UnmarshalText([]byte(fields["today"])); err != nil {
		return today, stats, fmt.Errorf("invalid stats date: %w", err)
	}
	for name, dst := range map[string]*int{
		"total":   &stats.Total,
		"overdue": &stats.Overdue,
		"p0":      &stats.P0,
		"p1":      &stats.P1,
		"p2":      &stats.P2,
		"done":    &stats.Done,
	} {
		n, err := strconv.Atoi(fields[name])
		if err != nil {
			return today, stats, fmt.Errorf("invalid stats field %s: %w", name, err)
		}
		*dst = n
	}
	return today, stats, nil
}

// SyncStatus describes the last successful sync.
type SyncStatus struct {
	Timestamp int64    `json:"timestamp"`
	Sources   []string `json:"sources"`
	Pages     int      `json:"pages"`
}

// Freshness classifies the age of the last sync.
type Freshness string

const (
	FreshnessFresh   Freshness = "fresh"
	FreshnessStale   Freshness = "stale"
	FreshnessExpired Freshness = "expired"
)

// SetSyncStatus records a sync.
func (c *Client) SetSyncStatus(ctx context.Context, status *SyncStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, SyncKey, data, 0).Err()
}

// GetSyncStatus returns the last sync, or nil when none was recorded.
func (c *Client) GetSyncStatus(ctx context.Context) (*SyncStatus, error) {
	data, err := c.rdb.Get(ctx, SyncKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var status SyncStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// scanKeys scans for all keys matching a pattern.
func (c *Client) scanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		var batch []string
		var err error
		batch, cursor, err = c.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return keys, err
		}

		keys = append(keys, batch...)

		if cursor == 0 {
			break
		}
	}

	return keys, nil
}

// DetermineFreshness classifies a sync by its age relative to interval.
// Within one interval it is fresh, within three it is stale.
func DetermineFreshness(status *SyncStatus, interval time.Duration, now time.Time) Freshness {
	if status == nil {
		return FreshnessExpired
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	age := now.Sub(time.UnixMilli(status.Timestamp))

	if age < interval {
		return FreshnessFresh
	} else if age < 3*interval {
		return FreshnessStale
	}
	return FreshnessExpired
}
