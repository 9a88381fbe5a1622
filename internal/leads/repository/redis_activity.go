package repository

import (
	"context"
	"encoding/json"
	"time"

	"storefront_backend/platform/apperr"

	"github.com/redis/go-redis/v9"
)

// DefaultActivityKey is the Redis list holding the activity log.
const DefaultActivityKey = "storefront:activity"

// RedisActivityLog keeps the activity log in a capped Redis list, newest at
// the head. Append pushes and trims in one MULTI block.
type RedisActivityLog struct {
	client *redis.Client
	key    string
	limit  int
	now    func() time.Time
}

// NewRedisActivityLog creates a Redis-backed activity log.
func NewRedisActivityLog(client *redis.Client, key string, limit int) *RedisActivityLog {
	if key == "" {
		key = DefaultActivityKey
	}
	if limit < 1 {
		limit = DefaultActivityLimit
	}
	return &RedisActivityLog{client: client, key: key, limit: limit, now: time.Now}
}

// Append pushes an entry and evicts entries past the limit.
func (l *RedisActivityLog) Append(ctx context.Context, entry ActivityEntry) error {
	data, err := json.Marshal(fillDefaults(entry, l.now))
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "encode activity entry", err).WithOp("activity.Append")
	}

	_, err = l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, l.key, data)
		pipe.LTrim(ctx, l.key, 0, int64(l.limit-1))
		return nil
	})
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "append activity entry", err).WithOp("activity.Append")
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (l *RedisActivityLog) Recent(ctx context.Context, limit int) ([]ActivityEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	raw, err := l.client.LRange(ctx, l.key, 0, stop).Result()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "read activity log", err).WithOp("activity.Recent")
	}

	entries := make([]ActivityEntry, 0, len(raw))
	for _, item := range raw {
		var entry ActivityEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "decode activity entry", err).WithOp("activity.Recent")
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

var _ ActivityLogger = (*RedisActivityLog)(nil)
