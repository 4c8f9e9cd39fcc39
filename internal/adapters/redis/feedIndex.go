package redis

import (
	"context"
	"fmt"

	postPort "chirp/internal/ports/post"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const GlobalFeedKey = "feed:global"

// FeedIndexRedis keeps the global feed as a sorted set of post IDs scored by
// creation time in milliseconds.
type FeedIndexRedis struct {
	Client *redis.Client
	Key    string
	Logger *zap.Logger
}

func NewFeedIndexRedis(client *redis.Client, logger *zap.Logger) *FeedIndexRedis {
	return &FeedIndexRedis{
		Client: client,
		Key:    GlobalFeedKey,
		Logger: logger,
	}
}

// Add is idempotent: re-adding a post keeps a single member.
func (r *FeedIndexRedis) Add(ctx context.Context, entries ...postPort.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}
	members := make([]*redis.Z, 0, len(entries))
	for _, e := range entries {
		members = append(members, &redis.Z{
			Score:  float64(e.CreatedAt.UnixMilli()),
			Member: e.PostID,
		})
	}

	if err := r.Client.ZAdd(ctx, r.Key, members...).Err(); err != nil {
		return fmt.Errorf("zadd %s: %w", r.Key, err)
	}
	r.Logger.Debug("Indexed posts", zap.String("key", r.Key), zap.Int("count", len(members)))
	return nil
}

func (r *FeedIndexRedis) Recent(ctx context.Context, limit int64) ([]string, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = limit - 1
	}
	ids, err := r.Client.ZRevRange(ctx, r.Key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("zrevrange %s: %w", r.Key, err)
	}
	return ids, nil
}
