package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dost-app/dost/internal/config"
	"github.com/dost-app/dost/internal/conversation"
)

// Store is the Redis-backed conversation store plus a readiness check for
// the connection underneath it.
type Store struct {
	*conversation.RedisStore
	client *redis.Client
}

// OpenStore connects to Redis and returns the conversation store writing to
// cfg.Key. Turn timestamps are recorded in loc.
func OpenStore(ctx context.Context, cfg config.RedisConfig, loc *time.Location) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:       cfg.Addr(),
		Password:   cfg.Password,
		DB:         cfg.DB,
		ClientName: "dost",
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	// Appends run as a Lua script; fail at startup rather than on the first chat.
	if err := client.Eval(ctx, "return 1", nil).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis scripting unavailable: %w", err)
	}

	slog.Info("connected to Redis conversation store", "addr", cfg.Addr(), "key", cfg.Key, "timezone", loc.String())
	return &Store{
		RedisStore: conversation.NewRedisStore(client, cfg.Key, loc),
		client:     client,
	}, nil
}

// Healthy pings the server backing the store.
func (s *Store) Healthy(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
