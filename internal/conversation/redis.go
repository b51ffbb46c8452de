package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// appendScript assigns the sequence number and pushes the turn atomically, so
// list order and ID order agree even with concurrent writers.
var appendScript = redis.NewScript(`
local id = redis.call('INCR', KEYS[2])
local turn = cjson.decode(ARGV[1])
turn['id'] = id
redis.call('RPUSH', KEYS[1], cjson.encode(turn))
return id
`)

// RedisStore keeps turns in a Redis list. The sequence number comes from an
// INCR counter so ordering never depends on timestamps.
type RedisStore struct {
	client *redis.Client
	key    string
	clock  Clock
	loc    *time.Location
}

// NewRedisStore creates a store writing to the list at key. Timestamps are
// recorded in loc (UTC if nil).
func NewRedisStore(client *redis.Client, key string, loc *time.Location) *RedisStore {
	if loc == nil {
		loc = time.UTC
	}
	return &RedisStore{client: client, key: key, clock: systemClock, loc: loc}
}

// WithClock replaces the timestamp source.
func (s *RedisStore) WithClock(c Clock) *RedisStore {
	s.clock = c
	return s
}

func (s *RedisStore) seqKey() string {
	return s.key + ":seq"
}

func (s *RedisStore) Append(ctx context.Context, role Role, content string) (Turn, error) {
	if !role.Valid() {
		return Turn{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	turn := Turn{Role: role, Content: content, CreatedAt: s.clock().In(s.loc)}
	data, err := json.Marshal(turn)
	if err != nil {
		return Turn{}, fmt.Errorf("marshaling turn: %w", err)
	}

	id, err := appendScript.Run(ctx, s.client, []string{s.key, s.seqKey()}, string(data)).Int64()
	if err != nil {
		return Turn{}, fmt.Errorf("appending to %s: %w", s.key, err)
	}
	turn.ID = id
	return turn, nil
}

func (s *RedisStore) Recent(ctx context.Context, limit int) ([]Turn, error) {
	if limit <= 0 {
		return []Turn{}, nil
	}

	// LRANGE key -limit -1 returns the last `limit` elements in push order
	vals, err := s.client.LRange(ctx, s.key, int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", s.key, err)
	}

	turns := make([]Turn, 0, len(vals))
	for _, v := range vals {
		var t Turn
		if err := json.Unmarshal([]byte(v), &t); err != nil {
			slog.Warn("conversation: skipping malformed turn", "key", s.key, "error", err)
			continue
		}
		turns = append(turns, t)
	}
	return turns, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
