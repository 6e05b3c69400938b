package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisStore keeps sessions in Redis as JSON values under session:<id>,
// with the sliding timeout applied as the key TTL.
type RedisStore struct {
	rdb     redis.UniversalClient
	timeout time.Duration
	now     func() time.Time
}

// NewRedisStore wraps an existing client.
func NewRedisStore(rdb redis.UniversalClient, timeout time.Duration) *RedisStore {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RedisStore{rdb: rdb, timeout: timeout, now: time.Now}
}

func (r *RedisStore) Create(ctx context.Context, username string) (Session, error) {
	now := r.now()
	s := Session{ID: uuid.NewString(), Username: username, CreatedAt: now, ExpiresAt: now.Add(r.timeout)}
	raw, err := json.Marshal(s)
	if err != nil {
		return Session{}, fmt.Errorf("encode session: %w", err)
	}
	if err := r.rdb.Set(ctx, keyPrefix+s.ID, raw, r.timeout).Err(); err != nil {
		return Session{}, fmt.Errorf("store session: %w", err)
	}
	return s, nil
}

func (r *RedisStore) Validate(ctx context.Context, id string) (Session, error) {
	raw, err := r.rdb.GetEx(ctx, keyPrefix+id, r.timeout).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	s.ExpiresAt = r.now().Add(r.timeout)
	return s, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) (int, error) {
	keys, err := r.keys(ctx)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := r.rdb.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("clear sessions: %w", err)
	}
	return int(n), nil
}

func (r *RedisStore) Count(ctx context.Context) (int, error) {
	keys, err := r.keys(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

func (r *RedisStore) keys(ctx context.Context) ([]string, error) {
	var (
		out    []string
		cursor uint64
	)
	for {
		batch, next, err := r.rdb.Scan(ctx, cursor, keyPrefix+"*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("scan sessions: %w", err)
		}
		out = append(out, batch...)
		cursor = next
		if cursor == 0 {
			return out, nil
		}
	}
}
