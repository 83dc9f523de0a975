package tokens

import (
	"context"
	"errors"
	"time"

	"quiz-manager/core/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps tokens in a Redis hash so that CLI runs and server
// instances share one session.
// Tokens are stored as: HSET {prefix}:tokens access {access} refresh {refresh}
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStore creates a store under the given key prefix. A positive ttl
// expires the session when it is not refreshed in time.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "quiz-manager"
	}
	return &RedisStore{client: client, key: prefix + ":tokens", ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context) (domain.TokenPair, error) {
	values, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.TokenPair{}, nil
		}
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{Access: values["access"], Refresh: values["refresh"]}, nil
}

func (s *RedisStore) Set(ctx context.Context, pair domain.TokenPair) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key)
	pipe.HSet(ctx, s.key, "access", pair.Access, "refresh", pair.Refresh)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}
