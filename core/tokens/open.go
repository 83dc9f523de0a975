package tokens

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Open builds the store selected by cfg. The redis backend is pinged before
// it is returned.
func Open(ctx context.Context, cfg Config, rcfg RedisConfig) (Store, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     rcfg.Addr,
			Password: rcfg.Password,
			DB:       rcfg.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", rcfg.Addr, err)
		}
		return NewRedisStore(client, cfg.Prefix, time.Duration(cfg.TTLSeconds)*time.Second), nil
	default:
		return nil, fmt.Errorf("unsupported token backend %q", cfg.Backend)
	}
}
