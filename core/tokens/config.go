package tokens

// Config holds configuration for token persistence.
type Config struct {
	// Backend selects the store: memory or redis.
	Backend string `mapstructure:"backend" default:"memory"`
	// Prefix namespaces the Redis keys.
	Prefix string `mapstructure:"prefix" default:"quiz-manager"`
	// TTLSeconds expires a Redis-held session; 0 keeps it until logout.
	TTLSeconds int `mapstructure:"ttl_seconds" default:"0"`
}

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// IsValidBackend checks if the configured backend is supported.
func (c Config) IsValidBackend() bool {
	switch c.Backend {
	case BackendMemory, BackendRedis:
		return true
	default:
		return false
	}
}

// RedisConfig holds the connection used by the redis token store.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" default:"localhost:6379"`
	Password string `mapstructure:"password" default:""`
	DB       int    `mapstructure:"db" default:"0"`
}
