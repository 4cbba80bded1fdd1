package cache

import (
	"time"

	"github.com/hmchef/chef-kit/config"
	"github.com/hmchef/chef-kit/settings"
)

const defaultDialTimeout = 5 * time.Second

// Config holds cache configuration
type Config struct {
	// URL selects the backend: redis://, rediss:// or memory://
	URL string

	KeyPrefix   string        // prepended to every key
	DialTimeout time.Duration // redis connect timeout
	PoolSize    int           // redis pool size, 0 keeps the go-redis default
	MaxKeys     int           // memory store limit, 0 means unbounded
}

// FromSettings builds a Config around the resolved REDIS_URL.
func FromSettings(s settings.Settings) Config {
	return Config{
		URL:         s.RedisURL,
		DialTimeout: defaultDialTimeout,
	}
}

func tuningBindings() []config.Binding {
	return []config.Binding{
		{Field: "KeyPrefix", Key: "CACHE_KEY_PREFIX"},
		{Field: "DialTimeout", Key: "CACHE_DIAL_TIMEOUT", Default: defaultDialTimeout.String()},
		{Field: "PoolSize", Key: "CACHE_POOL_SIZE", Default: "0"},
		{Field: "MaxKeys", Key: "CACHE_MAX_KEYS", Default: "0"},
	}
}

// GetConfig combines the REDIS_URL from s with the optional CACHE_* tuning keys.
func GetConfig(s settings.Settings, opts ...config.LoadOptions) (Config, error) {
	values, err := config.Load(tuningBindings(), opts...)
	if err != nil {
		return Config{}, err
	}

	cfg := FromSettings(s)
	if cfg.KeyPrefix, err = values.String("KeyPrefix"); err != nil {
		return Config{}, err
	}
	if cfg.DialTimeout, err = values.Duration("DialTimeout"); err != nil {
		return Config{}, err
	}
	if cfg.PoolSize, err = values.Int("PoolSize"); err != nil {
		return Config{}, err
	}
	if cfg.MaxKeys, err = values.Int("MaxKeys"); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
