package cache

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/hmchef/chef-kit/cache/driver/memory"
	"github.com/hmchef/chef-kit/cache/driver/redis"
)

// Common errors
var (
	ErrInvalidURL        = errors.New("invalid cache URL")
	ErrUnsupportedScheme = errors.New("unsupported cache URL scheme")
	ErrKeyNotFound       = errors.New("key not found")
)

// Open returns the Store selected by cfg.URL's scheme. Redis stores are pinged
// before Open returns; ctx bounds that first round trip.
func Open(ctx context.Context, cfg Config) (Store, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	var backend Store
	switch u.Scheme {
	case "redis", "rediss":
		backend, err = openRedis(ctx, cfg)
	case "memory":
		backend = memory.New(memory.Config{MaxKeys: cfg.MaxKeys})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	if err != nil {
		return nil, err
	}

	return &prefixed{Store: backend, prefix: cfg.KeyPrefix}, nil
}

func openRedis(ctx context.Context, cfg Config) (Store, error) {
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}

	s, err := redis.New(ctx, redis.Config{
		URL:         cfg.URL,
		DialTimeout: cfg.DialTimeout,
		PoolSize:    cfg.PoolSize,
	})
	if errors.Is(err, redis.ErrInvalidURL) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// prefixed namespaces keys and maps driver not-found errors to ErrKeyNotFound.
type prefixed struct {
	Store
	prefix string
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := p.Store.Get(ctx, p.prefix+key)
	if errors.Is(err, memory.ErrNotFound) || errors.Is(err, redis.ErrNotFound) {
		return nil, ErrKeyNotFound
	}
	return v, err
}

func (p *prefixed) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return p.Store.Set(ctx, p.prefix+key, value, ttl)
}

func (p *prefixed) Delete(ctx context.Context, key string) error {
	return p.Store.Delete(ctx, p.prefix+key)
}

func (p *prefixed) Exists(ctx context.Context, key string) (bool, error) {
	return p.Store.Exists(ctx, p.prefix+key)
}
