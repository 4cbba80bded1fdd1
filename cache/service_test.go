package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hmchef/chef-kit/cache"
	"github.com/hmchef/chef-kit/config"
	"github.com/hmchef/chef-kit/settings"
)

func TestOpen(t *testing.T) {
	// Test with memory driver
	t.Run("MemoryDriver", func(t *testing.T) {
		c, err := cache.Open(context.Background(), cache.Config{URL: "memory://", KeyPrefix: "test:"})
		if err != nil {
			t.Fatalf("Failed to open memory cache: %v", err)
		}
		defer c.Close()

		testStoreOperations(t, c)
	})

	// Test with Redis driver (skip if Redis not available)
	t.Run("RedisDriver", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		c, err := cache.Open(ctx, cache.Config{URL: "redis://localhost:6379/1", KeyPrefix: "test:", DialTimeout: 500 * time.Millisecond})
		if err != nil {
			t.Skipf("Redis not available: %v", err)
		}
		defer c.Close()

		testStoreOperations(t, c)
	})
}

func testStoreOperations(t *testing.T, c cache.Store) {
	ctx := context.Background()

	key := "test-key"
	value := []byte("test-value")

	if err := c.Set(ctx, key, value, time.Minute); err != nil {
		t.Errorf("Set failed: %v", err)
	}

	got, err := c.Get(ctx, key)
	if err != nil {
		t.Errorf("Get failed: %v", err)
	}
	if string(got) != string(value) {
		t.Errorf("Get returned wrong value: got %s, want %s", got, value)
	}

	exists, err := c.Exists(ctx, key)
	if err != nil {
		t.Errorf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("Key should exist")
	}

	if err := c.Delete(ctx, key); err != nil {
		t.Errorf("Delete failed: %v", err)
	}
	if _, err := c.Get(ctx, key); !errors.Is(err, cache.ErrKeyNotFound) {
		t.Errorf("Get after delete error = %v, want ErrKeyNotFound", err)
	}

	if err := c.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestOpenErrors(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want error
	}{
		{"unparsable url", "redis://user:pw@[::1", cache.ErrInvalidURL},
		{"bad redis database", "redis://localhost:6379/not-a-db", cache.ErrInvalidURL},
		{"unknown scheme", "memcached://localhost:11211", cache.ErrUnsupportedScheme},
		{"empty url", "", cache.ErrUnsupportedScheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cache.Open(context.Background(), cache.Config{URL: tt.url})
			if !errors.Is(err, tt.want) {
				t.Errorf("Open(%q) error = %v, want %v", tt.url, err, tt.want)
			}
		})
	}
}

func TestKeyPrefixIsolation(t *testing.T) {
	ctx := context.Background()
	c, err := cache.Open(ctx, cache.Config{URL: "memory://", KeyPrefix: "a:"})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if ok, _ := c.Exists(ctx, "a:k"); ok {
		t.Error("prefix applied twice")
	}
	if ok, _ := c.Exists(ctx, "k"); !ok {
		t.Error("prefixed key not found")
	}
}

func TestFromSettings(t *testing.T) {
	s := settings.Settings{RedisURL: "redis://x:1/0", SecretKey: "abc123"}

	cfg := cache.FromSettings(s)
	if cfg.URL != "redis://x:1/0" {
		t.Errorf("URL = %q, want redis://x:1/0", cfg.URL)
	}
	if cfg.DialTimeout <= 0 {
		t.Errorf("DialTimeout = %v, want positive default", cfg.DialTimeout)
	}
}

func TestGetConfig(t *testing.T) {
	s := settings.Settings{RedisURL: "memory://", SecretKey: "abc123"}
	env := map[string]string{
		"CACHE_KEY_PREFIX":   "chef:",
		"CACHE_DIAL_TIMEOUT": "2s",
		"CACHE_MAX_KEYS":     "10",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg, err := cache.GetConfig(s, config.LoadOptions{Lookup: lookup, SkipEnvFile: true})
	if err != nil {
		t.Fatalf("GetConfig() error = %v", err)
	}
	if cfg.URL != "memory://" || cfg.KeyPrefix != "chef:" || cfg.DialTimeout != 2*time.Second || cfg.MaxKeys != 10 || cfg.PoolSize != 0 {
		t.Errorf("GetConfig() = %+v", cfg)
	}

	env["CACHE_POOL_SIZE"] = "lots"
	_, err = cache.GetConfig(s, config.LoadOptions{Lookup: lookup, SkipEnvFile: true})
	var cerr *config.ConfigError
	if !errors.As(err, &cerr) || cerr.Key != "CACHE_POOL_SIZE" {
		t.Errorf("GetConfig() error = %v, want ConfigError for CACHE_POOL_SIZE", err)
	}
}
