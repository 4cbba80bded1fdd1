package memory

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned for missing or expired keys.
var ErrNotFound = errors.New("key not found")

// ErrFull is returned when MaxKeys would be exceeded.
var ErrFull = errors.New("max keys limit reached")

// minSweep is the store size below which Set skips the expiry sweep.
const minSweep = 64

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// Store is an in-process cache used for tests and local runs without Redis.
// Expired entries are dropped when read and by a sweep in Set that runs each
// time the store doubles in size since the last sweep.
type Store struct {
	mu      sync.RWMutex
	items   map[string]entry
	maxKeys int
	sweepAt int
	now     func() time.Time
}

// Config holds memory store settings.
type Config struct {
	MaxKeys int // 0 means unbounded
}

// New creates an empty store.
func New(cfg Config) *Store {
	return &Store{
		items:   make(map[string]entry),
		maxKeys: cfg.MaxKeys,
		sweepAt: minSweep,
		now:     time.Now,
	}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Set stores a value; ttl <= 0 keeps it until deleted.
func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if len(s.items) >= s.sweepAt {
		s.evictExpired(now)
		s.sweepAt = max(2*len(s.items), minSweep)
	}
	if _, ok := s.items[key]; !ok && s.maxKeys > 0 && len(s.items) >= s.maxKeys {
		s.evictExpired(now)
		if len(s.items) >= s.maxKeys {
			return ErrFull
		}
	}

	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}
	s.items[key] = e
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}

// Exists checks if a live key exists
func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.live(key)
	return ok, nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

// Close drops every entry.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]entry)
	s.sweepAt = minSweep
	return nil
}

// Len returns the number of stored entries, including expired ones not yet dropped.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// live returns the entry under key, deleting it if expired. mu must be held.
func (s *Store) live(key string) (entry, bool) {
	e, ok := s.items[key]
	if !ok {
		return entry{}, false
	}
	if e.expired(s.now()) {
		delete(s.items, key)
		return entry{}, false
	}
	return e, true
}

// evictExpired must be called with mu held.
func (s *Store) evictExpired(now time.Time) {
	for k, e := range s.items {
		if e.expired(now) {
			delete(s.items, k)
		}
	}
}
