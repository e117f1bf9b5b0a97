// Package selection keeps the user's current calendar pick per session.
// A session holds at most one selection; picking a new slot replaces the old
// one, re-picking the same slot yields the identical value.
package selection

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"lessonbook/internal/availability"
)

// DefaultTTL is how long an untouched selection survives.
const DefaultTTL = 30 * time.Minute

// Store keeps per-session selections.
type Store interface {
	// Select stores the selection for the session, replacing any prior one.
	Select(ctx context.Context, sessionID string, start time.Time) (availability.Selection, error)

	// Get returns the current selection, or false if none.
	Get(ctx context.Context, sessionID string) (availability.Selection, bool, error)

	// Clear drops the session's selection.
	Clear(ctx context.Context, sessionID string) error
}

// RedisStore persists selections in redis with a TTL, so selections survive
// process restarts when multiple instances serve the site.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a redis-backed selection store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func selectionKey(sessionID string) string {
	return "selection:" + sessionID
}

func (s *RedisStore) Select(ctx context.Context, sessionID string, start time.Time) (availability.Selection, error) {
	sel := availability.Select(start)
	data, err := json.Marshal(sel)
	if err != nil {
		return availability.Selection{}, err
	}
	if err := s.client.Set(ctx, selectionKey(sessionID), data, s.ttl).Err(); err != nil {
		return availability.Selection{}, err
	}
	return sel, nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (availability.Selection, bool, error) {
	val, err := s.client.Get(ctx, selectionKey(sessionID)).Result()
	if err == redis.Nil {
		return availability.Selection{}, false, nil
	}
	if err != nil {
		return availability.Selection{}, false, err
	}
	var sel availability.Selection
	if err := json.Unmarshal([]byte(val), &sel); err != nil {
		return availability.Selection{}, false, err
	}
	return sel, true, nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, selectionKey(sessionID)).Err()
}

// MemoryStore is the fallback when redis is not configured.
type MemoryStore struct {
	mu      sync.RWMutex
	items   map[string]memoryItem
	ttl     time.Duration
	nowFunc func() time.Time
}

type memoryItem struct {
	sel       availability.Selection
	expiresAt time.Time
}

// NewMemoryStore creates an in-process selection store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		items:   make(map[string]memoryItem),
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

func (s *MemoryStore) Select(_ context.Context, sessionID string, start time.Time) (availability.Selection, error) {
	sel := availability.Select(start)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sessionID] = memoryItem{sel: sel, expiresAt: s.nowFunc().Add(s.ttl)}
	return sel, nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (availability.Selection, bool, error) {
	s.mu.RLock()
	item, ok := s.items[sessionID]
	s.mu.RUnlock()
	if !ok {
		return availability.Selection{}, false, nil
	}
	if s.nowFunc().After(item.expiresAt) {
		s.mu.Lock()
		delete(s.items, sessionID)
		s.mu.Unlock()
		return availability.Selection{}, false, nil
	}
	return item.sel, true, nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, sessionID)
	return nil
}

// Cleanup removes expired selections and returns how many were dropped.
func (s *MemoryStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.nowFunc()
	removed := 0
	for id, item := range s.items {
		if now.After(item.expiresAt) {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}
