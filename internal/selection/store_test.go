package selection

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSelectAndGet(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()
	start := time.Date(2024, 3, 16, 9, 0, 0, 0, time.Local)

	sel, err := s.Select(ctx, "sess-1", start)
	require.NoError(t, err)
	assert.Equal(t, start, sel.Start)
	assert.Equal(t, start.Add(time.Hour), sel.End)

	got, ok, err := s.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sel, got)
}

func TestMemoryStoreReselectSameSlot(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()
	start := time.Date(2024, 3, 16, 9, 0, 0, 0, time.Local)

	first, err := s.Select(ctx, "sess-1", start)
	require.NoError(t, err)
	second, err := s.Select(ctx, "sess-1", start)
	require.NoError(t, err)

	assert.Equal(t, first, second, "re-picking the same slot yields the identical selection")
}

func TestMemoryStoreNewSlotReplaces(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	a := time.Date(2024, 3, 16, 9, 0, 0, 0, time.Local)
	b := a.Add(2 * time.Hour)

	_, err := s.Select(ctx, "sess-1", a)
	require.NoError(t, err)
	_, err = s.Select(ctx, "sess-1", b)
	require.NoError(t, err)

	got, ok, err := s.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, b, got.Start, "a session holds at most one selection")
}

func TestMemoryStoreIsolatedSessions(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()
	start := time.Date(2024, 3, 16, 9, 0, 0, 0, time.Local)

	_, err := s.Select(ctx, "sess-1", start)
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, "sess-2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore(10 * time.Minute)
	now := time.Date(2024, 3, 16, 12, 0, 0, 0, time.Local)
	s.nowFunc = func() time.Time { return now }

	ctx := context.Background()
	_, err := s.Select(ctx, "sess-1", now.Add(time.Hour))
	require.NoError(t, err)

	now = now.Add(11 * time.Minute)
	_, ok, err := s.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, ok, "expired selection must not be returned")
}

func TestMemoryStoreClear(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	_, err := s.Select(ctx, "sess-1", time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, s.Clear(ctx, "sess-1"))

	_, ok, err := s.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreCleanup(t *testing.T) {
	s := NewMemoryStore(10 * time.Minute)
	now := time.Date(2024, 3, 16, 12, 0, 0, 0, time.Local)
	s.nowFunc = func() time.Time { return now }

	ctx := context.Background()
	_, err := s.Select(ctx, "stale", now.Add(time.Hour))
	require.NoError(t, err)

	now = now.Add(11 * time.Minute)
	_, err = s.Select(ctx, "fresh", now.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 1, s.Cleanup())

	_, ok, _ := s.Get(ctx, "fresh")
	assert.True(t, ok)
}
