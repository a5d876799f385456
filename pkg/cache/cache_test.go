package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGet_WithinTTL(t *testing.T) {
	c := New(time.Minute)
	c.Set("/posts/posts", []byte(`{"success":true}`))

	got, ok := c.Get("/posts/posts")
	require.True(t, ok)
	assert.Equal(t, `{"success":true}`, string(got))
}

func TestGet_Missing(t *testing.T) {
	c := New(time.Minute)

	got, ok := c.Get("/nope")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestGet_ExpiredWithoutSweep(t *testing.T) {
	c := New(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("key", []byte("value"))

	// Jump past the expiry; no sweep has run.
	now = now.Add(2 * time.Minute)

	_, ok := c.Get("key")
	assert.False(t, ok)
	assert.False(t, c.Has("key"))

	// The lazy purge removed the entry too.
	assert.Equal(t, 0, c.Len())
}

func TestSet_TTLOverride(t *testing.T) {
	c := New(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("short", []byte("a"), 10*time.Second)
	c.Set("long", []byte("b"), 10*time.Minute)

	now = now.Add(30 * time.Second)

	assert.False(t, c.Has("short"))
	assert.True(t, c.Has("long"))
}

func TestClearExpired_LeavesFreshEntries(t *testing.T) {
	c := New(time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("stale1", []byte("a"), time.Second)
	c.Set("stale2", []byte("b"), time.Second)
	c.Set("fresh", []byte("c"), time.Hour)

	now = now.Add(time.Minute)
	c.ClearExpired()

	assert.Equal(t, 1, c.Len())
	assert.True(t, c.Has("fresh"))
}

func TestClear(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))

	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Has("a"))
}

func TestDelete(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))

	c.Delete("a")

	assert.False(t, c.Has("a"))
	assert.True(t, c.Has("b"))
}

func TestStartSweeper_PurgesPeriodically(t *testing.T) {
	c := New(10 * time.Millisecond)
	c.Set("soon-stale", []byte("x"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c.StartSweeper(ctx, 20*time.Millisecond)

	assert.Eventually(t, func() bool {
		return c.Len() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestNew_ZeroTTLUsesDefault(t *testing.T) {
	c := New(0)
	assert.Equal(t, DefaultTTL, c.defaultTTL)
}
