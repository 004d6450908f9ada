package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestAvailabilityCacheRoundTrip(t *testing.T) {
	mr, client := newRedis(t)
	c := NewAvailabilityCache(client, time.Minute, zerolog.Nop())
	ctx := context.Background()

	_, gen, ok := c.Get(ctx, 1, "2026-03-10", 30)
	assert.False(t, ok)
	assert.Equal(t, int64(0), gen)

	slots := []domain.TimeSlot{{Time: "10:00", Available: true}, {Time: "10:30", Available: true}}
	c.Set(ctx, 1, "2026-03-10", 30, gen, slots)

	got, _, ok := c.Get(ctx, 1, "2026-03-10", 30)
	require.True(t, ok)
	assert.Equal(t, slots, got)

	_, _, ok = c.Get(ctx, 1, "2026-03-10", 60)
	assert.False(t, ok)

	assert.Equal(t, time.Minute, mr.TTL("availability:1:2026-03-10"))

	mr.FastForward(2 * time.Minute)
	_, _, ok = c.Get(ctx, 1, "2026-03-10", 30)
	assert.False(t, ok)
}

// A booking that invalidates the day while slots are being computed must
// win: the late write is dropped.
func TestAvailabilityCacheDropsWriteAfterInvalidate(t *testing.T) {
	_, client := newRedis(t)
	c := NewAvailabilityCache(client, time.Minute, zerolog.Nop())
	ctx := context.Background()

	_, gen, ok := c.Get(ctx, 1, "2026-03-10", 30)
	require.False(t, ok)

	c.Invalidate(ctx, 1, "2026-03-10")
	c.Set(ctx, 1, "2026-03-10", 30, gen, []domain.TimeSlot{{Time: "14:00", Available: true}})

	_, next, ok := c.Get(ctx, 1, "2026-03-10", 30)
	assert.False(t, ok)
	assert.Equal(t, gen+1, next)

	// the fresh generation is accepted again
	c.Set(ctx, 1, "2026-03-10", 30, next, []domain.TimeSlot{{Time: "14:30", Available: true}})
	got, _, ok := c.Get(ctx, 1, "2026-03-10", 30)
	require.True(t, ok)
	assert.Equal(t, "14:30", got[0].Time)

	// schedule changes bump the same generation
	_, gen, _ = c.Get(ctx, 1, "2026-03-11", 30)
	c.InvalidateBarber(ctx, 1)
	c.Set(ctx, 1, "2026-03-11", 30, gen, []domain.TimeSlot{{Time: "10:00", Available: true}})
	_, _, ok = c.Get(ctx, 1, "2026-03-11", 30)
	assert.False(t, ok)
}

func TestAvailabilityCacheInvalidateDropsAllDurations(t *testing.T) {
	_, client := newRedis(t)
	c := NewAvailabilityCache(client, time.Minute, zerolog.Nop())
	ctx := context.Background()

	c.Set(ctx, 1, "2026-03-10", 30, 0, []domain.TimeSlot{{Time: "10:00", Available: true}})
	c.Set(ctx, 1, "2026-03-10", 60, 0, []domain.TimeSlot{{Time: "10:00", Available: true}})
	c.Set(ctx, 2, "2026-03-10", 30, 0, []domain.TimeSlot{{Time: "11:00", Available: true}})

	c.Invalidate(ctx, 1, "2026-03-10")

	_, _, ok := c.Get(ctx, 1, "2026-03-10", 30)
	assert.False(t, ok)
	_, _, ok = c.Get(ctx, 1, "2026-03-10", 60)
	assert.False(t, ok)
	_, _, ok = c.Get(ctx, 2, "2026-03-10", 30)
	assert.True(t, ok)
}

func TestAvailabilityCacheInvalidateBarber(t *testing.T) {
	_, client := newRedis(t)
	c := NewAvailabilityCache(client, time.Minute, zerolog.Nop())
	ctx := context.Background()

	c.Set(ctx, 1, "2026-03-10", 30, 0, []domain.TimeSlot{{Time: "10:00", Available: true}})
	c.Set(ctx, 1, "2026-03-11", 30, 0, []domain.TimeSlot{{Time: "10:00", Available: true}})
	c.Set(ctx, 12, "2026-03-10", 30, 0, []domain.TimeSlot{{Time: "11:00", Available: true}})

	c.InvalidateBarber(ctx, 1)

	_, _, ok := c.Get(ctx, 1, "2026-03-10", 30)
	assert.False(t, ok)
	_, _, ok = c.Get(ctx, 1, "2026-03-11", 30)
	assert.False(t, ok)
	_, _, ok = c.Get(ctx, 12, "2026-03-10", 30)
	assert.True(t, ok)
}

func TestAvailabilityCacheDisabled(t *testing.T) {
	c := NewAvailabilityCache(nil, time.Minute, zerolog.Nop())
	ctx := context.Background()

	c.Set(ctx, 1, "2026-03-10", 30, 0, []domain.TimeSlot{{Time: "10:00", Available: true}})
	_, gen, ok := c.Get(ctx, 1, "2026-03-10", 30)
	assert.False(t, ok)
	assert.Equal(t, int64(-1), gen)
	c.Invalidate(ctx, 1, "2026-03-10")
	c.InvalidateBarber(ctx, 1)
}

func TestTokenBlacklist(t *testing.T) {
	_, client := newRedis(t)
	b := NewTokenBlacklist(client)
	ctx := context.Background()

	revoked, err := b.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, b.Revoke(ctx, "abc", time.Now().Add(time.Hour)))

	revoked, err = b.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	// already expired tokens are not stored
	require.NoError(t, b.Revoke(ctx, "old", time.Now().Add(-time.Hour)))
	revoked, err = b.IsRevoked(ctx, "old")
	require.NoError(t, err)
	assert.False(t, revoked)

	var none *TokenBlacklist
	revoked, err = none.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}
