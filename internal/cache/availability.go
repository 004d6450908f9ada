package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
)

// AvailabilityCache keeps computed slots in one hash per barber and day,
// one field per service duration, so invalidating a day is a single DEL.
//
// Every invalidation also bumps a per-barber generation. Get hands the
// generation back and Set only writes when it is unchanged, so a slot list
// computed before a booking committed is never stored after it.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewAvailabilityCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *AvailabilityCache {
	return &AvailabilityCache{
		client: client,
		ttl:    ttl,
		log:    log.With().Str("component", "availability_cache").Logger(),
	}
}

func availabilityKey(barberID uint, date string) string {
	return fmt.Sprintf("availability:%d:%s", barberID, date)
}

func generationKey(barberID uint) string {
	return fmt.Sprintf("availability:gen:%d", barberID)
}

// KEYS[1] generation, KEYS[2] day hash
// ARGV: expected generation, field, payload, ttl ms
var setIfCurrent = redis.NewScript(`
if tonumber(redis.call('GET', KEYS[1]) or '0') ~= tonumber(ARGV[1]) then
	return 0
end
redis.call('HSET', KEYS[2], ARGV[2], ARGV[3])
redis.call('PEXPIRE', KEYS[2], ARGV[4])
return 1
`)

func (c *AvailabilityCache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// Get returns the cached slots and the generation to pass back to Set on a
// miss. A negative generation means the cache could not be read.
func (c *AvailabilityCache) Get(
	ctx context.Context,
	barberID uint,
	date string,
	minutes int,
) ([]domain.TimeSlot, int64, bool) {

	if !c.enabled() {
		return nil, -1, false
	}

	pipe := c.client.Pipeline()
	genCmd := pipe.Get(ctx, generationKey(barberID))
	valCmd := pipe.HGet(ctx, availabilityKey(barberID, date), strconv.Itoa(minutes))
	_, _ = pipe.Exec(ctx)

	gen, err := genCmd.Int64()
	if err != nil && err != redis.Nil {
		c.log.Warn().Err(err).Msg("cache read failed")
		return nil, -1, false
	}

	val, err := valCmd.Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("cache read failed")
			return nil, -1, false
		}
		return nil, gen, false
	}

	var slots []domain.TimeSlot
	if err := json.Unmarshal([]byte(val), &slots); err != nil {
		return nil, gen, false
	}
	return slots, gen, true
}

// Set stores slots computed under generation gen. It is a no-op when the
// barber was invalidated in the meantime.
func (c *AvailabilityCache) Set(
	ctx context.Context,
	barberID uint,
	date string,
	minutes int,
	gen int64,
	slots []domain.TimeSlot,
) {

	if !c.enabled() || gen < 0 {
		return
	}

	data, err := json.Marshal(slots)
	if err != nil {
		return
	}

	keys := []string{generationKey(barberID), availabilityKey(barberID, date)}
	stored, err := setIfCurrent.Run(ctx, c.client, keys,
		gen, strconv.Itoa(minutes), string(data), c.ttl.Milliseconds()).Int()
	if err != nil {
		c.log.Warn().Err(err).Msg("cache write failed")
		return
	}
	if stored == 0 {
		c.log.Debug().Uint("barber_id", barberID).Str("date", date).Msg("stale slots not cached")
	}
}

func (c *AvailabilityCache) Invalidate(ctx context.Context, barberID uint, date string) {
	if !c.enabled() {
		return
	}

	pipe := c.client.TxPipeline()
	pipe.Incr(ctx, generationKey(barberID))
	pipe.Del(ctx, availabilityKey(barberID, date))
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn().Err(err).Msg("cache invalidate failed")
	}
}

// InvalidateBarber drops every cached day of one barber, used when the
// weekly schedule or time off changes.
func (c *AvailabilityCache) InvalidateBarber(ctx context.Context, barberID uint) {
	if !c.enabled() {
		return
	}

	if err := c.client.Incr(ctx, generationKey(barberID)).Err(); err != nil {
		c.log.Warn().Err(err).Msg("cache invalidate failed")
	}

	iter := c.client.Scan(ctx, 0, fmt.Sprintf("availability:%d:*", barberID), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn().Err(err).Msg("cache scan failed")
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Msg("cache invalidate failed")
	}
}
