package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-booking/internal/cache"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// bookingDuringRead commits a booking right after the availability read
// returns, before the computed slots reach the cache.
type bookingDuringRead struct {
	domain.Repository
	once sync.Once
	book func()
}

func (r *bookingDuringRead) ListActiveAppointments(
	ctx context.Context,
	barberID uint,
	from, to time.Time,
	lock bool,
) ([]models.Appointment, error) {
	apps, err := r.Repository.ListActiveAppointments(ctx, barberID, from, to, lock)
	r.once.Do(r.book)
	return apps, err
}

func TestAvailabilityNeverCachesSlotBookedMidRead(t *testing.T) {
	f := newFixture(t, 30)
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{Addr: miniredis.RunT(t).Addr()})
	t.Cleanup(func() { _ = client.Close() })
	slotCache := cache.NewAvailabilityCache(client, time.Minute, zerolog.Nop())

	create := newCreate(f, slotCache)
	repo := &bookingDuringRead{
		Repository: f.repo,
		book: func() {
			_, err := create.Execute(ctx, bookingInput(f, "14:00"))
			require.NoError(t, err)
		},
	}

	uc := NewGetAvailability(repo, domain.DefaultSlotPolicy(), nil, slotCache)
	in := domain.AvailabilityInput{Date: "2026-03-10", BarberID: f.barber.ID, ServiceID: f.svc.ID}

	// the first answer was computed before the booking and may still show 14:00
	_, err := uc.Execute(ctx, in)
	require.NoError(t, err)

	res, err := uc.Execute(ctx, in)
	require.NoError(t, err)
	assert.NotContains(t, slotTimes(res.Slots), "14:00")
	assert.Contains(t, slotTimes(res.Slots), "14:30")
}
