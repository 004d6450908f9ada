package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// AvailabilityCache stores computed slots per barber and day. Get returns a
// generation that Set must receive, so slots read before an invalidation
// are dropped instead of stored.
type AvailabilityCache interface {
	Get(ctx context.Context, barberID uint, date string, minutes int) ([]domain.TimeSlot, int64, bool)
	Set(ctx context.Context, barberID uint, date string, minutes int, gen int64, slots []domain.TimeSlot)
	Invalidate(ctx context.Context, barberID uint, date string)
}

// CancellationListener is told about every appointment that became CANCELLED.
type CancellationListener interface {
	AppointmentCancelled(ctx context.Context, ap *models.Appointment)
}

// DefaultBarberPolicy picks a barber when the caller did not name one.
type DefaultBarberPolicy interface {
	DefaultBarber(ctx context.Context, repo domain.Repository) (*models.Barber, error)
}

// FirstActiveBarber picks the active barber with the lowest id.
type FirstActiveBarber struct{}

func (FirstActiveBarber) DefaultBarber(
	ctx context.Context,
	repo domain.Repository,
) (*models.Barber, error) {
	return repo.FirstActiveBarber(ctx)
}
