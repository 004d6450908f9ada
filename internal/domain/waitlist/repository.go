package waitlist

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

type ListFilter struct {
	Status    string
	Date      string
	ServiceID uint
	Page      int
	PerPage   int
}

type Repository interface {
	// Transaction binds both the waitlist and the appointment repositories to one transaction.
	Transaction(
		ctx context.Context,
		fn func(tx Repository, appointments appointment.Repository) error,
	) error

	Create(ctx context.Context, e *models.WaitlistEntry) error
	Get(ctx context.Context, id uint) (*models.WaitlistEntry, error)
	// DeleteInStatus removes the entry only while its status is one of in.
	DeleteInStatus(ctx context.Context, id uint, in []Status) (bool, error)

	// ListWaiting returns unexpired WAITING entries for date+service, oldest first.
	ListWaiting(
		ctx context.Context,
		date string,
		serviceID uint,
		now time.Time,
	) ([]models.WaitlistEntry, error)

	// Transition moves an entry from -> to only if it is still in from.
	Transition(
		ctx context.Context,
		id uint,
		from Status,
		to Status,
		notifiedAt *time.Time,
	) (bool, error)

	ExpireWaiting(ctx context.Context, now time.Time) (int64, error)
	RevertStaleNotifications(ctx context.Context, cutoff time.Time) (int64, error)

	List(ctx context.Context, f ListFilter) ([]models.WaitlistEntry, int64, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}
