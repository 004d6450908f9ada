package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

var ErrNotFound = errors.New("record not found")

type ListFilter struct {
	Status   string
	BarberID uint
	From     *time.Time
	To       *time.Time
	Page     int
	PerPage  int
}

type Repository interface {
	// Transaction runs fn against a repository bound to a single DB transaction.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// -------- Catalog --------
	GetService(ctx context.Context, id uint) (*models.Service, error)
	GetBarber(ctx context.Context, id uint) (*models.Barber, error)
	FirstActiveBarber(ctx context.Context) (*models.Barber, error)

	// -------- Schedule --------
	GetSchedule(
		ctx context.Context,
		barberID uint,
		weekday int,
	) (*models.BarberSchedule, error)

	ListTimeOff(
		ctx context.Context,
		barberID uint,
		from time.Time,
		to time.Time,
	) ([]models.BarberTimeOff, error)

	// -------- Appointment (availability / conflict) --------
	ListActiveAppointments(
		ctx context.Context,
		barberID uint,
		from time.Time,
		to time.Time,
		lock bool,
	) ([]models.Appointment, error)

	PublicCodeExists(ctx context.Context, code string) (bool, error)

	// -------- Appointment (CRUD) --------
	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	GetAppointment(ctx context.Context, id uint, lock bool) (*models.Appointment, error)
	GetAppointmentByCode(ctx context.Context, code string) (*models.Appointment, error)
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error
	ListAppointments(ctx context.Context, f ListFilter) ([]models.Appointment, int64, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}
