package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/dto"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

// ======================================================
// AGENDA (painel do barbeiro)
// ======================================================

func agenda(
	ctx context.Context,
	repo domain.Repository,
	barberID uint,
	start, end time.Time,
) ([]dto.AppointmentListDTO, error) {
	apps, err := repo.ListAppointmentsForPeriod(ctx, barberID, start, end)
	if err != nil {
		return nil, err
	}
	return dto.NewAppointmentList(apps), nil
}

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(repo domain.Repository) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{repo: repo}
}

// Execute lists one barber's appointments for the calendar day.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	barberID uint,
	date string,
) ([]dto.AppointmentListDTO, error) {
	start, err := timezone.ParseDate(date, timezone.Business())
	if err != nil {
		return nil, httperr.Validation("INVALID_DATE", "date must be YYYY-MM-DD")
	}

	// AddDate respeita dias de 23/25h
	return agenda(ctx, uc.repo, barberID, start, start.AddDate(0, 0, 1))
}

type ListAppointmentsByMonth struct {
	repo domain.Repository
}

func NewListAppointmentsByMonth(repo domain.Repository) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{repo: repo}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	barberID uint,
	year, month int,
) ([]dto.AppointmentListDTO, error) {
	if month < 1 || month > 12 || year < 2000 {
		return nil, httperr.Validation("INVALID_MONTH", "month must be YYYY-MM")
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, timezone.Business())
	return agenda(ctx, uc.repo, barberID, start, start.AddDate(0, 1, 0))
}
