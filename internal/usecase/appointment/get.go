package appointment

import (
	"context"
	"errors"
	"time"

	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

func notFoundAppointment(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.NotFoundErr("APPOINTMENT_NOT_FOUND", "appointment not found")
	}
	return err
}

func (uc *GetAppointment) ByCode(ctx context.Context, code string) (*models.Appointment, error) {
	ap, err := uc.repo.GetAppointmentByCode(ctx, code)
	if err != nil {
		return nil, notFoundAppointment(err)
	}
	return ap, nil
}

func (uc *GetAppointment) ByID(ctx context.Context, id uint) (*models.Appointment, error) {
	ap, err := uc.repo.GetAppointment(ctx, id, false)
	if err != nil {
		return nil, notFoundAppointment(err)
	}
	return ap, nil
}

// ======================================================
// LIST (admin)
// ======================================================

type ListAppointmentsInput struct {
	Status   string
	BarberID uint
	From     string
	To       string
	Page     int
}

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

// Execute filters by status and an inclusive from/to date range, 20 per page.
func (uc *ListAppointments) Execute(
	ctx context.Context,
	in ListAppointmentsInput,
) ([]models.Appointment, int64, error) {

	loc := timezone.Business()
	f := domain.ListFilter{
		Status:   in.Status,
		BarberID: in.BarberID,
		Page:     in.Page,
		PerPage:  20,
	}

	if in.Status != "" && !domain.Status(in.Status).Valid() {
		return nil, 0, httperr.Validation("INVALID_STATUS", "unknown status "+in.Status)
	}

	if in.From != "" {
		d, err := timezone.ParseDate(in.From, loc)
		if err != nil {
			return nil, 0, httperr.Validation("INVALID_DATE", "from must be YYYY-MM-DD")
		}
		f.From = &d
	}
	if in.To != "" {
		d, err := timezone.ParseDate(in.To, loc)
		if err != nil {
			return nil, 0, httperr.Validation("INVALID_DATE", "to must be YYYY-MM-DD")
		}
		end := d.Add(24 * time.Hour)
		f.To = &end
	}

	return uc.repo.ListAppointments(ctx, f)
}
