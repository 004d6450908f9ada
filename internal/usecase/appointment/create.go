package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/logging"
	"github.com/BruksfildServices01/barbershop-booking/internal/metrics"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

const maxCodeAttempts = 5

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	ServiceID uint
	BarberID  uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	Date  string
	Time  string
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	eval  slotEvaluator
	cache AvailabilityCache
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	policy domain.SlotPolicy,
	cache AvailabilityCache,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		eval:  slotEvaluator{policy: policy},
		cache: cache,
		audit: audit,
		now:   timezone.Now,
	}
}

func bookingFailed(msg string) error {
	return httperr.Conflict("BOOKING_FAILED", msg)
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	log := logging.FromContext(ctx)
	loc := timezone.Business()

	// --------------------------------------------------
	// 1️⃣ Data / hora no timezone da barbearia
	// --------------------------------------------------
	day, err := timezone.ParseDate(in.Date, loc)
	if err != nil {
		return nil, httperr.Validation("INVALID_DATE", "date must be YYYY-MM-DD")
	}
	start, err := timezone.ParseDateTime(in.Date, in.Time, loc)
	if err != nil {
		return nil, httperr.Validation("INVALID_TIME", "time must be HH:MM")
	}

	now := uc.now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if day.Before(today) {
		return nil, httperr.Validation("INVALID_DATE", "date must be today or later")
	}

	var ap *models.Appointment

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {

		// --------------------------------------------------
		// 2️⃣ Serviço e barbeiro ativos
		// --------------------------------------------------
		svc, err := tx.GetService(ctx, in.ServiceID)
		if errors.Is(err, domain.ErrNotFound) || (err == nil && !svc.Active) {
			return bookingFailed("service is not available")
		}
		if err != nil {
			return err
		}

		barber, err := tx.GetBarber(ctx, in.BarberID)
		if errors.Is(err, domain.ErrNotFound) || (err == nil && !barber.Active) {
			return bookingFailed("barber is not available")
		}
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// 3️⃣ Revalida o horário com lock
		// --------------------------------------------------
		duration := ServiceDuration(svc)

		slots, err := uc.eval.freeSlots(ctx, tx, day, barber.ID, duration, true)
		if err != nil {
			return err
		}
		if !domain.ContainsTime(slots, start.Format("15:04")) {
			return bookingFailed("slot no longer available")
		}

		// --------------------------------------------------
		// 4️⃣ Código público
		// --------------------------------------------------
		code, err := UniqueCode(ctx, tx, now)
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// 5️⃣ Criação (status centralizado)
		// --------------------------------------------------
		ap = &models.Appointment{
			PublicCode:  code,
			ClientName:  in.ClientName,
			ClientPhone: in.ClientPhone,
			ClientEmail: in.ClientEmail,
			BarberID:    barber.ID,
			ServiceID:   svc.ID,
			StartsAt:    start,
			EndsAt:      start.Add(duration),
			Status:      string(domain.InitialStatus()),
			Notes:       in.Notes,
		}

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			if httperr.IsExclusionConflict(err) {
				return bookingFailed("slot no longer available")
			}
			return err
		}

		ap.Service = *svc
		ap.Barber = *barber
		return nil
	})

	if err != nil {
		if httperr.IsBusiness(err, "BOOKING_FAILED") {
			metrics.BookingsTotal.WithLabelValues("conflict").Inc()
		} else {
			metrics.BookingsTotal.WithLabelValues("failed").Inc()
		}
		return nil, err
	}

	metrics.BookingsTotal.WithLabelValues("created").Inc()

	if uc.cache != nil {
		uc.cache.Invalidate(ctx, ap.BarberID, in.Date)
	}

	// --------------------------------------------------
	// 6️⃣ Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"public_code": ap.PublicCode},
	})

	log.Info().
		Uint("appointment_id", ap.ID).
		Str("public_code", ap.PublicCode).
		Str("client", ap.ClientName).
		Msg("appointment created")

	return ap, nil
}

// UniqueCode draws public codes until one is unused.
func UniqueCode(ctx context.Context, repo domain.Repository, now time.Time) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := domain.NewPublicCode(now)
		if err != nil {
			return "", err
		}
		exists, err := repo.PublicCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique public code")
}
