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

// ======================================================
// INPUT
// ======================================================

type UpdateStatusInput struct {
	AppointmentID uint
	Status        string

	// Date and Time, both set, reschedule the appointment.
	Date string
	Time string

	UserID *uint
	// ActingBarberID restricts the change to that barber's own appointments
	// and to CONFIRMED or CANCELLED.
	ActingBarberID *uint
}

func (in UpdateStatusInput) reschedule() bool {
	return in.Date != "" && in.Time != ""
}

// ======================================================
// USE CASE
// ======================================================

type UpdateAppointmentStatus struct {
	repo     domain.Repository
	eval     slotEvaluator
	cache    AvailabilityCache
	listener CancellationListener
	audit    *audit.Dispatcher
	now      func() time.Time
}

func NewUpdateAppointmentStatus(
	repo domain.Repository,
	policy domain.SlotPolicy,
	cache AvailabilityCache,
	listener CancellationListener,
	audit *audit.Dispatcher,
) *UpdateAppointmentStatus {
	return &UpdateAppointmentStatus{
		repo:     repo,
		eval:     slotEvaluator{policy: policy},
		cache:    cache,
		listener: listener,
		audit:    audit,
		now:      timezone.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *UpdateAppointmentStatus) Execute(
	ctx context.Context,
	in UpdateStatusInput,
) (*models.Appointment, error) {

	log := logging.FromContext(ctx)
	loc := timezone.Business()
	target := domain.Status(in.Status)
	now := uc.now().In(loc)

	if in.ActingBarberID != nil && target != domain.StatusConfirmed && target != domain.StatusCancelled {
		return nil, httperr.Authorization("FORBIDDEN_STATUS", "barbers may only confirm or cancel appointments")
	}

	var (
		newStart time.Time
		newDay   time.Time
		err      error
	)
	if in.reschedule() {
		newDay, err = timezone.ParseDate(in.Date, loc)
		if err != nil {
			return nil, httperr.Validation("INVALID_DATE", "date must be YYYY-MM-DD")
		}
		newStart, err = timezone.ParseDateTime(in.Date, in.Time, loc)
		if err != nil {
			return nil, httperr.Validation("INVALID_TIME", "time must be HH:MM")
		}
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		if newDay.Before(today) {
			return nil, httperr.Validation("INVALID_DATE", "cannot reschedule to a past date")
		}
	}

	var (
		ap       *models.Appointment
		from     domain.Status
		oldStart time.Time
	)

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {

		// --------------------------------------------------
		// 1️⃣ Agendamento (lock)
		// --------------------------------------------------
		cur, err := tx.GetAppointment(ctx, in.AppointmentID, true)
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.NotFoundErr("APPOINTMENT_NOT_FOUND", "appointment not found")
		}
		if err != nil {
			return err
		}

		if in.ActingBarberID != nil && cur.BarberID != *in.ActingBarberID {
			return httperr.Authorization("FORBIDDEN", "appointment belongs to another barber")
		}

		from = domain.Status(cur.Status)
		oldStart = cur.StartsAt

		// --------------------------------------------------
		// 2️⃣ Transição
		// --------------------------------------------------
		if err := domain.CanTransition(from, target, in.reschedule()); err != nil {
			return err
		}

		// --------------------------------------------------
		// 3️⃣ Reagendamento
		// --------------------------------------------------
		if in.reschedule() && target != domain.StatusCancelled {
			// libera o próprio horário antes de validar o novo
			cur.Status = string(domain.StatusCancelled)
			if err := tx.UpdateAppointment(ctx, cur); err != nil {
				return err
			}

			svc, err := tx.GetService(ctx, cur.ServiceID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			duration := ServiceDuration(svc)

			slots, err := uc.eval.freeSlots(ctx, tx, newDay, cur.BarberID, duration, true)
			if err != nil {
				return err
			}
			if !domain.ContainsTime(slots, newStart.Format("15:04")) {
				return httperr.Conflict("RESCHEDULE_CONFLICT", "the new slot is not available")
			}

			domain.Reschedule(cur, newStart, duration)
		}

		// --------------------------------------------------
		// 4️⃣ Status final
		// --------------------------------------------------
		domain.ApplyStatus(cur, target, now)

		if err := tx.UpdateAppointment(ctx, cur); err != nil {
			if httperr.IsExclusionConflict(err) {
				return httperr.Conflict("RESCHEDULE_CONFLICT", "the new slot is not available")
			}
			return err
		}

		ap = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.StatusChangesTotal.WithLabelValues(string(from), string(target)).Inc()

	if uc.cache != nil {
		uc.cache.Invalidate(ctx, ap.BarberID, oldStart.In(loc).Format("2006-01-02"))
		if in.reschedule() {
			uc.cache.Invalidate(ctx, ap.BarberID, in.Date)
		}
	}

	if target == domain.StatusCancelled && uc.listener != nil {
		uc.listener.AppointmentCancelled(ctx, ap)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.UserID,
		Action:   "appointment_status_changed",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"from":        from,
			"to":          target,
			"rescheduled": in.reschedule(),
		},
	})

	log.Info().
		Uint("appointment_id", ap.ID).
		Str("from", string(from)).
		Str("to", string(target)).
		Msg("appointment status updated")

	fresh, err := uc.repo.GetAppointment(ctx, ap.ID, false)
	if err != nil {
		return ap, nil
	}
	return fresh, nil
}
