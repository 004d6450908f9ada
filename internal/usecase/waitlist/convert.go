package waitlist

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/waitlist"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/logging"
	"github.com/BruksfildServices01/barbershop-booking/internal/metrics"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/notify"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
	apptuc "github.com/BruksfildServices01/barbershop-booking/internal/usecase/appointment"
)

const convertedNote = "Converted from waitlist"

// ======================================================
// INPUT
// ======================================================

type ConvertInput struct {
	EntryID  uint
	BarberID uint
	StartsAt string
	// EndsAt is optional; the service duration always decides the real end.
	EndsAt string
}

// ======================================================
// USE CASE
// ======================================================

type ConvertToAppointment struct {
	repo     domain.Repository
	notifier notify.Notifier
	cache    apptuc.AvailabilityCache
	audit    *audit.Dispatcher
	opts     Options
	now      func() time.Time
}

func NewConvertToAppointment(
	repo domain.Repository,
	notifier notify.Notifier,
	cache apptuc.AvailabilityCache,
	audit *audit.Dispatcher,
	opts Options,
) *ConvertToAppointment {
	return &ConvertToAppointment{
		repo:     repo,
		notifier: notifier,
		cache:    cache,
		audit:    audit,
		opts:     opts.withDefaults(),
		now:      timezone.Now,
	}
}

func notAvailable() error {
	return httperr.Conflict("WAITLIST_NOT_AVAILABLE", "waitlist entry is not awaiting confirmation")
}

func (uc *ConvertToAppointment) Execute(
	ctx context.Context,
	in ConvertInput,
) (*models.Appointment, error) {

	log := logging.FromContext(ctx)
	loc := timezone.Business()

	// --------------------------------------------------
	// 1️⃣ Horário pedido
	// --------------------------------------------------
	start, err := timezone.ParseTimestamp(in.StartsAt, loc)
	if err != nil {
		return nil, httperr.ValidationDetails(map[string]string{"starts_at": "datetime"})
	}
	if in.EndsAt != "" {
		end, err := timezone.ParseTimestamp(in.EndsAt, loc)
		if err != nil {
			return nil, httperr.ValidationDetails(map[string]string{"ends_at": "datetime"})
		}
		if !end.After(start) {
			return nil, httperr.ValidationDetails(map[string]string{"ends_at": "gtfield"})
		}
	}

	// --------------------------------------------------
	// 2️⃣ Entrada notificada e dentro da janela
	// --------------------------------------------------
	entry, err := uc.repo.Get(ctx, in.EntryID)
	if errors.Is(err, appointment.ErrNotFound) {
		return nil, httperr.NotFoundErr("WAITLIST_NOT_FOUND", "waitlist entry not found")
	}
	if err != nil {
		return nil, err
	}

	if domain.Status(entry.Status) != domain.StatusNotified {
		return nil, notAvailable()
	}
	if domain.NotificationExpired(entry, uc.now(), uc.opts.NotificationWindow) {
		return nil, httperr.Conflict("NOTIFICATION_EXPIRED", "the confirmation window has passed")
	}

	var ap *models.Appointment

	err = uc.repo.Transaction(ctx, func(tx domain.Repository, apps appointment.Repository) error {

		// --------------------------------------------------
		// 3️⃣ Barbeiro e serviço
		// --------------------------------------------------
		barber, err := apps.GetBarber(ctx, in.BarberID)
		if errors.Is(err, appointment.ErrNotFound) || (err == nil && !barber.Active) {
			return httperr.Conflict("BARBER_NOT_AVAILABLE", "barber is not available")
		}
		if err != nil {
			return err
		}

		svc, err := apps.GetService(ctx, entry.ServiceID)
		if err != nil {
			return err
		}
		end := start.Add(apptuc.ServiceDuration(svc))

		// --------------------------------------------------
		// 4️⃣ Conflito com agendamentos ativos
		// --------------------------------------------------
		busy, err := apps.ListActiveAppointments(ctx, barber.ID, start, end, true)
		if err != nil {
			return err
		}
		for _, b := range busy {
			if appointment.Overlaps(start, end, b.StartsAt, b.EndsAt) {
				return httperr.Conflict("SLOT_UNAVAILABLE", "slot is no longer available")
			}
		}

		code, err := apptuc.UniqueCode(ctx, apps, uc.now().In(loc))
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// 5️⃣ Agendamento confirmado + entrada convertida
		// --------------------------------------------------
		ap = &models.Appointment{
			PublicCode:  code,
			ClientName:  entry.ClientName,
			ClientPhone: entry.ClientPhone,
			ClientEmail: entry.ClientEmail,
			BarberID:    barber.ID,
			ServiceID:   svc.ID,
			StartsAt:    start,
			EndsAt:      end,
			Status:      string(appointment.StatusConfirmed),
			Notes:       convertedNote,
		}
		if err := apps.CreateAppointment(ctx, ap); err != nil {
			if httperr.IsExclusionConflict(err) {
				return httperr.Conflict("SLOT_UNAVAILABLE", "slot is no longer available")
			}
			return err
		}

		ok, err := tx.Transition(ctx, entry.ID, domain.StatusNotified, domain.StatusConverted, nil)
		if err != nil {
			return err
		}
		if !ok {
			return notAvailable()
		}

		ap.Barber = *barber
		ap.Service = *svc
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.WaitlistTransitionsTotal.WithLabelValues(string(domain.StatusConverted)).Inc()
	metrics.BookingsTotal.WithLabelValues("converted").Inc()

	if uc.cache != nil {
		uc.cache.Invalidate(ctx, ap.BarberID, ap.StartsAt.In(loc).Format("2006-01-02"))
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "waitlist_converted",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"waitlist_id": entry.ID, "public_code": ap.PublicCode},
	})

	// --------------------------------------------------
	// 6️⃣ Confirmação (falha não desfaz a conversão)
	// --------------------------------------------------
	if err := uc.notifier.AppointmentConfirmed(ctx, ap); err != nil {
		log.Warn().Err(err).Uint("appointment_id", ap.ID).Msg("confirmation not delivered")
	}

	log.Info().
		Uint("waitlist_id", entry.ID).
		Uint("appointment_id", ap.ID).
		Msg("waitlist entry converted")

	return ap, nil
}
