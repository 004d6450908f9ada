package waitlist

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/waitlist"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/metrics"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/notify"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

// ======================================================
// FIND
// ======================================================

type FindMatchingWaitlist struct {
	repo domain.Repository
	now  func() time.Time
}

func NewFindMatchingWaitlist(repo domain.Repository) *FindMatchingWaitlist {
	return &FindMatchingWaitlist{repo: repo, now: timezone.Now}
}

// Execute returns the oldest WAITING entry compatible with the freed slot, or nil.
func (uc *FindMatchingWaitlist) Execute(
	ctx context.Context,
	slot domain.FreedSlot,
) (*models.WaitlistEntry, error) {

	local := slot
	local.StartsAt = slot.StartsAt.In(timezone.Business())

	entries, err := uc.repo.ListWaiting(ctx, local.Date(), slot.ServiceID, uc.now())
	if err != nil {
		return nil, err
	}

	return domain.FirstMatch(entries, local), nil
}

// ======================================================
// NOTIFY
// ======================================================

type NotifyWaitlistEntry struct {
	repo     domain.Repository
	notifier notify.Notifier
	now      func() time.Time
}

func NewNotifyWaitlistEntry(repo domain.Repository, notifier notify.Notifier) *NotifyWaitlistEntry {
	return &NotifyWaitlistEntry{repo: repo, notifier: notifier, now: timezone.Now}
}

// Execute claims the entry (WAITING -> NOTIFIED) and sends the offer inside
// one transaction. Only the worker that won the claim sends, and a failed
// delivery rolls the entry back to WAITING.
func (uc *NotifyWaitlistEntry) Execute(
	ctx context.Context,
	entry *models.WaitlistEntry,
	slot domain.FreedSlot,
) error {

	now := uc.now()

	err := uc.repo.Transaction(ctx, func(tx domain.Repository, _ appointment.Repository) error {
		ok, err := tx.Transition(ctx, entry.ID, domain.StatusWaiting, domain.StatusNotified, &now)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.Conflict("WAITLIST_NOT_WAITING", "waitlist entry is no longer waiting")
		}

		if err := uc.notifier.SlotAvailable(ctx, entry, slot); err != nil {
			return httperr.BusinessError{
				Kind:    httperr.KindUnavailable,
				Code:    "NOTIFICATION_DELIVERY_ERROR",
				Message: err.Error(),
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	entry.Status = string(domain.StatusNotified)
	entry.NotifiedAt = &now
	metrics.WaitlistTransitionsTotal.WithLabelValues(string(domain.StatusNotified)).Inc()
	return nil
}

// ======================================================
// PROCESS CANCELLED APPOINTMENT (job body)
// ======================================================

type ProcessCancelledAppointment struct {
	apps   appointment.Repository
	find   *FindMatchingWaitlist
	notify *NotifyWaitlistEntry
	log    zerolog.Logger
}

func NewProcessCancelledAppointment(
	apps appointment.Repository,
	find *FindMatchingWaitlist,
	notify *NotifyWaitlistEntry,
	log zerolog.Logger,
) *ProcessCancelledAppointment {
	return &ProcessCancelledAppointment{
		apps:   apps,
		find:   find,
		notify: notify,
		log:    log.With().Str("job", "process_cancelled_appointment").Logger(),
	}
}

func (uc *ProcessCancelledAppointment) Execute(ctx context.Context, appointmentID uint) error {
	ap, err := uc.apps.GetAppointment(ctx, appointmentID, false)
	if errors.Is(err, appointment.ErrNotFound) {
		uc.log.Warn().Uint("appointment_id", appointmentID).Msg("appointment vanished")
		return nil
	}
	if err != nil {
		return err
	}

	slot := domain.FreedSlot{
		AppointmentID: ap.ID,
		BarberID:      ap.BarberID,
		ServiceID:     ap.ServiceID,
		StartsAt:      ap.StartsAt,
		EndsAt:        ap.EndsAt,
	}

	// someone may have booked the slot again already
	taken, err := uc.apps.ListActiveAppointments(ctx, ap.BarberID, ap.StartsAt, ap.EndsAt, false)
	if err != nil {
		return err
	}
	if len(taken) > 0 {
		uc.log.Info().Uint("appointment_id", ap.ID).Msg("freed slot already rebooked")
		return nil
	}

	entry, err := uc.find.Execute(ctx, slot)
	if err != nil {
		return err
	}
	if entry == nil {
		uc.log.Info().Uint("appointment_id", ap.ID).Msg("no matching waitlist entry")
		return nil
	}

	if err := uc.notify.Execute(ctx, entry, slot); err != nil {
		// lost the race to another worker, nothing to retry
		if httperr.IsBusiness(err, "WAITLIST_NOT_WAITING") {
			uc.log.Info().Uint("waitlist_id", entry.ID).Msg("entry no longer waiting")
			return nil
		}
		return err
	}

	uc.log.Info().
		Uint("appointment_id", ap.ID).
		Uint("waitlist_id", entry.ID).
		Msg("waitlist entry notified")
	return nil
}
