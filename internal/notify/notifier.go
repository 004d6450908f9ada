package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/waitlist"
	"github.com/BruksfildServices01/barbershop-booking/internal/metrics"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// Notifier delivers client-facing messages.
type Notifier interface {
	SlotAvailable(ctx context.Context, entry *models.WaitlistEntry, slot waitlist.FreedSlot) error
	AppointmentConfirmed(ctx context.Context, ap *models.Appointment) error
}

// Fanout sends through every channel. The first channel is required; the
// rest are best effort and only logged on failure.
type Fanout struct {
	primary   Notifier
	secondary []Notifier
	log       zerolog.Logger
}

func NewFanout(log zerolog.Logger, primary Notifier, secondary ...Notifier) *Fanout {
	return &Fanout{primary: primary, secondary: secondary, log: log}
}

func (f *Fanout) SlotAvailable(ctx context.Context, entry *models.WaitlistEntry, slot waitlist.FreedSlot) error {
	if err := f.primary.SlotAvailable(ctx, entry, slot); err != nil {
		return err
	}
	for _, n := range f.secondary {
		if err := n.SlotAvailable(ctx, entry, slot); err != nil {
			f.log.Warn().Err(err).Uint("waitlist_id", entry.ID).Msg("secondary channel failed")
		}
	}
	return nil
}

func (f *Fanout) AppointmentConfirmed(ctx context.Context, ap *models.Appointment) error {
	if err := f.primary.AppointmentConfirmed(ctx, ap); err != nil {
		return err
	}
	for _, n := range f.secondary {
		if err := n.AppointmentConfirmed(ctx, ap); err != nil {
			f.log.Warn().Err(err).Uint("appointment_id", ap.ID).Msg("secondary channel failed")
		}
	}
	return nil
}

// LogNotifier only writes what would have been sent. Used when no channel is configured.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("channel", "log").Logger()}
}

func (n *LogNotifier) SlotAvailable(ctx context.Context, entry *models.WaitlistEntry, slot waitlist.FreedSlot) error {
	n.log.Info().
		Uint("waitlist_id", entry.ID).
		Str("to", entry.ClientEmail).
		Str("date", slot.Date()).
		Str("time", slot.Time()).
		Msg("slot available")
	metrics.NotificationsTotal.WithLabelValues("log", "sent").Inc()
	return nil
}

func (n *LogNotifier) AppointmentConfirmed(ctx context.Context, ap *models.Appointment) error {
	n.log.Info().
		Uint("appointment_id", ap.ID).
		Str("to", ap.ClientEmail).
		Str("public_code", ap.PublicCode).
		Msg("appointment confirmed")
	metrics.NotificationsTotal.WithLabelValues("log", "sent").Inc()
	return nil
}
