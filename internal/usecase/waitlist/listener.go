package waitlist

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barbershop-booking/internal/jobs"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// Enqueuer is the part of jobs.Queue the listener needs.
type Enqueuer interface {
	Enqueue(job jobs.Job) bool
}

// CancellationListener hands every cancelled appointment to the job queue,
// where ProcessCancelledAppointment offers the slot to the waitlist.
type CancellationListener struct {
	queue   Enqueuer
	process *ProcessCancelledAppointment
	log     zerolog.Logger
}

func NewCancellationListener(
	queue Enqueuer,
	process *ProcessCancelledAppointment,
	log zerolog.Logger,
) *CancellationListener {
	return &CancellationListener{queue: queue, process: process, log: log}
}

func (l *CancellationListener) AppointmentCancelled(_ context.Context, ap *models.Appointment) {
	id := ap.ID

	ok := l.queue.Enqueue(jobs.Job{
		Name: "process_cancelled_appointment",
		Run: func(ctx context.Context) error {
			return l.process.Execute(ctx, id)
		},
	})
	if !ok {
		l.log.Error().Uint("appointment_id", id).Msg("waitlist processing not queued")
	}
}
