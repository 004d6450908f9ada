package appointment

import (
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// ApplyStatus sets the new status and stamps the matching timestamp.
func ApplyStatus(ap *models.Appointment, to Status, now time.Time) {
	ap.Status = string(to)

	switch to {
	case StatusCancelled:
		ap.CancelledAt = &now
	case StatusDone, StatusNoShow:
		ap.CompletedAt = &now
	}
}

// Reschedule moves the appointment keeping its service length.
func Reschedule(ap *models.Appointment, start time.Time, duration time.Duration) {
	ap.StartsAt = start
	ap.EndsAt = start.Add(duration)
}
