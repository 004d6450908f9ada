package appointment

import "github.com/BruksfildServices01/barbershop-booking/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
	StatusDone      Status = "DONE"
	StatusNoShow    Status = "NO_SHOW"
)

// ActiveStatuses are the statuses that occupy a slot.
var ActiveStatuses = []string{
	string(StatusPending),
	string(StatusConfirmed),
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusDone, StatusNoShow:
		return true
	}
	return false
}

func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusDone || s == StatusNoShow
}

// ===============================
// Validations
// ===============================

// CanTransition valida a troca de status. Reagendar permite manter o mesmo status.
func CanTransition(from, to Status, reschedule bool) error {
	if !to.Valid() {
		return httperr.Validation("INVALID_STATUS", "unknown status "+string(to))
	}
	if from.Terminal() {
		return httperr.Conflict("INVALID_STATE", "appointment is already "+string(from))
	}
	if from == to && !reschedule {
		return httperr.Conflict("INVALID_STATE", "appointment is already "+string(from))
	}
	if from == StatusConfirmed && to == StatusPending {
		return httperr.Conflict("INVALID_STATE", "confirmed appointment cannot go back to PENDING")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
