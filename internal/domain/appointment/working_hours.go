package appointment

import (
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// IsWithinSchedule valida se um horário está dentro do expediente
// incluindo pausa (regra de domínio). No schedule means the barber is off.
func IsWithinSchedule(
	sched *models.BarberSchedule,
	start time.Time,
	end time.Time,
) bool {

	if sched == nil || sched.StartTime == "" || sched.EndTime == "" {
		return false
	}

	workStart, err := At(start, sched.StartTime)
	if err != nil {
		return false
	}
	workEnd, err := At(start, sched.EndTime)
	if err != nil {
		return false
	}

	if start.Before(workStart) || end.After(workEnd) {
		return false
	}

	if sched.BreakStart != "" && sched.BreakEnd != "" {
		breakStart, err1 := At(start, sched.BreakStart)
		breakEnd, err2 := At(start, sched.BreakEnd)
		if err1 == nil && err2 == nil && Overlaps(start, end, breakStart, breakEnd) {
			return false
		}
	}

	return true
}

func TimeOffIntervals(items []models.BarberTimeOff) []Interval {
	out := make([]Interval, 0, len(items))
	for _, t := range items {
		out = append(out, Interval{Start: t.StartsAt, End: t.EndsAt})
	}
	return out
}

func AppointmentIntervals(items []models.Appointment) []Interval {
	out := make([]Interval, 0, len(items))
	for _, a := range items {
		out = append(out, Interval{Start: a.StartsAt, End: a.EndsAt})
	}
	return out
}
