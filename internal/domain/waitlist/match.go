package waitlist

import (
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// FreedSlot is the slot released by a cancelled appointment.
type FreedSlot struct {
	AppointmentID uint      `json:"appointment_id"`
	BarberID      uint      `json:"barber_id"`
	ServiceID     uint      `json:"service_id"`
	StartsAt      time.Time `json:"starts_at"`
	EndsAt        time.Time `json:"ends_at"`
}

func (s FreedSlot) Date() string { return s.StartsAt.Format("2006-01-02") }

func (s FreedSlot) Time() string { return s.StartsAt.Format("15:04") }

// MatchesTimePreference checks hm (HH:MM) against the entry's [start,end)
// window. A missing bound leaves that side open.
func MatchesTimePreference(e *models.WaitlistEntry, hm string) bool {
	if e.PreferredTimeStart != "" && hm < e.PreferredTimeStart {
		return false
	}
	if e.PreferredTimeEnd != "" && hm >= e.PreferredTimeEnd {
		return false
	}
	return true
}

func MatchesBarber(e *models.WaitlistEntry, barberID uint) bool {
	return e.BarberID == nil || *e.BarberID == barberID
}

// FirstMatch returns the first entry, in the given order, compatible with slot.
func FirstMatch(entries []models.WaitlistEntry, slot FreedSlot) *models.WaitlistEntry {
	hm := slot.Time()
	for i := range entries {
		e := &entries[i]
		if !MatchesBarber(e, slot.BarberID) {
			continue
		}
		if MatchesTimePreference(e, hm) {
			return e
		}
	}
	return nil
}

// ExpiresAt is midnight of the preferred date in loc, days calendar days later.
func ExpiresAt(preferredDate string, loc *time.Location, days int) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", preferredDate, loc)
	if err != nil {
		return time.Time{}, err
	}
	return d.AddDate(0, 0, days), nil
}

// NotificationExpired reports whether a NOTIFIED entry is past its confirmation window.
func NotificationExpired(e *models.WaitlistEntry, now time.Time, window time.Duration) bool {
	if e.NotifiedAt == nil {
		return true
	}
	return now.Sub(*e.NotifiedAt) > window
}
