package waitlist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-booking/internal/db/dbtest"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

func newConvert(f *fixture, n *notifierMock) *ConvertToAppointment {
	uc := NewConvertToAppointment(f.repo, n, nil, nil, Options{})
	uc.now = clock
	return uc
}

func notifiedAgo(d time.Duration) func(e *models.WaitlistEntry) {
	return func(e *models.WaitlistEntry) {
		ts := fixedNow.Add(-d)
		e.Status = "NOTIFIED"
		e.NotifiedAt = &ts
	}
}

func TestConvertToAppointment(t *testing.T) {
	f := newFixture(t)
	e := f.entry(t, notifiedAgo(time.Hour))

	n := new(notifierMock)
	n.On("AppointmentConfirmed", "Lucia").Return(nil).Once()

	ap, err := newConvert(f, n).Execute(context.Background(), ConvertInput{
		EntryID:  e.ID,
		BarberID: f.barber.ID,
		StartsAt: "2026-03-10 14:00",
	})
	require.NoError(t, err)
	n.AssertExpectations(t)

	assert.Equal(t, "CONFIRMED", ap.Status)
	assert.Equal(t, "Converted from waitlist", ap.Notes)
	assert.True(t, ap.EndsAt.Equal(at(14, 30)))
	assert.Regexp(t, `^APT-20260309-[A-Z0-9]{4}$`, ap.PublicCode)

	assert.Equal(t, "CONVERTED", f.reload(t, e.ID).Status)
}

func TestConvertRejectsLapsedWindow(t *testing.T) {
	f := newFixture(t)
	e := f.entry(t, notifiedAgo(2*time.Hour+time.Minute))

	_, err := newConvert(f, new(notifierMock)).Execute(context.Background(), ConvertInput{
		EntryID:  e.ID,
		BarberID: f.barber.ID,
		StartsAt: "2026-03-10 14:00",
	})
	assert.True(t, httperr.IsBusiness(err, "NOTIFICATION_EXPIRED"), "got %v", err)
	assert.Equal(t, "NOTIFIED", f.reload(t, e.ID).Status)
}

func TestConvertRequiresNotified(t *testing.T) {
	f := newFixture(t)
	e := f.entry(t, nil)

	_, err := newConvert(f, new(notifierMock)).Execute(context.Background(), ConvertInput{
		EntryID:  e.ID,
		BarberID: f.barber.ID,
		StartsAt: "2026-03-10 14:00",
	})
	assert.True(t, httperr.IsBusiness(err, "WAITLIST_NOT_AVAILABLE"))
}

func TestConvertRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	dbtest.SeedAppointment(t, f.db, f.barber.ID, f.svc.ID, at(14, 15), 30, "CONFIRMED")
	e := f.entry(t, notifiedAgo(time.Minute))

	_, err := newConvert(f, new(notifierMock)).Execute(context.Background(), ConvertInput{
		EntryID:  e.ID,
		BarberID: f.barber.ID,
		StartsAt: "2026-03-10 14:00",
	})
	assert.True(t, httperr.IsBusiness(err, "SLOT_UNAVAILABLE"))

	var count int64
	require.NoError(t, f.db.Model(&models.Appointment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, "NOTIFIED", f.reload(t, e.ID).Status)
}

func TestConvertRejectsInactiveBarber(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.db.Model(f.barber).Update("active", false).Error)
	e := f.entry(t, notifiedAgo(time.Minute))

	_, err := newConvert(f, new(notifierMock)).Execute(context.Background(), ConvertInput{
		EntryID:  e.ID,
		BarberID: f.barber.ID,
		StartsAt: "2026-03-10 14:00",
	})
	assert.True(t, httperr.IsBusiness(err, "BARBER_NOT_AVAILABLE"))
}

func TestConvertSwallowsConfirmationFailure(t *testing.T) {
	f := newFixture(t)
	e := f.entry(t, notifiedAgo(time.Minute))

	n := new(notifierMock)
	n.On("AppointmentConfirmed", "Lucia").Return(errors.New("smtp down"))

	ap, err := newConvert(f, n).Execute(context.Background(), ConvertInput{
		EntryID:  e.ID,
		BarberID: f.barber.ID,
		StartsAt: "2026-03-10T14:00:00Z",
	})
	require.NoError(t, err)
	assert.NotZero(t, ap.ID)
	assert.Equal(t, "CONVERTED", f.reload(t, e.ID).Status)
}
