package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-booking/internal/db/dbtest"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
)

func TestAgendaByDate(t *testing.T) {
	f := newFixture(t, 30)
	dbtest.SeedAppointment(t, f.db, f.barber.ID, f.svc.ID, at(15, 0), 30, "PENDING")
	dbtest.SeedAppointment(t, f.db, f.barber.ID, f.svc.ID, at(10, 0), 30, "CONFIRMED")
	dbtest.SeedAppointment(t, f.db, f.barber.ID, f.svc.ID, at(10, 0).AddDate(0, 0, 1), 30, "PENDING")

	items, err := NewListAppointmentsByDate(f.repo).Execute(context.Background(), f.barber.ID, "2026-03-10")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, at(10, 0), items[0].StartsAt.UTC())
	assert.Equal(t, f.svc.Title, items[0].ServiceName)

	_, err = NewListAppointmentsByDate(f.repo).Execute(context.Background(), f.barber.ID, "10/03/2026")
	assert.True(t, httperr.IsBusiness(err, "INVALID_DATE"))
}

func TestAgendaByMonth(t *testing.T) {
	f := newFixture(t, 30)
	dbtest.SeedAppointment(t, f.db, f.barber.ID, f.svc.ID, at(10, 0), 30, "PENDING")
	dbtest.SeedAppointment(t, f.db, f.barber.ID, f.svc.ID, time.Date(2026, 3, 31, 19, 30, 0, 0, time.UTC), 30, "PENDING")
	dbtest.SeedAppointment(t, f.db, f.barber.ID, f.svc.ID, time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC), 30, "PENDING")

	uc := NewListAppointmentsByMonth(f.repo)

	items, err := uc.Execute(context.Background(), f.barber.ID, 2026, 3)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = uc.Execute(context.Background(), f.barber.ID, 2026, 13)
	assert.True(t, httperr.IsBusiness(err, "INVALID_MONTH"))
}
