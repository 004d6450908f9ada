package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-booking/internal/db/dbtest"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
)

func at(h, m int) time.Time {
	return time.Date(2026, 3, 10, h, m, 0, 0, time.UTC)
}

func TestListActiveAppointmentsFiltersStatusAndWindow(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := NewAppointmentGormRepository(gdb)
	ctx := context.Background()

	svc := dbtest.SeedService(t, gdb, 30)
	b1 := dbtest.SeedBarber(t, gdb, "Juan")
	b2 := dbtest.SeedBarber(t, gdb, "Pedro")

	dbtest.SeedAppointment(t, gdb, b1.ID, svc.ID, at(10, 0), 30, "PENDING")
	dbtest.SeedAppointment(t, gdb, b1.ID, svc.ID, at(11, 0), 30, "CONFIRMED")
	dbtest.SeedAppointment(t, gdb, b1.ID, svc.ID, at(12, 0), 30, "CANCELLED")
	dbtest.SeedAppointment(t, gdb, b1.ID, svc.ID, at(13, 0), 30, "DONE")
	dbtest.SeedAppointment(t, gdb, b2.ID, svc.ID, at(10, 0), 30, "PENDING")
	dbtest.SeedAppointment(t, gdb, b1.ID, svc.ID, at(10, 0).AddDate(0, 0, 1), 30, "PENDING")

	apps, err := repo.ListActiveAppointments(ctx, b1.ID, at(0, 0), at(0, 0).AddDate(0, 0, 1), true)
	require.NoError(t, err)

	require.Len(t, apps, 2)
	assert.True(t, apps[0].StartsAt.Equal(at(10, 0)))
	assert.True(t, apps[1].StartsAt.Equal(at(11, 0)))
}

func TestFirstActiveBarberOrdersByID(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := NewAppointmentGormRepository(gdb)

	first := dbtest.SeedBarber(t, gdb, "Juan")
	dbtest.SeedBarber(t, gdb, "Pedro")
	require.NoError(t, gdb.Model(first).Update("active", false).Error)

	got, err := repo.FirstActiveBarber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Pedro", got.Name)
}

func TestGetAppointmentByCodeNotFound(t *testing.T) {
	repo := NewAppointmentGormRepository(dbtest.Open(t))

	_, err := repo.GetAppointmentByCode(context.Background(), "APT-20260310-ZZZZ")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransactionRollsBack(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := NewAppointmentGormRepository(gdb)
	ctx := context.Background()

	svc := dbtest.SeedService(t, gdb, 30)
	b := dbtest.SeedBarber(t, gdb, "Juan")
	ap := dbtest.SeedAppointment(t, gdb, b.ID, svc.ID, at(10, 0), 30, "PENDING")

	boom := errors.New("boom")
	err := repo.Transaction(ctx, func(tx domain.Repository) error {
		locked, err := tx.GetAppointment(ctx, ap.ID, true)
		require.NoError(t, err)
		locked.Status = "CANCELLED"
		require.NoError(t, tx.UpdateAppointment(ctx, locked))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.GetAppointment(ctx, ap.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "PENDING", got.Status)
	assert.Equal(t, "Corte", got.Service.Title)
}

func TestListAppointmentsPaginates(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := NewAppointmentGormRepository(gdb)

	svc := dbtest.SeedService(t, gdb, 30)
	b := dbtest.SeedBarber(t, gdb, "Juan")
	for i := 0; i < 5; i++ {
		dbtest.SeedAppointment(t, gdb, b.ID, svc.ID, at(10+i, 0), 30, "PENDING")
	}
	dbtest.SeedAppointment(t, gdb, b.ID, svc.ID, at(16, 0), 30, "CANCELLED")

	apps, total, err := repo.ListAppointments(context.Background(), domain.ListFilter{
		Status:  "PENDING",
		Page:    2,
		PerPage: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5), total)
	require.Len(t, apps, 2)
	// newest first
	assert.True(t, apps[0].StartsAt.Equal(at(12, 0)))
}
