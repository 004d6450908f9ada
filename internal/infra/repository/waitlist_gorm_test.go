package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-booking/internal/db/dbtest"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/waitlist"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

func seedEntry(t *testing.T, gdb *gorm.DB, serviceID uint, status domain.Status, created time.Time) *models.WaitlistEntry {
	t.Helper()
	e := &models.WaitlistEntry{
		ClientName:    "Ana",
		ClientEmail:   "ana@example.com",
		ServiceID:     serviceID,
		PreferredDate: "2026-03-10",
		Status:        string(status),
		ExpiresAt:     time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
		CreatedAt:     created,
	}
	require.NoError(t, gdb.Omit("Service", "Barber").Create(e).Error)
	return e
}

func TestListWaitingIsFIFO(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := NewWaitlistGormRepository(gdb)
	svc := dbtest.SeedService(t, gdb, 30)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	late := seedEntry(t, gdb, svc.ID, domain.StatusWaiting, base.Add(time.Hour))
	early := seedEntry(t, gdb, svc.ID, domain.StatusWaiting, base)
	seedEntry(t, gdb, svc.ID, domain.StatusNotified, base.Add(-time.Hour))

	got, err := repo.ListWaiting(context.Background(), "2026-03-10", svc.ID, base)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, early.ID, got[0].ID)
	assert.Equal(t, late.ID, got[1].ID)
}

func TestTransitionIsConditional(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := NewWaitlistGormRepository(gdb)
	ctx := context.Background()
	svc := dbtest.SeedService(t, gdb, 30)

	e := seedEntry(t, gdb, svc.ID, domain.StatusWaiting, time.Now().UTC())
	now := time.Now().UTC()

	ok, err := repo.Transition(ctx, e.ID, domain.StatusWaiting, domain.StatusNotified, &now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Transition(ctx, e.ID, domain.StatusWaiting, domain.StatusNotified, &now)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "NOTIFIED", got.Status)
	require.NotNil(t, got.NotifiedAt)
}

func TestExpireAndRevertAreIdempotent(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := NewWaitlistGormRepository(gdb)
	ctx := context.Background()
	svc := dbtest.SeedService(t, gdb, 30)

	seedEntry(t, gdb, svc.ID, domain.StatusWaiting, time.Now().UTC())
	notified := seedEntry(t, gdb, svc.ID, domain.StatusNotified, time.Now().UTC())
	old := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	require.NoError(t, gdb.Model(notified).Update("notified_at", old).Error)

	now := time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)

	n, err := repo.ExpireWaiting(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.ExpireWaiting(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = repo.RevertStaleNotifications(ctx, now.Add(-2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.RevertStaleNotifications(ctx, now.Add(-2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	got, err := repo.Get(ctx, notified.ID)
	require.NoError(t, err)
	assert.Equal(t, "WAITING", got.Status)
	assert.Nil(t, got.NotifiedAt)
}

func TestCountByStatus(t *testing.T) {
	gdb := dbtest.Open(t)
	repo := NewWaitlistGormRepository(gdb)
	svc := dbtest.SeedService(t, gdb, 30)

	seedEntry(t, gdb, svc.ID, domain.StatusWaiting, time.Now().UTC())
	seedEntry(t, gdb, svc.ID, domain.StatusWaiting, time.Now().UTC())
	seedEntry(t, gdb, svc.ID, domain.StatusConverted, time.Now().UTC())

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), counts[domain.StatusWaiting])
	assert.Equal(t, int64(1), counts[domain.StatusConverted])
	assert.Equal(t, int64(0), counts[domain.StatusExpired])
}
