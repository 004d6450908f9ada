package waitlist

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

func uintPtr(v uint) *uint { return &v }

func TestMatchesTimePreference(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		hm         string
		want       bool
	}{
		{"no window", "", "", "09:00", true},
		{"inside", "14:00", "16:00", "15:00", true},
		{"at start", "14:00", "16:00", "14:00", true},
		{"at end is outside", "14:00", "16:00", "16:00", false},
		{"before", "14:00", "16:00", "13:30", false},
		{"start only", "14:00", "", "19:00", true},
		{"start only before", "14:00", "", "13:00", false},
		{"end only", "", "12:00", "11:30", true},
		{"end only after", "", "12:00", "12:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &models.WaitlistEntry{PreferredTimeStart: tt.start, PreferredTimeEnd: tt.end}
			assert.Equal(t, tt.want, MatchesTimePreference(e, tt.hm))
		})
	}
}

func TestFirstMatchKeepsOrder(t *testing.T) {
	slot := FreedSlot{
		BarberID: 1,
		StartsAt: time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
	}

	entries := []models.WaitlistEntry{
		{ID: 10, BarberID: uintPtr(2)},
		{ID: 11, PreferredTimeStart: "16:00"},
		{ID: 12, BarberID: uintPtr(1), PreferredTimeStart: "14:00", PreferredTimeEnd: "16:00"},
		{ID: 13},
	}

	got := FirstMatch(entries, slot)
	require.NotNil(t, got)
	assert.Equal(t, uint(12), got.ID)

	assert.Nil(t, FirstMatch(entries[:2], slot))
}

func TestExpiresAt(t *testing.T) {
	got, err := ExpiresAt("2026-03-10", time.UTC, 7)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC), got)

	_, err = ExpiresAt("10/03/2026", time.UTC, 7)
	assert.Error(t, err)
}

// Midnight stays midnight across a DST change.
func TestExpiresAtAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	got, err := ExpiresAt("2026-03-05", ny, 7)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 12, 0, 0, 0, 0, ny), got)
	assert.Equal(t, 0, got.Hour())
}

func TestNotificationExpired(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	at := now.Add(-2 * time.Hour)
	e := &models.WaitlistEntry{NotifiedAt: &at}

	assert.False(t, NotificationExpired(e, now, 2*time.Hour))
	assert.True(t, NotificationExpired(e, now.Add(time.Second), 2*time.Hour))
	assert.True(t, NotificationExpired(&models.WaitlistEntry{}, now, 2*time.Hour))
}
