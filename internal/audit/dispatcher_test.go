package audit

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-booking/internal/db/dbtest"
)

func TestDispatcherWritesOnClose(t *testing.T) {
	gdb := dbtest.Open(t)
	logger := New(gdb)
	d := NewDispatcher(logger, zerolog.Nop())

	id := uint(7)
	d.Dispatch(Event{Action: "appointment_created", Entity: "appointment", EntityID: &id, Metadata: map[string]string{"public_code": "APT-1"}})
	d.Dispatch(Event{Action: "login", Entity: "user"})
	d.Close()

	logs, total, err := logger.List(context.Background(), Filter{Entity: "appointment"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.Equal(t, "appointment_created", logs[0].Action)
	assert.JSONEq(t, `{"public_code":"APT-1"}`, logs[0].Metadata)
}

func TestNilDispatcherIsSafe(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() {
		d.Dispatch(Event{Action: "x"})
		d.Close()
	})
}
