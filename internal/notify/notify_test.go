package notify

import (
	"context"
	"errors"
	"net/smtp"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/waitlist"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

func TestMain(m *testing.M) {
	timezone.SetDefault("UTC")
	os.Exit(m.Run())
}

func slot() waitlist.FreedSlot {
	return waitlist.FreedSlot{
		BarberID: 1,
		StartsAt: time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC),
	}
}

func TestEmailSlotAvailable(t *testing.T) {
	n := NewEmailNotifier(SMTPConfig{Host: "mail.local", Port: 2525, From: "turnos@barberia.local"}, 2*time.Hour, zerolog.Nop())

	var gotAddr string
	var gotMsg string
	n.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotMsg = string(msg)
		assert.Nil(t, a)
		assert.Equal(t, []string{"ana@example.com"}, to)
		return nil
	}

	entry := &models.WaitlistEntry{ClientName: "Ana", ClientEmail: "ana@example.com", Service: models.Service{Title: "Corte"}}
	require.NoError(t, n.SlotAvailable(context.Background(), entry, slot()))

	assert.Equal(t, "mail.local:2525", gotAddr)
	assert.Contains(t, gotMsg, "Subject: ¡Se liberó un turno!")
	assert.Contains(t, gotMsg, "10/03/2026 a las 15:00")
	assert.Contains(t, gotMsg, "2 horas")
}

func TestEmailSkipsWithoutAddress(t *testing.T) {
	n := NewEmailNotifier(SMTPConfig{Host: "mail.local", Port: 25}, time.Hour, zerolog.Nop())
	n.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("should not send")
		return nil
	}

	assert.NoError(t, n.SlotAvailable(context.Background(), &models.WaitlistEntry{}, slot()))
	assert.NoError(t, n.AppointmentConfirmed(context.Background(), &models.Appointment{}))
}

func TestEmailPropagatesFailure(t *testing.T) {
	n := NewEmailNotifier(SMTPConfig{Host: "mail.local", Port: 25}, time.Hour, zerolog.Nop())
	n.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := n.AppointmentConfirmed(context.Background(), &models.Appointment{ClientEmail: "a@b.c", PublicCode: "APT-1"})
	assert.ErrorContains(t, err, "connection refused")
}

type twilioMock struct {
	mock.Mock
}

func (m *twilioMock) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	args := m.Called(*params.To, *params.Body)
	msg, _ := args.Get(0).(*twilioApi.ApiV2010Message)
	return msg, args.Error(1)
}

func TestSMSSendsE164(t *testing.T) {
	api := new(twilioMock)
	sid := "SM123"
	api.On("CreateMessage", "+541155551234", mock.AnythingOfType("string")).
		Return(&twilioApi.ApiV2010Message{Sid: &sid}, nil).Once()

	n := &SMSNotifier{api: api, from: "+15550000", log: zerolog.Nop()}
	err := n.AppointmentConfirmed(context.Background(), &models.Appointment{ClientPhone: "11 5555-1234", PublicCode: "APT-1"})

	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestE164(t *testing.T) {
	assert.Equal(t, "+541155551234", e164("1155551234"))
	assert.Equal(t, "+541155551234", e164("541155551234"))
	assert.Equal(t, "+541155551234", e164("+541155551234"))
	assert.Equal(t, "", e164(""))
}

type stubNotifier struct {
	err   error
	calls int
}

func (s *stubNotifier) SlotAvailable(context.Context, *models.WaitlistEntry, waitlist.FreedSlot) error {
	s.calls++
	return s.err
}

func (s *stubNotifier) AppointmentConfirmed(context.Context, *models.Appointment) error {
	s.calls++
	return s.err
}

func TestFanout(t *testing.T) {
	primary := &stubNotifier{}
	secondary := &stubNotifier{err: errors.New("sms down")}
	f := NewFanout(zerolog.Nop(), primary, secondary)

	require.NoError(t, f.SlotAvailable(context.Background(), &models.WaitlistEntry{}, slot()))
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)

	primary.err = errors.New("smtp down")
	err := f.AppointmentConfirmed(context.Background(), &models.Appointment{})
	assert.Error(t, err)
	assert.Equal(t, 1, secondary.calls)
}
