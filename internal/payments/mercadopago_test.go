package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

type creatorFake struct {
	got preference.Request
	err error
}

func (f *creatorFake) Create(ctx context.Context, req preference.Request) (*preference.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &preference.Response{ID: "pref-1", InitPoint: "https://mp.example/pay/pref-1"}, nil
}

func appointmentOf(status string) *models.Appointment {
	return &models.Appointment{
		PublicCode: "APT-20260310-AB12",
		ServiceID:  3,
		Service:    models.Service{Title: "Corte", Price: 5000},
		Status:     status,
	}
}

func TestCheckoutLink(t *testing.T) {
	fake := &creatorFake{}
	c := &Checkout{client: fake, backURL: "https://barberia.example"}

	link, err := c.Link(context.Background(), appointmentOf("PENDING"))
	require.NoError(t, err)

	assert.Equal(t, "pref-1", link.PreferenceID)
	assert.Equal(t, "https://mp.example/pay/pref-1", link.URL)
	assert.Equal(t, 5000.0, link.Amount)

	assert.Equal(t, "APT-20260310-AB12", fake.got.ExternalReference)
	require.Len(t, fake.got.Items, 1)
	assert.Equal(t, "Corte", fake.got.Items[0].Title)
	require.NotNil(t, fake.got.BackURLs)
	assert.Equal(t, "https://barberia.example/turnos/APT-20260310-AB12?payment=success", fake.got.BackURLs.Success)
}

func TestCheckoutRejections(t *testing.T) {
	var disabled *Checkout
	_, err := disabled.Link(context.Background(), appointmentOf("PENDING"))
	assert.True(t, httperr.IsBusiness(err, "PAYMENTS_DISABLED"))

	c := &Checkout{client: &creatorFake{}}
	_, err = c.Link(context.Background(), appointmentOf("CANCELLED"))
	assert.True(t, httperr.IsBusiness(err, "APPOINTMENT_NOT_PAYABLE"))

	c = &Checkout{client: &creatorFake{err: errors.New("boom")}}
	_, err = c.Link(context.Background(), appointmentOf("CONFIRMED"))
	assert.True(t, httperr.IsBusiness(err, "PAYMENT_PROVIDER_ERROR"))
}

func TestNewCheckoutWithoutToken(t *testing.T) {
	c, err := NewCheckout("", "")
	require.NoError(t, err)
	assert.Nil(t, c)
}
