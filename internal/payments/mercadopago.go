package payments

import (
	"context"
	"fmt"
	"strings"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"

	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

const currency = "ARS"

type preferenceCreator interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

type CheckoutLink struct {
	PreferenceID string  `json:"preference_id"`
	URL          string  `json:"url"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
}

// Checkout creates MercadoPago payment preferences for appointments.
type Checkout struct {
	client  preferenceCreator
	backURL string
}

// NewCheckout returns nil when no access token is configured.
func NewCheckout(accessToken, backURL string) (*Checkout, error) {
	if accessToken == "" {
		return nil, nil
	}

	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &Checkout{
		client:  preference.NewClient(cfg),
		backURL: strings.TrimRight(backURL, "/"),
	}, nil
}

func (c *Checkout) Link(ctx context.Context, ap *models.Appointment) (*CheckoutLink, error) {
	if c == nil {
		return nil, httperr.Unavailable("PAYMENTS_DISABLED", "online payments are not configured")
	}

	if !domain.Status(ap.Status).Active() {
		return nil, httperr.Conflict("APPOINTMENT_NOT_PAYABLE", "only pending or confirmed appointments can be paid")
	}

	req := preference.Request{
		ExternalReference: ap.PublicCode,
		Items: []preference.ItemRequest{
			{
				ID:         fmt.Sprintf("service-%d", ap.ServiceID),
				Title:      ap.Service.Title,
				Quantity:   1,
				UnitPrice:  ap.Service.Price,
				CurrencyID: currency,
			},
		},
	}

	if c.backURL != "" {
		back := c.backURL + "/turnos/" + ap.PublicCode
		req.BackURLs = &preference.BackURLsRequest{
			Success: back + "?payment=success",
			Pending: back + "?payment=pending",
			Failure: back + "?payment=failure",
		}
		req.AutoReturn = "approved"
	}

	res, err := c.client.Create(ctx, req)
	if err != nil {
		return nil, httperr.Unavailable("PAYMENT_PROVIDER_ERROR", err.Error())
	}

	return &CheckoutLink{
		PreferenceID: res.ID,
		URL:          res.InitPoint,
		Amount:       ap.Service.Price,
		Currency:     currency,
	}, nil
}
