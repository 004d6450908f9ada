package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/waitlist"
	"github.com/BruksfildServices01/barbershop-booking/internal/metrics"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSNotifier mirrors notifications over Twilio SMS.
type SMSNotifier struct {
	api  messageCreator
	from string
	log  zerolog.Logger
}

func NewSMSNotifier(accountSID, authToken, from string, log zerolog.Logger) *SMSNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &SMSNotifier{
		api:  client.Api,
		from: from,
		log:  log.With().Str("channel", "sms").Logger(),
	}
}

// e164 turns a local Argentine number into +54 form.
func e164(phone string) string {
	p := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	switch {
	case p == "":
		return ""
	case strings.HasPrefix(p, "+"):
		return p
	case strings.HasPrefix(p, "54"):
		return "+" + p
	default:
		return "+54" + p
	}
}

func (n *SMSNotifier) SlotAvailable(ctx context.Context, entry *models.WaitlistEntry, slot waitlist.FreedSlot) error {
	local := slot.StartsAt.In(timezone.Business())
	body := fmt.Sprintf(
		"Hola %s, se liberó un turno el %s a las %s. Revisá tu email para confirmarlo.",
		entry.ClientName, local.Format("02/01"), local.Format("15:04"),
	)
	return n.send(entry.ClientPhone, body)
}

func (n *SMSNotifier) AppointmentConfirmed(ctx context.Context, ap *models.Appointment) error {
	local := ap.StartsAt.In(timezone.Business())
	body := fmt.Sprintf(
		"Turno confirmado %s: %s %s.",
		ap.PublicCode, local.Format("02/01"), local.Format("15:04"),
	)
	return n.send(ap.ClientPhone, body)
}

func (n *SMSNotifier) send(phone, body string) error {
	to := e164(phone)
	if to == "" {
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(n.from)
	params.SetBody(body)

	resp, err := n.api.CreateMessage(params)
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("sms", "failed").Inc()
		return fmt.Errorf("send sms: %w", err)
	}

	metrics.NotificationsTotal.WithLabelValues("sms", "sent").Inc()
	if resp.Sid != nil {
		n.log.Info().Str("sid", *resp.Sid).Msg("sms sent")
	}
	return nil
}
