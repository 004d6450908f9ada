package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/waitlist"
	"github.com/BruksfildServices01/barbershop-booking/internal/metrics"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailNotifier sends plain-text mail. Entries without an email address are skipped.
type EmailNotifier struct {
	cfg    SMTPConfig
	window time.Duration
	log    zerolog.Logger
	send   sendFunc
}

func NewEmailNotifier(cfg SMTPConfig, window time.Duration, log zerolog.Logger) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		window: window,
		log:    log.With().Str("channel", "email").Logger(),
		send:   smtp.SendMail,
	}
}

func (n *EmailNotifier) SlotAvailable(ctx context.Context, entry *models.WaitlistEntry, slot waitlist.FreedSlot) error {
	if entry.ClientEmail == "" {
		return nil
	}

	local := slot.StartsAt.In(timezone.Business())
	body, err := render(slotAvailableTmpl, slotData{
		Name:    entry.ClientName,
		Service: entry.Service.Title,
		Date:    local.Format("02/01/2006"),
		Time:    local.Format("15:04"),
		Window:  formatWindow(n.window),
	})
	if err != nil {
		return err
	}

	return n.deliver(entry.ClientEmail, "¡Se liberó un turno!", body)
}

func (n *EmailNotifier) AppointmentConfirmed(ctx context.Context, ap *models.Appointment) error {
	if ap.ClientEmail == "" {
		return nil
	}

	local := ap.StartsAt.In(timezone.Business())
	body, err := render(confirmedTmpl, confirmedData{
		Name:    ap.ClientName,
		Code:    ap.PublicCode,
		Service: ap.Service.Title,
		Barber:  ap.Barber.Name,
		Date:    local.Format("02/01/2006"),
		Time:    local.Format("15:04"),
	})
	if err != nil {
		return err
	}

	return n.deliver(ap.ClientEmail, "Turno confirmado "+ap.PublicCode, body)
}

func (n *EmailNotifier) deliver(to, subject, body string) error {
	msg := buildMessage(n.cfg.From, to, subject, body)
	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	if err := n.send(addr, auth, n.cfg.From, []string{to}, msg); err != nil {
		metrics.NotificationsTotal.WithLabelValues("email", "failed").Inc()
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	metrics.NotificationsTotal.WithLabelValues("email", "sent").Inc()
	n.log.Info().Str("to", to).Str("subject", subject).Msg("mail sent")
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}
