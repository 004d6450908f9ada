package waitlist

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/waitlist"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/logging"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type AddInput struct {
	ClientName  string
	ClientPhone string
	ClientEmail string

	ServiceID uint
	BarberID  *uint

	PreferredDate      string
	PreferredTimeStart string
	PreferredTimeEnd   string
}

// ======================================================
// USE CASE
// ======================================================

type AddToWaitlist struct {
	repo  domain.Repository
	apps  appointment.Repository
	opts  Options
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewAddToWaitlist(
	repo domain.Repository,
	apps appointment.Repository,
	opts Options,
	audit *audit.Dispatcher,
) *AddToWaitlist {
	return &AddToWaitlist{
		repo:  repo,
		apps:  apps,
		opts:  opts.withDefaults(),
		audit: audit,
		now:   timezone.Now,
	}
}

func validHM(hm string) bool {
	_, err := time.Parse("15:04", hm)
	return err == nil && len(hm) == 5
}

func (uc *AddToWaitlist) Execute(
	ctx context.Context,
	in AddInput,
) (*models.WaitlistEntry, error) {

	loc := timezone.Business()

	// --------------------------------------------------
	// 1️⃣ Data e janela de horário
	// --------------------------------------------------
	day, err := timezone.ParseDate(in.PreferredDate, loc)
	if err != nil {
		return nil, httperr.Validation("INVALID_DATE", "preferred_date must be YYYY-MM-DD")
	}

	now := uc.now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if day.Before(today) {
		return nil, httperr.Validation("INVALID_DATE", "preferred_date must be today or later")
	}

	details := map[string]string{}
	if in.PreferredTimeStart != "" && !validHM(in.PreferredTimeStart) {
		details["preferred_time_start"] = "hhmm"
	}
	if in.PreferredTimeEnd != "" && !validHM(in.PreferredTimeEnd) {
		details["preferred_time_end"] = "hhmm"
	}
	if len(details) > 0 {
		return nil, httperr.ValidationDetails(details)
	}
	if in.PreferredTimeStart != "" && in.PreferredTimeEnd != "" && in.PreferredTimeEnd <= in.PreferredTimeStart {
		return nil, httperr.ValidationDetails(map[string]string{"preferred_time_end": "gtfield"})
	}

	// --------------------------------------------------
	// 2️⃣ Serviço e barbeiro
	// --------------------------------------------------
	if _, err := uc.apps.GetService(ctx, in.ServiceID); err != nil {
		if errors.Is(err, appointment.ErrNotFound) {
			return nil, httperr.NotFoundErr("SERVICE_NOT_FOUND", "service not found")
		}
		return nil, err
	}

	if in.BarberID != nil {
		if _, err := uc.apps.GetBarber(ctx, *in.BarberID); err != nil {
			if errors.Is(err, appointment.ErrNotFound) {
				return nil, httperr.NotFoundErr("BARBER_NOT_FOUND", "barber not found")
			}
			return nil, err
		}
	}

	// --------------------------------------------------
	// 3️⃣ Entrada
	// --------------------------------------------------
	expiresAt, err := domain.ExpiresAt(in.PreferredDate, loc, uc.opts.ExpiryDays)
	if err != nil {
		return nil, err
	}

	entry := &models.WaitlistEntry{
		ClientName:         in.ClientName,
		ClientPhone:        in.ClientPhone,
		ClientEmail:        in.ClientEmail,
		ServiceID:          in.ServiceID,
		BarberID:           in.BarberID,
		PreferredDate:      in.PreferredDate,
		PreferredTimeStart: in.PreferredTimeStart,
		PreferredTimeEnd:   in.PreferredTimeEnd,
		Status:             string(domain.StatusWaiting),
		ExpiresAt:          expiresAt,
	}

	if err := uc.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "waitlist_joined",
		Entity:   "waitlist",
		EntityID: &entry.ID,
	})

	logging.FromContext(ctx).Info().
		Uint("waitlist_id", entry.ID).
		Str("date", entry.PreferredDate).
		Msg("waitlist entry created")

	return uc.repo.Get(ctx, entry.ID)
}
