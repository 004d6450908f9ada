package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/metrics"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

type AvailabilityResult struct {
	Date     string            `json:"date"`
	BarberID uint              `json:"barber_id"`
	Slots    []domain.TimeSlot `json:"slots"`
}

// slotEvaluator holds the grid rules shared by listing and booking.
type slotEvaluator struct {
	policy domain.SlotPolicy
}

func (e slotEvaluator) freeSlots(
	ctx context.Context,
	repo domain.Repository,
	day time.Time,
	barberID uint,
	duration time.Duration,
	lock bool,
) ([]domain.TimeSlot, error) {

	grid, err := e.policy.Grid(day)
	if err != nil {
		return nil, err
	}

	dayEnd := day.AddDate(0, 0, 1)

	apps, err := repo.ListActiveAppointments(ctx, barberID, day, dayEnd, lock)
	if err != nil {
		return nil, err
	}
	busy := domain.AppointmentIntervals(apps)

	var allow func(start, end time.Time) bool
	if e.policy.EnforceSchedule {
		sched, err := repo.GetSchedule(ctx, barberID, int(day.Weekday()))
		if err != nil {
			return nil, err
		}
		off, err := repo.ListTimeOff(ctx, barberID, day, dayEnd)
		if err != nil {
			return nil, err
		}
		busy = append(busy, domain.TimeOffIntervals(off)...)
		allow = func(start, end time.Time) bool {
			return domain.IsWithinSchedule(sched, start, end)
		}
	}

	return domain.FreeSlots(grid, duration, busy, allow), nil
}

// ServiceDuration falls back to the default duration for unknown or unset services.
func ServiceDuration(svc *models.Service) time.Duration {
	if svc == nil || svc.DurationMinutes <= 0 {
		return domain.DefaultDuration
	}
	return time.Duration(svc.DurationMinutes) * time.Minute
}

// ======================================================
// USE CASE
// ======================================================

type GetAvailability struct {
	repo     domain.Repository
	eval     slotEvaluator
	defaults DefaultBarberPolicy
	cache    AvailabilityCache
}

func NewGetAvailability(
	repo domain.Repository,
	policy domain.SlotPolicy,
	defaults DefaultBarberPolicy,
	cache AvailabilityCache,
) *GetAvailability {
	if defaults == nil {
		defaults = FirstActiveBarber{}
	}
	return &GetAvailability{
		repo:     repo,
		eval:     slotEvaluator{policy: policy},
		defaults: defaults,
		cache:    cache,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*AvailabilityResult, error) {

	timer := prometheus.NewTimer(metrics.AvailabilityDuration)
	defer timer.ObserveDuration()

	day, err := timezone.ParseDate(in.Date, timezone.Business())
	if err != nil {
		return nil, httperr.Validation("INVALID_DATE", "date must be YYYY-MM-DD")
	}

	// --------------------------------------------------
	// 1️⃣ Barbeiro
	// --------------------------------------------------
	barber, err := uc.resolveBarber(ctx, in.BarberID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Duração do serviço
	// --------------------------------------------------
	var svc *models.Service
	if in.ServiceID != 0 {
		svc, err = uc.repo.GetService(ctx, in.ServiceID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.NotFoundErr("SERVICE_NOT_FOUND", "service not found")
		}
		if err != nil {
			return nil, err
		}
	}
	duration := ServiceDuration(svc)
	minutes := int(duration / time.Minute)

	// --------------------------------------------------
	// 3️⃣ Cache
	// --------------------------------------------------
	gen := int64(-1)
	if uc.cache != nil {
		var (
			slots []domain.TimeSlot
			ok    bool
		)
		if slots, gen, ok = uc.cache.Get(ctx, barber.ID, in.Date, minutes); ok {
			metrics.AvailabilityCacheTotal.WithLabelValues("hit").Inc()
			return &AvailabilityResult{Date: in.Date, BarberID: barber.ID, Slots: slots}, nil
		}
		metrics.AvailabilityCacheTotal.WithLabelValues("miss").Inc()
	}

	// --------------------------------------------------
	// 4️⃣ Grade menos agendamentos ativos
	// --------------------------------------------------
	slots, err := uc.eval.freeSlots(ctx, uc.repo, day, barber.ID, duration, false)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		uc.cache.Set(ctx, barber.ID, in.Date, minutes, gen, slots)
	}

	return &AvailabilityResult{Date: in.Date, BarberID: barber.ID, Slots: slots}, nil
}

func (uc *GetAvailability) resolveBarber(ctx context.Context, id uint) (*models.Barber, error) {
	var (
		barber *models.Barber
		err    error
	)

	if id != 0 {
		barber, err = uc.repo.GetBarber(ctx, id)
		if err == nil && !barber.Active {
			err = domain.ErrNotFound
		}
	} else {
		barber, err = uc.defaults.DefaultBarber(ctx, uc.repo)
	}

	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFoundErr("BARBER_NOT_FOUND", "no active barber available")
	}
	if err != nil {
		return nil, err
	}
	return barber, nil
}

// ValidateSlot reports whether date+time is a free slot for the service and barber.
func (uc *GetAvailability) ValidateSlot(
	ctx context.Context,
	date string,
	hm string,
	serviceID uint,
	barberID uint,
) (bool, error) {

	res, err := uc.Execute(ctx, domain.AvailabilityInput{
		Date:      date,
		ServiceID: serviceID,
		BarberID:  barberID,
	})
	if err != nil {
		return false, err
	}
	return domain.ContainsTime(res.Slots, hm), nil
}
