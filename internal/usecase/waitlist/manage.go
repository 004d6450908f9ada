package waitlist

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/waitlist"
	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

const defaultPerPage = 20

func entryNotFound() error {
	return httperr.NotFoundErr("WAITLIST_NOT_FOUND", "waitlist entry not found")
}

func notCancellable() error {
	return httperr.Conflict("WAITLIST_NOT_CANCELLABLE", "waitlist entry can no longer be cancelled")
}

// ======================================================
// GET / CANCEL
// ======================================================

type ManageWaitlist struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewManageWaitlist(repo domain.Repository, audit *audit.Dispatcher) *ManageWaitlist {
	return &ManageWaitlist{repo: repo, audit: audit}
}

func (uc *ManageWaitlist) Get(ctx context.Context, id uint) (*models.WaitlistEntry, error) {
	e, err := uc.repo.Get(ctx, id)
	if errors.Is(err, appointment.ErrNotFound) {
		return nil, entryNotFound()
	}
	return e, err
}

// Cancel removes the entry while it is still WAITING or NOTIFIED.
func (uc *ManageWaitlist) Cancel(ctx context.Context, id uint) error {
	e, err := uc.Get(ctx, id)
	if err != nil {
		return err
	}

	if !domain.Status(e.Status).Cancellable() {
		return notCancellable()
	}

	deleted, err := uc.repo.DeleteInStatus(ctx, id, domain.CancellableStatuses)
	if err != nil {
		return err
	}
	if !deleted {
		// mudou de estado (ou sumiu) entre a leitura e o delete
		if _, err := uc.Get(ctx, id); err != nil {
			return err
		}
		return notCancellable()
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "waitlist_cancelled",
		Entity:   "waitlist",
		EntityID: &id,
	})
	return nil
}

// ======================================================
// ADMIN LIST / STATS
// ======================================================

type ListInput struct {
	Status    string
	Date      string
	ServiceID uint
	Page      int
}

type ListResult struct {
	Items   []models.WaitlistEntry
	Total   int64
	Page    int
	PerPage int
}

func (uc *ManageWaitlist) List(ctx context.Context, in ListInput) (*ListResult, error) {
	if in.Status != "" && !domain.Status(in.Status).Valid() {
		return nil, httperr.Validation("INVALID_STATUS", "unknown waitlist status")
	}

	page := in.Page
	if page < 1 {
		page = 1
	}

	items, total, err := uc.repo.List(ctx, domain.ListFilter{
		Status:    in.Status,
		Date:      in.Date,
		ServiceID: in.ServiceID,
		Page:      page,
		PerPage:   defaultPerPage,
	})
	if err != nil {
		return nil, err
	}

	return &ListResult{Items: items, Total: total, Page: page, PerPage: defaultPerPage}, nil
}

type Stats struct {
	Waiting   int64 `json:"waiting"`
	Notified  int64 `json:"notified"`
	Converted int64 `json:"converted"`
	Expired   int64 `json:"expired"`
	Total     int64 `json:"total"`
}

func (uc *ManageWaitlist) Stats(ctx context.Context) (*Stats, error) {
	counts, err := uc.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	s := &Stats{
		Waiting:   counts[domain.StatusWaiting],
		Notified:  counts[domain.StatusNotified],
		Converted: counts[domain.StatusConverted],
		Expired:   counts[domain.StatusExpired],
	}
	s.Total = s.Waiting + s.Notified + s.Converted + s.Expired
	return s, nil
}
