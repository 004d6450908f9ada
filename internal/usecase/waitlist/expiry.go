package waitlist

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/waitlist"
	"github.com/BruksfildServices01/barbershop-booking/internal/metrics"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

// ======================================================
// CLEAN EXPIRED
// ======================================================

type CleanExpiredEntries struct {
	repo domain.Repository
	now  func() time.Time
}

func NewCleanExpiredEntries(repo domain.Repository) *CleanExpiredEntries {
	return &CleanExpiredEntries{repo: repo, now: timezone.Now}
}

// Execute marks WAITING entries past expires_at as EXPIRED.
func (uc *CleanExpiredEntries) Execute(ctx context.Context) (int64, error) {
	n, err := uc.repo.ExpireWaiting(ctx, uc.now())
	if err != nil {
		return 0, err
	}
	metrics.WaitlistTransitionsTotal.WithLabelValues(string(domain.StatusExpired)).Add(float64(n))
	return n, nil
}

// ======================================================
// NOTIFICATION EXPIRY
// ======================================================

type CheckNotificationExpiry struct {
	repo   domain.Repository
	window time.Duration
	now    func() time.Time
}

func NewCheckNotificationExpiry(repo domain.Repository, opts Options) *CheckNotificationExpiry {
	return &CheckNotificationExpiry{
		repo:   repo,
		window: opts.withDefaults().NotificationWindow,
		now:    timezone.Now,
	}
}

// Execute puts NOTIFIED entries whose window lapsed back to WAITING.
func (uc *CheckNotificationExpiry) Execute(ctx context.Context) (int64, error) {
	n, err := uc.repo.RevertStaleNotifications(ctx, uc.now().Add(-uc.window))
	if err != nil {
		return 0, err
	}
	metrics.WaitlistTransitionsTotal.WithLabelValues(string(domain.StatusWaiting)).Add(float64(n))
	return n, nil
}
