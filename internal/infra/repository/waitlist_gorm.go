package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/waitlist"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

type WaitlistGormRepository struct {
	db *gorm.DB
}

func NewWaitlistGormRepository(db *gorm.DB) *WaitlistGormRepository {
	return &WaitlistGormRepository{db: db}
}

func (r *WaitlistGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository, appointments appointment.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(
			&WaitlistGormRepository{db: tx},
			&AppointmentGormRepository{db: tx},
		)
	})
}

// --------------------------------------------------
// CRUD
// --------------------------------------------------

func (r *WaitlistGormRepository) Create(
	ctx context.Context,
	e *models.WaitlistEntry,
) error {
	return r.db.WithContext(ctx).Omit("Service", "Barber").Create(e).Error
}

func (r *WaitlistGormRepository) Get(
	ctx context.Context,
	id uint,
) (*models.WaitlistEntry, error) {

	var e models.WaitlistEntry
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Barber").
		First(&e, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *WaitlistGormRepository) DeleteInStatus(
	ctx context.Context,
	id uint,
	in []domain.Status,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Where("id = ? AND status IN ?", id, in).
		Delete(&models.WaitlistEntry{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// --------------------------------------------------
// Matching
// --------------------------------------------------

func (r *WaitlistGormRepository) ListWaiting(
	ctx context.Context,
	date string,
	serviceID uint,
	now time.Time,
) ([]models.WaitlistEntry, error) {

	var entries []models.WaitlistEntry
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where(
			"status = ? AND preferred_date = ? AND service_id = ? AND expires_at > ?",
			domain.StatusWaiting, date, serviceID, now,
		).
		Order("created_at ASC").
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// --------------------------------------------------
// Transitions
// --------------------------------------------------

func (r *WaitlistGormRepository) Transition(
	ctx context.Context,
	id uint,
	from domain.Status,
	to domain.Status,
	notifiedAt *time.Time,
) (bool, error) {

	updates := map[string]any{"status": to}
	if to == domain.StatusNotified {
		updates["notified_at"] = notifiedAt
	}

	res := r.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *WaitlistGormRepository) ExpireWaiting(
	ctx context.Context,
	now time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("status = ? AND expires_at < ?", domain.StatusWaiting, now).
		Update("status", domain.StatusExpired)
	return res.RowsAffected, res.Error
}

func (r *WaitlistGormRepository) RevertStaleNotifications(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("status = ? AND notified_at < ?", domain.StatusNotified, cutoff).
		Updates(map[string]any{
			"status":      domain.StatusWaiting,
			"notified_at": nil,
		})
	return res.RowsAffected, res.Error
}

// --------------------------------------------------
// Admin
// --------------------------------------------------

func (r *WaitlistGormRepository) List(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.WaitlistEntry, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.WaitlistEntry{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Date != "" {
		q = q.Where("preferred_date = ?", f.Date)
	}
	if f.ServiceID != 0 {
		q = q.Where("service_id = ?", f.ServiceID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, perPage := paginate(f.Page, f.PerPage)

	var entries []models.WaitlistEntry
	if err := q.
		Preload("Service").
		Preload("Barber").
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *WaitlistGormRepository) CountByStatus(
	ctx context.Context,
) (map[domain.Status]int64, error) {

	var rows []struct {
		Status string
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[domain.Status]int64, len(domain.AllStatuses))
	for _, s := range domain.AllStatuses {
		out[s] = 0
	}
	for _, row := range rows {
		out[domain.Status(row.Status)] = row.Total
	}
	return out, nil
}

// Compile-time check
var _ domain.Repository = (*WaitlistGormRepository)(nil)
