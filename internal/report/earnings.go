package report

import (
	"context"
	"math"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

type Earnings struct {
	From         string  `json:"from"`
	To           string  `json:"to"`
	Appointments int64   `json:"appointments"`
	Revenue      float64 `json:"revenue"`
	Total        float64 `json:"total"`
}

// Earnings applies the barber's commission to confirmed and done work in [from, to).
func (s *Service) Earnings(
	ctx context.Context,
	barber *models.Barber,
	from, to time.Time,
) (*Earnings, error) {

	var row struct {
		Appointments int64
		Revenue      float64
	}
	if err := s.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(a.id) AS appointments,
			COALESCE(SUM(s.price), 0) AS revenue
		FROM appointments a
		JOIN services s ON s.id = a.service_id
		WHERE a.barber_id = ? AND a.status IN ?
			AND a.starts_at >= ? AND a.starts_at < ?
	`, barber.ID, revenueStatuses, from, to).Scan(&row).Error; err != nil {
		return nil, err
	}

	var total float64
	switch barber.EarningsType {
	case models.EarningsFixed:
		total = float64(row.Appointments) * barber.EarningsValue
	default:
		total = row.Revenue * barber.EarningsValue / 100
	}

	return &Earnings{
		From:         from.Format("2006-01-02"),
		To:           to.Add(-time.Nanosecond).Format("2006-01-02"),
		Appointments: row.Appointments,
		Revenue:      row.Revenue,
		Total:        math.Round(total*100) / 100,
	}, nil
}

type PanelStats struct {
	TodayAppointments   int64 `json:"today_appointments"`
	MonthAppointments   int64 `json:"month_appointments"`
	PendingAppointments int64 `json:"pending_appointments"`
	ConfirmedToday      int64 `json:"confirmed_today"`
}

// PanelStats is the barber's own view: today, this month, and future PENDING work.
func (s *Service) PanelStats(ctx context.Context, barberID uint, now time.Time) (*PanelStats, error) {
	dayFrom, dayTo := dayBounds(now)
	monthFrom, monthTo := monthBounds(now)

	var out PanelStats
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(CASE WHEN starts_at >= ? AND starts_at < ? THEN 1 ELSE 0 END), 0) AS today_appointments,
			COALESCE(SUM(CASE WHEN starts_at >= ? AND starts_at < ? THEN 1 ELSE 0 END), 0) AS month_appointments,
			COALESCE(SUM(CASE WHEN status = 'PENDING' AND starts_at > ? THEN 1 ELSE 0 END), 0) AS pending_appointments,
			COALESCE(SUM(CASE WHEN status = 'CONFIRMED' AND starts_at >= ? AND starts_at < ? THEN 1 ELSE 0 END), 0) AS confirmed_today
		FROM appointments
		WHERE barber_id = ?
	`, dayFrom, dayTo, monthFrom, monthTo, now, dayFrom, dayTo, barberID).Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}
