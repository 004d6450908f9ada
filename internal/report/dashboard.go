package report

import (
	"context"
	"fmt"
	"time"
)

type DashboardStats struct {
	TodayAppointments int64 `json:"today_appointments"`
	Pending           int64 `json:"pending"`
	Confirmed         int64 `json:"confirmed"`
	CancelledToday    int64 `json:"cancelled_today"`
}

func dayBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}

func monthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// Dashboard counts today's bookings plus everything still open.
func (s *Service) Dashboard(ctx context.Context, now time.Time) (*DashboardStats, error) {
	from, to := dayBounds(now)

	var out DashboardStats
	err := s.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(CASE WHEN starts_at >= ? AND starts_at < ? THEN 1 ELSE 0 END), 0) AS today_appointments,
			COALESCE(SUM(CASE WHEN status = 'PENDING' THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN status = 'CONFIRMED' THEN 1 ELSE 0 END), 0) AS confirmed,
			COALESCE(SUM(CASE WHEN status = 'CANCELLED' AND starts_at >= ? AND starts_at < ? THEN 1 ELSE 0 END), 0) AS cancelled_today
		FROM appointments
	`, from, to, from, to).Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type MonthStats struct {
	Month     string  `json:"month"`
	Label     string  `json:"label"`
	Total     int64   `json:"total"`
	Confirmed int64   `json:"confirmed"`
	Pending   int64   `json:"pending"`
	Cancelled int64   `json:"cancelled"`
	Done      int64   `json:"done"`
	Revenue   float64 `json:"revenue"`
}

var monthNames = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

func monthLabel(t time.Time) string {
	return fmt.Sprintf("%s %d", monthNames[t.Month()-1], t.Year())
}

// Monthly returns the last n months, oldest first, ending with now's month.
func (s *Service) Monthly(ctx context.Context, now time.Time, n int) ([]MonthStats, error) {
	if n <= 0 {
		n = 6
	}

	current, _ := monthBounds(now)
	out := make([]MonthStats, 0, n)

	for i := n - 1; i >= 0; i-- {
		from := current.AddDate(0, -i, 0)
		to := from.AddDate(0, 1, 0)

		var m MonthStats
		err := s.db.WithContext(ctx).Raw(`
			SELECT
				COUNT(a.id) AS total,
				COALESCE(SUM(CASE WHEN a.status = 'CONFIRMED' THEN 1 ELSE 0 END), 0) AS confirmed,
				COALESCE(SUM(CASE WHEN a.status = 'PENDING' THEN 1 ELSE 0 END), 0) AS pending,
				COALESCE(SUM(CASE WHEN a.status = 'CANCELLED' THEN 1 ELSE 0 END), 0) AS cancelled,
				COALESCE(SUM(CASE WHEN a.status = 'DONE' THEN 1 ELSE 0 END), 0) AS done,
				COALESCE(SUM(CASE WHEN a.status IN ? THEN s.price ELSE 0 END), 0) AS revenue
			FROM appointments a
			JOIN services s ON s.id = a.service_id
			WHERE a.starts_at >= ? AND a.starts_at < ?
		`, revenueStatuses, from, to).Scan(&m).Error
		if err != nil {
			return nil, err
		}

		m.Month = from.Format("2006-01")
		m.Label = monthLabel(from)
		out = append(out, m)
	}

	return out, nil
}
