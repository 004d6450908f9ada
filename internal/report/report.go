package report

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
)

// revenueStatuses are the appointments that count as money earned.
var revenueStatuses = []string{
	string(domain.StatusConfirmed),
	string(domain.StatusDone),
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ======================================================
// PERIOD REPORT
// ======================================================

type BarberStats struct {
	BarberID              uint    `json:"barber_id"`
	BarberName            string  `json:"barber_name"`
	TotalAppointments     int64   `json:"total_appointments"`
	ConfirmedAppointments int64   `json:"confirmed_appointments"`
	PendingAppointments   int64   `json:"pending_appointments"`
	CancelledAppointments int64   `json:"cancelled_appointments"`
	DoneAppointments      int64   `json:"done_appointments"`
	TotalRevenue          float64 `json:"total_revenue"`
}

type ServiceStats struct {
	ServiceID         uint    `json:"service_id"`
	ServiceName       string  `json:"service_name"`
	TotalAppointments int64   `json:"total_appointments"`
	TotalRevenue      float64 `json:"total_revenue"`
}

type Summary struct {
	TotalAppointments int64   `json:"total_appointments"`
	TotalRevenue      float64 `json:"total_revenue"`
	AverageTicket     float64 `json:"average_ticket"`
}

type Report struct {
	StartDate    string         `json:"start_date"`
	EndDate      string         `json:"end_date"`
	BarberStats  []BarberStats  `json:"barber_stats"`
	ServiceStats []ServiceStats `json:"service_stats"`
	Summary      Summary        `json:"summary"`
}

// Period aggregates appointments starting in [from, to).
func (s *Service) Period(ctx context.Context, from, to time.Time) (*Report, error) {
	db := s.db.WithContext(ctx)

	r := &Report{
		StartDate:    from.Format("2006-01-02"),
		EndDate:      to.Add(-time.Nanosecond).Format("2006-01-02"),
		BarberStats:  []BarberStats{},
		ServiceStats: []ServiceStats{},
	}

	// --------------------------------------------------
	// 1️⃣ Por barbeiro
	// --------------------------------------------------
	if err := db.Raw(`
		SELECT
			b.id AS barber_id,
			b.name AS barber_name,
			COUNT(a.id) AS total_appointments,
			COALESCE(SUM(CASE WHEN a.status = 'CONFIRMED' THEN 1 ELSE 0 END), 0) AS confirmed_appointments,
			COALESCE(SUM(CASE WHEN a.status = 'PENDING' THEN 1 ELSE 0 END), 0) AS pending_appointments,
			COALESCE(SUM(CASE WHEN a.status = 'CANCELLED' THEN 1 ELSE 0 END), 0) AS cancelled_appointments,
			COALESCE(SUM(CASE WHEN a.status = 'DONE' THEN 1 ELSE 0 END), 0) AS done_appointments,
			COALESCE(SUM(CASE WHEN a.status IN ? THEN s.price ELSE 0 END), 0) AS total_revenue
		FROM barbers b
		LEFT JOIN appointments a ON a.barber_id = b.id
			AND a.starts_at >= ? AND a.starts_at < ?
		LEFT JOIN services s ON s.id = a.service_id
		GROUP BY b.id, b.name
		HAVING COUNT(a.id) > 0
		ORDER BY total_revenue DESC, b.id ASC
	`, revenueStatuses, from, to).Scan(&r.BarberStats).Error; err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Por serviço
	// --------------------------------------------------
	if err := db.Raw(`
		SELECT
			s.id AS service_id,
			s.title AS service_name,
			COUNT(a.id) AS total_appointments,
			COALESCE(SUM(CASE WHEN a.status IN ? THEN s.price ELSE 0 END), 0) AS total_revenue
		FROM services s
		INNER JOIN appointments a ON a.service_id = s.id
			AND a.starts_at >= ? AND a.starts_at < ?
		GROUP BY s.id, s.title
		ORDER BY total_appointments DESC, s.id ASC
	`, revenueStatuses, from, to).Scan(&r.ServiceStats).Error; err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Resumo
	// --------------------------------------------------
	var totals struct {
		Total   int64
		Paid    int64
		Revenue float64
	}
	if err := db.Raw(`
		SELECT
			COUNT(a.id) AS total,
			COALESCE(SUM(CASE WHEN a.status IN ? THEN 1 ELSE 0 END), 0) AS paid,
			COALESCE(SUM(CASE WHEN a.status IN ? THEN s.price ELSE 0 END), 0) AS revenue
		FROM appointments a
		JOIN services s ON s.id = a.service_id
		WHERE a.starts_at >= ? AND a.starts_at < ?
	`, revenueStatuses, revenueStatuses, from, to).Scan(&totals).Error; err != nil {
		return nil, err
	}

	r.Summary = Summary{
		TotalAppointments: totals.Total,
		TotalRevenue:      totals.Revenue,
	}
	if totals.Paid > 0 {
		r.Summary.AverageTicket = totals.Revenue / float64(totals.Paid)
	}

	return r, nil
}
