package dto

import (
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

type AppointmentListDTO struct {
	ID          uint      `json:"id"`
	PublicCode  string    `json:"public_code"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	Status      string    `json:"status"`
	ClientName  string    `json:"client_name"`
	ClientPhone string    `json:"client_phone"`
	ServiceName string    `json:"service_name"`
	Price       float64   `json:"price"`
}

func NewAppointmentList(apps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for _, ap := range apps {
		out = append(out, AppointmentListDTO{
			ID:          ap.ID,
			PublicCode:  ap.PublicCode,
			StartsAt:    ap.StartsAt,
			EndsAt:      ap.EndsAt,
			Status:      ap.Status,
			ClientName:  ap.ClientName,
			ClientPhone: ap.ClientPhone,
			ServiceName: ap.Service.Title,
			Price:       ap.Service.Price,
		})
	}
	return out
}
