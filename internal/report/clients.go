package report

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/httperr"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

const clientSearchLimit = 50

// Clients are not stored on their own; they are the distinct phone numbers
// found on appointments.

type ClientAppointment struct {
	ID         uint      `json:"id"`
	PublicCode string    `json:"public_code"`
	Service    string    `json:"service"`
	Barber     string    `json:"barber"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
}

type Client struct {
	ClientName        string              `json:"client_name"`
	ClientPhone       string              `json:"client_phone"`
	ClientEmail       string              `json:"client_email"`
	AppointmentsCount int                 `json:"appointments_count"`
	LastAppointment   time.Time           `json:"last_appointment"`
	Appointments      []ClientAppointment `json:"appointments"`
}

type ClientStats struct {
	TotalAppointments int `json:"total_appointments"`
	Completed         int `json:"completed"`
	Cancelled         int `json:"cancelled"`
	NoShow            int `json:"no_show"`
}

type ClientHistory struct {
	Client       Client              `json:"client"`
	Appointments []ClientAppointment `json:"appointments"`
	Stats        ClientStats         `json:"stats"`
}

func toClientAppointment(a models.Appointment) ClientAppointment {
	return ClientAppointment{
		ID:         a.ID,
		PublicCode: a.PublicCode,
		Service:    a.Service.Title,
		Barber:     a.Barber.Name,
		StartsAt:   a.StartsAt,
		EndsAt:     a.EndsAt,
		Status:     a.Status,
		Notes:      a.Notes,
	}
}

// SearchClients groups the latest matching appointments by phone, newest first.
func (s *Service) SearchClients(ctx context.Context, search string) ([]Client, error) {
	q := s.db.WithContext(ctx).
		Preload("Service").
		Preload("Barber").
		Order("starts_at DESC").
		Limit(clientSearchLimit)

	if term := strings.ToLower(strings.TrimSpace(search)); term != "" {
		like := "%" + term + "%"
		q = q.Where(
			"LOWER(client_name) LIKE ? OR client_phone LIKE ? OR LOWER(client_email) LIKE ?",
			like, like, like,
		)
	}

	var apps []models.Appointment
	if err := q.Find(&apps).Error; err != nil {
		return nil, err
	}

	out := []Client{}
	index := map[string]int{}

	for _, a := range apps {
		i, ok := index[a.ClientPhone]
		if !ok {
			index[a.ClientPhone] = len(out)
			out = append(out, Client{
				ClientName:      a.ClientName,
				ClientPhone:     a.ClientPhone,
				ClientEmail:     a.ClientEmail,
				LastAppointment: a.StartsAt,
			})
			i = len(out) - 1
		}
		out[i].AppointmentsCount++
		out[i].Appointments = append(out[i].Appointments, toClientAppointment(a))
	}

	return out, nil
}

func (s *Service) ClientHistory(ctx context.Context, phone string) (*ClientHistory, error) {
	var apps []models.Appointment
	if err := s.db.WithContext(ctx).
		Preload("Service").
		Preload("Barber").
		Where("client_phone = ?", phone).
		Order("starts_at DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	if len(apps) == 0 {
		return nil, httperr.NotFoundErr("CLIENT_NOT_FOUND", "no appointments for this client")
	}

	latest := apps[0]
	h := &ClientHistory{
		Client: Client{
			ClientName:        latest.ClientName,
			ClientPhone:       latest.ClientPhone,
			ClientEmail:       latest.ClientEmail,
			AppointmentsCount: len(apps),
			LastAppointment:   latest.StartsAt,
		},
		Appointments: make([]ClientAppointment, 0, len(apps)),
	}

	for _, a := range apps {
		h.Appointments = append(h.Appointments, toClientAppointment(a))

		switch a.Status {
		case "DONE":
			h.Stats.Completed++
		case "CANCELLED":
			h.Stats.Cancelled++
		case "NO_SHOW":
			h.Stats.NoShow++
		}
	}
	h.Stats.TotalAppointments = len(apps)

	return h, nil
}
