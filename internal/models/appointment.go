package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PublicCode string `gorm:"size:32;uniqueIndex;not null" json:"public_code"`

	ClientName  string `gorm:"size:255;not null" json:"client_name"`
	ClientPhone string `gorm:"size:30;index" json:"client_phone"`
	ClientEmail string `gorm:"size:255" json:"client_email"`

	BarberID uint   `gorm:"index:idx_appointments_barber_slot,priority:1" json:"barber_id"`
	Barber   Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"barber"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service"`

	StartsAt time.Time `gorm:"index:idx_appointments_barber_slot,priority:2" json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`

	Status string `gorm:"size:20;default:'PENDING';index:idx_appointments_barber_slot,priority:3" json:"status"`

	Notes       string     `gorm:"size:500" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
