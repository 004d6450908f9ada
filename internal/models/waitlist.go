package models

import "time"

type WaitlistEntry struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientName  string `gorm:"size:255;not null" json:"client_name"`
	ClientPhone string `gorm:"size:30" json:"client_phone"`
	ClientEmail string `gorm:"size:255" json:"client_email"`

	ServiceID uint    `gorm:"index:idx_waitlist_match,priority:3" json:"service_id"`
	Service   Service `gorm:"constraint:OnDelete:CASCADE;" json:"service"`

	// PreferredDate is a YYYY-MM-DD calendar day in the shop's timezone.
	PreferredDate      string `gorm:"size:10;index:idx_waitlist_match,priority:2" json:"preferred_date"`
	PreferredTimeStart string `gorm:"size:5" json:"preferred_time_start"`
	PreferredTimeEnd   string `gorm:"size:5" json:"preferred_time_end"`

	BarberID *uint   `json:"barber_id"`
	Barber   *Barber `gorm:"constraint:OnDelete:SET NULL;" json:"barber,omitempty"`

	Status     string     `gorm:"size:20;default:'WAITING';index:idx_waitlist_match,priority:1" json:"status"`
	NotifiedAt *time.Time `json:"notified_at"`
	ExpiresAt  time.Time  `json:"expires_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (WaitlistEntry) TableName() string {
	return "waitlist"
}
