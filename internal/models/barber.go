package models

import "time"

const (
	EarningsFixed      = "FIXED"
	EarningsPercentage = "PERCENTAGE"
)

type Barber struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name   string `gorm:"size:100;not null" json:"name"`
	Active bool   `gorm:"index" json:"active"`
	Phone  string `gorm:"size:30" json:"phone"`
	Email  string `gorm:"size:255" json:"email"`

	// AvatarPath is the object key in the image store; AvatarURL is its public address.
	AvatarPath string `gorm:"size:255" json:"-"`
	AvatarURL  string `gorm:"size:512" json:"avatar_url"`

	EarningsType  string  `gorm:"size:20;default:'PERCENTAGE'" json:"earnings_type"`
	EarningsValue float64 `gorm:"type:decimal(10,2)" json:"earnings_value"`

	UserID *uint `gorm:"uniqueIndex" json:"user_id"`

	Schedules []BarberSchedule `gorm:"constraint:OnDelete:CASCADE;" json:"schedules,omitempty"`
	TimeOff   []BarberTimeOff  `gorm:"constraint:OnDelete:CASCADE;" json:"time_off,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BarberSchedule is one weekday of a barber's working week.
type BarberSchedule struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BarberID uint `gorm:"uniqueIndex:idx_barber_weekday" json:"barber_id"`

	Weekday int `gorm:"uniqueIndex:idx_barber_weekday" json:"weekday"`

	StartTime  string `gorm:"size:5" json:"start_time"`
	EndTime    string `gorm:"size:5" json:"end_time"`
	BreakStart string `gorm:"size:5" json:"break_start"`
	BreakEnd   string `gorm:"size:5" json:"break_end"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BarberTimeOff struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BarberID uint `gorm:"index" json:"barber_id"`

	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Reason   string    `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (BarberTimeOff) TableName() string {
	return "barber_time_off"
}
