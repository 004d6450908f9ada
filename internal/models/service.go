package models

import "time"

type Service struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Title           string  `gorm:"size:255;not null" json:"title"`
	Description     string  `gorm:"size:1000" json:"description"`
	DurationMinutes int     `gorm:"not null" json:"duration_minutes"`
	Price           float64 `gorm:"type:decimal(10,2)" json:"price"`
	Active          bool    `gorm:"index" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
