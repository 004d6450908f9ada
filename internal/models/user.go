package models

import "time"

const (
	RoleAdmin  = "ADMIN"
	RoleBarber = "BARBER"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:20;default:'ADMIN'" json:"role"`

	// TokenVersion is embedded in issued tokens; bumping it revokes them all.
	TokenVersion int `gorm:"default:0" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
