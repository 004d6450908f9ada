package models

import "time"

type GalleryItem struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Title     string `gorm:"size:255" json:"title"`
	ImagePath string `gorm:"size:255;not null" json:"-"`
	ImageURL  string `gorm:"size:512" json:"image_url"`
	Active    bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
