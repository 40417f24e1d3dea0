package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	IsGuest      bool      `gorm:"not null;default:false" json:"is_guest"`
	PlayToken    string    `gorm:"size:64;index" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
