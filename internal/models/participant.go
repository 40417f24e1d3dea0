package models

import "time"

type Participant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID uint      `gorm:"not null;uniqueIndex:idx_participant_unique" json:"session_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_participant_unique" json:"user_id"`
	Handle    string    `gorm:"size:100;not null" json:"handle"`
	Score     int       `gorm:"not null;default:0" json:"score"`
	JoinedAt  time.Time `json:"joined_at"`
}
