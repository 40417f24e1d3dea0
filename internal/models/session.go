package models

import "time"

type GameSession struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	OwnerID      uint          `gorm:"not null;index" json:"owner_id"`
	Owner        User          `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Code         string        `gorm:"size:6;index" json:"code"`
	Status       string        `gorm:"size:20;not null;default:'draft'" json:"status"`
	CurrentRound *int          `json:"current_round,omitempty"`
	GuessingOpen bool          `gorm:"not null;default:false" json:"guessing_open"`
	MaxPlayers   int           `gorm:"not null;default:16" json:"max_players"`
	Participants []Participant `gorm:"foreignKey:SessionID" json:"participants,omitempty"`
	StartedAt    *time.Time    `json:"started_at,omitempty"`
	EndedAt      *time.Time    `json:"ended_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

const (
	SessionStatusDraft        = "draft"
	SessionStatusRoundActive  = "round_active"
	SessionStatusRoundClosed  = "round_closed"
	SessionStatusResultsShown = "results_shown"
	SessionStatusEnded        = "ended"
)
