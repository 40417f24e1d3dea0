package models

import "time"

// Guess records one player's pick for one round of a session. The compound
// unique index is the first-guess-wins guarantee: a second insert for the
// same (session, round, player) fails at the database, never silently
// overwrites.
type Guess struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	SessionID     uint      `gorm:"not null;uniqueIndex:idx_guess_unique" json:"session_id"`
	RoundID       uint      `gorm:"not null;uniqueIndex:idx_guess_unique" json:"round_id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_guess_unique" json:"user_id"`
	SelectedIndex int       `gorm:"not null" json:"selected_index"`
	IsCorrect     bool      `gorm:"not null" json:"is_correct"`
	Points        int       `gorm:"not null;default:0" json:"points"`
	GuessedAt     time.Time `json:"guessed_at"`
}
