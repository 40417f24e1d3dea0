package models

import "time"

// Round is shareable content: a set of statements where exactly one is the
// cap. Sessions attach rounds by reference, so the same round can appear in
// many sessions.
type Round struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	OwnerID    uint        `gorm:"not null;index" json:"owner_id"`
	Owner      User        `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Title      string      `gorm:"size:255" json:"title"`
	Statements []Statement `gorm:"foreignKey:RoundID" json:"statements,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

type Statement struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	RoundID  uint   `gorm:"not null;index" json:"round_id"`
	OrderNum int    `gorm:"not null" json:"order_num"`
	Text     string `gorm:"size:500;not null" json:"text"`
	IsCap    bool   `gorm:"not null;default:false" json:"is_cap"`
}

// SessionRound attaches a round to a session at an ordered position.
type SessionRound struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	SessionID uint `gorm:"not null;uniqueIndex:idx_session_round_order" json:"session_id"`
	RoundID   uint `gorm:"not null" json:"round_id"`
	OrderNum  int  `gorm:"not null;uniqueIndex:idx_session_round_order" json:"order_num"`
}
