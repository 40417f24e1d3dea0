package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/vishal1145/one-cap-game-sub001/internal/game"
	"github.com/vishal1145/one-cap-game-sub001/internal/models"

	"gorm.io/gorm"
)

// GormStore backs the coordinator with postgres. Guess uniqueness rides on
// the compound unique index of models.Guess; the driver's duplicate-key error
// is translated into game.ErrDuplicateGuess so callers can tell "already
// guessed" apart from a storage failure.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) LoadSession(sessionID uint) (*models.GameSession, error) {
	var session models.GameSession
	if err := s.db.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, game.ErrSessionNotFound
		}
		return nil, storageErr("load session", err)
	}
	return &session, nil
}

func (s *GormStore) SaveSession(session *models.GameSession) error {
	if err := s.db.Save(session).Error; err != nil {
		return storageErr("save session", err)
	}
	return nil
}

func (s *GormStore) LoadRounds(sessionID uint) ([]game.CatalogRound, error) {
	var links []models.SessionRound
	if err := s.db.Where("session_id = ?", sessionID).
		Order("order_num ASC").
		Find(&links).Error; err != nil {
		return nil, storageErr("load session rounds", err)
	}

	rounds := make([]game.CatalogRound, 0, len(links))
	for _, link := range links {
		var round models.Round
		if err := s.db.Preload("Statements", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).First(&round, link.RoundID).Error; err != nil {
			return nil, storageErr("load round", err)
		}
		rounds = append(rounds, game.CatalogRound{
			RoundID:    round.ID,
			Order:      link.OrderNum,
			Statements: round.Statements,
		})
	}
	return rounds, nil
}

func (s *GormStore) AddPlayer(sessionID, playerID uint, handle string) (*models.Participant, bool, error) {
	var existing models.Participant
	if err := s.db.Where("session_id = ? AND user_id = ?", sessionID, playerID).
		First(&existing).Error; err == nil {
		return &existing, false, nil
	}

	p := models.Participant{
		SessionID: sessionID,
		UserID:    playerID,
		Handle:    handle,
		Score:     0,
		JoinedAt:  time.Now(),
	}
	if err := s.db.Create(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race against a concurrent join by the same player.
			if err := s.db.Where("session_id = ? AND user_id = ?", sessionID, playerID).
				First(&existing).Error; err != nil {
				return nil, false, storageErr("reload participant", err)
			}
			return &existing, false, nil
		}
		return nil, false, storageErr("add player", err)
	}
	return &p, true, nil
}

func (s *GormStore) ListPlayers(sessionID uint) ([]models.Participant, error) {
	var players []models.Participant
	if err := s.db.Where("session_id = ?", sessionID).
		Order("joined_at ASC").
		Find(&players).Error; err != nil {
		return nil, storageErr("list players", err)
	}
	return players, nil
}

func (s *GormStore) RecordGuess(guess *models.Guess) error {
	if err := s.db.Create(guess).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return game.ErrDuplicateGuess
		}
		return storageErr("record guess", err)
	}
	return nil
}

func (s *GormStore) IncrementScore(sessionID, playerID uint, points int) error {
	err := s.db.Model(&models.Participant{}).
		Where("session_id = ? AND user_id = ?", sessionID, playerID).
		Update("score", gorm.Expr("score + ?", points)).Error
	if err != nil {
		return storageErr("increment score", err)
	}
	return nil
}

func (s *GormStore) GuessCounts(sessionID, roundID uint) (int, int, error) {
	var total, correct int64
	if err := s.db.Model(&models.Guess{}).
		Where("session_id = ? AND round_id = ?", sessionID, roundID).
		Count(&total).Error; err != nil {
		return 0, 0, storageErr("count guesses", err)
	}
	if err := s.db.Model(&models.Guess{}).
		Where("session_id = ? AND round_id = ? AND is_correct = ?", sessionID, roundID, true).
		Count(&correct).Error; err != nil {
		return 0, 0, storageErr("count correct guesses", err)
	}
	return int(total), int(correct), nil
}

func (s *GormStore) Leaderboard(sessionID uint) ([]game.LeaderboardEntry, error) {
	var players []models.Participant
	if err := s.db.Where("session_id = ?", sessionID).
		Order("score DESC, joined_at ASC").
		Find(&players).Error; err != nil {
		return nil, storageErr("load leaderboard", err)
	}

	entries := make([]game.LeaderboardEntry, len(players))
	for i, p := range players {
		entries[i] = game.LeaderboardEntry{
			Position: i + 1,
			PlayerID: p.UserID,
			Handle:   p.Handle,
			Score:    p.Score,
			JoinedAt: p.JoinedAt,
		}
	}
	return entries, nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", game.ErrStorageUnavailable, op, err)
}
