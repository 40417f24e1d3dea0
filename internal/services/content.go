package services

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/vishal1145/one-cap-game-sub001/internal/models"

	"gorm.io/gorm"
)

const (
	MinStatementsPerRound = 3
	MaxStatementsPerRound = 10
)

// ContentService owns the CRUD side of the game: authoring rounds and
// assembling sessions. Live play goes through game.Coordinator, never here.
type ContentService struct {
	db *gorm.DB
}

func NewContentService(db *gorm.DB) *ContentService {
	return &ContentService{db: db}
}

type StatementInput struct {
	Text  string `json:"text" binding:"required,min=1,max=500"`
	IsCap bool   `json:"is_cap"`
}

// ValidateStatements enforces the round content invariant: 3 to 10
// statements with exactly one cap among them.
func ValidateStatements(statements []StatementInput) error {
	if len(statements) < MinStatementsPerRound || len(statements) > MaxStatementsPerRound {
		return fmt.Errorf("round must have between %d and %d statements", MinStatementsPerRound, MaxStatementsPerRound)
	}
	capCount := 0
	for _, st := range statements {
		if st.IsCap {
			capCount++
		}
	}
	if capCount != 1 {
		return errors.New("exactly one statement must be marked as the cap")
	}
	return nil
}

func (s *ContentService) CreateRound(ownerID uint, title string, statements []StatementInput) (*models.Round, error) {
	if err := ValidateStatements(statements); err != nil {
		return nil, err
	}

	round := models.Round{
		OwnerID: ownerID,
		Title:   title,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&round).Error; err != nil {
			return err
		}
		for i, st := range statements {
			statement := models.Statement{
				RoundID:  round.ID,
				OrderNum: i,
				Text:     st.Text,
				IsCap:    st.IsCap,
			}
			if err := tx.Create(&statement).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Statements", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_num ASC")
	}).First(&round, round.ID)
	return &round, nil
}

func (s *ContentService) ListRounds(ownerID uint) ([]models.Round, error) {
	var rounds []models.Round
	if err := s.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Preload("Statements", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		Find(&rounds).Error; err != nil {
		return nil, err
	}
	return rounds, nil
}

func (s *ContentService) GetRound(roundID, ownerID uint) (*models.Round, error) {
	var round models.Round
	if err := s.db.Where("id = ? AND owner_id = ?", roundID, ownerID).
		Preload("Statements", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		First(&round).Error; err != nil {
		return nil, errors.New("round not found")
	}
	return &round, nil
}

// CreateSession builds a draft session and attaches the given rounds by
// reference, in order. All rounds must belong to the owner.
func (s *ContentService) CreateSession(ownerID uint, maxPlayers int, roundIDs []uint) (*models.GameSession, error) {
	if len(roundIDs) == 0 {
		return nil, errors.New("session must have at least one round")
	}
	if maxPlayers <= 0 {
		maxPlayers = 16
	}

	for _, roundID := range roundIDs {
		var round models.Round
		if err := s.db.Where("id = ? AND owner_id = ?", roundID, ownerID).First(&round).Error; err != nil {
			return nil, fmt.Errorf("round %d not found", roundID)
		}
	}

	session := models.GameSession{
		OwnerID:    ownerID,
		Code:       s.generateUniqueCode(),
		Status:     models.SessionStatusDraft,
		MaxPlayers: maxPlayers,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&session).Error; err != nil {
			return err
		}
		for i, roundID := range roundIDs {
			link := models.SessionRound{
				SessionID: session.ID,
				RoundID:   roundID,
				OrderNum:  i,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &session, nil
}

func (s *ContentService) GetSessionByCode(code string) (*models.GameSession, error) {
	var session models.GameSession
	if err := s.db.Where("code = ? AND status != ?", code, models.SessionStatusEnded).
		First(&session).Error; err != nil {
		return nil, errors.New("session not found or already ended")
	}
	return &session, nil
}

type SessionState struct {
	models.GameSession
	TotalRounds      int            `json:"total_rounds"`
	CurrentRoundData *RoundResponse `json:"current_round_data,omitempty"`
	GuessCount       int            `json:"guess_count"`
}

type RoundResponse struct {
	ID         uint                `json:"id"`
	Order      int                 `json:"order"`
	Title      string              `json:"title"`
	Statements []StatementResponse `json:"statements"`
}

type StatementResponse struct {
	OrderNum int    `json:"order_num"`
	Text     string `json:"text"`
	IsCap    *bool  `json:"is_cap,omitempty"`
}

// GetSessionState assembles the full view of a session. The cap flag on the
// current round's statements is only included once results are shown or the
// session has ended.
func (s *ContentService) GetSessionState(sessionID uint) (*SessionState, error) {
	var session models.GameSession
	if err := s.db.Preload("Participants", func(db *gorm.DB) *gorm.DB {
		return db.Order("score DESC, joined_at ASC")
	}).First(&session, sessionID).Error; err != nil {
		return nil, errors.New("session not found")
	}

	var links []models.SessionRound
	s.db.Where("session_id = ?", sessionID).Order("order_num ASC").Find(&links)

	state := &SessionState{
		GameSession: session,
		TotalRounds: len(links),
	}

	if session.CurrentRound != nil && *session.CurrentRound < len(links) {
		link := links[*session.CurrentRound]

		var round models.Round
		if err := s.db.Preload("Statements", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).First(&round, link.RoundID).Error; err != nil {
			return nil, errors.New("round not found")
		}

		rr := RoundResponse{
			ID:    round.ID,
			Order: link.OrderNum,
			Title: round.Title,
		}
		revealed := session.Status == models.SessionStatusResultsShown ||
			session.Status == models.SessionStatusEnded
		for _, st := range round.Statements {
			resp := StatementResponse{OrderNum: st.OrderNum, Text: st.Text}
			if revealed {
				isCap := st.IsCap
				resp.IsCap = &isCap
			}
			rr.Statements = append(rr.Statements, resp)
		}
		state.CurrentRoundData = &rr

		var guessCount int64
		s.db.Model(&models.Guess{}).
			Where("session_id = ? AND round_id = ?", sessionID, round.ID).
			Count(&guessCount)
		state.GuessCount = int(guessCount)
	}

	return state, nil
}

type SessionSummary struct {
	ID          uint      `json:"id"`
	Code        string    `json:"code"`
	Status      string    `json:"status"`
	TotalRounds int       `json:"total_rounds"`
	PlayerCount int       `json:"player_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *ContentService) ListSessions(ownerID uint) ([]SessionSummary, error) {
	var sessions []models.GameSession
	if err := s.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}

	result := make([]SessionSummary, len(sessions))
	for i, sess := range sessions {
		var playerCount, roundCount int64
		s.db.Model(&models.Participant{}).Where("session_id = ?", sess.ID).Count(&playerCount)
		s.db.Model(&models.SessionRound{}).Where("session_id = ?", sess.ID).Count(&roundCount)

		result[i] = SessionSummary{
			ID:          sess.ID,
			Code:        sess.Code,
			Status:      sess.Status,
			TotalRounds: int(roundCount),
			PlayerCount: int(playerCount),
			CreatedAt:   sess.CreatedAt,
		}
	}
	return result, nil
}

func (s *ContentService) generateUniqueCode() string {
	for {
		code := fmt.Sprintf("%06d", rand.Intn(1000000))
		var count int64
		s.db.Model(&models.GameSession{}).
			Where("code = ? AND status != ?", code, models.SessionStatusEnded).
			Count(&count)
		if count == 0 {
			return code
		}
	}
}
