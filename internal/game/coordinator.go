package game

import (
	"fmt"
	"log"
	"time"

	"github.com/vishal1145/one-cap-game-sub001/internal/models"
)

// PointsPerCorrectGuess is awarded for spotting the cap; wrong guesses score
// zero.
const PointsPerCorrectGuess = 10

// Coordinator drives one session's state machine:
//
//	draft -> round_active(i) -> round_closed(i) -> results_shown(i)
//	results_shown(i) -> round_active(i+1), or ended when no round remains
//	any state -> ended (owner)
//
// Every transition is a load-check-save against the Store, so the coordinator
// holds no session state of its own. Broadcasts happen strictly after the
// mutation is committed; a failed operation never emits an event.
type Coordinator struct {
	store Store
	bus   Broadcaster
}

func NewCoordinator(store Store, bus Broadcaster) *Coordinator {
	return &Coordinator{store: store, bus: bus}
}

type GuessResult struct {
	IsCorrect bool `json:"is_correct"`
	Points    int  `json:"points"`
}

// Join adds a player to a session's membership. Allowed in any non-ended
// state; re-joining is a no-op that returns the current membership without
// broadcasting again.
func (c *Coordinator) Join(sessionID, playerID uint, handle string) ([]PlayerInfo, error) {
	session, err := c.store.LoadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionStatusEnded {
		return nil, ErrSessionEnded
	}

	players, err := c.store.ListPlayers(sessionID)
	if err != nil {
		return nil, err
	}
	if !isMember(players, playerID) && len(players) >= session.MaxPlayers {
		return nil, ErrSessionFull
	}

	_, created, err := c.store.AddPlayer(sessionID, playerID, handle)
	if err != nil {
		return nil, err
	}
	if created {
		players, err = c.store.ListPlayers(sessionID)
		if err != nil {
			return nil, err
		}
	}

	infos := playerInfos(players)
	if created {
		c.publish(sessionID, PlayerJoined{Players: infos})
	}
	return infos, nil
}

// StartRound opens the guessing window for the round at the given catalog
// position. Owner only; valid from draft or results_shown.
func (c *Coordinator) StartRound(sessionID, requesterID uint, roundOrder int) (*CatalogRound, error) {
	session, err := c.ownedSession(sessionID, requesterID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusDraft && session.Status != models.SessionStatusResultsShown {
		return nil, ErrInvalidTransition
	}

	rounds, err := c.store.LoadRounds(sessionID)
	if err != nil {
		return nil, err
	}
	round := roundByOrder(rounds, roundOrder)
	if round == nil {
		return nil, ErrRoundNotFound
	}

	now := time.Now()
	session.Status = models.SessionStatusRoundActive
	session.CurrentRound = &roundOrder
	session.GuessingOpen = true
	if session.StartedAt == nil {
		session.StartedAt = &now
	}
	if err := c.store.SaveSession(session); err != nil {
		return nil, err
	}

	c.publish(sessionID, ChallengeStarted{
		RoundID:    round.RoundID,
		Order:      round.Order,
		Statements: round.StatementViews(),
	})
	return round, nil
}

// SubmitGuess records one player's pick for the current round. The result
// goes back to the caller only; other players learn nothing until the
// reveal.
func (c *Coordinator) SubmitGuess(sessionID, playerID, roundID uint, selectedIndex int) (*GuessResult, error) {
	session, err := c.store.LoadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionStatusEnded {
		return nil, ErrSessionEnded
	}

	rounds, err := c.store.LoadRounds(sessionID)
	if err != nil {
		return nil, err
	}
	round := roundByID(rounds, roundID)
	if round == nil {
		return nil, ErrRoundNotFound
	}
	if session.Status != models.SessionStatusRoundActive || !session.GuessingOpen ||
		session.CurrentRound == nil || *session.CurrentRound != round.Order {
		return nil, ErrGuessWindowClosed
	}
	if selectedIndex < 0 || selectedIndex >= len(round.Statements) {
		return nil, fmt.Errorf("statement index %d out of range", selectedIndex)
	}

	players, err := c.store.ListPlayers(sessionID)
	if err != nil {
		return nil, err
	}
	if !isMember(players, playerID) {
		return nil, ErrNotAMember
	}

	isCorrect := selectedIndex == round.CapIndex()
	points := 0
	if isCorrect {
		points = PointsPerCorrectGuess
	}

	// The unique index on (session, round, player) decides the race between
	// concurrent submissions; only the committed one scores.
	err = c.store.RecordGuess(&models.Guess{
		SessionID:     sessionID,
		RoundID:       roundID,
		UserID:        playerID,
		SelectedIndex: selectedIndex,
		IsCorrect:     isCorrect,
		Points:        points,
		GuessedAt:     time.Now(),
	})
	if err != nil {
		return nil, err
	}
	if points > 0 {
		if err := c.store.IncrementScore(sessionID, playerID, points); err != nil {
			return nil, err
		}
	}

	return &GuessResult{IsCorrect: isCorrect, Points: points}, nil
}

// CloseGuessing shuts the window for the active round. Owner only.
func (c *Coordinator) CloseGuessing(sessionID, requesterID uint) error {
	session, err := c.ownedSession(sessionID, requesterID)
	if err != nil {
		return err
	}
	if session.Status != models.SessionStatusRoundActive {
		return ErrInvalidTransition
	}

	session.Status = models.SessionStatusRoundClosed
	session.GuessingOpen = false
	if err := c.store.SaveSession(session); err != nil {
		return err
	}

	c.publish(sessionID, GuessClosed{})
	return nil
}

// RevealResults publishes the cap, round stats and the leaderboard. Owner
// only; requires the round to be closed and roundID to match the current
// round, so a stale reveal after the session moved on is rejected.
func (c *Coordinator) RevealResults(sessionID, requesterID, roundID uint) (*ChallengeResult, error) {
	session, err := c.ownedSession(sessionID, requesterID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusRoundClosed {
		return nil, ErrInvalidTransition
	}

	rounds, err := c.store.LoadRounds(sessionID)
	if err != nil {
		return nil, err
	}
	round := roundByID(rounds, roundID)
	if round == nil || session.CurrentRound == nil || *session.CurrentRound != round.Order {
		return nil, ErrRoundNotFound
	}

	total, correct, err := c.store.GuessCounts(sessionID, roundID)
	if err != nil {
		return nil, err
	}
	leaderboard, err := c.store.Leaderboard(sessionID)
	if err != nil {
		return nil, err
	}

	session.Status = models.SessionStatusResultsShown
	if err := c.store.SaveSession(session); err != nil {
		return nil, err
	}

	result := &ChallengeResult{
		RoundID:     roundID,
		CapIndex:    round.CapIndex(),
		Leaderboard: leaderboard,
		Stats:       RoundStats{TotalGuesses: total, CorrectGuesses: correct},
	}
	c.publish(sessionID, *result)
	return result, nil
}

// NextRound peeks at the round after the current one. It does not open
// guessing; the owner starts the returned round explicitly. ErrNoMoreRounds
// means the owner should end the session.
func (c *Coordinator) NextRound(sessionID, requesterID uint) (*CatalogRound, error) {
	session, err := c.ownedSession(sessionID, requesterID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusResultsShown || session.CurrentRound == nil {
		return nil, ErrInvalidTransition
	}

	rounds, err := c.store.LoadRounds(sessionID)
	if err != nil {
		return nil, err
	}
	next := roundByOrder(rounds, *session.CurrentRound+1)
	if next == nil {
		return nil, ErrNoMoreRounds
	}
	return next, nil
}

// EndSession moves the session to its terminal state and publishes the final
// leaderboard. Owner only; valid from any non-ended state. The current round
// pointer is left frozen where it was.
func (c *Coordinator) EndSession(sessionID, requesterID uint) (*GameEnded, error) {
	session, err := c.ownedSession(sessionID, requesterID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session.Status = models.SessionStatusEnded
	session.GuessingOpen = false
	session.EndedAt = &now
	if err := c.store.SaveSession(session); err != nil {
		return nil, err
	}

	leaderboard, err := c.store.Leaderboard(sessionID)
	if err != nil {
		return nil, err
	}

	ended := &GameEnded{FinalLeaderboard: leaderboard}
	c.publish(sessionID, *ended)
	return ended, nil
}

// Leaderboard reads the current standings without touching session state.
func (c *Coordinator) Leaderboard(sessionID uint) ([]LeaderboardEntry, error) {
	if _, err := c.store.LoadSession(sessionID); err != nil {
		return nil, err
	}
	return c.store.Leaderboard(sessionID)
}

// NotifyDisconnect tells remaining members a player's connection dropped.
// Membership and score are unaffected; the player can reconnect and keep
// playing.
func (c *Coordinator) NotifyDisconnect(sessionID, playerID uint) {
	c.publish(sessionID, PlayerDisconnected{PlayerID: playerID})
}

func (c *Coordinator) ownedSession(sessionID, requesterID uint) (*models.GameSession, error) {
	session, err := c.store.LoadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionStatusEnded {
		return nil, ErrSessionEnded
	}
	if session.OwnerID != requesterID {
		return nil, ErrUnauthorized
	}
	return session, nil
}

func (c *Coordinator) publish(sessionID uint, event Event) {
	if err := c.bus.Publish(sessionID, event); err != nil {
		log.Printf("game: broadcast %s to session %d failed: %v", event.Name(), sessionID, err)
	}
}

func roundByOrder(rounds []CatalogRound, order int) *CatalogRound {
	for i := range rounds {
		if rounds[i].Order == order {
			return &rounds[i]
		}
	}
	return nil
}

func roundByID(rounds []CatalogRound, roundID uint) *CatalogRound {
	for i := range rounds {
		if rounds[i].RoundID == roundID {
			return &rounds[i]
		}
	}
	return nil
}

func isMember(players []models.Participant, playerID uint) bool {
	for _, p := range players {
		if p.UserID == playerID {
			return true
		}
	}
	return false
}

func playerInfos(players []models.Participant) []PlayerInfo {
	infos := make([]PlayerInfo, len(players))
	for i, p := range players {
		infos[i] = PlayerInfo{PlayerID: p.UserID, Handle: p.Handle, JoinedAt: p.JoinedAt}
	}
	return infos
}
