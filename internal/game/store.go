package game

import (
	"github.com/vishal1145/one-cap-game-sub001/internal/models"
)

// CatalogRound is one entry of a session's round catalog: the round content
// plus its position within the session. Statements are ordered by OrderNum.
type CatalogRound struct {
	RoundID    uint
	Order      int
	Statements []models.Statement
}

// CapIndex returns the position of the round's cap statement. Content
// validation guarantees exactly one statement carries the flag.
func (r *CatalogRound) CapIndex() int {
	for i, st := range r.Statements {
		if st.IsCap {
			return i
		}
	}
	return -1
}

// StatementViews shapes the round for broadcast, stripping the cap flag.
func (r *CatalogRound) StatementViews() []StatementView {
	views := make([]StatementView, len(r.Statements))
	for i, st := range r.Statements {
		views[i] = StatementView{OrderNum: st.OrderNum, Text: st.Text}
	}
	return views
}

// Store is the coordinator's persistence collaborator. Implementations must
// return the package sentinel errors where named: LoadSession reports
// ErrSessionNotFound, RecordGuess reports ErrDuplicateGuess when a guess for
// the same (session, round, player) already exists, and any I/O failure wraps
// ErrStorageUnavailable.
type Store interface {
	LoadSession(sessionID uint) (*models.GameSession, error)
	SaveSession(session *models.GameSession) error

	// LoadRounds returns the session's catalog ordered by position.
	LoadRounds(sessionID uint) ([]CatalogRound, error)

	// AddPlayer is idempotent: re-joining returns the existing participant
	// with created=false and must not reset the score.
	AddPlayer(sessionID, playerID uint, handle string) (p *models.Participant, created bool, err error)
	ListPlayers(sessionID uint) ([]models.Participant, error)

	// RecordGuess commits the guess all-or-nothing; uniqueness is enforced by
	// the storage layer, not by a read-then-write.
	RecordGuess(guess *models.Guess) error

	// IncrementScore adds points atomically (never read-modify-write).
	IncrementScore(sessionID, playerID uint, points int) error

	GuessCounts(sessionID, roundID uint) (total, correct int, err error)

	// Leaderboard is sorted by score descending, ties broken by earliest join.
	Leaderboard(sessionID uint) ([]LeaderboardEntry, error)
}

// Broadcaster fans an event out to every client subscribed to a session.
// Delivery is best effort; the coordinator never rolls back on publish
// failure.
type Broadcaster interface {
	Publish(sessionID uint, event Event) error
}
