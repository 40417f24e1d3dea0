package game

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vishal1145/one-cap-game-sub001/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store with the same contract as the gorm-backed
// one: first-guess-wins uniqueness, atomic increments, deterministic
// leaderboard ordering.
type memStore struct {
	mu      sync.Mutex
	session *models.GameSession
	rounds  []CatalogRound
	players []models.Participant
	guesses map[string]models.Guess
	joined  int
	base    time.Time
}

func newMemStore(session *models.GameSession, rounds []CatalogRound) *memStore {
	return &memStore{
		session: session,
		rounds:  rounds,
		guesses: make(map[string]models.Guess),
		base:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) LoadSession(sessionID uint) (*models.GameSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil || m.session.ID != sessionID {
		return nil, ErrSessionNotFound
	}
	cp := *m.session
	return &cp, nil
}

func (m *memStore) SaveSession(session *models.GameSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *session
	m.session = &cp
	return nil
}

func (m *memStore) LoadRounds(sessionID uint) ([]CatalogRound, error) {
	return m.rounds, nil
}

func (m *memStore) AddPlayer(sessionID, playerID uint, handle string) (*models.Participant, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.players {
		if m.players[i].UserID == playerID {
			return &m.players[i], false, nil
		}
	}
	m.joined++
	p := models.Participant{
		ID:        uint(m.joined),
		SessionID: sessionID,
		UserID:    playerID,
		Handle:    handle,
		JoinedAt:  m.base.Add(time.Duration(m.joined) * time.Second),
	}
	m.players = append(m.players, p)
	return &p, true, nil
}

func (m *memStore) ListPlayers(sessionID uint) ([]models.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Participant, len(m.players))
	copy(out, m.players)
	return out, nil
}

func (m *memStore) RecordGuess(guess *models.Guess) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := fmt.Sprintf("%d/%d/%d", guess.SessionID, guess.RoundID, guess.UserID)
	if _, exists := m.guesses[key]; exists {
		return ErrDuplicateGuess
	}
	m.guesses[key] = *guess
	return nil
}

func (m *memStore) IncrementScore(sessionID, playerID uint, points int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.players {
		if m.players[i].UserID == playerID {
			m.players[i].Score += points
			return nil
		}
	}
	return ErrNotAMember
}

func (m *memStore) GuessCounts(sessionID, roundID uint) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total, correct := 0, 0
	for _, g := range m.guesses {
		if g.SessionID == sessionID && g.RoundID == roundID {
			total++
			if g.IsCorrect {
				correct++
			}
		}
	}
	return total, correct, nil
}

func (m *memStore) Leaderboard(sessionID uint) ([]LeaderboardEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	players := make([]models.Participant, len(m.players))
	copy(players, m.players)
	sort.SliceStable(players, func(a, b int) bool {
		if players[a].Score != players[b].Score {
			return players[a].Score > players[b].Score
		}
		return players[a].JoinedAt.Before(players[b].JoinedAt)
	})
	entries := make([]LeaderboardEntry, len(players))
	for i, p := range players {
		entries[i] = LeaderboardEntry{
			Position: i + 1,
			PlayerID: p.UserID,
			Handle:   p.Handle,
			Score:    p.Score,
			JoinedAt: p.JoinedAt,
		}
	}
	return entries, nil
}

func (m *memStore) guessFor(sessionID, roundID, playerID uint) (models.Guess, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.guesses[fmt.Sprintf("%d/%d/%d", sessionID, roundID, playerID)]
	return g, ok
}

func (m *memStore) scoreSum() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := 0
	for _, p := range m.players {
		sum += p.Score
	}
	return sum
}

func (m *memStore) pointsSum() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := 0
	for _, g := range m.guesses {
		sum += g.Points
	}
	return sum
}

// recorderBus captures published events; failing makes Publish error to
// verify broadcast failures never fail an operation.
type recorderBus struct {
	mu      sync.Mutex
	events  []Event
	failing bool
}

func (b *recorderBus) Publish(sessionID uint, event Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failing {
		return fmt.Errorf("bus down")
	}
	b.events = append(b.events, event)
	return nil
}

func (b *recorderBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, len(b.events))
	for i, e := range b.events {
		names[i] = e.Name()
	}
	return names
}

func (b *recorderBus) last() Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.events) == 0 {
		return nil
	}
	return b.events[len(b.events)-1]
}

const (
	ownerID  = uint(1)
	player1  = uint(2)
	player2  = uint(3)
	sid      = uint(10)
	round1ID = uint(100)
	round2ID = uint(101)
)

func makeRound(id uint, order, capIndex int, texts ...string) CatalogRound {
	statements := make([]models.Statement, len(texts))
	for i, text := range texts {
		statements[i] = models.Statement{RoundID: id, OrderNum: i, Text: text, IsCap: i == capIndex}
	}
	return CatalogRound{RoundID: id, Order: order, Statements: statements}
}

func newFixture(t *testing.T, rounds ...CatalogRound) (*Coordinator, *memStore, *recorderBus) {
	t.Helper()
	if len(rounds) == 0 {
		rounds = []CatalogRound{makeRound(round1ID, 0, 1, "A", "B", "C")}
	}
	session := &models.GameSession{
		ID:         sid,
		OwnerID:    ownerID,
		Status:     models.SessionStatusDraft,
		MaxPlayers: 16,
	}
	store := newMemStore(session, rounds)
	bus := &recorderBus{}
	return NewCoordinator(store, bus), store, bus
}

func TestFullSessionFlow(t *testing.T) {
	coord, store, bus := newFixture(t)

	_, err := coord.Join(sid, player1, "p1")
	require.NoError(t, err)
	_, err = coord.Join(sid, player2, "p2")
	require.NoError(t, err)

	round, err := coord.StartRound(sid, ownerID, 0)
	require.NoError(t, err)
	require.Equal(t, round1ID, round.RoundID)
	require.Equal(t, "challenge_started", bus.last().Name())

	res, err := coord.SubmitGuess(sid, player1, round1ID, 1)
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
	assert.Equal(t, 10, res.Points)

	res, err = coord.SubmitGuess(sid, player2, round1ID, 0)
	require.NoError(t, err)
	assert.False(t, res.IsCorrect)
	assert.Equal(t, 0, res.Points)

	require.NoError(t, coord.CloseGuessing(sid, ownerID))
	require.Equal(t, "guess_closed", bus.last().Name())

	result, err := coord.RevealResults(sid, ownerID, round1ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CapIndex)
	assert.Equal(t, RoundStats{TotalGuesses: 2, CorrectGuesses: 1}, result.Stats)
	require.Len(t, result.Leaderboard, 2)
	assert.Equal(t, player1, result.Leaderboard[0].PlayerID)
	assert.Equal(t, 10, result.Leaderboard[0].Score)
	assert.Equal(t, player2, result.Leaderboard[1].PlayerID)
	assert.Equal(t, 0, result.Leaderboard[1].Score)

	_, err = coord.NextRound(sid, ownerID)
	require.ErrorIs(t, err, ErrNoMoreRounds)

	ended, err := coord.EndSession(sid, ownerID)
	require.NoError(t, err)
	require.Len(t, ended.FinalLeaderboard, 2)
	assert.Equal(t, player1, ended.FinalLeaderboard[0].PlayerID)
	require.Equal(t, "game_ended", bus.last().Name())

	assert.Equal(t, []string{
		"player_joined", "player_joined", "challenge_started",
		"guess_closed", "challenge_result", "game_ended",
	}, bus.names())

	assert.Equal(t, store.pointsSum(), store.scoreSum())
}

func TestJoinIsIdempotent(t *testing.T) {
	coord, store, bus := newFixture(t)

	first, err := coord.Join(sid, player1, "p1")
	require.NoError(t, err)
	second, err := coord.Join(sid, player1, "p1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	players, _ := store.ListPlayers(sid)
	assert.Len(t, players, 1)
	// Only the first join broadcasts.
	assert.Equal(t, []string{"player_joined"}, bus.names())
}

func TestJoinSessionFull(t *testing.T) {
	coord, store, _ := newFixture(t)
	store.session.MaxPlayers = 1

	_, err := coord.Join(sid, player1, "p1")
	require.NoError(t, err)
	_, err = coord.Join(sid, player2, "p2")
	require.ErrorIs(t, err, ErrSessionFull)

	// The player already in keeps rejoining freely.
	_, err = coord.Join(sid, player1, "p1")
	require.NoError(t, err)
}

func TestDuplicateGuessKeepsFirstSelection(t *testing.T) {
	coord, store, _ := newFixture(t)

	_, err := coord.Join(sid, player1, "p1")
	require.NoError(t, err)
	_, err = coord.StartRound(sid, ownerID, 0)
	require.NoError(t, err)

	res, err := coord.SubmitGuess(sid, player1, round1ID, 1)
	require.NoError(t, err)
	require.True(t, res.IsCorrect)

	_, err = coord.SubmitGuess(sid, player1, round1ID, 0)
	require.ErrorIs(t, err, ErrDuplicateGuess)

	stored, ok := store.guessFor(sid, round1ID, player1)
	require.True(t, ok)
	assert.Equal(t, 1, stored.SelectedIndex)
	assert.Equal(t, 10, store.scoreSum())
}

func TestConcurrentGuessesCommitExactlyOnce(t *testing.T) {
	coord, store, _ := newFixture(t)

	_, err := coord.Join(sid, player1, "p1")
	require.NoError(t, err)
	_, err = coord.StartRound(sid, ownerID, 0)
	require.NoError(t, err)

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = coord.SubmitGuess(sid, player1, round1ID, 1)
		}(i)
	}
	wg.Wait()

	committed, duplicates := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			committed++
		case err == ErrDuplicateGuess:
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, committed)
	assert.Equal(t, n-1, duplicates)

	// Exactly one guess scored; the score sum matches the points awarded.
	assert.Equal(t, 10, store.scoreSum())
	assert.Equal(t, store.pointsSum(), store.scoreSum())
}

func TestGuessOutsideWindow(t *testing.T) {
	coord, _, _ := newFixture(t)

	_, err := coord.Join(sid, player1, "p1")
	require.NoError(t, err)

	// Before the round starts.
	_, err = coord.SubmitGuess(sid, player1, round1ID, 1)
	require.ErrorIs(t, err, ErrGuessWindowClosed)

	_, err = coord.StartRound(sid, ownerID, 0)
	require.NoError(t, err)
	require.NoError(t, coord.CloseGuessing(sid, ownerID))

	// After the owner closed it.
	_, err = coord.SubmitGuess(sid, player1, round1ID, 1)
	require.ErrorIs(t, err, ErrGuessWindowClosed)
}

func TestGuessRequiresMembership(t *testing.T) {
	coord, _, _ := newFixture(t)

	_, err := coord.Join(sid, player1, "p1")
	require.NoError(t, err)
	_, err = coord.StartRound(sid, ownerID, 0)
	require.NoError(t, err)

	_, err = coord.SubmitGuess(sid, player2, round1ID, 1)
	require.ErrorIs(t, err, ErrNotAMember)
}

func TestUnauthorizedControlOps(t *testing.T) {
	coord, store, bus := newFixture(t)

	_, err := coord.Join(sid, player1, "p1")
	require.NoError(t, err)
	published := len(bus.names())

	_, err = coord.StartRound(sid, player1, 0)
	require.ErrorIs(t, err, ErrUnauthorized)
	require.ErrorIs(t, coord.CloseGuessing(sid, player1), ErrUnauthorized)
	_, err = coord.EndSession(sid, player1)
	require.ErrorIs(t, err, ErrUnauthorized)

	// State unchanged, nothing broadcast for the failed attempts.
	session, _ := store.LoadSession(sid)
	assert.Equal(t, models.SessionStatusDraft, session.Status)
	assert.Len(t, bus.names(), published)
}

func TestStaleCloseRejected(t *testing.T) {
	coord, _, _ := newFixture(t)

	_, err := coord.StartRound(sid, ownerID, 0)
	require.NoError(t, err)
	require.NoError(t, coord.CloseGuessing(sid, ownerID))

	// Round already closed; the repeated close must not be silently applied.
	require.ErrorIs(t, coord.CloseGuessing(sid, ownerID), ErrInvalidTransition)

	_, err = coord.RevealResults(sid, ownerID, round1ID)
	require.NoError(t, err)
	require.ErrorIs(t, coord.CloseGuessing(sid, ownerID), ErrInvalidTransition)
}

func TestEverythingFailsAfterEnd(t *testing.T) {
	coord, _, _ := newFixture(t)

	_, err := coord.Join(sid, player1, "p1")
	require.NoError(t, err)
	_, err = coord.EndSession(sid, ownerID)
	require.NoError(t, err)

	_, err = coord.Join(sid, player2, "p2")
	require.ErrorIs(t, err, ErrSessionEnded)
	_, err = coord.StartRound(sid, ownerID, 0)
	require.ErrorIs(t, err, ErrSessionEnded)
	_, err = coord.SubmitGuess(sid, player1, round1ID, 1)
	require.ErrorIs(t, err, ErrSessionEnded)
	require.ErrorIs(t, coord.CloseGuessing(sid, ownerID), ErrSessionEnded)
	_, err = coord.RevealResults(sid, ownerID, round1ID)
	require.ErrorIs(t, err, ErrSessionEnded)
	_, err = coord.NextRound(sid, ownerID)
	require.ErrorIs(t, err, ErrSessionEnded)
	_, err = coord.EndSession(sid, ownerID)
	require.ErrorIs(t, err, ErrSessionEnded)
}

func TestNextRoundAdvancesWithoutOpeningGuessing(t *testing.T) {
	coord, store, _ := newFixture(t,
		makeRound(round1ID, 0, 1, "A", "B", "C"),
		makeRound(round2ID, 1, 0, "X", "Y", "Z"),
	)

	_, err := coord.Join(sid, player1, "p1")
	require.NoError(t, err)
	_, err = coord.StartRound(sid, ownerID, 0)
	require.NoError(t, err)
	require.NoError(t, coord.CloseGuessing(sid, ownerID))
	_, err = coord.RevealResults(sid, ownerID, round1ID)
	require.NoError(t, err)

	next, err := coord.NextRound(sid, ownerID)
	require.NoError(t, err)
	assert.Equal(t, round2ID, next.RoundID)

	// NextRound only peeks; guessing for round 2 is still closed.
	session, _ := store.LoadSession(sid)
	assert.Equal(t, models.SessionStatusResultsShown, session.Status)
	_, err = coord.SubmitGuess(sid, player1, round2ID, 0)
	require.ErrorIs(t, err, ErrGuessWindowClosed)

	_, err = coord.StartRound(sid, ownerID, 1)
	require.NoError(t, err)
	res, err := coord.SubmitGuess(sid, player1, round2ID, 0)
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
}

func TestStaleRevealForWrongRound(t *testing.T) {
	coord, _, _ := newFixture(t,
		makeRound(round1ID, 0, 1, "A", "B", "C"),
		makeRound(round2ID, 1, 0, "X", "Y", "Z"),
	)

	_, err := coord.StartRound(sid, ownerID, 0)
	require.NoError(t, err)
	require.NoError(t, coord.CloseGuessing(sid, ownerID))

	_, err = coord.RevealResults(sid, ownerID, round2ID)
	require.ErrorIs(t, err, ErrRoundNotFound)
}

func TestStartUnknownRound(t *testing.T) {
	coord, _, _ := newFixture(t)

	_, err := coord.StartRound(sid, ownerID, 7)
	require.ErrorIs(t, err, ErrRoundNotFound)
}

func TestLeaderboardTieBreakIsDeterministic(t *testing.T) {
	coord, store, _ := newFixture(t)

	// player1 joins first, both end the round on equal scores.
	_, err := coord.Join(sid, player1, "p1")
	require.NoError(t, err)
	_, err = coord.Join(sid, player2, "p2")
	require.NoError(t, err)

	_, err = coord.StartRound(sid, ownerID, 0)
	require.NoError(t, err)
	_, err = coord.SubmitGuess(sid, player1, round1ID, 1)
	require.NoError(t, err)
	_, err = coord.SubmitGuess(sid, player2, round1ID, 1)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		entries, err := store.Leaderboard(sid)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, player1, entries[0].PlayerID)
		assert.Equal(t, player2, entries[1].PlayerID)
		assert.Equal(t, entries[0].Score, entries[1].Score)
	}
}

func TestChallengeStartedHidesTheCap(t *testing.T) {
	coord, _, bus := newFixture(t)

	_, err := coord.StartRound(sid, ownerID, 0)
	require.NoError(t, err)

	event := bus.last()
	require.Equal(t, "challenge_started", event.Name())

	data, err := json.Marshal(event)
	require.NoError(t, err)
	payload := string(data)
	assert.False(t, strings.Contains(payload, "is_cap"), "broadcast payload leaks the cap flag: %s", payload)
	assert.False(t, strings.Contains(payload, "cap_index"), "broadcast payload leaks the cap index: %s", payload)
}

func TestBroadcastFailureDoesNotRollBack(t *testing.T) {
	coord, store, bus := newFixture(t)
	bus.failing = true

	_, err := coord.StartRound(sid, ownerID, 0)
	require.NoError(t, err)

	session, _ := store.LoadSession(sid)
	assert.Equal(t, models.SessionStatusRoundActive, session.Status)
	assert.True(t, session.GuessingOpen)
}

func TestGuessIndexOutOfRange(t *testing.T) {
	coord, _, _ := newFixture(t)

	_, err := coord.Join(sid, player1, "p1")
	require.NoError(t, err)
	_, err = coord.StartRound(sid, ownerID, 0)
	require.NoError(t, err)

	_, err = coord.SubmitGuess(sid, player1, round1ID, 3)
	require.Error(t, err)
	_, err = coord.SubmitGuess(sid, player1, round1ID, -1)
	require.Error(t, err)

	// A rejected guess leaves the player free to submit a valid one.
	_, err = coord.SubmitGuess(sid, player1, round1ID, 2)
	require.NoError(t, err)
}
