package game

import "time"

// Event is a client-visible session notification. One concrete type per wire
// event name, so the set of payload shapes a client can receive is closed.
type Event interface {
	Name() string
}

type PlayerInfo struct {
	PlayerID uint      `json:"player_id"`
	Handle   string    `json:"handle"`
	JoinedAt time.Time `json:"joined_at"`
}

// StatementView is a statement as players see it while guessing: no cap flag.
type StatementView struct {
	OrderNum int    `json:"order_num"`
	Text     string `json:"text"`
}

type LeaderboardEntry struct {
	Position int       `json:"position"`
	PlayerID uint      `json:"player_id"`
	Handle   string    `json:"handle"`
	Score    int       `json:"score"`
	JoinedAt time.Time `json:"-"`
}

type RoundStats struct {
	TotalGuesses   int `json:"total_guesses"`
	CorrectGuesses int `json:"correct_guesses"`
}

type PlayerJoined struct {
	Players []PlayerInfo `json:"players"`
}

func (PlayerJoined) Name() string { return "player_joined" }

type ChallengeStarted struct {
	RoundID    uint            `json:"round_id"`
	Order      int             `json:"order"`
	Statements []StatementView `json:"statements"`
}

func (ChallengeStarted) Name() string { return "challenge_started" }

type GuessClosed struct{}

func (GuessClosed) Name() string { return "guess_closed" }

type ChallengeResult struct {
	RoundID     uint               `json:"round_id"`
	CapIndex    int                `json:"cap_index"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	Stats       RoundStats         `json:"stats"`
}

func (ChallengeResult) Name() string { return "challenge_result" }

type GameEnded struct {
	FinalLeaderboard []LeaderboardEntry `json:"final_leaderboard"`
}

func (GameEnded) Name() string { return "game_ended" }

type PlayerDisconnected struct {
	PlayerID uint `json:"player_id"`
}

func (PlayerDisconnected) Name() string { return "player_disconnected" }
