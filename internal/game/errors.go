package game

import "errors"

// Every rejection the coordinator can hand back. Callers match with
// errors.Is; the transport layer maps these to HTTP statuses. None of them
// are retried by the coordinator itself.
var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrRoundNotFound      = errors.New("round not found in this session")
	ErrUnauthorized       = errors.New("only the session owner can do that")
	ErrInvalidTransition  = errors.New("operation not allowed in current session state")
	ErrGuessWindowClosed  = errors.New("guessing window is closed")
	ErrNotAMember         = errors.New("player has not joined this session")
	ErrDuplicateGuess     = errors.New("player already guessed this round")
	ErrSessionEnded       = errors.New("session has ended")
	ErrSessionFull        = errors.New("session is full")
	ErrNoMoreRounds       = errors.New("no more rounds in this session")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
