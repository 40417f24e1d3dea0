package handlers

import (
	"errors"
	"net/http"

	"github.com/vishal1145/one-cap-game-sub001/internal/game"
	"github.com/vishal1145/one-cap-game-sub001/internal/models"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// Type aliases so swag can resolve models in annotations.
type Round = models.Round
type GameSession = models.GameSession
type Participant = models.Participant

// statusFor maps coordinator rejections onto HTTP statuses. Anything outside
// the taxonomy is a plain bad request.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrSessionNotFound), errors.Is(err, game.ErrRoundNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrUnauthorized), errors.Is(err, game.ErrNotAMember):
		return http.StatusForbidden
	case errors.Is(err, game.ErrInvalidTransition),
		errors.Is(err, game.ErrGuessWindowClosed),
		errors.Is(err, game.ErrDuplicateGuess),
		errors.Is(err, game.ErrSessionEnded),
		errors.Is(err, game.ErrSessionFull):
		return http.StatusConflict
	case errors.Is(err, game.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}
