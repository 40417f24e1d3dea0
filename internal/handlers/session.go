package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/vishal1145/one-cap-game-sub001/internal/game"
	"github.com/vishal1145/one-cap-game-sub001/internal/services"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes session CRUD plus the owner-only control operations
// of the live coordinator.
type SessionHandler struct {
	contentService *services.ContentService
	coordinator    *game.Coordinator
}

func NewSessionHandler(contentService *services.ContentService, coordinator *game.Coordinator) *SessionHandler {
	return &SessionHandler{contentService: contentService, coordinator: coordinator}
}

type CreateSessionRequest struct {
	RoundIDs   []uint `json:"round_ids" binding:"required" example:"1,2,3"`
	MaxPlayers int    `json:"max_players" example:"16"`
}

type StartRoundRequest struct {
	Order int `json:"order" example:"0"`
}

type RevealRequest struct {
	RoundID uint `json:"round_id" binding:"required" example:"1"`
}

// CreateSession godoc
// @Summary      Create a session
// @Description  Create a draft session and attach existing rounds in order
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateSessionRequest true "Session data"
// @Success      201 {object} GameSession
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	ownerID := c.GetUint("user_id")

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, err := h.contentService.CreateSession(ownerID, req.MaxPlayers, req.RoundIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, session)
}

// ListSessions godoc
// @Summary      List own sessions
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} services.SessionSummary
// @Router       /api/v1/sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	ownerID := c.GetUint("user_id")

	sessions, err := h.contentService.ListSessions(ownerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// GetSession godoc
// @Summary      Get session state
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} services.SessionState
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	state, err := h.contentService.GetSessionState(sessionID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, state)
}

// StartRound godoc
// @Summary      Start a round
// @Description  Open the guessing window for the round at the given position
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Param        request body StartRoundRequest true "Round position"
// @Success      200 {object} services.SessionState
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/start [post]
func (h *SessionHandler) StartRound(c *gin.Context) {
	ownerID := c.GetUint("user_id")
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req StartRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if _, err := h.coordinator.StartRound(sessionID, ownerID, req.Order); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	state, _ := h.contentService.GetSessionState(sessionID)
	c.JSON(http.StatusOK, state)
}

// CloseGuessing godoc
// @Summary      Close the guessing window
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} MessageResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/close [post]
func (h *SessionHandler) CloseGuessing(c *gin.Context) {
	ownerID := c.GetUint("user_id")
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	if err := h.coordinator.CloseGuessing(sessionID, ownerID); err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "guessing closed"})
}

// RevealResults godoc
// @Summary      Reveal round results
// @Description  Publish the cap, round stats and the leaderboard
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Param        request body RevealRequest true "Round to reveal"
// @Success      200 {object} game.ChallengeResult
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/reveal [post]
func (h *SessionHandler) RevealResults(c *gin.Context) {
	ownerID := c.GetUint("user_id")
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var req RevealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.coordinator.RevealResults(sessionID, ownerID, req.RoundID)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// NextRound godoc
// @Summary      Peek at the next round
// @Description  Returns the next round without opening guessing, or no_more_rounds when the catalog is exhausted
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} map[string]interface{}
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/next [post]
func (h *SessionHandler) NextRound(c *gin.Context) {
	ownerID := c.GetUint("user_id")
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	next, err := h.coordinator.NextRound(sessionID, ownerID)
	if err != nil {
		if errors.Is(err, game.ErrNoMoreRounds) {
			c.JSON(http.StatusOK, gin.H{"no_more_rounds": true})
			return
		}
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"no_more_rounds": false,
		"round_id":       next.RoundID,
		"order":          next.Order,
	})
}

// EndSession godoc
// @Summary      End a session
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} game.GameEnded
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/end [post]
func (h *SessionHandler) EndSession(c *gin.Context) {
	ownerID := c.GetUint("user_id")
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	ended, err := h.coordinator.EndSession(sessionID, ownerID)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, ended)
}

// GetLeaderboard godoc
// @Summary      Get leaderboard
// @Description  Standings sorted by score, ties broken by earliest join
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {array} game.LeaderboardEntry
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/leaderboard [get]
func (h *SessionHandler) GetLeaderboard(c *gin.Context) {
	sessionID, ok := sessionIDParam(c)
	if !ok {
		return
	}

	entries, err := h.coordinator.Leaderboard(sessionID)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}

func sessionIDParam(c *gin.Context) (uint, bool) {
	sessionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid session id"})
		return 0, false
	}
	return uint(sessionID), true
}
