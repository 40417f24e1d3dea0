package handlers

import (
	"net/http"

	"github.com/vishal1145/one-cap-game-sub001/internal/game"
	"github.com/vishal1145/one-cap-game-sub001/internal/services"

	"github.com/gin-gonic/gin"
)

// PlayHandler is the player-facing surface: joining by code, guessing, and
// reading state. Identity comes from PlayerAuth (JWT or guest play token).
type PlayHandler struct {
	contentService *services.ContentService
	authService    *services.AuthService
	coordinator    *game.Coordinator
}

func NewPlayHandler(contentService *services.ContentService, authService *services.AuthService, coordinator *game.Coordinator) *PlayHandler {
	return &PlayHandler{contentService: contentService, authService: authService, coordinator: coordinator}
}

type GuestRequest struct {
	Handle string `json:"handle" binding:"required,min=1,max=100" example:"nocap_nina"`
}

type GuestResponse struct {
	PlayerID  uint   `json:"player_id"`
	PlayToken string `json:"play_token"`
}

type PlayJoinRequest struct {
	Code   string `json:"code" binding:"required" example:"483920"`
	Handle string `json:"handle" binding:"max=100" example:"nocap_nina"`
}

type PlayGuessRequest struct {
	SessionID     uint `json:"session_id" binding:"required"`
	RoundID       uint `json:"round_id" binding:"required"`
	SelectedIndex *int `json:"selected_index" binding:"required"`
}

// Guest godoc
// @Summary      Create a guest identity
// @Description  Issues a play token for joining sessions without an account
// @Tags         play
// @Accept       json
// @Produce      json
// @Param        request body GuestRequest true "Display handle"
// @Success      201 {object} GuestResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/play/guest [post]
func (h *PlayHandler) Guest(c *gin.Context) {
	var req GuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	user, token, err := h.authService.CreateGuest(req.Handle)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, GuestResponse{PlayerID: user.ID, PlayToken: token})
}

// Join godoc
// @Summary      Join a session
// @Description  Join by code; re-joining is idempotent and returns current membership
// @Tags         play
// @Accept       json
// @Produce      json
// @Param        request body PlayJoinRequest true "Join data"
// @Success      200 {object} map[string]interface{}
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/play/join [post]
func (h *PlayHandler) Join(c *gin.Context) {
	playerID := c.GetUint("user_id")

	var req PlayJoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, err := h.contentService.GetSessionByCode(req.Code)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	handle := req.Handle
	if handle == "" {
		handle = c.GetString("handle")
	}
	if handle == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "handle required"})
		return
	}

	players, err := h.coordinator.Join(session.ID, playerID, handle)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	state, _ := h.contentService.GetSessionState(session.ID)
	c.JSON(http.StatusOK, gin.H{
		"session": state,
		"players": players,
	})
}

// Guess godoc
// @Summary      Submit a guess
// @Description  One guess per player per round; the result is returned to the caller only
// @Tags         play
// @Accept       json
// @Produce      json
// @Param        request body PlayGuessRequest true "Guess data"
// @Success      200 {object} game.GuessResult
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/play/guess [post]
func (h *PlayHandler) Guess(c *gin.Context) {
	playerID := c.GetUint("user_id")

	var req PlayGuessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.coordinator.SubmitGuess(req.SessionID, playerID, req.RoundID, *req.SelectedIndex)
	if err != nil {
		c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetState godoc
// @Summary      Get session state by code
// @Tags         play
// @Produce      json
// @Param        code query string true "Session code"
// @Success      200 {object} services.SessionState
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/play/state [get]
func (h *PlayHandler) GetState(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "code required"})
		return
	}

	session, err := h.contentService.GetSessionByCode(code)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	state, err := h.contentService.GetSessionState(session.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, state)
}
