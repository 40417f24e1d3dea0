package handlers

import (
	"net/http"
	"strconv"

	"github.com/vishal1145/one-cap-game-sub001/internal/services"

	"github.com/gin-gonic/gin"
)

type RoundHandler struct {
	contentService *services.ContentService
}

func NewRoundHandler(contentService *services.ContentService) *RoundHandler {
	return &RoundHandler{contentService: contentService}
}

type CreateRoundRequest struct {
	Title      string                    `json:"title" binding:"max=255"`
	Statements []services.StatementInput `json:"statements" binding:"required"`
}

// CreateRound godoc
// @Summary      Create a round
// @Description  Author a set of 3-10 statements with exactly one marked as the cap
// @Tags         rounds
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateRoundRequest true "Round content"
// @Success      201 {object} Round
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/rounds [post]
func (h *RoundHandler) CreateRound(c *gin.Context) {
	ownerID := c.GetUint("user_id")

	var req CreateRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	round, err := h.contentService.CreateRound(ownerID, req.Title, req.Statements)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, round)
}

// ListRounds godoc
// @Summary      List own rounds
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Round
// @Router       /api/v1/rounds [get]
func (h *RoundHandler) ListRounds(c *gin.Context) {
	ownerID := c.GetUint("user_id")

	rounds, err := h.contentService.ListRounds(ownerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, rounds)
}

// GetRound godoc
// @Summary      Get one round
// @Tags         rounds
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Round ID"
// @Success      200 {object} Round
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/rounds/{id} [get]
func (h *RoundHandler) GetRound(c *gin.Context) {
	ownerID := c.GetUint("user_id")
	roundID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid round id"})
		return
	}

	round, err := h.contentService.GetRound(uint(roundID), ownerID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, round)
}
