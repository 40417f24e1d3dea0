package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/vishal1145/one-cap-game-sub001/internal/game"
	"github.com/vishal1145/one-cap-game-sub001/internal/services"
	"github.com/vishal1145/one-cap-game-sub001/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub         *ws.Hub
	authService *services.AuthService
	coordinator *game.Coordinator
}

func NewWSHandler(hub *ws.Hub, authService *services.AuthService, coordinator *game.Coordinator) *WSHandler {
	return &WSHandler{hub: hub, authService: authService, coordinator: coordinator}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket godoc
// @Summary      WebSocket feed for session events
// @Description  Subscribe to player_joined, challenge_started, guess_closed, challenge_result, game_ended and player_disconnected events
// @Tags         websocket
// @Param        id path int true "Session ID"
// @Param        token query string false "Play token, enables player_disconnected on drop"
// @Router       /ws/session/{id} [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	sessionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid session id"})
		return
	}

	var playerID uint
	if token := c.Query("token"); token != "" {
		if user, err := h.authService.ResolvePlayToken(token); err == nil {
			playerID = user.ID
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	sid := uint(sessionID)
	h.hub.AddConnection(sid, conn)
	defer func() {
		h.hub.RemoveConnection(sid, conn)
		if playerID != 0 {
			h.coordinator.NotifyDisconnect(sid, playerID)
		}
	}()

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}
