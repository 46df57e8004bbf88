package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"spinbazar-backend/internal/middleware"
	"spinbazar-backend/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler is the websocket twin of the SSE event stream, for
// clients that prefer a bidirectional channel.
type WebSocketHandler struct {
	store        *services.RedisService
	pushInterval time.Duration
}

func NewWebSocketHandler(store *services.RedisService) *WebSocketHandler {
	return &WebSocketHandler{store: store, pushInterval: eventPushInterval}
}

type balanceUpdate struct {
	Type    string  `json:"type"`
	UserID  string  `json:"user_id"`
	XP      int64   `json:"xp"`
	Balance float64 `json:"balance"`
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	user := middleware.UserFrom(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		return
	}
	defer conn.Close()

	// The read pump only watches for the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("WebSocket error: %v", err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(h.pushInterval)
	defer ticker.Stop()

	ctx := c.Request.Context()
	h.pushBalance(c, conn, user.ID)

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !h.pushBalance(c, conn, user.ID) {
				return
			}
		}
	}
}

func (h *WebSocketHandler) pushBalance(c *gin.Context, conn *websocket.Conn, userID string) bool {
	ctx := c.Request.Context()

	user, err := h.store.GetUser(ctx, userID)
	if err != nil {
		return true
	}
	wallet, err := h.store.GetWallet(ctx, userID)
	if err != nil {
		return true
	}

	update := balanceUpdate{
		Type:    "balance",
		UserID:  user.ID,
		XP:      user.XP,
		Balance: wallet.Balance,
	}
	if err := conn.WriteJSON(update); err != nil {
		return false
	}
	return true
}
