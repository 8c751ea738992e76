package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"langtouch/internal/auth"
	"langtouch/internal/services"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// WSHandler streams AI replies over WebSocket
type WSHandler struct {
	authService *auth.Service
	chatService *services.ChatService
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WebSocket handler
func NewWSHandler(authService *auth.Service, chatService *services.ChatService) *WSHandler {
	return &WSHandler{
		authService: authService,
		chatService: chatService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

type wsEvent struct {
	Type      string `json:"type"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

type wsClientMessage struct {
	Message string `json:"message"`
}

// HandleAIStream godoc
// @Summary Stream AI replies over WebSocket
// @Description Authenticated via token query parameter. Each client message is
// @Description answered with a sequence of chunk events followed by done.
// @Tags ai
// @Param token query string true "Access token"
// @Router /ws/ai [get]
func (h *WSHandler) HandleAIStream(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}
	defer conn.Close()

	token := c.QueryParam("token")
	if token == "" {
		conn.WriteJSON(wsEvent{Type: "error", Message: "Token required"})
		return nil
	}

	claims, err := h.authService.ValidateToken(token)
	if err != nil {
		conn.WriteJSON(wsEvent{Type: "error", Message: "Invalid token"})
		return nil
	}

	log.Info().Str("user_id", claims.UserID.String()).Msg("AI stream connected")

	conn.WriteJSON(wsEvent{
		Type:      "system",
		Message:   "Connected to AI chat",
		Timestamp: time.Now().Format(time.RFC3339),
	})

	ctx := c.Request().Context()
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var msg wsClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil || msg.Message == "" {
			conn.WriteJSON(wsEvent{Type: "error", Message: "Message is required"})
			continue
		}

		// Per-message context so an abandoned stream does not leave the
		// producer goroutine blocked on an undrained channel
		msgCtx, cancelMsg := context.WithCancel(ctx)
		fragments, err := h.chatService.StreamReply(msgCtx, msg.Message)
		if err != nil {
			cancelMsg()
			conn.WriteJSON(wsEvent{Type: "error", Message: err.Error()})
			continue
		}

		failed := false
		for fragment := range fragments {
			if fragment.Err != nil {
				conn.WriteJSON(wsEvent{Type: "error", Message: services.FallbackReply(fragment.Err)})
				failed = true
				break
			}
			if err := conn.WriteJSON(wsEvent{Type: "chunk", Message: fragment.Text}); err != nil {
				cancelMsg()
				return nil
			}
		}
		cancelMsg()
		if !failed {
			conn.WriteJSON(wsEvent{Type: "done", Timestamp: time.Now().Format(time.RFC3339)})
		}
	}

	return nil
}
