package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"langtouch/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// MessagingHandler handles conversation and AI chat endpoints
type MessagingHandler struct {
	chatService *services.ChatService
}

// NewMessagingHandler creates a new messaging handler
func NewMessagingHandler(chatService *services.ChatService) *MessagingHandler {
	return &MessagingHandler{chatService: chatService}
}

// SendMessageRequest is the payload for posting a message
type SendMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

// Inbox godoc
// @Summary List the user's conversations
// @Description Conversations ordered by most recent activity
// @Tags messaging
// @Produce json
// @Success 200 {array} models.Conversation
// @Router /inbox [get]
func (h *MessagingHandler) Inbox(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID format"})
	}

	conversations, err := h.chatService.Inbox(userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load inbox"})
	}

	return c.JSON(http.StatusOK, conversations)
}

// ConversationMessages godoc
// @Summary List messages in a conversation
// @Description Messages oldest first. Marks the other side's messages read.
// @Tags messaging
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Router /messages/{conversation_id} [get]
func (h *MessagingHandler) ConversationMessages(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID format"})
	}

	conversationID, err := uuid.Parse(c.Param("conversation_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid conversation ID"})
	}

	conversation, messages, err := h.chatService.ConversationMessages(conversationID, userID)
	if err != nil {
		if errors.Is(err, services.ErrNotParticipant) {
			return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load messages"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"conversation": conversation,
		"messages":     messages,
	})
}

// SendToConversation godoc
// @Summary Post a message into a conversation
// @Description When the AI assistant is the other participant the reply is generated synchronously
// @Tags messaging
// @Accept json
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Param request body SendMessageRequest true "Message body"
// @Success 201 {array} models.Message
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /messages/{conversation_id} [post]
func (h *MessagingHandler) SendToConversation(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID format"})
	}

	conversationID, err := uuid.Parse(c.Param("conversation_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid conversation ID"})
	}

	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	messages, err := h.chatService.SendToConversation(c.Request().Context(), userID, conversationID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotParticipant):
			return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
		case errors.Is(err, services.ErrEmptyMessage):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to send message"})
		}
	}

	return c.JSON(http.StatusCreated, messages)
}

// SendToUsername godoc
// @Summary Send a message to a user by username
// @Description Gets or creates the conversation. Use ai_assistant to reach the AI.
// @Tags messaging
// @Accept json
// @Produce json
// @Param username path string true "Recipient username"
// @Param request body SendMessageRequest true "Message body"
// @Success 201 {array} models.Message
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /messages/to/{username} [post]
func (h *MessagingHandler) SendToUsername(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID format"})
	}

	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	messages, err := h.chatService.SendToUsername(c.Request().Context(), userID, c.Param("username"), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRecipientNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		case errors.Is(err, services.ErrSelfConversation), errors.Is(err, services.ErrEmptyMessage):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to send message"})
		}
	}

	return c.JSON(http.StatusCreated, messages)
}

// SentMessages godoc
// @Summary List messages sent by the user
// @Tags messaging
// @Produce json
// @Success 200 {array} models.Message
// @Router /messages/sent [get]
func (h *MessagingHandler) SentMessages(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID format"})
	}

	limit, offset := paginationParams(c)
	messages, err := h.chatService.SentMessages(userID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load messages"})
	}

	return c.JSON(http.StatusOK, messages)
}

// StartAIConversation godoc
// @Summary Start a conversation with the AI assistant
// @Description Gets or creates the AI conversation. The assistant opens with a welcome message.
// @Tags ai
// @Produce json
// @Success 200 {object} models.Conversation
// @Router /ai/start [post]
func (h *MessagingHandler) StartAIConversation(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID format"})
	}

	conversation, err := h.chatService.StartAIConversation(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to start AI conversation"})
	}

	return c.JSON(http.StatusOK, conversation)
}

// AIChat godoc
// @Summary One-off AI chat
// @Description Stateless AI reply without conversation persistence
// @Tags ai
// @Accept json
// @Produce json
// @Param request body SendMessageRequest true "Message"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /ai/chat [post]
func (h *MessagingHandler) AIChat(c echo.Context) error {
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Message is required"})
	}

	reply, err := h.chatService.DirectReply(c.Request().Context(), req.Message)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]string{"response": reply, "status": "success"})
}

func paginationParams(c echo.Context) (int, int) {
	limit := 20
	offset := 0
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := c.QueryParam("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
