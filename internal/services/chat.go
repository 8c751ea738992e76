package services

import (
	"context"
	"errors"
	"fmt"

	"langtouch/internal/ai"
	"langtouch/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// The bot participates in conversations as an ordinary user with this
// identity. The password marker can never verify against bcrypt.
const (
	BotUsername           = "langtouch_ai"
	botEmail              = "ai@langtouch.com"
	botUnusablePassword   = "!"
	contextWindow         = 5
	maxFailureReasonChars = 200
)

const fallbackWelcomeText = "Hello! I'm LangTouch AI Assistant. I'm here to help you with language learning. (AI service unavailable.)"

// Messaging errors
var (
	ErrNotParticipant    = errors.New("you are not a participant of this conversation")
	ErrSelfConversation  = errors.New("cannot start a conversation with yourself")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrEmptyMessage      = errors.New("message body is required")
	ErrAINotConfigured   = errors.New("AI service is not configured")
)

// AIResponder is the adapter contract the orchestration depends on
type AIResponder interface {
	Reply(ctx context.Context, message string, history []models.ChatTurn) (string, error)
	Stream(ctx context.Context, message string, history []models.ChatTurn) <-chan ai.Fragment
}

// ConversationStore is the conversation persistence the chat flow depends on
type ConversationStore interface {
	GetOrCreate(a, b uuid.UUID) (*models.Conversation, bool, error)
	GetForUser(id, userID uuid.UUID) (*models.Conversation, error)
	ListByUser(userID uuid.UUID) ([]models.Conversation, error)
}

// MessageStore is the message persistence the chat flow depends on
type MessageStore interface {
	Append(message *models.Message) error
	ListByConversation(conversationID uuid.UUID) ([]models.Message, error)
	ListBySender(senderID uuid.UUID, limit, offset int) ([]models.Message, error)
	MarkRead(conversationID, readerID uuid.UUID) error
}

// UserDirectory resolves chat participants
type UserDirectory interface {
	GetByUsername(username string) (*models.User, error)
	GetOrCreateBot(username, email, passwordHash string) (*models.User, error)
}

// ChatService binds conversations to the AI responder and persists both sides
// of the exchange
type ChatService struct {
	conversationRepo ConversationStore
	messageRepo      MessageStore
	userRepo         UserDirectory
	responder        AIResponder // nil when no API key is configured
}

// NewChatService creates a new chat service
func NewChatService(
	conversationRepo ConversationStore,
	messageRepo MessageStore,
	userRepo UserDirectory,
	responder AIResponder,
) *ChatService {
	return &ChatService{
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		userRepo:         userRepo,
		responder:        responder,
	}
}

// BotUser returns the AI assistant identity, creating it lazily on first use
func (s *ChatService) BotUser() (*models.User, error) {
	return s.userRepo.GetOrCreateBot(BotUsername, botEmail, botUnusablePassword)
}

// Inbox lists the user's conversations ordered by last activity
func (s *ChatService) Inbox(userID uuid.UUID) ([]models.Conversation, error) {
	return s.conversationRepo.ListByUser(userID)
}

// ConversationMessages returns a conversation the user participates in along
// with its messages oldest first, marking the other side's messages read
func (s *ChatService) ConversationMessages(conversationID, userID uuid.UUID) (*models.Conversation, []models.Message, error) {
	conversation, err := s.conversationRepo.GetForUser(conversationID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotParticipant
		}
		return nil, nil, err
	}

	messages, err := s.messageRepo.ListByConversation(conversationID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.messageRepo.MarkRead(conversationID, userID); err != nil {
		log.Warn().Err(err).Str("conversation_id", conversationID.String()).Msg("Failed to mark messages read")
	}

	return conversation, messages, nil
}

// SentMessages lists messages the user has sent, newest first
func (s *ChatService) SentMessages(userID uuid.UUID, limit, offset int) ([]models.Message, error) {
	return s.messageRepo.ListBySender(userID, limit, offset)
}

// SendToConversation posts a message into an existing conversation. When the
// bot is the other participant the AI reply is generated and persisted before
// returning, so the caller sees both messages.
func (s *ChatService) SendToConversation(ctx context.Context, userID, conversationID uuid.UUID, body string) ([]models.Message, error) {
	if body == "" {
		return nil, ErrEmptyMessage
	}

	conversation, err := s.conversationRepo.GetForUser(conversationID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotParticipant
		}
		return nil, err
	}

	return s.postMessage(ctx, conversation, userID, body)
}

// SendToUsername resolves the recipient, gets or creates the conversation and
// posts the message. The aliases ai_assistant and the bot username both route
// to the AI identity.
func (s *ChatService) SendToUsername(ctx context.Context, userID uuid.UUID, username, body string) ([]models.Message, error) {
	if body == "" {
		return nil, ErrEmptyMessage
	}

	var recipient *models.User
	var err error
	if username == "ai_assistant" || username == BotUsername {
		recipient, err = s.BotUser()
	} else {
		recipient, err = s.userRepo.GetByUsername(username)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipientNotFound
		}
	}
	if err != nil {
		return nil, err
	}

	if recipient.ID == userID {
		return nil, ErrSelfConversation
	}

	conversation, _, err := s.conversationRepo.GetOrCreate(userID, recipient.ID)
	if err != nil {
		return nil, err
	}

	return s.postMessage(ctx, conversation, userID, body)
}

// StartAIConversation gets or creates the user's conversation with the bot.
// On first creation the bot opens with a welcome message.
func (s *ChatService) StartAIConversation(ctx context.Context, userID uuid.UUID) (*models.Conversation, error) {
	bot, err := s.BotUser()
	if err != nil {
		return nil, err
	}

	conversation, created, err := s.conversationRepo.GetOrCreate(userID, bot.ID)
	if err != nil {
		return nil, err
	}

	if created {
		welcome := fallbackWelcomeText
		if s.responder != nil {
			if text, err := s.responder.Reply(ctx, "Hello! I'm starting a conversation with you.", nil); err == nil {
				welcome = text
			} else {
				log.Error().Err(err).Msg("AI welcome generation failed")
			}
		}

		botMessage := &models.Message{
			ConversationID: conversation.ID,
			SenderID:       bot.ID,
			Body:           welcome,
		}
		if err := s.messageRepo.Append(botMessage); err != nil {
			return nil, err
		}
	}

	return conversation, nil
}

// DirectReply answers a one-off message without any conversation persistence,
// used by the JSON chat API
func (s *ChatService) DirectReply(ctx context.Context, message string) (string, error) {
	if s.responder == nil {
		return "", ErrAINotConfigured
	}
	return s.responder.Reply(ctx, message, nil)
}

// StreamReply streams a one-off reply as fragments
func (s *ChatService) StreamReply(ctx context.Context, message string) (<-chan ai.Fragment, error) {
	if s.responder == nil {
		return nil, ErrAINotConfigured
	}
	return s.responder.Stream(ctx, message, nil), nil
}

// botParticipant returns the bot when it is a participant of the
// conversation. The lookup never creates the bot account: a human-to-human
// message must not mint it as a side effect.
func (s *ChatService) botParticipant(conversation *models.Conversation) (*models.User, error) {
	bot, err := s.userRepo.GetByUsername(BotUsername)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !conversation.Includes(bot.ID) {
		return nil, nil
	}
	return bot, nil
}

// postMessage appends the sender's message and, when the bot participates in
// the conversation, generates and appends the reply in the same request
func (s *ChatService) postMessage(ctx context.Context, conversation *models.Conversation, senderID uuid.UUID, body string) ([]models.Message, error) {
	bot, err := s.botParticipant(conversation)
	if err != nil {
		return nil, err
	}

	// Prior turns are collected before the append so the new message is not
	// part of its own context
	var history []models.ChatTurn
	isAIConversation := bot != nil
	if isAIConversation {
		prior, err := s.messageRepo.ListByConversation(conversation.ID)
		if err != nil {
			return nil, err
		}
		history = TagTurns(prior, senderID, contextWindow)
	}

	userMessage := &models.Message{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		Body:           body,
	}
	if err := s.messageRepo.Append(userMessage); err != nil {
		return nil, err
	}

	appended := []models.Message{*userMessage}

	if isAIConversation {
		reply := s.replyOrFallback(ctx, body, history)
		botMessage := &models.Message{
			ConversationID: conversation.ID,
			SenderID:       bot.ID,
			Body:           reply,
		}
		if err := s.messageRepo.Append(botMessage); err != nil {
			return nil, err
		}
		appended = append(appended, *botMessage)
	}

	return appended, nil
}

// replyOrFallback calls the responder and converts any failure into the
// degraded in-band reply so the conversation never breaks
func (s *ChatService) replyOrFallback(ctx context.Context, message string, history []models.ChatTurn) string {
	if s.responder == nil {
		return FallbackReply(ErrAINotConfigured)
	}
	text, err := s.responder.Reply(ctx, message, history)
	if err != nil {
		log.Error().Err(err).Msg("AI reply failed, substituting fallback")
		return FallbackReply(err)
	}
	return text
}

// FallbackReply is the visible reply substituted when the AI backend fails.
// The reason is capped so provider errors cannot flood the conversation; the
// cut always falls on a rune boundary.
func FallbackReply(err error) string {
	reason := err.Error()
	if len(reason) > maxFailureReasonChars {
		if runes := []rune(reason); len(runes) > maxFailureReasonChars {
			reason = string(runes[:maxFailureReasonChars])
		}
	}
	return fmt.Sprintf("AI Assistant is currently unavailable. (%s)", reason)
}

// TagTurns converts the trailing window of messages into role-tagged turns.
// Messages from the human participant are tagged user, everything else
// assistant.
func TagTurns(messages []models.Message, humanID uuid.UUID, window int) []models.ChatTurn {
	if len(messages) > window {
		messages = messages[len(messages)-window:]
	}

	turns := make([]models.ChatTurn, 0, len(messages))
	for _, m := range messages {
		role := "assistant"
		if m.SenderID == humanID {
			role = "user"
		}
		turns = append(turns, models.ChatTurn{Role: role, Content: m.Body})
	}
	return turns
}
