package repo

import (
	"errors"

	"langtouch/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConversationRepository handles conversation data access
type ConversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new conversation repository
func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// GetOrCreate returns the single conversation for an unordered pair of users,
// creating it on first use. The pair is canonicalized before lookup so the
// result is the same record regardless of argument order.
func (r *ConversationRepository) GetOrCreate(a, b uuid.UUID) (*models.Conversation, bool, error) {
	p1, p2 := models.CanonicalPair(a, b)

	var conversation models.Conversation
	err := r.db.Where("participant1_id = ? AND participant2_id = ?", p1, p2).
		First(&conversation).Error
	if err == nil {
		return &conversation, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	conversation = models.Conversation{Participant1ID: p1, Participant2ID: p2}
	if err := r.db.Create(&conversation).Error; err != nil {
		// Concurrent creation of the same pair trips the unique index;
		// fetch the winner instead of failing.
		var existing models.Conversation
		if ferr := r.db.Where("participant1_id = ? AND participant2_id = ?", p1, p2).
			First(&existing).Error; ferr == nil {
			return &existing, false, nil
		}
		return nil, false, err
	}
	return &conversation, true, nil
}

// GetByID gets a conversation by ID
func (r *ConversationRepository) GetByID(id uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.Preload("Participant1").Preload("Participant2").
		Where("id = ?", id).First(&conversation).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// GetForUser gets a conversation by ID only if the user participates in it
func (r *ConversationRepository) GetForUser(id, userID uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.Preload("Participant1").Preload("Participant2").
		Where("id = ? AND (participant1_id = ? OR participant2_id = ?)", id, userID, userID).
		First(&conversation).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// ListByUser lists the user's conversations ordered by last activity
func (r *ConversationRepository) ListByUser(userID uuid.UUID) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.Preload("Participant1").Preload("Participant2").
		Where("participant1_id = ? OR participant2_id = ?", userID, userID).
		Order("last_message_at DESC NULLS LAST").
		Find(&conversations).Error
	return conversations, err
}

// MessageRepository handles message data access
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Append persists a message and advances the parent conversation's
// last_message_at to the message timestamp in one transaction, so a partial
// failure cannot leave the conversation ordering stale.
func (r *MessageRepository) Append(message *models.Message) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", message.ConversationID).
			Update("last_message_at", message.SentAt).Error
	})
}

// ListByConversation lists a conversation's messages oldest first
func (r *MessageRepository) ListByConversation(conversationID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("sent_at ASC").
		Find(&messages).Error
	return messages, err
}

// ListBySender lists messages sent by a user, newest first
func (r *MessageRepository) ListBySender(senderID uuid.UUID, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.Where("sender_id = ?", senderID).
		Order("sent_at DESC").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	return messages, err
}

// MarkRead marks all messages in a conversation not sent by the user as read
func (r *MessageRepository) MarkRead(conversationID, readerID uuid.UUID) error {
	return r.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id != ? AND is_read = false", conversationID, readerID).
		Update("is_read", true).Error
}
