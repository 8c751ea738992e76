package models

import (
	"bytes"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation represents a two-party chat. Participant1 always holds the
// smaller UUID so the unordered pair maps to exactly one row.
type Conversation struct {
	BaseModel
	Participant1ID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_conversations_pair;constraint:OnDelete:CASCADE" json:"participant1_id"`
	Participant2ID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_conversations_pair;constraint:OnDelete:CASCADE" json:"participant2_id"`
	LastMessageAt  *time.Time `gorm:"index" json:"last_message_at"`

	Participant1 *User `gorm:"foreignKey:Participant1ID" json:"participant1,omitempty"`
	Participant2 *User `gorm:"foreignKey:Participant2ID" json:"participant2,omitempty"`
}

// CanonicalPair orders two user IDs so the smaller one comes first
func CanonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) > 0 {
		return b, a
	}
	return a, b
}

// BeforeSave keeps the participant order canonical on every write, not just
// creation, since the uniqueness constraint is over the ordered pair.
func (c *Conversation) BeforeSave(tx *gorm.DB) error {
	c.Participant1ID, c.Participant2ID = CanonicalPair(c.Participant1ID, c.Participant2ID)
	return nil
}

// Includes reports whether the user is one of the two participants
func (c *Conversation) Includes(userID uuid.UUID) bool {
	return c.Participant1ID == userID || c.Participant2ID == userID
}

// OtherParticipant returns the participant that is not the given user
func (c *Conversation) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if c.Participant1ID == userID {
		return c.Participant2ID
	}
	return c.Participant1ID
}

// Message represents a message in a conversation
type Message struct {
	BaseModel
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index;constraint:OnDelete:CASCADE" json:"conversation_id"`
	SenderID       uuid.UUID `gorm:"type:uuid;not null;constraint:OnDelete:CASCADE" json:"sender_id"`
	Body           string    `gorm:"not null;type:text" json:"body" validate:"required"`
	IsRead         bool      `gorm:"default:false" json:"is_read"`
	SentAt         time.Time `gorm:"not null;index" json:"sent_at"`

	Conversation *Conversation `gorm:"foreignKey:ConversationID" json:"conversation,omitempty"`
	Sender       *User         `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

// BeforeCreate assigns the server-side send timestamp when the caller did not
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if err := m.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if m.SentAt.IsZero() {
		m.SentAt = time.Now()
	}
	return nil
}

// ChatTurn represents a single role-tagged turn passed to the AI responder
type ChatTurn struct {
	Role    string `json:"role"` // user or assistant
	Content string `json:"content"`
}
