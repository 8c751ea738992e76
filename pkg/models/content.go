package models

import "github.com/google/uuid"

// ContactMessage represents a message from the public contact form
type ContactMessage struct {
	BaseModel
	Name    string `gorm:"not null" json:"name" validate:"required"`
	Email   string `gorm:"not null" json:"email" validate:"required,email"`
	Subject string `gorm:"not null" json:"subject" validate:"required"`
	Message string `gorm:"not null;type:text" json:"message" validate:"required"`
	Reply   string `gorm:"type:text" json:"reply,omitempty"`
	Replied bool   `gorm:"default:false" json:"replied"`
}

// Notification represents an in-app notification for a user
type Notification struct {
	BaseModel
	UserID  uuid.UUID `gorm:"type:uuid;not null;index;constraint:OnDelete:CASCADE" json:"user_id"`
	Message string    `gorm:"not null;type:text" json:"message"`
	Type    string    `gorm:"default:'Info'" json:"type"`     // Info, Warning, Success, Error
	Status  string    `gorm:"default:'Unread'" json:"status"` // Unread, Read

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// Rating represents a 1..5 star site rating, one per user
type Rating struct {
	BaseModel
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;constraint:OnDelete:CASCADE" json:"user_id"`
	Score    int       `gorm:"not null;check:score >= 1 AND score <= 5" json:"score" validate:"required,min=1,max=5"`
	Feedback string    `gorm:"type:text" json:"feedback"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// SEO represents per-page SEO metadata
type SEO struct {
	BaseModel
	PageType        string `gorm:"not null;index;default:'service'" json:"page_type"`
	MetaTitle       string `gorm:"size:60;not null" json:"meta_title" validate:"required"`
	MetaDescription string `gorm:"size:160" json:"meta_description"`
	MetaKeywords    string `gorm:"type:text" json:"meta_keywords"`
	CanonicalURL    string `gorm:"size:500" json:"canonical_url"`
	RobotsMeta      string `gorm:"default:'index, follow'" json:"robots_meta"`

	// Open Graph
	OGTitle       string `gorm:"size:60" json:"og_title"`
	OGDescription string `gorm:"size:160" json:"og_description"`
	OGImageURL    string `json:"og_image_url"`
	OGType        string `gorm:"default:'website'" json:"og_type"`

	// Twitter
	TwitterCard        string `gorm:"default:'summary_large_image'" json:"twitter_card"`
	TwitterTitle       string `gorm:"size:60" json:"twitter_title"`
	TwitterDescription string `gorm:"size:160" json:"twitter_description"`
	TwitterImageURL    string `json:"twitter_image_url"`

	IsActive bool `gorm:"default:true;index" json:"is_active"`
}

// FillDerivedFields copies the primary meta fields into the OG and Twitter
// fields when those are empty
func (s *SEO) FillDerivedFields() {
	if s.OGTitle == "" {
		s.OGTitle = s.MetaTitle
	}
	if s.TwitterTitle == "" {
		s.TwitterTitle = s.MetaTitle
	}
	if s.OGDescription == "" {
		s.OGDescription = s.MetaDescription
	}
	if s.TwitterDescription == "" {
		s.TwitterDescription = s.MetaDescription
	}
}
