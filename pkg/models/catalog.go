package models

import "github.com/google/uuid"

// Video represents a purchasable learning video
type Video struct {
	BaseModel
	Title       string `gorm:"not null" json:"title" validate:"required"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Price       string `gorm:"not null;default:'0'" json:"price"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}

// Course represents a purchasable language course
type Course struct {
	BaseModel
	Title       string `gorm:"not null" json:"title" validate:"required"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Price       string `gorm:"not null;default:'0'" json:"price"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}

// Booking represents a booked lesson or service appointment
type Booking struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;not null;index;constraint:OnDelete:CASCADE" json:"user_id"`
	Service     string    `gorm:"not null" json:"service"`
	ScheduledAt string    `json:"scheduled_at"`
	Amount      string    `gorm:"not null;default:'0'" json:"amount"`
	Status      string    `gorm:"default:'pending'" json:"status"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// QuoteRequest represents a translation quote request
type QuoteRequest struct {
	BaseModel
	UserID         uuid.UUID `gorm:"type:uuid;not null;index;constraint:OnDelete:CASCADE" json:"user_id"`
	SourceLanguage string    `json:"source_language"`
	TargetLanguage string    `json:"target_language"`
	Details        string    `gorm:"type:text" json:"details"`
	Amount         string    `gorm:"not null;default:'0'" json:"amount"`
	Status         string    `gorm:"default:'open'" json:"status"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
