package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment statuses
const (
	PaymentStatusPending   = "Pending"
	PaymentStatusCompleted = "Completed"
	PaymentStatusRejected  = "Rejected"
)

// Currency represents a supported currency (e.g. TZS, USD)
type Currency struct {
	BaseModel
	Code      string `gorm:"unique;not null" json:"code" validate:"required"`
	Symbol    string `gorm:"not null" json:"symbol"`
	IsDefault bool   `gorm:"default:false" json:"is_default"`
}

// PaymentMethod represents a payment provider (e.g. M-Pesa, Airtel Money)
type PaymentMethod struct {
	BaseModel
	Name     string `gorm:"unique;not null" json:"name" validate:"required"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

// Payment represents a payment record. At most one of the purchase links is
// set; currency and method are protected from deletion while referenced.
type Payment struct {
	BaseModel
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index;constraint:OnDelete:CASCADE" json:"user_id"`
	BookingID      *uuid.UUID `gorm:"type:uuid;constraint:OnDelete:SET NULL" json:"booking_id"`
	QuoteRequestID *uuid.UUID `gorm:"type:uuid;constraint:OnDelete:SET NULL" json:"quote_request_id"`
	VideoID        *uuid.UUID `gorm:"type:uuid;constraint:OnDelete:SET NULL" json:"video_id"`
	CourseID       *uuid.UUID `gorm:"type:uuid;constraint:OnDelete:SET NULL" json:"course_id"`

	Amount          string    `gorm:"not null" json:"amount"`
	CurrencyID      uuid.UUID `gorm:"type:uuid;not null;constraint:OnDelete:RESTRICT" json:"currency_id"`
	MethodID        uuid.UUID `gorm:"type:uuid;not null;constraint:OnDelete:RESTRICT" json:"method_id"`
	ReferenceNumber string    `gorm:"unique;not null" json:"reference_number"`

	ReceiptURL  string `json:"receipt_url,omitempty"`
	Status      string `gorm:"not null;default:'Pending'" json:"status"`
	IsConfirmed bool   `gorm:"default:false" json:"is_confirmed"`

	User         *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Booking      *Booking       `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	QuoteRequest *QuoteRequest  `gorm:"foreignKey:QuoteRequestID" json:"quote_request,omitempty"`
	Video        *Video         `gorm:"foreignKey:VideoID" json:"video,omitempty"`
	Course       *Course        `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Currency     *Currency      `gorm:"foreignKey:CurrencyID" json:"currency,omitempty"`
	Method       *PaymentMethod `gorm:"foreignKey:MethodID" json:"method,omitempty"`

	Transactions []PaymentTransaction `gorm:"foreignKey:PaymentID;constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
}

// PaymentTransaction is an append-only log of provider callback attempts
type PaymentTransaction struct {
	BaseModel
	PaymentID         uuid.UUID `gorm:"type:uuid;not null;index;constraint:OnDelete:CASCADE" json:"payment_id"`
	ProviderReference string    `gorm:"not null" json:"provider_reference"`
	ProviderStatus    string    `gorm:"not null" json:"provider_status"`
	ProviderResponse  string    `gorm:"type:text" json:"provider_response"`
	TransactionDate   time.Time `gorm:"not null" json:"transaction_date"`

	Payment *Payment `gorm:"foreignKey:PaymentID" json:"payment,omitempty"`
}

// Refund represents a refund against a payment
type Refund struct {
	BaseModel
	PaymentID  uuid.UUID `gorm:"type:uuid;not null;index;constraint:OnDelete:CASCADE" json:"payment_id"`
	Amount     string    `gorm:"not null" json:"amount"`
	Reason     string    `gorm:"type:text" json:"reason"`
	RefundedAt time.Time `json:"refunded_at"`

	Payment *Payment `gorm:"foreignKey:PaymentID" json:"payment,omitempty"`
}

// FlutterwaveTransaction mirrors a transaction initiated with Flutterwave
type FlutterwaveTransaction struct {
	BaseModel
	UserID           uuid.UUID  `gorm:"type:uuid;not null;index;constraint:OnDelete:CASCADE" json:"user_id"`
	TxRef            string     `gorm:"unique;not null" json:"tx_ref"`
	Amount           string     `gorm:"not null" json:"amount"`
	Currency         string     `gorm:"size:3;default:'USD'" json:"currency"`
	Status           string     `gorm:"default:'pending'" json:"status"` // pending, successful, failed
	FlwTransactionID *int64     `json:"flw_transaction_id"`
	PaymentMethod    string     `json:"payment_method"`
	PaymentType      string     `json:"payment_type"`
	ObjectID         *uuid.UUID `gorm:"type:uuid" json:"object_id"`
	ObjectType       string     `gorm:"size:10" json:"object_type"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
