package services

import (
	"errors"
	"fmt"
	"strings"

	"langtouch/pkg/models"

	qrcode "github.com/skip2/go-qrcode"
)

var (
	ErrUnknownMethod    = errors.New("no payout number for payment method")
	ErrPurchaseMismatch = errors.New("payment does not reference that purchase type")
)

// payoutNumbers maps payment method names to the merchant numbers encoded in
// payment QR codes
var payoutNumbers = map[string]string{
	"m-pesa":       "68088449",
	"airtel money": "+255784567890",
}

const qrImageSize = 256

// BuildInstruction renders the human-readable payment instruction encoded in
// the QR image
func BuildInstruction(methodName, amount, purchaseType string, reference string) (string, error) {
	number, ok := payoutNumbers[strings.ToLower(methodName)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownMethod, methodName)
	}
	return fmt.Sprintf("PAY TO %s AMOUNT %s REFERENCE %s%s",
		number, amount, strings.ToUpper(purchaseType), reference), nil
}

// QRService renders payment instructions as QR PNG images
type QRService struct{}

// NewQRService creates a new QR service
func NewQRService() *QRService {
	return &QRService{}
}

// PaymentQR encodes the payment's instruction text as a PNG image. The
// reference carries the purchased object's id, matching what the payer quotes
// to the merchant.
func (s *QRService) PaymentQR(payment *models.Payment, purchaseType string) ([]byte, error) {
	if payment.Method == nil {
		return nil, ErrUnknownMethod
	}
	objectID, ok := PurchaseObjectID(payment, purchaseType)
	if !ok {
		return nil, ErrPurchaseMismatch
	}
	text, err := BuildInstruction(payment.Method.Name, payment.Amount, purchaseType, objectID.String())
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(text, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR image: %w", err)
	}
	return png, nil
}
