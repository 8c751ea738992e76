package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"langtouch/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Mobile money provider errors
var (
	ErrUnknownProvider = errors.New("unknown payment provider")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrPaymentSettled  = errors.New("payment is already settled")
)

// provider describes one simulated mobile money integration
type provider struct {
	MethodName      string
	ReferencePrefix string
	ProviderTag     string
}

var providers = map[string]provider{
	"mpesa":  {MethodName: "M-Pesa", ReferencePrefix: "MPESA", ProviderTag: "SIMULATED_MPESA"},
	"airtel": {MethodName: "Airtel Money", ReferencePrefix: "AIRTEL", ProviderTag: "SIMULATED_AIRTEL"},
}

// PaymentStore is the payment persistence the ledger depends on
type PaymentStore interface {
	GetByID(id uuid.UUID) (*models.Payment, error)
	GetByIDAndUser(id, userID uuid.UUID) (*models.Payment, error)
	Update(payment *models.Payment) error
	GetOrCreateByReference(reference string, template *models.Payment) (*models.Payment, bool, error)
	ListByUser(userID uuid.UUID, limit, offset int) ([]models.Payment, error)
	UpdateStatusBatch(ids []uuid.UUID, status string, confirmed bool) (int64, error)
	AppendTransaction(tx *models.PaymentTransaction) error
	ListTransactionsByUser(userID uuid.UUID, limit, offset int) ([]models.PaymentTransaction, error)
}

// CurrencyStore resolves the currency new payments are denominated in
type CurrencyStore interface {
	GetDefault() (*models.Currency, error)
}

// MethodStore resolves payment methods
type MethodStore interface {
	GetFirstActive() (*models.PaymentMethod, error)
	GetByName(name string) (*models.PaymentMethod, error)
}

// ReceiptStore persists uploaded receipt files
type ReceiptStore interface {
	UploadMultipartFile(fileHeader *multipart.FileHeader, folder string) (string, error)
}

// PaymentService drives the payment ledger: selection, simulated mobile money
// charges, receipt uploads and admin settlement
type PaymentService struct {
	paymentRepo  PaymentStore
	currencyRepo CurrencyStore
	methodRepo   MethodStore
	catalogRepo  Catalog
	storage      ReceiptStore // nil when no object storage is configured
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo PaymentStore,
	currencyRepo CurrencyStore,
	methodRepo MethodStore,
	catalogRepo Catalog,
	storage ReceiptStore,
) *PaymentService {
	return &PaymentService{
		paymentRepo:  paymentRepo,
		currencyRepo: currencyRepo,
		methodRepo:   methodRepo,
		catalogRepo:  catalogRepo,
		storage:      storage,
	}
}

// SelectionReference builds the idempotent reference for a user/purchase pair.
// Repeated selection of the same object yields the same pending payment.
func SelectionReference(userID uuid.UUID, purchaseType string, objectID uuid.UUID) string {
	return fmt.Sprintf("TXN-%s-%s-%s", userID, strings.ToUpper(purchaseType), objectID)
}

// Select resolves the purchase and gets or creates its pending payment
func (s *PaymentService) Select(userID uuid.UUID, purchaseType string, objectID uuid.UUID) (*models.Payment, *Purchase, error) {
	purchase, err := ResolvePurchase(s.catalogRepo, purchaseType, objectID)
	if err != nil {
		return nil, nil, err
	}

	currency, err := s.currencyRepo.GetDefault()
	if err != nil {
		return nil, nil, fmt.Errorf("no default currency configured: %w", err)
	}
	method, err := s.methodRepo.GetFirstActive()
	if err != nil {
		return nil, nil, fmt.Errorf("no active payment method configured: %w", err)
	}

	template := &models.Payment{
		UserID:     userID,
		Amount:     purchase.Amount,
		CurrencyID: currency.ID,
		MethodID:   method.ID,
		Status:     models.PaymentStatusPending,
	}
	purchase.Attach(template)

	reference := SelectionReference(userID, purchase.Type, objectID)
	payment, created, err := s.paymentRepo.GetOrCreateByReference(reference, template)
	if err != nil {
		return nil, nil, err
	}
	if created {
		log.Info().
			Str("payment_id", payment.ID.String()).
			Str("reference", reference).
			Str("purchase_type", purchase.Type).
			Msg("Pending payment created")
	}
	return payment, purchase, nil
}

// ProviderReference builds a simulated provider transaction reference using
// the first 8 hex characters of a fresh UUID
func ProviderReference(prefix string) string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(raw[:8]))
}

// PayWithProvider simulates a successful mobile money charge: the payment is
// marked Completed and the provider callback is logged as a transaction
func (s *PaymentService) PayWithProvider(userID, paymentID uuid.UUID, providerName, phoneNumber string) (*models.Payment, *models.PaymentTransaction, error) {
	p, ok := providers[strings.ToLower(providerName)]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownProvider, providerName)
	}

	payment, err := s.paymentRepo.GetByIDAndUser(paymentID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrPaymentNotFound
		}
		return nil, nil, err
	}
	if payment.Status == models.PaymentStatusCompleted {
		return nil, nil, ErrPaymentSettled
	}

	if method, err := s.methodRepo.GetByName(p.MethodName); err == nil {
		payment.MethodID = method.ID
	}

	payment.ReferenceNumber = ProviderReference(p.ReferencePrefix)
	payment.Status = models.PaymentStatusCompleted
	payment.IsConfirmed = true
	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, nil, err
	}

	tx := &models.PaymentTransaction{
		PaymentID:         payment.ID,
		ProviderReference: payment.ReferenceNumber,
		ProviderStatus:    "SUCCESS",
		ProviderResponse:  fmt.Sprintf(`{"provider":"%s","phone":"%s","status":"SUCCESS"}`, p.ProviderTag, phoneNumber),
		TransactionDate:   time.Now(),
	}
	if err := s.paymentRepo.AppendTransaction(tx); err != nil {
		return nil, nil, err
	}

	log.Info().
		Str("payment_id", payment.ID.String()).
		Str("provider", p.ProviderTag).
		Str("reference", payment.ReferenceNumber).
		Msg("Simulated mobile money payment completed")

	return payment, tx, nil
}

// UploadReceipt stores a manually paid receipt and puts the payment back into
// Pending for admin review. A previously rejected payment re-enters review.
func (s *PaymentService) UploadReceipt(userID, paymentID uuid.UUID, file *multipart.FileHeader) (*models.Payment, error) {
	if s.storage == nil {
		return nil, errors.New("receipt storage is not configured")
	}

	payment, err := s.paymentRepo.GetByIDAndUser(paymentID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	url, err := s.storage.UploadMultipartFile(file, fmt.Sprintf("receipts/%s", payment.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to store receipt: %w", err)
	}

	payment.ReceiptURL = url
	payment.Status = models.PaymentStatusPending
	payment.IsConfirmed = false
	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, err
	}

	log.Info().
		Str("payment_id", payment.ID.String()).
		Str("receipt_url", url).
		Msg("Receipt uploaded, payment moved to review")

	return payment, nil
}

// Confirm marks the given payments Completed and confirmed
func (s *PaymentService) Confirm(ids []uuid.UUID) (int64, error) {
	return s.paymentRepo.UpdateStatusBatch(ids, models.PaymentStatusCompleted, true)
}

// Reject marks the given payments Rejected
func (s *PaymentService) Reject(ids []uuid.UUID) (int64, error) {
	return s.paymentRepo.UpdateStatusBatch(ids, models.PaymentStatusRejected, false)
}

// History lists the user's payments, newest first
func (s *PaymentService) History(userID uuid.UUID, limit, offset int) ([]models.Payment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.paymentRepo.ListByUser(userID, limit, offset)
}

// Transactions lists provider transactions across the user's payments
func (s *PaymentService) Transactions(userID uuid.UUID, limit, offset int) ([]models.PaymentTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.paymentRepo.ListTransactionsByUser(userID, limit, offset)
}

// Get returns a payment with its currency and method, scoped to its owner
func (s *PaymentService) Get(userID, paymentID uuid.UUID) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if payment.UserID != userID {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}
