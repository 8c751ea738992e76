package services

import (
	"fmt"
	"strings"

	"langtouch/internal/flutterwave"
	"langtouch/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FlutterwaveLedger records the transactions the hosted checkout produces
type FlutterwaveLedger interface {
	CreateFlutterwaveTransaction(tx *models.FlutterwaveTransaction) error
	UpdateFlutterwaveStatus(txRef, status string, flwID *int64) error
}

// FlutterwaveService bridges card payments through the Flutterwave hosted
// checkout to the purchase catalog
type FlutterwaveService struct {
	client      *flutterwave.Client // nil when no secret key is configured
	paymentRepo FlutterwaveLedger
	catalogRepo Catalog
	userRepo    UserLookup
	redirectURL string
}

// NewFlutterwaveService creates a new Flutterwave service
func NewFlutterwaveService(
	client *flutterwave.Client,
	paymentRepo FlutterwaveLedger,
	catalogRepo Catalog,
	userRepo UserLookup,
	redirectURL string,
) *FlutterwaveService {
	return &FlutterwaveService{
		client:      client,
		paymentRepo: paymentRepo,
		catalogRepo: catalogRepo,
		userRepo:    userRepo,
		redirectURL: redirectURL,
	}
}

// Enabled reports whether the Flutterwave integration is configured
func (s *FlutterwaveService) Enabled() bool {
	return s.client != nil
}

// Initiate resolves the purchase, records a pending transaction and returns
// the hosted checkout link
func (s *FlutterwaveService) Initiate(userID uuid.UUID, purchaseType string, objectID uuid.UUID, currency string) (string, string, error) {
	if s.client == nil {
		return "", "", fmt.Errorf("flutterwave is not configured")
	}

	purchase, err := ResolvePurchase(s.catalogRepo, purchaseType, objectID)
	if err != nil {
		return "", "", err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", "", err
	}

	if currency == "" {
		currency = "USD"
	}
	txRef := fmt.Sprintf("FLW-%s-%s", strings.ToUpper(purchase.Type), uuid.New())

	resp, err := s.client.InitiatePayment(&flutterwave.PaymentRequest{
		TxRef:       txRef,
		Amount:      purchase.Amount,
		Currency:    currency,
		RedirectURL: s.redirectURL,
		Customer: flutterwave.Customer{
			Email: user.Email,
			Name:  user.Username,
		},
		Meta: map[string]string{
			"purchase_type": purchase.Type,
			"object_id":     objectID.String(),
		},
	})
	if err != nil {
		return "", "", err
	}

	oid := objectID
	tx := &models.FlutterwaveTransaction{
		UserID:      userID,
		TxRef:       txRef,
		Amount:      purchase.Amount,
		Currency:    currency,
		Status:      "pending",
		PaymentType: "card",
		ObjectID:    &oid,
		ObjectType:  purchase.Type,
	}
	if err := s.paymentRepo.CreateFlutterwaveTransaction(tx); err != nil {
		return "", "", err
	}

	log.Info().Str("tx_ref", txRef).Str("purchase_type", purchase.Type).Msg("Flutterwave payment initiated")
	return resp.Data.Link, txRef, nil
}

// Verify checks a transaction with Flutterwave and records the outcome
func (s *FlutterwaveService) Verify(txRef string, transactionID int64) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("flutterwave is not configured")
	}

	resp, err := s.client.VerifyTransaction(transactionID)
	if err != nil {
		return "", err
	}

	status := "failed"
	if resp.Data.Status == "successful" && resp.Data.TxRef == txRef {
		status = "successful"
	}

	flwID := resp.Data.ID
	if err := s.paymentRepo.UpdateFlutterwaveStatus(txRef, status, &flwID); err != nil {
		return "", err
	}

	log.Info().Str("tx_ref", txRef).Str("status", status).Msg("Flutterwave transaction verified")
	return status, nil
}
