package repo

import (
	"errors"

	"langtouch/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CurrencyRepository handles currency lookup data
type CurrencyRepository struct {
	db *gorm.DB
}

// NewCurrencyRepository creates a new currency repository
func NewCurrencyRepository(db *gorm.DB) *CurrencyRepository {
	return &CurrencyRepository{db: db}
}

// GetDefault returns the default currency
func (r *CurrencyRepository) GetDefault() (*models.Currency, error) {
	var currency models.Currency
	err := r.db.Where("is_default = true").First(&currency).Error
	if err != nil {
		return nil, err
	}
	return &currency, nil
}

// List lists all currencies
func (r *CurrencyRepository) List() ([]models.Currency, error) {
	var currencies []models.Currency
	err := r.db.Order("code ASC").Find(&currencies).Error
	return currencies, err
}

// PaymentMethodRepository handles payment method lookup data
type PaymentMethodRepository struct {
	db *gorm.DB
}

// NewPaymentMethodRepository creates a new payment method repository
func NewPaymentMethodRepository(db *gorm.DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

// GetByName gets an active payment method by name, case-insensitively
func (r *PaymentMethodRepository) GetByName(name string) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	err := r.db.Where("LOWER(name) = LOWER(?) AND is_active = true", name).First(&method).Error
	if err != nil {
		return nil, err
	}
	return &method, nil
}

// GetFirstActive returns any active method, used as a placeholder until the
// payer picks one
func (r *PaymentMethodRepository) GetFirstActive() (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	err := r.db.Where("is_active = true").Order("name ASC").First(&method).Error
	if err != nil {
		return nil, err
	}
	return &method, nil
}

// List lists all active payment methods
func (r *PaymentMethodRepository) List() ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	err := r.db.Where("is_active = true").Order("name ASC").Find(&methods).Error
	return methods, err
}

// PaymentRepository handles payment ledger data access
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// GetByID gets a payment by ID
func (r *PaymentRepository) GetByID(id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Preload("Currency").Preload("Method").
		Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByIDAndUser gets a payment by ID scoped to its owner
func (r *PaymentRepository) GetByIDAndUser(id, userID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// Create creates a new payment
func (r *PaymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// Update updates a payment
func (r *PaymentRepository) Update(payment *models.Payment) error {
	return r.db.Save(payment).Error
}

// GetOrCreateByReference returns the payment with the given reference number,
// creating it from the template on first use
func (r *PaymentRepository) GetOrCreateByReference(reference string, template *models.Payment) (*models.Payment, bool, error) {
	var payment models.Payment
	err := r.db.Where("reference_number = ?", reference).First(&payment).Error
	if err == nil {
		return &payment, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	template.ReferenceNumber = reference
	if err := r.db.Create(template).Error; err != nil {
		// Duplicate reference under concurrent creation; return the winner
		var existing models.Payment
		if ferr := r.db.Where("reference_number = ?", reference).First(&existing).Error; ferr == nil {
			return &existing, false, nil
		}
		return nil, false, err
	}
	return template, true, nil
}

// ListByUser lists the user's payments, newest first
func (r *PaymentRepository) ListByUser(userID uuid.UUID, limit, offset int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Preload("Currency").Preload("Method").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&payments).Error
	return payments, err
}

// UpdateStatusBatch sets status and confirmation flag on a set of payments.
// Returns the number of rows changed.
func (r *PaymentRepository) UpdateStatusBatch(ids []uuid.UUID, status string, confirmed bool) (int64, error) {
	result := r.db.Model(&models.Payment{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"status": status, "is_confirmed": confirmed})
	return result.RowsAffected, result.Error
}

// AppendTransaction appends a provider callback log entry to a payment
func (r *PaymentRepository) AppendTransaction(tx *models.PaymentTransaction) error {
	return r.db.Create(tx).Error
}

// ListTransactionsByUser lists provider transactions across the user's
// payments, newest first
func (r *PaymentRepository) ListTransactionsByUser(userID uuid.UUID, limit, offset int) ([]models.PaymentTransaction, error) {
	var transactions []models.PaymentTransaction
	err := r.db.Preload("Payment").
		Joins("JOIN payments ON payments.id = payment_transactions.payment_id").
		Where("payments.user_id = ?", userID).
		Order("payment_transactions.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&transactions).Error
	return transactions, err
}

// CreateFlutterwaveTransaction records an initiated Flutterwave transaction
func (r *PaymentRepository) CreateFlutterwaveTransaction(tx *models.FlutterwaveTransaction) error {
	return r.db.Create(tx).Error
}

// UpdateFlutterwaveStatus updates a Flutterwave transaction after verification
func (r *PaymentRepository) UpdateFlutterwaveStatus(txRef, status string, flwID *int64) error {
	updates := map[string]interface{}{"status": status}
	if flwID != nil {
		updates["flw_transaction_id"] = *flwID
	}
	result := r.db.Model(&models.FlutterwaveTransaction{}).
		Where("tx_ref = ?", txRef).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
