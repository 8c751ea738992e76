package handlers

import (
	"errors"
	"net/http"

	"langtouch/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// PaymentHandler handles payment ledger endpoints
type PaymentHandler struct {
	paymentService     *services.PaymentService
	qrService          *services.QRService
	flutterwaveService *services.FlutterwaveService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(
	paymentService *services.PaymentService,
	qrService *services.QRService,
	flutterwaveService *services.FlutterwaveService,
) *PaymentHandler {
	return &PaymentHandler{
		paymentService:     paymentService,
		qrService:          qrService,
		flutterwaveService: flutterwaveService,
	}
}

// SelectPaymentRequest identifies the object being paid for
type SelectPaymentRequest struct {
	PurchaseType string `json:"purchase_type" validate:"required"`
	ObjectID     string `json:"object_id" validate:"required"`
}

// PayRequest carries the simulated mobile money charge parameters
type PayRequest struct {
	Provider    string `json:"provider" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
}

// BatchStatusRequest carries the payment IDs for an admin batch action
type BatchStatusRequest struct {
	PaymentIDs []string `json:"payment_ids" validate:"required,min=1"`
}

// InitiateCardRequest starts a Flutterwave hosted checkout
type InitiateCardRequest struct {
	PurchaseType string `json:"purchase_type" validate:"required"`
	ObjectID     string `json:"object_id" validate:"required"`
	Currency     string `json:"currency"`
}

// Select godoc
// @Summary Select an object for payment
// @Description Gets or creates the pending payment for a purchasable object
// @Tags payments
// @Accept json
// @Produce json
// @Param request body SelectPaymentRequest true "Purchase selection"
// @Success 200 {object} models.Payment
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /payments/select [post]
func (h *PaymentHandler) Select(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID format"})
	}

	var req SelectPaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	objectID, err := uuid.Parse(req.ObjectID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid object ID"})
	}

	payment, purchase, err := h.paymentService.Select(userID, req.PurchaseType, objectID)
	if err != nil {
		if errors.Is(err, services.ErrUnknownPurchaseType) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Purchase object not found"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"payment":     payment,
		"description": purchase.Description,
	})
}

// Pay godoc
// @Summary Pay with a mobile money provider
// @Description Simulates an M-Pesa or Airtel Money charge and settles the payment
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Payment ID"
// @Param request body PayRequest true "Provider and phone number"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /payments/{id}/pay [post]
func (h *PaymentHandler) Pay(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID format"})
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid payment ID"})
	}

	var req PayRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	payment, tx, err := h.paymentService.PayWithProvider(userID, paymentID, req.Provider, req.PhoneNumber)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownProvider), errors.Is(err, services.ErrPaymentSettled):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		case errors.Is(err, services.ErrPaymentNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Payment failed"})
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"payment":     payment,
		"transaction": tx,
	})
}

// UploadReceipt godoc
// @Summary Upload a payment receipt
// @Description Stores the receipt and returns the payment to pending review
// @Tags payments
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Payment ID"
// @Param receipt formData file true "Receipt image or PDF"
// @Success 200 {object} models.Payment
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /payments/{id}/receipt [post]
func (h *PaymentHandler) UploadReceipt(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID format"})
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid payment ID"})
	}

	file, err := c.FormFile("receipt")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Receipt file is required"})
	}

	payment, err := h.paymentService.UploadReceipt(userID, paymentID, file)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, payment)
}

// QR godoc
// @Summary Payment QR code
// @Description Returns a PNG QR image with the payment instruction
// @Tags payments
// @Produce png
// @Param id path string true "Payment ID"
// @Param purchase_type query string true "Purchase type"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /payments/{id}/qr [get]
func (h *PaymentHandler) QR(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID format"})
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid payment ID"})
	}

	purchaseType := c.QueryParam("purchase_type")
	if !services.KnownPurchaseType(purchaseType) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown purchase type"})
	}

	payment, err := h.paymentService.Get(userID, paymentID)
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load payment"})
	}

	png, err := h.qrService.PaymentQR(payment, purchaseType)
	if err != nil {
		if errors.Is(err, services.ErrUnknownMethod) || errors.Is(err, services.ErrPurchaseMismatch) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate QR code"})
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// History godoc
// @Summary Payment history
// @Description Lists the user's payments, newest first
// @Tags payments
// @Produce json
// @Success 200 {array} models.Payment
// @Router /payments [get]
func (h *PaymentHandler) History(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID format"})
	}

	limit, offset := paginationParams(c)
	payments, err := h.paymentService.History(userID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load payments"})
	}

	return c.JSON(http.StatusOK, payments)
}

// Transactions godoc
// @Summary Provider transaction history
// @Tags payments
// @Produce json
// @Success 200 {array} models.PaymentTransaction
// @Router /payments/transactions [get]
func (h *PaymentHandler) Transactions(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID format"})
	}

	limit, offset := paginationParams(c)
	transactions, err := h.paymentService.Transactions(userID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to load transactions"})
	}

	return c.JSON(http.StatusOK, transactions)
}

// Confirm godoc
// @Summary Confirm payments (admin)
// @Description Marks the given payments completed and confirmed
// @Tags payments
// @Accept json
// @Produce json
// @Param request body BatchStatusRequest true "Payment IDs"
// @Success 200 {object} map[string]int64
// @Failure 400 {object} map[string]string
// @Router /admin/payments/confirm [post]
func (h *PaymentHandler) Confirm(c echo.Context) error {
	return h.batchStatus(c, h.paymentService.Confirm)
}

// Reject godoc
// @Summary Reject payments (admin)
// @Description Marks the given payments rejected
// @Tags payments
// @Accept json
// @Produce json
// @Param request body BatchStatusRequest true "Payment IDs"
// @Success 200 {object} map[string]int64
// @Failure 400 {object} map[string]string
// @Router /admin/payments/reject [post]
func (h *PaymentHandler) Reject(c echo.Context) error {
	return h.batchStatus(c, h.paymentService.Reject)
}

func (h *PaymentHandler) batchStatus(c echo.Context, apply func([]uuid.UUID) (int64, error)) error {
	var req BatchStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ids := make([]uuid.UUID, 0, len(req.PaymentIDs))
	for _, raw := range req.PaymentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid payment ID: " + raw})
		}
		ids = append(ids, id)
	}

	updated, err := apply(ids)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update payments"})
	}

	return c.JSON(http.StatusOK, map[string]int64{"updated": updated})
}

// InitiateCard godoc
// @Summary Start a card payment via Flutterwave
// @Tags payments
// @Accept json
// @Produce json
// @Param request body InitiateCardRequest true "Purchase selection"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /payments/card/initiate [post]
func (h *PaymentHandler) InitiateCard(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID format"})
	}

	if !h.flutterwaveService.Enabled() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Card payments are not available"})
	}

	var req InitiateCardRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	objectID, err := uuid.Parse(req.ObjectID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid object ID"})
	}

	link, txRef, err := h.flutterwaveService.Initiate(userID, req.PurchaseType, objectID, req.Currency)
	if err != nil {
		if errors.Is(err, services.ErrUnknownPurchaseType) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to initiate card payment"})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"checkout_link": link,
		"tx_ref":        txRef,
	})
}

// VerifyCard godoc
// @Summary Verify a card payment
// @Tags payments
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /payments/card/verify [post]
func (h *PaymentHandler) VerifyCard(c echo.Context) error {
	var req struct {
		TxRef         string `json:"tx_ref" validate:"required"`
		TransactionID int64  `json:"transaction_id" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	status, err := h.flutterwaveService.Verify(req.TxRef, req.TransactionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Verification failed"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": status})
}
