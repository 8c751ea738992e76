package services

import (
	"bytes"
	"errors"
	"testing"

	"langtouch/pkg/models"

	"github.com/google/uuid"
)

func TestBuildInstruction(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		amount       string
		purchaseType string
		reference    string
		want         string
		wantErr      bool
	}{
		{
			name:         "mpesa",
			method:       "M-Pesa",
			amount:       "15000",
			purchaseType: "video",
			reference:    "42",
			want:         "PAY TO 68088449 AMOUNT 15000 REFERENCE VIDEO42",
		},
		{
			name:         "airtel",
			method:       "Airtel Money",
			amount:       "5000",
			purchaseType: "course",
			reference:    "7",
			want:         "PAY TO +255784567890 AMOUNT 5000 REFERENCE COURSE7",
		},
		{
			name:         "method lookup is case-insensitive",
			method:       "m-pesa",
			amount:       "100",
			purchaseType: "booking",
			reference:    "1",
			want:         "PAY TO 68088449 AMOUNT 100 REFERENCE BOOKING1",
		},
		{
			name:    "unknown method",
			method:  "PayPal",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildInstruction(tt.method, tt.amount, tt.purchaseType, tt.reference)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownMethod) {
					t.Errorf("err = %v, want ErrUnknownMethod", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("instruction = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPaymentQRProducesPNG(t *testing.T) {
	qr := NewQRService()
	videoID := uuid.New()
	payment := &models.Payment{
		Amount:  "15000",
		Method:  &models.PaymentMethod{Name: "M-Pesa"},
		VideoID: &videoID,
	}

	png, err := qr.PaymentQR(payment, "video")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("output does not start with the PNG signature")
	}
}

func TestPaymentQRUnknownMethod(t *testing.T) {
	qr := NewQRService()
	videoID := uuid.New()
	payment := &models.Payment{
		Amount:  "100",
		Method:  &models.PaymentMethod{Name: "Cash"},
		VideoID: &videoID,
	}

	if _, err := qr.PaymentQR(payment, "video"); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("err = %v, want ErrUnknownMethod", err)
	}
}

func TestPaymentQRMissingMethod(t *testing.T) {
	qr := NewQRService()
	if _, err := qr.PaymentQR(&models.Payment{Amount: "100"}, "video"); err == nil {
		t.Error("expected error when payment has no method loaded")
	}
}

func TestPaymentQRPurchaseMismatch(t *testing.T) {
	qr := NewQRService()
	courseID := uuid.New()
	payment := &models.Payment{
		Amount:   "100",
		Method:   &models.PaymentMethod{Name: "M-Pesa"},
		CourseID: &courseID,
	}

	if _, err := qr.PaymentQR(payment, "video"); !errors.Is(err, ErrPurchaseMismatch) {
		t.Errorf("err = %v, want ErrPurchaseMismatch", err)
	}
}

func TestPurchaseObjectID(t *testing.T) {
	videoID := uuid.New()
	quoteID := uuid.New()
	payment := &models.Payment{VideoID: &videoID, QuoteRequestID: &quoteID}

	tests := []struct {
		purchaseType string
		want         uuid.UUID
		ok           bool
	}{
		{purchaseType: "video", want: videoID, ok: true},
		{purchaseType: "VIDEO", want: videoID, ok: true},
		{purchaseType: "quote", want: quoteID, ok: true},
		{purchaseType: "course", ok: false},
		{purchaseType: "subscription", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.purchaseType, func(t *testing.T) {
			got, ok := PurchaseObjectID(payment, tt.purchaseType)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("object id = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestKnownPurchaseType(t *testing.T) {
	for _, valid := range []string{"video", "course", "booking", "quote", "VIDEO"} {
		if !KnownPurchaseType(valid) {
			t.Errorf("KnownPurchaseType(%q) = false, want true", valid)
		}
	}
	for _, invalid := range []string{"", "subscription", "vid"} {
		if KnownPurchaseType(invalid) {
			t.Errorf("KnownPurchaseType(%q) = true, want false", invalid)
		}
	}
}
