package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestResolvePurchaseUnknownType(t *testing.T) {
	_, err := ResolvePurchase(nil, "subscription", uuid.New())
	if !errors.Is(err, ErrUnknownPurchaseType) {
		t.Errorf("err = %v, want ErrUnknownPurchaseType", err)
	}
}

func TestPurchaseTypeTable(t *testing.T) {
	want := []string{
		PurchaseTypeVideo,
		PurchaseTypeCourse,
		PurchaseTypeBooking,
		PurchaseTypeQuote,
	}

	if len(purchaseTypes) != len(want) {
		t.Errorf("registry has %d types, want %d", len(purchaseTypes), len(want))
	}
	for _, tag := range want {
		if _, ok := purchaseTypes[tag]; !ok {
			t.Errorf("type %q missing from registry", tag)
		}
	}
}
