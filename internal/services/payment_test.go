package services

import (
	"errors"
	"mime/multipart"
	"strings"
	"testing"

	"langtouch/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestSelectionReference(t *testing.T) {
	userID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	objectID := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	got := SelectionReference(userID, "video", objectID)
	want := "TXN-11111111-2222-3333-4444-555555555555-VIDEO-aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"
	if got != want {
		t.Errorf("reference = %q, want %q", got, want)
	}
}

func TestSelectionReferenceIsStable(t *testing.T) {
	userID := uuid.New()
	objectID := uuid.New()

	first := SelectionReference(userID, "course", objectID)
	second := SelectionReference(userID, "Course", objectID)
	if first != second {
		t.Errorf("references differ for same selection: %q vs %q", first, second)
	}
}

func TestProviderReference(t *testing.T) {
	for _, prefix := range []string{"MPESA", "AIRTEL"} {
		ref := ProviderReference(prefix)

		if !strings.HasPrefix(ref, prefix+"-") {
			t.Errorf("reference %q does not start with %s-", ref, prefix)
		}
		suffix := strings.TrimPrefix(ref, prefix+"-")
		if len(suffix) != 8 {
			t.Errorf("suffix %q has length %d, want 8", suffix, len(suffix))
		}
		for _, r := range suffix {
			if !strings.ContainsRune("0123456789ABCDEF", r) {
				t.Errorf("suffix %q contains non-hex character %q", suffix, r)
			}
		}
	}
}

func TestProviderReferenceUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref := ProviderReference("MPESA")
		if seen[ref] {
			t.Fatalf("duplicate reference generated: %q", ref)
		}
		seen[ref] = true
	}
}

func TestProviderTable(t *testing.T) {
	tests := []struct {
		key        string
		methodName string
		prefix     string
		tag        string
	}{
		{key: "mpesa", methodName: "M-Pesa", prefix: "MPESA", tag: "SIMULATED_MPESA"},
		{key: "airtel", methodName: "Airtel Money", prefix: "AIRTEL", tag: "SIMULATED_AIRTEL"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			p, ok := providers[tt.key]
			if !ok {
				t.Fatalf("provider %q not registered", tt.key)
			}
			if p.MethodName != tt.methodName {
				t.Errorf("MethodName = %q, want %q", p.MethodName, tt.methodName)
			}
			if p.ReferencePrefix != tt.prefix {
				t.Errorf("ReferencePrefix = %q, want %q", p.ReferencePrefix, tt.prefix)
			}
			if p.ProviderTag != tt.tag {
				t.Errorf("ProviderTag = %q, want %q", p.ProviderTag, tt.tag)
			}
		})
	}

	if len(providers) != 2 {
		t.Errorf("provider table has %d entries, want 2", len(providers))
	}
}

type fakePaymentStore struct {
	payments map[uuid.UUID]*models.Payment
	byRef    map[string]uuid.UUID
	txs      []models.PaymentTransaction
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{
		payments: make(map[uuid.UUID]*models.Payment),
		byRef:    make(map[string]uuid.UUID),
	}
}

func (f *fakePaymentStore) GetByID(id uuid.UUID) (*models.Payment, error) {
	if p, ok := f.payments[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePaymentStore) GetByIDAndUser(id, userID uuid.UUID) (*models.Payment, error) {
	p, ok := f.payments[id]
	if !ok || p.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakePaymentStore) Update(payment *models.Payment) error {
	if _, ok := f.payments[payment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *payment
	f.payments[payment.ID] = &copied
	return nil
}

func (f *fakePaymentStore) GetOrCreateByReference(reference string, template *models.Payment) (*models.Payment, bool, error) {
	if id, ok := f.byRef[reference]; ok {
		copied := *f.payments[id]
		return &copied, false, nil
	}
	copied := *template
	copied.ID = uuid.New()
	copied.ReferenceNumber = reference
	f.payments[copied.ID] = &copied
	f.byRef[reference] = copied.ID
	out := copied
	return &out, true, nil
}

func (f *fakePaymentStore) ListByUser(userID uuid.UUID, limit, offset int) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range f.payments {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentStore) UpdateStatusBatch(ids []uuid.UUID, status string, confirmed bool) (int64, error) {
	var n int64
	for _, id := range ids {
		if p, ok := f.payments[id]; ok {
			p.Status = status
			p.IsConfirmed = confirmed
			n++
		}
	}
	return n, nil
}

func (f *fakePaymentStore) AppendTransaction(tx *models.PaymentTransaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	f.txs = append(f.txs, *tx)
	return nil
}

func (f *fakePaymentStore) ListTransactionsByUser(userID uuid.UUID, limit, offset int) ([]models.PaymentTransaction, error) {
	var out []models.PaymentTransaction
	for _, tx := range f.txs {
		if p, ok := f.payments[tx.PaymentID]; ok && p.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

type fakeCurrencyStore struct{ currency models.Currency }

func (f *fakeCurrencyStore) GetDefault() (*models.Currency, error) {
	copied := f.currency
	return &copied, nil
}

type fakeMethodStore struct{ methods []models.PaymentMethod }

func (f *fakeMethodStore) GetFirstActive() (*models.PaymentMethod, error) {
	for _, m := range f.methods {
		if m.IsActive {
			copied := m
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMethodStore) GetByName(name string) (*models.PaymentMethod, error) {
	for _, m := range f.methods {
		if m.Name == name {
			copied := m
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeCatalog struct{ videos map[uuid.UUID]*models.Video }

func (f *fakeCatalog) VideoByID(id uuid.UUID) (*models.Video, error) {
	if v, ok := f.videos[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCatalog) CourseByID(id uuid.UUID) (*models.Course, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCatalog) BookingByID(id uuid.UUID) (*models.Booking, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCatalog) QuoteRequestByID(id uuid.UUID) (*models.QuoteRequest, error) {
	return nil, gorm.ErrRecordNotFound
}

type fakeReceiptStore struct{ uploads int }

func (f *fakeReceiptStore) UploadMultipartFile(fileHeader *multipart.FileHeader, folder string) (string, error) {
	f.uploads++
	return "https://files.test/" + folder + "/" + fileHeader.Filename, nil
}

func newPaymentFixture() (*PaymentService, *fakePaymentStore, *fakeReceiptStore, uuid.UUID, uuid.UUID) {
	store := newFakePaymentStore()
	receipts := &fakeReceiptStore{}

	currency := models.Currency{Code: "TZS", Symbol: "TSh", IsDefault: true}
	currency.ID = uuid.New()
	mpesa := models.PaymentMethod{Name: "M-Pesa", IsActive: true}
	mpesa.ID = uuid.New()

	video := &models.Video{Title: "Swahili basics", Price: "5000"}
	video.ID = uuid.New()
	catalog := &fakeCatalog{videos: map[uuid.UUID]*models.Video{video.ID: video}}

	svc := NewPaymentService(
		store,
		&fakeCurrencyStore{currency: currency},
		&fakeMethodStore{methods: []models.PaymentMethod{mpesa}},
		catalog,
		receipts,
	)
	return svc, store, receipts, uuid.New(), video.ID
}

func TestSelectIsIdempotent(t *testing.T) {
	svc, store, _, userID, videoID := newPaymentFixture()

	first, _, err := svc.Select(userID, "video", videoID)
	if err != nil {
		t.Fatalf("first Select: %v", err)
	}
	second, _, err := svc.Select(userID, "video", videoID)
	if err != nil {
		t.Fatalf("second Select: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("repeated selection produced a new payment: %s vs %s", first.ID, second.ID)
	}
	if len(store.payments) != 1 {
		t.Errorf("store holds %d payments, want 1", len(store.payments))
	}
	if want := SelectionReference(userID, "VIDEO", videoID); first.ReferenceNumber != want {
		t.Errorf("reference = %q, want %q", first.ReferenceNumber, want)
	}
	if first.Status != models.PaymentStatusPending {
		t.Errorf("status = %q, want %q", first.Status, models.PaymentStatusPending)
	}
	if first.VideoID == nil || *first.VideoID != videoID {
		t.Errorf("payment not linked to the selected video: %v", first.VideoID)
	}
}

func TestPayWithProviderSettlesPayment(t *testing.T) {
	svc, store, _, userID, videoID := newPaymentFixture()

	pending, _, err := svc.Select(userID, "video", videoID)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	paid, tx, err := svc.PayWithProvider(userID, pending.ID, "mpesa", "+255712345678")
	if err != nil {
		t.Fatalf("PayWithProvider: %v", err)
	}

	if paid.Status != models.PaymentStatusCompleted || !paid.IsConfirmed {
		t.Errorf("payment not settled: status=%q confirmed=%v", paid.Status, paid.IsConfirmed)
	}
	if !strings.HasPrefix(paid.ReferenceNumber, "MPESA-") {
		t.Errorf("reference %q lacks provider prefix", paid.ReferenceNumber)
	}
	if tx.ProviderStatus != "SUCCESS" || tx.PaymentID != paid.ID {
		t.Errorf("transaction not recorded against the payment: %+v", tx)
	}
	if stored := store.payments[pending.ID]; stored.Status != models.PaymentStatusCompleted {
		t.Errorf("stored payment status = %q, want %q", stored.Status, models.PaymentStatusCompleted)
	}

	if _, _, err := svc.PayWithProvider(userID, pending.ID, "mpesa", "+255712345678"); !errors.Is(err, ErrPaymentSettled) {
		t.Errorf("second charge error = %v, want ErrPaymentSettled", err)
	}
}

func TestUploadReceiptReopensSettledPayment(t *testing.T) {
	svc, store, receipts, userID, videoID := newPaymentFixture()

	pending, _, err := svc.Select(userID, "video", videoID)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if _, _, err := svc.PayWithProvider(userID, pending.ID, "mpesa", "+255712345678"); err != nil {
		t.Fatalf("PayWithProvider: %v", err)
	}

	updated, err := svc.UploadReceipt(userID, pending.ID, &multipart.FileHeader{Filename: "receipt.png"})
	if err != nil {
		t.Fatalf("UploadReceipt: %v", err)
	}

	if updated.Status != models.PaymentStatusPending || updated.IsConfirmed {
		t.Errorf("payment not back in review: status=%q confirmed=%v", updated.Status, updated.IsConfirmed)
	}
	if updated.ReceiptURL == "" || !strings.Contains(updated.ReceiptURL, "receipt.png") {
		t.Errorf("receipt URL not recorded: %q", updated.ReceiptURL)
	}
	if receipts.uploads != 1 {
		t.Errorf("upload called %d times, want 1", receipts.uploads)
	}
	if stored := store.payments[pending.ID]; stored.Status != models.PaymentStatusPending {
		t.Errorf("stored payment status = %q, want %q", stored.Status, models.PaymentStatusPending)
	}
}
