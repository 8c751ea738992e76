package services

import (
	"errors"
	"fmt"
	"strings"

	"langtouch/pkg/models"

	"github.com/google/uuid"
)

// Purchase type tags accepted by the payment endpoints. The set is closed:
// dispatch happens through purchaseTypes and nothing else.
const (
	PurchaseTypeVideo   = "video"
	PurchaseTypeCourse  = "course"
	PurchaseTypeBooking = "booking"
	PurchaseTypeQuote   = "quote"
)

var ErrUnknownPurchaseType = errors.New("unknown purchase type")

// Catalog resolves purchasable objects by ID
type Catalog interface {
	VideoByID(id uuid.UUID) (*models.Video, error)
	CourseByID(id uuid.UUID) (*models.Course, error)
	BookingByID(id uuid.UUID) (*models.Booking, error)
	QuoteRequestByID(id uuid.UUID) (*models.QuoteRequest, error)
}

// Purchase is a resolved payable object, normalized across catalog types
type Purchase struct {
	Type        string
	ObjectID    uuid.UUID
	Description string
	Amount      string
	attach      func(p *models.Payment)
}

// Attach sets the foreign key on the payment matching the purchase type
func (pu *Purchase) Attach(p *models.Payment) {
	pu.attach(p)
}

// purchaseSpec resolves one purchase type against the catalog
type purchaseSpec struct {
	resolve func(c Catalog, id uuid.UUID) (*Purchase, error)
}

var purchaseTypes = map[string]purchaseSpec{
	PurchaseTypeVideo: {resolve: func(c Catalog, id uuid.UUID) (*Purchase, error) {
		v, err := c.VideoByID(id)
		if err != nil {
			return nil, err
		}
		return &Purchase{
			Type:        PurchaseTypeVideo,
			ObjectID:    v.ID,
			Description: fmt.Sprintf("Video: %s", v.Title),
			Amount:      v.Price,
			attach:      func(p *models.Payment) { vid := v.ID; p.VideoID = &vid },
		}, nil
	}},
	PurchaseTypeCourse: {resolve: func(c Catalog, id uuid.UUID) (*Purchase, error) {
		co, err := c.CourseByID(id)
		if err != nil {
			return nil, err
		}
		return &Purchase{
			Type:        PurchaseTypeCourse,
			ObjectID:    co.ID,
			Description: fmt.Sprintf("Course: %s", co.Title),
			Amount:      co.Price,
			attach:      func(p *models.Payment) { cid := co.ID; p.CourseID = &cid },
		}, nil
	}},
	PurchaseTypeBooking: {resolve: func(c Catalog, id uuid.UUID) (*Purchase, error) {
		b, err := c.BookingByID(id)
		if err != nil {
			return nil, err
		}
		return &Purchase{
			Type:        PurchaseTypeBooking,
			ObjectID:    b.ID,
			Description: fmt.Sprintf("Booking: %s", b.Service),
			Amount:      b.Amount,
			attach:      func(p *models.Payment) { bid := b.ID; p.BookingID = &bid },
		}, nil
	}},
	PurchaseTypeQuote: {resolve: func(c Catalog, id uuid.UUID) (*Purchase, error) {
		q, err := c.QuoteRequestByID(id)
		if err != nil {
			return nil, err
		}
		return &Purchase{
			Type:        PurchaseTypeQuote,
			ObjectID:    q.ID,
			Description: fmt.Sprintf("Quote: %s to %s", q.SourceLanguage, q.TargetLanguage),
			Amount:      q.Amount,
			attach:      func(p *models.Payment) { qid := q.ID; p.QuoteRequestID = &qid },
		}, nil
	}},
}

// ResolvePurchase looks up a payable object by type tag and ID
func ResolvePurchase(catalog Catalog, purchaseType string, objectID uuid.UUID) (*Purchase, error) {
	spec, ok := purchaseTypes[strings.ToLower(purchaseType)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPurchaseType, purchaseType)
	}
	return spec.resolve(catalog, objectID)
}

// KnownPurchaseType reports whether the tag belongs to the closed set
func KnownPurchaseType(purchaseType string) bool {
	_, ok := purchaseTypes[strings.ToLower(purchaseType)]
	return ok
}

// PurchaseObjectID returns the catalog object a payment references for the
// given type tag, false when the payment carries no such reference.
func PurchaseObjectID(p *models.Payment, purchaseType string) (uuid.UUID, bool) {
	var id *uuid.UUID
	switch strings.ToLower(purchaseType) {
	case PurchaseTypeVideo:
		id = p.VideoID
	case PurchaseTypeCourse:
		id = p.CourseID
	case PurchaseTypeBooking:
		id = p.BookingID
	case PurchaseTypeQuote:
		id = p.QuoteRequestID
	}
	if id == nil {
		return uuid.Nil, false
	}
	return *id, true
}
