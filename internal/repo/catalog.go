package repo

import (
	"langtouch/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogRepository handles access to the purchasable objects
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// VideoByID gets a video by ID
func (r *CatalogRepository) VideoByID(id uuid.UUID) (*models.Video, error) {
	var video models.Video
	if err := r.db.Where("id = ?", id).First(&video).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

// CourseByID gets a course by ID
func (r *CatalogRepository) CourseByID(id uuid.UUID) (*models.Course, error) {
	var course models.Course
	if err := r.db.Where("id = ?", id).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// BookingByID gets a booking by ID
func (r *CatalogRepository) BookingByID(id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

// QuoteRequestByID gets a quote request by ID
func (r *CatalogRepository) QuoteRequestByID(id uuid.UUID) (*models.QuoteRequest, error) {
	var quote models.QuoteRequest
	if err := r.db.Where("id = ?", id).First(&quote).Error; err != nil {
		return nil, err
	}
	return &quote, nil
}
