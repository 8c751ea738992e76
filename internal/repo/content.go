package repo

import (
	"langtouch/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactMessageRepository handles contact form data access
type ContactMessageRepository struct {
	db *gorm.DB
}

// NewContactMessageRepository creates a new contact message repository
func NewContactMessageRepository(db *gorm.DB) *ContactMessageRepository {
	return &ContactMessageRepository{db: db}
}

// Create stores a new contact message
func (r *ContactMessageRepository) Create(message *models.ContactMessage) error {
	return r.db.Create(message).Error
}

// GetByID gets a contact message by ID
func (r *ContactMessageRepository) GetByID(id uuid.UUID) (*models.ContactMessage, error) {
	var message models.ContactMessage
	if err := r.db.Where("id = ?", id).First(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// Update updates a contact message
func (r *ContactMessageRepository) Update(message *models.ContactMessage) error {
	return r.db.Save(message).Error
}

// List lists contact messages, newest first
func (r *ContactMessageRepository) List(limit, offset int) ([]models.ContactMessage, error) {
	var messages []models.ContactMessage
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&messages).Error
	return messages, err
}

// RatingRepository handles rating data access
type RatingRepository struct {
	db *gorm.DB
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// GetByUser returns the user's rating if one exists
func (r *RatingRepository) GetByUser(userID uuid.UUID) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.Where("user_id = ?", userID).First(&rating).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

// Create stores a new rating
func (r *RatingRepository) Create(rating *models.Rating) error {
	return r.db.Create(rating).Error
}

// ListRecent lists the most recent ratings
func (r *RatingRepository) ListRecent(limit int) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.Preload("User").Order("created_at DESC").Limit(limit).Find(&ratings).Error
	return ratings, err
}

// NotificationRepository handles notification data access
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create stores a new notification
func (r *NotificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// ListByUser lists a user's notifications, newest first
func (r *NotificationRepository) ListByUser(userID uuid.UUID, limit, offset int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notifications).Error
	return notifications, err
}

// MarkRead marks a user's notification as read
func (r *NotificationRepository) MarkRead(id, userID uuid.UUID) error {
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("status", "Read")
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SEORepository handles SEO metadata data access
type SEORepository struct {
	db *gorm.DB
}

// NewSEORepository creates a new SEO repository
func NewSEORepository(db *gorm.DB) *SEORepository {
	return &SEORepository{db: db}
}

// GetActiveByPageType returns the active SEO record for a page type
func (r *SEORepository) GetActiveByPageType(pageType string) (*models.SEO, error) {
	var seo models.SEO
	err := r.db.Where("page_type = ? AND is_active = true", pageType).
		Order("updated_at DESC").
		First(&seo).Error
	if err != nil {
		return nil, err
	}
	return &seo, nil
}

// Create stores a new SEO record
func (r *SEORepository) Create(seo *models.SEO) error {
	seo.FillDerivedFields()
	return r.db.Create(seo).Error
}

// Update updates an SEO record
func (r *SEORepository) Update(seo *models.SEO) error {
	seo.FillDerivedFields()
	return r.db.Save(seo).Error
}

// Delete deletes an SEO record (soft delete)
func (r *SEORepository) Delete(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.SEO{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List lists SEO records, most recently updated first
func (r *SEORepository) List(limit, offset int) ([]models.SEO, error) {
	var seos []models.SEO
	err := r.db.Order("updated_at DESC").Limit(limit).Offset(offset).Find(&seos).Error
	return seos, err
}
