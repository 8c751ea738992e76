package services

import (
	"errors"

	"langtouch/internal/repo"
	"langtouch/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrAlreadyRated    = errors.New("you have already submitted a rating")
	ErrContactNotFound = errors.New("contact message not found")
)

// ContentService covers the site content surface: contact messages, ratings,
// notifications and SEO metadata
type ContentService struct {
	contactRepo      *repo.ContactMessageRepository
	ratingRepo       *repo.RatingRepository
	notificationRepo *repo.NotificationRepository
	seoRepo          *repo.SEORepository
	email            *EmailService // nil when email is not configured
}

// NewContentService creates a new content service
func NewContentService(
	contactRepo *repo.ContactMessageRepository,
	ratingRepo *repo.RatingRepository,
	notificationRepo *repo.NotificationRepository,
	seoRepo *repo.SEORepository,
	email *EmailService,
) *ContentService {
	return &ContentService{
		contactRepo:      contactRepo,
		ratingRepo:       ratingRepo,
		notificationRepo: notificationRepo,
		seoRepo:          seoRepo,
		email:            email,
	}
}

// SubmitContact stores a visitor's contact message
func (s *ContentService) SubmitContact(message *models.ContactMessage) error {
	return s.contactRepo.Create(message)
}

// ListContacts lists contact messages, newest first
func (s *ContentService) ListContacts(limit, offset int) ([]models.ContactMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.contactRepo.List(limit, offset)
}

// ReplyToContact records the admin reply and emails the visitor when email is
// configured
func (s *ContentService) ReplyToContact(id uuid.UUID, reply string) (*models.ContactMessage, error) {
	message, err := s.contactRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}

	message.Reply = reply
	message.Replied = true
	if err := s.contactRepo.Update(message); err != nil {
		return nil, err
	}

	if s.email != nil {
		if err := s.email.SendContactReply(message.Email, message.Name, reply); err != nil {
			log.Warn().Err(err).Str("email", message.Email).Msg("Failed to email contact reply")
		}
	}

	return message, nil
}

// SubmitRating records a user's rating once
func (s *ContentService) SubmitRating(userID uuid.UUID, score int, feedback string) (*models.Rating, error) {
	if _, err := s.ratingRepo.GetByUser(userID); err == nil {
		return nil, ErrAlreadyRated
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rating := &models.Rating{
		UserID:   userID,
		Score:    score,
		Feedback: feedback,
	}
	if err := s.ratingRepo.Create(rating); err != nil {
		return nil, err
	}
	return rating, nil
}

// RecentRatings lists the newest ratings
func (s *ContentService) RecentRatings(limit int) ([]models.Rating, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.ratingRepo.ListRecent(limit)
}

// Notify records a notification for a user
func (s *ContentService) Notify(userID uuid.UUID, notificationType, message string) error {
	return s.notificationRepo.Create(&models.Notification{
		UserID:  userID,
		Message: message,
		Type:    notificationType,
		Status:  "Unread",
	})
}

// Notifications lists a user's notifications, newest first
func (s *ContentService) Notifications(userID uuid.UUID, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.notificationRepo.ListByUser(userID, limit, offset)
}

// MarkNotificationRead marks one of the user's notifications read
func (s *ContentService) MarkNotificationRead(id, userID uuid.UUID) error {
	return s.notificationRepo.MarkRead(id, userID)
}

// PageSEO returns the active SEO metadata for a page type
func (s *ContentService) PageSEO(pageType string) (*models.SEO, error) {
	return s.seoRepo.GetActiveByPageType(pageType)
}

// SaveSEO creates or updates SEO metadata, filling derived fields from the
// meta tags
func (s *ContentService) SaveSEO(seo *models.SEO) error {
	if seo.ID == uuid.Nil {
		return s.seoRepo.Create(seo)
	}
	return s.seoRepo.Update(seo)
}

// ListSEO lists SEO records
func (s *ContentService) ListSEO(limit, offset int) ([]models.SEO, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.seoRepo.List(limit, offset)
}

// DeleteSEO deletes an SEO record
func (s *ContentService) DeleteSEO(id uuid.UUID) error {
	return s.seoRepo.Delete(id)
}
