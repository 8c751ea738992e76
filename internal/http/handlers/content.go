package handlers

import (
	"errors"
	"net/http"

	"langtouch/internal/services"
	"langtouch/pkg/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContentHandler handles contact, rating, notification and SEO endpoints
type ContentHandler struct {
	contentService *services.ContentService
}

// NewContentHandler creates a new content handler
func NewContentHandler(contentService *services.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// SubmitContact godoc
// @Summary Submit a contact message
// @Tags content
// @Accept json
// @Produce json
// @Param request body models.ContactMessage true "Contact message"
// @Success 201 {object} models.ContactMessage
// @Failure 400 {object} map[string]string
// @Router /contact [post]
func (h *ContentHandler) SubmitContact(c echo.Context) error {
	var message models.ContactMessage
	if err := c.Bind(&message); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&message); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.contentService.SubmitContact(&message); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to submit message"})
	}

	return c.JSON(http.StatusCreated, message)
}

// ListContacts godoc
// @Summary List contact messages (admin)
// @Tags content
// @Produce json
// @Success 200 {array} models.ContactMessage
// @Router /admin/contacts [get]
func (h *ContentHandler) ListContacts(c echo.Context) error {
	limit, offset := paginationParams(c)
	messages, err := h.contentService.ListContacts(limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list messages"})
	}
	return c.JSON(http.StatusOK, messages)
}

// ReplyToContact godoc
// @Summary Reply to a contact message (admin)
// @Tags content
// @Accept json
// @Produce json
// @Param id path string true "Contact message ID"
// @Success 200 {object} models.ContactMessage
// @Failure 404 {object} map[string]string
// @Router /admin/contacts/{id}/reply [post]
func (h *ContentHandler) ReplyToContact(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid contact ID"})
	}

	var req struct {
		Reply string `json:"reply" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	message, err := h.contentService.ReplyToContact(id, req.Reply)
	if err != nil {
		if errors.Is(err, services.ErrContactNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to reply"})
	}

	return c.JSON(http.StatusOK, message)
}

// SubmitRating godoc
// @Summary Submit a site rating
// @Description One rating per user, score 1 to 5
// @Tags content
// @Accept json
// @Produce json
// @Success 201 {object} models.Rating
// @Failure 400 {object} map[string]string
// @Router /ratings [post]
func (h *ContentHandler) SubmitRating(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID format"})
	}

	var req struct {
		Score    int    `json:"score" validate:"required,min=1,max=5"`
		Feedback string `json:"feedback"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	rating, err := h.contentService.SubmitRating(userID, req.Score, req.Feedback)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyRated) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to submit rating"})
	}

	return c.JSON(http.StatusCreated, rating)
}

// RecentRatings godoc
// @Summary List recent ratings
// @Tags content
// @Produce json
// @Success 200 {array} models.Rating
// @Router /ratings [get]
func (h *ContentHandler) RecentRatings(c echo.Context) error {
	limit, _ := paginationParams(c)
	ratings, err := h.contentService.RecentRatings(limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list ratings"})
	}
	return c.JSON(http.StatusOK, ratings)
}

// Notifications godoc
// @Summary List the user's notifications
// @Tags content
// @Produce json
// @Success 200 {array} models.Notification
// @Router /notifications [get]
func (h *ContentHandler) Notifications(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID format"})
	}

	limit, offset := paginationParams(c)
	notifications, err := h.contentService.Notifications(userID, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list notifications"})
	}
	return c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead godoc
// @Summary Mark a notification read
// @Tags content
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} map[string]string
// @Router /notifications/{id}/read [put]
func (h *ContentHandler) MarkNotificationRead(c echo.Context) error {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID format"})
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid notification ID"})
	}

	if err := h.contentService.MarkNotificationRead(id, userID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to mark notification read"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Notification marked read"})
}

// PageSEO godoc
// @Summary SEO metadata for a page type
// @Tags content
// @Produce json
// @Param page_type path string true "Page type"
// @Success 200 {object} models.SEO
// @Failure 404 {object} map[string]string
// @Router /seo/{page_type} [get]
func (h *ContentHandler) PageSEO(c echo.Context) error {
	seo, err := h.contentService.PageSEO(c.Param("page_type"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No SEO metadata for page"})
	}
	return c.JSON(http.StatusOK, seo)
}

// SaveSEO godoc
// @Summary Create or update SEO metadata (admin)
// @Tags content
// @Accept json
// @Produce json
// @Param request body models.SEO true "SEO metadata"
// @Success 200 {object} models.SEO
// @Failure 400 {object} map[string]string
// @Router /admin/seo [post]
func (h *ContentHandler) SaveSEO(c echo.Context) error {
	var seo models.SEO
	if err := c.Bind(&seo); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := c.Validate(&seo); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.contentService.SaveSEO(&seo); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save SEO metadata"})
	}
	return c.JSON(http.StatusOK, seo)
}

// ListSEO godoc
// @Summary List SEO records (admin)
// @Tags content
// @Produce json
// @Success 200 {array} models.SEO
// @Router /admin/seo [get]
func (h *ContentHandler) ListSEO(c echo.Context) error {
	limit, offset := paginationParams(c)
	records, err := h.contentService.ListSEO(limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list SEO records"})
	}
	return c.JSON(http.StatusOK, records)
}

// DeleteSEO godoc
// @Summary Delete an SEO record (admin)
// @Tags content
// @Produce json
// @Param id path string true "SEO record ID"
// @Success 200 {object} map[string]string
// @Router /admin/seo/{id} [delete]
func (h *ContentHandler) DeleteSEO(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid SEO record ID"})
	}

	if err := h.contentService.DeleteSEO(id); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete SEO record"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "SEO record deleted"})
}
