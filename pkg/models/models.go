package models

// PaginationResult represents paginated results
type PaginationResult[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}

// GetAllModels returns all models for GORM AutoMigrate
func GetAllModels() []interface{} {
	return []interface{}{
		// Identity models
		&User{},
		&Role{},
		&UserRole{},

		// Messaging models
		&Conversation{},
		&Message{},

		// Catalog models
		&Video{},
		&Course{},
		&Booking{},
		&QuoteRequest{},

		// Payment models
		&Currency{},
		&PaymentMethod{},
		&Payment{},
		&PaymentTransaction{},
		&Refund{},
		&FlutterwaveTransaction{},

		// Content models
		&ContactMessage{},
		&Notification{},
		&Rating{},
		&SEO{},
	}
}
