package handlers

import (
	"langtouch/internal/app"
	"langtouch/internal/http/middleware"

	"github.com/labstack/echo/v4"
)

// SetupRoutes sets up all API routes
func SetupRoutes(api *echo.Group, services *app.Services) {
	authHandler := NewAuthHandler(services.AuthService, services.RoleService)
	messagingHandler := NewMessagingHandler(services.ChatService)
	paymentHandler := NewPaymentHandler(services.PaymentService, services.QRService, services.FlutterwaveService)
	contentHandler := NewContentHandler(services.ContentService)
	wsHandler := NewWSHandler(services.AuthService, services.ChatService)

	// Public routes
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	api.POST("/contact", contentHandler.SubmitContact)
	api.GET("/ratings", contentHandler.RecentRatings)
	api.GET("/seo/:page_type", contentHandler.PageSEO)

	// WebSocket endpoint (authenticates via query parameter)
	api.GET("/ws/ai", wsHandler.HandleAIStream)

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.JWTAuth(services.AuthService))

	profileAuth := protected.Group("/auth")
	profileAuth.PUT("/profile", authHandler.UpdateProfile)
	profileAuth.PUT("/change-password", authHandler.ChangePassword)

	// Messaging
	protected.GET("/inbox", messagingHandler.Inbox)
	protected.GET("/messages/sent", messagingHandler.SentMessages)
	protected.GET("/messages/:conversation_id", messagingHandler.ConversationMessages)
	protected.POST("/messages/:conversation_id", messagingHandler.SendToConversation)
	protected.POST("/messages/to/:username", messagingHandler.SendToUsername)

	// AI assistant
	protected.POST("/ai/start", messagingHandler.StartAIConversation)
	protected.POST("/ai/chat", messagingHandler.AIChat)

	// Payments
	protected.GET("/payments", paymentHandler.History)
	protected.GET("/payments/transactions", paymentHandler.Transactions)
	protected.POST("/payments/select", paymentHandler.Select)
	protected.POST("/payments/:id/pay", paymentHandler.Pay)
	protected.POST("/payments/:id/receipt", paymentHandler.UploadReceipt)
	protected.GET("/payments/:id/qr", paymentHandler.QR)
	protected.POST("/payments/card/initiate", paymentHandler.InitiateCard)
	protected.POST("/payments/card/verify", paymentHandler.VerifyCard)

	// Content
	protected.POST("/ratings", contentHandler.SubmitRating)
	protected.GET("/notifications", contentHandler.Notifications)
	protected.PUT("/notifications/:id/read", contentHandler.MarkNotificationRead)

	// Admin routes
	admin := protected.Group("/admin")
	admin.Use(middleware.AdminOnly())
	admin.GET("/roles", authHandler.ListRoles)
	admin.POST("/roles/assign", authHandler.AssignRole)
	admin.POST("/payments/confirm", paymentHandler.Confirm)
	admin.POST("/payments/reject", paymentHandler.Reject)
	admin.GET("/contacts", contentHandler.ListContacts)
	admin.POST("/contacts/:id/reply", contentHandler.ReplyToContact)
	admin.GET("/seo", contentHandler.ListSEO)
	admin.POST("/seo", contentHandler.SaveSEO)
	admin.DELETE("/seo/:id", contentHandler.DeleteSEO)
}
