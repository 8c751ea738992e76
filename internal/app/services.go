package app

import (
	"os"

	"langtouch/internal/ai"
	"langtouch/internal/auth"
	"langtouch/internal/flutterwave"
	"langtouch/internal/repo"
	"langtouch/internal/services"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Services holds all application services
type Services struct {
	DB                 *gorm.DB
	AuthService        *auth.Service
	RoleService        *services.RoleService
	ChatService        *services.ChatService
	PaymentService     *services.PaymentService
	QRService          *services.QRService
	FlutterwaveService *services.FlutterwaveService
	ContentService     *services.ContentService
	StorageService     *services.StorageService
	EmailService       *services.EmailService

	UserRepo         *repo.UserRepository
	RoleRepo         *repo.RoleRepository
	ConversationRepo *repo.ConversationRepository
	MessageRepo      *repo.MessageRepository
	PaymentRepo      *repo.PaymentRepository
	CatalogRepo      *repo.CatalogRepository
}

// NewServices creates a new services container
func NewServices(db *gorm.DB) *Services {
	userRepo := repo.NewUserRepository(db)
	roleRepo := repo.NewRoleRepository(db)
	conversationRepo := repo.NewConversationRepository(db)
	messageRepo := repo.NewMessageRepository(db)
	currencyRepo := repo.NewCurrencyRepository(db)
	methodRepo := repo.NewPaymentMethodRepository(db)
	paymentRepo := repo.NewPaymentRepository(db)
	catalogRepo := repo.NewCatalogRepository(db)
	contactRepo := repo.NewContactMessageRepository(db)
	ratingRepo := repo.NewRatingRepository(db)
	notificationRepo := repo.NewNotificationRepository(db)
	seoRepo := repo.NewSEORepository(db)

	authService := auth.NewService(userRepo, roleRepo)
	roleService := services.NewRoleService(userRepo, roleRepo)

	// AI responder is optional, conversations degrade to fallback replies
	var responder services.AIResponder
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		r, err := ai.NewResponder(apiKey)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize AI responder")
		} else {
			responder = r
		}
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, AI assistant disabled")
	}

	chatService := services.NewChatService(conversationRepo, messageRepo, userRepo, responder)

	// Receipt storage is optional, only assigned to the interface on success
	var receipts services.ReceiptStore
	storageService, err := services.NewStorageService()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize storage service")
	} else {
		receipts = storageService
	}

	emailService, err := services.NewEmailService()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize email service")
	}

	paymentService := services.NewPaymentService(paymentRepo, currencyRepo, methodRepo, catalogRepo, receipts)
	qrService := services.NewQRService()

	var flwClient *flutterwave.Client
	if c, err := flutterwave.NewClient(); err != nil {
		log.Warn().Err(err).Msg("Flutterwave client disabled")
	} else {
		flwClient = c
	}
	flutterwaveService := services.NewFlutterwaveService(
		flwClient, paymentRepo, catalogRepo, userRepo, os.Getenv("FLUTTERWAVE_REDIRECT_URL"))

	contentService := services.NewContentService(contactRepo, ratingRepo, notificationRepo, seoRepo, emailService)

	return &Services{
		DB:                 db,
		AuthService:        authService,
		RoleService:        roleService,
		ChatService:        chatService,
		PaymentService:     paymentService,
		QRService:          qrService,
		FlutterwaveService: flutterwaveService,
		ContentService:     contentService,
		StorageService:     storageService,
		EmailService:       emailService,

		UserRepo:         userRepo,
		RoleRepo:         roleRepo,
		ConversationRepo: conversationRepo,
		MessageRepo:      messageRepo,
		PaymentRepo:      paymentRepo,
		CatalogRepo:      catalogRepo,
	}
}
