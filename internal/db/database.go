package db

import (
	"fmt"
	"os"

	"langtouch/pkg/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase creates a new database connection
func NewDatabase() (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		os.Getenv("DB_TIMEZONE"),
	)

	gormLogger := logger.Default.LogMode(logger.Error)

	config := &gorm.Config{
		Logger:                                   gormLogger,
		DisableForeignKeyConstraintWhenMigrating: false,
	}

	db, err := gorm.Open(postgres.Open(dsn), config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// AutoMigrate runs database migrations using GORM
func AutoMigrate(db *gorm.DB) error {
	log.Info().Msg("Running GORM AutoMigrate...")

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		log.Warn().Err(err).Msg("Could not create uuid-ossp extension")
	}

	if err := db.AutoMigrate(models.GetAllModels()...); err != nil {
		return fmt.Errorf("failed to run GORM AutoMigrate: %w", err)
	}

	if err := createCustomIndexes(db); err != nil {
		log.Warn().Err(err).Msg("Failed to create some custom indexes")
	}

	log.Info().Msg("GORM AutoMigrate completed successfully")
	return nil
}

// createCustomIndexes creates any custom indexes that GORM might not handle
func createCustomIndexes(db *gorm.DB) error {
	indexes := []string{
		// One conversation per canonical participant pair
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_conversations_pair ON conversations(participant1_id, participant2_id)`,

		// One role assignment per user/role pair
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_user_roles_unique ON user_roles(user_id, role_id)`,

		// Unread counters per conversation
		`CREATE INDEX IF NOT EXISTS idx_messages_unread ON messages(conversation_id, is_read) WHERE is_read = false`,

		// Pending payment review queue
		`CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status) WHERE status = 'Pending'`,

		// One active SEO record lookup per page type
		`CREATE INDEX IF NOT EXISTS idx_seos_page_active ON seos(page_type) WHERE is_active = true`,
	}

	for _, idx := range indexes {
		if err := db.Exec(idx).Error; err != nil {
			log.Warn().Err(err).Str("index", idx).Msg("Failed to create index")
		}
	}

	return nil
}

// RunMigrations migrates the schema and seeds initial data
func RunMigrations(db *gorm.DB) error {
	if err := AutoMigrate(db); err != nil {
		return err
	}
	return SeedInitialData(db)
}

// SeedInitialData creates the roles, currency, payment methods and admin user
// the application depends on
func SeedInitialData(db *gorm.DB) error {
	log.Info().Msg("Seeding initial data...")

	for _, name := range []string{"Client", "Admin"} {
		role := models.Role{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", name, err)
		}
	}

	var currencyCount int64
	if err := db.Model(&models.Currency{}).Count(&currencyCount).Error; err != nil {
		return fmt.Errorf("failed to check currencies: %w", err)
	}
	if currencyCount == 0 {
		currency := models.Currency{Code: "TZS", Symbol: "TSh", IsDefault: true}
		if err := db.Create(&currency).Error; err != nil {
			return fmt.Errorf("failed to seed default currency: %w", err)
		}
		log.Info().Str("code", currency.Code).Msg("Default currency created")
	}

	for _, name := range []string{"M-Pesa", "Airtel Money"} {
		method := models.PaymentMethod{Name: name, IsActive: true}
		if err := db.Where("name = ?", name).FirstOrCreate(&method).Error; err != nil {
			return fmt.Errorf("failed to seed payment method %s: %w", name, err)
		}
	}

	var adminCount int64
	if err := db.Model(&models.User{}).
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.name = ?", "Admin").
		Count(&adminCount).Error; err != nil {
		return fmt.Errorf("failed to check existing admins: %w", err)
	}

	if adminCount == 0 {
		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		adminUser := models.User{
			Username: "admin",
			Email:    "admin@langtouch.com",
			Password: string(hash),
			IsActive: true,
		}
		if err := db.Where("email = ?", adminUser.Email).FirstOrCreate(&adminUser).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		var adminRole models.Role
		if err := db.Where("name = ?", "Admin").First(&adminRole).Error; err != nil {
			return fmt.Errorf("failed to load admin role: %w", err)
		}
		assignment := models.UserRole{UserID: adminUser.ID, RoleID: adminRole.ID}
		if err := db.Where("user_id = ? AND role_id = ?", adminUser.ID, adminRole.ID).
			FirstOrCreate(&assignment).Error; err != nil {
			return fmt.Errorf("failed to assign admin role: %w", err)
		}

		log.Info().Str("email", adminUser.Email).Msg("Admin user created")
	}

	log.Info().Msg("Initial data seeding completed")
	return nil
}
