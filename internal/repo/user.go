package repo

import (
	"errors"
	"time"

	"langtouch/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository handles user data access
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID gets a user by ID
func (r *UserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername gets a user by username
func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create creates a new user
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update updates a user
func (r *UserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// EmailExists checks whether an email is already registered
func (r *UserRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// UsernameExists checks whether a username is already taken
func (r *UserRepository) UsernameExists(username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// List lists users with pagination
func (r *UserRepository) List(limit, offset int) (models.PaginationResult[models.User], error) {
	var users []models.User
	var total int64

	if err := r.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return models.PaginationResult[models.User]{}, err
	}

	err := r.db.Preload("Roles").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&users).Error
	if err != nil {
		return models.PaginationResult[models.User]{}, err
	}

	page := 1
	totalPages := 1
	if limit > 0 {
		page = (offset / limit) + 1
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return models.PaginationResult[models.User]{
		Data:       users,
		Total:      total,
		Page:       page,
		PerPage:    limit,
		TotalPages: totalPages,
	}, nil
}

// GetOrCreateBot returns the AI assistant user, creating it on first use
func (r *UserRepository) GetOrCreateBot(username, email, passwordHash string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{
		Username:  username,
		Email:     email,
		Password:  passwordHash,
		FirstName: "LangTouch",
		LastName:  "AI Assistant",
		IsActive:  true,
		IsBot:     true,
	}
	if err := r.db.Create(&user).Error; err != nil {
		// Lost a creation race; the row exists now
		if ferr := r.db.Where("username = ?", username).First(&user).Error; ferr == nil {
			return &user, nil
		}
		return nil, err
	}
	return &user, nil
}

// RoleRepository handles role data access
type RoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// GetByID gets a role by ID
func (r *RoleRepository) GetByID(id uuid.UUID) (*models.Role, error) {
	var role models.Role
	err := r.db.Where("id = ?", id).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// GetOrCreateByName returns the role with the given name, creating it if needed
func (r *RoleRepository) GetOrCreateByName(name string) (*models.Role, error) {
	var role models.Role
	err := r.db.Where("name = ?", name).First(&role).Error
	if err == nil {
		return &role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role = models.Role{Name: name}
	if err := r.db.Create(&role).Error; err != nil {
		if ferr := r.db.Where("name = ?", name).First(&role).Error; ferr == nil {
			return &role, nil
		}
		return nil, err
	}
	return &role, nil
}

// List lists all roles
func (r *RoleRepository) List() ([]models.Role, error) {
	var roles []models.Role
	err := r.db.Order("name ASC").Find(&roles).Error
	return roles, err
}

// ListNamesByUser returns the role names assigned to a user
func (r *RoleRepository) ListNamesByUser(userID uuid.UUID) ([]string, error) {
	var names []string
	err := r.db.Table("user_roles").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id = ?", userID).
		Pluck("roles.name", &names).Error
	return names, err
}

// Assign assigns a role to a user. The operation is idempotent: assigning an
// existing pair updates the row's timestamp instead of duplicating it.
// Returns true when a new assignment row was created.
func (r *RoleRepository) Assign(userID, roleID uuid.UUID) (bool, error) {
	var userRole models.UserRole
	err := r.db.Where("user_id = ? AND role_id = ?", userID, roleID).First(&userRole).Error
	if err == nil {
		return false, r.db.Model(&models.UserRole{}).
			Where("user_id = ? AND role_id = ?", userID, roleID).
			Update("updated_at", time.Now()).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	userRole = models.UserRole{UserID: userID, RoleID: roleID}
	if err := r.db.Create(&userRole).Error; err != nil {
		return false, err
	}
	return true, nil
}
