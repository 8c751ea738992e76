package services

import (
	"errors"

	"langtouch/pkg/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DefaultRoleName is the role every new account receives
const DefaultRoleName = "Client"

// Role assignment errors, kept distinct so handlers can report precisely
// which input was wrong.
var (
	ErrInvalidID    = errors.New("invalid user or role ID provided")
	ErrUserNotFound = errors.New("user not found")
	ErrRoleNotFound = errors.New("role not found")
)

// UserLookup resolves users by ID
type UserLookup interface {
	GetByID(id uuid.UUID) (*models.User, error)
}

// RoleStore is the role persistence the assignment flow depends on
type RoleStore interface {
	GetOrCreateByName(name string) (*models.Role, error)
	GetByID(id uuid.UUID) (*models.Role, error)
	List() ([]models.Role, error)
	Assign(userID, roleID uuid.UUID) (bool, error)
}

// RoleService handles role assignment
type RoleService struct {
	userRepo UserLookup
	roleRepo RoleStore
}

// NewRoleService creates a new role service
func NewRoleService(userRepo UserLookup, roleRepo RoleStore) *RoleService {
	return &RoleService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

// AssignDefault attaches the default Client role to a user. Called explicitly
// by the registration flow so the dependency stays visible and testable.
func (s *RoleService) AssignDefault(userID uuid.UUID) error {
	role, err := s.roleRepo.GetOrCreateByName(DefaultRoleName)
	if err != nil {
		return err
	}
	if _, err := s.roleRepo.Assign(userID, role.ID); err != nil {
		return err
	}
	log.Info().Str("user_id", userID.String()).Str("role", role.Name).Msg("Default role assigned")
	return nil
}

// Assign assigns a role to a user by their string IDs. Idempotent: assigning
// an already-held role bumps the join row's timestamp. Returns whether a new
// assignment was created, plus the resolved user and role for messaging.
func (s *RoleService) Assign(userIDStr, roleIDStr string) (bool, *models.User, *models.Role, error) {
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return false, nil, nil, ErrInvalidID
	}
	roleID, err := uuid.Parse(roleIDStr)
	if err != nil {
		return false, nil, nil, ErrInvalidID
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, nil, ErrUserNotFound
		}
		return false, nil, nil, err
	}

	role, err := s.roleRepo.GetByID(roleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, nil, ErrRoleNotFound
		}
		return false, nil, nil, err
	}

	created, err := s.roleRepo.Assign(user.ID, role.ID)
	if err != nil {
		return false, nil, nil, err
	}
	return created, user, role, nil
}

// ListRoles lists all roles
func (s *RoleService) ListRoles() ([]models.Role, error) {
	return s.roleRepo.List()
}
