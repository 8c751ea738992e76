package auth

import (
	"errors"
	"os"
	"time"

	"langtouch/pkg/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service handles authentication logic
type Service struct {
	userRepo UserRepository
	roleRepo RoleReader
}

// UserRepository interface for user data access
type UserRepository interface {
	GetByEmail(email string) (*models.User, error)
	GetByID(id uuid.UUID) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	EmailExists(email string) (bool, error)
	UsernameExists(username string) (bool, error)
}

// RoleReader resolves the role names carried in token claims
type RoleReader interface {
	ListNamesByUser(userID uuid.UUID) ([]string, error)
}

// NewService creates a new auth service
func NewService(userRepo UserRepository, roleRepo RoleReader) *Service {
	return &Service{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

// LoginRequest represents login request data
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents login response data
type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         models.User `json:"user"`
	ExpiresIn    int64       `json:"expires_in"`
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	Email    string    `json:"email"`
	Username string    `json:"username"`
	Roles    []string  `json:"roles"`
	Type     string    `json:"type"` // access or refresh
	jwt.RegisteredClaims
}

// Register creates a new user account. Duplicate email and duplicate username
// surface as distinct errors so the form can point at the offending field.
func (s *Service) Register(req models.RegisterRequest) (*models.User, error) {
	if taken, err := s.userRepo.EmailExists(req.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, errors.New("this email is already registered")
	}

	if taken, err := s.userRepo.UsernameExists(req.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, errors.New("this username is already taken")
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
		IsActive: true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates a user and returns tokens
func (s *Service) Login(req LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}

	if !user.IsActive || user.IsBot {
		return nil, errors.New("invalid credentials")
	}

	if !s.verifyPassword(req.Password, user.Password) {
		return nil, errors.New("invalid credentials")
	}

	// Update last login
	now := time.Now()
	user.LastLoginAt = &now
	s.userRepo.Update(user)

	return s.buildLoginResponse(user)
}

// RefreshToken generates new tokens from a refresh token
func (s *Service) RefreshToken(tokenString string) (*LoginResponse, error) {
	claims, err := s.validateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Type != "refresh" {
		return nil, errors.New("invalid token type")
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if !user.IsActive {
		return nil, errors.New("user account is disabled")
	}

	return s.buildLoginResponse(user)
}

func (s *Service) buildLoginResponse(user *models.User) (*LoginResponse, error) {
	roles, err := s.roleRepo.ListNamesByUser(user.ID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.generateToken(user, roles, "access", getEnvOrDefault("JWT_ACCESS_DURATION", "15m"))
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateToken(user, roles, "refresh", getEnvOrDefault("JWT_REFRESH_DURATION", "168h"))
	if err != nil {
		return nil, err
	}

	accessDuration, _ := time.ParseDuration(getEnvOrDefault("JWT_ACCESS_DURATION", "15m"))

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *user,
		ExpiresIn:    int64(accessDuration.Seconds()),
	}, nil
}

// ValidateToken validates and parses a JWT token
func (s *Service) ValidateToken(tokenString string) (*TokenClaims, error) {
	return s.validateToken(tokenString)
}

// HashPassword hashes a password with bcrypt
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// UpdateProfile updates user profile information
func (s *Service) UpdateProfile(userID uuid.UUID, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	user.Email = req.Email
	user.FirstName = req.FirstName
	user.LastName = req.LastName

	if err := s.userRepo.Update(user); err != nil {
		return nil, errors.New("failed to update user profile")
	}
	return user, nil
}

// ChangePassword changes the user's password after verifying the current one
func (s *Service) ChangePassword(userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return errors.New("user not found")
	}

	if !s.verifyPassword(currentPassword, user.Password) {
		return errors.New("current password is incorrect")
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.Password = hash
	return s.userRepo.Update(user)
}

func (s *Service) verifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (s *Service) generateToken(user *models.User, roles []string, tokenType, durationStr string) (string, error) {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		duration = 15 * time.Minute
	}

	claims := TokenClaims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Roles:    roles,
		Type:     tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   user.ID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret()))
}

func (s *Service) validateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret()), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func jwtSecret() string {
	return getEnvOrDefault("JWT_SECRET", "development-secret-change-me")
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
