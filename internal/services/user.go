package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/RobinJoby/food-surplus-platform/internal/geo"
	"github.com/RobinJoby/food-surplus-platform/internal/models"
	"github.com/RobinJoby/food-surplus-platform/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles registration, login and profile business logic
type UserService struct {
	userRepo  *repository.UserRepository
	jwtSecret string
	jwtExpiry time.Duration
}

// NewUserService creates a new user service
func NewUserService(userRepo *repository.UserRepository, jwtSecret string, expiryHours int) *UserService {
	return &UserService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		jwtExpiry: time.Duration(expiryHours) * time.Hour,
	}
}

// RegisterInput carries a registration submission
type RegisterInput struct {
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	Role      models.Role `json:"role"`
	Phone     *string     `json:"phone,omitempty"`
	Latitude  *float64    `json:"latitude,omitempty"`
	Longitude *float64    `json:"longitude,omitempty"`
	Address   *string     `json:"address,omitempty"`
}

// Validate checks a registration submission before any database access
func (in *RegisterInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return validationf("name is required")
	}
	if strings.TrimSpace(in.Email) == "" {
		return validationf("email is required")
	}
	if in.Password == "" {
		return validationf("password is required")
	}
	if !models.ValidRole(in.Role) {
		return validationf("invalid role")
	}
	if err := validateOptionalCoordinates(in.Latitude, in.Longitude); err != nil {
		return err
	}
	return nil
}

func validateOptionalCoordinates(lat, lon *float64) error {
	if (lat == nil) != (lon == nil) {
		return validationf("latitude and longitude must be provided together")
	}
	if lat != nil && !geo.ValidCoordinates(*lat, *lon) {
		return validationf("invalid coordinates")
	}
	return nil
}

// Register creates a new account and returns it with a signed token
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	if err := in.Validate(); err != nil {
		return nil, "", err
	}

	exists, err := s.userRepo.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, "", validationf("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		Phone:        in.Phone,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		Address:      in.Address,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.GenerateJWT(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// Login verifies credentials and returns the user with a signed token
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", validationf("email and password are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", ErrForbidden)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", ErrForbidden)
	}

	token, err := s.GenerateJWT(user.ID, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// GetProfile retrieves a user by id
func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr("user", err)
	}
	return user, nil
}

// UpdateProfileInput carries a profile update. Nil fields are left untouched.
type UpdateProfileInput struct {
	Name        *string  `json:"name,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	Address     *string  `json:"address,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	DeviceToken *string  `json:"device_token,omitempty"`
}

// UpdateProfile applies a partial profile update
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr("user", err)
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, validationf("name cannot be empty")
		}
		user.Name = *in.Name
	}
	if in.Phone != nil {
		user.Phone = in.Phone
	}
	if in.Address != nil {
		user.Address = in.Address
	}
	if in.Latitude != nil || in.Longitude != nil {
		if err := validateOptionalCoordinates(in.Latitude, in.Longitude); err != nil {
			return nil, err
		}
		user.Latitude = in.Latitude
		user.Longitude = in.Longitude
	}
	if in.DeviceToken != nil {
		user.DeviceToken = in.DeviceToken
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

// ListUsers retrieves users for the admin view, optionally filtered by role
func (s *UserService) ListUsers(ctx context.Context, role *models.Role, limit, offset int) ([]*models.User, int, error) {
	if role != nil && !models.ValidRole(*role) {
		return nil, 0, validationf("invalid role")
	}
	return s.userRepo.List(ctx, role, limit, offset)
}

// GenerateJWT generates a signed token carrying the user id and role
func (s *UserService) GenerateJWT(userID string, role models.Role) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a token and returns the user id and role it carries
func (s *UserService) ValidateJWT(tokenString string) (string, models.Role, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", "", fmt.Errorf("user_id not found in token")
	}
	roleStr, ok := claims["role"].(string)
	if !ok || !models.ValidRole(models.Role(roleStr)) {
		return "", "", fmt.Errorf("role not found in token")
	}

	return userID, models.Role(roleStr), nil
}
