package service

import (
	"errors"
	"keepify/internal/domain" // Domain models
	"keepify/internal/utils"  // JWT helpers
	"strings"
	"time"

	"github.com/sirupsen/logrus" // Structured logging
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// AuthService verifies identity and mints session tokens.
type AuthService struct {
	DB        *gorm.DB
	JWTSecret string
	JWTExpiry time.Duration
}

func NewAuthService(db *gorm.DB, secret string, expiry time.Duration) *AuthService {
	return &AuthService{DB: db, JWTSecret: secret, JWTExpiry: expiry}
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// NormalizeEmail is the canonical form used for storage and lookup.
// Uniqueness is therefore case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// optional turns a trimmed string into a nullable column value.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Register creates a user with default role and active flag. The returned
// user never carries the plaintext password; the hash is excluded from
// serialization by the model.
func (s *AuthService) Register(in RegisterInput) (*domain.User, error) {
	email := NormalizeEmail(in.Email)
	var existing domain.User
	if err := s.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := domain.User{
		Email:     email,
		Password:  string(hash),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Phone:     optional(in.Phone),
		Address:   optional(in.Address),
		Role:      domain.RoleUser,
		IsActive:  true,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		// Unique-index race: two concurrent registrations for the same email
		return nil, ErrEmailTaken
	}
	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User registered")
	return &user, nil
}

// Login verifies credentials and issues a token. Unknown email, wrong
// password and inactive account all yield the same ErrInvalidCredentials so
// the response does not reveal which check failed.
func (s *AuthService) Login(email, password string) (string, *domain.User, error) {
	var user domain.User
	if err := s.DB.Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, ErrInvalidCredentials
	}
	token, err := utils.GenerateJWT(user.ID, user.Email, user.Role, s.JWTSecret, s.JWTExpiry)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// UserByID looks a user up by primary key. The authentication middleware
// calls this per request so role and active-status changes take effect
// immediately instead of being cached in the token.
func (s *AuthService) UserByID(id uint) (*domain.User, error) {
	var user domain.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
