package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/app/repositories"
	"github.com/chenweihao/weishop/pkg/auth"
	"github.com/chenweihao/weishop/pkg/logger"
	"gorm.io/gorm"
)

// TokenPair is what a successful login or refresh hands back.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService handles registration, login and token refresh.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{users: repositories.NewUserRepository(db)}
}

// Register creates a customer account. Emails are unique; the password
// is stored bcrypt-hashed.
func (s *AuthService) Register(name, email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.users.FindByEmail(email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, fmt.Errorf("register: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("register: hash password: %w", err)
	}

	user := models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, fmt.Errorf("register: %w", err)
	}

	logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login verifies the credentials and issues a token pair. A wrong email
// and a wrong password return the same error.
func (s *AuthService) Login(email, password string) (models.User, TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, TokenPair{}, ErrBadCredentials
		}
		return models.User{}, TokenPair{}, fmt.Errorf("login: %w", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return models.User{}, TokenPair{}, ErrBadCredentials
	}
	if user.IsLocked {
		return models.User{}, TokenPair{}, ErrAccountLocked
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh trades a valid refresh token for a new pair. The user is
// reloaded so a lock or role change since issuance takes effect.
func (s *AuthService) Refresh(refreshToken string) (TokenPair, error) {
	claims, err := auth.ValidateToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrBadCredentials
	}

	user, err := s.users.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TokenPair{}, ErrBadCredentials
		}
		return TokenPair{}, fmt.Errorf("refresh: %w", err)
	}
	if user.IsLocked {
		return TokenPair{}, ErrAccountLocked
	}

	return s.issueTokens(user)
}

// Profile returns the account behind a token's user id.
func (s *AuthService) Profile(userID uint) (models.User, error) {
	user, err := s.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrNotFound
	}
	return user, err
}

func (s *AuthService) issueTokens(user models.User) (TokenPair, error) {
	access, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
