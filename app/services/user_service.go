package services

import (
	"errors"
	"fmt"

	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/app/repositories"
	"github.com/chenweihao/weishop/pkg/auth"
	"github.com/chenweihao/weishop/pkg/logger"
	"github.com/chenweihao/weishop/pkg/orm"
	"gorm.io/gorm"
)

// UserService is the admin view over accounts: listing, locking and
// password resets. Self-service account changes live in AuthService.
type UserService struct {
	users *repositories.UserRepository
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{users: repositories.NewUserRepository(db)}
}

// List returns a user page, optionally filtered by name or email.
func (s *UserService) List(page, size int, search string) ([]models.User, orm.Pagination, error) {
	page, size = orm.ClampPage(page, size)
	return s.users.List(page, size, search)
}

// Get returns one account.
func (s *UserService) Get(id uint) (models.User, error) {
	user, err := s.users.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrNotFound
	}
	return user, err
}

// Lock bars an account from logging in. Existing tokens stop working at
// the next refresh.
func (s *UserService) Lock(id uint) error {
	return s.setLocked(id, true)
}

// Unlock lets a locked account log in again.
func (s *UserService) Unlock(id uint) error {
	return s.setLocked(id, false)
}

func (s *UserService) setLocked(id uint, locked bool) error {
	user, err := s.Get(id)
	if err != nil {
		return err
	}
	if user.IsLocked == locked {
		return nil
	}

	user.IsLocked = locked
	if err := s.users.Save(&user); err != nil {
		return fmt.Errorf("lock user %d: %w", id, err)
	}

	logger.Info("user lock changed", "user_id", id, "locked", locked)
	return nil
}

// ResetPassword sets a new password on the account.
func (s *UserService) ResetPassword(id uint, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	user, err := s.Get(id)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	user.Password = hash
	if err := s.users.Save(&user); err != nil {
		return fmt.Errorf("reset password for user %d: %w", id, err)
	}

	logger.Info("password reset", "user_id", id)
	return nil
}
