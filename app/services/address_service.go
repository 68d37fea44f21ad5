package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/app/repositories"
	"gorm.io/gorm"
)

func nowUTC() time.Time { return time.Now().UTC() }

// AddressInput carries the writable address fields.
type AddressInput struct {
	ContactName   string
	PhoneNumber   string
	Province      string
	City          string
	StreetAddress string
	PostalCode    string
	IsDefault     bool
}

// AddressService owns the address book and its single invariant: a user
// has at most one non-deleted default address. Every path that can mint
// a new default first unsets the others inside the same transaction.
// Removing or un-defaulting the sole default is allowed; nothing gets
// auto-promoted in its place.
type AddressService struct {
	db        *gorm.DB
	addresses *repositories.AddressRepository
}

func NewAddressService(db *gorm.DB) *AddressService {
	return &AddressService{db: db, addresses: repositories.NewAddressRepository(db)}
}

// List returns the user's addresses, default first.
func (s *AddressService) List(userID uint) ([]models.Address, error) {
	return s.addresses.ListByUser(userID)
}

// Get returns one address scoped to its owner.
func (s *AddressService) Get(id, userID uint) (models.Address, error) {
	address, err := s.addresses.FindOwned(id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Address{}, ErrNotFound
	}
	return address, err
}

// Create adds a new address. If it is flagged default, every other
// default of the user is unset in the same transaction.
func (s *AddressService) Create(userID uint, in AddressInput) (models.Address, error) {
	address := models.Address{
		UserID:        userID,
		ContactName:   in.ContactName,
		PhoneNumber:   in.PhoneNumber,
		Province:      in.Province,
		City:          in.City,
		StreetAddress: in.StreetAddress,
		PostalCode:    in.PostalCode,
		IsDefault:     in.IsDefault,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if in.IsDefault {
			if err := unsetDefaults(tx, userID, 0); err != nil {
				return err
			}
		}
		if err := tx.Create(&address).Error; err != nil {
			return fmt.Errorf("create address: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Address{}, err
	}
	return address, nil
}

// Update overwrites an address's fields. Turning IsDefault on demotes
// the previous default; turning it off may leave the user with none.
func (s *AddressService) Update(id, userID uint, in AddressInput) (models.Address, error) {
	address, err := s.addresses.FindOwned(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Address{}, ErrNotFound
		}
		return models.Address{}, fmt.Errorf("update address: %w", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if in.IsDefault && !address.IsDefault {
			if err := unsetDefaults(tx, userID, address.ID); err != nil {
				return err
			}
		}

		address.ContactName = in.ContactName
		address.PhoneNumber = in.PhoneNumber
		address.Province = in.Province
		address.City = in.City
		address.StreetAddress = in.StreetAddress
		address.PostalCode = in.PostalCode
		address.IsDefault = in.IsDefault

		if err := tx.Save(&address).Error; err != nil {
			return fmt.Errorf("save address: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Address{}, err
	}
	return address, nil
}

// Delete soft-deletes an address. A deleted address is never the
// default, so the flag is cleared in the same write.
func (s *AddressService) Delete(id, userID uint) error {
	address, err := s.addresses.FindOwned(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete address: %w", err)
	}

	address.IsDeleted = true
	address.IsDefault = false
	if err := s.db.Save(&address).Error; err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	return nil
}

// SetDefault makes the given address the user's default.
func (s *AddressService) SetDefault(id, userID uint) error {
	address, err := s.addresses.FindOwned(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("set default address: %w", err)
	}
	if address.IsDefault {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := unsetDefaults(tx, userID, address.ID); err != nil {
			return err
		}
		if err := tx.Model(&models.Address{}).
			Where("id = ?", address.ID).
			Update("is_default", true).Error; err != nil {
			return fmt.Errorf("set default address: %w", err)
		}
		return nil
	})
}

// unsetDefaults clears the default flag on every non-deleted address of
// the user except exceptID (0 = no exception).
func unsetDefaults(tx *gorm.DB, userID, exceptID uint) error {
	q := tx.Model(&models.Address{}).
		Where("user_id = ? AND is_default = ? AND is_deleted = ?", userID, true, false)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Update("is_default", false).Error; err != nil {
		return fmt.Errorf("unset default addresses: %w", err)
	}
	return nil
}
