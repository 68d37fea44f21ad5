package repositories

import (
	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/pkg/orm"
	"gorm.io/gorm"
)

// AddressRepository handles database operations for Address.
type AddressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

// FindOwned looks up a non-deleted address owned by userID.
func (r *AddressRepository) FindOwned(id, userID uint) (models.Address, error) {
	var address models.Address
	err := r.db.Scopes(orm.NotDeleted).
		Where("id = ? AND user_id = ?", id, userID).
		First(&address).Error
	return address, err
}

// ListByUser returns the user's non-deleted addresses, default first,
// then newest first.
func (r *AddressRepository) ListByUser(userID uint) ([]models.Address, error) {
	var addresses []models.Address
	err := r.db.Scopes(orm.NotDeleted).
		Where("user_id = ?", userID).
		Order("is_default DESC, id DESC").
		Find(&addresses).Error
	return addresses, err
}

// CountDefaults returns how many non-deleted default addresses the user
// has. The invariant keeps this at zero or one.
func (r *AddressRepository) CountDefaults(userID uint) (int64, error) {
	var n int64
	err := r.db.Model(&models.Address{}).
		Scopes(orm.NotDeleted).
		Where("user_id = ? AND is_default = ?", userID, true).
		Count(&n).Error
	return n, err
}
