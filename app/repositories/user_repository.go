package repositories

import (
	"github.com/chenweihao/weishop/app/models"
	"github.com/chenweihao/weishop/pkg/orm"
	"gorm.io/gorm"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	return user, err
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(id uint) (models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	return user, err
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Save persists changes to an existing user.
func (r *UserRepository) Save(user *models.User) error {
	return r.db.Save(user).Error
}

// List returns a user page, optionally filtered by a name or email
// substring. Admin use.
func (r *UserRepository) List(page, size int, search string) ([]models.User, orm.Pagination, error) {
	query := r.db.Model(&models.User{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", like, like)
	}
	query = query.Order("id DESC")

	var users []models.User
	pagination, err := orm.Paginate(query, page, size, &users)
	return users, pagination, err
}
