package repositories

import (
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
)

// UserRepository handles database operations for User.
type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	err := orm.DB().Model(&models.User{}).Where("email = ?", email).First(&user)
	return user, err
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(id uint) (models.User, error) {
	var user models.User
	err := orm.DB().Model(&models.User{}).Where("id = ?", id).First(&user)
	return user, err
}

// ExistsByEmail reports whether an account already uses email.
func (r *UserRepository) ExistsByEmail(email string) (bool, error) {
	n, err := orm.DB().Model(&models.User{}).Where("email = ?", email).Count()
	return n > 0, err
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return orm.DB().Create(user)
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(user *models.User) error {
	return orm.DB().Save(user)
}

// Count returns the total number of users.
func (r *UserRepository) Count() (int64, error) {
	return orm.DB().Model(&models.User{}).Count()
}
