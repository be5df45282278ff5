package auth

import (
	"context" // Request scoped queries

	"vegetable_inventory/internal/domain" // Importing domain models

	"github.com/pkg/errors" // Error wrapping
	"gorm.io/gorm"          // GORM ORM library
)

// ErrUserNotFound is returned when no user has the requested name
var ErrUserNotFound = errors.New("user not found")

// UserRepository is the storage contract for users
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByName(ctx context.Context, name string) (*domain.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a UserRepository backed by GORM
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts user, returning ErrDuplicateUser when the name is taken
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUser
		}
		return errors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByName looks a user up by exact name
func (r *userRepository) GetByName(ctx context.Context, name string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "failed to get user")
	}
	return &user, nil
}
