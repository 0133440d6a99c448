package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/pkg/database"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := database.Conn(ctx, r.db).Where("email = ?", email).First(&user).Error
	return user, wrap("find user by email", err)
}

// Create persists a new user record.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return wrap("create user", database.Conn(ctx, r.db).Create(user).Error)
}

// FirstOrCreate returns the user with user.Email, creating it when missing.
func (r *UserRepository) FirstOrCreate(ctx context.Context, user *models.User) error {
	err := database.Conn(ctx, r.db).
		Where(models.User{Email: user.Email}).
		Attrs(models.User{Name: user.Name, Password: user.Password}).
		FirstOrCreate(user).Error
	return wrap("first or create user", err)
}
