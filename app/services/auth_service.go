package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/staydesk/staydesk/app/models"
	"github.com/staydesk/staydesk/app/repositories"
	"github.com/staydesk/staydesk/pkg/auth"
)

type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{users: repositories.NewUserRepository(db)}
}

// Login checks the credentials and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", models.User{}, err
	}
	if !auth.CheckPassword(user.Password, password) {
		return "", models.User{}, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		return "", models.User{}, err
	}
	return token, user, nil
}

// IssueToken mints a token for an existing user without a password check.
// Used by the token:issue command.
func (s *AuthService) IssueToken(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return auth.GenerateToken(user.ID, user.Email)
}
