package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/webshop/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExist   = errors.New("user already exist")
)

// CredentialStore is the persistence the authentication service depends on.
type CredentialStore interface {
	FindUserByCredentials(ctx context.Context, username, password string) (*models.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)
	FindRefreshTokenByUser(ctx context.Context, userID uuid.UUID) (*models.RefreshToken, error)
	InsertRefreshToken(ctx context.Context, t *models.RefreshToken) error
	DeleteRefreshToken(ctx context.Context, t *models.RefreshToken) error
	ReplaceRefreshToken(ctx context.Context, t *models.RefreshToken) error
}

type GormRepo struct {
	DB *gorm.DB
}

var _ CredentialStore = (*GormRepo)(nil)
