package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/webshop/internal/hash"
	"github.com/Skotchmaster/webshop/internal/models"
)

// FindRefreshToken looks a presented refresh token up by its hash.
func (r *GormRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("token_hash = ?", hash.Token(token)).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *GormRepo) FindRefreshTokenByUser(ctx context.Context, userID uuid.UUID) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *GormRepo) InsertRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *GormRepo) DeleteRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	res := r.DB.WithContext(ctx).Where("id = ?", t.ID).Delete(&models.RefreshToken{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceRefreshToken stores t as the user's only refresh token in one statement.
// Concurrent callers for the same user leave exactly one row; the last writer wins.
func (r *GormRepo) ReplaceRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"id", "token_hash", "created_at", "expires_at"}),
	}).Create(t).Error
}
