package persistent

import (
	"context"
	"time"

	"geosocial/services/geosocial/internal/entity"
	"geosocial/services/geosocial/internal/model"

	"gorm.io/gorm"
)

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *entity.RefreshToken) error
	// Consume revokes the active token with the given hash and returns it. A
	// token can be consumed once; later calls report not found.
	Consume(ctx context.Context, tokenHash string, now time.Time) (*entity.RefreshToken, error)
	Revoke(ctx context.Context, tokenHash string, now time.Time) (bool, error)
	RevokeAllForUser(ctx context.Context, userID string, now time.Time) (int64, error)
}

type refreshTokenRepository struct {
	base
}

func NewRefreshTokenRepository(db *gorm.DB, timeout time.Duration) RefreshTokenRepository {
	return &refreshTokenRepository{base{db: db, timeout: timeout}}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *entity.RefreshToken) error {
	db, cancel := r.conn(ctx)
	defer cancel()

	tokenModel := ToRefreshTokenModel(token)
	if err := db.Create(tokenModel).Error; err != nil {
		return translateError(err, "refresh token not found")
	}
	*token = *ToRefreshTokenEntity(tokenModel)
	return nil
}

func (r *refreshTokenRepository) Consume(ctx context.Context, tokenHash string, now time.Time) (*entity.RefreshToken, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	result := db.Model(&model.RefreshTokenModel{}).
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", tokenHash, now).
		Update("revoked_at", now)
	if result.Error != nil {
		return nil, translateError(result.Error, "refresh token not found")
	}
	if result.RowsAffected == 0 {
		return nil, translateError(gorm.ErrRecordNotFound, "refresh token not found")
	}

	var tokenModel model.RefreshTokenModel
	if err := db.Where("token_hash = ?", tokenHash).First(&tokenModel).Error; err != nil {
		return nil, translateError(err, "refresh token not found")
	}
	return ToRefreshTokenEntity(&tokenModel), nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, tokenHash string, now time.Time) (bool, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	result := db.Model(&model.RefreshTokenModel{}).
		Where("token_hash = ? AND revoked_at IS NULL", tokenHash).
		Update("revoked_at", now)
	if result.Error != nil {
		return false, translateError(result.Error, "refresh token not found")
	}
	return result.RowsAffected > 0, nil
}

func (r *refreshTokenRepository) RevokeAllForUser(ctx context.Context, userID string, now time.Time) (int64, error) {
	db, cancel := r.conn(ctx)
	defer cancel()

	result := db.Model(&model.RefreshTokenModel{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now)
	if result.Error != nil {
		return 0, translateError(result.Error, "refresh token not found")
	}
	return result.RowsAffected, nil
}
