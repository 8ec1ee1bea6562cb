package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/laptev-dv/diploma-backend/internal/models"
)

func CreateAuthToken(ctx context.Context, token *models.AuthToken) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	return translate(db(ctx).Create(token).Error, "token")
}

func GetAuthToken(ctx context.Context, token string) (*models.AuthToken, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	var authToken models.AuthToken
	result := db(ctx).First(&authToken, "token = ?", token)
	if result.Error != nil {
		return nil, translate(result.Error, "token")
	}
	return &authToken, nil
}

// DeleteAuthToken revokes a single bearer token (logout).
func DeleteAuthToken(ctx context.Context, token string) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	result := db(ctx).Where("token = ?", token).Delete(&models.AuthToken{})
	return translate(result.Error, "token")
}

// ReplaceResetToken removes any previous reset tokens for the user and
// stores the new one in a single transaction, so at most one reset link
// is ever valid.
func ReplaceResetToken(ctx context.Context, token *models.ResetToken) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	err := db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", token.UserID).Delete(&models.ResetToken{}).Error; err != nil {
			return err
		}
		return tx.Create(token).Error
	})
	return translate(err, "token")
}

func GetResetToken(ctx context.Context, token string) (*models.ResetToken, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	var resetToken models.ResetToken
	result := db(ctx).First(&resetToken, "token = ?", token)
	if result.Error != nil {
		return nil, translate(result.Error, "token")
	}
	return &resetToken, nil
}

func DeleteResetToken(ctx context.Context, id uint) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	result := db(ctx).Delete(&models.ResetToken{}, id)
	return translate(result.Error, "token")
}

// PurgeExpiredAuthTokens clears out tokens past their TTL. Invoked
// opportunistically on login rather than by a background job.
func PurgeExpiredAuthTokens(ctx context.Context, now time.Time) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	result := db(ctx).Where("expires_at < ?", now).Delete(&models.AuthToken{})
	return translate(result.Error, "token")
}
