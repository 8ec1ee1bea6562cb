package repository

import (
	"context"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/laptev-dv/diploma-backend/internal/models"
)

func CreateUser(ctx context.Context, email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:    email,
		Password: string(hashedPassword),
	}
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	result := db(ctx).Create(user)
	return user, translate(result.Error, "user")
}

func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	var user models.User
	result := db(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		return nil, translate(result.Error, "user")
	}
	return &user, nil
}

func GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	var user models.User
	result := db(ctx).First(&user, id)
	if result.Error != nil {
		return nil, translate(result.Error, "user")
	}
	return &user, nil
}

func UpdateUserPassword(ctx context.Context, userID uint, newPassword string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	result := db(ctx).Model(&models.User{}).Where("id = ?", userID).Update("password", string(hashedPassword))
	return translate(result.Error, "user")
}

// DeleteUser removes the account and everything it owns: experiments
// (with their tasks and sessions), folders, sessions the user ran against
// other authors' experiments, and all credentials.
func DeleteUser(ctx context.Context, userID uint) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	err := db(ctx).Transaction(func(tx *gorm.DB) error {
		var experimentIDs []uint
		if err := tx.Model(&models.Experiment{}).Where("author_id = ?", userID).Pluck("id", &experimentIDs).Error; err != nil {
			return err
		}
		for _, id := range experimentIDs {
			if err := deleteExperimentCascade(tx, id); err != nil {
				return err
			}
		}

		var sessionIDs []uint
		if err := tx.Model(&models.Session{}).Where("user_id = ?", userID).Pluck("id", &sessionIDs).Error; err != nil {
			return err
		}
		if len(sessionIDs) > 0 {
			if err := tx.Where("session_id IN ?", sessionIDs).Delete(&models.TaskResult{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Session{}, sessionIDs).Error; err != nil {
				return err
			}
		}

		var folders []models.Folder
		if err := tx.Where("author_id = ?", userID).Find(&folders).Error; err != nil {
			return err
		}
		for i := range folders {
			if err := tx.Model(&folders[i]).Association("Experiments").Clear(); err != nil {
				return err
			}
		}
		if err := tx.Where("author_id = ?", userID).Delete(&models.Folder{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.AuthToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.ResetToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
	return translate(err, "user")
}
