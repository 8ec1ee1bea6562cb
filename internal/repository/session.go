package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/laptev-dv/diploma-backend/internal/models"
)

// CreateSession persists a session with its task results. GORM writes the
// session row and its results in a single transaction; there is no
// back-pointer on the experiment to repair afterwards.
func CreateSession(ctx context.Context, session *models.Session) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	return translate(db(ctx).Create(session).Error, "session")
}

// GetSessionByID loads a session with its experiment and the task behind
// every result, which the statistics engine requires.
func GetSessionByID(ctx context.Context, id uint) (*models.Session, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	var session models.Session
	result := db(ctx).
		Preload("Experiment").
		Preload("User").
		Preload("Results", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Preload("Results.Task").
		First(&session, id)
	if result.Error != nil {
		return nil, translate(result.Error, "session")
	}
	return &session, nil
}

// ListSessionsByExperiment returns the experiment's sessions newest first.
// Results stay unloaded: listing is a summary view.
func ListSessionsByExperiment(ctx context.Context, experimentID uint) ([]models.Session, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	var sessions []models.Session
	result := db(ctx).
		Preload("User").
		Where("experiment_id = ?", experimentID).
		Order("created_at DESC").
		Find(&sessions)
	return sessions, translate(result.Error, "session")
}

// DeleteSession removes the session and its results.
func DeleteSession(ctx context.Context, id uint) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	err := db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&models.TaskResult{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Session{}, id).Error
	})
	return translate(err, "session")
}
