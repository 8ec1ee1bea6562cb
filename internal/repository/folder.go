package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/laptev-dv/diploma-backend/internal/models"
)

func CreateFolder(ctx context.Context, folder *models.Folder) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	return translate(db(ctx).Create(folder).Error, "folder")
}

// ListFolders returns all folders, optionally filtered by a name or
// description substring, sorted by the given column expression.
func ListFolders(ctx context.Context, search, sort string) ([]models.Folder, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	var folders []models.Folder
	query := db(ctx).Preload("Author")
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", pattern, pattern)
	}
	switch sort {
	case "name":
		query = query.Order("name ASC")
	case "-name":
		query = query.Order("name DESC")
	case "createdAt":
		query = query.Order("created_at ASC")
	default:
		query = query.Order("created_at DESC")
	}
	result := query.Find(&folders)
	return folders, translate(result.Error, "folder")
}

func GetFolderByID(ctx context.Context, id uint) (*models.Folder, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	var folder models.Folder
	result := db(ctx).Preload("Author").Preload("Experiments").First(&folder, id)
	if result.Error != nil {
		return nil, translate(result.Error, "folder")
	}
	return &folder, nil
}

func UpdateFolder(ctx context.Context, folder *models.Folder) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	updates := map[string]interface{}{
		"name":        folder.Name,
		"description": folder.Description,
	}
	result := db(ctx).Model(&models.Folder{}).Where("id = ?", folder.ID).Updates(updates)
	return translate(result.Error, "folder")
}

// SetFolderExperiments replaces the folder's experiment membership.
func SetFolderExperiments(ctx context.Context, folder *models.Folder, experiments []models.Experiment) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	err := db(ctx).Model(folder).Association("Experiments").Replace(experiments)
	return translate(err, "folder")
}

func DeleteFolder(ctx context.Context, id uint) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	err := db(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM folder_experiments WHERE folder_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Folder{}, id).Error
	})
	return translate(err, "folder")
}

// GetExperimentsByIDs loads the experiments for a folder membership
// update, reporting how many of the requested IDs actually exist.
func GetExperimentsByIDs(ctx context.Context, ids []uint) ([]models.Experiment, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	var experiments []models.Experiment
	result := db(ctx).Where("id IN ?", ids).Find(&experiments)
	return experiments, translate(result.Error, "experiment")
}
