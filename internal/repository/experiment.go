package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/laptev-dv/diploma-backend/internal/models"
)

func CreateExperiment(ctx context.Context, experiment *models.Experiment) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	return translate(db(ctx).Create(experiment).Error, "experiment")
}

// GetExperimentByID loads an experiment with its tasks. Tasks come back in
// the author's ordering.
func GetExperimentByID(ctx context.Context, id uint) (*models.Experiment, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	var experiment models.Experiment
	result := db(ctx).Preload("Tasks").First(&experiment, id)
	if result.Error != nil {
		return nil, translate(result.Error, "experiment")
	}
	experiment.Tasks = experiment.OrderedTasks()
	return &experiment, nil
}

// ListExperiments returns all experiments, optionally filtered by author.
func ListExperiments(ctx context.Context, authorID *uint) ([]models.Experiment, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	var experiments []models.Experiment
	query := db(ctx).Order("created_at DESC")
	if authorID != nil {
		query = query.Where("author_id = ?", *authorID)
	}
	result := query.Find(&experiments)
	return experiments, translate(result.Error, "experiment")
}

// UpdateExperiment persists changes to the mutable experiment fields.
// The task order column is owned by AddTask and never written here.
func UpdateExperiment(ctx context.Context, experiment *models.Experiment) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	updates := map[string]interface{}{
		"name":                   experiment.Name,
		"mode":                   experiment.Mode,
		"efficiency_min":         experiment.EfficiencyMin,
		"efficiency_max":         experiment.EfficiencyMax,
		"initial_task_number":    experiment.InitialTaskNumber,
		"series_time":            experiment.SeriesTime,
		"presentations_per_task": experiment.PresentationsPerTask,
	}
	result := db(ctx).Model(&models.Experiment{}).Where("id = ?", experiment.ID).Updates(updates)
	return translate(result.Error, "experiment")
}

// AddTask inserts a task and appends it to the experiment's task order in
// one transaction, so the ordered list can never reference a task that
// was not persisted.
func AddTask(ctx context.Context, experimentID uint, task *models.Task) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	err := db(ctx).Transaction(func(tx *gorm.DB) error {
		task.ExperimentID = experimentID
		if err := tx.Create(task).Error; err != nil {
			return err
		}
		var experiment models.Experiment
		if err := tx.First(&experiment, experimentID).Error; err != nil {
			return err
		}
		experiment.TaskOrder = append(experiment.TaskOrder, int64(task.ID))
		return tx.Model(&experiment).Update("task_order", experiment.TaskOrder).Error
	})
	return translate(err, "experiment")
}

// ListTasksByExperiment returns the experiment's tasks in creation order.
func ListTasksByExperiment(ctx context.Context, experimentID uint) ([]models.Task, error) {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	var tasks []models.Task
	result := db(ctx).Where("experiment_id = ?", experimentID).Order("created_at ASC").Find(&tasks)
	return tasks, translate(result.Error, "task")
}

// DeleteExperiment removes the experiment with its tasks and sessions in
// one transaction.
func DeleteExperiment(ctx context.Context, id uint) error {
	ctx, cancel := storeCtx(ctx)
	defer cancel()
	err := db(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteExperimentCascade(tx, id)
	})
	return translate(err, "experiment")
}

func deleteExperimentCascade(tx *gorm.DB, experimentID uint) error {
	var sessionIDs []uint
	if err := tx.Model(&models.Session{}).Where("experiment_id = ?", experimentID).Pluck("id", &sessionIDs).Error; err != nil {
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
	if err := tx.Where("experiment_id = ?", experimentID).Delete(&models.Task{}).Error; err != nil {
		return err
	}
	// Drop folder memberships pointing at the experiment.
	if err := tx.Exec("DELETE FROM folder_experiments WHERE experiment_id = ?", experimentID).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Experiment{}, experimentID).Error
}
