package repository

import (
	"context"
	"sdo_backend/internal/model"

	"gorm.io/gorm"
)

// SelectionRepository stores the variants a user picked on a test task.
type SelectionRepository struct {
	DB *gorm.DB
}

func NewSelectionRepository(db *gorm.DB) *SelectionRepository {
	return &SelectionRepository{DB: db}
}

func (r *SelectionRepository) WithTx(tx *gorm.DB) *SelectionRepository {
	return &SelectionRepository{DB: tx}
}

// ReplaceForTask drops the user's previous picks on the task and stores variantIDs.
func (r *SelectionRepository) ReplaceForTask(ctx context.Context, userID, taskID uint, variantIDs []uint) error {
	db := r.DB.WithContext(ctx)
	if err := db.Where("user_id = ? AND task_id = ?", userID, taskID).Delete(&model.UserVariant{}).Error; err != nil {
		return err
	}
	if len(variantIDs) == 0 {
		return nil
	}
	rows := make([]model.UserVariant, 0, len(variantIDs))
	for _, v := range variantIDs {
		rows = append(rows, model.UserVariant{UserID: userID, VariantID: v, TaskID: taskID})
	}
	return db.Create(&rows).Error
}

func (r *SelectionRepository) ForTask(ctx context.Context, userID, taskID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.UserVariant{}).
		Where("user_id = ? AND task_id = ?", userID, taskID).
		Order("variant_id ASC").
		Pluck("variant_id", &ids).Error
	return ids, err
}

// ForTasks groups the user's picks by task.
func (r *SelectionRepository) ForTasks(ctx context.Context, userID uint, taskIDs []uint) (map[uint][]uint, error) {
	out := make(map[uint][]uint, len(taskIDs))
	if len(taskIDs) == 0 {
		return out, nil
	}
	var rows []model.UserVariant
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND task_id IN ?", userID, taskIDs).
		Order("variant_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.TaskID] = append(out[row.TaskID], row.VariantID)
	}
	return out, nil
}
