package repository

import (
	"context"
	"sdo_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TaskCaseRepository struct {
	DB *gorm.DB
}

func NewTaskCaseRepository(db *gorm.DB) *TaskCaseRepository {
	return &TaskCaseRepository{DB: db}
}

func (r *TaskCaseRepository) WithTx(tx *gorm.DB) *TaskCaseRepository {
	return &TaskCaseRepository{DB: tx}
}

func (r *TaskCaseRepository) Create(ctx context.Context, tc *model.TaskCase) error {
	return r.DB.WithContext(ctx).Create(tc).Error
}

func (r *TaskCaseRepository) FindByID(ctx context.Context, id uint) (*model.TaskCase, error) {
	var tc model.TaskCase
	if err := r.DB.WithContext(ctx).First(&tc, id).Error; err != nil {
		return nil, notFound(err, "taskcase", id)
	}
	return &tc, nil
}

func (r *TaskCaseRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.TaskCase, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tcs []model.TaskCase
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&tcs).Error
	return tcs, err
}

// List returns task cases newest first. isTest filters by kind when set.
func (r *TaskCaseRepository) List(ctx context.Context, isTest *bool, query string, page, limit int) ([]model.TaskCase, int64, error) {
	db := r.DB.WithContext(ctx).Model(&model.TaskCase{})
	if isTest != nil {
		db = db.Where("is_test = ?", *isTest)
	}
	if query != "" {
		db = db.Where("title LIKE ?", "%"+query+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tcs []model.TaskCase
	err := db.Order("id DESC").Offset((page - 1) * limit).Limit(limit).Find(&tcs).Error
	return tcs, total, err
}

func (r *TaskCaseRepository) Update(ctx context.Context, tc *model.TaskCase) error {
	return r.DB.WithContext(ctx).Save(tc).Error
}

// Delete removes the task case, its task links and memberships. Tasks stay.
func (r *TaskCaseRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.TaskCase{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "taskcase", id)
		}
		if err := tx.Where("task_case_id = ?", id).Delete(&model.TaskCaseTask{}).Error; err != nil {
			return err
		}
		return tx.Where("task_case_id = ?", id).Delete(&model.UserTaskCaseRelation{}).Error
	})
}

func (r *TaskCaseRepository) TaskIDs(ctx context.Context, id uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.TaskCaseTask{}).
		Where("task_case_id = ?", id).
		Order("task_id ASC").
		Pluck("task_id", &ids).Error
	return ids, err
}

// TaskIDsOf returns the union of the task sets of the given task cases.
func (r *TaskCaseRepository) TaskIDsOf(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var taskIDs []uint
	err := r.DB.WithContext(ctx).Model(&model.TaskCaseTask{}).
		Where("task_case_id IN ?", ids).
		Distinct("task_id").
		Order("task_id ASC").
		Pluck("task_id", &taskIDs).Error
	return taskIDs, err
}

func (r *TaskCaseRepository) Tasks(ctx context.Context, id uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.DB.WithContext(ctx).
		Joins("JOIN task_case_tasks ON task_case_tasks.task_id = tasks.id").
		Where("task_case_tasks.task_case_id = ?", id).
		Order("tasks.id ASC").
		Find(&tasks).Error
	return tasks, err
}

// ReplaceTasks makes taskIDs the exact task set of the task case and returns
// the ids that were not linked before.
func (r *TaskCaseRepository) ReplaceTasks(ctx context.Context, id uint, taskIDs []uint) ([]uint, error) {
	db := r.DB.WithContext(ctx)

	var current []uint
	if err := db.Model(&model.TaskCaseTask{}).Where("task_case_id = ?", id).Pluck("task_id", &current).Error; err != nil {
		return nil, err
	}

	stale := db.Where("task_case_id = ?", id)
	if len(taskIDs) > 0 {
		stale = stale.Where("task_id NOT IN ?", taskIDs)
	}
	if err := stale.Delete(&model.TaskCaseTask{}).Error; err != nil {
		return nil, err
	}

	had := make(map[uint]bool, len(current))
	for _, t := range current {
		had[t] = true
	}
	var added []uint
	links := make([]model.TaskCaseTask, 0, len(taskIDs))
	for _, t := range taskIDs {
		if !had[t] {
			added = append(added, t)
		}
		links = append(links, model.TaskCaseTask{TaskCaseID: id, TaskID: t})
	}
	if len(links) == 0 {
		return added, nil
	}
	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
	return added, err
}

// IDsContainingTask lists the task cases whose task set includes taskID.
func (r *TaskCaseRepository) IDsContainingTask(ctx context.Context, taskID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.TaskCaseTask{}).
		Where("task_id = ?", taskID).
		Order("task_case_id ASC").
		Pluck("task_case_id", &ids).Error
	return ids, err
}
