package repository

import (
	"context"
	"sdo_backend/internal/model"

	"gorm.io/gorm"
)

type TaskRepository struct {
	DB *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

func (r *TaskRepository) WithTx(tx *gorm.DB) *TaskRepository {
	return &TaskRepository{DB: tx}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.DB.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.DB.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, notFound(err, "task", id)
	}
	return &task, nil
}

// FindWithVariants loads the task and its variants in id order.
func (r *TaskRepository) FindWithVariants(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.DB.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("variants.id ASC") }).
		First(&task, id).Error
	if err != nil {
		return nil, notFound(err, "task", id)
	}
	return &task, nil
}

func (r *TaskRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tasks []model.Task
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&tasks).Error
	return tasks, err
}

// List searches tasks by title. isTest filters by kind when set.
func (r *TaskRepository) List(ctx context.Context, isTest *bool, query string, page, limit int) ([]model.Task, int64, error) {
	db := r.DB.WithContext(ctx).Model(&model.Task{})
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

	var tasks []model.Task
	err := db.Order("id DESC").Offset((page - 1) * limit).Limit(limit).Find(&tasks).Error
	return tasks, total, err
}

// ByKind lists every task whose is_test flag equals isTest.
func (r *TaskRepository) ByKind(ctx context.Context, isTest bool) ([]model.Task, error) {
	var tasks []model.Task
	err := r.DB.WithContext(ctx).Where("is_test = ?", isTest).Order("id ASC").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	return r.DB.WithContext(ctx).Omit("Variants").Save(task).Error
}

// Delete removes the task with its relations, answers, reviews, variants,
// selections and task case links.
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Task{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return notFound(gorm.ErrRecordNotFound, "task", id)
		}

		relations := tx.Model(&model.UserTaskRelation{}).Select("id").Where("task_id = ?", id)
		answers := tx.Model(&model.Answer{}).Select("id").Where("relation_id IN (?)", relations)

		if err := tx.Where("answer_id IN (?)", answers).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("relation_id IN (?)", relations).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&model.UserTaskRelation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&model.UserVariant{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&model.Variant{}).Error; err != nil {
			return err
		}
		return tx.Where("task_id = ?", id).Delete(&model.TaskCaseTask{}).Error
	})
}
