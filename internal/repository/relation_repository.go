package repository

import (
	"context"
	"sdo_backend/internal/model"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RelationRepository manages UserTaskRelation rows. Creation never touches an
// existing row, so a status already reached is never reset.
type RelationRepository struct {
	DB *gorm.DB
}

func NewRelationRepository(db *gorm.DB) *RelationRepository {
	return &RelationRepository{DB: db}
}

func (r *RelationRepository) WithTx(tx *gorm.DB) *RelationRepository {
	return &RelationRepository{DB: tx}
}

func (r *RelationRepository) FindByID(ctx context.Context, id uint) (*model.UserTaskRelation, error) {
	var rel model.UserTaskRelation
	if err := r.DB.WithContext(ctx).First(&rel, id).Error; err != nil {
		return nil, notFound(err, "relation", id)
	}
	return &rel, nil
}

func (r *RelationRepository) Find(ctx context.Context, userID, taskID uint) (*model.UserTaskRelation, error) {
	var rel model.UserTaskRelation
	err := r.DB.WithContext(ctx).Where("user_id = ? AND task_id = ?", userID, taskID).First(&rel).Error
	if err != nil {
		return nil, notFound(err, "relation for task", taskID)
	}
	return &rel, nil
}

// GetOrCreate returns the (user, task) relation, inserting it as NEW if absent.
func (r *RelationRepository) GetOrCreate(ctx context.Context, userID, taskID uint) (*model.UserTaskRelation, error) {
	db := r.DB.WithContext(ctx)
	rel := model.UserTaskRelation{UserID: userID, TaskID: taskID, Status: model.StatusNew}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rel).Error; err != nil {
		return nil, err
	}

	var stored model.UserTaskRelation
	if err := db.Where("user_id = ? AND task_id = ?", userID, taskID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// Ensure creates a NEW relation for every (user, task) pair that has none and
// returns how many rows were inserted.
func (r *RelationRepository) Ensure(ctx context.Context, userIDs, taskIDs []uint) (int64, error) {
	if len(userIDs) == 0 || len(taskIDs) == 0 {
		return 0, nil
	}
	rows := make([]model.UserTaskRelation, 0, len(userIDs)*len(taskIDs))
	for _, u := range userIDs {
		for _, t := range taskIDs {
			rows = append(rows, model.UserTaskRelation{UserID: u, TaskID: t, Status: model.StatusNew})
		}
	}
	res := r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&rows, 200)
	return res.RowsAffected, res.Error
}

func (r *RelationRepository) UpdateStatus(ctx context.Context, id uint, status model.TaskStatus) error {
	return r.DB.WithContext(ctx).Model(&model.UserTaskRelation{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// DeleteForUserTasks removes the user's relations to taskIDs along with their
// answers and reviews.
func (r *RelationRepository) DeleteForUserTasks(ctx context.Context, userID uint, taskIDs []uint) (int64, error) {
	if len(taskIDs) == 0 {
		return 0, nil
	}
	db := r.DB.WithContext(ctx)
	relations := db.Model(&model.UserTaskRelation{}).Select("id").Where("user_id = ? AND task_id IN ?", userID, taskIDs)
	answers := db.Model(&model.Answer{}).Select("id").Where("relation_id IN (?)", relations)

	if err := db.Where("answer_id IN (?)", answers).Delete(&model.Review{}).Error; err != nil {
		return 0, err
	}
	if err := db.Where("relation_id IN (?)", relations).Delete(&model.Answer{}).Error; err != nil {
		return 0, err
	}
	res := db.Where("user_id = ? AND task_id IN ?", userID, taskIDs).Delete(&model.UserTaskRelation{})
	return res.RowsAffected, res.Error
}

// StatusesInScope returns the status of each of the user's relations to taskIDs.
func (r *RelationRepository) StatusesInScope(ctx context.Context, userID uint, taskIDs []uint) ([]model.TaskStatus, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	var statuses []model.TaskStatus
	err := r.DB.WithContext(ctx).Model(&model.UserTaskRelation{}).
		Where("user_id = ? AND task_id IN ?", userID, taskIDs).
		Pluck("status", &statuses).Error
	return statuses, err
}

// Progress lists the user's tasks, optionally limited to one task case, to
// test or free-text tasks and to some statuses. Work still to do comes first,
// newest first within a status.
func (r *RelationRepository) Progress(ctx context.Context, userID uint, taskCaseID *uint, isTest *bool, statuses ...model.TaskStatus) ([]model.TaskProgress, error) {
	db := r.DB.WithContext(ctx).Table("user_task_relations AS r").
		Select("r.id AS relation_id, t.id AS task_id, t.title, t.is_test, r.status, r.updated_at").
		Joins("JOIN tasks AS t ON t.id = r.task_id").
		Where("r.user_id = ?", userID)
	if taskCaseID != nil {
		db = db.Joins("JOIN task_case_tasks AS tct ON tct.task_id = r.task_id AND tct.task_case_id = ?", *taskCaseID)
	}
	if isTest != nil {
		db = db.Where("t.is_test = ?", *isTest)
	}
	if len(statuses) > 0 {
		db = db.Where("r.status IN ?", statuses)
	}

	var items []model.TaskProgress
	err := db.Order(statusRankOrder("r.status")).Order("r.id DESC").Scan(&items).Error
	return items, err
}

// statusRankOrder renders model.TaskStatus.Rank as an ORDER BY expression.
func statusRankOrder(column string) string {
	expr := "CASE " + column
	for _, s := range model.AllStatuses {
		expr += " WHEN '" + string(s) + "' THEN " + strconv.Itoa(s.Rank())
	}
	return expr + " ELSE 6 END"
}

// UserIDsForTask lists the users holding a relation to taskID.
func (r *RelationRepository) UserIDsForTask(ctx context.Context, taskID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.UserTaskRelation{}).
		Where("task_id = ?", taskID).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}
