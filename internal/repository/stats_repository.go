package repository

import (
	"context"
	"sdo_backend/internal/model"

	"gorm.io/gorm"
)

// StatsRepository runs the GROUP BY status aggregations behind the dashboards.
type StatsRepository struct {
	DB *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

func (r *StatsRepository) WithTx(tx *gorm.DB) *StatsRepository {
	return &StatsRepository{DB: tx}
}

type statusRow struct {
	Status model.TaskStatus
	Count  int64
}

type keyedStatusRow struct {
	OwnerID uint
	Status  model.TaskStatus
	Count   int64
}

type keyedCountRow struct {
	OwnerID uint
	Count   int64
}

// scope selects the user's relations, restricted to one task case and/or to
// test tasks when asked.
func (r *StatsRepository) scope(ctx context.Context, userID uint, taskCaseID *uint, onlyTests bool) *gorm.DB {
	db := r.DB.WithContext(ctx).Table("user_task_relations AS r").Where("r.user_id = ?", userID)
	if taskCaseID != nil {
		db = db.Joins("JOIN task_case_tasks AS tct ON tct.task_id = r.task_id AND tct.task_case_id = ?", *taskCaseID)
	}
	if onlyTests {
		db = db.Joins("JOIN tasks AS t ON t.id = r.task_id").Where("t.is_test = ?", true)
	}
	return db
}

// CountByStatus counts the user's relations whose status is one of statuses.
func (r *StatsRepository) CountByStatus(ctx context.Context, userID uint, taskCaseID *uint, onlyTests bool, statuses ...model.TaskStatus) (int64, error) {
	var n int64
	err := r.scope(ctx, userID, taskCaseID, onlyTests).Where("r.status IN ?", statuses).Count(&n).Error
	return n, err
}

// GroupByStatus returns all five status counts for the user, zero-filled.
func (r *StatsRepository) GroupByStatus(ctx context.Context, userID uint, taskCaseID *uint) (model.StatusCounts, error) {
	var rows []statusRow
	err := r.scope(ctx, userID, taskCaseID, false).
		Select("r.status AS status, COUNT(*) AS count").
		Group("r.status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := model.NewStatusCounts()
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// GroupByTaskCase returns per-status counts for every task case the user is a member of.
func (r *StatsRepository) GroupByTaskCase(ctx context.Context, userID uint, onlyTests bool) (map[uint]model.StatusCounts, error) {
	db := r.DB.WithContext(ctx).Table("user_task_relations AS r").
		Select("tct.task_case_id AS owner_id, r.status AS status, COUNT(*) AS count").
		Joins("JOIN task_case_tasks AS tct ON tct.task_id = r.task_id").
		Joins("JOIN user_task_case_relations AS m ON m.task_case_id = tct.task_case_id AND m.user_id = r.user_id").
		Where("r.user_id = ?", userID)
	if onlyTests {
		db = db.Joins("JOIN tasks AS t ON t.id = r.task_id").Where("t.is_test = ?", true)
	}

	var rows []keyedStatusRow
	if err := db.Group("tct.task_case_id, r.status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return foldKeyed(rows), nil
}

// GroupByUser returns per-status counts for every user that has relations.
func (r *StatsRepository) GroupByUser(ctx context.Context) (map[uint]model.StatusCounts, error) {
	var rows []keyedStatusRow
	err := r.DB.WithContext(ctx).Table("user_task_relations").
		Select("user_id AS owner_id, status, COUNT(*) AS count").
		Group("user_id, status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return foldKeyed(rows), nil
}

// ReviewBlocksByUser counts memberships flagged for review, per user.
func (r *StatsRepository) ReviewBlocksByUser(ctx context.Context) (map[uint]int64, error) {
	var rows []keyedCountRow
	err := r.DB.WithContext(ctx).Model(&model.UserTaskCaseRelation{}).
		Select("user_id AS owner_id, COUNT(*) AS count").
		Where("review = ?", true).
		Group("user_id").
		Scan(&rows).Error
	return foldCounts(rows), err
}

// NotesByUser counts admin notes per subject user.
func (r *StatsRepository) NotesByUser(ctx context.Context) (map[uint]int64, error) {
	var rows []keyedCountRow
	err := r.DB.WithContext(ctx).Model(&model.Note{}).
		Select("user_id AS owner_id, COUNT(*) AS count").
		Group("user_id").
		Scan(&rows).Error
	return foldCounts(rows), err
}

// UsersWithTests returns the ids of users holding at least one test-task relation.
func (r *StatsRepository) UsersWithTests(ctx context.Context) (map[uint]bool, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Table("user_task_relations AS r").
		Joins("JOIN tasks AS t ON t.id = r.task_id").
		Where("t.is_test = ?", true).
		Distinct("r.user_id").
		Pluck("r.user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// ReviewPending counts memberships waiting for an admin review.
func (r *StatsRepository) ReviewPending(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.UserTaskCaseRelation{}).Where("review = ?", true).Count(&n).Error
	return n, err
}

func foldKeyed(rows []keyedStatusRow) map[uint]model.StatusCounts {
	out := make(map[uint]model.StatusCounts)
	for _, row := range rows {
		counts, ok := out[row.OwnerID]
		if !ok {
			counts = model.NewStatusCounts()
			out[row.OwnerID] = counts
		}
		counts[row.Status] = row.Count
	}
	return out
}

func foldCounts(rows []keyedCountRow) map[uint]int64 {
	out := make(map[uint]int64, len(rows))
	for _, row := range rows {
		out[row.OwnerID] = row.Count
	}
	return out
}
