package repository

import (
	"context"
	"sdo_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MembershipRepository manages UserTaskCaseRelation rows.
type MembershipRepository struct {
	DB *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{DB: db}
}

func (r *MembershipRepository) WithTx(tx *gorm.DB) *MembershipRepository {
	return &MembershipRepository{DB: tx}
}

func (r *MembershipRepository) Find(ctx context.Context, userID, taskCaseID uint) (*model.UserTaskCaseRelation, error) {
	var m model.UserTaskCaseRelation
	err := r.DB.WithContext(ctx).Where("user_id = ? AND task_case_id = ?", userID, taskCaseID).First(&m).Error
	if err != nil {
		return nil, notFound(err, "membership in taskcase", taskCaseID)
	}
	return &m, nil
}

func (r *MembershipRepository) UserIDs(ctx context.Context, taskCaseID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.UserTaskCaseRelation{}).
		Where("task_case_id = ?", taskCaseID).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *MembershipRepository) TaskCaseIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.UserTaskCaseRelation{}).
		Where("user_id = ?", userID).
		Order("task_case_id ASC").
		Pluck("task_case_id", &ids).Error
	return ids, err
}

func (r *MembershipRepository) ListForUser(ctx context.Context, userID uint) ([]model.UserTaskCaseRelation, error) {
	var ms []model.UserTaskCaseRelation
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("task_case_id ASC").Find(&ms).Error
	return ms, err
}

// Add inserts the given memberships, skipping those that already exist.
func (r *MembershipRepository) Add(ctx context.Context, ms []model.UserTaskCaseRelation) error {
	if len(ms) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&ms).Error
}

// RemoveTaskCases drops the user's memberships in taskCaseIDs.
func (r *MembershipRepository) RemoveTaskCases(ctx context.Context, userID uint, taskCaseIDs []uint) error {
	if len(taskCaseIDs) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND task_case_id IN ?", userID, taskCaseIDs).
		Delete(&model.UserTaskCaseRelation{}).Error
}

// RemoveUsers drops the memberships of userIDs in the task case.
func (r *MembershipRepository) RemoveUsers(ctx context.Context, taskCaseID uint, userIDs []uint) error {
	if len(userIDs) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).
		Where("task_case_id = ? AND user_id IN ?", taskCaseID, userIDs).
		Delete(&model.UserTaskCaseRelation{}).Error
}

func (r *MembershipRepository) SetReview(ctx context.Context, userID, taskCaseID uint, review bool) error {
	return r.DB.WithContext(ctx).Model(&model.UserTaskCaseRelation{}).
		Where("user_id = ? AND task_case_id = ?", userID, taskCaseID).
		Update("review", review).Error
}

// MemberTaskCasesContaining lists the task cases the user belongs to whose task set includes taskID.
func (r *MembershipRepository) MemberTaskCasesContaining(ctx context.Context, userID, taskID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Table("user_task_case_relations AS m").
		Joins("JOIN task_case_tasks AS tct ON tct.task_case_id = m.task_case_id").
		Where("m.user_id = ? AND tct.task_id = ?", userID, taskID).
		Order("m.task_case_id ASC").
		Pluck("m.task_case_id", &ids).Error
	return ids, err
}
