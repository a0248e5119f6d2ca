package service

import (
	"context"
	"sdo_backend/internal/model"
	"sdo_backend/internal/repository"
	"sdo_backend/internal/util"
	"sdo_backend/pkg/logger"
	"sdo_backend/pkg/monitoring"
	"sdo_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CompletionService closes a user's work on a task case.
type CompletionService struct {
	DB             *gorm.DB
	TaskCaseRepo   *repository.TaskCaseRepository
	RelationRepo   *repository.RelationRepository
	MembershipRepo *repository.MembershipRepository
	Cache          *repository.CountsCache
}

func NewCompletionService(
	db *gorm.DB,
	taskCaseRepo *repository.TaskCaseRepository,
	relationRepo *repository.RelationRepository,
	membershipRepo *repository.MembershipRepository,
	cache *repository.CountsCache,
) *CompletionService {
	return &CompletionService{
		DB:             db,
		TaskCaseRepo:   taskCaseRepo,
		RelationRepo:   relationRepo,
		MembershipRepo: membershipRepo,
		Cache:          cache,
	}
}

// CompleteTaskCase deletes the user's relations to every task of the task case,
// with their answers and reviews, and then the membership itself. Unless force
// is set every one of those relations must already be ACCEPT or WRONG.
func (s *CompletionService) CompleteTaskCase(ctx context.Context, taskCaseID, userID uint, force bool) (res *AssignmentResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "CompletionService.CompleteTaskCase",
		attribute.Int64("taskcase.id", int64(taskCaseID)), attribute.Int64("user.id", int64(userID)), attribute.Bool("force", force))
	defer func() { tracing.End(span, err) }()

	res = &AssignmentResult{}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskCases := s.TaskCaseRepo.WithTx(tx)
		memberships := s.MembershipRepo.WithTx(tx)
		relations := s.RelationRepo.WithTx(tx)

		if _, err := taskCases.FindByID(ctx, taskCaseID); err != nil {
			return err
		}
		if _, err := memberships.Find(ctx, userID, taskCaseID); err != nil {
			return err
		}
		taskIDs, err := taskCases.TaskIDs(ctx, taskCaseID)
		if err != nil {
			return err
		}

		if !force {
			statuses, err := relations.StatusesInScope(ctx, userID, taskIDs)
			if err != nil {
				return err
			}
			for _, st := range statuses {
				if !st.Permits(model.ActionComplete) {
					return &util.TransitionError{From: st, Action: model.ActionComplete}
				}
			}
		}

		res.Removed, err = relations.DeleteForUserTasks(ctx, userID, taskIDs)
		if err != nil {
			return err
		}
		return memberships.RemoveTaskCases(ctx, userID, []uint{taskCaseID})
	})
	if err != nil {
		return nil, err
	}

	monitoring.ObserveAssignment(0, res.Removed)
	if err := s.Cache.Invalidate(ctx, userID); err != nil {
		logger.Log.Warn("Failed to invalidate counts cache", zap.Uint("userId", userID), zap.Error(err))
	}
	logger.Log.Info("Task case completed",
		zap.Uint("userId", userID),
		zap.Uint("taskCaseId", taskCaseID),
		zap.Bool("force", force),
		zap.Int64("removed", res.Removed),
	)
	return res, nil
}
