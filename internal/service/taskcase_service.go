package service

import (
	"context"
	"sdo_backend/internal/model"
	"sdo_backend/internal/repository"
	"sdo_backend/internal/util"
	"sdo_backend/pkg/logger"

	"go.uber.org/zap"
)

// TaskCaseRequest is the editable part of a task case.
// swagger:model TaskCaseRequest
type TaskCaseRequest struct {
	Title       string `json:"title" binding:"required,notblank,max=100"`
	Description string `json:"description" binding:"max=2000"`
	IsTest      bool   `json:"isTest"`
}

// TaskCaseDetail is a task case with its tasks and members.
type TaskCaseDetail struct {
	model.TaskCase
	Tasks   []model.Task `json:"tasks"`
	Members []uint       `json:"members"`
}

type TaskCaseService struct {
	TaskCaseRepo   *repository.TaskCaseRepository
	MembershipRepo *repository.MembershipRepository
	Cache          *repository.CountsCache
}

func NewTaskCaseService(taskCaseRepo *repository.TaskCaseRepository, membershipRepo *repository.MembershipRepository, cache *repository.CountsCache) *TaskCaseService {
	return &TaskCaseService{
		TaskCaseRepo:   taskCaseRepo,
		MembershipRepo: membershipRepo,
		Cache:          cache,
	}
}

func (s *TaskCaseService) Create(ctx context.Context, authorID uint, req TaskCaseRequest) (*model.TaskCase, error) {
	author := authorID
	tc := &model.TaskCase{
		Title:       req.Title,
		Description: req.Description,
		IsTest:      req.IsTest,
		AuthorID:    &author,
	}
	if err := s.TaskCaseRepo.Create(ctx, tc); err != nil {
		return nil, err
	}
	return tc, nil
}

func (s *TaskCaseService) Get(ctx context.Context, id uint) (*TaskCaseDetail, error) {
	tc, err := s.TaskCaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tasks, err := s.TaskCaseRepo.Tasks(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.MembershipRepo.UserIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TaskCaseDetail{TaskCase: *tc, Tasks: tasks, Members: members}, nil
}

func (s *TaskCaseService) List(ctx context.Context, isTest *bool, query string, page, limit int) ([]model.TaskCase, int64, error) {
	return s.TaskCaseRepo.List(ctx, isTest, query, page, limit)
}

// Update edits a task case. Its kind may only change while it holds no tasks.
func (s *TaskCaseService) Update(ctx context.Context, id uint, req TaskCaseRequest) (*model.TaskCase, error) {
	tc, err := s.TaskCaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tc.IsTest != req.IsTest {
		taskIDs, err := s.TaskCaseRepo.TaskIDs(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(taskIDs) > 0 {
			return nil, util.NewValidationError("isTest", "cannot change the kind of a task case that has tasks")
		}
	}

	tc.Title = req.Title
	tc.Description = req.Description
	tc.IsTest = req.IsTest
	if err := s.TaskCaseRepo.Update(ctx, tc); err != nil {
		return nil, err
	}
	return tc, nil
}

func (s *TaskCaseService) Delete(ctx context.Context, id uint) error {
	members, err := s.MembershipRepo.UserIDs(ctx, id)
	if err != nil {
		return err
	}
	if err := s.TaskCaseRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.Cache.Invalidate(ctx, members...); err != nil {
		logger.Log.Warn("Failed to invalidate counts cache", zap.Error(err))
	}
	logger.Log.Info("Task case deleted", zap.Uint("taskCaseId", id))
	return nil
}
