package service

import (
	"context"
	"sdo_backend/internal/model"
	"sdo_backend/internal/repository"
	"sdo_backend/internal/util"
	"sdo_backend/pkg/logger"

	"go.uber.org/zap"
)

// TaskRequest is the editable part of a task.
// swagger:model TaskRequest
type TaskRequest struct {
	Title       string `json:"title" binding:"required,notblank,max=100"`
	Description string `json:"description" binding:"max=2000"`
	Answer      string `json:"answer"`
	IsTest      bool   `json:"isTest"`
}

// VariantRequest is the editable part of a variant.
// swagger:model VariantRequest
type VariantRequest struct {
	Text    string `json:"text" binding:"required,notblank"`
	Correct bool   `json:"correct"`
}

// TaskService manages the task catalog and the variants of test tasks.
type TaskService struct {
	TaskRepo     *repository.TaskRepository
	TaskCaseRepo *repository.TaskCaseRepository
	VariantRepo  *repository.VariantRepository
	RelationRepo *repository.RelationRepository
	Cache        *repository.CountsCache
}

func NewTaskService(
	taskRepo *repository.TaskRepository,
	taskCaseRepo *repository.TaskCaseRepository,
	variantRepo *repository.VariantRepository,
	relationRepo *repository.RelationRepository,
	cache *repository.CountsCache,
) *TaskService {
	return &TaskService{
		TaskRepo:     taskRepo,
		TaskCaseRepo: taskCaseRepo,
		VariantRepo:  variantRepo,
		RelationRepo: relationRepo,
		Cache:        cache,
	}
}

func (s *TaskService) Create(ctx context.Context, authorID uint, req TaskRequest) (*model.Task, error) {
	author := authorID
	task := &model.Task{
		Title:       req.Title,
		Description: req.Description,
		Answer:      req.Answer,
		IsTest:      req.IsTest,
		AuthorID:    &author,
	}
	if err := s.TaskRepo.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, id uint) (*model.Task, error) {
	return s.TaskRepo.FindWithVariants(ctx, id)
}

// List searches tasks by title, split by kind when isTest is set.
func (s *TaskService) List(ctx context.Context, isTest *bool, query string, page, limit int) ([]model.Task, int64, error) {
	return s.TaskRepo.List(ctx, isTest, query, page, limit)
}

// Update edits a task. Its kind may only change while no task case holds it.
func (s *TaskService) Update(ctx context.Context, id uint, req TaskRequest) (*model.Task, error) {
	task, err := s.TaskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.IsTest != req.IsTest {
		holders, err := s.TaskCaseRepo.IDsContainingTask(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(holders) > 0 {
			return nil, util.NewValidationError("isTest", "cannot change the kind of a task that belongs to a task case")
		}
	}

	task.Title = req.Title
	task.Description = req.Description
	task.Answer = req.Answer
	task.IsTest = req.IsTest
	if err := s.TaskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id uint) error {
	users, err := s.RelationRepo.UserIDsForTask(ctx, id)
	if err != nil {
		return err
	}
	if err := s.TaskRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.Cache.Invalidate(ctx, users...); err != nil {
		logger.Log.Warn("Failed to invalidate counts cache", zap.Error(err))
	}
	logger.Log.Info("Task deleted", zap.Uint("taskId", id), zap.Int("relations", len(users)))
	return nil
}

// AddVariant adds an answer option to a test task.
func (s *TaskService) AddVariant(ctx context.Context, taskID, authorID uint, req VariantRequest) (*model.Variant, error) {
	task, err := s.TaskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.IsTest {
		return nil, util.NewValidationError("taskId", "variants belong to test tasks only")
	}

	author := authorID
	v := &model.Variant{TaskID: taskID, Text: req.Text, Correct: req.Correct, AuthorID: &author}
	if err := s.VariantRepo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *TaskService) Variants(ctx context.Context, taskID uint) ([]model.Variant, error) {
	if _, err := s.TaskRepo.FindByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.VariantRepo.ListByTask(ctx, taskID)
}

func (s *TaskService) UpdateVariant(ctx context.Context, taskID, variantID uint, req VariantRequest) (*model.Variant, error) {
	v, err := s.variantOf(ctx, taskID, variantID)
	if err != nil {
		return nil, err
	}
	v.Text = req.Text
	v.Correct = req.Correct
	if err := s.VariantRepo.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *TaskService) DeleteVariant(ctx context.Context, taskID, variantID uint) error {
	if _, err := s.variantOf(ctx, taskID, variantID); err != nil {
		return err
	}
	return s.VariantRepo.Delete(ctx, variantID)
}

func (s *TaskService) variantOf(ctx context.Context, taskID, variantID uint) (*model.Variant, error) {
	v, err := s.VariantRepo.FindByID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if v.TaskID != taskID {
		return nil, util.NotFoundErr("variant", variantID)
	}
	return v, nil
}
