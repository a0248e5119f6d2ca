package service

import (
	"context"
	"fmt"
	"sdo_backend/internal/model"
	"sdo_backend/internal/repository"
	"sdo_backend/internal/util"
	"sdo_backend/pkg/logger"
	"sdo_backend/pkg/monitoring"
	"sdo_backend/pkg/tracing"
	"strings"
	"sync/atomic"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LifecycleService moves user-task relations through the review workflow.
type LifecycleService struct {
	DB             *gorm.DB
	UserRepo       *repository.UserRepository
	TaskRepo       *repository.TaskRepository
	VariantRepo    *repository.VariantRepository
	RelationRepo   *repository.RelationRepository
	AnswerRepo     *repository.AnswerRepository
	ReviewRepo     *repository.ReviewRepository
	SelectionRepo  *repository.SelectionRepository
	MembershipRepo *repository.MembershipRepository
	StatsRepo      *repository.StatsRepository
	Cache          *repository.CountsCache

	strict atomic.Bool
}

func NewLifecycleService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	taskRepo *repository.TaskRepository,
	variantRepo *repository.VariantRepository,
	relationRepo *repository.RelationRepository,
	answerRepo *repository.AnswerRepository,
	reviewRepo *repository.ReviewRepository,
	selectionRepo *repository.SelectionRepository,
	membershipRepo *repository.MembershipRepository,
	statsRepo *repository.StatsRepository,
	cache *repository.CountsCache,
	strict bool,
) *LifecycleService {
	s := &LifecycleService{
		DB:             db,
		UserRepo:       userRepo,
		TaskRepo:       taskRepo,
		VariantRepo:    variantRepo,
		RelationRepo:   relationRepo,
		AnswerRepo:     answerRepo,
		ReviewRepo:     reviewRepo,
		SelectionRepo:  selectionRepo,
		MembershipRepo: membershipRepo,
		StatsRepo:      statsRepo,
		Cache:          cache,
	}
	s.strict.Store(strict)
	return s
}

// SetStrict toggles transition guarding. With guarding off, submit, review and
// accept set their target status whatever the current one is.
func (s *LifecycleService) SetStrict(strict bool) {
	s.strict.Store(strict)
}

func (s *LifecycleService) Strict() bool {
	return s.strict.Load()
}

type transition struct {
	userID     uint
	relationID uint
	action     model.Action
	from       model.TaskStatus
	to         model.TaskStatus
}

func (s *LifecycleService) guard(rel *model.UserTaskRelation, action model.Action) error {
	if s.Strict() && !rel.Status.Permits(action) {
		return &util.TransitionError{From: rel.Status, Action: action}
	}
	return nil
}

// record publishes a committed transition.
func (s *LifecycleService) record(ctx context.Context, t transition) {
	monitoring.ObserveTransition(string(t.action), t.from.String(), t.to.String())
	if err := s.Cache.Invalidate(ctx, t.userID); err != nil {
		logger.Log.Warn("Failed to invalidate counts cache", zap.Uint("userId", t.userID), zap.Error(err))
	}
	logger.Log.Info("Task status changed",
		zap.Uint("userId", t.userID),
		zap.Uint("relationId", t.relationID),
		zap.String("action", string(t.action)),
		zap.String("from", t.from.String()),
		zap.String("to", t.to.String()),
	)
}

// SubmitAnswer stores a free-text answer and puts the task on check.
// The relation is created on first submission.
func (s *LifecycleService) SubmitAnswer(ctx context.Context, userID, taskID uint, text string) (answer *model.Answer, err error) {
	ctx, span := tracing.StartSpan(ctx, "LifecycleService.SubmitAnswer",
		attribute.Int64("user.id", int64(userID)), attribute.Int64("task.id", int64(taskID)))
	defer func() { tracing.End(span, err) }()

	if strings.TrimSpace(text) == "" {
		return nil, util.NewValidationError("text", "answer must not be blank")
	}

	var t transition
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.UserRepo.WithTx(tx).FindByID(ctx, userID); err != nil {
			return err
		}
		task, err := s.TaskRepo.WithTx(tx).FindByID(ctx, taskID)
		if err != nil {
			return err
		}
		if task.IsTest {
			return util.NewValidationError("taskId", "test tasks are answered by choosing variants")
		}

		relations := s.RelationRepo.WithTx(tx)
		rel, err := relations.GetOrCreate(ctx, userID, taskID)
		if err != nil {
			return err
		}
		if err := s.guard(rel, model.ActionSubmit); err != nil {
			return err
		}

		answer = &model.Answer{RelationID: rel.ID, AuthorID: userID, Text: text}
		if err := s.AnswerRepo.WithTx(tx).Create(ctx, answer); err != nil {
			return err
		}
		if err := relations.UpdateStatus(ctx, rel.ID, model.StatusOnCheck); err != nil {
			return err
		}
		t = transition{userID: userID, relationID: rel.ID, action: model.ActionSubmit, from: rel.Status, to: model.StatusOnCheck}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, t)
	return answer, nil
}

// GradeTest replaces the user's selection on a test task and scores it:
// ACCEPT when the selection equals the set of correct variants, WRONG otherwise.
// Blocks containing the task get flagged for review once none of their test
// tasks is still waiting on the user.
func (s *LifecycleService) GradeTest(ctx context.Context, userID, taskID uint, variantIDs []uint) (status model.TaskStatus, err error) {
	ctx, span := tracing.StartSpan(ctx, "LifecycleService.GradeTest",
		attribute.Int64("user.id", int64(userID)), attribute.Int64("task.id", int64(taskID)))
	defer func() { tracing.End(span, err) }()

	selected := util.UniqueUints(variantIDs)

	var t transition
	var flagged []uint
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.UserRepo.WithTx(tx).FindByID(ctx, userID); err != nil {
			return err
		}
		task, err := s.TaskRepo.WithTx(tx).FindByID(ctx, taskID)
		if err != nil {
			return err
		}
		if !task.IsTest {
			return util.NewValidationError("taskId", "only test tasks can be graded")
		}

		variants := s.VariantRepo.WithTx(tx)
		all, err := variants.IDsByTask(ctx, taskID, false)
		if err != nil {
			return err
		}
		if foreign := util.DiffUints(selected, all); len(foreign) > 0 {
			return util.NewValidationError("variantIds", fmt.Sprintf("variant %d does not belong to task %d", foreign[0], taskID))
		}
		correct, err := variants.IDsByTask(ctx, taskID, true)
		if err != nil {
			return err
		}

		relations := s.RelationRepo.WithTx(tx)
		rel, err := relations.GetOrCreate(ctx, userID, taskID)
		if err != nil {
			return err
		}
		if err := s.SelectionRepo.WithTx(tx).ReplaceForTask(ctx, userID, taskID, selected); err != nil {
			return err
		}

		status = model.StatusWrong
		if util.SameUintSet(selected, correct) {
			status = model.StatusAccept
		}
		if err := relations.UpdateStatus(ctx, rel.ID, status); err != nil {
			return err
		}
		t = transition{userID: userID, relationID: rel.ID, action: model.ActionGrade, from: rel.Status, to: status}

		memberships := s.MembershipRepo.WithTx(tx)
		stats := s.StatsRepo.WithTx(tx)
		taskCaseIDs, err := memberships.MemberTaskCasesContaining(ctx, userID, taskID)
		if err != nil {
			return err
		}
		for _, tcID := range taskCaseIDs {
			waiting, err := stats.CountByStatus(ctx, userID, &tcID, true, model.WaitingStatuses...)
			if err != nil {
				return err
			}
			if waiting > 0 {
				continue
			}
			if err := memberships.SetReview(ctx, userID, tcID, true); err != nil {
				return err
			}
			flagged = append(flagged, tcID)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	s.record(ctx, t)
	if len(flagged) > 0 {
		logger.Log.Info("Test blocks ready for review", zap.Uint("userId", userID), zap.Uints("taskCaseIds", flagged))
	}
	return status, nil
}

// AddReview attaches an admin comment to an answer and sends the task back for revision.
func (s *LifecycleService) AddReview(ctx context.Context, answerID, authorID uint, text string) (review *model.Review, err error) {
	ctx, span := tracing.StartSpan(ctx, "LifecycleService.AddReview", attribute.Int64("answer.id", int64(answerID)))
	defer func() { tracing.End(span, err) }()

	if strings.TrimSpace(text) == "" {
		return nil, util.NewValidationError("text", "review must not be blank")
	}

	var t transition
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		answer, err := s.AnswerRepo.WithTx(tx).FindByID(ctx, answerID)
		if err != nil {
			return err
		}
		relations := s.RelationRepo.WithTx(tx)
		rel, err := relations.FindByID(ctx, answer.RelationID)
		if err != nil {
			return err
		}
		if err := s.guard(rel, model.ActionReview); err != nil {
			return err
		}

		author := authorID
		review = &model.Review{AnswerID: answer.ID, AuthorID: &author, Text: text}
		if err := s.ReviewRepo.WithTx(tx).Create(ctx, review); err != nil {
			return err
		}
		if err := relations.UpdateStatus(ctx, rel.ID, model.StatusForRevision); err != nil {
			return err
		}
		t = transition{userID: rel.UserID, relationID: rel.ID, action: model.ActionReview, from: rel.Status, to: model.StatusForRevision}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, t)
	return review, nil
}

// AcceptAnswer closes a free-text task as accepted.
func (s *LifecycleService) AcceptAnswer(ctx context.Context, relationID uint) (rel *model.UserTaskRelation, err error) {
	ctx, span := tracing.StartSpan(ctx, "LifecycleService.AcceptAnswer", attribute.Int64("relation.id", int64(relationID)))
	defer func() { tracing.End(span, err) }()

	var t transition
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		relations := s.RelationRepo.WithTx(tx)
		found, err := relations.FindByID(ctx, relationID)
		if err != nil {
			return err
		}
		if err := s.guard(found, model.ActionAccept); err != nil {
			return err
		}
		if err := relations.UpdateStatus(ctx, found.ID, model.StatusAccept); err != nil {
			return err
		}
		t = transition{userID: found.UserID, relationID: found.ID, action: model.ActionAccept, from: found.Status, to: model.StatusAccept}
		found.Status = model.StatusAccept
		rel = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, t)
	return rel, nil
}
