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

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AssignmentResult reports how many user-task relations an assignment touched.
type AssignmentResult struct {
	Created int64 `json:"created"`
	Removed int64 `json:"removed"`
}

// AssignmentService binds tasks to task cases and task cases to users, keeping
// user-task relations in step. Existing relations are never reset.
type AssignmentService struct {
	DB             *gorm.DB
	UserRepo       *repository.UserRepository
	TaskRepo       *repository.TaskRepository
	TaskCaseRepo   *repository.TaskCaseRepository
	RelationRepo   *repository.RelationRepository
	MembershipRepo *repository.MembershipRepository
	Cache          *repository.CountsCache
}

func NewAssignmentService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	taskRepo *repository.TaskRepository,
	taskCaseRepo *repository.TaskCaseRepository,
	relationRepo *repository.RelationRepository,
	membershipRepo *repository.MembershipRepository,
	cache *repository.CountsCache,
) *AssignmentService {
	return &AssignmentService{
		DB:             db,
		UserRepo:       userRepo,
		TaskRepo:       taskRepo,
		TaskCaseRepo:   taskCaseRepo,
		RelationRepo:   relationRepo,
		MembershipRepo: membershipRepo,
		Cache:          cache,
	}
}

// CandidateTasks lists the tasks that may be put into the task case: those of the same kind.
func (s *AssignmentService) CandidateTasks(ctx context.Context, taskCaseID uint) ([]model.Task, error) {
	tc, err := s.TaskCaseRepo.FindByID(ctx, taskCaseID)
	if err != nil {
		return nil, err
	}
	return s.TaskRepo.ByKind(ctx, tc.IsTest)
}

// AssignTasks makes taskIDs the exact task set of the task case. Tasks that
// were not in the set before are handed to the current members as NEW. Members
// lose their relations to dropped tasks unless another of their task cases
// still holds the task.
func (s *AssignmentService) AssignTasks(ctx context.Context, taskCaseID uint, taskIDs []uint) (res *AssignmentResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "AssignmentService.AssignTasks", attribute.Int64("taskcase.id", int64(taskCaseID)))
	defer func() { tracing.End(span, err) }()

	ids := util.UniqueUints(taskIDs)
	res = &AssignmentResult{}
	var members []uint

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskCases := s.TaskCaseRepo.WithTx(tx)
		tc, err := taskCases.FindByID(ctx, taskCaseID)
		if err != nil {
			return err
		}

		tasks, err := s.TaskRepo.WithTx(tx).FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		if err := requireAll("task", ids, taskIDsOf(tasks)); err != nil {
			return err
		}
		for _, t := range tasks {
			if t.IsTest != tc.IsTest {
				return util.NewValidationError("taskIds",
					fmt.Sprintf("task %d is_test=%t does not match taskcase is_test=%t", t.ID, t.IsTest, tc.IsTest))
			}
		}

		before, err := taskCases.TaskIDs(ctx, taskCaseID)
		if err != nil {
			return err
		}
		added, err := taskCases.ReplaceTasks(ctx, taskCaseID, ids)
		if err != nil {
			return err
		}
		members, err = s.MembershipRepo.WithTx(tx).UserIDs(ctx, taskCaseID)
		if err != nil {
			return err
		}

		removed := util.DiffUints(before, ids)
		for _, userID := range members {
			n, err := s.pruneUncovered(ctx, tx, userID, taskCaseID, removed)
			if err != nil {
				return err
			}
			res.Removed += n
		}

		res.Created, err = s.RelationRepo.WithTx(tx).Ensure(ctx, members, added)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.finish(ctx, "tasks", taskCaseID, res, members)
	return res, nil
}

// AssignUsers makes userIDs the exact member set of the task case. Members get
// a NEW relation for every task they lack. Removed members lose their relations
// to the task case's tasks unless another of their task cases still covers the task.
func (s *AssignmentService) AssignUsers(ctx context.Context, taskCaseID uint, userIDs []uint) (res *AssignmentResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "AssignmentService.AssignUsers", attribute.Int64("taskcase.id", int64(taskCaseID)))
	defer func() { tracing.End(span, err) }()

	ids := util.UniqueUints(userIDs)
	res = &AssignmentResult{}
	var touched []uint

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskCases := s.TaskCaseRepo.WithTx(tx)
		memberships := s.MembershipRepo.WithTx(tx)
		relations := s.RelationRepo.WithTx(tx)

		if _, err := taskCases.FindByID(ctx, taskCaseID); err != nil {
			return err
		}
		existing, err := s.UserRepo.WithTx(tx).ExistingIDs(ctx, ids)
		if err != nil {
			return err
		}
		if err := requireAll("user", ids, existing); err != nil {
			return err
		}

		current, err := memberships.UserIDs(ctx, taskCaseID)
		if err != nil {
			return err
		}
		taskIDs, err := taskCases.TaskIDs(ctx, taskCaseID)
		if err != nil {
			return err
		}

		removed := util.DiffUints(current, ids)
		for _, userID := range removed {
			n, err := s.pruneUncovered(ctx, tx, userID, taskCaseID, taskIDs)
			if err != nil {
				return err
			}
			res.Removed += n
		}
		if err := memberships.RemoveUsers(ctx, taskCaseID, removed); err != nil {
			return err
		}

		added := make([]model.UserTaskCaseRelation, 0, len(ids))
		for _, userID := range ids {
			added = append(added, model.UserTaskCaseRelation{UserID: userID, TaskCaseID: taskCaseID})
		}
		if err := memberships.Add(ctx, added); err != nil {
			return err
		}

		res.Created, err = relations.Ensure(ctx, ids, taskIDs)
		if err != nil {
			return err
		}
		touched = append(removed, ids...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.finish(ctx, "users", taskCaseID, res, touched)
	return res, nil
}

// AssignTaskCases makes taskCaseIDs the exact set of task cases of the user.
// Relations to tasks only reachable through dropped task cases are deleted.
func (s *AssignmentService) AssignTaskCases(ctx context.Context, userID uint, taskCaseIDs []uint) (res *AssignmentResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "AssignmentService.AssignTaskCases", attribute.Int64("user.id", int64(userID)))
	defer func() { tracing.End(span, err) }()

	ids := util.UniqueUints(taskCaseIDs)
	res = &AssignmentResult{}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskCases := s.TaskCaseRepo.WithTx(tx)
		memberships := s.MembershipRepo.WithTx(tx)
		relations := s.RelationRepo.WithTx(tx)

		if _, err := s.UserRepo.WithTx(tx).FindByID(ctx, userID); err != nil {
			return err
		}
		tcs, err := taskCases.FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		found := make([]uint, 0, len(tcs))
		for _, tc := range tcs {
			found = append(found, tc.ID)
		}
		if err := requireAll("taskcase", ids, found); err != nil {
			return err
		}

		current, err := memberships.TaskCaseIDs(ctx, userID)
		if err != nil {
			return err
		}
		removed := util.DiffUints(current, ids)

		keep, err := taskCases.TaskIDsOf(ctx, ids)
		if err != nil {
			return err
		}
		dropped, err := taskCases.TaskIDsOf(ctx, removed)
		if err != nil {
			return err
		}
		res.Removed, err = relations.DeleteForUserTasks(ctx, userID, util.DiffUints(dropped, keep))
		if err != nil {
			return err
		}
		if err := memberships.RemoveTaskCases(ctx, userID, removed); err != nil {
			return err
		}

		added := make([]model.UserTaskCaseRelation, 0, len(ids))
		for _, tcID := range ids {
			added = append(added, model.UserTaskCaseRelation{UserID: userID, TaskCaseID: tcID})
		}
		if err := memberships.Add(ctx, added); err != nil {
			return err
		}

		res.Created, err = relations.Ensure(ctx, []uint{userID}, keep)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.finish(ctx, "taskcases", userID, res, []uint{userID})
	return res, nil
}

// pruneUncovered deletes the user's relations to taskIDs, sparing tasks held by
// any of the user's task cases other than taskCaseID.
func (s *AssignmentService) pruneUncovered(ctx context.Context, tx *gorm.DB, userID, taskCaseID uint, taskIDs []uint) (int64, error) {
	if len(taskIDs) == 0 {
		return 0, nil
	}
	others, err := s.MembershipRepo.WithTx(tx).TaskCaseIDs(ctx, userID)
	if err != nil {
		return 0, err
	}
	covered, err := s.TaskCaseRepo.WithTx(tx).TaskIDsOf(ctx, util.DiffUints(others, []uint{taskCaseID}))
	if err != nil {
		return 0, err
	}
	return s.RelationRepo.WithTx(tx).DeleteForUserTasks(ctx, userID, util.DiffUints(taskIDs, covered))
}

func (s *AssignmentService) finish(ctx context.Context, kind string, subjectID uint, res *AssignmentResult, users []uint) {
	monitoring.ObserveAssignment(res.Created, res.Removed)
	if err := s.Cache.Invalidate(ctx, users...); err != nil {
		logger.Log.Warn("Failed to invalidate counts cache", zap.Error(err))
	}
	logger.Log.Info("Assignment updated",
		zap.String("kind", kind),
		zap.Uint("subjectId", subjectID),
		zap.Int64("created", res.Created),
		zap.Int64("removed", res.Removed),
	)
}

// requireAll fails with NotFound on the first wanted id missing from found.
func requireAll(entity string, want, found []uint) error {
	if missing := util.DiffUints(want, found); len(missing) > 0 {
		return util.NotFoundErr(entity, missing[0])
	}
	return nil
}

func taskIDsOf(tasks []model.Task) []uint {
	ids := make([]uint, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}
