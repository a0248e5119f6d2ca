package service

import (
	"sdo_backend/internal/repository"
	"sdo_backend/internal/testutil"
	"testing"

	"gorm.io/gorm"
)

type testEnv struct {
	db         *gorm.DB
	lifecycle  *LifecycleService
	assignment *AssignmentService
	completion *CompletionService
	stats      *StatsService
	progress   *ProgressService
	taskCases  *TaskCaseService
	tasks      *TaskService
	users      *UserService
	notes      *NoteService
}

// newTestEnv wires every service over a fresh database without a cache.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithCache(t, repository.NewCountsCache(nil, 0))
}

func newTestEnvWithCache(t *testing.T, cache *repository.CountsCache) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	users := repository.NewUserRepository(db)
	taskCases := repository.NewTaskCaseRepository(db)
	tasks := repository.NewTaskRepository(db)
	variants := repository.NewVariantRepository(db)
	relations := repository.NewRelationRepository(db)
	memberships := repository.NewMembershipRepository(db)
	answers := repository.NewAnswerRepository(db)
	reviews := repository.NewReviewRepository(db)
	selections := repository.NewSelectionRepository(db)
	stats := repository.NewStatsRepository(db)
	notes := repository.NewNoteRepository(db)

	return &testEnv{
		db:         db,
		lifecycle:  NewLifecycleService(db, users, tasks, variants, relations, answers, reviews, selections, memberships, stats, cache, true),
		assignment: NewAssignmentService(db, users, tasks, taskCases, relations, memberships, cache),
		completion: NewCompletionService(db, taskCases, relations, memberships, cache),
		stats:      NewStatsService(stats, users, taskCases, memberships, cache),
		progress:   NewProgressService(tasks, taskCases, variants, relations, memberships, answers, selections),
		taskCases:  NewTaskCaseService(taskCases, memberships, cache),
		tasks:      NewTaskService(tasks, taskCases, variants, relations, cache),
		users:      NewUserService(users, memberships, cache),
		notes:      NewNoteService(notes, users),
	}
}
