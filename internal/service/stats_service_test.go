package service

import (
	"context"
	"sdo_backend/internal/model"
	"sdo_backend/internal/testutil"
	"sdo_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountsAndSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u := testutil.CreateUser(t, env.db, "u", model.RoleUser)
	t1 := testutil.CreateTask(t, env.db, "t1", false)
	t2 := testutil.CreateTask(t, env.db, "t2", false)
	quiz := testutil.CreateTask(t, env.db, "quiz", true)
	v := testutil.CreateVariant(t, env.db, quiz, "A", true)
	essays := testutil.CreateTaskCase(t, env.db, "essays", false, t1, t2)
	tests := testutil.CreateTaskCase(t, env.db, "tests", true, quiz)
	_, err := env.assignment.AssignTaskCases(ctx, u.ID, []uint{essays.ID, tests.ID})
	require.NoError(t, err)

	_, err = env.lifecycle.SubmitAnswer(ctx, u.ID, t1.ID, "answer")
	require.NoError(t, err)
	_, err = env.lifecycle.GradeTest(ctx, u.ID, quiz.ID, []uint{v.ID})
	require.NoError(t, err)

	summary, err := env.stats.UserSummary(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UserSummary{Waiting: 1, OnCheck: 1, Accept: 1}, *summary)

	scoped, err := env.stats.Counts(ctx, u.ID, &essays.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), scoped[model.StatusNew])
	assert.Equal(t, int64(0), scoped[model.StatusAccept])

	missing := uint(999)
	_, err = env.stats.Counts(ctx, u.ID, &missing)
	assert.ErrorIs(t, err, util.ErrNotFound)

	n, err := env.stats.CountByStatus(ctx, u.ID, nil, model.StatusNew, model.StatusOnCheck)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	n, err = env.stats.CountByStatus(ctx, u.ID, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	onlyTests := true
	badges, err := env.stats.TaskCaseOverview(ctx, u.ID, &onlyTests)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, tests.ID, badges[0].TaskCase.ID)
	assert.True(t, badges[0].Review)
	assert.Equal(t, int64(1), badges[0].Counts[model.StatusAccept])

	pending, err := env.stats.HasOutstandingOnCheck(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, pending)
}

func TestUsersOverviewOrdering(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := testutil.CreateUser(t, env.db, "admin", model.RoleAdmin)
	idle := testutil.CreateUser(t, env.db, "a-idle", model.RoleUser)
	busy := testutil.CreateUser(t, env.db, "b-busy", model.RoleUser)
	fresh := testutil.CreateUser(t, env.db, "c-fresh", model.RoleUser)
	t1 := testutil.CreateTask(t, env.db, "t1", false)
	tc := testutil.CreateTaskCase(t, env.db, "block", false, t1)
	_, err := env.assignment.AssignUsers(ctx, tc.ID, []uint{busy.ID, fresh.ID})
	require.NoError(t, err)
	_, err = env.lifecycle.SubmitAnswer(ctx, busy.ID, t1.ID, "answer")
	require.NoError(t, err)
	_, err = env.notes.Create(ctx, admin.ID, busy.ID, NoteRequest{Text: "check on Monday"})
	require.NoError(t, err)

	rows, err := env.stats.UsersOverview(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, busy.ID, rows[0].User.ID)
	assert.Equal(t, int64(1), rows[0].Notes)
	assert.Equal(t, fresh.ID, rows[1].User.ID)
	assert.Equal(t, idle.ID, rows[2].User.ID)
	assert.Equal(t, model.NewStatusCounts(), rows[2].Counts)
	assert.False(t, rows[2].HasTests)
}

func TestProgressViews(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u := testutil.CreateUser(t, env.db, "u", model.RoleUser)
	outsider := testutil.CreateUser(t, env.db, "outsider", model.RoleUser)
	essay := testutil.CreateTask(t, env.db, "essay", false)
	other := testutil.CreateTask(t, env.db, "other", false)
	require.NoError(t, env.db.Model(essay).Update("answer", "reference").Error)
	tc := testutil.CreateTaskCase(t, env.db, "block", false, essay)
	_, err := env.assignment.AssignUsers(ctx, tc.ID, []uint{u.ID})
	require.NoError(t, err)

	assert.NoError(t, env.progress.EnsureAccess(ctx, u.ID, tc.ID, essay.ID))
	assert.ErrorIs(t, env.progress.EnsureAccess(ctx, u.ID, tc.ID, other.ID), util.ErrNotFound)
	assert.ErrorIs(t, env.progress.EnsureMember(ctx, outsider.ID, tc.ID), util.ErrPermissionDenied)
	assert.ErrorIs(t, env.progress.EnsureMember(ctx, u.ID, 999), util.ErrNotFound)

	_, err = env.lifecycle.SubmitAnswer(ctx, u.ID, essay.ID, "first")
	require.NoError(t, err)
	latest, err := env.lifecycle.SubmitAnswer(ctx, u.ID, essay.ID, "second")
	require.NoError(t, err)

	view, err := env.progress.TaskDetail(ctx, u.ID, essay.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Task.Answer)
	require.NotNil(t, view.Relation)
	assert.Equal(t, model.StatusOnCheck, view.Relation.Status)
	assert.Len(t, view.Answers, 2)

	queue, err := env.progress.CheckQueue(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	require.NotNil(t, queue[0].LatestAnswer)
	assert.Equal(t, latest.ID, queue[0].LatestAnswer.ID)

	list, err := env.progress.TaskList(ctx, u.ID, tc.ID, model.StatusNew)
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = env.progress.TaskList(ctx, u.ID, tc.ID, "DONE")
	assert.ErrorIs(t, err, util.ErrValidation)
}
