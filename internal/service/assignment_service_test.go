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

func TestAssignUsersTwiceKeepsStatuses(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u1 := testutil.CreateUser(t, env.db, "u1", model.RoleUser)
	u2 := testutil.CreateUser(t, env.db, "u2", model.RoleUser)
	t1 := testutil.CreateTask(t, env.db, "t1", false)
	t2 := testutil.CreateTask(t, env.db, "t2", false)
	tc := testutil.CreateTaskCase(t, env.db, "block", false, t1, t2)

	res, err := env.assignment.AssignUsers(ctx, tc.ID, []uint{u1.ID, u2.ID, u1.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Created)

	_, err = env.lifecycle.SubmitAnswer(ctx, u1.ID, t1.ID, "answer")
	require.NoError(t, err)

	res, err = env.assignment.AssignUsers(ctx, tc.ID, []uint{u1.ID, u2.ID})
	require.NoError(t, err)
	assert.Zero(t, res.Created)
	assert.Zero(t, res.Removed)
	assert.Equal(t, int64(4), testutil.CountRows(t, env.db, &model.UserTaskRelation{}))
	assert.Equal(t, int64(2), testutil.CountRows(t, env.db, &model.UserTaskCaseRelation{}))
	assert.Equal(t, model.StatusOnCheck, testutil.RelationStatus(t, env.db, u1.ID, t1.ID))
}

func TestAssignUsersRemovalKeepsCoveredTasks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u := testutil.CreateUser(t, env.db, "u", model.RoleUser)
	shared := testutil.CreateTask(t, env.db, "shared", false)
	own := testutil.CreateTask(t, env.db, "own", false)
	a := testutil.CreateTaskCase(t, env.db, "a", false, shared, own)
	b := testutil.CreateTaskCase(t, env.db, "b", false, shared)

	_, err := env.assignment.AssignUsers(ctx, a.ID, []uint{u.ID})
	require.NoError(t, err)
	_, err = env.assignment.AssignUsers(ctx, b.ID, []uint{u.ID})
	require.NoError(t, err)

	res, err := env.assignment.AssignUsers(ctx, a.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Removed)
	assert.Equal(t, model.StatusNew, testutil.RelationStatus(t, env.db, u.ID, shared.ID))
	assert.Equal(t, model.TaskStatus(""), testutil.RelationStatus(t, env.db, u.ID, own.ID))

	ids, err := env.progress.MembershipRepo.TaskCaseIDs(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, ids)
}

func TestAssignUsersUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tc := testutil.CreateTaskCase(t, env.db, "block", false)
	_, err := env.assignment.AssignUsers(ctx, tc.ID, []uint{42})
	assert.ErrorIs(t, err, util.ErrNotFound)

	_, err = env.assignment.AssignUsers(ctx, 999, nil)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestAssignTasksPropagatesToMembers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u := testutil.CreateUser(t, env.db, "u", model.RoleUser)
	t1 := testutil.CreateTask(t, env.db, "t1", false)
	t2 := testutil.CreateTask(t, env.db, "t2", false)
	quiz := testutil.CreateTask(t, env.db, "quiz", true)
	tc := testutil.CreateTaskCase(t, env.db, "block", false, t1)
	_, err := env.assignment.AssignUsers(ctx, tc.ID, []uint{u.ID})
	require.NoError(t, err)

	res, err := env.assignment.AssignTasks(ctx, tc.ID, []uint{t1.ID, t2.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Created)
	assert.Equal(t, model.StatusNew, testutil.RelationStatus(t, env.db, u.ID, t2.ID))

	_, err = env.assignment.AssignTasks(ctx, tc.ID, []uint{quiz.ID})
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = env.assignment.AssignTasks(ctx, tc.ID, []uint{t1.ID, 999})
	assert.ErrorIs(t, err, util.ErrNotFound)

	candidates, err := env.assignment.CandidateTasks(ctx, tc.ID)
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func TestAssignTaskCases(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u := testutil.CreateUser(t, env.db, "u", model.RoleUser)
	t1 := testutil.CreateTask(t, env.db, "t1", false)
	t2 := testutil.CreateTask(t, env.db, "t2", false)
	q1 := testutil.CreateTask(t, env.db, "q1", true)
	essays := testutil.CreateTaskCase(t, env.db, "essays", false, t1, t2)
	quiz := testutil.CreateTaskCase(t, env.db, "quiz", true, q1)

	res, err := env.assignment.AssignTaskCases(ctx, u.ID, []uint{essays.ID, quiz.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Created)

	res, err = env.assignment.AssignTaskCases(ctx, u.ID, []uint{quiz.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Removed)
	assert.Zero(t, res.Created)
	assert.Equal(t, int64(1), testutil.CountRows(t, env.db, &model.UserTaskRelation{}))

	_, err = env.assignment.AssignTaskCases(ctx, u.ID, []uint{999})
	assert.ErrorIs(t, err, util.ErrNotFound)
	_, err = env.assignment.AssignTaskCases(ctx, 999, nil)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestAssignTasksDropsRelationsOfRemovedTasks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, env.db, "alice", model.RoleUser)
	bob := testutil.CreateUser(t, env.db, "bob", model.RoleUser)
	q1 := testutil.CreateTask(t, env.db, "q1", false)
	q2 := testutil.CreateTask(t, env.db, "q2", false)
	safety := testutil.CreateTaskCase(t, env.db, "Safety-101", false, q1, q2)
	refresher := testutil.CreateTaskCase(t, env.db, "Refresher", false, q2)

	_, err := env.assignment.AssignUsers(ctx, safety.ID, []uint{alice.ID, bob.ID})
	require.NoError(t, err)
	_, err = env.assignment.AssignUsers(ctx, refresher.ID, []uint{bob.ID})
	require.NoError(t, err)
	_, err = env.lifecycle.SubmitAnswer(ctx, alice.ID, q2.ID, "draft")
	require.NoError(t, err)

	res, err := env.assignment.AssignTasks(ctx, safety.ID, []uint{q1.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Removed)
	assert.Zero(t, res.Created)

	assert.Empty(t, testutil.RelationStatus(t, env.db, alice.ID, q2.ID))
	assert.Zero(t, testutil.CountRows(t, env.db, &model.Answer{}))
	assert.Equal(t, model.StatusNew, testutil.RelationStatus(t, env.db, bob.ID, q2.ID))

	_, err = env.completion.CompleteTaskCase(ctx, safety.ID, alice.ID, true)
	require.NoError(t, err)
	summary, err := env.stats.UserSummary(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, summary.Waiting)
	assert.Zero(t, testutil.CountRows(t, env.db, &model.UserTaskRelation{}, "user_id = ?", alice.ID))
}
