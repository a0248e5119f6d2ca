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

func TestCompleteTaskCase(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u := testutil.CreateUser(t, env.db, "u", model.RoleUser)
	other := testutil.CreateUser(t, env.db, "other", model.RoleUser)
	essay := testutil.CreateTask(t, env.db, "essay", false)
	elsewhere := testutil.CreateTask(t, env.db, "elsewhere", false)
	tc := testutil.CreateTaskCase(t, env.db, "block", false, essay)
	next := testutil.CreateTaskCase(t, env.db, "next", false, elsewhere)
	_, err := env.assignment.AssignUsers(ctx, tc.ID, []uint{u.ID, other.ID})
	require.NoError(t, err)
	_, err = env.assignment.AssignUsers(ctx, next.ID, []uint{u.ID})
	require.NoError(t, err)

	// the essay is still NEW
	_, err = env.completion.CompleteTaskCase(ctx, tc.ID, u.ID, false)
	assert.ErrorIs(t, err, util.ErrInvalidTransition)

	answer, err := env.lifecycle.SubmitAnswer(ctx, u.ID, essay.ID, "done")
	require.NoError(t, err)
	_, err = env.lifecycle.AcceptAnswer(ctx, answer.RelationID)
	require.NoError(t, err)

	res, err := env.completion.CompleteTaskCase(ctx, tc.ID, u.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Removed)

	assert.Equal(t, model.TaskStatus(""), testutil.RelationStatus(t, env.db, u.ID, essay.ID))
	assert.Equal(t, model.StatusNew, testutil.RelationStatus(t, env.db, u.ID, elsewhere.ID))
	assert.Equal(t, model.StatusNew, testutil.RelationStatus(t, env.db, other.ID, essay.ID))
	assert.Zero(t, testutil.CountRows(t, env.db, &model.Answer{}))

	_, err = env.completion.CompleteTaskCase(ctx, tc.ID, u.ID, false)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestForceCompleteTaskCase(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u := testutil.CreateUser(t, env.db, "u", model.RoleUser)
	essay := testutil.CreateTask(t, env.db, "essay", false)
	tc := testutil.CreateTaskCase(t, env.db, "block", false, essay)
	_, err := env.assignment.AssignUsers(ctx, tc.ID, []uint{u.ID})
	require.NoError(t, err)
	_, err = env.lifecycle.SubmitAnswer(ctx, u.ID, essay.ID, "half done")
	require.NoError(t, err)

	res, err := env.completion.CompleteTaskCase(ctx, tc.ID, u.ID, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Removed)
	assert.Zero(t, testutil.CountRows(t, env.db, &model.UserTaskCaseRelation{}))
	assert.Zero(t, testutil.CountRows(t, env.db, &model.UserTaskRelation{}))
}
