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

func TestTaskCaseKindLockedByTasks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := testutil.CreateUser(t, env.db, "admin", model.RoleAdmin)
	tc, err := env.taskCases.Create(ctx, admin.ID, TaskCaseRequest{Title: "Safety-101"})
	require.NoError(t, err)
	require.NotNil(t, tc.AuthorID)

	tc, err = env.taskCases.Update(ctx, tc.ID, TaskCaseRequest{Title: "Quiz-1", IsTest: true})
	require.NoError(t, err)
	assert.True(t, tc.IsTest)

	quiz := testutil.CreateTask(t, env.db, "quiz", true)
	_, err = env.assignment.AssignTasks(ctx, tc.ID, []uint{quiz.ID})
	require.NoError(t, err)

	_, err = env.taskCases.Update(ctx, tc.ID, TaskCaseRequest{Title: "Quiz-1", IsTest: false})
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = env.tasks.Update(ctx, quiz.ID, TaskRequest{Title: "quiz", IsTest: false})
	assert.ErrorIs(t, err, util.ErrValidation)

	detail, err := env.taskCases.Get(ctx, tc.ID)
	require.NoError(t, err)
	require.Len(t, detail.Tasks, 1)
	assert.Empty(t, detail.Members)

	require.NoError(t, env.taskCases.Delete(ctx, tc.ID))
	assert.ErrorIs(t, env.taskCases.Delete(ctx, tc.ID), util.ErrNotFound)
	assert.Zero(t, testutil.CountRows(t, env.db, &model.TaskCaseTask{}))
}

func TestVariantsBelongToTestTasks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := testutil.CreateUser(t, env.db, "admin", model.RoleAdmin)
	essay, err := env.tasks.Create(ctx, admin.ID, TaskRequest{Title: "essay", Answer: "ref"})
	require.NoError(t, err)
	quiz, err := env.tasks.Create(ctx, admin.ID, TaskRequest{Title: "quiz", IsTest: true})
	require.NoError(t, err)

	_, err = env.tasks.AddVariant(ctx, essay.ID, admin.ID, VariantRequest{Text: "A"})
	assert.ErrorIs(t, err, util.ErrValidation)

	v, err := env.tasks.AddVariant(ctx, quiz.ID, admin.ID, VariantRequest{Text: "A", Correct: true})
	require.NoError(t, err)

	_, err = env.tasks.UpdateVariant(ctx, essay.ID, v.ID, VariantRequest{Text: "B"})
	assert.ErrorIs(t, err, util.ErrNotFound)

	v, err = env.tasks.UpdateVariant(ctx, quiz.ID, v.ID, VariantRequest{Text: "B", Correct: false})
	require.NoError(t, err)
	assert.False(t, v.Correct)

	got, err := env.tasks.Get(ctx, quiz.ID)
	require.NoError(t, err)
	require.Len(t, got.Variants, 1)
	assert.Equal(t, "B", got.Variants[0].Text)

	require.NoError(t, env.tasks.DeleteVariant(ctx, quiz.ID, v.ID))
	variants, err := env.tasks.Variants(ctx, quiz.ID)
	require.NoError(t, err)
	assert.Empty(t, variants)
}

func TestUserLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u, err := env.users.Create(ctx, CreateUserRequest{Username: "petrov", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.True(t, env.users.CheckPassword(u, "secret-pass"))
	assert.False(t, env.users.CheckPassword(u, "wrong"))

	_, err = env.users.Create(ctx, CreateUserRequest{Username: "petrov", Password: "another-pass"})
	assert.ErrorIs(t, err, util.ErrValidation)

	u, err = env.users.Update(ctx, u.ID, UpdateUserRequest{FirstName: "Ivan", Role: "admin"})
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())
	assert.True(t, env.users.CheckPassword(u, "secret-pass"))

	found, total, err := env.users.List(ctx, "Iva", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, u.ID, found[0].ID)

	note, err := env.notes.Create(ctx, u.ID, u.ID, NoteRequest{Text: "self"})
	require.NoError(t, err)
	notes, err := env.notes.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 1)

	edited, err := env.notes.Update(ctx, u.ID, note.ID, NoteRequest{Text: "self, revised"})
	require.NoError(t, err)
	assert.Equal(t, "self, revised", edited.Text)
	notes, err = env.notes.List(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "self, revised", notes[0].Text)
	_, err = env.notes.Update(ctx, u.ID+1, note.ID, NoteRequest{Text: "elsewhere"})
	assert.ErrorIs(t, err, util.ErrNotFound)

	require.NoError(t, env.notes.Delete(ctx, u.ID, note.ID))

	require.NoError(t, env.users.Delete(ctx, u.ID))
	_, err = env.users.Get(ctx, u.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)
	_, err = env.notes.List(ctx, u.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)
}
