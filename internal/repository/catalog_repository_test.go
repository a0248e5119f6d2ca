package repository

import (
	"context"
	"sdo_backend/internal/model"
	"sdo_backend/internal/testutil"
	"sdo_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceTasksReportsAdditions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewTaskCaseRepository(db)
	ctx := context.Background()

	t1 := testutil.CreateTask(t, db, "t1", false)
	t2 := testutil.CreateTask(t, db, "t2", false)
	t3 := testutil.CreateTask(t, db, "t3", false)
	tc := testutil.CreateTaskCase(t, db, "block", false, t1, t2)

	added, err := repo.ReplaceTasks(ctx, tc.ID, []uint{t2.ID, t3.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{t3.ID}, added)

	ids, err := repo.TaskIDs(ctx, tc.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{t2.ID, t3.ID}, ids)

	added, err = repo.ReplaceTasks(ctx, tc.ID, []uint{t2.ID, t3.ID})
	require.NoError(t, err)
	assert.Empty(t, added)

	_, err = repo.ReplaceTasks(ctx, tc.ID, nil)
	require.NoError(t, err)
	ids, err = repo.TaskIDs(ctx, tc.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestTaskIDsOfIsUnion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewTaskCaseRepository(db)
	ctx := context.Background()

	shared := testutil.CreateTask(t, db, "shared", false)
	own := testutil.CreateTask(t, db, "own", false)
	a := testutil.CreateTaskCase(t, db, "a", false, shared)
	b := testutil.CreateTaskCase(t, db, "b", false, shared, own)

	ids, err := repo.TaskIDsOf(ctx, []uint{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint{shared.ID, own.ID}, ids)

	containing, err := repo.IDsContainingTask(ctx, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID, b.ID}, containing)
}

func TestDeleteUserCascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	users := NewUserRepository(db)
	ctx := context.Background()

	admin := testutil.CreateUser(t, db, "admin", model.RoleAdmin)
	u := testutil.CreateUser(t, db, "u", model.RoleUser)
	task := testutil.CreateTask(t, db, "essay", false)
	require.NoError(t, db.Model(task).Update("author_id", admin.ID).Error)
	tc := testutil.CreateTaskCase(t, db, "block", false, task)

	require.NoError(t, NewMembershipRepository(db).Add(ctx, []model.UserTaskCaseRelation{{UserID: u.ID, TaskCaseID: tc.ID}}))
	rel, err := NewRelationRepository(db).GetOrCreate(ctx, u.ID, task.ID)
	require.NoError(t, err)
	answer := &model.Answer{RelationID: rel.ID, AuthorID: u.ID, Text: "mine"}
	require.NoError(t, db.Create(answer).Error)
	adminID := admin.ID
	require.NoError(t, db.Create(&model.Review{AnswerID: answer.ID, AuthorID: &adminID, Text: "ok"}).Error)
	require.NoError(t, db.Create(&model.Note{AuthorID: admin.ID, UserID: u.ID, Text: "n"}).Error)

	require.NoError(t, users.Delete(ctx, u.ID))

	assert.Zero(t, testutil.CountRows(t, db, &model.UserTaskRelation{}))
	assert.Zero(t, testutil.CountRows(t, db, &model.UserTaskCaseRelation{}))
	assert.Zero(t, testutil.CountRows(t, db, &model.Answer{}))
	assert.Zero(t, testutil.CountRows(t, db, &model.Review{}))
	assert.Zero(t, testutil.CountRows(t, db, &model.Note{}))
	_, err = users.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)

	// authored catalog rows survive without their author
	require.NoError(t, users.Delete(ctx, admin.ID))
	stored, err := NewTaskRepository(db).FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.AuthorID)

	assert.ErrorIs(t, users.Delete(ctx, admin.ID), util.ErrNotFound)
}

func TestDeleteTaskCascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	tasks := NewTaskRepository(db)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "u", model.RoleUser)
	quiz := testutil.CreateTask(t, db, "quiz", true)
	keep := testutil.CreateTask(t, db, "keep", true)
	a := testutil.CreateVariant(t, db, quiz, "A", true)
	testutil.CreateVariant(t, db, keep, "K", true)
	testutil.CreateTaskCase(t, db, "tests", true, quiz, keep)

	_, err := NewRelationRepository(db).Ensure(ctx, []uint{u.ID}, []uint{quiz.ID, keep.ID})
	require.NoError(t, err)
	require.NoError(t, NewSelectionRepository(db).ReplaceForTask(ctx, u.ID, quiz.ID, []uint{a.ID}))

	require.NoError(t, tasks.Delete(ctx, quiz.ID))

	assert.Equal(t, int64(1), testutil.CountRows(t, db, &model.UserTaskRelation{}))
	assert.Equal(t, int64(1), testutil.CountRows(t, db, &model.Variant{}))
	assert.Equal(t, int64(1), testutil.CountRows(t, db, &model.TaskCaseTask{}))
	assert.Zero(t, testutil.CountRows(t, db, &model.UserVariant{}))

	assert.ErrorIs(t, tasks.Delete(ctx, quiz.ID), util.ErrNotFound)
}

func TestSelectionReplace(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewSelectionRepository(db)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "u", model.RoleUser)
	quiz := testutil.CreateTask(t, db, "quiz", true)
	a := testutil.CreateVariant(t, db, quiz, "A", true)
	b := testutil.CreateVariant(t, db, quiz, "B", false)

	require.NoError(t, repo.ReplaceForTask(ctx, u.ID, quiz.ID, []uint{a.ID, b.ID}))
	require.NoError(t, repo.ReplaceForTask(ctx, u.ID, quiz.ID, []uint{b.ID}))

	picked, err := repo.ForTask(ctx, u.ID, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, picked)

	require.NoError(t, repo.ReplaceForTask(ctx, u.ID, quiz.ID, nil))
	byTask, err := repo.ForTasks(ctx, u.ID, []uint{quiz.ID})
	require.NoError(t, err)
	assert.Empty(t, byTask[quiz.ID])
}
