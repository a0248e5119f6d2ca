package repository

import (
	"context"
	"sdo_backend/internal/model"
	"sdo_backend/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusAggregations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	stats := NewStatsRepository(db)
	relations := NewRelationRepository(db)
	ctx := context.Background()

	u := testutil.CreateUser(t, db, "u", model.RoleUser)
	idle := testutil.CreateUser(t, db, "idle", model.RoleUser)
	t1 := testutil.CreateTask(t, db, "t1", false)
	t2 := testutil.CreateTask(t, db, "t2", false)
	q1 := testutil.CreateTask(t, db, "q1", true)
	essays := testutil.CreateTaskCase(t, db, "essays", false, t1, t2)
	quiz := testutil.CreateTaskCase(t, db, "quiz", true, q1)
	require.NoError(t, NewMembershipRepository(db).Add(ctx, []model.UserTaskCaseRelation{
		{UserID: u.ID, TaskCaseID: essays.ID},
		{UserID: u.ID, TaskCaseID: quiz.ID},
	}))

	_, err := relations.Ensure(ctx, []uint{u.ID}, []uint{t1.ID, t2.ID, q1.ID})
	require.NoError(t, err)
	rel, err := relations.Find(ctx, u.ID, t1.ID)
	require.NoError(t, err)
	require.NoError(t, relations.UpdateStatus(ctx, rel.ID, model.StatusOnCheck))

	all, err := stats.GroupByStatus(ctx, u.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCounts{
		model.StatusNew:         2,
		model.StatusForRevision: 0,
		model.StatusOnCheck:     1,
		model.StatusAccept:      0,
		model.StatusWrong:       0,
	}, all)

	scoped, err := stats.GroupByStatus(ctx, u.ID, &quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), scoped[model.StatusNew])
	assert.Equal(t, int64(0), scoped[model.StatusOnCheck])

	empty, err := stats.GroupByStatus(ctx, idle.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, model.NewStatusCounts(), empty)

	waiting, err := stats.CountByStatus(ctx, u.ID, nil, true, model.WaitingStatuses...)
	require.NoError(t, err)
	assert.Equal(t, int64(1), waiting)

	perCase, err := stats.GroupByTaskCase(ctx, u.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), perCase[essays.ID][model.StatusOnCheck])
	assert.Equal(t, int64(1), perCase[essays.ID][model.StatusNew])
	assert.Equal(t, int64(1), perCase[quiz.ID][model.StatusNew])

	perUser, err := stats.GroupByUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), perUser[u.ID].Sum(model.AllStatuses...))
	_, ok := perUser[idle.ID]
	assert.False(t, ok)

	withTests, err := stats.UsersWithTests(ctx)
	require.NoError(t, err)
	assert.True(t, withTests[u.ID])
	assert.False(t, withTests[idle.ID])
}

func TestReviewAndNoteCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	stats := NewStatsRepository(db)
	memberships := NewMembershipRepository(db)
	ctx := context.Background()

	admin := testutil.CreateUser(t, db, "admin", model.RoleAdmin)
	u := testutil.CreateUser(t, db, "u", model.RoleUser)
	tc := testutil.CreateTaskCase(t, db, "quiz", true)
	require.NoError(t, memberships.Add(ctx, []model.UserTaskCaseRelation{{UserID: u.ID, TaskCaseID: tc.ID}}))
	require.NoError(t, memberships.SetReview(ctx, u.ID, tc.ID, true))
	require.NoError(t, NewNoteRepository(db).Create(ctx, &model.Note{AuthorID: admin.ID, UserID: u.ID, Text: "slow start"}))

	pending, err := stats.ReviewPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)

	blocks, err := stats.ReviewBlocksByUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), blocks[u.ID])

	notes, err := stats.NotesByUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), notes[u.ID])
	assert.Zero(t, notes[admin.ID])
}
