package service

import (
	"context"
	"sdo_backend/internal/model"
	"sdo_backend/internal/repository"
	"sdo_backend/internal/testutil"
	"sdo_backend/internal/util"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCachedTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return newTestEnvWithCache(t, repository.NewCountsCache(rdb, time.Minute))
}

func TestCachedCountsFollowWrites(t *testing.T) {
	env := newCachedTestEnv(t)
	ctx := context.Background()

	u := testutil.CreateUser(t, env.db, "u", model.RoleUser)
	essay := testutil.CreateTask(t, env.db, "essay", false)
	essays := testutil.CreateTaskCase(t, env.db, "essays", false, essay)
	_, err := env.assignment.AssignUsers(ctx, essays.ID, []uint{u.ID})
	require.NoError(t, err)

	counts, err := env.stats.Counts(ctx, u.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[model.StatusNew])

	// a change behind the services' back is not seen while the entry lives
	require.NoError(t, env.db.Model(&model.UserTaskRelation{}).
		Where("user_id = ?", u.ID).Update("status", model.StatusForRevision).Error)
	counts, err = env.stats.Counts(ctx, u.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[model.StatusNew])

	_, err = env.lifecycle.SubmitAnswer(ctx, u.ID, essay.ID, "done")
	require.NoError(t, err)
	counts, err = env.stats.Counts(ctx, u.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[model.StatusOnCheck])
	assert.Zero(t, counts[model.StatusNew])
	assert.Zero(t, counts[model.StatusForRevision])

	scoped, err := env.stats.Counts(ctx, u.ID, &essays.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), scoped[model.StatusOnCheck])

	_, err = env.assignment.AssignUsers(ctx, essays.ID, nil)
	require.NoError(t, err)
	counts, err = env.stats.Counts(ctx, u.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, model.NewStatusCounts(), counts)

	require.NoError(t, env.taskCases.Delete(ctx, essays.ID))
	_, err = env.stats.Counts(ctx, u.ID, &essays.ID)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestCountsUnknownUser(t *testing.T) {
	env := newCachedTestEnv(t)
	ctx := context.Background()

	_, err := env.stats.Counts(ctx, 4242, nil)
	assert.ErrorIs(t, err, util.ErrNotFound)
	_, err = env.stats.CountByStatus(ctx, 4242, nil, model.StatusNew)
	assert.ErrorIs(t, err, util.ErrNotFound)
	_, err = env.stats.UserSummary(ctx, 4242)
	assert.ErrorIs(t, err, util.ErrNotFound)
}
