package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermits(t *testing.T) {
	tests := []struct {
		action  Action
		allowed []TaskStatus
	}{
		{ActionSubmit, []TaskStatus{StatusNew, StatusForRevision, StatusOnCheck}},
		{ActionReview, []TaskStatus{StatusOnCheck, StatusForRevision}},
		{ActionAccept, []TaskStatus{StatusOnCheck, StatusForRevision, StatusAccept}},
		{ActionGrade, AllStatuses},
		{ActionComplete, []TaskStatus{StatusAccept, StatusWrong}},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			for _, s := range AllStatuses {
				want := false
				for _, a := range tt.allowed {
					if a == s {
						want = true
					}
				}
				assert.Equal(t, want, s.Permits(tt.action), "%s from %s", tt.action, s)
			}
		})
	}

	assert.False(t, StatusNew.Permits("archive"))
	assert.False(t, TaskStatus("DONE").Permits(ActionGrade))
}

func TestActionTarget(t *testing.T) {
	to, ok := ActionSubmit.Target()
	assert.True(t, ok)
	assert.Equal(t, StatusOnCheck, to)

	to, ok = ActionReview.Target()
	assert.True(t, ok)
	assert.Equal(t, StatusForRevision, to)

	to, ok = ActionAccept.Target()
	assert.True(t, ok)
	assert.Equal(t, StatusAccept, to)

	_, ok = ActionGrade.Target()
	assert.False(t, ok)
}

func TestRankFollowsDisplayOrder(t *testing.T) {
	for i := 1; i < len(AllStatuses); i++ {
		assert.Less(t, AllStatuses[i-1].Rank(), AllStatuses[i].Rank())
	}
	assert.Equal(t, 6, TaskStatus("DONE").Rank())
}

func TestStatusCounts(t *testing.T) {
	c := NewStatusCounts()
	assert.Len(t, c, 5)
	for _, s := range AllStatuses {
		assert.Zero(t, c[s])
	}

	c[StatusNew] = 2
	c[StatusForRevision] = 3
	c[StatusAccept] = 1
	assert.Equal(t, int64(5), c.Sum(WaitingStatuses...))
	assert.Equal(t, int64(0), c.Sum())
}
