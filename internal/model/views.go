package model

import "time"

// StatusCounts is a per-status relation count. Built with NewStatusCounts it
// always carries all five statuses.
type StatusCounts map[TaskStatus]int64

func NewStatusCounts() StatusCounts {
	c := make(StatusCounts, len(AllStatuses))
	for _, s := range AllStatuses {
		c[s] = 0
	}
	return c
}

// Sum adds up the counts of the given statuses.
func (c StatusCounts) Sum(statuses ...TaskStatus) int64 {
	var n int64
	for _, s := range statuses {
		n += c[s]
	}
	return n
}

// UserSummary is the header badge of a user's pages.
type UserSummary struct {
	Waiting int64 `json:"waiting"`
	OnCheck int64 `json:"onCheck"`
	Accept  int64 `json:"accept"`
}

// TaskCaseBadge is one block on the user dashboard.
type TaskCaseBadge struct {
	TaskCase TaskCase     `json:"taskCase"`
	Complete bool         `json:"complete"`
	Review   bool         `json:"review"`
	Counts   StatusCounts `json:"counts"`
}

// UserOverview is one row of the admin users table.
type UserOverview struct {
	User         User         `json:"user"`
	Counts       StatusCounts `json:"counts"`
	ReviewBlocks int64        `json:"reviewBlocks"`
	Notes        int64        `json:"notes"`
	HasTests     bool         `json:"hasTests"`
}

// TaskProgress is a task as seen through one user's relation to it.
type TaskProgress struct {
	RelationID uint       `json:"relationId"`
	TaskID     uint       `json:"taskId"`
	Title      string     `json:"title"`
	IsTest     bool       `json:"isTest"`
	Status     TaskStatus `json:"status"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// CheckItem is a free-text task waiting on an admin, with the user's latest answer.
type CheckItem struct {
	TaskProgress
	LatestAnswer *Answer `json:"latestAnswer,omitempty"`
}

// TestResult is a graded test task with the user's selection.
type TestResult struct {
	TaskProgress
	Selected []uint `json:"selected"`
	Correct  []uint `json:"correct"`
}
