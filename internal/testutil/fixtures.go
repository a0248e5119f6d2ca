package testutil

import (
	"sdo_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func CreateUser(t *testing.T, db *gorm.DB, username string, role model.UserRole) *model.User {
	t.Helper()
	u := &model.User{Username: username, Password: "x", Role: role}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateTask(t *testing.T, db *gorm.DB, title string, isTest bool) *model.Task {
	t.Helper()
	task := &model.Task{Title: title, IsTest: isTest}
	require.NoError(t, db.Create(task).Error)
	return task
}

// CreateTaskCase stores a task case holding tasks. It has no members.
func CreateTaskCase(t *testing.T, db *gorm.DB, title string, isTest bool, tasks ...*model.Task) *model.TaskCase {
	t.Helper()
	tc := &model.TaskCase{Title: title, IsTest: isTest}
	require.NoError(t, db.Create(tc).Error)
	for _, task := range tasks {
		require.NoError(t, db.Create(&model.TaskCaseTask{TaskCaseID: tc.ID, TaskID: task.ID}).Error)
	}
	return tc
}

// CreateVariant adds a choice to a test task.
func CreateVariant(t *testing.T, db *gorm.DB, task *model.Task, text string, correct bool) *model.Variant {
	t.Helper()
	v := &model.Variant{TaskID: task.ID, Text: text, Correct: correct}
	require.NoError(t, db.Create(v).Error)
	return v
}

// RelationStatus reads the user's status on a task, "" when there is no relation.
func RelationStatus(t *testing.T, db *gorm.DB, userID, taskID uint) model.TaskStatus {
	t.Helper()
	var rels []model.UserTaskRelation
	require.NoError(t, db.Where("user_id = ? AND task_id = ?", userID, taskID).Find(&rels).Error)
	if len(rels) == 0 {
		return ""
	}
	return rels[0].Status
}

// CountRows counts rows of m's table, optionally filtered by a where clause and its args.
func CountRows(t *testing.T, db *gorm.DB, m interface{}, where ...interface{}) int64 {
	t.Helper()
	q := db.Model(m)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	var n int64
	require.NoError(t, q.Count(&n).Error)
	return n
}
