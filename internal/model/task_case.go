package model

// TaskCase is a named block of tasks assigned to users as a unit.
// swagger:model TaskCase
type TaskCase struct {
	BaseModel
	Title       string `gorm:"size:100;not null" json:"title"`
	Description string `gorm:"size:2000" json:"description"`
	IsTest      bool   `gorm:"default:false" json:"isTest"`
	AuthorID    *uint  `gorm:"index" json:"authorId"`
}

func (TaskCase) TableName() string {
	return "task_cases"
}

// TaskCaseTask is the join row of the task case <-> task many-to-many.
type TaskCaseTask struct {
	TaskCaseID uint `gorm:"primaryKey;autoIncrement:false" json:"taskCaseId"`
	TaskID     uint `gorm:"primaryKey;autoIncrement:false;index" json:"taskId"`
}

func (TaskCaseTask) TableName() string {
	return "task_case_tasks"
}

// UserTaskCaseRelation is a user's membership in a task case.
// Review is raised once every test task of the block has been answered.
type UserTaskCaseRelation struct {
	BaseModel
	UserID     uint `gorm:"not null;uniqueIndex:idx_user_task_case" json:"userId"`
	TaskCaseID uint `gorm:"not null;uniqueIndex:idx_user_task_case;index" json:"taskCaseId"`
	Complete   bool `gorm:"default:false" json:"complete"`
	Review     bool `gorm:"default:false;index" json:"review"`
}

func (UserTaskCaseRelation) TableName() string {
	return "user_task_case_relations"
}
