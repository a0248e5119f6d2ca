package model

// TaskStatus is the state of a user's work on a task.
type TaskStatus string

const (
	StatusNew         TaskStatus = "NEW"
	StatusOnCheck     TaskStatus = "CHECK"
	StatusForRevision TaskStatus = "REVISION"
	StatusAccept      TaskStatus = "ACCEPT"
	StatusWrong       TaskStatus = "WRONG"
)

// AllStatuses is the dashboard display order.
var AllStatuses = []TaskStatus{StatusNew, StatusForRevision, StatusOnCheck, StatusAccept, StatusWrong}

// WaitingStatuses are the states in which the user still owes an answer.
var WaitingStatuses = []TaskStatus{StatusNew, StatusForRevision}

func (s TaskStatus) String() string {
	return string(s)
}

func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusNew, StatusOnCheck, StatusForRevision, StatusAccept, StatusWrong:
		return true
	default:
		return false
	}
}

func (s TaskStatus) IsTerminal() bool {
	return s == StatusAccept || s == StatusWrong
}

// Rank orders task lists: work to do first, finished work last.
func (s TaskStatus) Rank() int {
	switch s {
	case StatusNew:
		return 1
	case StatusForRevision:
		return 2
	case StatusOnCheck:
		return 3
	case StatusAccept:
		return 4
	case StatusWrong:
		return 5
	default:
		return 6
	}
}

// Action is an event that moves a relation between states.
type Action string

const (
	ActionSubmit   Action = "submit"
	ActionReview   Action = "review"
	ActionAccept   Action = "accept"
	ActionGrade    Action = "grade"
	ActionComplete Action = "complete"
)

// Permits reports whether the action may be applied in state s.
//
//	NEW | REVISION | CHECK  --submit-->  CHECK
//	CHECK | REVISION        --review-->  REVISION
//	CHECK | REVISION | ACCEPT --accept-> ACCEPT
//	any                     --grade--->  ACCEPT | WRONG
//	ACCEPT | WRONG          --complete-> (relation removed)
func (s TaskStatus) Permits(a Action) bool {
	switch a {
	case ActionSubmit:
		return s == StatusNew || s == StatusForRevision || s == StatusOnCheck
	case ActionReview:
		return s == StatusOnCheck || s == StatusForRevision
	case ActionAccept:
		return s == StatusOnCheck || s == StatusForRevision || s == StatusAccept
	case ActionGrade:
		return s.IsValid()
	case ActionComplete:
		return s.IsTerminal()
	default:
		return false
	}
}

// Target returns the state an action leads to. Grading and completion have no fixed target.
func (a Action) Target() (TaskStatus, bool) {
	switch a {
	case ActionSubmit:
		return StatusOnCheck, true
	case ActionReview:
		return StatusForRevision, true
	case ActionAccept:
		return StatusAccept, true
	default:
		return "", false
	}
}

// UserTaskRelation holds one user's progress on one task.
// swagger:model UserTaskRelation
type UserTaskRelation struct {
	BaseModel
	UserID uint       `gorm:"not null;uniqueIndex:idx_user_task" json:"userId"`
	TaskID uint       `gorm:"not null;uniqueIndex:idx_user_task;index" json:"taskId"`
	Status TaskStatus `gorm:"size:10;not null;default:'NEW';index" json:"status"`
}

func (UserTaskRelation) TableName() string {
	return "user_task_relations"
}
