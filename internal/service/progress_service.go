package service

import (
	"context"
	"sdo_backend/internal/model"
	"sdo_backend/internal/repository"
	"sdo_backend/internal/util"
)

// TaskView is a task as shown to the user working on it. Reference answers
// and variant correctness are withheld.
type TaskView struct {
	Task     model.Task              `json:"task"`
	Relation *model.UserTaskRelation `json:"relation,omitempty"`
	Answers  []model.Answer          `json:"answers"`
	Selected []uint                  `json:"selected"`
}

// ProgressService lists tasks through a user's relations to them.
type ProgressService struct {
	TaskRepo       *repository.TaskRepository
	TaskCaseRepo   *repository.TaskCaseRepository
	VariantRepo    *repository.VariantRepository
	RelationRepo   *repository.RelationRepository
	MembershipRepo *repository.MembershipRepository
	AnswerRepo     *repository.AnswerRepository
	SelectionRepo  *repository.SelectionRepository
}

func NewProgressService(
	taskRepo *repository.TaskRepository,
	taskCaseRepo *repository.TaskCaseRepository,
	variantRepo *repository.VariantRepository,
	relationRepo *repository.RelationRepository,
	membershipRepo *repository.MembershipRepository,
	answerRepo *repository.AnswerRepository,
	selectionRepo *repository.SelectionRepository,
) *ProgressService {
	return &ProgressService{
		TaskRepo:       taskRepo,
		TaskCaseRepo:   taskCaseRepo,
		VariantRepo:    variantRepo,
		RelationRepo:   relationRepo,
		MembershipRepo: membershipRepo,
		AnswerRepo:     answerRepo,
		SelectionRepo:  selectionRepo,
	}
}

// EnsureMember fails with PermissionDenied unless the user belongs to the task case.
func (s *ProgressService) EnsureMember(ctx context.Context, userID, taskCaseID uint) error {
	if _, err := s.TaskCaseRepo.FindByID(ctx, taskCaseID); err != nil {
		return err
	}
	if _, err := s.MembershipRepo.Find(ctx, userID, taskCaseID); err != nil {
		return util.ErrPermissionDenied
	}
	return nil
}

// EnsureAccess checks that the user belongs to the task case and that the task is part of it.
func (s *ProgressService) EnsureAccess(ctx context.Context, userID, taskCaseID, taskID uint) error {
	if err := s.EnsureMember(ctx, userID, taskCaseID); err != nil {
		return err
	}
	taskIDs, err := s.TaskCaseRepo.TaskIDs(ctx, taskCaseID)
	if err != nil {
		return err
	}
	for _, id := range taskIDs {
		if id == taskID {
			return nil
		}
	}
	return util.NotFoundErr("task", taskID)
}

// TaskList returns the user's tasks in a task case, work still to do first.
func (s *ProgressService) TaskList(ctx context.Context, userID, taskCaseID uint, statuses ...model.TaskStatus) ([]model.TaskProgress, error) {
	for _, st := range statuses {
		if !st.IsValid() {
			return nil, util.NewValidationError("status", "unknown status "+st.String())
		}
	}
	return s.RelationRepo.Progress(ctx, userID, &taskCaseID, nil, statuses...)
}

// TaskDetail returns a task with the user's relation, answer history and selection.
func (s *ProgressService) TaskDetail(ctx context.Context, userID, taskID uint) (*TaskView, error) {
	task, err := s.TaskRepo.FindWithVariants(ctx, taskID)
	if err != nil {
		return nil, err
	}
	task.Answer = ""
	for i := range task.Variants {
		task.Variants[i].Correct = false
	}

	view := &TaskView{Task: *task, Answers: []model.Answer{}, Selected: []uint{}}
	rel, err := s.RelationRepo.Find(ctx, userID, taskID)
	if err != nil {
		if isNotFound(err) {
			return view, nil
		}
		return nil, err
	}
	view.Relation = rel

	if view.Answers, err = s.AnswerRepo.ListByRelation(ctx, rel.ID); err != nil {
		return nil, err
	}
	if task.IsTest {
		if view.Selected, err = s.SelectionRepo.ForTask(ctx, userID, taskID); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// CheckQueue lists the user's free-text tasks waiting on an admin, with the latest answer of each.
func (s *ProgressService) CheckQueue(ctx context.Context, userID uint) ([]model.CheckItem, error) {
	freeText := false
	items, err := s.RelationRepo.Progress(ctx, userID, nil, &freeText, model.StatusOnCheck, model.StatusForRevision)
	if err != nil {
		return nil, err
	}

	relationIDs := make([]uint, 0, len(items))
	for _, it := range items {
		relationIDs = append(relationIDs, it.RelationID)
	}
	latest, err := s.AnswerRepo.LatestByRelations(ctx, relationIDs)
	if err != nil {
		return nil, err
	}

	queue := make([]model.CheckItem, 0, len(items))
	for _, it := range items {
		item := model.CheckItem{TaskProgress: it}
		if a, ok := latest[it.RelationID]; ok {
			item.LatestAnswer = &a
		}
		queue = append(queue, item)
	}
	return queue, nil
}

// TestResults shows the user's test tasks in a task case with their picks and the correct variants.
func (s *ProgressService) TestResults(ctx context.Context, userID, taskCaseID uint) ([]model.TestResult, error) {
	if _, err := s.TaskCaseRepo.FindByID(ctx, taskCaseID); err != nil {
		return nil, err
	}
	onlyTests := true
	items, err := s.RelationRepo.Progress(ctx, userID, &taskCaseID, &onlyTests)
	if err != nil {
		return nil, err
	}

	taskIDs := make([]uint, 0, len(items))
	for _, it := range items {
		taskIDs = append(taskIDs, it.TaskID)
	}
	selections, err := s.SelectionRepo.ForTasks(ctx, userID, taskIDs)
	if err != nil {
		return nil, err
	}

	results := make([]model.TestResult, 0, len(items))
	for _, it := range items {
		correct, err := s.VariantRepo.IDsByTask(ctx, it.TaskID, true)
		if err != nil {
			return nil, err
		}
		selected := selections[it.TaskID]
		if selected == nil {
			selected = []uint{}
		}
		if correct == nil {
			correct = []uint{}
		}
		results = append(results, model.TestResult{TaskProgress: it, Selected: selected, Correct: correct})
	}
	return results, nil
}

// Answers returns the answer history of a relation with the reviews of each answer.
func (s *ProgressService) Answers(ctx context.Context, relationID uint) ([]model.Answer, error) {
	if _, err := s.RelationRepo.FindByID(ctx, relationID); err != nil {
		return nil, err
	}
	return s.AnswerRepo.ListByRelation(ctx, relationID)
}
