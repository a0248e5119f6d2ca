package service

import (
	"context"
	"sdo_backend/internal/model"
	"sdo_backend/internal/repository"
	"sdo_backend/pkg/logger"
	"sdo_backend/pkg/monitoring"
	"sort"
	"time"

	"go.uber.org/zap"
)

// StatsService answers the per-status count questions asked by the dashboards.
type StatsService struct {
	StatsRepo      *repository.StatsRepository
	UserRepo       *repository.UserRepository
	TaskCaseRepo   *repository.TaskCaseRepository
	MembershipRepo *repository.MembershipRepository
	Cache          *repository.CountsCache
}

func NewStatsService(
	statsRepo *repository.StatsRepository,
	userRepo *repository.UserRepository,
	taskCaseRepo *repository.TaskCaseRepository,
	membershipRepo *repository.MembershipRepository,
	cache *repository.CountsCache,
) *StatsService {
	return &StatsService{
		StatsRepo:      statsRepo,
		UserRepo:       userRepo,
		TaskCaseRepo:   taskCaseRepo,
		MembershipRepo: membershipRepo,
		Cache:          cache,
	}
}

// Counts returns the user's relation count per status, over all tasks or over
// one task case. Every status is present.
func (s *StatsService) Counts(ctx context.Context, userID uint, taskCaseID *uint) (model.StatusCounts, error) {
	if err := s.checkScope(ctx, userID, taskCaseID); err != nil {
		return nil, err
	}

	scope := repository.CountsScope(taskCaseID)
	gen, cached := s.Cache.Generation(ctx, userID)
	if cached {
		if counts, ok := s.Cache.Get(ctx, userID, gen, scope); ok {
			return counts, nil
		}
	}

	counts, err := s.StatsRepo.GroupByStatus(ctx, userID, taskCaseID)
	if err != nil {
		return nil, err
	}

	if cached {
		if err := s.Cache.Set(ctx, userID, gen, scope, counts); err != nil {
			logger.Log.Warn("Failed to cache counts", zap.Uint("userId", userID), zap.Error(err))
		}
	}
	return counts, nil
}

// CountByStatus counts the user's relations in any of statuses.
func (s *StatsService) CountByStatus(ctx context.Context, userID uint, taskCaseID *uint, statuses ...model.TaskStatus) (int64, error) {
	if err := s.checkScope(ctx, userID, taskCaseID); err != nil {
		return 0, err
	}
	if len(statuses) == 0 {
		return 0, nil
	}
	return s.StatsRepo.CountByStatus(ctx, userID, taskCaseID, false, statuses...)
}

// checkScope fails with NotFound for an unknown user or task case.
func (s *StatsService) checkScope(ctx context.Context, userID uint, taskCaseID *uint) error {
	if _, err := s.UserRepo.FindByID(ctx, userID); err != nil {
		return err
	}
	if taskCaseID != nil {
		if _, err := s.TaskCaseRepo.FindByID(ctx, *taskCaseID); err != nil {
			return err
		}
	}
	return nil
}

func (s *StatsService) UserSummary(ctx context.Context, userID uint) (*model.UserSummary, error) {
	counts, err := s.Counts(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	return &model.UserSummary{
		Waiting: counts.Sum(model.WaitingStatuses...),
		OnCheck: counts[model.StatusOnCheck],
		Accept:  counts[model.StatusAccept],
	}, nil
}

// TaskCaseOverview lists the user's task cases with their status badges.
// isTest limits the list to one kind of task case when set.
func (s *StatsService) TaskCaseOverview(ctx context.Context, userID uint, isTest *bool) ([]model.TaskCaseBadge, error) {
	memberships, err := s.MembershipRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.TaskCaseID)
	}
	tcs, err := s.TaskCaseRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	counts, err := s.StatsRepo.GroupByTaskCase(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]model.UserTaskCaseRelation, len(memberships))
	for _, m := range memberships {
		byID[m.TaskCaseID] = m
	}

	badges := make([]model.TaskCaseBadge, 0, len(tcs))
	for _, tc := range tcs {
		if isTest != nil && tc.IsTest != *isTest {
			continue
		}
		c, ok := counts[tc.ID]
		if !ok {
			c = model.NewStatusCounts()
		}
		m := byID[tc.ID]
		badges = append(badges, model.TaskCaseBadge{TaskCase: tc, Complete: m.Complete, Review: m.Review, Counts: c})
	}
	return badges, nil
}

// UsersOverview builds the admin users table, busiest users first.
func (s *StatsService) UsersOverview(ctx context.Context) ([]model.UserOverview, error) {
	users, err := s.UserRepo.All(ctx)
	if err != nil {
		return nil, err
	}
	perUser, err := s.StatsRepo.GroupByUser(ctx)
	if err != nil {
		return nil, err
	}
	reviews, err := s.StatsRepo.ReviewBlocksByUser(ctx)
	if err != nil {
		return nil, err
	}
	notes, err := s.StatsRepo.NotesByUser(ctx)
	if err != nil {
		return nil, err
	}
	withTests, err := s.StatsRepo.UsersWithTests(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]model.UserOverview, 0, len(users))
	for _, u := range users {
		counts, ok := perUser[u.ID]
		if !ok {
			counts = model.NewStatusCounts()
		}
		rows = append(rows, model.UserOverview{
			User:         u,
			Counts:       counts,
			ReviewBlocks: reviews[u.ID],
			Notes:        notes[u.ID],
			HasTests:     withTests[u.ID],
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Counts[model.StatusOnCheck] != b.Counts[model.StatusOnCheck] {
			return a.Counts[model.StatusOnCheck] > b.Counts[model.StatusOnCheck]
		}
		if a.ReviewBlocks != b.ReviewBlocks {
			return a.ReviewBlocks > b.ReviewBlocks
		}
		return a.Counts[model.StatusNew] > b.Counts[model.StatusNew]
	})
	return rows, nil
}

// HasOutstandingOnCheck reports whether any of the user's tasks still waits for a review.
func (s *StatsService) HasOutstandingOnCheck(ctx context.Context, userID uint) (bool, error) {
	n, err := s.StatsRepo.CountByStatus(ctx, userID, nil, false, model.StatusOnCheck)
	return n > 0, err
}

func (s *StatsService) ReviewPendingCount(ctx context.Context) (int64, error) {
	return s.StatsRepo.ReviewPending(ctx)
}

// RefreshReviewGauge publishes the pending review count to Prometheus.
func (s *StatsService) RefreshReviewGauge(ctx context.Context) error {
	n, err := s.ReviewPendingCount(ctx)
	if err != nil {
		return err
	}
	monitoring.ReviewPending.Set(float64(n))
	return nil
}

// RunReviewGauge refreshes the gauge every interval until ctx is done.
func (s *StatsService) RunReviewGauge(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.RefreshReviewGauge(ctx); err != nil && ctx.Err() == nil {
			logger.Log.Warn("Failed to refresh review gauge", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
