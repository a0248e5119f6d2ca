package controller

import (
	"sdo_backend/internal/model"
	"sdo_backend/internal/service"
	"sdo_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

// DashboardController serves the count and progress views.
type DashboardController struct {
	Stats    *service.StatsService
	Progress *service.ProgressService
}

func NewDashboardController(stats *service.StatsService, progress *service.ProgressService) *DashboardController {
	return &DashboardController{Stats: stats, Progress: progress}
}

// Dashboard godoc
// @Summary User dashboard
// @Description Header summary and per-task-case status badges of the caller
// @Tags dashboard
// @Produce json
// @Security ApiKeyAuth
// @Param isTest query bool false "Only test (true) or only free-text (false) task cases"
// @Success 200 {object} util.Response{data=map[string]interface{}}
// @Router /dashboard [get]
func (c *DashboardController) Dashboard(ctx *gin.Context) {
	isTest, err := util.QueryBoolPtr(ctx, "isTest")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	user := util.GetUserFromContext(ctx)

	summary, err := c.Stats.UserSummary(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	badges, err := c.Stats.TaskCaseOverview(ctx.Request.Context(), user.UserID, isTest)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"summary":   summary,
		"taskCases": badges,
	})
}

// Counts godoc
// @Summary Status counts of the caller
// @Tags dashboard
// @Produce json
// @Security ApiKeyAuth
// @Param taskcase query int false "Limit to one task case"
// @Success 200 {object} util.Response{data=model.StatusCounts}
// @Failure 404 {object} util.Response
// @Router /counts [get]
func (c *DashboardController) Counts(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	c.respondCounts(ctx, user.UserID)
}

// CountByStatus godoc
// @Summary Combined count over some statuses
// @Description Counts the caller's tasks in any of the given statuses, e.g. status=NEW,REVISION
// @Tags dashboard
// @Produce json
// @Security ApiKeyAuth
// @Param status query string true "Comma separated statuses"
// @Param taskcase query int false "Limit to one task case"
// @Success 200 {object} util.Response{data=map[string]int64}
// @Failure 400 {object} util.Response
// @Router /counts/by-status [get]
func (c *DashboardController) CountByStatus(ctx *gin.Context) {
	statuses, err := parseStatuses(ctx.Query("status"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	if len(statuses) == 0 {
		util.BadRequest(ctx, "status is required")
		return
	}
	taskCaseID, err := util.QueryUintPtr(ctx, "taskcase")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	user := util.GetUserFromContext(ctx)
	n, err := c.Stats.CountByStatus(ctx.Request.Context(), user.UserID, taskCaseID, statuses...)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"count": n})
}

// UserCounts godoc
// @Summary Status counts of a user
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param userId path int true "User ID"
// @Param taskcase query int false "Limit to one task case"
// @Success 200 {object} util.Response{data=model.StatusCounts}
// @Failure 404 {object} util.Response
// @Router /admin/users/{userId}/counts [get]
func (c *DashboardController) UserCounts(ctx *gin.Context) {
	userID, err := util.ParamUint(ctx, "userId")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	c.respondCounts(ctx, userID)
}

func (c *DashboardController) respondCounts(ctx *gin.Context, userID uint) {
	taskCaseID, err := util.QueryUintPtr(ctx, "taskcase")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	counts, err := c.Stats.Counts(ctx.Request.Context(), userID, taskCaseID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, counts)
}

// TaskList godoc
// @Summary Tasks of a task case
// @Description The caller's tasks in the task case, unfinished first
// @Tags dashboard
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Task case ID"
// @Param status query string false "Comma separated statuses"
// @Success 200 {object} util.Response{data=[]model.TaskProgress}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /taskcases/{id}/tasks [get]
func (c *DashboardController) TaskList(ctx *gin.Context) {
	taskCaseID, err := util.ParamUint(ctx, "id")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	statuses, err := parseStatuses(ctx.Query("status"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	user := util.GetUserFromContext(ctx)
	if err := c.Progress.EnsureMember(ctx.Request.Context(), user.UserID, taskCaseID); err != nil {
		util.RespondError(ctx, err)
		return
	}
	items, err := c.Progress.TaskList(ctx.Request.Context(), user.UserID, taskCaseID, statuses...)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// TaskDetail godoc
// @Summary One task of a task case
// @Description The task with the caller's status, answer history and selected variants
// @Tags dashboard
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Task case ID"
// @Param taskId path int true "Task ID"
// @Success 200 {object} util.Response{data=service.TaskView}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /taskcases/{id}/tasks/{taskId} [get]
func (c *DashboardController) TaskDetail(ctx *gin.Context) {
	taskCaseID, err := util.ParamUint(ctx, "id")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	taskID, err := util.ParamUint(ctx, "taskId")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	user := util.GetUserFromContext(ctx)
	if err := c.Progress.EnsureAccess(ctx.Request.Context(), user.UserID, taskCaseID, taskID); err != nil {
		util.RespondError(ctx, err)
		return
	}
	view, err := c.Progress.TaskDetail(ctx.Request.Context(), user.UserID, taskID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// UsersOverview godoc
// @Summary Users overview
// @Description Per-user status counts, review-ready blocks and note counts, busiest first
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.UserOverview}
// @Router /admin/users [get]
func (c *DashboardController) UsersOverview(ctx *gin.Context) {
	rows, err := c.Stats.UsersOverview(ctx.Request.Context())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// UserTaskCases godoc
// @Summary Task cases of a user
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param userId path int true "User ID"
// @Param isTest query bool false "Only one kind of task case"
// @Success 200 {object} util.Response{data=[]model.TaskCaseBadge}
// @Router /admin/users/{userId}/taskcases [get]
func (c *DashboardController) UserTaskCases(ctx *gin.Context) {
	userID, err := util.ParamUint(ctx, "userId")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	isTest, err := util.QueryBoolPtr(ctx, "isTest")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	badges, err := c.Stats.TaskCaseOverview(ctx.Request.Context(), userID, isTest)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, badges)
}

// CheckQueue godoc
// @Summary Answers waiting for review
// @Description The user's free-text tasks in CHECK or REVISION with their latest answer
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param userId path int true "User ID"
// @Success 200 {object} util.Response{data=[]model.CheckItem}
// @Router /admin/users/{userId}/check [get]
func (c *DashboardController) CheckQueue(ctx *gin.Context) {
	userID, err := util.ParamUint(ctx, "userId")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	queue, err := c.Progress.CheckQueue(ctx.Request.Context(), userID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, queue)
}

// TestResults godoc
// @Summary Test results of a user
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param userId path int true "User ID"
// @Param id path int true "Task case ID"
// @Success 200 {object} util.Response{data=[]model.TestResult}
// @Failure 404 {object} util.Response
// @Router /admin/users/{userId}/taskcases/{id}/tests [get]
func (c *DashboardController) TestResults(ctx *gin.Context) {
	userID, err := util.ParamUint(ctx, "userId")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	taskCaseID, err := util.ParamUint(ctx, "id")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	results, err := c.Progress.TestResults(ctx.Request.Context(), userID, taskCaseID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// RelationAnswers godoc
// @Summary Answer history of a relation
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param relationId path int true "Relation ID"
// @Success 200 {object} util.Response{data=[]model.Answer}
// @Failure 404 {object} util.Response
// @Router /admin/relations/{relationId}/answers [get]
func (c *DashboardController) RelationAnswers(ctx *gin.Context) {
	relationID, err := util.ParamUint(ctx, "relationId")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	answers, err := c.Progress.Answers(ctx.Request.Context(), relationID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, answers)
}

// ReviewPending godoc
// @Summary Blocks waiting for review
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=map[string]int64}
// @Router /admin/review-pending [get]
func (c *DashboardController) ReviewPending(ctx *gin.Context) {
	n, err := c.Stats.ReviewPendingCount(ctx.Request.Context())
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"count": n})
}

// parseStatuses reads a comma separated status list such as "NEW,REVISION".
func parseStatuses(raw string) ([]model.TaskStatus, error) {
	if raw == "" {
		return nil, nil
	}
	var out []model.TaskStatus
	for _, part := range strings.Split(raw, ",") {
		s := model.TaskStatus(strings.ToUpper(strings.TrimSpace(part)))
		if !s.IsValid() {
			return nil, util.NewValidationError("status", "unknown status "+part)
		}
		out = append(out, s)
	}
	return out, nil
}
