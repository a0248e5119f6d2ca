package controller

import (
	"sdo_backend/internal/service"
	"sdo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// LifecycleController exposes the answer/review workflow.
type LifecycleController struct {
	Lifecycle *service.LifecycleService
	Progress  *service.ProgressService
	Stats     *service.StatsService
}

func NewLifecycleController(lifecycle *service.LifecycleService, progress *service.ProgressService, stats *service.StatsService) *LifecycleController {
	return &LifecycleController{Lifecycle: lifecycle, Progress: progress, Stats: stats}
}

// SubmitAnswerRequest carries a free-text answer.
// swagger:model SubmitAnswerRequest
type SubmitAnswerRequest struct {
	Text string `json:"text" binding:"required,notblank"`
}

// GradeTestRequest carries the variants picked on a test task.
// swagger:model GradeTestRequest
type GradeTestRequest struct {
	VariantIDs []uint `json:"variantIds" binding:"required"`
}

// ReviewRequest carries an admin's comment on an answer.
// swagger:model ReviewRequest
type ReviewRequest struct {
	Text string `json:"text" binding:"required,notblank"`
}

// taskInCase reads :id and :taskId and checks the caller may work on the task.
func (c *LifecycleController) taskInCase(ctx *gin.Context) (userID, taskID uint, ok bool) {
	user := util.GetUserFromContext(ctx)
	taskCaseID, err := util.ParamUint(ctx, "id")
	if err != nil {
		util.RespondError(ctx, err)
		return 0, 0, false
	}
	taskID, err = util.ParamUint(ctx, "taskId")
	if err != nil {
		util.RespondError(ctx, err)
		return 0, 0, false
	}
	if err := c.Progress.EnsureAccess(ctx.Request.Context(), user.UserID, taskCaseID, taskID); err != nil {
		util.RespondError(ctx, err)
		return 0, 0, false
	}
	return user.UserID, taskID, true
}

// SubmitAnswer godoc
// @Summary Submit an answer
// @Description Stores a free-text answer and puts the task on check
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Task case ID"
// @Param taskId path int true "Task ID"
// @Param request body SubmitAnswerRequest true "Answer"
// @Success 201 {object} util.Response{data=model.Answer}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /taskcases/{id}/tasks/{taskId}/answers [post]
func (c *LifecycleController) SubmitAnswer(ctx *gin.Context) {
	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	userID, taskID, ok := c.taskInCase(ctx)
	if !ok {
		return
	}

	answer, err := c.Lifecycle.SubmitAnswer(ctx.Request.Context(), userID, taskID, req.Text)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, answer)
}

// GradeTest godoc
// @Summary Answer a test task
// @Description Stores the selected variants and grades the task ACCEPT or WRONG
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Task case ID"
// @Param taskId path int true "Task ID"
// @Param request body GradeTestRequest true "Selected variants"
// @Success 200 {object} util.Response{data=map[string]interface{}}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /taskcases/{id}/tasks/{taskId}/variants [post]
func (c *LifecycleController) GradeTest(ctx *gin.Context) {
	var req GradeTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	userID, taskID, ok := c.taskInCase(ctx)
	if !ok {
		return
	}

	status, err := c.Lifecycle.GradeTest(ctx.Request.Context(), userID, taskID, req.VariantIDs)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"status": status})
}

// AddReview godoc
// @Summary Review an answer
// @Description Comments on an answer and sends the task back for revision
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param answerId path int true "Answer ID"
// @Param request body ReviewRequest true "Review"
// @Success 201 {object} util.Response{data=map[string]interface{}}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /admin/answers/{answerId}/reviews [post]
func (c *LifecycleController) AddReview(ctx *gin.Context) {
	answerID, err := util.ParamUint(ctx, "answerId")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	var req ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	admin := util.GetUserFromContext(ctx)
	review, err := c.Lifecycle.AddReview(ctx.Request.Context(), answerID, admin.UserID, req.Text)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"review": review})
}

// AcceptAnswer godoc
// @Summary Accept a task
// @Description Marks the relation ACCEPT. Reports whether the user still has tasks on check.
// @Tags lifecycle
// @Produce json
// @Security ApiKeyAuth
// @Param relationId path int true "Relation ID"
// @Success 200 {object} util.Response{data=map[string]interface{}}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /admin/relations/{relationId}/accept [post]
func (c *LifecycleController) AcceptAnswer(ctx *gin.Context) {
	relationID, err := util.ParamUint(ctx, "relationId")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	rel, err := c.Lifecycle.AcceptAnswer(ctx.Request.Context(), relationID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	pending, err := c.Stats.HasOutstandingOnCheck(ctx.Request.Context(), rel.UserID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"relation":       rel,
		"hasMoreOnCheck": pending,
	})
}
