package controller

import (
	"sdo_backend/internal/service"
	"sdo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AssignmentController binds tasks, task cases and users, and closes task cases.
type AssignmentController struct {
	Assignment *service.AssignmentService
	Completion *service.CompletionService
}

func NewAssignmentController(assignment *service.AssignmentService, completion *service.CompletionService) *AssignmentController {
	return &AssignmentController{Assignment: assignment, Completion: completion}
}

// IDsRequest replaces a set of related ids. An empty list clears the set.
// swagger:model IDsRequest
type IDsRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// CandidateTasks godoc
// @Summary Candidate tasks of a task case
// @Description Lists the tasks whose kind matches the task case
// @Tags assignment
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Task case ID"
// @Success 200 {object} util.Response{data=[]model.Task}
// @Failure 404 {object} util.Response
// @Router /admin/taskcases/{id}/candidates [get]
func (c *AssignmentController) CandidateTasks(ctx *gin.Context) {
	id, err := util.ParamUint(ctx, "id")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	tasks, err := c.Assignment.CandidateTasks(ctx.Request.Context(), id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, tasks)
}

// AssignTasks godoc
// @Summary Set the tasks of a task case
// @Tags assignment
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Task case ID"
// @Param request body IDsRequest true "Task IDs"
// @Success 200 {object} util.Response{data=service.AssignmentResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /admin/taskcases/{id}/tasks [put]
func (c *AssignmentController) AssignTasks(ctx *gin.Context) {
	id, req, ok := bindIDs(ctx, "id")
	if !ok {
		return
	}
	res, err := c.Assignment.AssignTasks(ctx.Request.Context(), id, req.IDs)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// AssignUsers godoc
// @Summary Set the members of a task case
// @Tags assignment
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Task case ID"
// @Param request body IDsRequest true "User IDs"
// @Success 200 {object} util.Response{data=service.AssignmentResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /admin/taskcases/{id}/users [put]
func (c *AssignmentController) AssignUsers(ctx *gin.Context) {
	id, req, ok := bindIDs(ctx, "id")
	if !ok {
		return
	}
	res, err := c.Assignment.AssignUsers(ctx.Request.Context(), id, req.IDs)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// AssignTaskCases godoc
// @Summary Set the task cases of a user
// @Tags assignment
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param userId path int true "User ID"
// @Param request body IDsRequest true "Task case IDs"
// @Success 200 {object} util.Response{data=service.AssignmentResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /admin/users/{userId}/taskcases [put]
func (c *AssignmentController) AssignTaskCases(ctx *gin.Context) {
	userID, req, ok := bindIDs(ctx, "userId")
	if !ok {
		return
	}
	res, err := c.Assignment.AssignTaskCases(ctx.Request.Context(), userID, req.IDs)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// CompleteTaskCase godoc
// @Summary Complete a task case
// @Description Removes the caller's finished work on the task case. Every task must be ACCEPT or WRONG.
// @Tags assignment
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Task case ID"
// @Success 200 {object} util.Response{data=service.AssignmentResult}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /taskcases/{id}/complete [post]
func (c *AssignmentController) CompleteTaskCase(ctx *gin.Context) {
	id, err := util.ParamUint(ctx, "id")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	user := util.GetUserFromContext(ctx)
	res, err := c.Completion.CompleteTaskCase(ctx.Request.Context(), id, user.UserID, false)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// ForceCompleteTaskCase godoc
// @Summary Complete a task case for a user
// @Description Removes the user's work on the task case whatever its state
// @Tags assignment
// @Produce json
// @Security ApiKeyAuth
// @Param userId path int true "User ID"
// @Param id path int true "Task case ID"
// @Success 200 {object} util.Response{data=service.AssignmentResult}
// @Failure 404 {object} util.Response
// @Router /admin/users/{userId}/taskcases/{id}/complete [post]
func (c *AssignmentController) ForceCompleteTaskCase(ctx *gin.Context) {
	userID, err := util.ParamUint(ctx, "userId")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	id, err := util.ParamUint(ctx, "id")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	res, err := c.Completion.CompleteTaskCase(ctx.Request.Context(), id, userID, true)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

func bindIDs(ctx *gin.Context, param string) (uint, *IDsRequest, bool) {
	id, err := util.ParamUint(ctx, param)
	if err != nil {
		util.RespondError(ctx, err)
		return 0, nil, false
	}
	var req IDsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return 0, nil, false
	}
	return id, &req, true
}
