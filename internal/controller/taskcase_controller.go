package controller

import (
	"sdo_backend/internal/service"
	"sdo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TaskCaseController struct {
	TaskCases *service.TaskCaseService
}

func NewTaskCaseController(taskCases *service.TaskCaseService) *TaskCaseController {
	return &TaskCaseController{TaskCases: taskCases}
}

// CreateTaskCase godoc
// @Summary Create a task case
// @Tags taskcases
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body service.TaskCaseRequest true "Task case"
// @Success 201 {object} util.Response{data=model.TaskCase}
// @Failure 400 {object} util.Response
// @Router /admin/taskcases [post]
func (c *TaskCaseController) CreateTaskCase(ctx *gin.Context) {
	var req service.TaskCaseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	admin := util.GetUserFromContext(ctx)
	tc, err := c.TaskCases.Create(ctx.Request.Context(), admin.UserID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, tc)
}

// ListTaskCases godoc
// @Summary List task cases
// @Tags taskcases
// @Produce json
// @Security ApiKeyAuth
// @Param isTest query bool false "Kind filter"
// @Param q query string false "Title search"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /admin/taskcases [get]
func (c *TaskCaseController) ListTaskCases(ctx *gin.Context) {
	isTest, err := util.QueryBoolPtr(ctx, "isTest")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	page, limit := util.PageParams(ctx)
	list, total, err := c.TaskCases.List(ctx.Request.Context(), isTest, ctx.Query("q"), page, limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: list, Total: total, Page: page, Limit: limit})
}

// GetTaskCase godoc
// @Summary Get a task case
// @Description The task case with its tasks and member ids
// @Tags taskcases
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Task case ID"
// @Success 200 {object} util.Response{data=service.TaskCaseDetail}
// @Failure 404 {object} util.Response
// @Router /admin/taskcases/{id} [get]
func (c *TaskCaseController) GetTaskCase(ctx *gin.Context) {
	id, err := util.ParamUint(ctx, "id")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	tc, err := c.TaskCases.Get(ctx.Request.Context(), id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, tc)
}

// UpdateTaskCase godoc
// @Summary Update a task case
// @Tags taskcases
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Task case ID"
// @Param request body service.TaskCaseRequest true "Task case"
// @Success 200 {object} util.Response{data=model.TaskCase}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /admin/taskcases/{id} [put]
func (c *TaskCaseController) UpdateTaskCase(ctx *gin.Context) {
	id, err := util.ParamUint(ctx, "id")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	var req service.TaskCaseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	tc, err := c.TaskCases.Update(ctx.Request.Context(), id, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, tc)
}

// DeleteTaskCase godoc
// @Summary Delete a task case
// @Description Removes the task case and its memberships. Tasks are kept.
// @Tags taskcases
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Task case ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /admin/taskcases/{id} [delete]
func (c *TaskCaseController) DeleteTaskCase(ctx *gin.Context) {
	id, err := util.ParamUint(ctx, "id")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	if err := c.TaskCases.Delete(ctx.Request.Context(), id); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
