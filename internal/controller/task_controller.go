package controller

import (
	"sdo_backend/internal/service"
	"sdo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// TaskController manages tasks and the variants of test tasks.
type TaskController struct {
	Tasks *service.TaskService
}

func NewTaskController(tasks *service.TaskService) *TaskController {
	return &TaskController{Tasks: tasks}
}

// CreateTask godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body service.TaskRequest true "Task"
// @Success 201 {object} util.Response{data=model.Task}
// @Failure 400 {object} util.Response
// @Router /admin/tasks [post]
func (c *TaskController) CreateTask(ctx *gin.Context) {
	var req service.TaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	admin := util.GetUserFromContext(ctx)
	task, err := c.Tasks.Create(ctx.Request.Context(), admin.UserID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, task)
}

// ListTasks godoc
// @Summary Search tasks
// @Tags tasks
// @Produce json
// @Security ApiKeyAuth
// @Param isTest query bool false "Kind filter"
// @Param q query string false "Title search"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /admin/tasks [get]
func (c *TaskController) ListTasks(ctx *gin.Context) {
	isTest, err := util.QueryBoolPtr(ctx, "isTest")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	page, limit := util.PageParams(ctx)
	list, total, err := c.Tasks.List(ctx.Request.Context(), isTest, ctx.Query("q"), page, limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: list, Total: total, Page: page, Limit: limit})
}

// GetTask godoc
// @Summary Get a task with its variants
// @Tags tasks
// @Produce json
// @Security ApiKeyAuth
// @Param taskId path int true "Task ID"
// @Success 200 {object} util.Response{data=model.Task}
// @Failure 404 {object} util.Response
// @Router /admin/tasks/{taskId} [get]
func (c *TaskController) GetTask(ctx *gin.Context) {
	id, err := util.ParamUint(ctx, "taskId")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	task, err := c.Tasks.Get(ctx.Request.Context(), id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// UpdateTask godoc
// @Summary Update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param taskId path int true "Task ID"
// @Param request body service.TaskRequest true "Task"
// @Success 200 {object} util.Response{data=model.Task}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /admin/tasks/{taskId} [put]
func (c *TaskController) UpdateTask(ctx *gin.Context) {
	id, err := util.ParamUint(ctx, "taskId")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	var req service.TaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	task, err := c.Tasks.Update(ctx.Request.Context(), id, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, task)
}

// DeleteTask godoc
// @Summary Delete a task
// @Description Removes the task with every user's progress, answers and reviews on it
// @Tags tasks
// @Produce json
// @Security ApiKeyAuth
// @Param taskId path int true "Task ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /admin/tasks/{taskId} [delete]
func (c *TaskController) DeleteTask(ctx *gin.Context) {
	id, err := util.ParamUint(ctx, "taskId")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	if err := c.Tasks.Delete(ctx.Request.Context(), id); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListVariants godoc
// @Summary Variants of a task
// @Tags tasks
// @Produce json
// @Security ApiKeyAuth
// @Param taskId path int true "Task ID"
// @Success 200 {object} util.Response{data=[]model.Variant}
// @Failure 404 {object} util.Response
// @Router /admin/tasks/{taskId}/variants [get]
func (c *TaskController) ListVariants(ctx *gin.Context) {
	taskID, err := util.ParamUint(ctx, "taskId")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	variants, err := c.Tasks.Variants(ctx.Request.Context(), taskID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, variants)
}

// CreateVariant godoc
// @Summary Add a variant to a test task
// @Tags tasks
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param taskId path int true "Task ID"
// @Param request body service.VariantRequest true "Variant"
// @Success 201 {object} util.Response{data=model.Variant}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /admin/tasks/{taskId}/variants [post]
func (c *TaskController) CreateVariant(ctx *gin.Context) {
	taskID, err := util.ParamUint(ctx, "taskId")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	var req service.VariantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	admin := util.GetUserFromContext(ctx)
	v, err := c.Tasks.AddVariant(ctx.Request.Context(), taskID, admin.UserID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, v)
}

// UpdateVariant godoc
// @Summary Update a variant
// @Tags tasks
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param taskId path int true "Task ID"
// @Param variantId path int true "Variant ID"
// @Param request body service.VariantRequest true "Variant"
// @Success 200 {object} util.Response{data=model.Variant}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /admin/tasks/{taskId}/variants/{variantId} [put]
func (c *TaskController) UpdateVariant(ctx *gin.Context) {
	taskID, variantID, ok := variantParams(ctx)
	if !ok {
		return
	}
	var req service.VariantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	v, err := c.Tasks.UpdateVariant(ctx.Request.Context(), taskID, variantID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, v)
}

// DeleteVariant godoc
// @Summary Delete a variant
// @Tags tasks
// @Produce json
// @Security ApiKeyAuth
// @Param taskId path int true "Task ID"
// @Param variantId path int true "Variant ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /admin/tasks/{taskId}/variants/{variantId} [delete]
func (c *TaskController) DeleteVariant(ctx *gin.Context) {
	taskID, variantID, ok := variantParams(ctx)
	if !ok {
		return
	}
	if err := c.Tasks.DeleteVariant(ctx.Request.Context(), taskID, variantID); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func variantParams(ctx *gin.Context) (uint, uint, bool) {
	taskID, err := util.ParamUint(ctx, "taskId")
	if err != nil {
		util.RespondError(ctx, err)
		return 0, 0, false
	}
	variantID, err := util.ParamUint(ctx, "variantId")
	if err != nil {
		util.RespondError(ctx, err)
		return 0, 0, false
	}
	return taskID, variantID, true
}
