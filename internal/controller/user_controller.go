package controller

import (
	"sdo_backend/internal/service"
	"sdo_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// UserController manages users and the admin notes about them.
type UserController struct {
	Users *service.UserService
	Notes *service.NoteService
}

func NewUserController(users *service.UserService, notes *service.NoteService) *UserController {
	return &UserController{Users: users, Notes: notes}
}

// CreateUser godoc
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body service.CreateUserRequest true "User"
// @Success 201 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Router /admin/users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req service.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	user, err := c.Users.Create(ctx.Request.Context(), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, user)
}

// SearchUsers godoc
// @Summary Search users
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param q query string false "Username or name fragment"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /admin/users/search [get]
func (c *UserController) SearchUsers(ctx *gin.Context) {
	page, limit := util.PageParams(ctx)
	users, total, err := c.Users.List(ctx.Request.Context(), ctx.Query("q"), page, limit)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: users, Total: total, Page: page, Limit: limit})
}

// GetUser godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param userId path int true "User ID"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 404 {object} util.Response
// @Router /admin/users/{userId} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, err := util.ParamUint(ctx, "userId")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	user, err := c.Users.Get(ctx.Request.Context(), id)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// UpdateUser godoc
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param userId path int true "User ID"
// @Param request body service.UpdateUserRequest true "User"
// @Success 200 {object} util.Response{data=model.User}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /admin/users/{userId} [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	id, err := util.ParamUint(ctx, "userId")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	var req service.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	user, err := c.Users.Update(ctx.Request.Context(), id, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Removes the user and all of their progress. Authored catalog entries are kept.
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param userId path int true "User ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /admin/users/{userId} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	id, err := util.ParamUint(ctx, "userId")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	if err := c.Users.Delete(ctx.Request.Context(), id); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListNotes godoc
// @Summary Notes about a user
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param userId path int true "User ID"
// @Success 200 {object} util.Response{data=[]model.Note}
// @Failure 404 {object} util.Response
// @Router /admin/users/{userId}/notes [get]
func (c *UserController) ListNotes(ctx *gin.Context) {
	userID, err := util.ParamUint(ctx, "userId")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	notes, err := c.Notes.List(ctx.Request.Context(), userID)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, notes)
}

// CreateNote godoc
// @Summary Add a note about a user
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param userId path int true "User ID"
// @Param request body service.NoteRequest true "Note"
// @Success 201 {object} util.Response{data=model.Note}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /admin/users/{userId}/notes [post]
func (c *UserController) CreateNote(ctx *gin.Context) {
	userID, err := util.ParamUint(ctx, "userId")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	var req service.NoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	admin := util.GetUserFromContext(ctx)
	note, err := c.Notes.Create(ctx.Request.Context(), admin.UserID, userID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Created(ctx, note)
}

// UpdateNote godoc
// @Summary Edit a note
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param userId path int true "User ID"
// @Param noteId path int true "Note ID"
// @Param request body service.NoteRequest true "Note"
// @Success 200 {object} util.Response{data=model.Note}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /admin/users/{userId}/notes/{noteId} [put]
func (c *UserController) UpdateNote(ctx *gin.Context) {
	userID, err := util.ParamUint(ctx, "userId")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	noteID, err := util.ParamUint(ctx, "noteId")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	var req service.NoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	note, err := c.Notes.Update(ctx.Request.Context(), userID, noteID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, note)
}

// DeleteNote godoc
// @Summary Delete a note
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param userId path int true "User ID"
// @Param noteId path int true "Note ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /admin/users/{userId}/notes/{noteId} [delete]
func (c *UserController) DeleteNote(ctx *gin.Context) {
	userID, err := util.ParamUint(ctx, "userId")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	noteID, err := util.ParamUint(ctx, "noteId")
	if err != nil {
		util.RespondError(ctx, err)
		return
	}
	if err := c.Notes.Delete(ctx.Request.Context(), userID, noteID); err != nil {
		util.RespondError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
