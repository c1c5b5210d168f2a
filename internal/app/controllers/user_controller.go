package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/aits/internal/app/models/dto"
	"github.com/yigit/aits/internal/app/services"
	"github.com/yigit/aits/internal/middleware"
)

// UserController handles user directory operations
type UserController struct {
	userService *services.UserService
	logger      zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService, logger zerolog.Logger) *UserController {
	return &UserController{
		userService: userService,
		logger:      logger,
	}
}

// ListLecturers lists the lecturers an issue can be assigned to
// @Summary List lecturers
// @Description Registrars pick an assignee from this list
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.LecturerResponse} "Lecturers retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Only registrars can list lecturers"
// @Router /users/lecturers [get]
func (c *UserController) ListLecturers(ctx *gin.Context) {
	actor, err := middleware.ActorFromContext(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	lecturers, err := c.userService.ListLecturers(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(lecturers, ""))
}
