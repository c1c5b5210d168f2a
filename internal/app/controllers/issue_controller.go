package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/aits/internal/app/models"
	"github.com/yigit/aits/internal/app/models/dto"
	"github.com/yigit/aits/internal/app/services"
	"github.com/yigit/aits/internal/middleware"
	"github.com/yigit/aits/internal/pkg/apperrors"
)

// IssueController exposes the issue lifecycle over HTTP
type IssueController struct {
	issueService services.IssueService
	logger       zerolog.Logger
}

// NewIssueController creates a new IssueController
func NewIssueController(issueService services.IssueService, logger zerolog.Logger) *IssueController {
	return &IssueController{
		issueService: issueService,
		logger:       logger,
	}
}

// parseIDParam reads a positive int64 path parameter
func parseIDParam(ctx *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError(name, fmt.Sprintf("invalid %s %q", name, ctx.Param(name)))
	}
	return id, nil
}

// CreateIssue handles issue submission
// @Summary Submit an issue
// @Description A student raises a missing marks, appeal, correction or other issue. It starts pending.
// @Tags issues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateIssueRequest true "Issue details"
// @Success 201 {object} dto.APIResponse{data=models.Issue} "Issue submitted"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Only students can submit issues"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /issues [post]
func (c *IssueController) CreateIssue(ctx *gin.Context) {
	actor, err := middleware.ActorFromContext(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CreateIssueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Int64("userID", actor.ID).Msg("Invalid create issue payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	issue, err := c.issueService.CreateIssue(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(issue, "Issue submitted successfully"))
}

// ListIssues lists the issues visible to the caller
// @Summary List issues
// @Description Registrars see every issue, lecturers the issues assigned to them, students their own
// @Tags issues
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(pending, in_progress, resolved)
// @Success 200 {object} dto.APIResponse{data=dto.IssueListResponse} "Issues retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid status"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /issues [get]
func (c *IssueController) ListIssues(ctx *gin.Context) {
	actor, err := middleware.ActorFromContext(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var query dto.IssueListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	var status *models.IssueStatus
	if query.Status != "" {
		status = &query.Status
	}

	issues, err := c.issueService.ListIssues(ctx.Request.Context(), actor, status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.IssueListResponse{
		Issues: issues,
		Total:  len(issues),
	}, ""))
}

// GetIssueStats counts the caller's visible issues by status
// @Summary Issue statistics
// @Description Counts of total, pending, in progress and resolved issues within the caller's scope
// @Tags issues
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.IssueStats} "Statistics retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /issues/stats [get]
func (c *IssueController) GetIssueStats(ctx *gin.Context) {
	actor, err := middleware.ActorFromContext(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	stats, err := c.issueService.GetIssueStats(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats, ""))
}

// GetIssue returns a single issue
// @Summary Get an issue
// @Tags issues
// @Produce json
// @Security BearerAuth
// @Param id path int true "Issue ID"
// @Success 200 {object} dto.APIResponse{data=models.Issue} "Issue retrieved"
// @Failure 400 {object} dto.APIResponse "Invalid issue ID"
// @Failure 403 {object} dto.APIResponse "Issue not visible to caller"
// @Failure 404 {object} dto.APIResponse "Issue not found"
// @Router /issues/{id} [get]
func (c *IssueController) GetIssue(ctx *gin.Context) {
	actor, err := middleware.ActorFromContext(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	issueID, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	issue, err := c.issueService.GetIssue(ctx.Request.Context(), actor, issueID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(issue, ""))
}

// AssignIssue assigns an issue to a lecturer
// @Summary Assign an issue
// @Description A registrar assigns a pending or in progress issue to a lecturer. The issue moves to in_progress and the lecturer is notified.
// @Tags issues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Issue ID"
// @Param request body dto.AssignIssueRequest true "Lecturer to assign"
// @Success 200 {object} dto.APIResponse{data=models.Issue} "Issue assigned"
// @Failure 400 {object} dto.APIResponse "Validation error or target is not a lecturer"
// @Failure 403 {object} dto.APIResponse "Only registrars can assign issues"
// @Failure 404 {object} dto.APIResponse "Issue or lecturer not found"
// @Failure 409 {object} dto.APIResponse "Issue already resolved"
// @Router /issues/{id}/assign [put]
func (c *IssueController) AssignIssue(ctx *gin.Context) {
	actor, err := middleware.ActorFromContext(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	issueID, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.AssignIssueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	issue, err := c.issueService.AssignIssue(ctx.Request.Context(), actor, issueID, req.LecturerID)
	if err != nil {
		c.logger.Warn().Err(err).Int64("issueID", issueID).Int64("lecturerID", req.LecturerID).Msg("Assign issue failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(issue, "Issue assigned successfully"))
}

// ResolveIssue marks an issue resolved
// @Summary Resolve an issue
// @Description The assigned lecturer resolves an in progress issue. The submitting student is notified.
// @Tags issues
// @Produce json
// @Security BearerAuth
// @Param id path int true "Issue ID"
// @Success 200 {object} dto.APIResponse{data=models.Issue} "Issue resolved"
// @Failure 403 {object} dto.APIResponse "Caller is not the assigned lecturer"
// @Failure 404 {object} dto.APIResponse "Issue not found"
// @Failure 409 {object} dto.APIResponse "Issue already resolved"
// @Router /issues/{id}/resolve [put]
func (c *IssueController) ResolveIssue(ctx *gin.Context) {
	actor, err := middleware.ActorFromContext(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	issueID, err := parseIDParam(ctx, "id")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	issue, err := c.issueService.ResolveIssue(ctx.Request.Context(), actor, issueID)
	if err != nil {
		c.logger.Warn().Err(err).Int64("issueID", issueID).Int64("userID", actor.ID).Msg("Resolve issue failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(issue, "Issue resolved successfully"))
}
