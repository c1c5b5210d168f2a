package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/aits/internal/app/auth"
	"github.com/yigit/aits/internal/app/models"
	"github.com/yigit/aits/internal/app/models/dto"
	"github.com/yigit/aits/internal/pkg/apperrors"
)

const (
	minYearOfStudy = 1
	maxYearOfStudy = 7
)

// IssueService runs the issue lifecycle: pending -> in_progress -> resolved
type IssueService interface {
	CreateIssue(ctx context.Context, actor *models.User, req *dto.CreateIssueRequest) (*models.Issue, error)
	AssignIssue(ctx context.Context, actor *models.User, issueID, lecturerID int64) (*models.Issue, error)
	ResolveIssue(ctx context.Context, actor *models.User, issueID int64) (*models.Issue, error)
	GetIssue(ctx context.Context, actor *models.User, issueID int64) (*models.Issue, error)
	ListIssues(ctx context.Context, actor *models.User, status *models.IssueStatus) ([]models.Issue, error)
	GetIssueStats(ctx context.Context, actor *models.User) (models.IssueStats, error)
}

// IssueServiceOptions holds the optional knobs of the issue service
type IssueServiceOptions struct {
	DispatchTimeout time.Duration
	Clock           Clock
}

type issueServiceImpl struct {
	issues          IssueStore
	users           UserDirectory
	notifier        Notifier
	policy          *auth.Policy
	logger          zerolog.Logger
	now             Clock
	dispatchTimeout time.Duration
}

// NewIssueService creates a new IssueService
func NewIssueService(
	issues IssueStore,
	users UserDirectory,
	notifier Notifier,
	policy *auth.Policy,
	logger zerolog.Logger,
	opts IssueServiceOptions,
) IssueService {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.DispatchTimeout <= 0 {
		opts.DispatchTimeout = DefaultDispatchTimeout
	}
	if policy == nil {
		policy = auth.NewPolicy()
	}

	return &issueServiceImpl{
		issues:          issues,
		users:           users,
		notifier:        notifier,
		policy:          policy,
		logger:          logger,
		now:             opts.Clock,
		dispatchTimeout: opts.DispatchTimeout,
	}
}

func validateCreateIssue(req *dto.CreateIssueRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request body is required", apperrors.ErrValidationFailed)
	}
	if !req.Category.Valid() {
		return apperrors.NewValidationError("category", fmt.Sprintf("unknown category %q", req.Category))
	}

	required := []struct{ field, value string }{
		{"title", req.Title},
		{"description", req.Description},
		{"course_unit", req.CourseUnit},
		{"semester", req.Semester},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return apperrors.NewValidationError(r.field, r.field+" cannot be blank")
		}
	}

	if req.YearOfStudy < minYearOfStudy || req.YearOfStudy > maxYearOfStudy {
		return apperrors.NewValidationError("year_of_study",
			fmt.Sprintf("year_of_study must be between %d and %d", minYearOfStudy, maxYearOfStudy))
	}
	return nil
}

// CreateIssue submits a new pending issue on behalf of a student
func (s *issueServiceImpl) CreateIssue(ctx context.Context, actor *models.User, req *dto.CreateIssueRequest) (*models.Issue, error) {
	if err := s.policy.Authorize(auth.ActionIssueCreate, actor, nil); err != nil {
		return nil, err
	}
	if err := validateCreateIssue(req); err != nil {
		return nil, err
	}

	now := s.now()
	issue := &models.Issue{
		Category:    req.Category,
		Status:      models.StatusPending,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		CourseUnit:  strings.TrimSpace(req.CourseUnit),
		Semester:    strings.TrimSpace(req.Semester),
		YearOfStudy: req.YearOfStudy,
		Attachment:  req.Attachment,
		SubmittedBy: actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.issues.CreateIssue(ctx, issue); err != nil {
		s.logger.Error().Err(err).Int64("studentID", actor.ID).Msg("Failed to create issue")
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	s.logger.Info().
		Int64("issueID", issue.ID).
		Int64("studentID", actor.ID).
		Str("category", string(issue.Category)).
		Msg("Issue submitted")

	// The actor comes from token claims, so names and registration number
	// are only available from the stored row.
	created, err := s.issues.GetIssueByID(ctx, issue.ID)
	if err != nil {
		s.logger.Warn().Err(err).Int64("issueID", issue.ID).Msg("Failed to reload submitted issue")
		return issue, nil
	}
	return created, nil
}

// AssignIssue hands an issue to a lecturer and moves it to in_progress.
// Re-assigning an in_progress issue replaces the previous lecturer.
func (s *issueServiceImpl) AssignIssue(ctx context.Context, actor *models.User, issueID, lecturerID int64) (*models.Issue, error) {
	if err := s.policy.Authorize(auth.ActionIssueAssign, actor, nil); err != nil {
		return nil, err
	}

	lecturer, err := s.users.GetUserByID(ctx, lecturerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewCustomError(apperrors.ErrLecturerNotFound,
				fmt.Sprintf("lecturer %d not found", lecturerID))
		}
		return nil, fmt.Errorf("failed to load lecturer: %w", err)
	}
	if !lecturer.HasRole(models.RoleLecturer) {
		return nil, apperrors.NewValidationError("lecturer_id",
			fmt.Sprintf("user %d is a %s, issues can only be assigned to lecturers", lecturerID, lecturer.RoleType))
	}

	var previous *int64
	updated, err := s.issues.UpdateIssue(ctx, issueID, func(issue *models.Issue) error {
		if issue.Status == models.StatusResolved {
			return apperrors.ErrIssueAlreadyResolved
		}
		if !models.CanTransition(issue.Status, models.StatusInProgress) {
			return fmt.Errorf("%w: cannot assign an issue in status %s", apperrors.ErrValidationFailed, issue.Status)
		}

		previous = issue.AssignedTo
		id := lecturer.ID
		issue.AssignedTo = &id
		issue.Status = models.StatusInProgress
		issue.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := s.logger.Info().
		Int64("issueID", updated.ID).
		Int64("lecturerID", lecturer.ID).
		Int64("registrarID", actor.ID)
	if previous != nil {
		event = event.Int64("previousLecturerID", *previous)
	}
	event.Msg("Issue assigned")

	s.dispatch(ctx, lecturer.ID, updated.ID,
		fmt.Sprintf("Issue #%d (%s) has been assigned to you: %s", updated.ID, updated.CourseUnit, updated.Title))

	return updated, nil
}

// ResolveIssue closes an issue. Only its assigned lecturer may do this, and only once.
func (s *issueServiceImpl) ResolveIssue(ctx context.Context, actor *models.User, issueID int64) (*models.Issue, error) {
	if !s.policy.HasRole(auth.ActionIssueResolve, actor) {
		return nil, apperrors.NewForbiddenError("only lecturers can resolve issues")
	}

	updated, err := s.issues.UpdateIssue(ctx, issueID, func(issue *models.Issue) error {
		if err := s.policy.Authorize(auth.ActionIssueResolve, actor, issue); err != nil {
			return err
		}
		if issue.Status == models.StatusResolved {
			return apperrors.ErrIssueAlreadyResolved
		}
		if !models.CanTransition(issue.Status, models.StatusResolved) {
			return fmt.Errorf("%w: cannot resolve an issue in status %s", apperrors.ErrValidationFailed, issue.Status)
		}

		now := s.now()
		issue.Status = models.StatusResolved
		issue.ResolvedAt = &now
		issue.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("issueID", updated.ID).
		Int64("lecturerID", actor.ID).
		Msg("Issue resolved")

	s.dispatch(ctx, updated.SubmittedBy, updated.ID,
		fmt.Sprintf("Your issue #%d (%s) has been resolved", updated.ID, updated.Title))

	return updated, nil
}

// GetIssue returns one issue if actor may see it
func (s *issueServiceImpl) GetIssue(ctx context.Context, actor *models.User, issueID int64) (*models.Issue, error) {
	issue, err := s.issues.GetIssueByID(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(auth.ActionIssueView, actor, issue); err != nil {
		return nil, err
	}
	return issue, nil
}

// ListIssues returns the issues visible to actor, optionally narrowed to one status
func (s *issueServiceImpl) ListIssues(ctx context.Context, actor *models.User, status *models.IssueStatus) ([]models.Issue, error) {
	filter, err := auth.IssueScope(actor)
	if err != nil {
		return nil, err
	}
	if status != nil {
		if !status.Valid() {
			return nil, apperrors.NewValidationError("status", fmt.Sprintf("unknown status %q", *status))
		}
		filter.Status = status
	}

	issues, err := s.issues.ListIssues(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	return issues, nil
}

// GetIssueStats counts the issues visible to actor by status
func (s *issueServiceImpl) GetIssueStats(ctx context.Context, actor *models.User) (models.IssueStats, error) {
	if err := s.policy.Authorize(auth.ActionStatsView, actor, nil); err != nil {
		return models.IssueStats{}, err
	}
	filter, err := auth.IssueScope(actor)
	if err != nil {
		return models.IssueStats{}, err
	}

	stats, err := s.issues.CountIssues(ctx, filter)
	if err != nil {
		return models.IssueStats{}, fmt.Errorf("failed to count issues: %w", err)
	}
	return stats, nil
}

// dispatch notifies a user after a committed transition. Failures and panics
// are logged and never reach the caller.
func (s *issueServiceImpl) dispatch(ctx context.Context, userID, issueID int64, message string) {
	if s.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.dispatchTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn().
				Interface("panic", r).
				Int64("userID", userID).
				Int64("issueID", issueID).
				Msg("Notification dispatch panicked")
		}
	}()

	if err := s.notifier.Notify(ctx, userID, &issueID, message); err != nil {
		s.logger.Warn().
			Err(err).
			Int64("userID", userID).
			Int64("issueID", issueID).
			Msg("Failed to dispatch notification")
	}
}
