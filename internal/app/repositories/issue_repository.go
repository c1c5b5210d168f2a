package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/aits/internal/app/models"
	"github.com/yigit/aits/internal/db"
	"github.com/yigit/aits/internal/pkg/apperrors"
	"github.com/yigit/aits/internal/pkg/dberrors"
	"github.com/yigit/aits/internal/pkg/logger"
)

const constraintIssueResolved = "issues_resolved_check"

var issueColumns = []string{
	"i.id", "i.category", "i.status", "i.title", "i.description", "i.course_unit",
	"i.semester", "i.year_of_study", "i.attachment", "i.submitted_by", "i.assigned_to",
	"i.created_at", "i.updated_at", "i.resolved_at",
}

// Projection columns appended to issueColumns on reads
var issueProjection = []string{
	"TRIM(CONCAT(s.first_name, ' ', s.last_name))",
	"COALESCE(sp.registration_no, '')",
	"COALESCE(TRIM(CONCAT(l.first_name, ' ', l.last_name)), '')",
}

// IssueRepository handles issue database operations
type IssueRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewIssueRepository creates a new IssueRepository
func NewIssueRepository(pool *pgxpool.Pool) *IssueRepository {
	return &IssueRepository{
		db: pool,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateIssue inserts issue and fills in its id and timestamps
func (r *IssueRepository) CreateIssue(ctx context.Context, issue *models.Issue) error {
	sql, args, err := r.sb.Insert("issues").
		Columns("category", "status", "title", "description", "course_unit", "semester",
			"year_of_study", "attachment", "submitted_by", "assigned_to", "created_at", "updated_at").
		Values(issue.Category, issue.Status, issue.Title, issue.Description, issue.CourseUnit, issue.Semester,
			issue.YearOfStudy, issue.Attachment, issue.SubmittedBy, issue.AssignedTo, issue.CreatedAt, issue.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create issue SQL")
		return fmt.Errorf("failed to build create issue query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&issue.ID); err != nil {
		logger.Error().Err(err).Int64("submittedBy", issue.SubmittedBy).Msg("Error executing create issue query")
		return fmt.Errorf("error creating issue: %w", err)
	}

	logger.Info().Int64("issueID", issue.ID).Int64("submittedBy", issue.SubmittedBy).Msg("Issue created")
	return nil
}

// GetIssueByID retrieves an issue with its read projection
func (r *IssueRepository) GetIssueByID(ctx context.Context, id int64) (*models.Issue, error) {
	return r.getIssue(ctx, r.db, id)
}

func (r *IssueRepository) getIssue(ctx context.Context, q db.Querier, id int64) (*models.Issue, error) {
	sql, args, err := r.selectIssues().
		Where(squirrel.Eq{"i.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get issue SQL")
		return nil, fmt.Errorf("failed to build get issue query: %w", err)
	}

	issue, err := scanIssue(q.QueryRow(ctx, sql, args...), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrIssueNotFound
		}
		logger.Error().Err(err).Int64("issueID", id).Msg("Error scanning issue row")
		return nil, fmt.Errorf("error retrieving issue: %w", err)
	}
	return issue, nil
}

// UpdateIssue locks the issue row, hands the current state to mutate and
// writes back the mutable fields, all in one transaction. An error from
// mutate aborts the transaction and is returned unchanged.
func (r *IssueRepository) UpdateIssue(ctx context.Context, id int64, mutate func(*models.Issue) error) (*models.Issue, error) {
	var updated *models.Issue

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		updated, err = r.updateLocked(ctx, tx, id, mutate)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// updateLocked runs inside the caller's transaction. The row lock taken by
// the SELECT is what serializes concurrent transitions of one issue.
func (r *IssueRepository) updateLocked(ctx context.Context, q db.Querier, id int64, mutate func(*models.Issue) error) (*models.Issue, error) {
	lockSQL, args, err := r.buildLockQuery(id)
	if err != nil {
		return nil, fmt.Errorf("failed to build lock issue query: %w", err)
	}

	current, err := scanIssue(q.QueryRow(ctx, lockSQL, args...), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrIssueNotFound
		}
		return nil, fmt.Errorf("error locking issue: %w", err)
	}

	if err := mutate(current); err != nil {
		return nil, err
	}

	updateSQL, args, err := r.sb.Update("issues").
		Set("status", current.Status).
		Set("assigned_to", current.AssignedTo).
		Set("resolved_at", current.ResolvedAt).
		Set("updated_at", current.UpdatedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update issue query: %w", err)
	}

	if _, err := q.Exec(ctx, updateSQL, args...); err != nil {
		if dberrors.IsCheckConstraintError(err, constraintIssueResolved) {
			return nil, fmt.Errorf("%w: resolved issues need an assignee and resolution time", apperrors.ErrValidationFailed)
		}
		return nil, fmt.Errorf("error updating issue: %w", err)
	}

	return r.getIssue(ctx, q, id)
}

func (r *IssueRepository) buildLockQuery(id int64) (string, []interface{}, error) {
	return r.sb.Select(issueColumns...).
		From("issues i").
		Where(squirrel.Eq{"i.id": id}).
		Suffix("FOR UPDATE").
		ToSql()
}

// ListIssues returns issues matching filter, newest first
func (r *IssueRepository) ListIssues(ctx context.Context, filter models.IssueFilter) ([]models.Issue, error) {
	sql, args, err := r.buildListQuery(filter)
	if err != nil {
		logger.Error().Err(err).Msg("Error building list issues SQL")
		return nil, fmt.Errorf("failed to build list issues query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing issues: %w", err)
	}
	defer rows.Close()

	issues := make([]models.Issue, 0)
	for rows.Next() {
		issue, err := scanIssue(rows, true)
		if err != nil {
			return nil, fmt.Errorf("error scanning issue row: %w", err)
		}
		issues = append(issues, *issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating issue rows: %w", err)
	}

	return issues, nil
}

// CountIssues returns per-status counts of the issues matching filter in one query
func (r *IssueRepository) CountIssues(ctx context.Context, filter models.IssueFilter) (models.IssueStats, error) {
	var stats models.IssueStats

	sql, args, err := r.buildCountQuery(filter)
	if err != nil {
		return stats, fmt.Errorf("failed to build count issues query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&stats.Total, &stats.Pending, &stats.InProgress, &stats.Resolved)
	if err != nil {
		return stats, fmt.Errorf("error counting issues: %w", err)
	}
	return stats, nil
}

func (r *IssueRepository) selectIssues() squirrel.SelectBuilder {
	cols := make([]string, 0, len(issueColumns)+len(issueProjection))
	cols = append(cols, issueColumns...)
	cols = append(cols, issueProjection...)

	return r.sb.Select(cols...).
		From("issues i").
		Join("users s ON s.id = i.submitted_by").
		LeftJoin("student_profiles sp ON sp.user_id = i.submitted_by").
		LeftJoin("users l ON l.id = i.assigned_to")
}

func (r *IssueRepository) buildListQuery(filter models.IssueFilter) (string, []interface{}, error) {
	return applyIssueFilter(r.selectIssues(), filter).
		OrderBy("i.created_at DESC", "i.id DESC").
		ToSql()
}

func (r *IssueRepository) buildCountQuery(filter models.IssueFilter) (string, []interface{}, error) {
	q := r.sb.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE i.status = 'pending')",
		"COUNT(*) FILTER (WHERE i.status = 'in_progress')",
		"COUNT(*) FILTER (WHERE i.status = 'resolved')",
	).From("issues i")
	return applyIssueFilter(q, filter).ToSql()
}

func applyIssueFilter(q squirrel.SelectBuilder, filter models.IssueFilter) squirrel.SelectBuilder {
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"i.status": *filter.Status})
	}
	if filter.SubmittedBy != nil {
		q = q.Where(squirrel.Eq{"i.submitted_by": *filter.SubmittedBy})
	}
	if filter.AssignedTo != nil {
		q = q.Where(squirrel.Eq{"i.assigned_to": *filter.AssignedTo})
	}
	return q
}

func scanIssue(row pgx.Row, withProjection bool) (*models.Issue, error) {
	var issue models.Issue

	dest := []interface{}{
		&issue.ID, &issue.Category, &issue.Status, &issue.Title, &issue.Description, &issue.CourseUnit,
		&issue.Semester, &issue.YearOfStudy, &issue.Attachment, &issue.SubmittedBy, &issue.AssignedTo,
		&issue.CreatedAt, &issue.UpdatedAt, &issue.ResolvedAt,
	}
	if withProjection {
		dest = append(dest, &issue.StudentName, &issue.RegistrationNo, &issue.LecturerName)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &issue, nil
}
