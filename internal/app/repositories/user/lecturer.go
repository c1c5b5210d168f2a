package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/aits/internal/app/models"
	"github.com/yigit/aits/internal/db"
	"github.com/yigit/aits/internal/pkg/apperrors"
	"github.com/yigit/aits/internal/pkg/logger"
)

// Lecturer is a lecturer user joined with its profile
type Lecturer struct {
	User    models.User
	Profile models.LecturerProfile
}

// LecturerRepository handles lecturer profile database operations
type LecturerRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewLecturerRepository creates a new LecturerRepository
func NewLecturerRepository(q db.Querier) *LecturerRepository {
	return &LecturerRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateLecturerProfile creates the profile row of a lecturer user
func (r *LecturerRepository) CreateLecturerProfile(ctx context.Context, p *models.LecturerProfile) error {
	sql, args, err := r.sb.Insert("lecturer_profiles").
		Columns("user_id", "department").
		Values(p.UserID, p.Department).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create lecturer profile SQL")
		return fmt.Errorf("failed to build create lecturer profile query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID); err != nil {
		logger.Error().Err(err).Int64("userID", p.UserID).Msg("Error executing create lecturer profile query")
		return fmt.Errorf("error creating lecturer profile: %w", err)
	}
	return nil
}

// GetLecturerProfileByUserID retrieves a lecturer profile by user ID
func (r *LecturerRepository) GetLecturerProfileByUserID(ctx context.Context, userID int64) (*models.LecturerProfile, error) {
	sql, args, err := r.sb.Select("id", "user_id", "department").
		From("lecturer_profiles").
		Where(squirrel.Eq{"user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get lecturer profile query: %w", err)
	}

	var p models.LecturerProfile
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.UserID, &p.Department); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLecturerNotFound
		}
		return nil, fmt.Errorf("error retrieving lecturer profile: %w", err)
	}
	return &p, nil
}

// ListLecturers returns active lecturers ordered by name
func (r *LecturerRepository) ListLecturers(ctx context.Context) ([]Lecturer, error) {
	sql, args, err := r.sb.Select(
		"u.id", "u.username", "u.email", "u.first_name", "u.last_name",
		"COALESCE(lp.id, 0)", "COALESCE(lp.department, '')",
	).
		From("users u").
		LeftJoin("lecturer_profiles lp ON lp.user_id = u.id").
		Where(squirrel.Eq{"u.role_type": models.RoleLecturer, "u.is_active": true}).
		OrderBy("u.last_name", "u.first_name").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list lecturers SQL")
		return nil, fmt.Errorf("failed to build list lecturers query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing lecturers: %w", err)
	}
	defer rows.Close()

	var lecturers []Lecturer
	for rows.Next() {
		var l Lecturer
		if err := rows.Scan(&l.User.ID, &l.User.Username, &l.User.Email, &l.User.FirstName, &l.User.LastName,
			&l.Profile.ID, &l.Profile.Department); err != nil {
			return nil, fmt.Errorf("error scanning lecturer row: %w", err)
		}
		l.User.RoleType = models.RoleLecturer
		l.User.IsActive = true
		l.Profile.UserID = l.User.ID
		lecturers = append(lecturers, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lecturer rows: %w", err)
	}

	return lecturers, nil
}
