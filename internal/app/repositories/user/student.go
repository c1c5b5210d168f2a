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
	"github.com/yigit/aits/internal/pkg/dberrors"
	"github.com/yigit/aits/internal/pkg/logger"
)

const (
	constraintRegistrationNo = "student_profiles_registration_no_key"
	constraintStudentNo      = "student_profiles_student_no_key"
)

// StudentRepository handles student profile database operations
type StudentRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(q db.Querier) *StudentRepository {
	return &StudentRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateStudentProfile creates the profile row of a student user
func (r *StudentRepository) CreateStudentProfile(ctx context.Context, p *models.StudentProfile) error {
	sql, args, err := r.sb.Insert("student_profiles").
		Columns("user_id", "registration_no", "student_no", "programme").
		Values(p.UserID, p.RegistrationNo, p.StudentNo, p.Programme).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student profile SQL")
		return fmt.Errorf("failed to build create student profile query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, constraintRegistrationNo):
			logger.Warn().Str("registrationNo", p.RegistrationNo).Msg("Duplicate registration number")
			return apperrors.ErrRegistrationNoExists
		case dberrors.IsDuplicateConstraintError(err, constraintStudentNo):
			logger.Warn().Str("studentNo", p.StudentNo).Msg("Duplicate student number")
			return apperrors.ErrStudentNoExists
		}
		logger.Error().Err(err).Int64("userID", p.UserID).Msg("Error executing create student profile query")
		return fmt.Errorf("error creating student profile: %w", err)
	}

	return nil
}

// GetStudentProfileByUserID retrieves a student profile by user ID
func (r *StudentRepository) GetStudentProfileByUserID(ctx context.Context, userID int64) (*models.StudentProfile, error) {
	sql, args, err := r.sb.Select("id", "user_id", "registration_no", "student_no", "programme").
		From("student_profiles").
		Where(squirrel.Eq{"user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get student profile query: %w", err)
	}

	var p models.StudentProfile
	err = r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.UserID, &p.RegistrationNo, &p.StudentNo, &p.Programme)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning student profile row")
		return nil, fmt.Errorf("error retrieving student profile: %w", err)
	}

	return &p, nil
}

// RegistrationNoExists checks if a registration number is taken
func (r *StudentRepository) RegistrationNoExists(ctx context.Context, registrationNo string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("student_profiles").
		Where(squirrel.Eq{"registration_no": registrationNo}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build registration number exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking registration number: %w", err)
	}
	return exists, nil
}
