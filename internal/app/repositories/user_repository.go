package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/aits/internal/app/models"
	"github.com/yigit/aits/internal/app/repositories/user"
	"github.com/yigit/aits/internal/db"
	"github.com/yigit/aits/internal/pkg/apperrors"
	"github.com/yigit/aits/internal/pkg/logger"
)

// UserRepository combines the user and role profile repositories
type UserRepository struct {
	pool      *pgxpool.Pool
	common    *user.Repository
	student   *user.StudentRepository
	lecturer  *user.LecturerRepository
	registrar *user.RegistrarRepository
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		pool:      pool,
		common:    user.NewRepository(pool),
		student:   user.NewStudentRepository(pool),
		lecturer:  user.NewLecturerRepository(pool),
		registrar: user.NewRegistrarRepository(pool),
	}
}

// CreateUserWithProfile inserts the user and the profile matching its role in
// one transaction. Profile ids and user ids are filled in on success.
func (r *UserRepository) CreateUserWithProfile(ctx context.Context, u *models.User, profile models.Profile) error {
	return db.WithTransaction(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		return createUserWithProfile(ctx, tx, u, profile)
	})
}

func createUserWithProfile(ctx context.Context, q db.Querier, u *models.User, profile models.Profile) error {
	if err := user.NewRepository(q).CreateUser(ctx, u); err != nil {
		return err
	}

	switch u.RoleType {
	case models.RoleStudent:
		if profile.Student == nil {
			return fmt.Errorf("%w: student profile is required", apperrors.ErrValidationFailed)
		}
		profile.Student.UserID = u.ID
		return user.NewStudentRepository(q).CreateStudentProfile(ctx, profile.Student)
	case models.RoleLecturer:
		if profile.Lecturer == nil {
			return fmt.Errorf("%w: lecturer profile is required", apperrors.ErrValidationFailed)
		}
		profile.Lecturer.UserID = u.ID
		return user.NewLecturerRepository(q).CreateLecturerProfile(ctx, profile.Lecturer)
	case models.RoleRegistrar:
		if profile.Registrar == nil {
			return fmt.Errorf("%w: registrar profile is required", apperrors.ErrValidationFailed)
		}
		profile.Registrar.UserID = u.ID
		return user.NewRegistrarRepository(q).CreateRegistrarProfile(ctx, profile.Registrar)
	default:
		return fmt.Errorf("%w: unknown role %q", apperrors.ErrValidationFailed, u.RoleType)
	}
}

// GetUserByEmail retrieves a user by email
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.common.GetUserByEmail(ctx, email)
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.common.GetUserByID(ctx, id)
}

// EmailExists checks if an email already exists
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.common.EmailExists(ctx, email)
}

// UsernameExists checks if a username already exists
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.common.UsernameExists(ctx, username)
}

// RegistrationNoExists checks if a student registration number already exists
func (r *UserRepository) RegistrationNoExists(ctx context.Context, registrationNo string) (bool, error) {
	return r.student.RegistrationNoExists(ctx, registrationNo)
}

// GetProfile loads the role profile of u. A missing profile row is not an
// error, the returned Profile is simply empty.
func (r *UserRepository) GetProfile(ctx context.Context, u *models.User) (models.Profile, error) {
	var (
		profile models.Profile
		err     error
	)

	switch u.RoleType {
	case models.RoleStudent:
		profile.Student, err = r.student.GetStudentProfileByUserID(ctx, u.ID)
	case models.RoleLecturer:
		profile.Lecturer, err = r.lecturer.GetLecturerProfileByUserID(ctx, u.ID)
	case models.RoleRegistrar:
		profile.Registrar, err = r.registrar.GetRegistrarProfileByUserID(ctx, u.ID)
	}

	if err != nil && !errors.Is(err, apperrors.ErrResourceNotFound) {
		return models.Profile{}, err
	}
	if err != nil {
		logger.Warn().Int64("userID", u.ID).Str("role", u.RoleType.String()).Msg("User has no role profile")
	}
	return profile, nil
}

// ListLecturers returns all active lecturers with their departments
func (r *UserRepository) ListLecturers(ctx context.Context) ([]user.Lecturer, error) {
	return r.lecturer.ListLecturers(ctx)
}
