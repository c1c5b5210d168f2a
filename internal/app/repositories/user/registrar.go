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
)

// RegistrarRepository handles registrar profile database operations
type RegistrarRepository struct {
	db db.Querier
	sb squirrel.StatementBuilderType
}

// NewRegistrarRepository creates a new RegistrarRepository
func NewRegistrarRepository(q db.Querier) *RegistrarRepository {
	return &RegistrarRepository{
		db: q,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateRegistrarProfile creates the profile row of a registrar user
func (r *RegistrarRepository) CreateRegistrarProfile(ctx context.Context, p *models.RegistrarProfile) error {
	sql, args, err := r.sb.Insert("registrar_profiles").
		Columns("user_id", "college").
		Values(p.UserID, p.College).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create registrar profile query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID); err != nil {
		return fmt.Errorf("error creating registrar profile: %w", err)
	}
	return nil
}

// GetRegistrarProfileByUserID retrieves a registrar profile by user ID
func (r *RegistrarRepository) GetRegistrarProfileByUserID(ctx context.Context, userID int64) (*models.RegistrarProfile, error) {
	sql, args, err := r.sb.Select("id", "user_id", "college").
		From("registrar_profiles").
		Where(squirrel.Eq{"user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get registrar profile query: %w", err)
	}

	var p models.RegistrarProfile
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.UserID, &p.College); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving registrar profile: %w", err)
	}
	return &p, nil
}
