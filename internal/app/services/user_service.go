package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/aits/internal/app/auth"
	"github.com/yigit/aits/internal/app/models"
	"github.com/yigit/aits/internal/app/models/dto"
	"github.com/yigit/aits/internal/app/repositories/user"
)

// LecturerLister lists lecturers with their profiles
type LecturerLister interface {
	ListLecturers(ctx context.Context) ([]user.Lecturer, error)
}

// UserService serves the lecturer directory registrars pick assignees from
type UserService struct {
	lecturers LecturerLister
	policy    *auth.Policy
	logger    zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(lecturers LecturerLister, policy *auth.Policy, logger zerolog.Logger) *UserService {
	if policy == nil {
		policy = auth.NewPolicy()
	}
	return &UserService{
		lecturers: lecturers,
		policy:    policy,
		logger:    logger,
	}
}

// ListLecturers returns every active lecturer. Registrars only.
func (s *UserService) ListLecturers(ctx context.Context, actor *models.User) ([]dto.LecturerResponse, error) {
	if err := s.policy.Authorize(auth.ActionLecturerList, actor, nil); err != nil {
		return nil, err
	}

	lecturers, err := s.lecturers.ListLecturers(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list lecturers")
		return nil, fmt.Errorf("failed to list lecturers: %w", err)
	}

	resp := make([]dto.LecturerResponse, 0, len(lecturers))
	for _, l := range lecturers {
		resp = append(resp, dto.LecturerResponse{
			ID:         l.User.ID,
			Name:       l.User.FullName(),
			Email:      l.User.Email,
			Department: l.Profile.Department,
		})
	}
	return resp, nil
}
