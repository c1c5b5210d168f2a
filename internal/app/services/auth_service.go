package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/aits/internal/app/models"
	"github.com/yigit/aits/internal/app/models/dto"
	"github.com/yigit/aits/internal/pkg/apperrors"
	"github.com/yigit/aits/internal/pkg/auth"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._\-]{3,50}$`)
)

// UserStore is the persistence the auth service needs
type UserStore interface {
	UserDirectory
	CreateUserWithProfile(ctx context.Context, u *models.User, profile models.Profile) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	RegistrationNoExists(ctx context.Context, registrationNo string) (bool, error)
	GetProfile(ctx context.Context, u *models.User) (models.Profile, error)
}

// TokenIssuer signs access tokens
type TokenIssuer interface {
	GenerateAccessToken(user *models.User) (string, int64, error)
}

// AuthService handles registration, login and profile lookup
type AuthService struct {
	users           UserStore
	tokens          TokenIssuer
	notifier        Notifier
	logger          zerolog.Logger
	dispatchTimeout time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, tokens TokenIssuer, notifier Notifier, logger zerolog.Logger, dispatchTimeout time.Duration) *AuthService {
	if dispatchTimeout <= 0 {
		dispatchTimeout = DefaultDispatchTimeout
	}
	return &AuthService{
		users:           users,
		tokens:          tokens,
		notifier:        notifier,
		logger:          logger,
		dispatchTimeout: dispatchTimeout,
	}
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return apperrors.NewValidationError("email", "email cannot be empty")
	}
	if !emailRegex.MatchString(email) {
		return apperrors.NewValidationError("email", "email format is invalid")
	}
	return nil
}

// validateRegistration checks the request and returns the profile matching its role
func validateRegistration(req *dto.RegisterRequest) (models.Profile, error) {
	var profile models.Profile

	if !req.RoleType.Valid() {
		return profile, apperrors.NewValidationError("roleType", fmt.Sprintf("unknown role %q", req.RoleType))
	}
	if !usernameRegex.MatchString(req.Username) {
		return profile, apperrors.NewValidationError("username", "username must be 3-50 letters, digits, '.', '_' or '-'")
	}
	if err := validateEmail(req.Email); err != nil {
		return profile, err
	}
	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		return profile, err
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return profile, apperrors.NewValidationError("name", "first and last name are required")
	}

	switch req.RoleType {
	case models.RoleStudent:
		regNo, studentNo := strings.TrimSpace(req.RegistrationNo), strings.TrimSpace(req.StudentNo)
		if regNo == "" {
			return profile, apperrors.NewValidationError("registrationNo", "registration number is required for students")
		}
		if studentNo == "" {
			return profile, apperrors.NewValidationError("studentNo", "student number is required for students")
		}
		profile.Student = &models.StudentProfile{
			RegistrationNo: regNo,
			StudentNo:      studentNo,
			Programme:      strings.TrimSpace(req.Programme),
		}
	case models.RoleLecturer:
		if strings.TrimSpace(req.Department) == "" {
			return profile, apperrors.NewValidationError("department", "department is required for lecturers")
		}
		profile.Lecturer = &models.LecturerProfile{Department: strings.TrimSpace(req.Department)}
	case models.RoleRegistrar:
		if strings.TrimSpace(req.College) == "" {
			return profile, apperrors.NewValidationError("college", "college is required for registrars")
		}
		profile.Registrar = &models.RegistrarProfile{College: strings.TrimSpace(req.College)}
	}

	return profile, nil
}

// Register creates a user with its role profile and returns a signed token
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	profile, err := validateRegistration(req)
	if err != nil {
		return nil, err
	}

	if err := s.checkAvailability(ctx, req); err != nil {
		return nil, err
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashedPassword,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		RoleType:  req.RoleType,
		IsActive:  true,
	}

	// Unique constraints still catch a registration racing the checks above
	if err := s.users.CreateUserWithProfile(ctx, user, profile); err != nil {
		if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrValidationFailed) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("email", user.Email).Msg("Failed to register user")
		return nil, fmt.Errorf("user creation error: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", user.RoleType.String()).Msg("User registered")

	s.welcome(ctx, user)

	return s.authResponse(user, profile)
}

func (s *AuthService) checkAvailability(ctx context.Context, req *dto.RegisterRequest) error {
	exists, err := s.users.EmailExists(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return apperrors.ErrEmailAlreadyExists
	}

	exists, err = s.users.UsernameExists(ctx, req.Username)
	if err != nil {
		return fmt.Errorf("error checking if username exists: %w", err)
	}
	if exists {
		return apperrors.ErrUsernameAlreadyExists
	}

	if req.RoleType == models.RoleStudent {
		exists, err = s.users.RegistrationNoExists(ctx, strings.TrimSpace(req.RegistrationNo))
		if err != nil {
			return fmt.Errorf("error checking if registration number exists: %w", err)
		}
		if exists {
			return apperrors.ErrRegistrationNoExists
		}
	}

	return nil
}

func (s *AuthService) welcome(ctx context.Context, user *models.User) {
	if s.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.dispatchTimeout)
	defer cancel()

	msg := fmt.Sprintf("Welcome to AITS, %s! Your %s account is ready.", user.FullName(), user.RoleType)
	if err := s.notifier.Notify(ctx, user.ID, nil, msg); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to send welcome notification")
	}
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if req.Password == "" {
		return nil, apperrors.NewValidationError("password", "password cannot be empty")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	profile, err := s.users.GetProfile(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User logged in")
	return s.authResponse(user, profile)
}

// GetProfile returns a user together with its role profile
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.users.GetProfile(ctx, user)
	if err != nil {
		return nil, err
	}

	resp := dto.NewUserResponse(user, profile)
	return &resp, nil
}

func (s *AuthService) authResponse(user *models.User, profile models.Profile) (*dto.AuthResponse, error) {
	token, expiresIn, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		User: dto.NewUserResponse(user, profile),
	}, nil
}
