package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/aits/internal/app/models"
	"github.com/yigit/aits/internal/app/repositories"
	"github.com/yigit/aits/internal/pkg/apperrors"
	"golang.org/x/crypto/bcrypt"
)

// DefaultRegistrarCollege is the college recorded on the seeded registrar
const DefaultRegistrarCollege = "Academic Registrar's Office"

// RegistrarStore is the part of the user repository the seed needs
type RegistrarStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUserWithProfile(ctx context.Context, u *appModels.User, profile appModels.Profile) error
}

var _ RegistrarStore = (*repositories.UserRepository)(nil)

// CreateDefaultRegistrar creates the first registrar account so issues can be
// assigned on a fresh install. Registration is open to registrars too, this
// only saves the bootstrap step. Nothing happens when email or password is empty.
func CreateDefaultRegistrar(ctx context.Context, users RegistrarStore, email, password string, lgr zerolog.Logger) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		lgr.Debug().Msg("No default registrar configured, skipping seed")
		return nil
	}

	exists, err := users.EmailExists(ctx, email)
	if err != nil {
		return fmt.Errorf("error checking if registrar exists: %w", err)
	}
	if exists {
		lgr.Info().Str("email", email).Msg("Default registrar already exists, skipping creation")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing registrar password: %w", err)
	}

	registrar := &appModels.User{
		Username:  strings.SplitN(email, "@", 2)[0],
		Email:     email,
		Password:  string(hashedPassword),
		FirstName: "Academic",
		LastName:  "Registrar",
		RoleType:  appModels.RoleRegistrar,
		IsActive:  true,
	}
	profile := appModels.Profile{
		Registrar: &appModels.RegistrarProfile{College: DefaultRegistrarCollege},
	}

	if err := users.CreateUserWithProfile(ctx, registrar, profile); err != nil {
		// Another instance may have seeded concurrently
		if errors.Is(err, apperrors.ErrConflict) {
			lgr.Info().Str("email", email).Msg("Default registrar created concurrently, skipping")
			return nil
		}
		return fmt.Errorf("error creating default registrar: %w", err)
	}

	lgr.Info().Int64("registrarID", registrar.ID).Str("email", email).Msg("Default registrar created")
	return nil
}
