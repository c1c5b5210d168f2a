package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/aits/internal/app/models"
	"github.com/yigit/aits/internal/app/models/dto"
	"github.com/yigit/aits/internal/pkg/apperrors"
	"github.com/yigit/aits/internal/pkg/auth"
)

type memUserStore struct {
	nextID   int64
	users    map[int64]*models.User
	profiles map[int64]models.Profile
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[int64]*models.User), profiles: make(map[int64]models.Profile)}
}

func (m *memUserStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (m *memUserStore) CreateUserWithProfile(_ context.Context, u *models.User, profile models.Profile) error {
	m.nextID++
	u.ID = m.nextID
	m.users[u.ID] = u
	m.profiles[u.ID] = profile
	return nil
}

func (m *memUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.GetUserByEmail(ctx, email)
	return err == nil, nil
}

func (m *memUserStore) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserStore) RegistrationNoExists(_ context.Context, regNo string) (bool, error) {
	for _, p := range m.profiles {
		if p.Student != nil && p.Student.RegistrationNo == regNo {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserStore) GetProfile(_ context.Context, u *models.User) (models.Profile, error) {
	return m.profiles[u.ID], nil
}

func newAuthFixture() (*AuthService, *memUserStore, *recordingNotifier) {
	store := newMemUserStore()
	notifier := &recordingNotifier{}
	tokens := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "aits-test",
	})
	return NewAuthService(store, tokens, notifier, zerolog.Nop(), time.Second), store, notifier
}

func studentRegistration() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Username:       "sokello",
		Email:          "Sam.Okello@Students.mak.ac.ug",
		Password:       "passw0rd123",
		FirstName:      "Sam",
		LastName:       "Okello",
		RoleType:       models.RoleStudent,
		RegistrationNo: "21/U/1234",
		StudentNo:      "2100701234",
		Programme:      "BSc Computer Science",
	}
}

func TestRegisterStudent(t *testing.T) {
	svc, store, notifier := newAuthFixture()

	resp, err := svc.Register(context.Background(), studentRegistration())
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if resp.Token.AccessToken == "" || resp.Token.TokenType != "Bearer" {
		t.Errorf("token = %+v", resp.Token)
	}
	if resp.User.Email != "sam.okello@students.mak.ac.ug" {
		t.Errorf("email must be normalised, got %q", resp.User.Email)
	}
	if resp.User.RegistrationNo != "21/U/1234" || resp.User.Role != "student" {
		t.Errorf("user = %+v", resp.User)
	}

	stored := store.users[resp.User.ID]
	if stored.Password == "passw0rd123" || !auth.CheckPassword(stored.Password, "passw0rd123") {
		t.Error("password must be stored as a bcrypt hash")
	}

	if got := notifier.recipients(); len(got) != 1 || got[0] != resp.User.ID {
		t.Errorf("welcome notification recipients = %v", got)
	}
	if !strings.Contains(notifier.sent[0].message, "Welcome to AITS") {
		t.Errorf("welcome message = %q", notifier.sent[0].message)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.RegisterRequest)
	}{
		{"unknown role", func(r *dto.RegisterRequest) { r.RoleType = "dean" }},
		{"short username", func(r *dto.RegisterRequest) { r.Username = "ab" }},
		{"bad email", func(r *dto.RegisterRequest) { r.Email = "not-an-email" }},
		{"weak password", func(r *dto.RegisterRequest) { r.Password = "password" }},
		{"missing name", func(r *dto.RegisterRequest) { r.LastName = " " }},
		{"student without registration number", func(r *dto.RegisterRequest) { r.RegistrationNo = "" }},
		{"student without student number", func(r *dto.RegisterRequest) { r.StudentNo = "" }},
		{"lecturer without department", func(r *dto.RegisterRequest) { r.RoleType = models.RoleLecturer }},
		{"registrar without college", func(r *dto.RegisterRequest) { r.RoleType = models.RoleRegistrar }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newAuthFixture()
			req := studentRegistration()
			tt.mutate(req)

			_, err := svc.Register(context.Background(), req)
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Fatalf("error = %v, want ErrValidationFailed", err)
			}
			if len(store.users) != 0 {
				t.Error("user must not be created")
			}
		})
	}
}

func TestRegisterDuplicates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.RegisterRequest)
		want   error
	}{
		{"email", func(r *dto.RegisterRequest) { r.Username = "other" }, apperrors.ErrEmailAlreadyExists},
		{"username", func(r *dto.RegisterRequest) { r.Email = "other@mak.ac.ug" }, apperrors.ErrUsernameAlreadyExists},
		{"registration number", func(r *dto.RegisterRequest) {
			r.Username = "other"
			r.Email = "other@mak.ac.ug"
		}, apperrors.ErrRegistrationNoExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newAuthFixture()
			if _, err := svc.Register(context.Background(), studentRegistration()); err != nil {
				t.Fatal(err)
			}

			req := studentRegistration()
			tt.mutate(req)
			_, err := svc.Register(context.Background(), req)
			if !errors.Is(err, tt.want) || !errors.Is(err, apperrors.ErrConflict) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	svc, store, _ := newAuthFixture()
	ctx := context.Background()

	reg, err := svc.Register(ctx, studentRegistration())
	if err != nil {
		t.Fatal(err)
	}

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: " SAM.OKELLO@students.mak.ac.ug", Password: "passw0rd123"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.User.ID != reg.User.ID || resp.Token.AccessToken == "" {
		t.Errorf("login response = %+v", resp)
	}

	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "sam.okello@students.mak.ac.ug", Password: "wrong1234"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("wrong password: error = %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "nobody@mak.ac.ug", Password: "passw0rd123"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("unknown email: error = %v", err)
	}

	store.users[reg.User.ID].IsActive = false
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "sam.okello@students.mak.ac.ug", Password: "passw0rd123"}); !errors.Is(err, apperrors.ErrAccountDisabled) {
		t.Errorf("inactive account: error = %v", err)
	}
}

func TestGetProfile(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	req := studentRegistration()
	req.RoleType = models.RoleLecturer
	req.Department = "Computer Science"
	reg, err := svc.Register(ctx, req)
	if err != nil {
		t.Fatal(err)
	}

	profile, err := svc.GetProfile(ctx, reg.User.ID)
	if err != nil {
		t.Fatal(err)
	}
	if profile.Department != "Computer Science" || profile.RegistrationNo != "" {
		t.Errorf("profile = %+v", profile)
	}

	if _, err := svc.GetProfile(ctx, 4040); !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("error = %v, want ErrUserNotFound", err)
	}
}
