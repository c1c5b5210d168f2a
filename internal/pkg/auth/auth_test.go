package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/yigit/aits/internal/app/models"
	"github.com/yigit/aits/internal/pkg/apperrors"
)

func newTestJWT(now time.Time) *JWTService {
	s := NewJWTService(JWTConfig{
		SecretKey:      "unit-test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "aits",
	})
	s.now = func() time.Time { return now }
	return s
}

func TestJWTRoundTrip(t *testing.T) {
	now := time.Now()
	s := newTestJWT(now)
	user := &models.User{ID: 7, Email: "lec@mak.ac.ug", RoleType: models.RoleLecturer}

	token, expiresIn, err := s.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if expiresIn != 3600 {
		t.Errorf("expiresIn = %d, want 3600", expiresIn)
	}

	claims, err := s.ValidateAndExtractClaims(token)
	if err != nil {
		t.Fatalf("ValidateAndExtractClaims() error = %v", err)
	}
	if claims.UserID != 7 || claims.RoleType != models.RoleLecturer || claims.Email != user.Email {
		t.Errorf("unexpected claims %+v", claims)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}
}

func TestJWTExpired(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	token, _, err := newTestJWT(issued).GenerateAccessToken(&models.User{ID: 1, Email: "a@b.c", RoleType: models.RoleStudent})
	if err != nil {
		t.Fatal(err)
	}

	_, err = newTestJWT(time.Now()).ValidateToken(token)
	if !errors.Is(err, apperrors.ErrTokenExpired) {
		t.Errorf("ValidateToken() error = %v, want ErrTokenExpired", err)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	now := time.Now()
	token, _, _ := newTestJWT(now).GenerateAccessToken(&models.User{ID: 1, Email: "a@b.c", RoleType: models.RoleStudent})

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "aits"})
	if _, err := other.ValidateToken(token); !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Errorf("ValidateToken() error = %v, want ErrTokenInvalid", err)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def", "abc.def", false},
		{"abc.def", "abc.def", false},
		{"", "", true},
		{"Bearer   ", "", true},
	}

	for _, tt := range tests {
		got, err := ExtractBearerToken(tt.header)
		if (err != nil) != tt.wantErr {
			t.Errorf("ExtractBearerToken(%q) error = %v", tt.header, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ExtractBearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(hash, "secret123") {
		t.Error("CheckPassword() rejected the right password")
	}
	if CheckPassword(hash, "secret124") {
		t.Error("CheckPassword() accepted a wrong password")
	}
}

func TestValidatePasswordStrength(t *testing.T) {
	for pw, ok := range map[string]bool{
		"short1":      false,
		"lettersonly": false,
		"12345678":    false,
		"abcd1234":    true,
	} {
		err := ValidatePasswordStrength(pw)
		if ok && err != nil {
			t.Errorf("ValidatePasswordStrength(%q) = %v", pw, err)
		}
		if !ok && !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Errorf("ValidatePasswordStrength(%q) = %v, want ErrValidationFailed", pw, err)
		}
	}
}
