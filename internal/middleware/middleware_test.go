package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/aits/internal/app/models"
	"github.com/yigit/aits/internal/app/models/dto"
	"github.com/yigit/aits/internal/pkg/apperrors"
	"github.com/yigit/aits/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWT(secret string) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:      secret,
		AccessTokenExp: time.Hour,
		TokenIssuer:    "aits",
	})
}

func tokenFor(t *testing.T, jwt *auth.JWTService, id int64, role models.RoleType) string {
	t.Helper()
	token, _, err := jwt.GenerateAccessToken(&models.User{ID: id, Email: fmt.Sprintf("u%d@mak.ac.ug", id), RoleType: role})
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	return token
}

// newProtectedRouter answers /whoami with the actor JWTAuth produced
func newProtectedRouter(jwt *auth.JWTService, roles ...models.RoleType) *gin.Engine {
	m := NewAuthMiddleware(jwt)
	r := gin.New()
	handlers := []gin.HandlerFunc{m.JWTAuth()}
	if len(roles) > 0 {
		handlers = append(handlers, m.RoleRequired(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		actor, err := ActorFromContext(c)
		if err != nil {
			HandleAPIError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": actor.RoleType, "email": actor.Email})
	})
	r.GET("/whoami", handlers...)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.APIResponse {
	t.Helper()
	var resp dto.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body %q: %v", w.Body.String(), err)
	}
	return resp
}

func TestJWTAuthHeader(t *testing.T) {
	jwt := newTestJWT("middleware-secret")
	r := newProtectedRouter(jwt)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, jwt, 10, models.RoleLecturer))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var body struct {
		ID    int64           `json:"id"`
		Role  models.RoleType `json:"role"`
		Email string          `json:"email"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.ID != 10 || body.Role != models.RoleLecturer || body.Email != "u10@mak.ac.ug" {
		t.Errorf("actor = %+v", body)
	}
}

func TestJWTAuthQueryToken(t *testing.T) {
	jwt := newTestJWT("middleware-secret")
	r := newProtectedRouter(jwt)

	req := httptest.NewRequest(http.MethodGet, "/whoami?token="+tokenFor(t, jwt, 1, models.RoleStudent), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestJWTAuthRejects(t *testing.T) {
	jwt := newTestJWT("middleware-secret")
	foreign := tokenFor(t, newTestJWT("someone-else"), 1, models.RoleStudent)

	tests := []struct {
		name   string
		header string
		query  string
		code   dto.ErrorCode
	}{
		{"no credentials", "", "", dto.ErrorCodeTokenNotFound},
		{"not a bearer header", "Basic dXNlcjpwYXNz", "", dto.ErrorCodeInvalidToken},
		{"garbage token", "Bearer not-a-jwt", "", dto.ErrorCodeInvalidToken},
		{"wrong signing key", "Bearer " + foreign, "", dto.ErrorCodeInvalidToken},
		{"wrong signing key in query", "", foreign, dto.ErrorCodeInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newProtectedRouter(jwt)
			path := "/whoami"
			if tt.query != "" {
				path += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", w.Code)
			}
			resp := decode(t, w)
			if resp.Success || resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("envelope = %+v", resp)
			}
		})
	}
}

func TestRoleRequired(t *testing.T) {
	jwt := newTestJWT("middleware-secret")

	tests := []struct {
		name   string
		role   models.RoleType
		allow  []models.RoleType
		status int
	}{
		{"registrar allowed", models.RoleRegistrar, []models.RoleType{models.RoleRegistrar}, http.StatusOK},
		{"student denied", models.RoleStudent, []models.RoleType{models.RoleRegistrar}, http.StatusForbidden},
		{"lecturer denied", models.RoleLecturer, []models.RoleType{models.RoleStudent}, http.StatusForbidden},
		{"any of several", models.RoleLecturer, []models.RoleType{models.RoleRegistrar, models.RoleLecturer}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newProtectedRouter(jwt, tt.allow...)
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, jwt, 3, tt.role))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if tt.status == http.StatusForbidden {
				if resp := decode(t, w); resp.Error == nil || resp.Error.Code != dto.ErrorCodeForbidden {
					t.Errorf("envelope = %+v", resp)
				}
			}
		})
	}
}

func TestRoleRequiredWithoutJWTAuth(t *testing.T) {
	m := NewAuthMiddleware(newTestJWT("middleware-secret"))
	r := gin.New()
	r.GET("/x", m.RoleRequired(models.RoleRegistrar), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"already resolved", apperrors.ErrIssueAlreadyResolved, http.StatusConflict, dto.ErrorCodeInvalidTransition},
		{"wrapped already resolved", fmt.Errorf("resolve: %w", apperrors.ErrIssueAlreadyResolved), http.StatusConflict, dto.ErrorCodeInvalidTransition},
		{"duplicate email", apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"issue not found", apperrors.ErrIssueNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"lecturer not found", apperrors.ErrLecturerNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"forbidden", apperrors.NewForbiddenError("nope"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{"validation", apperrors.NewValidationError("title", "title is required"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"bad request", apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"disabled", apperrors.ErrAccountDisabled, http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"expired", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := StatusFor(tt.err)
			if status != tt.status || code != tt.code {
				t.Errorf("StatusFor() = (%d, %s), want (%d, %s)", status, code, tt.status, tt.code)
			}
		})
	}
}

func TestHandleAPIErrorHidesInternalMessage(t *testing.T) {
	r := gin.New()
	r.GET("/boom", func(c *gin.Context) {
		HandleAPIError(c, errors.New("pq: password authentication failed"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if resp := decode(t, w); resp.Error == nil || resp.Error.Message != "Internal server error" {
		t.Errorf("envelope = %+v", resp)
	}
}

func TestRecoveryReturnsEnvelope(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zerolog.Nop()), RequestLogger(zerolog.Nop()))
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if resp := decode(t, w); resp.Success || resp.Error == nil {
		t.Errorf("envelope = %+v", resp)
	}
}
