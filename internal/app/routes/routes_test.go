package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/aits/internal/app/controllers"
	"github.com/yigit/aits/internal/app/models"
	"github.com/yigit/aits/internal/app/models/dto"
	"github.com/yigit/aits/internal/app/repositories/user"
	"github.com/yigit/aits/internal/app/services"
	"github.com/yigit/aits/internal/middleware"
	"github.com/yigit/aits/internal/pkg/auth"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := middleware.RegisterValidators(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// issueCalls counts calls reaching the issue service
type issueCalls struct {
	create, assign, resolve, list int
}

type countingIssueService struct {
	calls *issueCalls
}

func (s countingIssueService) CreateIssue(context.Context, *models.User, *dto.CreateIssueRequest) (*models.Issue, error) {
	s.calls.create++
	return &models.Issue{ID: 1, Status: models.StatusPending}, nil
}

func (s countingIssueService) AssignIssue(_ context.Context, _ *models.User, issueID, lecturerID int64) (*models.Issue, error) {
	s.calls.assign++
	return &models.Issue{ID: issueID, Status: models.StatusInProgress, AssignedTo: &lecturerID}, nil
}

func (s countingIssueService) ResolveIssue(_ context.Context, _ *models.User, issueID int64) (*models.Issue, error) {
	s.calls.resolve++
	return &models.Issue{ID: issueID, Status: models.StatusResolved}, nil
}

func (s countingIssueService) GetIssue(_ context.Context, _ *models.User, issueID int64) (*models.Issue, error) {
	return &models.Issue{ID: issueID}, nil
}

func (s countingIssueService) ListIssues(context.Context, *models.User, *models.IssueStatus) ([]models.Issue, error) {
	s.calls.list++
	return []models.Issue{}, nil
}

func (s countingIssueService) GetIssueStats(context.Context, *models.User) (models.IssueStats, error) {
	return models.IssueStats{}, nil
}

type emptyNotifications struct{}

func (emptyNotifications) Notify(context.Context, int64, *int64, string) error { return nil }

func (emptyNotifications) ListNotifications(context.Context, int64) (*dto.NotificationListResponse, error) {
	return &dto.NotificationListResponse{Notifications: []models.Notification{}}, nil
}

func (emptyNotifications) MarkNotificationRead(context.Context, int64, int64) error { return nil }

type noLecturers struct{}

func (noLecturers) ListLecturers(context.Context) ([]user.Lecturer, error) { return nil, nil }

type testServer struct {
	router *gin.Engine
	jwt    *auth.JWTService
	calls  *issueCalls
}

func newTestServer(t *testing.T, health HealthCheck) *testServer {
	t.Helper()

	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "routes-secret", AccessTokenExp: time.Hour, TokenIssuer: "aits"})
	calls := &issueCalls{}
	lgr := zerolog.Nop()

	authService := services.NewAuthService(nil, jwt, emptyNotifications{}, lgr, time.Second)
	router := gin.New()
	SetupRouter(router,
		controllers.NewAuthController(authService, lgr),
		controllers.NewIssueController(countingIssueService{calls: calls}, lgr),
		controllers.NewUserController(services.NewUserService(noLecturers{}, nil, lgr), lgr),
		controllers.NewNotificationController(emptyNotifications{}, lgr),
		nil,
		middleware.NewAuthMiddleware(jwt),
		health,
	)

	return &testServer{router: router, jwt: jwt, calls: calls}
}

func (s *testServer) do(t *testing.T, method, path string, role models.RoleType, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		token, _, err := s.jwt.GenerateAccessToken(&models.User{ID: 9, Email: "x@mak.ac.ug", RoleType: role})
		if err != nil {
			t.Fatal(err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

var createBody = map[string]interface{}{
	"category":      "appeal",
	"title":         "Appeal exam mark",
	"description":   "Marked below expectation",
	"course_unit":   "CSC 2100",
	"semester":      "1",
	"year_of_study": 2,
}

func TestTransitionsAreRoleGated(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		role   models.RoleType
		body   interface{}
		status int
	}{
		{"student creates", http.MethodPost, "/api/v1/issues", models.RoleStudent, createBody, http.StatusCreated},
		{"lecturer cannot create", http.MethodPost, "/api/v1/issues", models.RoleLecturer, createBody, http.StatusForbidden},
		{"registrar cannot create", http.MethodPost, "/api/v1/issues", models.RoleRegistrar, createBody, http.StatusForbidden},
		{"registrar assigns", http.MethodPut, "/api/v1/issues/4/assign", models.RoleRegistrar, map[string]int64{"lecturer_id": 10}, http.StatusOK},
		{"student cannot assign", http.MethodPut, "/api/v1/issues/4/assign", models.RoleStudent, map[string]int64{"lecturer_id": 10}, http.StatusForbidden},
		{"lecturer cannot assign", http.MethodPut, "/api/v1/issues/4/assign", models.RoleLecturer, map[string]int64{"lecturer_id": 10}, http.StatusForbidden},
		{"lecturer resolves", http.MethodPut, "/api/v1/issues/4/resolve", models.RoleLecturer, nil, http.StatusOK},
		{"registrar cannot resolve", http.MethodPut, "/api/v1/issues/4/resolve", models.RoleRegistrar, nil, http.StatusForbidden},
		{"student cannot resolve", http.MethodPut, "/api/v1/issues/4/resolve", models.RoleStudent, nil, http.StatusForbidden},
		{"registrar lists lecturers", http.MethodGet, "/api/v1/users/lecturers", models.RoleRegistrar, nil, http.StatusOK},
		{"student cannot list lecturers", http.MethodGet, "/api/v1/users/lecturers", models.RoleStudent, nil, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)
			w := s.do(t, tt.method, tt.path, tt.role, tt.body)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d, body = %s", w.Code, tt.status, w.Body.String())
			}
			if tt.status == http.StatusForbidden && (s.calls.create+s.calls.assign+s.calls.resolve) != 0 {
				t.Errorf("denied request reached the issue service: %+v", *s.calls)
			}
		})
	}
}

func TestEveryRoleCanReadIssues(t *testing.T) {
	s := newTestServer(t, nil)
	for _, role := range []models.RoleType{models.RoleStudent, models.RoleLecturer, models.RoleRegistrar} {
		if w := s.do(t, http.MethodGet, "/api/v1/issues", role, nil); w.Code != http.StatusOK {
			t.Errorf("%s: status = %d", role, w.Code)
		}
		if w := s.do(t, http.MethodGet, "/api/v1/notifications", role, nil); w.Code != http.StatusOK {
			t.Errorf("%s notifications: status = %d", role, w.Code)
		}
	}
	if s.calls.list != 3 {
		t.Errorf("list calls = %d, want 3", s.calls.list)
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	s := newTestServer(t, nil)
	for _, path := range []string{"/api/v1/issues", "/api/v1/issues/stats", "/api/v1/notifications", "/api/v1/auth/profile"} {
		if w := s.do(t, http.MethodGet, path, "", nil); w.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", path, w.Code)
		}
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, func(context.Context) error { return nil })
	if w := s.do(t, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Errorf("healthy: status = %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/ping", "", nil); w.Code != http.StatusOK {
		t.Errorf("ping: status = %d", w.Code)
	}

	down := newTestServer(t, func(context.Context) error { return errors.New("connection refused") })
	w := down.do(t, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("unhealthy: status = %d", w.Code)
	}
	var resp dto.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error == nil || resp.Error.Code != dto.ErrorCodeDatabaseError {
		t.Errorf("envelope = %+v", resp)
	}
}
