package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/aits/internal/app/models"
	"github.com/yigit/aits/internal/app/models/dto"
	"github.com/yigit/aits/internal/middleware"
	"github.com/yigit/aits/internal/pkg/apperrors"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := middleware.RegisterValidators(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// stubIssueService answers every call with issue and err
type stubIssueService struct {
	issue  *models.Issue
	err    error
	status *models.IssueStatus

	lastActor      *models.User
	lastLecturerID int64
	lastIssueID    int64
}

func (s *stubIssueService) CreateIssue(_ context.Context, actor *models.User, req *dto.CreateIssueRequest) (*models.Issue, error) {
	s.lastActor = actor
	if s.err != nil {
		return nil, s.err
	}
	issue := *s.issue
	issue.Title = req.Title
	return &issue, nil
}

func (s *stubIssueService) AssignIssue(_ context.Context, actor *models.User, issueID, lecturerID int64) (*models.Issue, error) {
	s.lastActor, s.lastIssueID, s.lastLecturerID = actor, issueID, lecturerID
	return s.issue, s.err
}

func (s *stubIssueService) ResolveIssue(_ context.Context, actor *models.User, issueID int64) (*models.Issue, error) {
	s.lastActor, s.lastIssueID = actor, issueID
	return s.issue, s.err
}

func (s *stubIssueService) GetIssue(_ context.Context, actor *models.User, issueID int64) (*models.Issue, error) {
	s.lastActor, s.lastIssueID = actor, issueID
	return s.issue, s.err
}

func (s *stubIssueService) ListIssues(_ context.Context, actor *models.User, status *models.IssueStatus) ([]models.Issue, error) {
	s.lastActor, s.status = actor, status
	if s.err != nil {
		return nil, s.err
	}
	return []models.Issue{*s.issue}, nil
}

func (s *stubIssueService) GetIssueStats(_ context.Context, actor *models.User) (models.IssueStats, error) {
	s.lastActor = actor
	return models.IssueStats{Total: 1, Pending: 1}, s.err
}

// asUser stands in for JWTAuth
func asUser(id int64, role models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, id)
		c.Set(middleware.ContextRoleType, role)
		c.Next()
	}
}

func newIssueRouter(svc *stubIssueService, role models.RoleType) *gin.Engine {
	ctrl := NewIssueController(svc, zerolog.Nop())
	r := gin.New()
	g := r.Group("/issues", asUser(5, role))
	g.POST("", ctrl.CreateIssue)
	g.GET("", ctrl.ListIssues)
	g.GET("/stats", ctrl.GetIssueStats)
	g.GET("/:id", ctrl.GetIssue)
	g.PUT("/:id/assign", ctrl.AssignIssue)
	g.PUT("/:id/resolve", ctrl.ResolveIssue)
	return r
}

func doJSON(r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, dto.APIResponse) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp dto.APIResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func sampleIssue() *models.Issue {
	return &models.Issue{ID: 42, Category: models.CategoryMissingMarks, Status: models.StatusPending, SubmittedBy: 5}
}

func validCreateBody() map[string]interface{} {
	return map[string]interface{}{
		"category":      "missing_marks",
		"title":         "Missing coursework mark",
		"description":   "CSC 1100 coursework not captured",
		"course_unit":   "CSC 1100",
		"semester":      "2",
		"year_of_study": 1,
	}
}

func TestCreateIssueEndpoint(t *testing.T) {
	svc := &stubIssueService{issue: sampleIssue()}
	r := newIssueRouter(svc, models.RoleStudent)

	w, resp := doJSON(r, http.MethodPost, "/issues", validCreateBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !resp.Success || resp.Error != nil {
		t.Errorf("envelope = %+v", resp)
	}
	if svc.lastActor == nil || svc.lastActor.ID != 5 || svc.lastActor.RoleType != models.RoleStudent {
		t.Errorf("actor = %+v", svc.lastActor)
	}
}

func TestCreateIssueBindingErrors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value interface{}
	}{
		{"unknown category", "category", "complaint"},
		{"blank title", "title", "    "},
		{"year out of range", "year_of_study", 9},
		{"missing semester", "semester", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubIssueService{issue: sampleIssue()}
			r := newIssueRouter(svc, models.RoleStudent)

			body := validCreateBody()
			body[tt.field] = tt.value
			w, resp := doJSON(r, http.MethodPost, "/issues", body)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if resp.Error == nil || resp.Error.Code != dto.ErrorCodeValidationFailed {
				t.Errorf("error = %+v", resp.Error)
			}
			if svc.lastActor != nil {
				t.Error("service must not be called for an invalid body")
			}
		})
	}
}

func TestServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"forbidden", apperrors.NewForbiddenError("only the assigned lecturer can resolve this issue"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{"issue not found", apperrors.ErrIssueNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"lecturer not found", apperrors.NewCustomError(apperrors.ErrLecturerNotFound, "lecturer 9 not found"), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"validation", apperrors.NewValidationError("lecturer_id", "user 3 is a student"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"already resolved", apperrors.ErrIssueAlreadyResolved, http.StatusConflict, dto.ErrorCodeInvalidTransition},
		{"internal", errors.New("connection refused"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubIssueService{err: tt.err}
			r := newIssueRouter(svc, models.RoleRegistrar)

			w, resp := doJSON(r, http.MethodPut, "/issues/42/assign", map[string]int64{"lecturer_id": 9})
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if resp.Success || resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("envelope = %+v", resp)
			}
			if tt.status == http.StatusInternalServerError && resp.Error.Message != "Internal server error" {
				t.Errorf("internal error leaked: %q", resp.Error.Message)
			}
		})
	}
}

func TestValidationErrorNamesField(t *testing.T) {
	svc := &stubIssueService{err: apperrors.NewValidationError("lecturer_id", "user 3 is a student")}
	r := newIssueRouter(svc, models.RoleRegistrar)

	_, resp := doJSON(r, http.MethodPut, "/issues/42/assign", map[string]int64{"lecturer_id": 3})
	if resp.Error == nil || resp.Error.Field != "lecturer_id" || resp.Error.Message != "user 3 is a student" {
		t.Errorf("error = %+v", resp.Error)
	}
}

func TestAssignPassesIDs(t *testing.T) {
	svc := &stubIssueService{issue: sampleIssue()}
	r := newIssueRouter(svc, models.RoleRegistrar)

	w, _ := doJSON(r, http.MethodPut, "/issues/42/assign", map[string]int64{"lecturer_id": 9})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if svc.lastIssueID != 42 || svc.lastLecturerID != 9 {
		t.Errorf("issueID = %d, lecturerID = %d", svc.lastIssueID, svc.lastLecturerID)
	}

	w, _ = doJSON(r, http.MethodPut, "/issues/42/assign", map[string]int64{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing lecturer_id: status = %d", w.Code)
	}
}

func TestInvalidIssueID(t *testing.T) {
	svc := &stubIssueService{issue: sampleIssue()}
	r := newIssueRouter(svc, models.RoleLecturer)

	for _, path := range []string{"/issues/abc/resolve", "/issues/0/resolve", "/issues/-3/resolve"} {
		w, _ := doJSON(r, http.MethodPut, path, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, w.Code)
		}
	}
	if svc.lastActor != nil {
		t.Error("service must not be called for an invalid id")
	}
}

func TestListIssuesStatusFilter(t *testing.T) {
	svc := &stubIssueService{issue: sampleIssue()}
	r := newIssueRouter(svc, models.RoleRegistrar)

	w, _ := doJSON(r, http.MethodGet, "/issues?status=in_progress", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if svc.status == nil || *svc.status != models.StatusInProgress {
		t.Errorf("status filter = %v", svc.status)
	}

	w, _ = doJSON(r, http.MethodGet, "/issues", nil)
	if w.Code != http.StatusOK || svc.status != nil {
		t.Errorf("no filter: code %d, status %v", w.Code, svc.status)
	}

	w, _ = doJSON(r, http.MethodGet, "/issues?status=closed", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown status: code %d", w.Code)
	}
}

func TestMissingIdentity(t *testing.T) {
	ctrl := NewIssueController(&stubIssueService{issue: sampleIssue()}, zerolog.Nop())
	r := gin.New()
	r.GET("/issues/stats", ctrl.GetIssueStats)

	w, _ := doJSON(r, http.MethodGet, "/issues/stats", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}
