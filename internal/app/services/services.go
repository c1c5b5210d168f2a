package services

import (
	"context"
	"time"

	"github.com/yigit/aits/internal/app/models"
)

// Services defined in this package:
// - IssueService: issue lifecycle (create, assign, resolve) and read views
// - AuthService: registration, login and profile lookup
// - NotificationService: persisted, mailed and pushed notifications
// - UserService: lecturer directory for registrars

// UserDirectory looks users up by id. Unknown ids yield apperrors.ErrUserNotFound.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// Notifier delivers a message to a user. Callers treat delivery as best effort.
type Notifier interface {
	Notify(ctx context.Context, userID int64, issueID *int64, message string) error
}

// IssueStore persists issues. UpdateIssue must run mutate against the locked
// current row and persist the result atomically, or persist nothing when
// mutate fails.
type IssueStore interface {
	CreateIssue(ctx context.Context, issue *models.Issue) error
	GetIssueByID(ctx context.Context, id int64) (*models.Issue, error)
	UpdateIssue(ctx context.Context, id int64, mutate func(*models.Issue) error) (*models.Issue, error)
	ListIssues(ctx context.Context, filter models.IssueFilter) ([]models.Issue, error)
	CountIssues(ctx context.Context, filter models.IssueFilter) (models.IssueStats, error)
}

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

// DefaultDispatchTimeout bounds a single notification dispatch when none is configured
const DefaultDispatchTimeout = 5 * time.Second
