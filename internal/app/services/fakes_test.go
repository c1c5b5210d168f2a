package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/yigit/aits/internal/app/models"
	"github.com/yigit/aits/internal/pkg/apperrors"
)

// memIssueStore is an in-memory IssueStore. UpdateIssue mutates a copy and
// only stores it when mutate succeeds, like a rolled back transaction.
type memIssueStore struct {
	mu     sync.Mutex
	nextID int64
	issues map[int64]models.Issue
	// fills the read-only join fields on returned issues, like the SQL projection
	project func(*models.Issue)
	// fails GetIssueByID when set
	getErr error
}

func newMemIssueStore() *memIssueStore {
	return &memIssueStore{issues: make(map[int64]models.Issue)}
}

func (m *memIssueStore) CreateIssue(_ context.Context, issue *models.Issue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	issue.ID = m.nextID
	m.issues[issue.ID] = *issue
	return nil
}

func (m *memIssueStore) GetIssueByID(_ context.Context, id int64) (*models.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	issue, ok := m.issues[id]
	if !ok {
		return nil, apperrors.ErrIssueNotFound
	}
	if m.project != nil {
		m.project(&issue)
	}
	return &issue, nil
}

func (m *memIssueStore) UpdateIssue(_ context.Context, id int64, mutate func(*models.Issue) error) (*models.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	issue, ok := m.issues[id]
	if !ok {
		return nil, apperrors.ErrIssueNotFound
	}
	if issue.AssignedTo != nil {
		v := *issue.AssignedTo
		issue.AssignedTo = &v
	}
	if err := mutate(&issue); err != nil {
		return nil, err
	}
	m.issues[id] = issue
	out := issue
	if m.project != nil {
		m.project(&out)
	}
	return &out, nil
}

func (m *memIssueStore) ListIssues(_ context.Context, f models.IssueFilter) ([]models.Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Issue, 0)
	for _, issue := range m.issues {
		if matches(issue, f) {
			out = append(out, issue)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memIssueStore) CountIssues(ctx context.Context, f models.IssueFilter) (models.IssueStats, error) {
	issues, _ := m.ListIssues(ctx, f)
	var s models.IssueStats
	for _, issue := range issues {
		s.Total++
		switch issue.Status {
		case models.StatusPending:
			s.Pending++
		case models.StatusInProgress:
			s.InProgress++
		case models.StatusResolved:
			s.Resolved++
		}
	}
	return s, nil
}

func matches(issue models.Issue, f models.IssueFilter) bool {
	if f.Status != nil && issue.Status != *f.Status {
		return false
	}
	if f.SubmittedBy != nil && issue.SubmittedBy != *f.SubmittedBy {
		return false
	}
	if f.AssignedTo != nil && !issue.IsAssignedTo(*f.AssignedTo) {
		return false
	}
	return true
}

type memDirectory map[int64]*models.User

func (d memDirectory) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := d[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

type sentNotification struct {
	userID  int64
	issueID *int64
	message string
}

// recordingNotifier records every Notify call and fails when err is set
type recordingNotifier struct {
	mu    sync.Mutex
	sent  []sentNotification
	err   error
	panic bool
	// deadline observed on the last call
	hadDeadline bool
}

func (r *recordingNotifier) Notify(ctx context.Context, userID int64, issueID *int64, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, r.hadDeadline = ctx.Deadline()
	r.sent = append(r.sent, sentNotification{userID, issueID, message})
	if r.panic {
		panic("notifier exploded")
	}
	return r.err
}

func (r *recordingNotifier) recipients() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, len(r.sent))
	for i, s := range r.sent {
		ids[i] = s.userID
	}
	return ids
}

var errNotifierDown = errors.New("smtp down")

// fixedClock returns t, moving it forward by tick after every read
type fixedClock struct {
	mu   sync.Mutex
	t    time.Time
	tick time.Duration
}

func (c *fixedClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.t
	c.t = c.t.Add(c.tick)
	return now
}

func (c *fixedClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
