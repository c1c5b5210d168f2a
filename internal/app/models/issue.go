package models

import (
	"time"
)

// IssueCategory is the kind of academic issue a student raises
type IssueCategory string

const (
	CategoryMissingMarks IssueCategory = "missing_marks"
	CategoryAppeal       IssueCategory = "appeal"
	CategoryCorrection   IssueCategory = "correction"
	CategoryOther        IssueCategory = "other"
)

// Valid reports whether c is a known category
func (c IssueCategory) Valid() bool {
	switch c {
	case CategoryMissingMarks, CategoryAppeal, CategoryCorrection, CategoryOther:
		return true
	}
	return false
}

// IssueStatus is the lifecycle state of an issue
type IssueStatus string

const (
	StatusPending    IssueStatus = "pending"
	StatusInProgress IssueStatus = "in_progress"
	StatusResolved   IssueStatus = "resolved"
)

// Valid reports whether s is a known status
func (s IssueStatus) Valid() bool {
	_, ok := issueTransitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s
func (s IssueStatus) IsTerminal() bool {
	return len(issueTransitions[s]) == 0
}

// issueTransitions holds the permitted lifecycle moves.
// in_progress -> in_progress is a re-assignment.
var issueTransitions = map[IssueStatus]map[IssueStatus]struct{}{
	StatusPending: {
		StatusInProgress: {},
	},
	StatusInProgress: {
		StatusInProgress: {},
		StatusResolved:   {},
	},
	StatusResolved: {},
}

// CanTransition checks if a status transition is allowed
func CanTransition(from, to IssueStatus) bool {
	next, ok := issueTransitions[from]
	if !ok {
		return false
	}
	_, ok = next[to]
	return ok
}

// Issue defines the issue model based on the 'issues' table
type Issue struct {
	ID          int64         `json:"issue_id" db:"id" example:"42"`
	Category    IssueCategory `json:"category" db:"category" example:"appeal"`
	Status      IssueStatus   `json:"status" db:"status" example:"pending"`
	Title       string        `json:"title" db:"title" example:"Missing coursework mark"`
	Description string        `json:"description" db:"description"`
	CourseUnit  string        `json:"course_unit" db:"course_unit" example:"CSC 2100"`
	Semester    string        `json:"semester" db:"semester" example:"1"`
	YearOfStudy int           `json:"year_of_study" db:"year_of_study" example:"2"`
	Attachment  *string       `json:"attachment,omitempty" db:"attachment"`
	SubmittedBy int64         `json:"submitted_by" db:"submitted_by"`
	AssignedTo  *int64        `json:"assigned_to" db:"assigned_to"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`
	ResolvedAt  *time.Time    `json:"resolved_at" db:"resolved_at"`

	// Populated by joins on read, no db column
	StudentName    string `json:"student_name,omitempty"`
	RegistrationNo string `json:"registration_no,omitempty"`
	LecturerName   string `json:"lecturer_name,omitempty"`
}

// IsAssignedTo reports whether the issue's current assignee is userID
func (i *Issue) IsAssignedTo(userID int64) bool {
	return i.AssignedTo != nil && *i.AssignedTo == userID
}

// IssueStats holds aggregate counts over the issues visible to a user
type IssueStats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
}

// IssueFilter narrows issue listings and counts. Nil fields are unconstrained.
type IssueFilter struct {
	Status      *IssueStatus
	SubmittedBy *int64
	AssignedTo  *int64
}
