package dto

import (
	"github.com/yigit/aits/internal/app/models"
)

// CreateIssueRequest is the body of POST /issues
type CreateIssueRequest struct {
	Category    models.IssueCategory `json:"category" binding:"required,oneof=missing_marks appeal correction other"`
	Title       string               `json:"title" binding:"required,notblank,max=200"`
	Description string               `json:"description" binding:"required,notblank"`
	CourseUnit  string               `json:"course_unit" binding:"required,notblank,max=100"`
	Semester    string               `json:"semester" binding:"required,notblank,max=20"`
	YearOfStudy int                  `json:"year_of_study" binding:"required,min=1,max=7"`
	Attachment  *string              `json:"attachment,omitempty" binding:"omitempty,max=255"`
}

// AssignIssueRequest is the body of PUT /issues/:id/assign
type AssignIssueRequest struct {
	LecturerID int64 `json:"lecturer_id" binding:"required,min=1" example:"7"`
}

// IssueListQuery holds the query parameters of GET /issues
type IssueListQuery struct {
	Status models.IssueStatus `form:"status" binding:"omitempty,oneof=pending in_progress resolved"`
}

// IssueListResponse wraps a list of issues
type IssueListResponse struct {
	Issues []models.Issue `json:"issues"`
	Total  int            `json:"total"`
}

// LecturerResponse is one entry of the lecturer directory
type LecturerResponse struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// NotificationListResponse wraps a user's notifications
type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	Unread        int                   `json:"unread"`
}
