package models

import "time"

// Notification is an append-only message addressed to a user
type Notification struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"userId" db:"user_id"`
	IssueID   *int64     `json:"issueId,omitempty" db:"issue_id"`
	Message   string     `json:"message" db:"message"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	ReadAt    *time.Time `json:"readAt,omitempty" db:"read_at"`
}
