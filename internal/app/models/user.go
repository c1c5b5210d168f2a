package models

import (
	"time"
)

// User defines the user model based on the 'users' table.
// RoleType is written once at registration and never updated.
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Username  string    `json:"username" db:"username" example:"jdoe"`
	Email     string    `json:"email" db:"email" example:"jdoe@students.mak.ac.ug"`
	Password  string    `json:"-" db:"password"`
	FirstName string    `json:"firstName" db:"first_name" example:"John"`
	LastName  string    `json:"lastName" db:"last_name" example:"Doe"`
	RoleType  RoleType  `json:"roleType" db:"role_type" example:"student"`
	IsActive  bool      `json:"isActive" db:"is_active" example:"true"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"`
}

// FullName returns "First Last", falling back to the username
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.LastName == "" {
		return u.FirstName
	}
	if u.FirstName == "" {
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}

// HasRole reports whether the user carries the given role
func (u *User) HasRole(role RoleType) bool {
	return u != nil && u.RoleType == role
}

// StudentProfile defines the student model based on the 'student_profiles' table
type StudentProfile struct {
	ID             int64  `json:"id" db:"id"`
	UserID         int64  `json:"userId" db:"user_id"`
	RegistrationNo string `json:"registrationNo" db:"registration_no" example:"21/U/1234"`
	StudentNo      string `json:"studentNo" db:"student_no" example:"2100701234"`
	Programme      string `json:"programme" db:"programme" example:"BSc Computer Science"`
}

// LecturerProfile defines the lecturer model based on the 'lecturer_profiles' table
type LecturerProfile struct {
	ID         int64  `json:"id" db:"id"`
	UserID     int64  `json:"userId" db:"user_id"`
	Department string `json:"department" db:"department" example:"Computer Science"`
}

// RegistrarProfile defines the registrar model based on the 'registrar_profiles' table
type RegistrarProfile struct {
	ID      int64  `json:"id" db:"id"`
	UserID  int64  `json:"userId" db:"user_id"`
	College string `json:"college" db:"college" example:"CoCIS"`
}

// Profile holds the role-specific profile of a user. At most one field is set,
// matching the user's role.
type Profile struct {
	Student   *StudentProfile   `json:"student,omitempty"`
	Lecturer  *LecturerProfile  `json:"lecturer,omitempty"`
	Registrar *RegistrarProfile `json:"registrar,omitempty"`
}
