package dto

import "github.com/yigit/aits/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// RegisterRequest represents a user registration request.
// Which profile fields are required depends on RoleType.
type RegisterRequest struct {
	Username       string          `json:"username" binding:"required,min=3,max=50"`
	Email          string          `json:"email" binding:"required,email"`
	Password       string          `json:"password" binding:"required,min=8"`
	FirstName      string          `json:"firstName" binding:"required"`
	LastName       string          `json:"lastName" binding:"required"`
	RoleType       models.RoleType `json:"roleType" binding:"required,oneof=student lecturer registrar"`
	RegistrationNo string          `json:"registrationNo,omitempty"`
	StudentNo      string          `json:"studentNo,omitempty"`
	Programme      string          `json:"programme,omitempty"`
	Department     string          `json:"department,omitempty"`
	College        string          `json:"college,omitempty"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Role           string `json:"role"`
	RegistrationNo string `json:"registrationNo,omitempty"`
	StudentNo      string `json:"studentNo,omitempty"`
	Programme      string `json:"programme,omitempty"`
	Department     string `json:"department,omitempty"`
	College        string `json:"college,omitempty"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// NewUserResponse flattens a user and whichever profile it owns
func NewUserResponse(u *models.User, profile models.Profile) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.RoleType.String(),
	}
	if p := profile.Student; p != nil {
		resp.RegistrationNo = p.RegistrationNo
		resp.StudentNo = p.StudentNo
		resp.Programme = p.Programme
	}
	if p := profile.Lecturer; p != nil {
		resp.Department = p.Department
	}
	if p := profile.Registrar; p != nil {
		resp.College = p.College
	}
	return resp
}
