package model

import "time"

// AdminRole distinguishes full administrators from moderators.
type AdminRole string

const (
	RoleAdmin     AdminRole = "ADMIN"
	RoleModerator AdminRole = "MODERATOR"
)

// Admin is a back-office user with a locally stored credential.
type Admin struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         AdminRole `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AdminLoginRequest is the payload for admin authentication.
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// AdminLoginResponse is returned after successful admin login.
type AdminLoginResponse struct {
	Token string `json:"token"`
	Admin Admin  `json:"admin"`
}

// StudentLoginRequest exchanges a clerk ID and email pair for a student token.
type StudentLoginRequest struct {
	ClerkStudentID string `json:"clerk_student_id" binding:"required,min=1,max=64"`
	Email          string `json:"email" binding:"required,email"`
}

// StudentLoginResponse is returned after successful student login.
type StudentLoginResponse struct {
	Token   string  `json:"token"`
	Student Student `json:"student"`
}
