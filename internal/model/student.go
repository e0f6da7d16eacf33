package model

import "time"

// Student represents a tutored student. ClerkStudentID ties the row to the
// externally authenticated principal and is unique and immutable after creation.
type Student struct {
	ID             int       `json:"id"`
	ClerkStudentID string    `json:"clerk_student_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phone_number"`
	Address        string    `json:"address"`
	Age            int       `json:"age"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateStudentRequest is the payload for creating a new student.
// Creation is idempotent per clerk ID: posting the same clerk ID twice
// returns the already stored record.
type CreateStudentRequest struct {
	ClerkStudentID string `json:"clerk_student_id" binding:"required,min=1,max=64"`
	FirstName      string `json:"first_name" binding:"required,min=1,max=100"`
	LastName       string `json:"last_name" binding:"required,min=1,max=100"`
	Email          string `json:"email" binding:"required,email"`
	PhoneNumber    string `json:"phone_number" binding:"required,min=4,max=32"`
	Address        string `json:"address" binding:"required,min=1,max=255"`
	Age            int    `json:"age" binding:"required,min=18"`
}

// UpdateStudentRequest is the payload for overwriting a student's mutable
// fields. The clerk ID is identity and cannot be changed.
type UpdateStudentRequest struct {
	FirstName   string `json:"first_name" binding:"required,min=1,max=100"`
	LastName    string `json:"last_name" binding:"required,min=1,max=100"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phone_number" binding:"required,min=4,max=32"`
	Address     string `json:"address" binding:"required,min=1,max=255"`
	Age         int    `json:"age" binding:"required,min=18"`
}

// StudentFilter narrows student listings. Nil fields are ignored.
type StudentFilter struct {
	Address   *string
	Age       *int
	FirstName *string
}
