package model

import "time"

// MentorTitle is the honorific shown in front of a mentor's name.
type MentorTitle string

const (
	TitleMr   MentorTitle = "Mr."
	TitleMrs  MentorTitle = "Mrs."
	TitleMiss MentorTitle = "Miss."
	TitleMs   MentorTitle = "Ms."
	TitleDr   MentorTitle = "Dr."
	TitleProf MentorTitle = "Prof."
)

// Mentor represents a tutor. A mentor owns zero or more classrooms and is
// referenced by sessions. SessionFee is the fee charged per held session.
type Mentor struct {
	ID              int         `json:"id"`
	ClerkMentorID   *string     `json:"clerk_mentor_id"`
	FirstName       string      `json:"first_name"`
	LastName        string      `json:"last_name"`
	Email           string      `json:"email"`
	PhoneNumber     string      `json:"phone_number"`
	Address         string      `json:"address"`
	Title           MentorTitle `json:"title"`
	SessionFee      float64     `json:"session_fee"`
	Profession      string      `json:"profession"`
	Subject         string      `json:"subject"`
	Qualification   string      `json:"qualification"`
	MentorImage     string      `json:"mentor_image"`
	IsCertified     bool        `json:"is_certified"`
	PositiveReviews int         `json:"positive_reviews"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	// ClassroomIDs lists the classrooms currently assigned to this mentor.
	// Populated on reads that join the classrooms table.
	ClassroomIDs []int `json:"classroom_ids,omitempty"`
}

// CreateMentorRequest is the multipart form payload for creating a mentor.
// The image file travels alongside these fields; ClassroomIDs must reference
// existing classrooms and is required non-empty.
type CreateMentorRequest struct {
	ClerkMentorID *string     `form:"clerk_mentor_id" binding:"omitempty,min=1,max=64"`
	FirstName     string      `form:"first_name" binding:"required,min=1,max=100"`
	LastName      string      `form:"last_name" binding:"required,min=1,max=100"`
	Email         string      `form:"email" binding:"required,email"`
	PhoneNumber   string      `form:"phone_number" binding:"required,min=4,max=32"`
	Address       string      `form:"address" binding:"required,min=1,max=255"`
	Title         MentorTitle `form:"title" binding:"required,oneof=Mr. Mrs. Miss. Ms. Dr. Prof."`
	SessionFee    float64     `form:"session_fee" binding:"min=0"`
	Profession    string      `form:"profession" binding:"required,min=1,max=100"`
	Subject       string      `form:"subject" binding:"required,min=1,max=100"`
	Qualification string      `form:"qualification" binding:"required,min=1,max=255"`
	ClassroomIDs  []int       `form:"classroom_ids" binding:"required,min=1,dive,min=1"`
}

// UpdateMentorRequest overwrites every mutable mentor field. The review
// counter is server-owned and absent here.
type UpdateMentorRequest struct {
	ClerkMentorID *string     `json:"clerk_mentor_id" binding:"omitempty,min=1,max=64"`
	FirstName     string      `json:"first_name" binding:"required,min=1,max=100"`
	LastName      string      `json:"last_name" binding:"required,min=1,max=100"`
	Email         string      `json:"email" binding:"required,email"`
	PhoneNumber   string      `json:"phone_number" binding:"required,min=4,max=32"`
	Address       string      `json:"address" binding:"required,min=1,max=255"`
	Title         MentorTitle `json:"title" binding:"required,oneof=Mr. Mrs. Miss. Ms. Dr. Prof."`
	SessionFee    float64     `json:"session_fee" binding:"min=0"`
	Profession    string      `json:"profession" binding:"required,min=1,max=100"`
	Subject       string      `json:"subject" binding:"required,min=1,max=100"`
	Qualification string      `json:"qualification" binding:"required,min=1,max=255"`
	MentorImage   string      `json:"mentor_image" binding:"omitempty,url"`
	IsCertified   bool        `json:"is_certified"`
}

// MentorFilter narrows mentor listings. Nil fields are ignored.
// Name matches a case-insensitive substring of first or last name.
type MentorFilter struct {
	Name        *string
	Classroom   *string
	Profession  *string
	IsCertified *bool
}

// MentorClassStat pairs a classroom title with the number of sessions the
// mentor held in it.
type MentorClassStat struct {
	ClassroomTitle string `json:"classroom_title"`
	SessionCount   int    `json:"session_count"`
}

// MentorProfile is the mentor plus per-classroom session counts.
type MentorProfile struct {
	Mentor     Mentor            `json:"mentor"`
	Classrooms []MentorClassStat `json:"classrooms"`
}
