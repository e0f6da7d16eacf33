package model

import "time"

// Classroom is a subject-scoped grouping a mentor teaches, not a physical
// room. MentorID is a nullable back-reference; the assignment logic keeps it
// consistent with the mentor side within one transaction.
type Classroom struct {
	ID                   int       `json:"id"`
	Title                string    `json:"title"`
	EnrolledStudentCount int       `json:"enrolled_student_count"`
	ClassImage           string    `json:"class_image"`
	MentorID             *int      `json:"mentor_id"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	// Mentor is populated on reads that join the mentors table. Nil when the
	// classroom is unassigned.
	Mentor *Mentor `json:"mentor,omitempty"`
}

// ClassroomFilter narrows classroom listings. Nil fields are ignored.
// MentorName matches a case-insensitive substring of the assigned mentor's
// first or last name; Title is an exact match.
type ClassroomFilter struct {
	Title      *string
	MentorName *string
	MinCount   *int
	MaxCount   *int
}
