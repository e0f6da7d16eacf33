package model

import "time"

// SessionStatus tracks a session through its lifecycle.
type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "PENDING"
	SessionStatusAccepted  SessionStatus = "ACCEPTED"
	SessionStatusCompleted SessionStatus = "COMPLETED"
)

// Valid reports whether s is a known status value.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionStatusPending, SessionStatusAccepted, SessionStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next follows the forward
// order PENDING -> ACCEPTED -> COMPLETED. Only consulted when strict
// transitions are enabled; the permissive default allows any change.
func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	switch s {
	case SessionStatusPending:
		return next == SessionStatusAccepted
	case SessionStatusAccepted:
		return next == SessionStatusCompleted
	default:
		return false
	}
}

// Session is a scheduled tutoring meeting tying together exactly one student,
// mentor, and classroom at a time interval.
type Session struct {
	ID          int           `json:"id"`
	ClassroomID int           `json:"classroom_id"`
	MentorID    int           `json:"mentor_id"`
	StudentID   int           `json:"student_id"`
	Topic       string        `json:"topic"`
	StartTime   time.Time     `json:"start_time"`
	EndTime     time.Time     `json:"end_time"`
	Status      SessionStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Populated on reads that join the referenced tables.
	Classroom *Classroom `json:"classroom,omitempty"`
	Mentor    *Mentor    `json:"mentor,omitempty"`
	Student   *Student   `json:"student,omitempty"`
}

// CreateSessionRequest is the payload for booking a session. Every reference
// is resolved against the store inside the creating transaction; a dangling
// ID fails the whole request.
type CreateSessionRequest struct {
	StudentID   int       `json:"student_id" binding:"required,min=1"`
	MentorID    int       `json:"mentor_id" binding:"required,min=1"`
	ClassroomID int       `json:"classroom_id" binding:"required,min=1"`
	Topic       string    `json:"topic" binding:"required,min=1,max=255"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
}
