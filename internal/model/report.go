package model

import "time"

// Audit is a flattened read-only projection of a session plus participant
// details and the mentor's fee. Computed on read, never stored.
type Audit struct {
	SessionID          int           `json:"session_id"`
	StudentID          int           `json:"student_id"`
	StudentFirstName   string        `json:"student_first_name"`
	StudentLastName    string        `json:"student_last_name"`
	StudentEmail       string        `json:"student_email"`
	StudentPhoneNumber string        `json:"student_phone_number"`
	ClassTitle         string        `json:"class_title"`
	MentorID           int           `json:"mentor_id"`
	MentorFirstName    string        `json:"mentor_first_name"`
	MentorLastName     string        `json:"mentor_last_name"`
	MentorPhoneNumber  string        `json:"mentor_phone_number"`
	Fee                float64       `json:"fee"`
	StartTime          time.Time     `json:"start_time"`
	EndTime            time.Time     `json:"end_time"`
	Topic              string        `json:"topic"`
	Status             SessionStatus `json:"status"`
}

// Payment is a per-mentor aggregate of fees over a queried time window.
// The total uses the mentor's fee at query time, not a fee frozen when each
// session was created.
type Payment struct {
	MentorID   int     `json:"mentor_id"`
	MentorName string  `json:"mentor_name"`
	TotalFee   float64 `json:"total_fee"`
}
