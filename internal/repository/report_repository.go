package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mbpt/peertutor-backend/internal/model"
)

// ErrBrokenRelation signals a session whose student, mentor, or classroom row
// is unexpectedly absent during audit projection. This is a data-integrity
// failure, not a normal not-found.
var ErrBrokenRelation = errors.New("session references a missing record")

// ReportRepository runs the read-only aggregation queries behind audits and
// mentor payments.
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// ListAudits projects every stored session onto its flat audit form. The
// joins are LEFT so a dangling reference is detected instead of silently
// dropping the row.
func (r *ReportRepository) ListAudits(ctx context.Context) ([]model.Audit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.topic, s.start_time, s.end_time, s.status,
		        st.id, st.first_name, st.last_name, st.email, st.phone_number,
		        m.id, m.first_name, m.last_name, m.phone_number, m.session_fee,
		        c.title
		 FROM sessions s
		 LEFT JOIN students st ON st.id = s.student_id
		 LEFT JOIN mentors m ON m.id = s.mentor_id
		 LEFT JOIN classrooms c ON c.id = s.classroom_id
		 ORDER BY s.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	audits := []model.Audit{}
	for rows.Next() {
		var (
			a          model.Audit
			studentID  *int
			studentFN  *string
			studentLN  *string
			studentEm  *string
			studentPh  *string
			mentorID   *int
			mentorFN   *string
			mentorLN   *string
			mentorPh   *string
			fee        *float64
			classTitle *string
		)
		if err := rows.Scan(&a.SessionID, &a.Topic, &a.StartTime, &a.EndTime, &a.Status,
			&studentID, &studentFN, &studentLN, &studentEm, &studentPh,
			&mentorID, &mentorFN, &mentorLN, &mentorPh, &fee,
			&classTitle); err != nil {
			return nil, err
		}
		if studentID == nil || mentorID == nil || classTitle == nil {
			return nil, fmt.Errorf("%w: session ID %d", ErrBrokenRelation, a.SessionID)
		}
		a.StudentID = *studentID
		a.StudentFirstName = *studentFN
		a.StudentLastName = *studentLN
		a.StudentEmail = *studentEm
		a.StudentPhoneNumber = *studentPh
		a.MentorID = *mentorID
		a.MentorFirstName = *mentorFN
		a.MentorLastName = *mentorLN
		a.MentorPhoneNumber = *mentorPh
		a.Fee = *fee
		a.ClassTitle = *classTitle
		audits = append(audits, a)
	}
	return audits, rows.Err()
}

// FindMentorPayments sums, per mentor, the mentor's current session fee over
// sessions whose start time falls inside the inclusive window. Mentors with
// no sessions in the window are absent from the result.
func (r *ReportRepository) FindMentorPayments(ctx context.Context, start, end time.Time) ([]model.Payment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT m.id, m.first_name || ' ' || m.last_name, SUM(m.session_fee)
		 FROM sessions s
		 JOIN mentors m ON m.id = s.mentor_id
		 WHERE s.start_time BETWEEN $1 AND $2
		 GROUP BY m.id, m.first_name, m.last_name
		 ORDER BY m.id`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []model.Payment{}
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.MentorID, &p.MentorName, &p.TotalFee); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
