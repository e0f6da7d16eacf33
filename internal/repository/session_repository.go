package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mbpt/peertutor-backend/internal/model"
)

// Reference resolution errors raised while creating a session. Each wraps the
// offending identifier in its message.
var (
	ErrStudentMissing          = errors.New("student not found")
	ErrMentorMissing           = errors.New("mentor not found")
	ErrSessionClassroomMissing = errors.New("classroom not found")
)

const sessionColumns = `id, classroom_id, mentor_id, student_id, topic, start_time, end_time, status, created_at, updated_at`

// SessionRepository handles session data access.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func scanSession(row interface{ Scan(dest ...any) error }) (*model.Session, error) {
	s := &model.Session{}
	err := row.Scan(&s.ID, &s.ClassroomID, &s.MentorID, &s.StudentID, &s.Topic,
		&s.StartTime, &s.EndTime, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a session after resolving every foreign reference inside the
// same transaction. A dangling student, mentor, or classroom ID fails the
// whole insert with the matching sentinel error.
func (r *SessionRepository) Create(ctx context.Context, s *model.Session) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE id = $1)`, s.StudentID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: ID %d", ErrStudentMissing, s.StudentID)
	}
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM mentors WHERE id = $1)`, s.MentorID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: ID %d", ErrMentorMissing, s.MentorID)
	}
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM classrooms WHERE id = $1)`, s.ClassroomID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: ID %d", ErrSessionClassroomMissing, s.ClassroomID)
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO sessions (classroom_id, mentor_id, student_id, topic, start_time, end_time, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		s.ClassroomID, s.MentorID, s.StudentID, s.Topic, s.StartTime, s.EndTime, s.Status,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetByID retrieves a session with its participants joined.
func (r *SessionRepository) GetByID(ctx context.Context, id int) (*model.Session, error) {
	s, err := scanSession(r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.attachRelations(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SessionRepository) attachRelations(ctx context.Context, s *model.Session) error {
	classroom, err := scanClassroom(r.pool.QueryRow(ctx,
		`SELECT `+classroomColumns+` FROM classrooms WHERE id = $1`, s.ClassroomID))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	s.Classroom = classroom

	mentor, err := scanMentor(r.pool.QueryRow(ctx,
		`SELECT `+mentorColumns+` FROM mentors WHERE id = $1`, s.MentorID))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	s.Mentor = mentor

	student, err := scanStudent(r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, s.StudentID))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	s.Student = student
	return nil
}

// List retrieves all sessions with participants joined.
func (r *SessionRepository) List(ctx context.Context) ([]model.Session, error) {
	return r.list(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY start_time`)
}

// ListByStudentClerkID retrieves the sessions of the student with the given
// clerk ID via a join, not a full scan.
func (r *SessionRepository) ListByStudentClerkID(ctx context.Context, clerkID string) ([]model.Session, error) {
	return r.list(ctx,
		`SELECT `+prefixColumns("s", sessionColumns)+` FROM sessions s
		 JOIN students st ON st.id = s.student_id
		 WHERE st.clerk_student_id = $1
		 ORDER BY s.start_time`, clerkID)
}

func (r *SessionRepository) list(ctx context.Context, query string, args ...interface{}) ([]model.Session, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []model.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sessions {
		if err := r.attachRelations(ctx, &sessions[i]); err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

// UpdateStatus sets a session's status and returns the updated record.
func (r *SessionRepository) UpdateStatus(ctx context.Context, id int, status model.SessionStatus) (*model.Session, error) {
	s, err := scanSession(r.pool.QueryRow(ctx,
		`UPDATE sessions SET status = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2
		 RETURNING `+sessionColumns, status, id))
	if err != nil {
		return nil, err
	}
	if err := r.attachRelations(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
