package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mbpt/peertutor-backend/internal/model"
)

// ErrClassroomMissing is returned when a classroom referenced during mentor
// assignment does not exist. The wrapping error message carries the ID.
var ErrClassroomMissing = errors.New("classroom not found")

const mentorColumns = `id, clerk_mentor_id, first_name, last_name, email, phone_number, address,
	title, session_fee, profession, subject, qualification, mentor_image,
	is_certified, positive_reviews, created_at, updated_at`

// MentorRepository handles mentor data access.
type MentorRepository struct {
	pool *pgxpool.Pool
}

// NewMentorRepository creates a new MentorRepository.
func NewMentorRepository(pool *pgxpool.Pool) *MentorRepository {
	return &MentorRepository{pool: pool}
}

func scanMentor(row interface{ Scan(dest ...any) error }) (*model.Mentor, error) {
	m := &model.Mentor{}
	err := row.Scan(&m.ID, &m.ClerkMentorID, &m.FirstName, &m.LastName, &m.Email,
		&m.PhoneNumber, &m.Address, &m.Title, &m.SessionFee, &m.Profession,
		&m.Subject, &m.Qualification, &m.MentorImage, &m.IsCertified,
		&m.PositiveReviews, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// GetByID retrieves a mentor by internal ID.
func (r *MentorRepository) GetByID(ctx context.Context, id int) (*model.Mentor, error) {
	return scanMentor(r.pool.QueryRow(ctx,
		`SELECT `+mentorColumns+` FROM mentors WHERE id = $1`, id))
}

// GetByClerkID retrieves a mentor by clerk ID.
func (r *MentorRepository) GetByClerkID(ctx context.Context, clerkID string) (*model.Mentor, error) {
	return scanMentor(r.pool.QueryRow(ctx,
		`SELECT `+mentorColumns+` FROM mentors WHERE clerk_mentor_id = $1`, clerkID))
}

// CreateWithClassrooms inserts a mentor and assigns it to every classroom in
// classroomIDs, all inside one transaction. Any missing classroom rolls the
// whole creation back with ErrClassroomMissing.
func (r *MentorRepository) CreateWithClassrooms(ctx context.Context, m *model.Mentor, classroomIDs []int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO mentors (clerk_mentor_id, first_name, last_name, email, phone_number, address,
		        title, session_fee, profession, subject, qualification, mentor_image,
		        is_certified, positive_reviews)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id, created_at, updated_at`,
		m.ClerkMentorID, m.FirstName, m.LastName, m.Email, m.PhoneNumber, m.Address,
		m.Title, m.SessionFee, m.Profession, m.Subject, m.Qualification, m.MentorImage,
		m.IsCertified, m.PositiveReviews,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return err
	}

	for _, classroomID := range classroomIDs {
		tag, err := tx.Exec(ctx,
			`UPDATE classrooms SET mentor_id = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
			m.ID, classroomID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: ID %d", ErrClassroomMissing, classroomID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	m.ClassroomIDs = classroomIDs
	return nil
}

// List retrieves mentors matching the filter, each with its classroom IDs.
func (r *MentorRepository) List(ctx context.Context, filter model.MentorFilter) ([]model.Mentor, error) {
	query := `SELECT DISTINCT ` + prefixColumns("m", mentorColumns) + ` FROM mentors m
		LEFT JOIN classrooms c ON c.mentor_id = m.id WHERE 1=1`
	var args []interface{}
	argIdx := 1

	if filter.Name != nil {
		query += ` AND (m.first_name ILIKE '%' || $` + strconv.Itoa(argIdx) + ` || '%'` +
			` OR m.last_name ILIKE '%' || $` + strconv.Itoa(argIdx) + ` || '%')`
		args = append(args, *filter.Name)
		argIdx++
	}
	if filter.Classroom != nil {
		query += ` AND c.title = $` + strconv.Itoa(argIdx)
		args = append(args, *filter.Classroom)
		argIdx++
	}
	if filter.Profession != nil {
		query += ` AND m.profession = $` + strconv.Itoa(argIdx)
		args = append(args, *filter.Profession)
		argIdx++
	}
	if filter.IsCertified != nil {
		query += ` AND m.is_certified = $` + strconv.Itoa(argIdx)
		args = append(args, *filter.IsCertified)
		argIdx++
	}
	query += ` ORDER BY m.id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mentors := []model.Mentor{}
	for rows.Next() {
		m, err := scanMentor(rows)
		if err != nil {
			return nil, err
		}
		mentors = append(mentors, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range mentors {
		ids, err := r.classroomIDs(ctx, mentors[i].ID)
		if err != nil {
			return nil, err
		}
		mentors[i].ClassroomIDs = ids
	}
	return mentors, nil
}

func (r *MentorRepository) classroomIDs(ctx context.Context, mentorID int) ([]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM classrooms WHERE mentor_id = $1 ORDER BY id`, mentorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetProfileStats returns, for each classroom owned by the mentor, the number
// of sessions whose classroom AND mentor both match. The double match defends
// against stale cross-links between the two tables.
func (r *MentorRepository) GetProfileStats(ctx context.Context, mentorID int) ([]model.MentorClassStat, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.title,
		        (SELECT COUNT(*) FROM sessions s
		          WHERE s.classroom_id = c.id AND s.mentor_id = $1)
		 FROM classrooms c
		 WHERE c.mentor_id = $1
		 ORDER BY c.id`, mentorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []model.MentorClassStat{}
	for rows.Next() {
		var st model.MentorClassStat
		if err := rows.Scan(&st.ClassroomTitle, &st.SessionCount); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// Update overwrites every mutable mentor field. The review counter is
// server-owned and left untouched.
func (r *MentorRepository) Update(ctx context.Context, m *model.Mentor) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE mentors SET clerk_mentor_id = $1, first_name = $2, last_name = $3, email = $4,
		        phone_number = $5, address = $6, title = $7, session_fee = $8, profession = $9,
		        subject = $10, qualification = $11, mentor_image = $12, is_certified = $13,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = $14`,
		m.ClerkMentorID, m.FirstName, m.LastName, m.Email, m.PhoneNumber, m.Address,
		m.Title, m.SessionFee, m.Profession, m.Subject, m.Qualification, m.MentorImage,
		m.IsCertified, m.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteByClerkID removes a mentor and returns the removed record. Classroom
// back-references are cleared by the ON DELETE SET NULL constraint.
func (r *MentorRepository) DeleteByClerkID(ctx context.Context, clerkID string) (*model.Mentor, error) {
	return scanMentor(r.pool.QueryRow(ctx,
		`DELETE FROM mentors WHERE clerk_mentor_id = $1 RETURNING `+mentorColumns, clerkID))
}
