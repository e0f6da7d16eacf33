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

// ErrLastMentorClassroom signals an attempt to delete the only classroom of
// an assigned mentor. The mentor (or its other classrooms) must be dealt with
// first.
var ErrLastMentorClassroom = errors.New("classroom is its mentor's only classroom")

const classroomColumns = `id, title, enrolled_student_count, class_image, mentor_id, created_at, updated_at`

// ClassroomRepository handles classroom data access.
type ClassroomRepository struct {
	pool *pgxpool.Pool
}

// NewClassroomRepository creates a new ClassroomRepository.
func NewClassroomRepository(pool *pgxpool.Pool) *ClassroomRepository {
	return &ClassroomRepository{pool: pool}
}

func scanClassroom(row interface{ Scan(dest ...any) error }) (*model.Classroom, error) {
	c := &model.Classroom{}
	err := row.Scan(&c.ID, &c.Title, &c.EnrolledStudentCount, &c.ClassImage,
		&c.MentorID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID retrieves a classroom with its assigned mentor, if any.
func (r *ClassroomRepository) GetByID(ctx context.Context, id int) (*model.Classroom, error) {
	c, err := scanClassroom(r.pool.QueryRow(ctx,
		`SELECT `+classroomColumns+` FROM classrooms WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.attachMentor(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ClassroomRepository) attachMentor(ctx context.Context, c *model.Classroom) error {
	if c.MentorID == nil {
		return nil
	}
	m, err := scanMentor(r.pool.QueryRow(ctx,
		`SELECT `+mentorColumns+` FROM mentors WHERE id = $1`, *c.MentorID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}
	c.Mentor = m
	return nil
}

// List retrieves classrooms matching the filter, each with its mentor joined.
func (r *ClassroomRepository) List(ctx context.Context, filter model.ClassroomFilter) ([]model.Classroom, error) {
	query := `SELECT DISTINCT ` + prefixColumns("c", classroomColumns) + ` FROM classrooms c
		LEFT JOIN mentors m ON m.id = c.mentor_id WHERE 1=1`
	var args []interface{}
	argIdx := 1

	if filter.Title != nil {
		query += ` AND c.title = $` + strconv.Itoa(argIdx)
		args = append(args, *filter.Title)
		argIdx++
	}
	if filter.MentorName != nil {
		query += ` AND (m.first_name ILIKE '%' || $` + strconv.Itoa(argIdx) + ` || '%'` +
			` OR m.last_name ILIKE '%' || $` + strconv.Itoa(argIdx) + ` || '%')`
		args = append(args, *filter.MentorName)
		argIdx++
	}
	if filter.MinCount != nil {
		query += ` AND c.enrolled_student_count >= $` + strconv.Itoa(argIdx)
		args = append(args, *filter.MinCount)
		argIdx++
	}
	if filter.MaxCount != nil {
		query += ` AND c.enrolled_student_count <= $` + strconv.Itoa(argIdx)
		args = append(args, *filter.MaxCount)
		argIdx++
	}
	query += ` ORDER BY c.id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classrooms := []model.Classroom{}
	for rows.Next() {
		c, err := scanClassroom(rows)
		if err != nil {
			return nil, err
		}
		classrooms = append(classrooms, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range classrooms {
		if err := r.attachMentor(ctx, &classrooms[i]); err != nil {
			return nil, err
		}
	}
	return classrooms, nil
}

// ListUnassigned retrieves classrooms without an assigned mentor.
func (r *ClassroomRepository) ListUnassigned(ctx context.Context) ([]model.Classroom, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+classroomColumns+` FROM classrooms WHERE mentor_id IS NULL ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classrooms := []model.Classroom{}
	for rows.Next() {
		c, err := scanClassroom(rows)
		if err != nil {
			return nil, err
		}
		classrooms = append(classrooms, *c)
	}
	return classrooms, rows.Err()
}

// Create inserts a new classroom.
func (r *ClassroomRepository) Create(ctx context.Context, c *model.Classroom) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO classrooms (title, enrolled_student_count, class_image)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		c.Title, c.EnrolledStudentCount, c.ClassImage,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// Update overwrites a classroom's title and image.
func (r *ClassroomRepository) Update(ctx context.Context, c *model.Classroom) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE classrooms SET title = $1, class_image = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3`,
		c.Title, c.ClassImage, c.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a classroom and returns the removed record. The delete is
// refused with ErrLastMentorClassroom when the classroom is the sole
// remaining classroom of its assigned mentor; the count check and the delete
// run in one transaction so the guard cannot race with a reassignment.
func (r *ClassroomRepository) Delete(ctx context.Context, id int) (*model.Classroom, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	c, err := scanClassroom(tx.QueryRow(ctx,
		`SELECT `+classroomColumns+` FROM classrooms WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}

	if c.MentorID != nil {
		var count int
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM classrooms WHERE mentor_id = $1`, *c.MentorID,
		).Scan(&count); err != nil {
			return nil, err
		}
		if count == 1 {
			return nil, fmt.Errorf("%w: mentor ID %d", ErrLastMentorClassroom, *c.MentorID)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM classrooms WHERE id = $1`, id); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return c, nil
}
