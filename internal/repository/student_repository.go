package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mbpt/peertutor-backend/internal/model"
)

// ErrDuplicateClerkID signals a unique violation on the student clerk ID.
// The service layer resolves it by re-reading (idempotent create).
var ErrDuplicateClerkID = errors.New("student with this clerk ID already exists")

const studentColumns = `id, clerk_student_id, first_name, last_name, email, phone_number, address, age, created_at, updated_at`

// StudentRepository handles student data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

func scanStudent(row interface{ Scan(dest ...any) error }) (*model.Student, error) {
	s := &model.Student{}
	err := row.Scan(&s.ID, &s.ClerkStudentID, &s.FirstName, &s.LastName, &s.Email,
		&s.PhoneNumber, &s.Address, &s.Age, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID retrieves a student by internal ID.
func (r *StudentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return scanStudent(r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, id))
}

// GetByClerkID retrieves a student by the identity-provider issued clerk ID.
func (r *StudentRepository) GetByClerkID(ctx context.Context, clerkID string) (*model.Student, error) {
	return scanStudent(r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+` FROM students WHERE clerk_student_id = $1`, clerkID))
}

// List retrieves students, optionally narrowed by address, age, and first name.
func (r *StudentRepository) List(ctx context.Context, filter model.StudentFilter) ([]model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE 1=1`
	var args []interface{}
	argIdx := 1

	if filter.Address != nil {
		query += ` AND address = $` + strconv.Itoa(argIdx)
		args = append(args, *filter.Address)
		argIdx++
	}
	if filter.Age != nil {
		query += ` AND age = $` + strconv.Itoa(argIdx)
		args = append(args, *filter.Age)
		argIdx++
	}
	if filter.FirstName != nil {
		query += ` AND first_name = $` + strconv.Itoa(argIdx)
		args = append(args, *filter.FirstName)
		argIdx++
	}
	query += ` ORDER BY last_name, first_name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, *s)
	}
	return students, rows.Err()
}

// Create inserts a new student. A clerk ID collision yields ErrDuplicateClerkID.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO students (clerk_student_id, first_name, last_name, email, phone_number, address, age)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		s.ClerkStudentID, s.FirstName, s.LastName, s.Email, s.PhoneNumber, s.Address, s.Age,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateClerkID
		}
		return err
	}
	return nil
}

// Update overwrites a student's mutable fields. The clerk ID is immutable.
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE students SET first_name = $1, last_name = $2, email = $3, phone_number = $4,
		        address = $5, age = $6, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $7`,
		s.FirstName, s.LastName, s.Email, s.PhoneNumber, s.Address, s.Age, s.ID,
	)
	return err
}

// DeleteByClerkID removes a student and returns the removed record.
func (r *StudentRepository) DeleteByClerkID(ctx context.Context, clerkID string) (*model.Student, error) {
	return scanStudent(r.pool.QueryRow(ctx,
		`DELETE FROM students WHERE clerk_student_id = $1 RETURNING `+studentColumns, clerkID))
}
