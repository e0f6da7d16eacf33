package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mbpt/peertutor-backend/internal/config"
	"github.com/mbpt/peertutor-backend/internal/model"
	"github.com/mbpt/peertutor-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type studentStore interface {
	GetByID(ctx context.Context, id int) (*model.Student, error)
	GetByClerkID(ctx context.Context, clerkID string) (*model.Student, error)
	List(ctx context.Context, filter model.StudentFilter) ([]model.Student, error)
	Create(ctx context.Context, s *model.Student) error
	Update(ctx context.Context, s *model.Student) error
	DeleteByClerkID(ctx context.Context, clerkID string) (*model.Student, error)
}

// StudentService handles student business logic. Lookups by clerk ID go
// through a read-through Redis cache invalidated on every write.
type StudentService struct {
	studentRepo studentStore
	rdb         *redis.Client
	cacheTTL    time.Duration
	log         zerolog.Logger
}

// NewStudentService creates a new StudentService. rdb may be nil, which
// disables caching.
func NewStudentService(studentRepo studentStore, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *StudentService {
	return &StudentService{studentRepo: studentRepo, rdb: rdb, cacheTTL: cfg.CacheTTL, log: log}
}

// Create stores a new student, idempotently per clerk ID: posting the same
// clerk ID again returns the already stored record. A concurrent create that
// loses the unique-constraint race is resolved by re-reading.
func (s *StudentService) Create(ctx context.Context, req *model.CreateStudentRequest) (*model.Student, error) {
	existing, err := s.studentRepo.GetByClerkID(ctx, req.ClerkStudentID)
	if err == nil {
		s.log.Info().Str("clerk_id", req.ClerkStudentID).Msg("Student already exists, returning stored record")
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check existing student: %w", err)
	}

	student := &model.Student{
		ClerkStudentID: req.ClerkStudentID,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Address:        req.Address,
		Age:            req.Age,
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicateClerkID) {
			// Lost the race against a concurrent identical create; the row
			// now exists, so re-read it.
			s.log.Warn().Str("clerk_id", req.ClerkStudentID).Msg("Duplicate clerk ID on create, re-reading")
			winner, readErr := s.studentRepo.GetByClerkID(ctx, req.ClerkStudentID)
			if readErr != nil {
				return nil, fmt.Errorf("re-read after duplicate: %w", readErr)
			}
			return winner, nil
		}
		return nil, err
	}

	s.invalidate(ctx, student.ClerkStudentID)
	s.log.Info().Int("student_id", student.ID).Str("clerk_id", student.ClerkStudentID).Msg("Student created")
	return student, nil
}

// List retrieves students matching the filter.
func (s *StudentService) List(ctx context.Context, filter model.StudentFilter) ([]model.Student, error) {
	return s.studentRepo.List(ctx, filter)
}

// GetByClerkID retrieves a student by clerk ID through the cache.
func (s *StudentService) GetByClerkID(ctx context.Context, clerkID string) (*model.Student, error) {
	if s.rdb != nil {
		key := config.CacheKey.StudentByClerkIDKey(clerkID)
		if raw, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var cached model.Student
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	student, err := s.studentRepo.GetByClerkID(ctx, clerkID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("Student", clerkID)
		}
		return nil, err
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(student); err == nil {
			if err := s.rdb.Set(ctx, config.CacheKey.StudentByClerkIDKey(clerkID), raw, s.cacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("Student cache write failed")
			}
		}
	}
	return student, nil
}

// Update overwrites every mutable field of the student with the given clerk
// ID. The clerk ID itself is identity and never changes.
func (s *StudentService) Update(ctx context.Context, clerkID string, req *model.UpdateStudentRequest) (*model.Student, error) {
	student, err := s.studentRepo.GetByClerkID(ctx, clerkID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("Student", clerkID)
		}
		return nil, err
	}

	student.FirstName = req.FirstName
	student.LastName = req.LastName
	student.Email = req.Email
	student.PhoneNumber = req.PhoneNumber
	student.Address = req.Address
	student.Age = req.Age

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}

	s.invalidate(ctx, clerkID)
	s.log.Info().Int("student_id", student.ID).Msg("Student updated")
	return student, nil
}

// Delete removes a student by clerk ID and returns the removed record.
func (s *StudentService) Delete(ctx context.Context, clerkID string) (*model.Student, error) {
	student, err := s.studentRepo.DeleteByClerkID(ctx, clerkID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("Student", clerkID)
		}
		return nil, err
	}

	s.invalidate(ctx, clerkID)
	s.log.Info().Int("student_id", student.ID).Str("clerk_id", clerkID).Msg("Student deleted")
	return student, nil
}

func (s *StudentService) invalidate(ctx context.Context, clerkID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, config.CacheKey.StudentByClerkIDKey(clerkID)).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Student cache invalidation failed")
	}
}
