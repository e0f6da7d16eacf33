package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mbpt/peertutor-backend/internal/config"
	"github.com/mbpt/peertutor-backend/internal/model"
	"github.com/mbpt/peertutor-backend/internal/repository"
	"github.com/mbpt/peertutor-backend/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type classroomStore interface {
	GetByID(ctx context.Context, id int) (*model.Classroom, error)
	List(ctx context.Context, filter model.ClassroomFilter) ([]model.Classroom, error)
	ListUnassigned(ctx context.Context) ([]model.Classroom, error)
	Create(ctx context.Context, c *model.Classroom) error
	Update(ctx context.Context, c *model.Classroom) error
	Delete(ctx context.Context, id int) (*model.Classroom, error)
}

// ClassroomService handles classroom business logic. The unfiltered listing
// is Redis-cached since it backs the public catalog page.
type ClassroomService struct {
	classroomRepo classroomStore
	images        storage.ImageStore
	rdb           *redis.Client
	cacheTTL      time.Duration
	log           zerolog.Logger
}

// NewClassroomService creates a new ClassroomService. rdb may be nil, which
// disables caching.
func NewClassroomService(classroomRepo classroomStore, images storage.ImageStore, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *ClassroomService {
	return &ClassroomService{classroomRepo: classroomRepo, images: images, rdb: rdb, cacheTTL: cfg.CacheTTL, log: log}
}

// Create uploads the classroom image and stores a new classroom. New
// classrooms start with zero enrolled students and no mentor.
func (s *ClassroomService) Create(ctx context.Context, title string, imageType string, imageSize int64, image io.Reader) (*model.Classroom, error) {
	if strings.TrimSpace(title) == "" {
		return nil, validationErrorf("classroom title must not be blank")
	}
	if image == nil {
		return nil, validationErrorf("classroom image file is required")
	}

	imageURL, err := s.images.UploadImage(ctx, "classes", imageType, imageSize, image)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImageType) || errors.Is(err, storage.ErrImageTooLarge) {
			return nil, validationErrorf("classroom image rejected: %v", err)
		}
		return nil, fmt.Errorf("upload classroom image: %w", err)
	}

	classroom := &model.Classroom{
		Title:                title,
		EnrolledStudentCount: 0,
		ClassImage:           imageURL,
	}
	if err := s.classroomRepo.Create(ctx, classroom); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.log.Info().Int("classroom_id", classroom.ID).Str("title", title).Msg("Classroom created")
	return classroom, nil
}

// List retrieves classrooms matching the filter. The unfiltered listing goes
// through the cache.
func (s *ClassroomService) List(ctx context.Context, filter model.ClassroomFilter) ([]model.Classroom, error) {
	unfiltered := filter == (model.ClassroomFilter{})

	if unfiltered && s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, config.CacheKey.AllClassroomsKey()).Result(); err == nil {
			var cached []model.Classroom
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}

	classrooms, err := s.classroomRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if unfiltered && s.rdb != nil {
		if raw, err := json.Marshal(classrooms); err == nil {
			if err := s.rdb.Set(ctx, config.CacheKey.AllClassroomsKey(), raw, s.cacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("Classroom cache write failed")
			}
		}
	}
	return classrooms, nil
}

// ListUnassigned retrieves classrooms without an assigned mentor.
func (s *ClassroomService) ListUnassigned(ctx context.Context) ([]model.Classroom, error) {
	return s.classroomRepo.ListUnassigned(ctx)
}

// Get retrieves a classroom by ID.
func (s *ClassroomService) Get(ctx context.Context, id int) (*model.Classroom, error) {
	classroom, err := s.classroomRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("Classroom", id)
		}
		return nil, err
	}
	return classroom, nil
}

// Update replaces the classroom title and, when provided, its image. A new
// file wins over an explicitly supplied existing URL; with neither the image
// stays as-is. image may be nil.
func (s *ClassroomService) Update(ctx context.Context, id int, title, imageURL string, imageType string, imageSize int64, image io.Reader) (*model.Classroom, error) {
	if strings.TrimSpace(title) == "" {
		return nil, validationErrorf("classroom title must not be blank")
	}

	classroom, err := s.classroomRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("Classroom", id)
		}
		return nil, err
	}

	classroom.Title = title
	switch {
	case image != nil:
		uploaded, err := s.images.UploadImage(ctx, "classes", imageType, imageSize, image)
		if err != nil {
			if errors.Is(err, storage.ErrUnsupportedImageType) || errors.Is(err, storage.ErrImageTooLarge) {
				return nil, validationErrorf("classroom image rejected: %v", err)
			}
			return nil, fmt.Errorf("upload classroom image: %w", err)
		}
		classroom.ClassImage = uploaded
	case imageURL != "":
		classroom.ClassImage = imageURL
	}

	if err := s.classroomRepo.Update(ctx, classroom); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("Classroom", id)
		}
		return nil, err
	}

	s.invalidate(ctx)
	s.log.Info().Int("classroom_id", classroom.ID).Msg("Classroom updated")
	return classroom, nil
}

// Delete removes a classroom and returns the removed record. Deletion is
// refused when the classroom is its mentor's only one, so no mentor is ever
// left without a classroom.
func (s *ClassroomService) Delete(ctx context.Context, id int) (*model.Classroom, error) {
	classroom, err := s.classroomRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("Classroom", id)
		}
		if errors.Is(err, repository.ErrLastMentorClassroom) {
			return nil, &ValidationError{
				Message: fmt.Sprintf("cannot delete classroom %d: it is the only classroom assigned to its mentor", id),
				Err:     repository.ErrLastMentorClassroom,
			}
		}
		return nil, err
	}

	s.invalidate(ctx)
	s.log.Info().Int("classroom_id", id).Msg("Classroom deleted")
	return classroom, nil
}

func (s *ClassroomService) invalidate(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, config.CacheKey.AllClassroomsKey()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Classroom cache invalidation failed")
	}
}
