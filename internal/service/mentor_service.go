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

type mentorStore interface {
	GetByID(ctx context.Context, id int) (*model.Mentor, error)
	GetByClerkID(ctx context.Context, clerkID string) (*model.Mentor, error)
	CreateWithClassrooms(ctx context.Context, m *model.Mentor, classroomIDs []int) error
	List(ctx context.Context, filter model.MentorFilter) ([]model.Mentor, error)
	GetProfileStats(ctx context.Context, mentorID int) ([]model.MentorClassStat, error)
	Update(ctx context.Context, m *model.Mentor) error
	DeleteByClerkID(ctx context.Context, clerkID string) (*model.Mentor, error)
}

// MentorService handles mentor business logic, including profile image
// uploads and atomic classroom assignment on create.
type MentorService struct {
	mentorRepo mentorStore
	images     storage.ImageStore
	rdb        *redis.Client
	cacheTTL   time.Duration
	log        zerolog.Logger
}

// NewMentorService creates a new MentorService. rdb may be nil, which
// disables caching.
func NewMentorService(mentorRepo mentorStore, images storage.ImageStore, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *MentorService {
	return &MentorService{mentorRepo: mentorRepo, images: images, rdb: rdb, cacheTTL: cfg.CacheTTL, log: log}
}

// Create uploads the mentor image, then inserts the mentor and assigns every
// requested classroom in one transaction. New mentors start uncertified with
// zero positive reviews. A missing classroom aborts the whole creation.
func (s *MentorService) Create(ctx context.Context, req *model.CreateMentorRequest, imageType string, imageSize int64, image io.Reader) (*model.Mentor, error) {
	imageURL, err := s.images.UploadImage(ctx, "mentors", imageType, imageSize, image)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImageType) || errors.Is(err, storage.ErrImageTooLarge) {
			return nil, validationErrorf("mentor image rejected: %v", err)
		}
		return nil, fmt.Errorf("upload mentor image: %w", err)
	}

	mentor := &model.Mentor{
		ClerkMentorID:   req.ClerkMentorID,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		Address:         req.Address,
		Title:           req.Title,
		SessionFee:      req.SessionFee,
		Profession:      req.Profession,
		Subject:         req.Subject,
		Qualification:   req.Qualification,
		MentorImage:     imageURL,
		IsCertified:     false,
		PositiveReviews: 0,
	}

	if err := s.mentorRepo.CreateWithClassrooms(ctx, mentor, req.ClassroomIDs); err != nil {
		if errors.Is(err, repository.ErrClassroomMissing) {
			return nil, notFound("Classroom", missingID(err))
		}
		return nil, err
	}

	s.invalidate(ctx, mentor.ClerkMentorID)
	s.log.Info().Int("mentor_id", mentor.ID).Ints("classroom_ids", req.ClassroomIDs).Msg("Mentor created")
	return mentor, nil
}

// List retrieves mentors matching the filter.
func (s *MentorService) List(ctx context.Context, filter model.MentorFilter) ([]model.Mentor, error) {
	return s.mentorRepo.List(ctx, filter)
}

// GetByClerkID retrieves a mentor by clerk ID through the cache.
func (s *MentorService) GetByClerkID(ctx context.Context, clerkID string) (*model.Mentor, error) {
	if s.rdb != nil {
		key := config.CacheKey.MentorByClerkIDKey(clerkID)
		if raw, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var cached model.Mentor
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	mentor, err := s.mentorRepo.GetByClerkID(ctx, clerkID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("Mentor", clerkID)
		}
		return nil, err
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(mentor); err == nil {
			if err := s.rdb.Set(ctx, config.CacheKey.MentorByClerkIDKey(clerkID), raw, s.cacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("Mentor cache write failed")
			}
		}
	}
	return mentor, nil
}

// Profile returns the mentor together with per-classroom session counts.
func (s *MentorService) Profile(ctx context.Context, id int) (*model.MentorProfile, error) {
	mentor, err := s.mentorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("Mentor", id)
		}
		return nil, err
	}

	stats, err := s.mentorRepo.GetProfileStats(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.MentorProfile{Mentor: *mentor, Classrooms: stats}, nil
}

// Update overwrites every mutable field of the mentor. The positive review
// counter is server-owned and untouched.
func (s *MentorService) Update(ctx context.Context, id int, req *model.UpdateMentorRequest) (*model.Mentor, error) {
	mentor, err := s.mentorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("Mentor", id)
		}
		return nil, err
	}

	mentor.ClerkMentorID = req.ClerkMentorID
	mentor.FirstName = req.FirstName
	mentor.LastName = req.LastName
	mentor.Email = req.Email
	mentor.PhoneNumber = req.PhoneNumber
	mentor.Address = req.Address
	mentor.Title = req.Title
	mentor.SessionFee = req.SessionFee
	mentor.Profession = req.Profession
	mentor.Subject = req.Subject
	mentor.Qualification = req.Qualification
	if req.MentorImage != "" {
		mentor.MentorImage = req.MentorImage
	}
	mentor.IsCertified = req.IsCertified

	if err := s.mentorRepo.Update(ctx, mentor); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("Mentor", id)
		}
		return nil, err
	}

	s.invalidate(ctx, mentor.ClerkMentorID)
	s.log.Info().Int("mentor_id", mentor.ID).Msg("Mentor updated")
	return mentor, nil
}

// Delete removes a mentor by clerk ID and returns the removed record. The
// mentor's classrooms are unassigned, not deleted.
func (s *MentorService) Delete(ctx context.Context, clerkID string) (*model.Mentor, error) {
	mentor, err := s.mentorRepo.DeleteByClerkID(ctx, clerkID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("Mentor", clerkID)
		}
		return nil, err
	}

	s.invalidate(ctx, &clerkID)
	s.log.Info().Int("mentor_id", mentor.ID).Str("clerk_id", clerkID).Msg("Mentor deleted")
	return mentor, nil
}

// invalidate drops the mentor's own cache entry and the cached classroom
// list. Mentor writes change classroom assignments, so the list is stale too.
func (s *MentorService) invalidate(ctx context.Context, clerkID *string) {
	if s.rdb == nil {
		return
	}
	keys := []string{config.CacheKey.AllClassroomsKey()}
	if clerkID != nil {
		keys = append(keys, config.CacheKey.MentorByClerkIDKey(*clerkID))
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Mentor cache invalidation failed")
	}
}

// missingID extracts the trailing "ID <n>" fragment from a wrapped
// missing-reference error, falling back to the whole message.
func missingID(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, "ID "); i >= 0 {
		return msg[i+3:]
	}
	return msg
}
