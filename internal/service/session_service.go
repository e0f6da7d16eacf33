package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mbpt/peertutor-backend/internal/config"
	"github.com/mbpt/peertutor-backend/internal/model"
	"github.com/mbpt/peertutor-backend/internal/repository"
	"github.com/rs/zerolog"
)

type sessionStore interface {
	Create(ctx context.Context, s *model.Session) error
	GetByID(ctx context.Context, id int) (*model.Session, error)
	List(ctx context.Context) ([]model.Session, error)
	ListByStudentClerkID(ctx context.Context, clerkID string) ([]model.Session, error)
	UpdateStatus(ctx context.Context, id int, status model.SessionStatus) (*model.Session, error)
}

// SessionService handles session booking and lifecycle.
type SessionService struct {
	sessionRepo       sessionStore
	strictTransitions bool
	log               zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(sessionRepo sessionStore, cfg *config.Config, log zerolog.Logger) *SessionService {
	return &SessionService{sessionRepo: sessionRepo, strictTransitions: cfg.StrictSessionTransitions, log: log}
}

// Create books a session in PENDING status. The student, mentor and classroom
// references are all resolved inside the creating transaction; any dangling
// one fails the whole request.
func (s *SessionService) Create(ctx context.Context, req *model.CreateSessionRequest) (*model.Session, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, validationErrorf("session end_time must be after start_time")
	}

	session := &model.Session{
		ClassroomID: req.ClassroomID,
		MentorID:    req.MentorID,
		StudentID:   req.StudentID,
		Topic:       req.Topic,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      model.SessionStatusPending,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		switch {
		case errors.Is(err, repository.ErrStudentMissing):
			return nil, notFound("Student", req.StudentID)
		case errors.Is(err, repository.ErrMentorMissing):
			return nil, notFound("Mentor", req.MentorID)
		case errors.Is(err, repository.ErrSessionClassroomMissing):
			return nil, notFound("Classroom", req.ClassroomID)
		}
		return nil, err
	}

	s.log.Info().Int("session_id", session.ID).Int("student_id", req.StudentID).
		Int("mentor_id", req.MentorID).Msg("Session created")
	return session, nil
}

// Get retrieves a session by ID with its relations populated.
func (s *SessionService) Get(ctx context.Context, id int) (*model.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("Session", id)
		}
		return nil, err
	}
	return session, nil
}

// List retrieves all sessions.
func (s *SessionService) List(ctx context.Context) ([]model.Session, error) {
	return s.sessionRepo.List(ctx)
}

// ListByStudentClerkID retrieves the sessions of one student.
func (s *SessionService) ListByStudentClerkID(ctx context.Context, clerkID string) ([]model.Session, error) {
	return s.sessionRepo.ListByStudentClerkID(ctx, clerkID)
}

// UpdateStatus moves a session to the given status. With strict transitions
// enabled only the forward order PENDING -> ACCEPTED -> COMPLETED is allowed;
// the permissive default accepts any valid status.
func (s *SessionService) UpdateStatus(ctx context.Context, id int, status model.SessionStatus) (*model.Session, error) {
	if !status.Valid() {
		return nil, validationErrorf("unknown session status: %s", status)
	}

	if s.strictTransitions {
		current, err := s.sessionRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, notFound("Session", id)
			}
			return nil, err
		}
		if !current.Status.CanTransitionTo(status) {
			return nil, &ValidationError{
				Message: fmt.Sprintf("invalid status transition: %s -> %s", current.Status, status),
				Err:     ErrTransitionNotAllowed,
			}
		}
	}

	session, err := s.sessionRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("Session", id)
		}
		return nil, err
	}

	s.log.Info().Int("session_id", id).Str("status", string(status)).Msg("Session status updated")
	return session, nil
}
