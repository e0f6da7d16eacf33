package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mbpt/peertutor-backend/internal/model"
	"github.com/mbpt/peertutor-backend/internal/repository"
	"github.com/rs/zerolog"
)

type stubSessionRepo struct {
	byID         map[int]*model.Session
	createErr    error
	lastCreated  *model.Session
	listResult   []model.Session
	statusResult *model.Session
	statusErr    error
	lastStatus   model.SessionStatus
}

func (r *stubSessionRepo) Create(_ context.Context, s *model.Session) error {
	if r.createErr != nil {
		return r.createErr
	}
	s.ID = 1
	r.lastCreated = s
	return nil
}

func (r *stubSessionRepo) GetByID(_ context.Context, id int) (*model.Session, error) {
	if s, ok := r.byID[id]; ok {
		return s, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubSessionRepo) List(_ context.Context) ([]model.Session, error) {
	return r.listResult, nil
}

func (r *stubSessionRepo) ListByStudentClerkID(_ context.Context, _ string) ([]model.Session, error) {
	return r.listResult, nil
}

func (r *stubSessionRepo) UpdateStatus(_ context.Context, _ int, status model.SessionStatus) (*model.Session, error) {
	r.lastStatus = status
	return r.statusResult, r.statusErr
}

func newSessionRequest() *model.CreateSessionRequest {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	return &model.CreateSessionRequest{
		StudentID:   1,
		MentorID:    2,
		ClassroomID: 3,
		Topic:       "Quadratic equations",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
	}
}

func TestSessionServiceCreateStartsPending(t *testing.T) {
	repo := &stubSessionRepo{}
	svc := &SessionService{sessionRepo: repo, log: zerolog.Nop()}

	session, err := svc.Create(context.Background(), newSessionRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if session.Status != model.SessionStatusPending {
		t.Fatalf("expected PENDING, got %s", session.Status)
	}
}

func TestSessionServiceCreateRejectsInvertedWindow(t *testing.T) {
	svc := &SessionService{sessionRepo: &stubSessionRepo{}, log: zerolog.Nop()}

	req := newSessionRequest()
	req.EndTime = req.StartTime.Add(-time.Minute)

	_, err := svc.Create(context.Background(), req)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSessionServiceCreateMapsMissingReferences(t *testing.T) {
	cases := []struct {
		name     string
		repoErr  error
		resource string
	}{
		{"missing student", repository.ErrStudentMissing, "Student"},
		{"missing mentor", repository.ErrMentorMissing, "Mentor"},
		{"missing classroom", repository.ErrSessionClassroomMissing, "Classroom"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &SessionService{sessionRepo: &stubSessionRepo{createErr: tc.repoErr}, log: zerolog.Nop()}

			_, err := svc.Create(context.Background(), newSessionRequest())
			var nf *NotFoundError
			if !errors.As(err, &nf) {
				t.Fatalf("expected NotFoundError, got %v", err)
			}
			if nf.Resource != tc.resource {
				t.Fatalf("expected resource %q, got %q", tc.resource, nf.Resource)
			}
		})
	}
}

func TestSessionServiceUpdateStatusRejectsUnknownValue(t *testing.T) {
	svc := &SessionService{sessionRepo: &stubSessionRepo{}, log: zerolog.Nop()}

	_, err := svc.UpdateStatus(context.Background(), 1, "CANCELLED")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSessionServiceUpdateStatusPermissiveAllowsBackward(t *testing.T) {
	repo := &stubSessionRepo{
		byID:         map[int]*model.Session{1: {ID: 1, Status: model.SessionStatusCompleted}},
		statusResult: &model.Session{ID: 1, Status: model.SessionStatusPending},
	}
	svc := &SessionService{sessionRepo: repo, log: zerolog.Nop()}

	session, err := svc.UpdateStatus(context.Background(), 1, model.SessionStatusPending)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if session.Status != model.SessionStatusPending {
		t.Fatalf("expected PENDING, got %s", session.Status)
	}
}

func TestSessionServiceUpdateStatusStrictRejectsBackward(t *testing.T) {
	repo := &stubSessionRepo{
		byID: map[int]*model.Session{1: {ID: 1, Status: model.SessionStatusAccepted}},
	}
	svc := &SessionService{sessionRepo: repo, strictTransitions: true, log: zerolog.Nop()}

	_, err := svc.UpdateStatus(context.Background(), 1, model.SessionStatusPending)
	if !errors.Is(err, ErrTransitionNotAllowed) {
		t.Fatalf("expected ErrTransitionNotAllowed, got %v", err)
	}
}

func TestSessionServiceUpdateStatusStrictAllowsForward(t *testing.T) {
	repo := &stubSessionRepo{
		byID:         map[int]*model.Session{1: {ID: 1, Status: model.SessionStatusAccepted}},
		statusResult: &model.Session{ID: 1, Status: model.SessionStatusCompleted},
	}
	svc := &SessionService{sessionRepo: repo, strictTransitions: true, log: zerolog.Nop()}

	session, err := svc.UpdateStatus(context.Background(), 1, model.SessionStatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if session.Status != model.SessionStatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", session.Status)
	}
}
