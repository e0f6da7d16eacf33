package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/mbpt/peertutor-backend/internal/model"
	"github.com/mbpt/peertutor-backend/internal/repository"
	"github.com/rs/zerolog"
)

type stubStudentRepo struct {
	byClerkID    map[string]*model.Student
	getErr       error
	createErr    error
	createCalls  int
	updateErr    error
	lastCreated  *model.Student
	listResult   []model.Student
	deleteResult *model.Student
	deleteErr    error
}

func (r *stubStudentRepo) GetByID(_ context.Context, _ int) (*model.Student, error) {
	return nil, pgx.ErrNoRows
}

func (r *stubStudentRepo) GetByClerkID(_ context.Context, clerkID string) (*model.Student, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	if s, ok := r.byClerkID[clerkID]; ok {
		return s, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubStudentRepo) List(_ context.Context, _ model.StudentFilter) ([]model.Student, error) {
	return r.listResult, nil
}

func (r *stubStudentRepo) Create(_ context.Context, s *model.Student) error {
	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	s.ID = 1
	r.lastCreated = s
	if r.byClerkID == nil {
		r.byClerkID = map[string]*model.Student{}
	}
	r.byClerkID[s.ClerkStudentID] = s
	return nil
}

func (r *stubStudentRepo) Update(_ context.Context, _ *model.Student) error {
	return r.updateErr
}

func (r *stubStudentRepo) DeleteByClerkID(_ context.Context, _ string) (*model.Student, error) {
	return r.deleteResult, r.deleteErr
}

func newStudentRequest() *model.CreateStudentRequest {
	return &model.CreateStudentRequest{
		ClerkStudentID: "clerk-1",
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@example.com",
		PhoneNumber:    "0123456",
		Address:        "12 Analytical St",
		Age:            21,
	}
}

func TestStudentServiceCreateStoresNewStudent(t *testing.T) {
	repo := &stubStudentRepo{}
	svc := &StudentService{studentRepo: repo, log: zerolog.Nop()}

	student, err := svc.Create(context.Background(), newStudentRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if student.ID != 1 {
		t.Fatalf("expected id 1, got %d", student.ID)
	}
	if repo.createCalls != 1 {
		t.Fatalf("expected 1 create call, got %d", repo.createCalls)
	}
}

func TestStudentServiceCreateIsIdempotentPerClerkID(t *testing.T) {
	existing := &model.Student{ID: 7, ClerkStudentID: "clerk-1", Email: "stored@example.com"}
	repo := &stubStudentRepo{byClerkID: map[string]*model.Student{"clerk-1": existing}}
	svc := &StudentService{studentRepo: repo, log: zerolog.Nop()}

	student, err := svc.Create(context.Background(), newStudentRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if student.ID != 7 || student.Email != "stored@example.com" {
		t.Fatalf("expected the stored record back, got %+v", student)
	}
	if repo.createCalls != 0 {
		t.Fatalf("expected no create call, got %d", repo.createCalls)
	}
}

func TestStudentServiceCreateReReadsAfterDuplicateRace(t *testing.T) {
	winner := &model.Student{ID: 3, ClerkStudentID: "clerk-1"}
	repo := &raceStudentRepo{winner: winner}
	svc := &StudentService{studentRepo: repo, log: zerolog.Nop()}

	student, err := svc.Create(context.Background(), newStudentRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if student.ID != 3 {
		t.Fatalf("expected the winning record, got %+v", student)
	}
}

// raceStudentRepo simulates a concurrent create: the first lookup misses, the
// insert hits the unique constraint, the second lookup finds the winner.
type raceStudentRepo struct {
	stubStudentRepo
	winner *model.Student
	looked int
}

func (r *raceStudentRepo) GetByClerkID(_ context.Context, _ string) (*model.Student, error) {
	r.looked++
	if r.looked == 1 {
		return nil, pgx.ErrNoRows
	}
	return r.winner, nil
}

func (r *raceStudentRepo) Create(_ context.Context, _ *model.Student) error {
	return repository.ErrDuplicateClerkID
}

func TestStudentServiceGetByClerkIDNotFound(t *testing.T) {
	svc := &StudentService{studentRepo: &stubStudentRepo{}, log: zerolog.Nop()}

	_, err := svc.GetByClerkID(context.Background(), "nope")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Resource != "Student" || nf.ID != "nope" {
		t.Fatalf("unexpected not-found detail: %+v", nf)
	}
}

func TestStudentServiceUpdateOverwritesMutableFields(t *testing.T) {
	existing := &model.Student{ID: 5, ClerkStudentID: "clerk-1", FirstName: "Old"}
	repo := &stubStudentRepo{byClerkID: map[string]*model.Student{"clerk-1": existing}}
	svc := &StudentService{studentRepo: repo, log: zerolog.Nop()}

	student, err := svc.Update(context.Background(), "clerk-1", &model.UpdateStudentRequest{
		FirstName:   "New",
		LastName:    "Name",
		Email:       "new@example.com",
		PhoneNumber: "0123456",
		Address:     "1 New St",
		Age:         30,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if student.FirstName != "New" || student.Age != 30 {
		t.Fatalf("update not applied: %+v", student)
	}
	if student.ClerkStudentID != "clerk-1" {
		t.Fatalf("clerk ID must not change, got %q", student.ClerkStudentID)
	}
}

func TestStudentServiceDeleteNotFound(t *testing.T) {
	repo := &stubStudentRepo{deleteErr: pgx.ErrNoRows}
	svc := &StudentService{studentRepo: repo, log: zerolog.Nop()}

	_, err := svc.Delete(context.Background(), "ghost")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
