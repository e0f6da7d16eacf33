package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/mbpt/peertutor-backend/internal/config"
	"github.com/mbpt/peertutor-backend/internal/model"
	"github.com/mbpt/peertutor-backend/internal/service"
	"github.com/mbpt/peertutor-backend/internal/validator"
	"github.com/rs/zerolog"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

type stubSessionRepo struct {
	byID         map[int]*model.Session
	createErr    error
	lastCreated  *model.Session
	statusResult *model.Session
	statusErr    error
	lastStatus   model.SessionStatus
}

func (r *stubSessionRepo) Create(_ context.Context, s *model.Session) error {
	if r.createErr != nil {
		return r.createErr
	}
	s.ID = 11
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
	return nil, nil
}

func (r *stubSessionRepo) ListByStudentClerkID(_ context.Context, _ string) ([]model.Session, error) {
	return nil, nil
}

func (r *stubSessionRepo) UpdateStatus(_ context.Context, _ int, status model.SessionStatus) (*model.Session, error) {
	r.lastStatus = status
	return r.statusResult, r.statusErr
}

func newSessionRouter(repo *stubSessionRepo) *gin.Engine {
	svc := service.NewSessionService(repo, &config.Config{}, zerolog.Nop())
	h := NewSessionHandler(svc)

	router := gin.New()
	router.POST("/session", h.CreateSession)
	router.GET("/session/:id", h.GetSession)
	router.PUT("/session/:id", h.UpdateSessionStatus)
	return router
}

type envelope struct {
	Data  map[string]json.RawMessage `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return rec, env
}

func TestCreateSessionReturnsCreated(t *testing.T) {
	repo := &stubSessionRepo{}
	router := newSessionRouter(repo)

	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	rec, env := doRequest(t, router, http.MethodPost, "/session", gin.H{
		"student_id":   1,
		"mentor_id":    2,
		"classroom_id": 3,
		"topic":        "Fractions",
		"start_time":   start.Format(time.RFC3339),
		"end_time":     start.Add(time.Hour).Format(time.RFC3339),
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body %s)", rec.Code, rec.Body.String())
	}
	var session model.Session
	if err := json.Unmarshal(env.Data["session"], &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.Status != model.SessionStatusPending {
		t.Fatalf("expected PENDING, got %s", session.Status)
	}
}

func TestCreateSessionValidatesPayload(t *testing.T) {
	router := newSessionRouter(&stubSessionRepo{})

	rec, env := doRequest(t, router, http.MethodPost, "/session", gin.H{
		"student_id": 1,
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %+v", env.Error)
	}
	if _, ok := env.Error.Fields["topic"]; !ok {
		t.Fatalf("expected a field error for topic, got %+v", env.Error.Fields)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	router := newSessionRouter(&stubSessionRepo{})

	rec, env := doRequest(t, router, http.MethodGet, "/session/42", nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %+v", env.Error)
	}
}

func TestUpdateSessionStatusRequiresQueryParam(t *testing.T) {
	router := newSessionRouter(&stubSessionRepo{})

	rec, env := doRequest(t, router, http.MethodPut, "/session/1", nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %+v", env.Error)
	}
}

func TestUpdateSessionStatusAppliesChange(t *testing.T) {
	repo := &stubSessionRepo{
		statusResult: &model.Session{ID: 1, Status: model.SessionStatusAccepted},
	}
	router := newSessionRouter(repo)

	rec, env := doRequest(t, router, http.MethodPut, "/session/1?status=ACCEPTED", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body %s)", rec.Code, rec.Body.String())
	}
	if repo.lastStatus != model.SessionStatusAccepted {
		t.Fatalf("expected ACCEPTED forwarded, got %s", repo.lastStatus)
	}
	var session model.Session
	if err := json.Unmarshal(env.Data["session"], &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.Status != model.SessionStatusAccepted {
		t.Fatalf("expected ACCEPTED, got %s", session.Status)
	}
}
