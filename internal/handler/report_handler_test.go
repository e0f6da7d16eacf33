package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mbpt/peertutor-backend/internal/model"
	"github.com/mbpt/peertutor-backend/internal/service"
	"github.com/rs/zerolog"
)

type stubReportRepo struct {
	payments  []model.Payment
	lastStart time.Time
	lastEnd   time.Time
}

func (r *stubReportRepo) ListAudits(_ context.Context) ([]model.Audit, error) {
	return nil, nil
}

func (r *stubReportRepo) FindMentorPayments(_ context.Context, start, end time.Time) ([]model.Payment, error) {
	r.lastStart = start
	r.lastEnd = end
	return r.payments, nil
}

func newReportRouter(repo *stubReportRepo) *gin.Engine {
	h := NewReportHandler(service.NewReportService(repo, zerolog.Nop()))

	router := gin.New()
	router.GET("/report/payments", h.FindMentorPayments)
	return router
}

func TestFindMentorPaymentsBareEndDateCoversWholeDay(t *testing.T) {
	repo := &stubReportRepo{payments: []model.Payment{}}
	router := newReportRouter(repo)

	rec, _ := doRequest(t, router, http.MethodGet,
		"/report/payments?start_date=2026-03-01&end_date=2026-03-31", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	wantStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !repo.lastStart.Equal(wantStart) {
		t.Errorf("start bound = %v, want %v", repo.lastStart, wantStart)
	}

	// A session starting late on the end day must still fall inside the
	// inclusive window.
	lateOnEndDay := time.Date(2026, 3, 31, 23, 30, 0, 0, time.UTC)
	if repo.lastEnd.Before(lateOnEndDay) {
		t.Errorf("end bound %v cuts off the end day before %v", repo.lastEnd, lateOnEndDay)
	}
	if nextDay := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC); !repo.lastEnd.Before(nextDay) {
		t.Errorf("end bound %v spills into the next day", repo.lastEnd)
	}
}

func TestFindMentorPaymentsTimestampBoundsPassThrough(t *testing.T) {
	repo := &stubReportRepo{payments: []model.Payment{}}
	router := newReportRouter(repo)

	rec, _ := doRequest(t, router, http.MethodGet,
		"/report/payments?start_date=2026-03-01T08:00:00Z&end_date=2026-03-01T17:00:00Z", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if want := time.Date(2026, 3, 1, 17, 0, 0, 0, time.UTC); !repo.lastEnd.Equal(want) {
		t.Errorf("end bound = %v, want %v", repo.lastEnd, want)
	}
}

func TestFindMentorPaymentsRejectsMalformedDate(t *testing.T) {
	router := newReportRouter(&stubReportRepo{})

	rec, env := doRequest(t, router, http.MethodGet,
		"/report/payments?start_date=March+1&end_date=2026-03-31", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected error payload: %+v", env.Error)
	}
}
