package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mbpt/peertutor-backend/internal/model"
	"github.com/mbpt/peertutor-backend/internal/repository"
	"github.com/rs/zerolog"
)

type stubReportRepo struct {
	audits      []model.Audit
	auditsErr   error
	payments    []model.Payment
	paymentsErr error
	lastStart   time.Time
	lastEnd     time.Time
}

func (r *stubReportRepo) ListAudits(_ context.Context) ([]model.Audit, error) {
	return r.audits, r.auditsErr
}

func (r *stubReportRepo) FindMentorPayments(_ context.Context, start, end time.Time) ([]model.Payment, error) {
	r.lastStart = start
	r.lastEnd = end
	return r.payments, r.paymentsErr
}

func TestReportServiceListAuditsMapsBrokenRelation(t *testing.T) {
	repo := &stubReportRepo{auditsErr: fmt.Errorf("%w: session 12", repository.ErrBrokenRelation)}
	svc := &ReportService{reportRepo: repo, log: zerolog.Nop()}

	_, err := svc.ListAudits(context.Background())
	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("expected IntegrityError, got %v", err)
	}
}

func TestReportServiceListAuditsPassesThrough(t *testing.T) {
	repo := &stubReportRepo{audits: []model.Audit{{SessionID: 1, Fee: 45}}}
	svc := &ReportService{reportRepo: repo, log: zerolog.Nop()}

	audits, err := svc.ListAudits(context.Background())
	if err != nil {
		t.Fatalf("ListAudits: %v", err)
	}
	if len(audits) != 1 || audits[0].Fee != 45 {
		t.Fatalf("unexpected audits: %+v", audits)
	}
}

func TestReportServicePaymentsRequireBothBounds(t *testing.T) {
	svc := &ReportService{reportRepo: &stubReportRepo{}, log: zerolog.Nop()}

	_, err := svc.FindMentorPayments(context.Background(), time.Time{}, time.Now())
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for missing start, got %v", err)
	}

	_, err = svc.FindMentorPayments(context.Background(), time.Now(), time.Time{})
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for missing end, got %v", err)
	}
}

func TestReportServicePaymentsRejectInvertedWindow(t *testing.T) {
	svc := &ReportService{reportRepo: &stubReportRepo{}, log: zerolog.Nop()}

	end := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	start := end.Add(24 * time.Hour)

	_, err := svc.FindMentorPayments(context.Background(), start, end)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestReportServicePaymentsEmptyWindowIsNotAnError(t *testing.T) {
	repo := &stubReportRepo{payments: []model.Payment{}}
	svc := &ReportService{reportRepo: repo, log: zerolog.Nop()}

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(30 * 24 * time.Hour)

	payments, err := svc.FindMentorPayments(context.Background(), start, end)
	if err != nil {
		t.Fatalf("FindMentorPayments: %v", err)
	}
	if len(payments) != 0 {
		t.Fatalf("expected empty list, got %+v", payments)
	}
	if !repo.lastStart.Equal(start) || !repo.lastEnd.Equal(end) {
		t.Fatal("window bounds not forwarded")
	}
}
