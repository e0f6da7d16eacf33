package service

import (
	"context"
	"errors"
	"time"

	"github.com/mbpt/peertutor-backend/internal/model"
	"github.com/mbpt/peertutor-backend/internal/repository"
	"github.com/rs/zerolog"
)

type reportStore interface {
	ListAudits(ctx context.Context) ([]model.Audit, error)
	FindMentorPayments(ctx context.Context, start, end time.Time) ([]model.Payment, error)
}

// ReportService produces the administrative reports: flat session audits and
// per-mentor payment aggregates.
type ReportService struct {
	reportRepo reportStore
	log        zerolog.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(reportRepo reportStore, log zerolog.Logger) *ReportService {
	return &ReportService{reportRepo: reportRepo, log: log}
}

// ListAudits returns a flat projection of every session. A session pointing
// at a missing student, mentor or classroom is a data corruption, reported as
// an integrity failure rather than silently skipped.
func (s *ReportService) ListAudits(ctx context.Context) ([]model.Audit, error) {
	audits, err := s.reportRepo.ListAudits(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrBrokenRelation) {
			s.log.Error().Err(err).Msg("Audit report hit a broken session relation")
			return nil, &IntegrityError{Message: err.Error()}
		}
		return nil, err
	}
	return audits, nil
}

// FindMentorPayments sums each mentor's current session fee over the sessions
// starting inside the inclusive [start, end] window. Both bounds are
// required; a window with no sessions yields an empty list, not an error.
func (s *ReportService) FindMentorPayments(ctx context.Context, start, end time.Time) ([]model.Payment, error) {
	if start.IsZero() || end.IsZero() {
		return nil, validationErrorf("both start_date and end_date are required")
	}
	if end.Before(start) {
		return nil, validationErrorf("end_date must not be before start_date")
	}
	return s.reportRepo.FindMentorPayments(ctx, start, end)
}
