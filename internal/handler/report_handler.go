package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mbpt/peertutor-backend/internal/response"
	"github.com/mbpt/peertutor-backend/internal/service"
)

// ReportHandler handles administrative reporting endpoints.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ListAudits godoc
// GET /api/v1/academic/report/audits
// Returns a flat projection of every session.
func (h *ReportHandler) ListAudits(c *gin.Context) {
	audits, err := h.reportService.ListAudits(c.Request.Context())
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"audits": audits})
}

// FindMentorPayments godoc
// GET /api/v1/academic/report/payments?start_date=...&end_date=...
// Returns per-mentor fee totals for sessions starting in the window. Dates
// accept RFC 3339 timestamps or plain YYYY-MM-DD days; a bare end date
// covers the whole day.
func (h *ReportHandler) FindMentorPayments(c *gin.Context) {
	start, err := parseDate(c.Query("start_date"))
	if err != nil {
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, "start_date must be RFC 3339 or YYYY-MM-DD")
		return
	}
	end, err := parseEndDate(c.Query("end_date"))
	if err != nil {
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, "end_date must be RFC 3339 or YYYY-MM-DD")
		return
	}

	payments, err := h.reportService.FindMentorPayments(c.Request.Context(), start, end)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"payments": payments})
}

// parseDate accepts RFC 3339 or a bare date. An empty value parses to the
// zero time; the service decides whether that is acceptable.
func parseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

// parseEndDate is parseDate with bare dates widened to the last instant of
// that day. Without this an end_date of 2026-03-01 would stop at midnight
// and drop every session starting later on the end day.
func parseEndDate(v string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t.Add(24*time.Hour - time.Nanosecond), nil
	}
	return parseDate(v)
}
