package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/service"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/timecalc"
	"github.com/pontoflow/pontoflow-backend/pkg/errors"
	"github.com/pontoflow/pontoflow-backend/pkg/httputil"
	"github.com/pontoflow/pontoflow-backend/pkg/logger"
	"github.com/pontoflow/pontoflow-backend/pkg/tenant"
)

// ReportHandler handles worked-hours report endpoints
type ReportHandler struct {
	reports *service.ReportService
	exports *service.ExportService
	logger  *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *service.ReportService, exports *service.ExportService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		reports: reports,
		exports: exports,
		logger:  log,
	}
}

// Daily returns a single-day report
// GET /employees/{id}/reports/daily?date=YYYY-MM-DD
func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	report, err := h.reports.Daily(r.Context(), employeeID, queryDate(r))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}

// Weekly returns the report for the Sunday-to-Saturday week containing
// the given date
// GET /employees/{id}/reports/weekly?date=YYYY-MM-DD
func (h *ReportHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	report, err := h.reports.Weekly(r.Context(), employeeID, queryDate(r))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}

// Monthly returns the report for the calendar month containing the
// given date
// GET /employees/{id}/reports/monthly?date=YYYY-MM-DD
func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	report, err := h.reports.Monthly(r.Context(), employeeID, queryDate(r))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}

// Range returns a report over an arbitrary date range, capped at one
// year
// GET /employees/{id}/reports/range?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *ReportHandler) Range(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" || end == "" {
		httputil.Error(w, errors.BadRequest("start and end query parameters are required"))
		return
	}

	report, err := h.reports.Range(r.Context(), employeeID, start, end)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}

// MonthlyPDF streams the monthly timesheet as a PDF download
// GET /employees/{id}/reports/monthly/pdf?date=YYYY-MM-DD
func (h *ReportHandler) MonthlyPDF(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	companyID, err := tenant.CompanyID(r.Context())
	if err != nil {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}

	pdf, filename, err := h.exports.MonthlyPDF(r.Context(), companyID, employeeID, queryDate(r))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		h.logger.Warn().Err(err).Msg("failed to write pdf response")
	}
}

// queryDate reads the date query parameter, defaulting to today.
// Validation happens in the service layer.
func queryDate(r *http.Request) string {
	if date := r.URL.Query().Get("date"); date != "" {
		return date
	}
	return time.Now().Format(timecalc.DateLayout)
}
