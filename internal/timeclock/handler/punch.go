package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/service"
	"github.com/pontoflow/pontoflow-backend/internal/timeclock/timecalc"
	"github.com/pontoflow/pontoflow-backend/pkg/errors"
	"github.com/pontoflow/pontoflow-backend/pkg/httputil"
	"github.com/pontoflow/pontoflow-backend/pkg/logger"
)

// PunchHandler handles time record punch endpoints
type PunchHandler struct {
	service *service.PunchService
	logger  *logger.Logger
}

// NewPunchHandler creates a new punch handler
func NewPunchHandler(svc *service.PunchService, log *logger.Logger) *PunchHandler {
	return &PunchHandler{
		service: svc,
		logger:  log,
	}
}

// SetPunch registers, edits or clears one punch on an employee's day
// PUT /employees/{id}/punches
func (h *PunchHandler) SetPunch(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	var req service.SetPunchRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	record, err := h.service.SetPunch(r.Context(), employeeID, &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, record)
}

// Day returns an employee's record for one date. Defaults to today.
// GET /employees/{id}/records?date=YYYY-MM-DD
func (h *PunchHandler) Day(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format(timecalc.DateLayout)
	}

	record, err := h.service.Day(r.Context(), employeeID, date)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"date":   date,
		"record": record,
	})
}

// Recalculate recomputes stored deviations in a date range, typically
// after a schedule change
// POST /employees/{id}/recalculate
func (h *PunchHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	var req struct {
		StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
		EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	if req.EndDate < req.StartDate {
		httputil.Error(w, errors.BadRequest("end_date must not be before start_date"))
		return
	}

	count, err := h.service.RecalculateRange(r.Context(), employeeID, req.StartDate, req.EndDate)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"recalculated": count,
	})
}
