package handler

import (
	"net/http"

	"github.com/pontoflow/pontoflow-backend/internal/timeclock/service"
	"github.com/pontoflow/pontoflow-backend/pkg/httputil"
	"github.com/pontoflow/pontoflow-backend/pkg/logger"
)

// ScheduleHandler handles weekly work schedule endpoints
type ScheduleHandler struct {
	service *service.ScheduleService
	logger  *logger.Logger
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(svc *service.ScheduleService, log *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: svc,
		logger:  log,
	}
}

// Upsert creates or replaces the schedule for one weekday
// PUT /schedules
func (h *ScheduleHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req service.UpsertScheduleRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	schedule, err := h.service.Upsert(r.Context(), &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, schedule)
}

// Week returns all seven weekdays, unconfigured days included
// GET /schedules
func (h *ScheduleHandler) Week(w http.ResponseWriter, r *http.Request) {
	days, err := h.service.Week(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"days": days,
	})
}
