package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pontoflow/pontoflow-backend/internal/auth/jwt"
	"github.com/pontoflow/pontoflow-backend/internal/backoffice/service"
	"github.com/pontoflow/pontoflow-backend/pkg/errors"
	"github.com/pontoflow/pontoflow-backend/pkg/httputil"
	"github.com/pontoflow/pontoflow-backend/pkg/logger"
)

// CompanyHandler handles backoffice company management endpoints
type CompanyHandler struct {
	service *service.CompanyAdminService
	logger  *logger.Logger
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(svc *service.CompanyAdminService, log *logger.Logger) *CompanyHandler {
	return &CompanyHandler{
		service: svc,
		logger:  log,
	}
}

// List returns every company with usage counters
// GET /companies
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	companies, err := h.service.List(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"companies": companies,
		"total":     len(companies),
	})
}

// Get returns one company
// GET /companies/{id}
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	company, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, company)
}

// Block blocks a company with a reason
// POST /companies/{id}/block
func (h *CompanyHandler) Block(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	adminID, ok := jwt.AdminID(r.Context())
	if !ok {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}

	var req service.BlockRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	company, err := h.service.Block(r.Context(), id, adminID, &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, company)
}

// Unblock reactivates a blocked company
// POST /companies/{id}/unblock
func (h *CompanyHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	adminID, ok := jwt.AdminID(r.Context())
	if !ok {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}

	company, err := h.service.Unblock(r.Context(), id, adminID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, company)
}

// Delete removes a company and all of its data
// DELETE /companies/{id}
func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	adminID, ok := jwt.AdminID(r.Context())
	if !ok {
		httputil.Error(w, errors.Unauthorized("not authenticated"))
		return
	}

	if err := h.service.Delete(r.Context(), id, adminID); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
