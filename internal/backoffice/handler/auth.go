package handler

import (
	"net/http"

	"github.com/pontoflow/pontoflow-backend/internal/backoffice/service"
	"github.com/pontoflow/pontoflow-backend/pkg/httputil"
	"github.com/pontoflow/pontoflow-backend/pkg/logger"
)

// AuthHandler handles admin authentication endpoints
type AuthHandler struct {
	service *service.AdminAuthService
	logger  *logger.Logger
}

// NewAuthHandler creates a new admin auth handler
func NewAuthHandler(svc *service.AdminAuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: svc,
		logger:  log,
	}
}

// Login handles admin login
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	response, err := h.service.Login(r.Context(), &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, response)
}
