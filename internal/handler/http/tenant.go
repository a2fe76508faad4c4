package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iamvishalkhare/redisearch-product-catalog/internal/service"
)

// TenantHandler handles HTTP requests for customer endpoints.
type TenantHandler struct {
	service *service.TenantService
	logger  *slog.Logger
}

// NewTenantHandler creates a new customer HTTP handler.
func NewTenantHandler(svc *service.TenantService, logger *slog.Logger) *TenantHandler {
	return &TenantHandler{
		service: svc,
		logger:  logger,
	}
}

// Register handles POST /customer/register
func (h *TenantHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterTenantInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	token, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: map[string]string{"token": token}})
}

// Get handles GET /customer/{token}
func (h *TenantHandler) Get(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	tenant, err := h.service.Get(r.Context(), token)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: tenant})
}
