package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iamvishalkhare/redisearch-product-catalog/internal/service"
)

// CatalogHandler handles HTTP requests for SKU endpoints.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new SKU HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// IngestRequest is the JSON request body for batch ingestion.
type IngestRequest struct {
	Token string              `json:"token"`
	Skus  []service.ItemInput `json:"skus"`
}

// UpdatePriceRequest is the JSON request body for a discounted-price update.
type UpdatePriceRequest struct {
	SkuID           int64 `json:"sku_id"`
	DiscountedPrice int64 `json:"discounted_price"`
}

// ExpireRequest is the JSON request body for scheduling a SKU's expiry.
type ExpireRequest struct {
	SkuID    int64 `json:"sku_id"`
	TTLInSec int64 `json:"ttl_in_sec"`
}

// Ingest handles POST /skus/ingest
func (h *CatalogHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := h.service.IngestItems(r.Context(), req.Token, req.Skus); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{
		"message": "All sku data added successfully",
	}})
}

// GetBySkuID handles GET /skus/{token}/{skuId}
func (h *CatalogHandler) GetBySkuID(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	skuID, ok := parseSkuID(w, chi.URLParam(r, "skuId"))
	if !ok {
		return
	}

	items, err := h.service.GetBySkuID(r.Context(), token, skuID)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: items})
}

// UpdatePrice handles PATCH /skus/update_discounted_price
func (h *CatalogHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	var req UpdatePriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	updated, err := h.service.UpdateDiscountedPrice(r.Context(), req.SkuID, req.DiscountedPrice)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]int{"updated": updated}})
}

// Delete handles DELETE /skus/{token}/{identifier}
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	identifier := chi.URLParam(r, "identifier")

	deleted, err := h.service.DeleteByIdentifier(r.Context(), token, identifier)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]int{"deleted": deleted}})
}

// Expire handles POST /skus/expire/{token}
func (h *CatalogHandler) Expire(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req ExpireRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	marked, err := h.service.ExpireItem(r.Context(), token, req.SkuID, req.TTLInSec)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]any{
		"message": fmt.Sprintf("sku_id=%d will expire in %d seconds", req.SkuID, req.TTLInSec),
		"marked":  marked,
	}})
}

func parseSkuID(w http.ResponseWriter, raw string) (int64, bool) {
	skuID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "sku id must be an integer: " + raw},
		})
		return 0, false
	}
	return skuID, true
}
