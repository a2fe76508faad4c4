package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iamvishalkhare/redisearch-product-catalog/internal/service"
)

// SearchHandler handles HTTP requests for the search endpoints.
type SearchHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewSearchHandler creates a new search HTTP handler.
func NewSearchHandler(svc *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service: svc,
		logger:  logger,
	}
}

// ByTerm handles GET /search/fts/{token}?q=term
func (h *SearchHandler) ByTerm(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	term := r.URL.Query().Get("q")

	items, err := h.service.ByTerm(r.Context(), token, term)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: items})
}

// ByPriceRange handles GET /search/discounted_price_range/{token}?min=&max=
func (h *SearchHandler) ByPriceRange(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	min, ok := parseIntParam(w, r, "min")
	if !ok {
		return
	}
	max, ok := parseIntParam(w, r, "max")
	if !ok {
		return
	}

	items, err := h.service.ByPriceRange(r.Context(), token, min, max)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: items})
}

// ByRatingOrPrice handles GET /search/price_or_rating/{token}?min_rating=&max_price=
func (h *SearchHandler) ByRatingOrPrice(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	raw := r.URL.Query().Get("min_rating")
	minRating, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "min_rating must be a number: " + raw},
		})
		return
	}

	maxPrice, ok := parseIntParam(w, r, "max_price")
	if !ok {
		return
	}

	items, err := h.service.ByRatingOrPrice(r.Context(), token, minRating, maxPrice)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: items})
}

// ByTags handles GET /search/tags/{token}?tag=a&tag=b
func (h *SearchHandler) ByTags(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	tags := r.URL.Query()["tag"]

	items, err := h.service.ByTags(r.Context(), token, tags)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: items})
}

func parseIntParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: name + " must be an integer: " + raw},
		})
		return 0, false
	}
	return v, true
}
