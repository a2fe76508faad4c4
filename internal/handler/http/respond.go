package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/iamvishalkhare/redisearch-product-catalog/pkg/errors"
	"github.com/iamvishalkhare/redisearch-product-catalog/pkg/logger"
	"github.com/iamvishalkhare/redisearch-product-catalog/pkg/validator"
)

// response is the JSON envelope used by every endpoint.
type response struct {
	Data  any            `json:"data,omitempty"`
	Error *errorResponse `json:"error,omitempty"`
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error onto the envelope. AppErrors carry their own code
// and status; anything else is a 500 and gets logged with request context.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Status, response{
			Error: &errorResponse{Code: appErr.Code, Message: appErr.Message},
		})
		return
	}

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeValidationError(w, err)
		return
	}

	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		l := logger.FromContext(r.Context())
		if l == slog.Default() {
			l = fallback
		}
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		writeJSON(w, status, response{
			Error: &errorResponse{Code: "INTERNAL_ERROR", Message: "an internal error occurred"},
		})
		return
	}

	writeJSON(w, status, response{
		Error: &errorResponse{Code: codeForStatus(status), Message: err.Error()},
	})
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "DUPLICATE_EMAIL"
	case http.StatusUnauthorized:
		return "INVALID_TOKEN"
	case http.StatusBadRequest:
		return "INVALID_INPUT"
	default:
		return "INTERNAL_ERROR"
	}
}

// writeValidationError reports field-level validation failures.
func writeValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "request validation failed",
				Fields:  valErr.Fields(),
			},
		})
		return
	}

	writeJSON(w, http.StatusBadRequest, response{
		Error: &errorResponse{Code: "INVALID_INPUT", Message: err.Error()},
	})
}
