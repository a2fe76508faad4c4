package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Created(t *testing.T) {
	router := setupRouter(t)

	token := registerCustomer(t, router, "ops@tata1mg.com")
	assert.NotEmpty(t, token)
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	router := setupRouter(t)
	registerCustomer(t, router, "dup@example.com")

	rec := doJSON(t, router, http.MethodPost, "/customer/register", map[string]any{
		"name":  "other",
		"email": "dup@example.com",
		"tags":  []string{"x"},
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DUPLICATE_EMAIL", resp.Error.Code)
}

func TestRegister_MissingFields(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/customer/register", map[string]any{
		"name": "incomplete",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "Email")
	assert.Contains(t, resp.Error.Fields, "Tags")
}

func TestRegister_MalformedJSON(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/customer/register", "{{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCustomer_Success(t *testing.T) {
	router := setupRouter(t)
	token := registerCustomer(t, router, "ops@tata1mg.com")

	rec := doJSON(t, router, http.MethodGet, "/customer/"+token, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "tata1mg", data["name"])
	assert.Equal(t, "ops@tata1mg.com", data["email"])
}

func TestGetCustomer_UnknownToken(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/customer/no-such-token", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}
