package http

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, path string, v any) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestDataLoader_Success(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "customers", "acme.json"), map[string]any{
		"name":  "acme",
		"email": "acme@example.com",
		"tags":  []string{"test"},
	})
	writeFixture(t, filepath.Join(dir, "skus", "sku_acme.json"),
		[]map[string]any{skuPayload(101), skuPayload(102)})

	router := setupRouterWithData(t, dir)

	rec := doJSON(t, router, http.MethodPost, "/dataloader", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeResponse(t, rec).Data.(map[string]any)
	assert.Equal(t, float64(1), data["tenants_created"])
	assert.Equal(t, float64(2), data["items_ingested"])
}

func TestDataLoader_NoFixturesIsError(t *testing.T) {
	router := setupRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/dataloader", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
}
