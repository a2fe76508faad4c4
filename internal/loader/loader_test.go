package loader

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamvishalkhare/redisearch-product-catalog/internal/query"
	"github.com/iamvishalkhare/redisearch-product-catalog/internal/schema"
	"github.com/iamvishalkhare/redisearch-product-catalog/internal/service"
	"github.com/iamvishalkhare/redisearch-product-catalog/internal/store/memory"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLoader(t *testing.T, dataDir string) (*Loader, *service.CatalogService) {
	t.Helper()
	st := memory.New()
	queries, err := query.NewBuilder(schema.Items())
	require.NoError(t, err)
	logger := testLogger()
	tenants := service.NewTenantService(st, logger)
	catalog := service.NewCatalogService(st, queries, logger)
	return New(dataDir, tenants, catalog, logger), catalog
}

func writeFixture(t *testing.T, path string, v any) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func customerFixture(email string) map[string]any {
	return map[string]any{
		"name":        "acme",
		"description": "Test customer",
		"email":       email,
		"tags":        []string{"test"},
	}
}

func skuFixture(skuID int64) map[string]any {
	return map[string]any{
		"company": "himalaya",
		"price": map[string]any{
			"currency":         "INR",
			"discounted_price": 150,
			"mrp":              200,
		},
		"ratings": 4.3,
		"sku_id":  skuID,
		"sku_url": "https://shop.example.com/item",
		"tags":    []string{"test"},
		"title":   "Test Item",
	}
}

func TestRun_LoadsCustomersAndSkus(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "customers", "acme.json"), customerFixture("acme@example.com"))
	writeFixture(t, filepath.Join(dir, "skus", "sku_acme.json"),
		[]map[string]any{skuFixture(101), skuFixture(102)})

	l, _ := newTestLoader(t, dir)

	summary, err := l.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TenantsCreated)
	assert.Equal(t, 2, summary.ItemsIngested)
	assert.Empty(t, summary.Skipped)
}

func TestRun_BatchesLargeSkuFiles(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "customers", "acme.json"), customerFixture("acme@example.com"))

	// More items than one ingest call accepts; the loader must chunk them.
	skus := make([]map[string]any, service.MaxBatchSize+5)
	for i := range skus {
		skus[i] = skuFixture(int64(i + 1))
	}
	writeFixture(t, filepath.Join(dir, "skus", "sku_acme.json"), skus)

	l, _ := newTestLoader(t, dir)

	summary, err := l.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, service.MaxBatchSize+5, summary.ItemsIngested)
}

func TestRun_SkipsAlreadyRegisteredCustomer(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "customers", "acme.json"), customerFixture("acme@example.com"))
	writeFixture(t, filepath.Join(dir, "skus", "sku_acme.json"), []map[string]any{skuFixture(101)})

	l, _ := newTestLoader(t, dir)

	_, err := l.Run(context.Background())
	require.NoError(t, err)

	// A second run sees the email already taken and skips the customer.
	summary, err := l.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.TenantsCreated)
	assert.Zero(t, summary.ItemsIngested)
	assert.Equal(t, []string{"acme"}, summary.Skipped)
}

func TestRun_NoFixtures(t *testing.T) {
	l, _ := newTestLoader(t, t.TempDir())

	summary, err := l.Run(context.Background())
	assert.Nil(t, summary)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no customer fixtures")
}

func TestRun_MissingSkuFile(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, filepath.Join(dir, "customers", "acme.json"), customerFixture("acme@example.com"))

	l, _ := newTestLoader(t, dir)

	_, err := l.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sku_acme.json")
}

func TestRun_MalformedCustomerFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "customers", "bad.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{{nope"), 0o644))

	l, _ := newTestLoader(t, dir)

	_, err := l.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}
