// Package loader seeds the catalog from JSON fixture files: one customer
// file per tenant plus a matching SKU file, ingested through the same
// services the API uses.
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/iamvishalkhare/redisearch-product-catalog/pkg/errors"

	"github.com/iamvishalkhare/redisearch-product-catalog/internal/service"
)

// Loader registers sample tenants and ingests their SKU data.
type Loader struct {
	dataDir string
	tenants *service.TenantService
	catalog *service.CatalogService
	logger  *slog.Logger
}

// Summary reports what a load run did.
type Summary struct {
	TenantsCreated int      `json:"tenants_created"`
	ItemsIngested  int      `json:"items_ingested"`
	Skipped        []string `json:"skipped,omitempty"`
}

// New creates a loader rooted at dataDir. Customer fixtures live in
// dataDir/customers/<name>.json; each customer's SKUs in
// dataDir/skus/sku_<name>.json.
func New(dataDir string, tenants *service.TenantService, catalog *service.CatalogService, logger *slog.Logger) *Loader {
	return &Loader{
		dataDir: dataDir,
		tenants: tenants,
		catalog: catalog,
		logger:  logger,
	}
}

// Run loads every customer fixture and its SKU data. A customer whose email
// is already registered is skipped rather than failing the run, so the
// loader can be invoked repeatedly.
func (l *Loader) Run(ctx context.Context) (*Summary, error) {
	pattern := filepath.Join(l.dataDir, "customers", "*.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("loader: glob %s: %w", pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("loader: no customer fixtures under %s", pattern)
	}

	summary := &Summary{}
	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".json")
		if err := l.loadCustomer(ctx, name, file, summary); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

func (l *Loader) loadCustomer(ctx context.Context, name, file string, summary *Summary) error {
	var input service.RegisterTenantInput
	if err := readJSON(file, &input); err != nil {
		return err
	}

	token, err := l.tenants.Register(ctx, input)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateEmail) {
			l.logger.WarnContext(ctx, "customer already registered, skipping",
				slog.String("customer", name),
			)
			summary.Skipped = append(summary.Skipped, name)
			return nil
		}
		return fmt.Errorf("loader: register %s: %w", name, err)
	}
	summary.TenantsCreated++

	skuFile := filepath.Join(l.dataDir, "skus", "sku_"+name+".json")
	var items []service.ItemInput
	if err := readJSON(skuFile, &items); err != nil {
		return err
	}

	// Fixture files may exceed the per-call ceiling; ingest in batches.
	for start := 0; start < len(items); start += service.MaxBatchSize {
		end := start + service.MaxBatchSize
		if end > len(items) {
			end = len(items)
		}
		if err := l.catalog.IngestItems(ctx, token, items[start:end]); err != nil {
			return fmt.Errorf("loader: ingest %s items [%d:%d]: %w", name, start, end, err)
		}
		summary.ItemsIngested += end - start
	}

	l.logger.InfoContext(ctx, "sample data loaded",
		slog.String("customer", name),
		slog.Int("items", len(items)),
	)
	return nil
}

func readJSON(file string, dst any) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("loader: read %s: %w", file, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("loader: parse %s: %w", file, err)
	}
	return nil
}
