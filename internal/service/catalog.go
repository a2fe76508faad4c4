package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/iamvishalkhare/redisearch-product-catalog/pkg/errors"
	"github.com/iamvishalkhare/redisearch-product-catalog/pkg/validator"

	"github.com/iamvishalkhare/redisearch-product-catalog/internal/domain"
	"github.com/iamvishalkhare/redisearch-product-catalog/internal/query"
	"github.com/iamvishalkhare/redisearch-product-catalog/internal/store"
)

// MaxBatchSize is the per-call ceiling on ingested documents. It is not a
// global cap; a tenant may ingest any number of items across calls.
const MaxBatchSize = 30

// PriceInput is the embedded pricing payload of an ingested item.
type PriceInput struct {
	Currency        string `json:"currency" validate:"required"`
	DiscountedPrice int64  `json:"discounted_price" validate:"gte=0"`
	MRP             int64  `json:"mrp" validate:"gte=0"`
}

// ItemInput is one ingested SKU document.
type ItemInput struct {
	Company     string     `json:"company" validate:"required"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	Price       PriceInput `json:"price" validate:"required"`
	Rating      float64    `json:"ratings" validate:"gte=0,lte=5"`
	SkuID       int64      `json:"sku_id" validate:"required,gt=0"`
	SkuURL      string     `json:"sku_url" validate:"required"`
	Tags        []string   `json:"tags" validate:"required"`
	Title       string     `json:"title" validate:"required"`
}

// CatalogService implements ingestion, lookup, mutation, deletion, and
// expiry of catalog items.
type CatalogService struct {
	store   store.Store
	queries *query.Builder
	logger  *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(st store.Store, queries *query.Builder, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:   st,
		queries: queries,
		logger:  logger,
	}
}

// IngestItems validates and persists a batch of items under the given token.
// The tenant token must resolve, the batch must hold at most MaxBatchSize
// documents, and every item must pass the required-field checks. Items are
// saved one at a time: a validation failure on item N surfaces as an error,
// but items before N stay persisted. There is no compensating rollback.
func (s *CatalogService) IngestItems(ctx context.Context, token string, items []ItemInput) error {
	if _, err := s.store.GetTenant(ctx, token); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.InvalidToken(token)
		}
		return fmt.Errorf("ingest: resolve token: %w", err)
	}

	if len(items) > MaxBatchSize {
		return apperrors.BatchTooLarge(MaxBatchSize)
	}

	for i, input := range items {
		if err := validator.Validate(input); err != nil {
			return apperrors.Validation(fmt.Sprintf("item %d: %v", i, err))
		}

		item := &domain.CatalogItem{
			CompanyID:   input.Company,
			Description: input.Description,
			ImageURL:    input.ImageURL,
			Price: domain.Price{
				Currency:        input.Price.Currency,
				DiscountedPrice: input.Price.DiscountedPrice,
				MRP:             input.Price.MRP,
			},
			Rating: input.Rating,
			SkuID:  input.SkuID,
			SkuURL: input.SkuURL,
			Tags:   input.Tags,
			Title:  input.Title,
			// Ownership scoping is stamped here so every downstream
			// query can rely on it being present.
			OwnerTenantID: token,
		}

		if err := s.store.SaveItem(ctx, item); err != nil {
			return fmt.Errorf("ingest: save item %d: %w", i, err)
		}
	}

	s.logger.InfoContext(ctx, "sku data ingested",
		slog.String("token", token),
		slog.Int("count", len(items)),
	)

	return nil
}

// GetBySkuID returns the items with the given sku_id under the token.
func (s *CatalogService) GetBySkuID(ctx context.Context, token string, skuID int64) ([]domain.CatalogItem, error) {
	spec, err := s.queries.BySkuID(token, skuID)
	if err != nil {
		return nil, err
	}

	items, err := s.store.FindItems(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("get sku: %w", err)
	}
	if len(items) == 0 {
		return nil, apperrors.NotFound("no data found")
	}
	return items, nil
}

// UpdateDiscountedPrice sets the discounted price on every item with the
// given sku_id, across all tenants, and reports how many were updated.
// The operation is deliberately not tenant-scoped; a regression test
// documents the behavior.
func (s *CatalogService) UpdateDiscountedPrice(ctx context.Context, skuID int64, newPrice int64) (int, error) {
	spec, err := s.queries.BySkuIDAllTenants(skuID)
	if err != nil {
		return 0, err
	}

	items, err := s.store.FindItems(ctx, spec)
	if err != nil {
		return 0, fmt.Errorf("update discounted price: %w", err)
	}

	// Find-then-save loop: no snapshot isolation between the read and the
	// writes; the store's per-record write atomicity is all that is relied
	// upon.
	updated := 0
	for i := range items {
		items[i].Price.DiscountedPrice = newPrice
		if err := s.store.SaveItem(ctx, &items[i]); err != nil {
			return updated, fmt.Errorf("update discounted price: save item %s: %w", items[i].ID, err)
		}
		updated++
	}

	s.logger.InfoContext(ctx, "discounted price updated",
		slog.Int64("sku_id", skuID),
		slog.Int("count", updated),
	)

	return updated, nil
}

// DeleteByIdentifier removes the items matching the identifier under the
// token and reports how many were removed. The identifier matches the
// company field, not sku_id, and zero deletions is a normal outcome. Both
// behaviors are kept until the intended semantics are confirmed.
func (s *CatalogService) DeleteByIdentifier(ctx context.Context, token, identifier string) (int, error) {
	spec, err := s.queries.ByCompany(token, identifier)
	if err != nil {
		return 0, err
	}

	deleted, err := s.store.DeleteItems(ctx, spec)
	if err != nil {
		return 0, fmt.Errorf("delete sku: %w", err)
	}

	s.logger.InfoContext(ctx, "sku data deleted",
		slog.String("token", token),
		slog.String("identifier", identifier),
		slog.Int("count", deleted),
	)

	return deleted, nil
}

// ExpireItem asks the store to remove every item with the given sku_id under
// the token once ttlSeconds elapse. Fire-and-forget: the store performs the
// timed removal on its own and this service never verifies it. The TTL is
// caller-supplied and unvalidated; a non-positive value removes the entries
// immediately, per the store's EXPIRE semantics.
func (s *CatalogService) ExpireItem(ctx context.Context, token string, skuID int64, ttlSeconds int64) (int, error) {
	spec, err := s.queries.BySkuID(token, skuID)
	if err != nil {
		return 0, err
	}

	items, err := s.store.FindItems(ctx, spec)
	if err != nil {
		return 0, fmt.Errorf("expire sku: %w", err)
	}
	if len(items) == 0 {
		return 0, apperrors.NotFound("no data found")
	}

	marked, err := s.store.ExpireItems(ctx, spec, time.Duration(ttlSeconds)*time.Second)
	if err != nil {
		return 0, fmt.Errorf("expire sku: %w", err)
	}

	s.logger.InfoContext(ctx, "sku expiry requested",
		slog.String("token", token),
		slog.Int64("sku_id", skuID),
		slog.Int64("ttl_seconds", ttlSeconds),
		slog.Int("count", marked),
	)

	return marked, nil
}
