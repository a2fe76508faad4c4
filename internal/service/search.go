package service

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "github.com/iamvishalkhare/redisearch-product-catalog/pkg/errors"

	"github.com/iamvishalkhare/redisearch-product-catalog/internal/domain"
	"github.com/iamvishalkhare/redisearch-product-catalog/internal/query"
	"github.com/iamvishalkhare/redisearch-product-catalog/internal/store"
)

// SearchService implements the four catalog search modes. Every mode is
// scoped by the caller's token and reports an empty result as NotFound, the
// contract the HTTP binding maps to 404.
type SearchService struct {
	store   store.Store
	queries *query.Builder
	logger  *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(st store.Store, queries *query.Builder, logger *slog.Logger) *SearchService {
	return &SearchService{
		store:   st,
		queries: queries,
		logger:  logger,
	}
}

// ByTerm returns the items whose title or description contains the term.
func (s *SearchService) ByTerm(ctx context.Context, token, term string) ([]domain.CatalogItem, error) {
	if term == "" {
		return nil, apperrors.InvalidInput("search term is required")
	}

	spec, err := s.queries.ByTerm(token, term)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, spec, "term", term)
}

// ByPriceRange returns the items whose discounted price lies in [min, max].
// An inverted range matches nothing and reports NotFound, not an error.
func (s *SearchService) ByPriceRange(ctx context.Context, token string, min, max int64) ([]domain.CatalogItem, error) {
	spec, err := s.queries.ByPriceRange(token, min, max)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, spec, "price_range", fmt.Sprintf("[%d %d]", min, max))
}

// ByRatingOrPrice returns the items that are either rated at least minRating
// or discounted to at most maxPrice, ordered ascending by rating.
func (s *SearchService) ByRatingOrPrice(ctx context.Context, token string, minRating float64, maxPrice int64) ([]domain.CatalogItem, error) {
	spec, err := s.queries.ByRatingOrPrice(token, minRating, maxPrice)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, spec, "rating_or_price", fmt.Sprintf("[%g %d]", minRating, maxPrice))
}

// ByTags returns the items whose tag sequence intersects the requested set.
func (s *SearchService) ByTags(ctx context.Context, token string, tags []string) ([]domain.CatalogItem, error) {
	if len(tags) == 0 {
		return nil, apperrors.InvalidInput("at least one tag is required")
	}

	spec, err := s.queries.ByTags(token, tags)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, spec, "tags", fmt.Sprintf("%v", tags))
}

func (s *SearchService) find(ctx context.Context, spec query.Spec, mode, arg string) ([]domain.CatalogItem, error) {
	items, err := s.store.FindItems(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("search by %s: %w", mode, err)
	}
	if len(items) == 0 {
		return nil, apperrors.NotFound("no data found")
	}

	s.logger.DebugContext(ctx, "search executed",
		slog.String("mode", mode),
		slog.String("arg", arg),
		slog.Int("total", len(items)),
	)

	return items, nil
}
