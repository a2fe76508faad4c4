// Package redis implements the record store on Redis with the RediSearch
// module: records persist as hashes, indexes are declared from the schema
// registry, and predicate trees compile to FT.SEARCH query syntax.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	apperrors "github.com/iamvishalkhare/redisearch-product-catalog/pkg/errors"

	"github.com/iamvishalkhare/redisearch-product-catalog/internal/domain"
	"github.com/iamvishalkhare/redisearch-product-catalog/internal/query"
	"github.com/iamvishalkhare/redisearch-product-catalog/internal/schema"
)

// maxSearchResults bounds FT.SEARCH result pages. RediSearch defaults to 10;
// the service has no pagination surface, so one large page stands in for
// "all matches".
const maxSearchResults = 10000

// emailKeyPrefix guards tenant email uniqueness. RediSearch indexes carry no
// unique constraint and a search-then-write pair races under concurrent
// registration, so the store reserves the email with SETNX before writing
// the tenant hash.
const emailKeyPrefix = "tenant:email:"

// Store is the Redis-backed implementation of store.Store.
type Store struct {
	client  *redis.Client
	tenants *schema.Collection
	items   *schema.Collection
	logger  *slog.Logger
}

// New creates a Redis-backed store from the given client and schema
// declarations.
func New(client *redis.Client, tenants, items *schema.Collection, logger *slog.Logger) *Store {
	return &Store{
		client:  client,
		tenants: tenants,
		items:   items,
		logger:  logger,
	}
}

// Ping checks whether Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// EnsureSchema creates the tenant and item search indexes from the schema
// registry declarations. Safe to call repeatedly; an existing index is left
// untouched.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, col := range []*schema.Collection{s.tenants, s.items} {
		if err := s.ensureIndex(ctx, col); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) ensureIndex(ctx context.Context, col *schema.Collection) error {
	options := &redis.FTCreateOptions{
		OnHash: true,
		Prefix: []interface{}{col.KeyPrefix},
	}

	err := s.client.FTCreate(ctx, col.IndexName, options, fieldSchemas(col)...).Err()
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "index already exists") {
			s.logger.Info("search index already exists", slog.String("index", col.IndexName))
			return nil
		}
		return fmt.Errorf("redis: create index %s: %w", col.IndexName, err)
	}

	s.logger.Info("search index created", slog.String("index", col.IndexName))
	return nil
}

// fieldSchemas maps a collection declaration onto RediSearch attributes.
// Exact string fields become TAG attributes, range and exact-int fields
// become NUMERIC, full-text fields become TEXT; a field that is both exact
// and full-text is indexed twice, with its verbatim TAG view under the
// "_exact" alias.
func fieldSchemas(col *schema.Collection) []*redis.FieldSchema {
	var out []*redis.FieldSchema
	for _, f := range col.Fields {
		if f.Has(schema.Unindexed) {
			continue
		}

		if f.Has(schema.FullText) {
			out = append(out, &redis.FieldSchema{
				FieldName: f.Name,
				FieldType: redis.SearchFieldTypeText,
			})
			if f.Has(schema.Exact) {
				out = append(out, &redis.FieldSchema{
					FieldName: f.Name,
					As:        f.Name + exactAlias,
					FieldType: redis.SearchFieldTypeTag,
				})
			}
			continue
		}

		switch {
		case f.Has(schema.Range):
			out = append(out, &redis.FieldSchema{
				FieldName: f.Name,
				FieldType: redis.SearchFieldTypeNumeric,
				Sortable:  true,
			})
		case f.Has(schema.Exact) && (f.Type == schema.Int || f.Type == schema.Float):
			out = append(out, &redis.FieldSchema{
				FieldName: f.Name,
				FieldType: redis.SearchFieldTypeNumeric,
			})
		case f.Has(schema.Exact):
			out = append(out, &redis.FieldSchema{
				FieldName: f.Name,
				FieldType: redis.SearchFieldTypeTag,
			})
		case f.Has(schema.Set):
			out = append(out, &redis.FieldSchema{
				FieldName: f.Name,
				FieldType: redis.SearchFieldTypeTag,
				Separator: tagSeparator,
			})
		}
	}
	return out
}

// CreateTenant reserves the tenant's email, assigns an id, and persists the
// tenant hash. The reservation makes the email-uniqueness invariant hold
// under concurrent registrations.
func (s *Store) CreateTenant(ctx context.Context, tenant *domain.Tenant) (string, error) {
	if tenant.ID == "" {
		tenant.ID = uuid.NewString()
	}

	reserved, err := s.client.SetNX(ctx, emailKeyPrefix+tenant.Email, tenant.ID, 0).Result()
	if err != nil {
		return "", fmt.Errorf("redis: reserve email: %w", err)
	}
	if !reserved {
		return "", apperrors.DuplicateEmail(tenant.Email)
	}

	key := s.tenants.KeyPrefix + tenant.ID
	if err := s.client.HSet(ctx, key, tenantToMap(tenant)).Err(); err != nil {
		// Release the reservation so the email is not burned by a failed write.
		_ = s.client.Del(ctx, emailKeyPrefix+tenant.Email).Err()
		return "", fmt.Errorf("redis: save tenant: %w", err)
	}

	return tenant.ID, nil
}

// GetTenant looks a tenant up by id.
func (s *Store) GetTenant(ctx context.Context, id string) (*domain.Tenant, error) {
	fields, err := s.client.HGetAll(ctx, s.tenants.KeyPrefix+id).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: get tenant: %w", err)
	}
	if len(fields) == 0 {
		return nil, apperrors.NotFound(fmt.Sprintf("no customer with token %q found", id))
	}
	return tenantFromMap(fields), nil
}

// SaveItem inserts or overwrites an item hash. Writing a fresh hash value
// clears any TTL pending on the key only when the key is new; an in-place
// update intentionally preserves a previously requested expiry.
func (s *Store) SaveItem(ctx context.Context, item *domain.CatalogItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	key := s.items.KeyPrefix + item.ID
	if err := s.client.HSet(ctx, key, itemToMap(item)).Err(); err != nil {
		return fmt.Errorf("redis: save item: %w", err)
	}
	return nil
}

// FindItems compiles the spec and executes it against the item index.
func (s *Store) FindItems(ctx context.Context, spec query.Spec) ([]domain.CatalogItem, error) {
	q, err := compile(spec.Expr, s.items)
	if err != nil {
		return nil, err
	}

	options := &redis.FTSearchOptions{
		LimitOffset: 0,
		Limit:       maxSearchResults,
	}
	if spec.Sort != nil {
		options.SortBy = []redis.FTSearchSortBy{{
			FieldName: spec.Sort.Field,
			Asc:       spec.Sort.Asc,
			Desc:      !spec.Sort.Asc,
		}}
	}

	res, err := s.client.FTSearchWithArgs(ctx, s.items.IndexName, q, options).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: search %q: %w", q, err)
	}

	items := make([]domain.CatalogItem, 0, len(res.Docs))
	for _, doc := range res.Docs {
		item, err := itemFromMap(doc.Fields)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// DeleteItems removes every item matching the spec.
func (s *Store) DeleteItems(ctx context.Context, spec query.Spec) (int, error) {
	items, err := s.FindItems(ctx, spec)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, item := range items {
		n, err := s.client.Del(ctx, s.items.KeyPrefix+item.ID).Result()
		if err != nil {
			return deleted, fmt.Errorf("redis: delete item %s: %w", item.ID, err)
		}
		deleted += int(n)
	}
	return deleted, nil
}

// ExpireItems applies a TTL to every matching item's key. Redis removes the
// key and its index entry autonomously once the TTL elapses; a non-positive
// TTL removes the key immediately, per EXPIRE semantics. Fire-and-forget:
// no verification of the eventual removal.
func (s *Store) ExpireItems(ctx context.Context, spec query.Spec, ttl time.Duration) (int, error) {
	items, err := s.FindItems(ctx, spec)
	if err != nil {
		return 0, err
	}

	marked := 0
	for _, item := range items {
		key := s.items.KeyPrefix + item.ID
		if ttl <= 0 {
			if err := s.client.Del(ctx, key).Err(); err != nil {
				return marked, fmt.Errorf("redis: expire item %s: %w", item.ID, err)
			}
		} else {
			if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
				return marked, fmt.Errorf("redis: expire item %s: %w", item.ID, err)
			}
		}
		marked++
	}
	return marked, nil
}
