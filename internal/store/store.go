// Package store defines the record-store contract the service depends on.
// Implementations own all persisted state; the rest of the core only reads
// through predicates and writes whole records.
package store

import (
	"context"
	"time"

	"github.com/iamvishalkhare/redisearch-product-catalog/internal/domain"
	"github.com/iamvishalkhare/redisearch-product-catalog/internal/query"
)

// Store is the indexed record store backing the catalog. The redis backend
// is the production implementation; the memory backend evaluates the same
// predicates in process and simulates TTL expiry deterministically.
type Store interface {
	// EnsureSchema idempotently creates the tenant and item indexes from the
	// schema registry declarations. It runs once during service
	// initialization, decoupled from request handling.
	EnsureSchema(ctx context.Context) error

	// CreateTenant assigns an id and persists the tenant. It fails with
	// ErrDuplicateEmail when a tenant with the same email already exists.
	CreateTenant(ctx context.Context, tenant *domain.Tenant) (string, error)

	// GetTenant looks a tenant up by id. It fails with ErrNotFound when the
	// id does not resolve.
	GetTenant(ctx context.Context, id string) (*domain.Tenant, error)

	// SaveItem inserts the item, or overwrites it in place when its id
	// already exists.
	SaveItem(ctx context.Context, item *domain.CatalogItem) error

	// FindItems returns the items matching the spec. An empty result is a
	// normal outcome, not an error. Order is unspecified unless the spec
	// carries a sort key.
	FindItems(ctx context.Context, spec query.Spec) ([]domain.CatalogItem, error)

	// DeleteItems removes the items matching the spec and reports how many
	// were removed.
	DeleteItems(ctx context.Context, spec query.Spec) (int, error)

	// ExpireItems applies a time-to-live to each matching item's storage
	// entry and reports how many were marked. The store removes the entries
	// autonomously once the TTL elapses; a non-positive TTL removes them
	// immediately (Redis EXPIRE semantics).
	ExpireItems(ctx context.Context, spec query.Spec, ttl time.Duration) (int, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
