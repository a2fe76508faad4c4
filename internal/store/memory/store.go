// Package memory is an in-process implementation of the store contract. It
// evaluates predicate trees directly and simulates entry expiry with an
// injectable clock, which makes TTL behavior deterministic in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/iamvishalkhare/redisearch-product-catalog/pkg/errors"

	"github.com/iamvishalkhare/redisearch-product-catalog/internal/domain"
	"github.com/iamvishalkhare/redisearch-product-catalog/internal/query"
)

// entry wraps a stored item with its optional expiry deadline.
type entry struct {
	item      domain.CatalogItem
	expiresAt *time.Time
}

// Store is an in-memory implementation of store.Store.
// Thread-safe via sync.RWMutex.
type Store struct {
	mu      sync.RWMutex
	tenants map[string]domain.Tenant
	items   map[string]entry
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the wall clock. Tests advance it to simulate TTL
// expiry without sleeping.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty in-memory store.
func New(opts ...Option) *Store {
	s := &Store{
		tenants: make(map[string]domain.Tenant),
		items:   make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureSchema is a no-op: the in-memory store indexes nothing ahead of time.
func (s *Store) EnsureSchema(_ context.Context) error {
	return nil
}

// CreateTenant assigns the given tenant's id (when empty) and persists it,
// enforcing email uniqueness.
func (s *Store) CreateTenant(_ context.Context, tenant *domain.Tenant) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tenants {
		if t.Email == tenant.Email {
			return "", apperrors.DuplicateEmail(tenant.Email)
		}
	}

	if tenant.ID == "" {
		tenant.ID = newID()
	}
	s.tenants[tenant.ID] = *tenant
	return tenant.ID, nil
}

// GetTenant looks a tenant up by id.
func (s *Store) GetTenant(_ context.Context, id string) (*domain.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tenants[id]
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("no customer with token %q found", id))
	}
	out := t
	return &out, nil
}

// SaveItem inserts or overwrites an item by id. An in-place update keeps any
// pending expiry on the entry, mirroring how a hash write preserves the
// key's TTL in Redis.
func (s *Store) SaveItem(_ context.Context, item *domain.CatalogItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = newID()
	}
	e := s.items[item.ID]
	e.item = *item
	s.items[item.ID] = e
	return nil
}

// FindItems evaluates the spec against all live entries.
func (s *Store) FindItems(_ context.Context, spec query.Spec) ([]domain.CatalogItem, error) {
	s.purgeExpired()

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.CatalogItem, 0)
	for _, e := range s.items {
		ok, err := eval(spec.Expr, e.item)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, e.item)
		}
	}

	if spec.Sort != nil {
		if err := sortItems(matched, *spec.Sort); err != nil {
			return nil, err
		}
	}

	return matched, nil
}

// DeleteItems removes all entries matching the spec.
func (s *Store) DeleteItems(_ context.Context, spec query.Spec) (int, error) {
	s.purgeExpired()

	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, e := range s.items {
		ok, err := eval(spec.Expr, e.item)
		if err != nil {
			return 0, err
		}
		if ok {
			delete(s.items, id)
			deleted++
		}
	}
	return deleted, nil
}

// ExpireItems marks matching entries for removal after the TTL elapses.
// A non-positive TTL removes them immediately, mirroring Redis EXPIRE.
func (s *Store) ExpireItems(_ context.Context, spec query.Spec, ttl time.Duration) (int, error) {
	s.purgeExpired()

	s.mu.Lock()
	defer s.mu.Unlock()

	marked := 0
	for id, e := range s.items {
		ok, err := eval(spec.Expr, e.item)
		if err != nil {
			return 0, err
		}
		if !ok {
			continue
		}
		if ttl <= 0 {
			delete(s.items, id)
		} else {
			deadline := s.now().Add(ttl)
			e.expiresAt = &deadline
			s.items[id] = e
		}
		marked++
	}
	return marked, nil
}

func newID() string {
	return uuid.NewString()
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// purgeExpired drops entries whose deadline has passed.
func (s *Store) purgeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, e := range s.items {
		if e.expiresAt != nil && !now.Before(*e.expiresAt) {
			delete(s.items, id)
		}
	}
}

// eval walks the predicate tree against a single item.
func eval(e query.Expr, item domain.CatalogItem) (bool, error) {
	switch n := e.(type) {
	case query.And:
		for _, child := range n.Exprs {
			ok, err := eval(child, item)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case query.Or:
		for _, child := range n.Exprs {
			ok, err := eval(child, item)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case query.Eq:
		return evalEq(n, item)
	case query.Ge:
		v, err := numericField(n.Field, item)
		if err != nil {
			return false, err
		}
		return v >= n.Value, nil
	case query.Le:
		v, err := numericField(n.Field, item)
		if err != nil {
			return false, err
		}
		return v <= n.Value, nil
	case query.Match:
		v, err := textField(n.Field, item)
		if err != nil {
			return false, err
		}
		return strings.Contains(strings.ToLower(v), strings.ToLower(n.Term)), nil
	case query.AnyTag:
		if n.Field != domain.ItemFieldTags {
			return false, fmt.Errorf("memory: field %q is not set-indexed", n.Field)
		}
		for _, want := range n.Tags {
			for _, have := range item.Tags {
				if have == want {
					return true, nil
				}
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("memory: unknown expression %T", e)
	}
}

func evalEq(n query.Eq, item domain.CatalogItem) (bool, error) {
	switch n.Field {
	case domain.ItemFieldSkuID:
		want, ok := n.Value.(int64)
		if !ok {
			return false, fmt.Errorf("memory: field %q expects int64, got %T", n.Field, n.Value)
		}
		return item.SkuID == want, nil
	case domain.ItemFieldOwnerTenantID, domain.ItemFieldCompany, domain.ItemFieldTitle, domain.ItemFieldDescription:
		want, ok := n.Value.(string)
		if !ok {
			return false, fmt.Errorf("memory: field %q expects string, got %T", n.Field, n.Value)
		}
		v, err := textField(n.Field, item)
		if err != nil {
			return false, err
		}
		return v == want, nil
	default:
		return false, fmt.Errorf("memory: field %q is not exact-indexed", n.Field)
	}
}

func textField(name string, item domain.CatalogItem) (string, error) {
	switch name {
	case domain.ItemFieldCompany:
		return item.CompanyID, nil
	case domain.ItemFieldDescription:
		return item.Description, nil
	case domain.ItemFieldTitle:
		return item.Title, nil
	case domain.ItemFieldOwnerTenantID:
		return item.OwnerTenantID, nil
	default:
		return "", fmt.Errorf("memory: unknown text field %q", name)
	}
}

func numericField(name string, item domain.CatalogItem) (float64, error) {
	switch name {
	case domain.ItemFieldDiscountedPrice:
		return float64(item.Price.DiscountedPrice), nil
	case domain.ItemFieldMRP:
		return float64(item.Price.MRP), nil
	case domain.ItemFieldRating:
		return item.Rating, nil
	case domain.ItemFieldSkuID:
		return float64(item.SkuID), nil
	default:
		return 0, fmt.Errorf("memory: unknown numeric field %q", name)
	}
}

func sortItems(items []domain.CatalogItem, key query.Sort) error {
	// Only numeric sort keys are requested today.
	if _, err := numericField(key.Field, domain.CatalogItem{}); err != nil {
		return err
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, _ := numericField(key.Field, items[i])
		b, _ := numericField(key.Field, items[j])
		if key.Asc {
			return a < b
		}
		return a > b
	})
	return nil
}
