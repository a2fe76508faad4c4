// Package query composes search predicates against indexed catalog item
// fields. Every composed predicate is ANDed with an owner-tenant equality so
// no query can observe another tenant's data; the single deliberate exception
// is the update-target lookup, which matches across tenants.
package query

import (
	"fmt"

	"github.com/iamvishalkhare/redisearch-product-catalog/internal/domain"
	"github.com/iamvishalkhare/redisearch-product-catalog/internal/schema"
)

// Expr is a node of a predicate expression tree. Backends either compile the
// tree to their native query syntax or evaluate it directly.
type Expr interface {
	isExpr()
}

// And matches records satisfying every child expression.
type And struct {
	Exprs []Expr
}

// Or matches records satisfying at least one child expression.
type Or struct {
	Exprs []Expr
}

// Eq is an equality test against an exact-match indexed field.
type Eq struct {
	Field string
	Value any // string or int64
}

// Ge is a lower-bound test (>=) against a range indexed field.
type Ge struct {
	Field string
	Value float64
}

// Le is an upper-bound test (<=) against a range indexed field.
type Le struct {
	Field string
	Value float64
}

// Match is a tokenized term-containment test against a full-text indexed
// field.
type Match struct {
	Field string
	Term  string
}

// AnyTag matches records whose set-indexed field shares at least one element
// with Tags.
type AnyTag struct {
	Field string
	Tags  []string
}

func (And) isExpr()    {}
func (Or) isExpr()     {}
func (Eq) isExpr()     {}
func (Ge) isExpr()     {}
func (Le) isExpr()     {}
func (Match) isExpr()  {}
func (AnyTag) isExpr() {}

// Sort names a sort key for a result set.
type Sort struct {
	Field string
	Asc   bool
}

// Spec is a complete, backend-agnostic query: the predicate tree plus
// optional ordering. Result order is unspecified unless Sort is set.
type Spec struct {
	Expr Expr
	Sort *Sort
}

// Builder composes the service's search shapes against the item collection,
// rejecting any predicate whose field does not carry the index kind the
// operation needs. Construction runs a dry build of every shape so that a
// bad schema declaration surfaces before the service opens for traffic.
type Builder struct {
	col *schema.Collection
}

// NewBuilder validates the collection declaration against every search shape
// and returns a builder bound to it.
func NewBuilder(col *schema.Collection) (*Builder, error) {
	if err := col.Validate(); err != nil {
		return nil, err
	}

	b := &Builder{col: col}

	// Dry-run each shape; a field/kind mismatch is a configuration error
	// and must fail startup, not a request.
	checks := []struct {
		name string
		run  func() error
	}{
		{"term search", func() error { _, err := b.ByTerm("t", "term"); return err }},
		{"price range search", func() error { _, err := b.ByPriceRange("t", 0, 1); return err }},
		{"rating-or-price search", func() error { _, err := b.ByRatingOrPrice("t", 1, 1); return err }},
		{"tag search", func() error { _, err := b.ByTags("t", []string{"a"}); return err }},
		{"identifier search", func() error { _, err := b.BySkuID("t", 1); return err }},
		{"unscoped identifier search", func() error { _, err := b.BySkuIDAllTenants(1); return err }},
		{"delete-target search", func() error { _, err := b.ByCompany("t", "c"); return err }},
	}
	for _, c := range checks {
		if err := c.run(); err != nil {
			return nil, fmt.Errorf("query: %s is unbuildable against schema %q: %w", c.name, col.Name, err)
		}
	}

	return b, nil
}

// Collection returns the schema the builder is bound to.
func (b *Builder) Collection() *schema.Collection {
	return b.col
}

// ByTerm matches items whose title or description contains the term,
// scoped by tenant.
func (b *Builder) ByTerm(token, term string) (Spec, error) {
	title, err := b.match(domain.ItemFieldTitle, term)
	if err != nil {
		return Spec{}, err
	}
	desc, err := b.match(domain.ItemFieldDescription, term)
	if err != nil {
		return Spec{}, err
	}
	scope, err := b.ownerScope(token)
	if err != nil {
		return Spec{}, err
	}
	return Spec{Expr: And{Exprs: []Expr{Or{Exprs: []Expr{title, desc}}, scope}}}, nil
}

// ByPriceRange matches items whose discounted price lies in [min, max],
// scoped by tenant. An inverted range is a valid query that matches nothing.
func (b *Builder) ByPriceRange(token string, min, max int64) (Spec, error) {
	lo, err := b.ge(domain.ItemFieldDiscountedPrice, float64(min))
	if err != nil {
		return Spec{}, err
	}
	hi, err := b.le(domain.ItemFieldDiscountedPrice, float64(max))
	if err != nil {
		return Spec{}, err
	}
	scope, err := b.ownerScope(token)
	if err != nil {
		return Spec{}, err
	}
	return Spec{Expr: And{Exprs: []Expr{lo, hi, scope}}}, nil
}

// ByRatingOrPrice matches items that are either rated at least minRating or
// discounted to at most maxPrice, scoped by tenant. Either clause alone
// admits a match. Results are ordered ascending by rating.
func (b *Builder) ByRatingOrPrice(token string, minRating float64, maxPrice int64) (Spec, error) {
	rated, err := b.ge(domain.ItemFieldRating, minRating)
	if err != nil {
		return Spec{}, err
	}
	cheap, err := b.le(domain.ItemFieldDiscountedPrice, float64(maxPrice))
	if err != nil {
		return Spec{}, err
	}
	scope, err := b.ownerScope(token)
	if err != nil {
		return Spec{}, err
	}
	return Spec{
		Expr: And{Exprs: []Expr{Or{Exprs: []Expr{rated, cheap}}, scope}},
		Sort: &Sort{Field: domain.ItemFieldRating, Asc: true},
	}, nil
}

// ByTags matches items whose tag sequence shares at least one element with
// the requested set, scoped by tenant.
func (b *Builder) ByTags(token string, tags []string) (Spec, error) {
	if len(tags) == 0 {
		return Spec{}, fmt.Errorf("query: tag search needs at least one tag")
	}
	if !b.col.Supports(domain.ItemFieldTags, schema.Set) {
		return Spec{}, b.unsupported(domain.ItemFieldTags, schema.Set)
	}
	scope, err := b.ownerScope(token)
	if err != nil {
		return Spec{}, err
	}
	any := AnyTag{Field: domain.ItemFieldTags, Tags: tags}
	return Spec{Expr: And{Exprs: []Expr{any, scope}}}, nil
}

// BySkuID is the identifier search: sku_id equality scoped by tenant. It
// backs direct lookup and expiry-target resolution.
func (b *Builder) BySkuID(token string, skuID int64) (Spec, error) {
	id, err := b.eq(domain.ItemFieldSkuID, skuID)
	if err != nil {
		return Spec{}, err
	}
	scope, err := b.ownerScope(token)
	if err != nil {
		return Spec{}, err
	}
	return Spec{Expr: And{Exprs: []Expr{id, scope}}}, nil
}

// BySkuIDAllTenants matches every item with the given sku_id across all
// tenants. Discounted-price updates apply store-wide; see the regression
// test documenting this before changing it.
func (b *Builder) BySkuIDAllTenants(skuID int64) (Spec, error) {
	id, err := b.eq(domain.ItemFieldSkuID, skuID)
	if err != nil {
		return Spec{}, err
	}
	return Spec{Expr: id}, nil
}

// ByCompany resolves delete targets: company equality scoped by tenant.
// The delete route is named "by sku id" but has always matched the company
// identifier; the behavior is kept until the intended semantics are
// confirmed.
func (b *Builder) ByCompany(token, identifier string) (Spec, error) {
	company, err := b.eq(domain.ItemFieldCompany, identifier)
	if err != nil {
		return Spec{}, err
	}
	scope, err := b.ownerScope(token)
	if err != nil {
		return Spec{}, err
	}
	return Spec{Expr: And{Exprs: []Expr{company, scope}}}, nil
}

func (b *Builder) ownerScope(token string) (Expr, error) {
	return b.eq(domain.ItemFieldOwnerTenantID, token)
}

func (b *Builder) eq(field string, value any) (Expr, error) {
	if !b.col.Supports(field, schema.Exact) {
		return nil, b.unsupported(field, schema.Exact)
	}
	return Eq{Field: field, Value: value}, nil
}

func (b *Builder) ge(field string, value float64) (Expr, error) {
	if !b.col.Supports(field, schema.Range) {
		return nil, b.unsupported(field, schema.Range)
	}
	return Ge{Field: field, Value: value}, nil
}

func (b *Builder) le(field string, value float64) (Expr, error) {
	if !b.col.Supports(field, schema.Range) {
		return nil, b.unsupported(field, schema.Range)
	}
	return Le{Field: field, Value: value}, nil
}

func (b *Builder) match(field, term string) (Expr, error) {
	if !b.col.Supports(field, schema.FullText) {
		return nil, b.unsupported(field, schema.FullText)
	}
	return Match{Field: field, Term: term}, nil
}

func (b *Builder) unsupported(field string, kind schema.IndexKind) error {
	return fmt.Errorf("query: field %q does not carry a %s index", field, kind)
}
