// Package schema declares which record fields are indexed and how. The
// declarations are static, validated once during startup, and consulted by
// the query compiler so that a predicate can never be built against a field
// that does not support the requested operation.
package schema

import (
	"fmt"

	"github.com/iamvishalkhare/redisearch-product-catalog/internal/domain"
)

// IndexKind is one way a field can be indexed. A field may carry several
// kinds at once (e.g. title is both Exact and FullText).
type IndexKind uint8

const (
	// Unindexed fields are stored but cannot appear in predicates.
	Unindexed IndexKind = iota
	// Exact supports equality lookup only.
	Exact
	// Range supports ordered comparison (>=, <=) on numeric fields.
	Range
	// Set supports intersection tests against an ordered string sequence.
	Set
	// FullText supports tokenized term containment queries.
	FullText
)

func (k IndexKind) String() string {
	switch k {
	case Unindexed:
		return "unindexed"
	case Exact:
		return "exact"
	case Range:
		return "range"
	case Set:
		return "set"
	case FullText:
		return "full-text"
	default:
		return fmt.Sprintf("IndexKind(%d)", uint8(k))
	}
}

// FieldType is the stored value type of a field.
type FieldType uint8

const (
	String FieldType = iota
	Int
	Float
	Strings
)

func (t FieldType) String() string {
	switch t {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Strings:
		return "strings"
	default:
		return fmt.Sprintf("FieldType(%d)", uint8(t))
	}
}

// Field declares one record field: its storage name, value type, and the
// index kinds it carries.
type Field struct {
	Name  string
	Type  FieldType
	Kinds []IndexKind
}

// Has reports whether the field carries the given index kind.
func (f Field) Has(kind IndexKind) bool {
	for _, k := range f.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Collection declares one record collection: where its entries live in the
// store and how each field is indexed.
type Collection struct {
	Name      string
	KeyPrefix string
	IndexName string
	Fields    []Field
}

// Field returns the declaration for the named field.
func (c *Collection) Field(name string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Supports reports whether the named field exists and carries the given
// index kind.
func (c *Collection) Supports(name string, kind IndexKind) bool {
	f, ok := c.Field(name)
	return ok && f.Has(kind)
}

// Validate checks the declaration for configuration errors. It is run during
// service initialization; a failure here must keep the service from opening
// for traffic.
func (c *Collection) Validate() error {
	if c.Name == "" || c.KeyPrefix == "" || c.IndexName == "" {
		return fmt.Errorf("schema: collection %q: name, key prefix and index name are required", c.Name)
	}

	seen := make(map[string]bool, len(c.Fields))
	for _, f := range c.Fields {
		if f.Name == "" {
			return fmt.Errorf("schema: collection %q: field with empty name", c.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("schema: collection %q: duplicate field %q", c.Name, f.Name)
		}
		seen[f.Name] = true

		if len(f.Kinds) == 0 {
			return fmt.Errorf("schema: collection %q: field %q declares no index kind", c.Name, f.Name)
		}

		for _, k := range f.Kinds {
			if err := checkKind(f, k); err != nil {
				return fmt.Errorf("schema: collection %q: %w", c.Name, err)
			}
			if k == Unindexed && len(f.Kinds) > 1 {
				return fmt.Errorf("schema: collection %q: field %q mixes unindexed with other kinds", c.Name, f.Name)
			}
		}
	}
	return nil
}

func checkKind(f Field, k IndexKind) error {
	switch k {
	case Unindexed:
		return nil
	case Exact:
		if f.Type == Strings {
			return fmt.Errorf("field %q: exact index requires a scalar type, got %s", f.Name, f.Type)
		}
		return nil
	case Range:
		if f.Type != Int && f.Type != Float {
			return fmt.Errorf("field %q: range index requires a numeric type, got %s", f.Name, f.Type)
		}
		return nil
	case Set:
		if f.Type != Strings {
			return fmt.Errorf("field %q: set index requires a string sequence, got %s", f.Name, f.Type)
		}
		return nil
	case FullText:
		if f.Type != String {
			return fmt.Errorf("field %q: full-text index requires a string type, got %s", f.Name, f.Type)
		}
		return nil
	default:
		return fmt.Errorf("field %q: unknown index kind %d", f.Name, k)
	}
}

// Tenants returns the static schema declaration for the tenant collection.
func Tenants() *Collection {
	return &Collection{
		Name:      "tenants",
		KeyPrefix: "tenant:",
		IndexName: "idx:tenants",
		Fields: []Field{
			{Name: domain.TenantFieldName, Type: String, Kinds: []IndexKind{Exact}},
			{Name: domain.TenantFieldDescription, Type: String, Kinds: []IndexKind{Unindexed}},
			{Name: domain.TenantFieldEmail, Type: String, Kinds: []IndexKind{Exact}},
			{Name: domain.TenantFieldTags, Type: Strings, Kinds: []IndexKind{Set}},
		},
	}
}

// Items returns the static schema declaration for the catalog item
// collection. The embedded price is flattened into discounted_price and mrp
// so both figures are range-indexable.
func Items() *Collection {
	return &Collection{
		Name:      "items",
		KeyPrefix: "item:",
		IndexName: "idx:items",
		Fields: []Field{
			{Name: domain.ItemFieldCompany, Type: String, Kinds: []IndexKind{Exact}},
			{Name: domain.ItemFieldDescription, Type: String, Kinds: []IndexKind{Exact, FullText}},
			{Name: domain.ItemFieldImageURL, Type: String, Kinds: []IndexKind{Unindexed}},
			{Name: domain.ItemFieldCurrency, Type: String, Kinds: []IndexKind{Unindexed}},
			{Name: domain.ItemFieldDiscountedPrice, Type: Int, Kinds: []IndexKind{Range}},
			{Name: domain.ItemFieldMRP, Type: Int, Kinds: []IndexKind{Range}},
			{Name: domain.ItemFieldRating, Type: Float, Kinds: []IndexKind{Range}},
			{Name: domain.ItemFieldSkuID, Type: Int, Kinds: []IndexKind{Exact}},
			{Name: domain.ItemFieldSkuURL, Type: String, Kinds: []IndexKind{Unindexed}},
			{Name: domain.ItemFieldTags, Type: Strings, Kinds: []IndexKind{Set}},
			{Name: domain.ItemFieldTitle, Type: String, Kinds: []IndexKind{Exact, FullText}},
			{Name: domain.ItemFieldOwnerTenantID, Type: String, Kinds: []IndexKind{Exact}},
		},
	}
}
