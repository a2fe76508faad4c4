package redis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iamvishalkhare/redisearch-product-catalog/internal/domain"
)

// tagSeparator joins set-indexed values inside a hash field. It matches the
// default RediSearch TAG separator.
const tagSeparator = ","

// tenantToMap flattens a tenant into hash fields.
func tenantToMap(t *domain.Tenant) map[string]any {
	return map[string]any{
		domain.TenantFieldID:          t.ID,
		domain.TenantFieldName:        t.Name,
		domain.TenantFieldDescription: t.Description,
		domain.TenantFieldEmail:       t.Email,
		domain.TenantFieldTags:        joinTags(t.Tags),
	}
}

// tenantFromMap rebuilds a tenant from hash fields.
func tenantFromMap(fields map[string]string) *domain.Tenant {
	return &domain.Tenant{
		ID:          fields[domain.TenantFieldID],
		Name:        fields[domain.TenantFieldName],
		Description: fields[domain.TenantFieldDescription],
		Email:       fields[domain.TenantFieldEmail],
		Tags:        splitTags(fields[domain.TenantFieldTags]),
	}
}

// itemToMap flattens a catalog item into hash fields. The embedded price is
// spread so discounted_price and mrp are range-indexable.
func itemToMap(item *domain.CatalogItem) map[string]any {
	return map[string]any{
		domain.ItemFieldID:              item.ID,
		domain.ItemFieldCompany:         item.CompanyID,
		domain.ItemFieldDescription:     item.Description,
		domain.ItemFieldImageURL:        item.ImageURL,
		domain.ItemFieldCurrency:        item.Price.Currency,
		domain.ItemFieldDiscountedPrice: strconv.FormatInt(item.Price.DiscountedPrice, 10),
		domain.ItemFieldMRP:             strconv.FormatInt(item.Price.MRP, 10),
		domain.ItemFieldRating:          strconv.FormatFloat(item.Rating, 'f', -1, 64),
		domain.ItemFieldSkuID:           strconv.FormatInt(item.SkuID, 10),
		domain.ItemFieldSkuURL:          item.SkuURL,
		domain.ItemFieldTags:            joinTags(item.Tags),
		domain.ItemFieldTitle:           item.Title,
		domain.ItemFieldOwnerTenantID:   item.OwnerTenantID,
	}
}

// itemFromMap rebuilds a catalog item from hash fields.
func itemFromMap(fields map[string]string) (domain.CatalogItem, error) {
	discounted, err := parseInt(fields, domain.ItemFieldDiscountedPrice)
	if err != nil {
		return domain.CatalogItem{}, err
	}
	mrp, err := parseInt(fields, domain.ItemFieldMRP)
	if err != nil {
		return domain.CatalogItem{}, err
	}
	skuID, err := parseInt(fields, domain.ItemFieldSkuID)
	if err != nil {
		return domain.CatalogItem{}, err
	}
	rating, err := parseFloat(fields, domain.ItemFieldRating)
	if err != nil {
		return domain.CatalogItem{}, err
	}

	return domain.CatalogItem{
		ID:          fields[domain.ItemFieldID],
		CompanyID:   fields[domain.ItemFieldCompany],
		Description: fields[domain.ItemFieldDescription],
		ImageURL:    fields[domain.ItemFieldImageURL],
		Price: domain.Price{
			Currency:        fields[domain.ItemFieldCurrency],
			DiscountedPrice: discounted,
			MRP:             mrp,
		},
		Rating:        rating,
		SkuID:         skuID,
		SkuURL:        fields[domain.ItemFieldSkuURL],
		Tags:          splitTags(fields[domain.ItemFieldTags]),
		Title:         fields[domain.ItemFieldTitle],
		OwnerTenantID: fields[domain.ItemFieldOwnerTenantID],
	}, nil
}

func parseInt(fields map[string]string, name string) (int64, error) {
	v, err := strconv.ParseInt(fields[name], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("redis: parse field %q: %w", name, err)
	}
	return v, nil
}

func parseFloat(fields map[string]string, name string) (float64, error) {
	v, err := strconv.ParseFloat(fields[name], 64)
	if err != nil {
		return 0, fmt.Errorf("redis: parse field %q: %w", name, err)
	}
	return v, nil
}

func joinTags(tags []string) string {
	return strings.Join(tags, tagSeparator)
}

func splitTags(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, tagSeparator)
}
