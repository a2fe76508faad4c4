package domain

// Price is the embedded pricing value of a catalog item. Currency is carried
// but not indexed; both price figures are integer minor units.
type Price struct {
	Currency        string `json:"currency"`
	DiscountedPrice int64  `json:"discounted_price"`
	MRP             int64  `json:"mrp"`
}

// CatalogItem is a single product record (SKU), owned by the tenant under
// whose token it was ingested. SkuID is a tenant-scoped external identifier
// and is not globally unique.
type CatalogItem struct {
	ID            string   `json:"id"`
	CompanyID     string   `json:"company"`
	Description   string   `json:"description,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
	Price         Price    `json:"price"`
	Rating        float64  `json:"rating"`
	SkuID         int64    `json:"sku_id"`
	SkuURL        string   `json:"sku_url"`
	Tags          []string `json:"tags"`
	Title         string   `json:"title"`
	OwnerTenantID string   `json:"owner_tenant_id"`
}

// CatalogItem field names as persisted in the store. The embedded price is
// flattened so its figures are range-indexable.
const (
	ItemFieldID              = "id"
	ItemFieldCompany         = "company"
	ItemFieldDescription     = "description"
	ItemFieldImageURL        = "image_url"
	ItemFieldCurrency        = "currency"
	ItemFieldDiscountedPrice = "discounted_price"
	ItemFieldMRP             = "mrp"
	ItemFieldRating          = "rating"
	ItemFieldSkuID           = "sku_id"
	ItemFieldSkuURL          = "sku_url"
	ItemFieldTags            = "tags"
	ItemFieldTitle           = "title"
	ItemFieldOwnerTenantID   = "owner_tenant_id"
)
