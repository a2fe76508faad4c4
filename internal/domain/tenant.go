package domain

// Tenant is an onboarded customer owning a namespace of catalog items.
// Its store-generated ID doubles as the API token presented on every
// tenant-scoped call.
type Tenant struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Email       string   `json:"email"`
	Tags        []string `json:"tags"`
}

// Tenant field names as persisted in the store. The schema registry and the
// query compiler refer to fields by these names.
const (
	TenantFieldID          = "id"
	TenantFieldName        = "name"
	TenantFieldDescription = "description"
	TenantFieldEmail       = "email"
	TenantFieldTags        = "tags"
)
