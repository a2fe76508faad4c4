package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/iamvishalkhare/redisearch-product-catalog/pkg/errors"
)

func validItem(skuID int64) ItemInput {
	return ItemInput{
		Company:     "himalaya",
		Description: "Ayurvedic face wash with neem",
		ImageURL:    "https://img.example.com/facewash.jpg",
		Price: PriceInput{
			Currency:        "INR",
			DiscountedPrice: 150,
			MRP:             200,
		},
		Rating: 4.3,
		SkuID:  skuID,
		SkuURL: "https://shop.example.com/facewash",
		Tags:   []string{"skincare", "herbal"},
		Title:  "Himalaya Neem Face Wash",
	}
}

func registerTenant(t *testing.T, tenants *TenantService, email string) string {
	t.Helper()
	input := validRegistration()
	input.Email = email
	token, err := tenants.Register(context.Background(), input)
	require.NoError(t, err)
	return token
}

// ---------------------------------------------------------------------------
// IngestItems
// ---------------------------------------------------------------------------

func TestIngestItems_Success(t *testing.T) {
	tenants, catalog, _ := newTestServices(t)
	token := registerTenant(t, tenants, "a@example.com")

	err := catalog.IngestItems(context.Background(), token, []ItemInput{validItem(101), validItem(102)})
	require.NoError(t, err)

	items, err := catalog.GetBySkuID(context.Background(), token, 101)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, token, items[0].OwnerTenantID)
	assert.Equal(t, "himalaya", items[0].CompanyID)
}

func TestIngestItems_InvalidToken(t *testing.T) {
	_, catalog, _ := newTestServices(t)

	err := catalog.IngestItems(context.Background(), "bogus", []ItemInput{validItem(101)})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestIngestItems_BatchTooLarge(t *testing.T) {
	tenants, catalog, _ := newTestServices(t)
	token := registerTenant(t, tenants, "a@example.com")

	batch := make([]ItemInput, MaxBatchSize+1)
	for i := range batch {
		batch[i] = validItem(int64(i + 1))
	}

	err := catalog.IngestItems(context.Background(), token, batch)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBatchTooLarge)

	// Nothing from the oversized batch may have been persisted.
	_, err = catalog.GetBySkuID(context.Background(), token, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestIngestItems_ExactBatchLimit(t *testing.T) {
	tenants, catalog, _ := newTestServices(t)
	token := registerTenant(t, tenants, "a@example.com")

	batch := make([]ItemInput, MaxBatchSize)
	for i := range batch {
		batch[i] = validItem(int64(i + 1))
	}

	assert.NoError(t, catalog.IngestItems(context.Background(), token, batch))
}

func TestIngestItems_InvalidItemFails(t *testing.T) {
	tenants, catalog, _ := newTestServices(t)
	token := registerTenant(t, tenants, "a@example.com")

	bad := validItem(102)
	bad.Title = ""

	err := catalog.IngestItems(context.Background(), token, []ItemInput{validItem(101), bad})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestIngestItems_PartialPersistenceOnMidBatchFailure(t *testing.T) {
	tenants, catalog, _ := newTestServices(t)
	token := registerTenant(t, tenants, "a@example.com")

	bad := validItem(102)
	bad.SkuURL = ""

	err := catalog.IngestItems(context.Background(), token, []ItemInput{validItem(101), bad, validItem(103)})
	require.Error(t, err)

	// Items before the failing one stay persisted; the failing one and
	// everything after it do not.
	_, err = catalog.GetBySkuID(context.Background(), token, 101)
	assert.NoError(t, err)
	_, err = catalog.GetBySkuID(context.Background(), token, 102)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = catalog.GetBySkuID(context.Background(), token, 103)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestIngestItems_RatingOutOfRange(t *testing.T) {
	tenants, catalog, _ := newTestServices(t)
	token := registerTenant(t, tenants, "a@example.com")

	bad := validItem(101)
	bad.Rating = 5.5

	err := catalog.IngestItems(context.Background(), token, []ItemInput{bad})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

// ---------------------------------------------------------------------------
// GetBySkuID
// ---------------------------------------------------------------------------

func TestGetBySkuID_NotFound(t *testing.T) {
	tenants, catalog, _ := newTestServices(t)
	token := registerTenant(t, tenants, "a@example.com")

	items, err := catalog.GetBySkuID(context.Background(), token, 999)

	assert.Nil(t, items)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetBySkuID_ScopedByTenant(t *testing.T) {
	tenants, catalog, _ := newTestServices(t)
	tokenA := registerTenant(t, tenants, "a@example.com")
	tokenB := registerTenant(t, tenants, "b@example.com")

	require.NoError(t, catalog.IngestItems(context.Background(), tokenA, []ItemInput{validItem(101)}))

	_, err := catalog.GetBySkuID(context.Background(), tokenB, 101)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// ---------------------------------------------------------------------------
// UpdateDiscountedPrice
// ---------------------------------------------------------------------------

func TestUpdateDiscountedPrice_AppliesAcrossAllTenants(t *testing.T) {
	// The update takes no token and touches every tenant's copy of the
	// sku_id. Regression guard: do not scope this without changing the API.
	tenants, catalog, _ := newTestServices(t)
	tokenA := registerTenant(t, tenants, "a@example.com")
	tokenB := registerTenant(t, tenants, "b@example.com")

	require.NoError(t, catalog.IngestItems(context.Background(), tokenA, []ItemInput{validItem(101)}))
	require.NoError(t, catalog.IngestItems(context.Background(), tokenB, []ItemInput{validItem(101)}))

	updated, err := catalog.UpdateDiscountedPrice(context.Background(), 101, 99)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	for _, token := range []string{tokenA, tokenB} {
		items, err := catalog.GetBySkuID(context.Background(), token, 101)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, int64(99), items[0].Price.DiscountedPrice)
	}
}

func TestUpdateDiscountedPrice_NoMatch(t *testing.T) {
	_, catalog, _ := newTestServices(t)

	updated, err := catalog.UpdateDiscountedPrice(context.Background(), 999, 50)

	require.NoError(t, err)
	assert.Zero(t, updated)
}

// ---------------------------------------------------------------------------
// DeleteByIdentifier
// ---------------------------------------------------------------------------

func TestDeleteByIdentifier_MatchesCompanyField(t *testing.T) {
	tenants, catalog, _ := newTestServices(t)
	token := registerTenant(t, tenants, "a@example.com")

	dabur := validItem(103)
	dabur.Company = "dabur"
	require.NoError(t, catalog.IngestItems(context.Background(), token,
		[]ItemInput{validItem(101), validItem(102), dabur}))

	// The identifier resolves against the company field, so deleting by a
	// sku_id literal removes nothing.
	deleted, err := catalog.DeleteByIdentifier(context.Background(), token, "101")
	require.NoError(t, err)
	assert.Zero(t, deleted)

	deleted, err = catalog.DeleteByIdentifier(context.Background(), token, "himalaya")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	items, err := catalog.GetBySkuID(context.Background(), token, 103)
	require.NoError(t, err)
	assert.Equal(t, "dabur", items[0].CompanyID)
}

func TestDeleteByIdentifier_OtherTenantUntouched(t *testing.T) {
	tenants, catalog, _ := newTestServices(t)
	tokenA := registerTenant(t, tenants, "a@example.com")
	tokenB := registerTenant(t, tenants, "b@example.com")

	require.NoError(t, catalog.IngestItems(context.Background(), tokenA, []ItemInput{validItem(101)}))
	require.NoError(t, catalog.IngestItems(context.Background(), tokenB, []ItemInput{validItem(201)}))

	deleted, err := catalog.DeleteByIdentifier(context.Background(), tokenA, "himalaya")
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = catalog.GetBySkuID(context.Background(), tokenB, 201)
	assert.NoError(t, err)
}

// ---------------------------------------------------------------------------
// ExpireItem
// ---------------------------------------------------------------------------

func TestExpireItem_UnknownSku(t *testing.T) {
	tenants, catalog, _ := newTestServices(t)
	token := registerTenant(t, tenants, "a@example.com")

	marked, err := catalog.ExpireItem(context.Background(), token, 999, 60)

	assert.Zero(t, marked)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestExpireItem_ZeroTTLRemovesImmediately(t *testing.T) {
	tenants, catalog, _ := newTestServices(t)
	token := registerTenant(t, tenants, "a@example.com")

	require.NoError(t, catalog.IngestItems(context.Background(), token, []ItemInput{validItem(101)}))

	marked, err := catalog.ExpireItem(context.Background(), token, 101, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	_, err = catalog.GetBySkuID(context.Background(), token, 101)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestExpireItem_CountsEveryMatch(t *testing.T) {
	tenants, catalog, _ := newTestServices(t)
	token := registerTenant(t, tenants, "a@example.com")

	// Two documents sharing a sku_id are both expiry targets.
	require.NoError(t, catalog.IngestItems(context.Background(), token,
		[]ItemInput{validItem(101), validItem(101)}))

	marked, err := catalog.ExpireItem(context.Background(), token, 101, 3600)
	require.NoError(t, err)
	assert.Equal(t, 2, marked)
}

func TestIngestItems_ManyBatchesAccumulate(t *testing.T) {
	// The batch ceiling is per call, not a cap on a tenant's catalog size.
	tenants, catalog, _ := newTestServices(t)
	token := registerTenant(t, tenants, "a@example.com")

	next := int64(1)
	for batch := 0; batch < 3; batch++ {
		items := make([]ItemInput, MaxBatchSize)
		for i := range items {
			items[i] = validItem(next)
			next++
		}
		require.NoError(t, catalog.IngestItems(context.Background(), token, items),
			fmt.Sprintf("batch %d", batch))
	}

	_, err := catalog.GetBySkuID(context.Background(), token, 90)
	assert.NoError(t, err)
}
