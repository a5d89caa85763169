package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiprotich/tillpoint-api/internal/domain/entity"
)

func testProduct(name, code string, price int64, stock, taxRate int) *entity.Product {
	return &entity.Product{
		ID:           uuid.New(),
		Name:         name,
		Code:         code,
		SellingPrice: price,
		Stock:        stock,
		TaxRate:      taxRate,
	}
}

func TestCartAddItem_NewLine(t *testing.T) {
	soda := testProduct("Soda", "SKU-1", 250, 10, 16)
	carts := NewCartService(newFakeProductRepo(soda))

	view, err := carts.AddItem(context.Background(), "REG-001", soda.ID, 2)
	require.NoError(t, err)

	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Quantity)
	assert.Equal(t, "Soda", view.Lines[0].ProductName)
	assert.Empty(t, view.Warning)
	assert.Equal(t, 5.00, view.SubTotal)
}

func TestCartAddItem_ZeroQuantityAddsOneUnit(t *testing.T) {
	soda := testProduct("Soda", "SKU-1", 250, 10, 0)
	carts := NewCartService(newFakeProductRepo(soda))

	// A scan without an explicit count means one unit
	view, err := carts.AddItem(context.Background(), "REG-001", soda.ID, 0)
	require.NoError(t, err)

	require.Len(t, view.Lines, 1)
	assert.Equal(t, 1, view.Lines[0].Quantity)
}

func TestCartAddItem_MergesExistingLine(t *testing.T) {
	soda := testProduct("Soda", "SKU-1", 250, 10, 0)
	carts := NewCartService(newFakeProductRepo(soda))
	ctx := context.Background()

	_, err := carts.AddItem(ctx, "REG-001", soda.ID, 2)
	require.NoError(t, err)
	view, err := carts.AddItem(ctx, "REG-001", soda.ID, 3)
	require.NoError(t, err)

	require.Len(t, view.Lines, 1, "same product should merge, not append")
	assert.Equal(t, 5, view.Lines[0].Quantity)
}

func TestCartAddItem_OutOfStockLeavesCartUntouched(t *testing.T) {
	gone := testProduct("Sold Out", "SKU-2", 100, 0, 0)
	carts := NewCartService(newFakeProductRepo(gone))

	view, err := carts.AddItem(context.Background(), "REG-001", gone.ID, 1)
	require.NoError(t, err)

	assert.Empty(t, view.Lines)
	assert.Contains(t, view.Warning, "out of stock")
}

func TestCartAddItem_ClampsToStock(t *testing.T) {
	scarce := testProduct("Scarce", "SKU-3", 100, 2, 0)
	carts := NewCartService(newFakeProductRepo(scarce))

	view, err := carts.AddItem(context.Background(), "REG-001", scarce.ID, 5)
	require.NoError(t, err)

	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Quantity)
	assert.Contains(t, view.Warning, "Only 2")
}

func TestCartAddItem_UnknownProduct(t *testing.T) {
	carts := NewCartService(newFakeProductRepo())

	_, err := carts.AddItem(context.Background(), "REG-001", uuid.New(), 1)
	assert.Error(t, err)
}

func TestCartUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	soda := testProduct("Soda", "SKU-1", 250, 10, 0)
	carts := NewCartService(newFakeProductRepo(soda))
	ctx := context.Background()

	_, err := carts.AddItem(ctx, "REG-001", soda.ID, 2)
	require.NoError(t, err)

	view, err := carts.UpdateQuantity(ctx, "REG-001", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}

func TestCartUpdateQuantity_ClampsToCurrentStock(t *testing.T) {
	soda := testProduct("Soda", "SKU-1", 250, 3, 0)
	repo := newFakeProductRepo(soda)
	carts := NewCartService(repo)
	ctx := context.Background()

	_, err := carts.AddItem(ctx, "REG-001", soda.ID, 1)
	require.NoError(t, err)

	view, err := carts.UpdateQuantity(ctx, "REG-001", 0, 99)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Lines[0].Quantity)
	assert.Contains(t, view.Warning, "Only 3")
}

func TestCartUpdateQuantity_InvalidLine(t *testing.T) {
	carts := NewCartService(newFakeProductRepo())

	_, err := carts.UpdateQuantity(context.Background(), "REG-001", 5, 1)
	assert.Error(t, err)
}

func TestCartRemoveItem(t *testing.T) {
	soda := testProduct("Soda", "SKU-1", 250, 10, 0)
	water := testProduct("Water", "SKU-2", 100, 10, 0)
	carts := NewCartService(newFakeProductRepo(soda, water))
	ctx := context.Background()

	_, err := carts.AddItem(ctx, "REG-001", soda.ID, 1)
	require.NoError(t, err)
	_, err = carts.AddItem(ctx, "REG-001", water.ID, 1)
	require.NoError(t, err)

	view, err := carts.RemoveItem("REG-001", 0)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "Water", view.Lines[0].ProductName)
}

func TestCartSetLineDiscount_CappedAtLineTotal(t *testing.T) {
	soda := testProduct("Soda", "SKU-1", 250, 10, 0)
	carts := NewCartService(newFakeProductRepo(soda))
	ctx := context.Background()

	_, err := carts.AddItem(ctx, "REG-001", soda.ID, 2)
	require.NoError(t, err)

	view, err := carts.SetLineDiscount("REG-001", 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 1.00, view.Discount)
	assert.Equal(t, 4.00, view.Total)

	_, err = carts.SetLineDiscount("REG-001", 0, 600)
	assert.Error(t, err, "discount beyond the line total must be rejected")
}

func TestCartTotals_Derivation(t *testing.T) {
	item := testProduct("Widget", "SKU-1", 1000, 10, 20)
	carts := NewCartService(newFakeProductRepo(item))

	view, err := carts.AddItem(context.Background(), "REG-001", item.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, 30.00, view.SubTotal)
	assert.Equal(t, 6.00, view.TaxTotal)
	assert.Equal(t, 36.00, view.Total)

	// Reading the cart never changes it
	again := carts.View("REG-001")
	assert.Equal(t, view.Total, again.Total)
	assert.Equal(t, view.SubTotal, again.SubTotal)
}

func TestCartIsolationBetweenRegisters(t *testing.T) {
	soda := testProduct("Soda", "SKU-1", 250, 10, 0)
	carts := NewCartService(newFakeProductRepo(soda))

	_, err := carts.AddItem(context.Background(), "REG-001", soda.ID, 1)
	require.NoError(t, err)

	other := carts.View("REG-002")
	assert.Empty(t, other.Lines)
}

func TestCartCompleteAndClear_StaleVersionRejected(t *testing.T) {
	soda := testProduct("Soda", "SKU-1", 250, 10, 0)
	carts := NewCartService(newFakeProductRepo(soda))
	ctx := context.Background()

	_, err := carts.AddItem(ctx, "REG-001", soda.ID, 1)
	require.NoError(t, err)

	snap := carts.Snapshot("REG-001")

	// Cart mutates after the snapshot was taken
	_, err = carts.AddItem(ctx, "REG-001", soda.ID, 1)
	require.NoError(t, err)

	assert.False(t, carts.CompleteAndClear("REG-001", snap.Version))
	assert.Len(t, carts.View("REG-001").Lines, 1, "stale completion must not clear the cart")

	fresh := carts.Snapshot("REG-001")
	assert.True(t, carts.CompleteAndClear("REG-001", fresh.Version))
	assert.Empty(t, carts.View("REG-001").Lines)
}

func TestCartSnapshot_IsValueCopy(t *testing.T) {
	soda := testProduct("Soda", "SKU-1", 250, 10, 0)
	carts := NewCartService(newFakeProductRepo(soda))
	ctx := context.Background()

	_, err := carts.AddItem(ctx, "REG-001", soda.ID, 2)
	require.NoError(t, err)

	snap := carts.Snapshot("REG-001")
	carts.Clear("REG-001")

	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
	assert.Equal(t, int64(500), snap.Totals.Total)
}
