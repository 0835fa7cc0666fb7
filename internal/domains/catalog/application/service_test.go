package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/backoffice-api/internal/domains/catalog/domain"
	"github.com/Apurer/backoffice-api/internal/domains/catalog/ports"
	"github.com/Apurer/backoffice-api/internal/platform/memory"
	"github.com/Apurer/backoffice-api/internal/shared/apperr"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

func newProduct(t *testing.T, svc *Service, name, barcode string, cost, price string, stock int) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct(name, decimal.RequireFromString(cost), decimal.RequireFromString(price), stock)
	require.NoError(t, err)
	product.Barcode = barcode
	created, err := svc.CreateProduct(context.Background(), product)
	require.NoError(t, err)
	return created
}

func TestCreateProductRejectsDuplicateBarcode(t *testing.T) {
	svc := NewService(memory.NewUnitOfWork())
	newProduct(t, svc, "Ring", "789", "10", "20", 5)

	dup, err := domain.NewProduct("Other", decimal.NewFromInt(1), decimal.NewFromInt(2), 1)
	require.NoError(t, err)
	dup.Barcode = "789"
	_, err = svc.CreateProduct(context.Background(), dup)
	require.ErrorIs(t, err, ports.ErrDuplicateBarcode)
	require.ErrorIs(t, err, apperr.ErrConflict)

	found, err := svc.GetProductByBarcode(context.Background(), "789")
	require.NoError(t, err)
	require.Equal(t, "Ring", found.Name)
}

func TestUpdateProductPatchesFields(t *testing.T) {
	svc := NewService(memory.NewUnitOfWork())
	product := newProduct(t, svc, "Ring", "", "10", "20", 5)

	stock := 12
	updated, err := svc.UpdateProduct(context.Background(), product.ID, domain.ProductPatch{StockQuantity: &stock})
	require.NoError(t, err)
	require.Equal(t, 12, updated.StockQuantity)
	require.Equal(t, "Ring", updated.Name)

	negative := -1
	_, err = svc.UpdateProduct(context.Background(), product.ID, domain.ProductPatch{StockQuantity: &negative})
	require.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.UpdateProduct(context.Background(), 999, domain.ProductPatch{})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	for _, raw := range []string{"20.001", "123456789.00"} {
		price := decimal.RequireFromString(raw)
		_, err = svc.UpdateProduct(context.Background(), product.ID, domain.ProductPatch{SellingPrice: &price})
		require.ErrorIs(t, err, apperr.ErrInvalidInput, raw)
	}
	stored, err := svc.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	require.True(t, stored.SellingPrice.Equal(decimal.NewFromInt(20)))
}

func TestCreateDiscountEnforcesCostFloor(t *testing.T) {
	svc := NewService(memory.NewUnitOfWork())
	product := newProduct(t, svc, "Ring", "", "50.00", "89.90", 5)
	now := time.Now()

	below, err := domain.NewDiscount(product.ID, decimal.RequireFromString("49.99"), now, now.Add(time.Hour))
	require.NoError(t, err)
	_, err = svc.CreateDiscount(context.Background(), below)
	require.ErrorIs(t, err, apperr.ErrLogic)
	require.ErrorIs(t, err, domain.ErrBelowCost)

	ok, err := domain.NewDiscount(product.ID, decimal.RequireFromString("79.90"), now, now.Add(time.Hour))
	require.NoError(t, err)
	created, err := svc.CreateDiscount(context.Background(), ok)
	require.NoError(t, err)

	lower := decimal.RequireFromString("10")
	_, err = svc.UpdateDiscount(context.Background(), created.ID, domain.DiscountPatch{DiscountPrice: &lower})
	require.ErrorIs(t, err, domain.ErrBelowCost)

	stored, err := svc.GetDiscount(context.Background(), created.ID)
	require.NoError(t, err)
	require.True(t, stored.DiscountPrice.Equal(decimal.RequireFromString("79.90")))
}

func TestCreateDiscountForUnknownProduct(t *testing.T) {
	svc := NewService(memory.NewUnitOfWork())
	now := time.Now()
	discount, err := domain.NewDiscount(404, decimal.NewFromInt(1), now, now)
	require.NoError(t, err)

	_, err = svc.CreateDiscount(context.Background(), discount)
	require.ErrorIs(t, err, ports.ErrProductNotFound)
}

func TestDeleteProductRemovesDiscounts(t *testing.T) {
	svc := NewService(memory.NewUnitOfWork())
	product := newProduct(t, svc, "Ring", "", "1", "2", 1)
	now := time.Now()
	discount, err := domain.NewDiscount(product.ID, decimal.NewFromInt(1), now, now.Add(time.Hour))
	require.NoError(t, err)
	_, err = svc.CreateDiscount(context.Background(), discount)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(context.Background(), product.ID))
	discounts, err := svc.ListDiscounts(context.Background(), repository.Page{})
	require.NoError(t, err)
	require.Empty(t, discounts)
}
