package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestProductPatch_AppliesOnlyPresentFields(t *testing.T) {
	product, err := NewProduct("Ring", decimal.RequireFromString("40"), decimal.RequireFromString("99.90"), 10)
	require.NoError(t, err)
	product.Description = "silver"

	name := "Gold ring"
	price := decimal.RequireFromString("120")
	require.NoError(t, ProductPatch{Name: &name, SellingPrice: &price}.Apply(product))

	require.Equal(t, "Gold ring", product.Name)
	require.True(t, product.SellingPrice.Equal(price))
	require.Equal(t, "silver", product.Description)
	require.Equal(t, 10, product.StockQuantity)
}

func TestProductPatch_RejectsStockBelowOnLoan(t *testing.T) {
	product, err := NewProduct("Ring", decimal.Zero, decimal.NewFromInt(10), 10)
	require.NoError(t, err)
	product.OnLoanQuantity = 6

	stock := 5
	require.ErrorIs(t, ProductPatch{StockQuantity: &stock}.Apply(product), ErrStockBelowOnLoan)
}

func TestProduct_Available(t *testing.T) {
	product := &Product{Name: "Ring", StockQuantity: 20, OnLoanQuantity: 10}
	require.Equal(t, 10, product.Available())
	require.NoError(t, product.Validate())

	product.OnLoanQuantity = 21
	require.ErrorIs(t, product.Validate(), ErrOnLoanExceeds)
}

func TestProduct_RejectsPricesOutsideStoredPrecision(t *testing.T) {
	_, err := NewProduct("Ring", decimal.RequireFromString("10.005"), decimal.NewFromInt(20), 1)
	require.ErrorIs(t, err, ErrPriceScale)

	_, err = NewProduct("Ring", decimal.NewFromInt(10), decimal.RequireFromString("100000000"), 1)
	require.ErrorIs(t, err, ErrPriceTooLarge)

	product, err := NewProduct("Ring", decimal.RequireFromString("10.500"), MaxPrice, 1)
	require.NoError(t, err)

	price := decimal.RequireFromString("19.999")
	require.ErrorIs(t, ProductPatch{SellingPrice: &price}.Apply(product), ErrPriceScale)
}

func TestDiscount_RejectsPricesOutsideStoredPrecision(t *testing.T) {
	now := time.Now()
	_, err := NewDiscount(1, decimal.RequireFromString("0.001"), now, now)
	require.ErrorIs(t, err, ErrPriceScale)

	_, err = NewDiscount(1, decimal.RequireFromString("1e9"), now, now)
	require.ErrorIs(t, err, ErrPriceTooLarge)
}

func TestDiscount_ActiveAtIsClosedWindow(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	d, err := NewDiscount(1, decimal.NewFromInt(5), start, end)
	require.NoError(t, err)

	require.True(t, d.ActiveAt(start))
	require.True(t, d.ActiveAt(end))
	require.True(t, d.ActiveAt(start.Add(time.Hour)))
	require.False(t, d.ActiveAt(start.Add(-time.Nanosecond)))
	require.False(t, d.ActiveAt(end.Add(time.Nanosecond)))
}

func TestDiscount_CheckAgainstCost(t *testing.T) {
	product := &Product{Name: "Ring", CostPrice: decimal.RequireFromString("50.00")}
	now := time.Now()

	below, err := NewDiscount(1, decimal.RequireFromString("49.99"), now, now)
	require.NoError(t, err)
	require.ErrorIs(t, below.CheckAgainstCost(product), ErrBelowCost)

	equal, err := NewDiscount(1, decimal.RequireFromString("50"), now, now)
	require.NoError(t, err)
	require.NoError(t, equal.CheckAgainstCost(product))
}

func TestDiscountPatch_RejectsInvertedWindow(t *testing.T) {
	now := time.Now()
	d, err := NewDiscount(1, decimal.NewFromInt(5), now, now.Add(time.Hour))
	require.NoError(t, err)

	end := now.Add(-time.Hour)
	require.ErrorIs(t, DiscountPatch{EndTime: &end}.Apply(d), ErrInvalidWindow)
}
