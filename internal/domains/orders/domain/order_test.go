package domain

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestMergeLines_SumsDuplicatesAndSorts(t *testing.T) {
	merged, err := MergeLines([]Line{{ProductID: 7, Quantity: 3}, {ProductID: 2, Quantity: 1}, {ProductID: 7, Quantity: 3}})
	require.NoError(t, err)
	require.Equal(t, []Line{{ProductID: 2, Quantity: 1}, {ProductID: 7, Quantity: 6}}, merged)
}

func TestMergeLines_RejectsInvalidLines(t *testing.T) {
	_, err := MergeLines(nil)
	require.ErrorIs(t, err, ErrEmptyOrder)

	_, err = MergeLines([]Line{{ProductID: 1, Quantity: 0}})
	require.ErrorIs(t, err, ErrNonPositiveQuantity)

	_, err = MergeLines([]Line{{ProductID: 0, Quantity: 1}})
	require.ErrorIs(t, err, ErrInvalidProductID)
}

func TestMergeLines_CapsQuantityPerProduct(t *testing.T) {
	_, err := MergeLines([]Line{{ProductID: 1, Quantity: math.MaxInt}, {ProductID: 1, Quantity: 2}})
	require.ErrorIs(t, err, ErrQuantityTooLarge)

	_, err = MergeLines([]Line{{ProductID: 1, Quantity: MaxQuantity + 1}})
	require.ErrorIs(t, err, ErrQuantityTooLarge)

	merged, err := MergeLines([]Line{{ProductID: 1, Quantity: MaxQuantity - 1}, {ProductID: 1, Quantity: 1}})
	require.NoError(t, err)
	require.Equal(t, []Line{{ProductID: 1, Quantity: MaxQuantity}}, merged)
}

func TestOrder_Total(t *testing.T) {
	order := &Order{Items: []OrderItem{
		{ProductID: 1, Quantity: 2, PriceAtPurchase: decimal.RequireFromString("79.90")},
		{ProductID: 2, Quantity: 1, PriceAtPurchase: decimal.RequireFromString("10.05")},
	}}
	require.Equal(t, "169.85", order.Total().StringFixed(2))
}
