package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSalesCase_EffectiveStatus(t *testing.T) {
	loan := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewSalesCase(5, loan, 7, nil)
	require.Equal(t, loan.AddDate(0, 0, 7), c.ReturnByDate)

	require.Equal(t, StatusOnLoan, c.EffectiveStatus(c.ReturnByDate))
	require.Equal(t, StatusOverdue, c.EffectiveStatus(c.ReturnByDate.Add(time.Second)))
	require.True(t, c.Returnable())

	c.MarkReturned(loan.AddDate(0, 0, 30))
	require.Equal(t, StatusReturned, c.EffectiveStatus(loan.AddDate(0, 0, 30)))
	require.False(t, c.Returnable())
	require.NotNil(t, c.ReturnedAt)
}

func TestMergeSold(t *testing.T) {
	merged, err := MergeSold([]ItemSold{{ProductID: 1, QuantitySold: 2}, {ProductID: 1, QuantitySold: 4}, {ProductID: 3, QuantitySold: 0}})
	require.NoError(t, err)
	require.Equal(t, map[int64]int{1: 6}, merged)

	_, err = MergeSold([]ItemSold{{ProductID: 1, QuantitySold: -1}})
	require.ErrorIs(t, err, ErrNegativeQuantitySold)

	_, err = MergeSold([]ItemSold{{ProductID: 1, QuantitySold: math.MaxInt}, {ProductID: 1, QuantitySold: 2}})
	require.ErrorIs(t, err, ErrQuantityTooLarge)
}

func TestNewOverdueEntry(t *testing.T) {
	loan := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	c := NewSalesCase(5, loan, 1, []SalesCaseItem{{ProductID: 1, Quantity: 3}, {ProductID: 2, Quantity: 4}})
	c.ID = 9

	entry := NewOverdueEntry(c, loan.AddDate(0, 0, 4))
	require.Equal(t, int64(9), entry.CaseID)
	require.Equal(t, 3, entry.DaysOverdue)
	require.Equal(t, 7, entry.UnitsOnLoan)
}

func TestMergeItems(t *testing.T) {
	merged, err := MergeItems([]SalesCaseItem{{ProductID: 4, Quantity: 1}, {ProductID: 2, Quantity: 5}, {ProductID: 4, Quantity: 2}})
	require.NoError(t, err)
	require.Equal(t, []SalesCaseItem{{ProductID: 2, Quantity: 5}, {ProductID: 4, Quantity: 3}}, merged)

	_, err = MergeItems(nil)
	require.ErrorIs(t, err, ErrEmptyCase)

	_, err = MergeItems([]SalesCaseItem{{ProductID: 1, Quantity: -2}})
	require.ErrorIs(t, err, ErrNonPositiveQuantity)

	_, err = MergeItems([]SalesCaseItem{{ProductID: 1, Quantity: math.MaxInt}, {ProductID: 1, Quantity: 2}})
	require.ErrorIs(t, err, ErrQuantityTooLarge)

	_, err = MergeItems([]SalesCaseItem{{ProductID: 1, Quantity: MaxQuantity + 1}})
	require.ErrorIs(t, err, ErrQuantityTooLarge)
}
