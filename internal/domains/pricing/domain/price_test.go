package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/Apurer/backoffice-api/internal/domains/catalog/domain"
)

func TestResolvePicksLowestActiveDiscount(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	product := &catalogdomain.Product{ID: 1, SellingPrice: decimal.RequireFromString("99.90")}
	discounts := []*catalogdomain.Discount{
		{ID: 1, ProductID: 1, DiscountPrice: decimal.RequireFromString("89.90"), StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour)},
		{ID: 2, ProductID: 1, DiscountPrice: decimal.RequireFromString("79.90"), StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour)},
		{ID: 3, ProductID: 1, DiscountPrice: decimal.RequireFromString("9.90"), StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)},
		{ID: 4, ProductID: 2, DiscountPrice: decimal.RequireFromString("1.00"), StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour)},
	}

	quote := Resolve(product, discounts, now)
	require.Equal(t, "79.90", quote.Price.StringFixed(2))
	require.True(t, quote.Discounted())
	require.Equal(t, int64(2), *quote.DiscountID)
	require.Equal(t, "99.90", quote.ListPrice.StringFixed(2))
}

func TestResolveFallsBackToSellingPrice(t *testing.T) {
	now := time.Now()
	product := &catalogdomain.Product{ID: 1, SellingPrice: decimal.RequireFromString("99.90")}
	expired := &catalogdomain.Discount{ID: 1, ProductID: 1, DiscountPrice: decimal.NewFromInt(5), StartTime: now.Add(-2 * time.Hour), EndTime: now.Add(-time.Hour)}

	quote := Resolve(product, []*catalogdomain.Discount{expired}, now)
	require.False(t, quote.Discounted())
	require.True(t, quote.Price.Equal(product.SellingPrice))
}
