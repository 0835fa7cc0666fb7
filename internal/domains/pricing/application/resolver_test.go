package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/backoffice-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/backoffice-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/backoffice-api/internal/domains/catalog/ports"
	"github.com/Apurer/backoffice-api/internal/platform/memory"
	"github.com/Apurer/backoffice-api/internal/shared/uow"
)

func TestCurrentPricesMatchesSingleLookups(t *testing.T) {
	store := catalogmemory.NewStore()
	products := catalogmemory.NewProductRepository(store)
	discounts := catalogmemory.NewDiscountRepository(store)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	var all []*catalogdomain.Product
	for _, price := range []string{"99.90", "15.00", "42.42"} {
		product, err := catalogdomain.NewProduct("p", decimal.NewFromInt(1), decimal.RequireFromString(price), 1)
		require.NoError(t, err)
		created, err := products.Create(ctx, product)
		require.NoError(t, err)
		all = append(all, created)
	}
	for _, d := range []struct {
		product int
		price   string
		start   time.Duration
		end     time.Duration
	}{
		{0, "89.90", -time.Hour, time.Hour},
		{0, "79.90", -time.Hour, time.Hour},
		{1, "9.00", time.Hour, 2 * time.Hour},
		{2, "40.00", -time.Hour, 0},
	} {
		_, err := discounts.Create(ctx, &catalogdomain.Discount{
			ProductID:     all[d.product].ID,
			DiscountPrice: decimal.RequireFromString(d.price),
			StartTime:     now.Add(d.start),
			EndTime:       now.Add(d.end),
		})
		require.NoError(t, err)
	}

	resolver := NewResolver(discounts)
	batch, err := resolver.CurrentPrices(ctx, all, now)
	require.NoError(t, err)
	require.Len(t, batch, len(all))
	for _, product := range all {
		single, err := resolver.CurrentPrice(ctx, product, now)
		require.NoError(t, err)
		require.True(t, single.Equal(batch[product.ID]), "product %d", product.ID)
	}
	require.Equal(t, "79.90", batch[all[0].ID].StringFixed(2))
	require.Equal(t, "15.00", batch[all[1].ID].StringFixed(2))
	require.Equal(t, "40.00", batch[all[2].ID].StringFixed(2))
}

func TestServiceResolvePrice(t *testing.T) {
	unitOfWork := memory.NewUnitOfWork()
	svc := NewService(unitOfWork)
	ctx := context.Background()

	var productID int64
	require.NoError(t, unitOfWork.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		created, err := tx.Products().Create(ctx, &catalogdomain.Product{Name: "Ring", SellingPrice: decimal.RequireFromString("99.90"), StockQuantity: 1})
		if err != nil {
			return err
		}
		productID = created.ID
		_, err = tx.Discounts().Create(ctx, &catalogdomain.Discount{
			ProductID:     created.ID,
			DiscountPrice: decimal.RequireFromString("79.90"),
			StartTime:     time.Now().Add(-time.Hour),
			EndTime:       time.Now().Add(time.Hour),
		})
		return err
	}))

	quote, err := svc.ResolvePrice(ctx, productID)
	require.NoError(t, err)
	require.Equal(t, "79.90", quote.Price.StringFixed(2))
	require.True(t, quote.Discounted())

	_, err = svc.ResolvePrice(ctx, 999)
	require.ErrorIs(t, err, catalogports.ErrProductNotFound)
}
