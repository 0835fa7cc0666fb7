package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/Apurer/backoffice-api/internal/domains/catalog/domain"
	catalogmemory "github.com/Apurer/backoffice-api/internal/domains/catalog/adapters/memory"
	catalogports "github.com/Apurer/backoffice-api/internal/domains/catalog/ports"
)

func seedProducts(t *testing.T, repo *catalogmemory.ProductRepository, stocks ...int) []int64 {
	t.Helper()
	var ids []int64
	for _, stock := range stocks {
		product, err := catalogdomain.NewProduct("item", decimal.NewFromInt(1), decimal.NewFromInt(2), stock)
		require.NoError(t, err)
		created, err := repo.Create(context.Background(), product)
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}
	return ids
}

func TestLedgerAdjustStock(t *testing.T) {
	repo := catalogmemory.NewProductRepository(catalogmemory.NewStore())
	ids := seedProducts(t, repo, 20)
	ledger := NewLedger(repo)
	ctx := context.Background()

	product, err := ledger.LockProductForUpdate(ctx, ids[0])
	require.NoError(t, err)

	_, err = ledger.AdjustStock(ctx, product, 0, 10)
	require.NoError(t, err)
	_, err = ledger.AdjustStock(ctx, product, -6, -10)
	require.NoError(t, err)

	stored, err := repo.Get(ctx, ids[0])
	require.NoError(t, err)
	require.Equal(t, 14, stored.StockQuantity)
	require.Equal(t, 0, stored.OnLoanQuantity)
}

func TestLedgerLockProductsForUpdate(t *testing.T) {
	repo := catalogmemory.NewProductRepository(catalogmemory.NewStore())
	ids := seedProducts(t, repo, 1, 2, 3)
	ledger := NewLedger(repo)

	locked, err := ledger.LockProductsForUpdate(context.Background(), []int64{ids[2], ids[0], ids[2]})
	require.NoError(t, err)
	require.Len(t, locked, 2)
	require.Equal(t, 3, locked[ids[2]].StockQuantity)

	_, err = ledger.LockProductsForUpdate(context.Background(), []int64{ids[0], 999})
	require.ErrorIs(t, err, catalogports.ErrProductNotFound)
}
