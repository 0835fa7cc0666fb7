//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/backoffice-api/internal/domains/catalog/domain"
	"github.com/Apurer/backoffice-api/internal/domains/catalog/ports"
	"github.com/Apurer/backoffice-api/internal/platform/migrations"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

func setupCatalogPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("backoffice_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newProduct(t *testing.T, name, cost, price string, stock int) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct(name, decimal.RequireFromString(cost), decimal.RequireFromString(price), stock)
	require.NoError(t, err)
	return product
}

func TestProductRepository_CreateGetAndBarcode(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewProductRepository(db)
	ctx := context.Background()

	product := newProduct(t, "Gold Ring", "120.00", "249.90", 8)
	product.Barcode = "4006381333931"
	saved, err := repo.Create(ctx, product)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.True(t, decimal.RequireFromString("249.90").Equal(saved.SellingPrice))

	byBarcode, err := repo.GetByBarcode(ctx, "4006381333931")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, byBarcode.ID)

	dup := newProduct(t, "Copy", "1.00", "2.00", 1)
	dup.Barcode = "4006381333931"
	_, err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, ports.ErrDuplicateBarcode)

	// Products without a barcode do not collide with each other.
	_, err = repo.Create(ctx, newProduct(t, "Plain A", "1.00", "2.00", 1))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newProduct(t, "Plain B", "1.00", "2.00", 1))
	require.NoError(t, err)

	_, err = repo.Get(ctx, 9999)
	assert.ErrorIs(t, err, ports.ErrProductNotFound)
}

func TestProductRepository_UpdateListAndDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	repo := NewProductRepository(db)
	discounts := NewDiscountRepository(db)
	ctx := context.Background()

	var ids []int64
	for _, name := range []string{"A", "B", "C"} {
		saved, err := repo.Create(ctx, newProduct(t, name, "10.00", "20.00", 5))
		require.NoError(t, err)
		ids = append(ids, saved.ID)
	}

	product, err := repo.Get(ctx, ids[0])
	require.NoError(t, err)
	product.OnLoanQuantity = 3
	updated, err := repo.Update(ctx, product)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.OnLoanQuantity)
	assert.Equal(t, 2, updated.Available())

	// The schema rejects on-loan above stock even if a caller skips validation.
	product.OnLoanQuantity = 6
	_, err = repo.Update(ctx, product)
	assert.Error(t, err)

	page, err := repo.List(ctx, repository.Page{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[1], page[0].ID)

	discount, err := domain.NewDiscount(ids[2], decimal.RequireFromString("15.00"), time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	savedDiscount, err := discounts.Create(ctx, discount)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, ids[2]))
	_, err = discounts.Get(ctx, savedDiscount.ID)
	assert.ErrorIs(t, err, ports.ErrDiscountNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, ids[2]), ports.ErrProductNotFound)
}

func TestProductRepository_GetForUpdateBlocksConcurrentWriter(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	ctx := context.Background()
	saved, err := NewProductRepository(db).Create(ctx, newProduct(t, "Locked", "1.00", "2.00", 10))
	require.NoError(t, err)

	locked := make(chan struct{})
	release := make(chan struct{})
	holder := make(chan error, 1)
	go func() {
		holder <- db.Transaction(func(tx *gorm.DB) error {
			if _, err := NewProductRepository(tx).GetForUpdate(ctx, saved.ID); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	waiter := make(chan error, 1)
	go func() {
		waiter <- db.Transaction(func(tx *gorm.DB) error {
			_, err := NewProductRepository(tx).GetForUpdate(ctx, saved.ID)
			return err
		})
	}()

	select {
	case err := <-waiter:
		t.Fatalf("second lock acquired while the first was held: %v", err)
	case <-time.After(300 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-holder)
	require.NoError(t, <-waiter)
}

func TestDiscountRepository_ActiveWindows(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCatalogPostgresContainer(t)
	defer cleanup()

	products := NewProductRepository(db)
	repo := NewDiscountRepository(db)
	ctx := context.Background()

	first, err := products.Create(ctx, newProduct(t, "First", "10.00", "50.00", 1))
	require.NoError(t, err)
	second, err := products.Create(ctx, newProduct(t, "Second", "10.00", "40.00", 1))
	require.NoError(t, err)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	create := func(productID int64, price string, start, end time.Time) *domain.Discount {
		discount, err := domain.NewDiscount(productID, decimal.RequireFromString(price), start, end)
		require.NoError(t, err)
		saved, err := repo.Create(ctx, discount)
		require.NoError(t, err)
		return saved
	}
	create(first.ID, "45.00", now.Add(-time.Hour), now.Add(time.Hour))
	cheapest := create(first.ID, "30.00", now.Add(-time.Hour), now)
	create(first.ID, "20.00", now.Add(time.Minute), now.Add(time.Hour))
	create(second.ID, "35.00", now, now.Add(time.Hour))

	active, err := repo.ActiveFor(ctx, first.ID, now)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, cheapest.ID, active[0].ID)

	batch, err := repo.ActiveForProducts(ctx, []int64{first.ID, second.ID}, now)
	require.NoError(t, err)
	assert.Len(t, batch, 3)

	none, err := repo.ActiveForProducts(ctx, nil, now)
	require.NoError(t, err)
	assert.Empty(t, none)
}
