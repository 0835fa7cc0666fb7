//go:build integration

package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	catalogdomain "github.com/Apurer/backoffice-api/internal/domains/catalog/domain"
	orderapp "github.com/Apurer/backoffice-api/internal/domains/orders/application"
	orderdomain "github.com/Apurer/backoffice-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/backoffice-api/internal/domains/orders/ports"
	caseapp "github.com/Apurer/backoffice-api/internal/domains/salescases/application"
	casedomain "github.com/Apurer/backoffice-api/internal/domains/salescases/domain"
	caseports "github.com/Apurer/backoffice-api/internal/domains/salescases/ports"
	userdomain "github.com/Apurer/backoffice-api/internal/domains/users/domain"
	"github.com/Apurer/backoffice-api/internal/platform/migrations"
	"github.com/Apurer/backoffice-api/internal/shared/apperr"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
	"github.com/Apurer/backoffice-api/internal/shared/uow"
)

func setupUnitOfWorkContainer(t *testing.T) (*gorm.DB, func()) {
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

	db, err := Connect(ctx, dsn)
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

func seedProduct(t *testing.T, unitOfWork uow.UnitOfWork, name string, stock int) *catalogdomain.Product {
	t.Helper()
	product, err := catalogdomain.NewProduct(name, decimal.RequireFromString("10.00"), decimal.RequireFromString("25.00"), stock)
	require.NoError(t, err)
	var saved *catalogdomain.Product
	require.NoError(t, unitOfWork.Do(context.Background(), func(ctx context.Context, tx uow.Tx) error {
		saved, err = tx.Products().Create(ctx, product)
		return err
	}))
	return saved
}

func seedUser(t *testing.T, unitOfWork uow.UnitOfWork, email string, role userdomain.Role) userdomain.Caller {
	t.Helper()
	var caller userdomain.Caller
	require.NoError(t, unitOfWork.Do(context.Background(), func(ctx context.Context, tx uow.Tx) error {
		user, err := tx.Users().Create(ctx, &userdomain.User{Email: email, Role: role})
		if err != nil {
			return err
		}
		caller = user.Caller()
		return nil
	}))
	return caller
}

func loadProduct(t *testing.T, unitOfWork uow.UnitOfWork, id int64) *catalogdomain.Product {
	t.Helper()
	var product *catalogdomain.Product
	require.NoError(t, unitOfWork.Do(context.Background(), func(ctx context.Context, tx uow.Tx) error {
		var err error
		product, err = tx.Products().Get(ctx, id)
		return err
	}))
	return product
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUnitOfWorkContainer(t)
	defer cleanup()

	unitOfWork := NewUnitOfWork(db)
	product := seedProduct(t, unitOfWork, "Rollback", 5)
	boom := errors.New("boom")

	err := unitOfWork.Do(context.Background(), func(ctx context.Context, tx uow.Tx) error {
		product.StockQuantity = 1
		if _, err := tx.Products().Update(ctx, product); err != nil {
			return err
		}
		if _, err := tx.Orders().Create(ctx, &orderdomain.Order{UserID: 1, Status: orderdomain.StatusProcessing}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, 5, loadProduct(t, unitOfWork, product.ID).StockQuantity)
	var orders []*orderdomain.Order
	require.NoError(t, unitOfWork.Do(context.Background(), func(ctx context.Context, tx uow.Tx) error {
		orders, err = tx.Orders().List(ctx, repository.Page{Limit: 10})
		return err
	}))
	assert.Empty(t, orders)
}

func TestUnitOfWork_ConcurrentCheckoutNeverOversells(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUnitOfWorkContainer(t)
	defer cleanup()

	unitOfWork := NewUnitOfWork(db)
	product := seedProduct(t, unitOfWork, "Scarce", 5)
	buyer := seedUser(t, unitOfWork, "buyer@example.com", userdomain.RoleCustomer)
	service := orderapp.NewService(unitOfWork)

	const attempts = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
		unexpect  []error
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Checkout(context.Background(), buyer, orderports.CheckoutInput{
				Lines: []orderdomain.Line{{ProductID: product.ID, Quantity: 1}},
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, apperr.ErrInsufficientStock):
				rejected++
			default:
				unexpect = append(unexpect, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, unexpect)
	assert.Equal(t, 5, succeeded)
	assert.Equal(t, attempts-5, rejected)
	assert.Equal(t, 0, loadProduct(t, unitOfWork, product.ID).StockQuantity)
}

func TestUnitOfWork_OpposingLineOrderDoesNotDeadlock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUnitOfWorkContainer(t)
	defer cleanup()

	unitOfWork := NewUnitOfWork(db)
	first := seedProduct(t, unitOfWork, "First", 100)
	second := seedProduct(t, unitOfWork, "Second", 100)
	buyer := seedUser(t, unitOfWork, "buyer@example.com", userdomain.RoleCustomer)
	service := orderapp.NewService(unitOfWork)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		lines := []orderdomain.Line{{ProductID: first.ID, Quantity: 1}, {ProductID: second.ID, Quantity: 1}}
		if i%2 == 1 {
			lines[0], lines[1] = lines[1], lines[0]
		}
		wg.Add(1)
		go func(lines []orderdomain.Line) {
			defer wg.Done()
			_, err := service.Checkout(ctx, buyer, orderports.CheckoutInput{Lines: lines})
			errs <- err
		}(lines)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, 80, loadProduct(t, unitOfWork, first.ID).StockQuantity)
	assert.Equal(t, 80, loadProduct(t, unitOfWork, second.ID).StockQuantity)
}

func TestUnitOfWork_SalesCaseLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUnitOfWorkContainer(t)
	defer cleanup()

	unitOfWork := NewUnitOfWork(db)
	product := seedProduct(t, unitOfWork, "Loaned", 20)
	admin := seedUser(t, unitOfWork, "admin@example.com", userdomain.RoleAdmin)
	rep := seedUser(t, unitOfWork, "rep@example.com", userdomain.RoleSalesRep)
	service := caseapp.NewService(unitOfWork)
	ctx := context.Background()

	opened, err := service.CreateCase(ctx, admin, caseports.CreateCaseInput{
		SalesRepID:       rep.ID,
		LoanDurationDays: 7,
		Items:            []casedomain.SalesCaseItem{{ProductID: product.ID, Quantity: 10}},
	})
	require.NoError(t, err)

	loaded := loadProduct(t, unitOfWork, product.ID)
	assert.Equal(t, 20, loaded.StockQuantity)
	assert.Equal(t, 10, loaded.OnLoanQuantity)

	// Concurrent returns of the same case: exactly one settles it.
	var wg sync.WaitGroup
	results := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.ReturnCase(ctx, rep, opened.ID, []casedomain.ItemSold{{ProductID: product.ID, QuantitySold: 6}})
			results <- err
		}()
	}
	wg.Wait()
	close(results)
	var settled, invalid int
	for err := range results {
		switch {
		case err == nil:
			settled++
		case errors.Is(err, apperr.ErrInvalidState):
			invalid++
		default:
			t.Fatalf("unexpected return error: %v", err)
		}
	}
	assert.Equal(t, 1, settled)
	assert.Equal(t, 3, invalid)

	returned := loadProduct(t, unitOfWork, product.ID)
	assert.Equal(t, 14, returned.StockQuantity)
	assert.Equal(t, 0, returned.OnLoanQuantity)

	var orders []*orderdomain.Order
	require.NoError(t, unitOfWork.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		orders, err = tx.Orders().ListForUser(ctx, rep.ID, repository.Page{Limit: 10})
		return err
	}))
	require.Len(t, orders, 1)
	assert.Equal(t, orderdomain.StatusCompletedBySalesRep, orders[0].Status)
	assert.True(t, decimal.RequireFromString("150.00").Equal(orders[0].Total()))
}
