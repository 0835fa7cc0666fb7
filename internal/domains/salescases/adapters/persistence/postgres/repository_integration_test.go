//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/backoffice-api/internal/domains/salescases/domain"
	"github.com/Apurer/backoffice-api/internal/domains/salescases/ports"
	"github.com/Apurer/backoffice-api/internal/platform/migrations"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

func setupCasesPostgresContainer(t *testing.T) (*gorm.DB, func()) {
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

var loanDate = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func openCase(repID int64, days int) *domain.SalesCase {
	return domain.NewSalesCase(repID, loanDate, days, []domain.SalesCaseItem{
		{ProductID: 1, Quantity: 4},
		{ProductID: 2, Quantity: 1},
	})
}

func TestRepository_CreateGetAndReturn(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCasesPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Create(ctx, openCase(3, 7))
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)

	fetched, err := repo.Get(ctx, saved.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Items, 2)
	assert.Equal(t, domain.StatusOnLoan, fetched.Status)
	assert.Equal(t, map[int64]int{1: 4, 2: 1}, fetched.LoanedQuantities())
	assert.True(t, loanDate.AddDate(0, 0, 7).Equal(fetched.ReturnByDate))

	fetched.MarkReturned(loanDate.Add(48 * time.Hour))
	updated, err := repo.Update(ctx, fetched)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReturned, updated.Status)
	require.NotNil(t, updated.ReturnedAt)
	assert.Len(t, updated.Items, 2)

	_, err = repo.Get(ctx, saved.ID+100)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ListFilteredAndOverdue(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCasesPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	short, err := repo.Create(ctx, openCase(3, 2))
	require.NoError(t, err)
	long, err := repo.Create(ctx, openCase(3, 30))
	require.NoError(t, err)
	other, err := repo.Create(ctx, openCase(4, 1))
	require.NoError(t, err)
	other.MarkReturned(loanDate.Add(time.Hour))
	_, err = repo.Update(ctx, other)
	require.NoError(t, err)

	mine, err := repo.ListFiltered(ctx, domain.Filter{SalesRepID: 3}, repository.Page{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	returned, err := repo.ListFiltered(ctx, domain.Filter{Status: domain.StatusReturned}, repository.Page{Limit: 10})
	require.NoError(t, err)
	require.Len(t, returned, 1)
	assert.Equal(t, other.ID, returned[0].ID)

	// Returned cases are never overdue, even past their date.
	due, err := repo.ListOnLoanDueBefore(ctx, loanDate.AddDate(0, 0, 5))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, short.ID, due[0].ID)

	due, err = repo.ListOnLoanDueBefore(ctx, loanDate.AddDate(0, 0, 31))
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, []int64{short.ID, long.ID}, []int64{due[0].ID, due[1].ID})
}

func TestRepository_GetForUpdateSerializesReturns(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCasesPostgresContainer(t)
	defer cleanup()

	ctx := context.Background()
	saved, err := NewRepository(db).Create(ctx, openCase(3, 7))
	require.NoError(t, err)

	locked := make(chan struct{})
	first := make(chan error, 1)
	go func() {
		first <- db.Transaction(func(tx *gorm.DB) error {
			repo := NewRepository(tx)
			salesCase, err := repo.GetForUpdate(ctx, saved.ID)
			if err != nil {
				return err
			}
			close(locked)
			time.Sleep(200 * time.Millisecond)
			salesCase.MarkReturned(time.Now().UTC())
			_, err = repo.Update(ctx, salesCase)
			return err
		})
	}()
	<-locked

	var seen domain.Status
	err = db.Transaction(func(tx *gorm.DB) error {
		salesCase, err := NewRepository(tx).GetForUpdate(ctx, saved.ID)
		if err != nil {
			return err
		}
		seen = salesCase.Status
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, <-first)
	assert.Equal(t, domain.StatusReturned, seen)
}
