//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/backoffice-api/internal/domains/users/domain"
	"github.com/Apurer/backoffice-api/internal/domains/users/ports"
	"github.com/Apurer/backoffice-api/internal/platform/migrations"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

func setupUsersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
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

func TestRepository_CreateAndGetByEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	user, err := domain.NewUser("Alice@Example.com", "Alice Doe", domain.RoleSalesRep)
	require.NoError(t, err)

	saved, err := repo.Create(ctx, user)
	require.NoError(t, err)
	assert.NotZero(t, saved.ID)
	assert.Equal(t, domain.RoleSalesRep, saved.Role)

	fetched, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, fetched.ID)
	assert.Equal(t, "Alice Doe", fetched.FullName)

	_, err = repo.Create(ctx, user)
	assert.ErrorIs(t, err, ports.ErrDuplicateEmail)
}

func TestRepository_Update(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	user, err := domain.NewUser("bob@example.com", "Bob", "")
	require.NoError(t, err)
	saved, err := repo.Create(ctx, user)
	require.NoError(t, err)

	saved.Role = domain.RoleAdmin
	saved.FullName = "Bob Smith"
	updated, err := repo.Update(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, updated.Role)
	assert.Equal(t, "Bob Smith", updated.FullName)
}

func TestRepository_ListAndDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	var ids []int64
	for i := 1; i <= 3; i++ {
		user, err := domain.NewUser(fmt.Sprintf("user%d@example.com", i), "", domain.RoleCustomer)
		require.NoError(t, err)
		saved, err := repo.Create(ctx, user)
		require.NoError(t, err)
		ids = append(ids, saved.ID)
	}

	users, err := repo.List(ctx, repository.Page{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, users, 3)

	err = repo.Delete(ctx, ids[1])
	require.NoError(t, err)
	_, err = repo.Get(ctx, ids[1])
	assert.ErrorIs(t, err, ports.ErrNotFound)

	err = repo.Delete(ctx, ids[1])
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
