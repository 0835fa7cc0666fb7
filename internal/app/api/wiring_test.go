package api

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userdomain "github.com/Apurer/backoffice-api/internal/domains/users/domain"
	platformmemory "github.com/Apurer/backoffice-api/internal/platform/memory"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenUnitOfWorkFallsBackToMemory(t *testing.T) {
	unitOfWork, cleanup := OpenUnitOfWork(context.Background(), Config{}, discardLogger())
	defer cleanup()
	assert.IsType(t, &platformmemory.UnitOfWork{}, unitOfWork)
}

func TestBootstrapAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	services := BuildServices(platformmemory.NewUnitOfWork(), Config{MaxLoanDays: 90}, nil)

	require.NoError(t, BootstrapAdmin(ctx, services.Users, "Root@Example.com", discardLogger()))
	require.NoError(t, BootstrapAdmin(ctx, services.Users, "root@example.com", discardLogger()))
	require.NoError(t, BootstrapAdmin(ctx, services.Users, "", discardLogger()))

	users, err := services.Users.List(ctx, repository.Page{})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, userdomain.RoleAdmin, users[0].Role)

	caller, err := services.Users.Identify(ctx, users[0].ID)
	require.NoError(t, err)
	assert.True(t, caller.Can(userdomain.CapabilityManage))
}
