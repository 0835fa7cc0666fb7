package ports

import (
	"context"

	"github.com/Apurer/backoffice-api/internal/domains/users/domain"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

// Service exposes user bounded context use cases to adapters.
type Service interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	CreateUsers(ctx context.Context, users []*domain.User) ([]*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, page repository.Page) ([]*domain.User, error)
	Delete(ctx context.Context, id int64) error
	// Identify resolves an authenticated user id into the caller identity used by the core.
	Identify(ctx context.Context, id int64) (domain.Caller, error)
}
