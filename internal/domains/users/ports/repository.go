package ports

import (
	"context"
	"fmt"

	"github.com/Apurer/backoffice-api/internal/domains/users/domain"
	"github.com/Apurer/backoffice-api/internal/shared/apperr"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

var (
	ErrNotFound       = fmt.Errorf("user %w", apperr.ErrNotFound)
	ErrDuplicateEmail = fmt.Errorf("%w: email already registered", apperr.ErrConflict)
)

// Repository persists users.
type Repository interface {
	repository.Repository[domain.User]
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
