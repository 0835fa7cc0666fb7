package ports

import (
	"context"
	"fmt"
	"time"

	"github.com/Apurer/backoffice-api/internal/domains/salescases/domain"
	"github.com/Apurer/backoffice-api/internal/shared/apperr"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

var ErrNotFound = fmt.Errorf("sales case %w", apperr.ErrNotFound)

// Repository persists sales cases together with their items.
type Repository interface {
	repository.Repository[domain.SalesCase]
	// GetForUpdate loads the case and holds a row lock until the enclosing transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*domain.SalesCase, error)
	ListFiltered(ctx context.Context, filter domain.Filter, page repository.Page) ([]*domain.SalesCase, error)
	// ListOnLoanDueBefore returns on-loan cases whose return date is before asOf.
	ListOnLoanDueBefore(ctx context.Context, asOf time.Time) ([]*domain.SalesCase, error)
}
