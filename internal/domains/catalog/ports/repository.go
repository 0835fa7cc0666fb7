package ports

import (
	"context"
	"fmt"
	"time"

	"github.com/Apurer/backoffice-api/internal/domains/catalog/domain"
	"github.com/Apurer/backoffice-api/internal/shared/apperr"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

var (
	ErrProductNotFound  = fmt.Errorf("product %w", apperr.ErrNotFound)
	ErrDiscountNotFound = fmt.Errorf("discount %w", apperr.ErrNotFound)
	ErrDuplicateBarcode = fmt.Errorf("%w: barcode already registered", apperr.ErrConflict)
)

// ProductRepository persists products.
type ProductRepository interface {
	repository.Repository[domain.Product]
	// GetForUpdate loads the product and holds a row lock until the enclosing transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*domain.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*domain.Product, error)
}

// DiscountRepository persists discounts and answers active-window queries.
type DiscountRepository interface {
	repository.Repository[domain.Discount]
	// ActiveFor returns the discounts of productID whose window contains asOf.
	ActiveFor(ctx context.Context, productID int64, asOf time.Time) ([]*domain.Discount, error)
	// ActiveForProducts is the batch form of ActiveFor.
	ActiveForProducts(ctx context.Context, productIDs []int64, asOf time.Time) ([]*domain.Discount, error)
}
