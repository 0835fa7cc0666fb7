package ports

import (
	"context"

	"github.com/Apurer/backoffice-api/internal/domains/catalog/domain"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

// Service exposes catalog administration use cases to adapters.
type Service interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error)
	ListProducts(ctx context.Context, page repository.Page) ([]*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	CreateDiscount(ctx context.Context, discount *domain.Discount) (*domain.Discount, error)
	GetDiscount(ctx context.Context, id int64) (*domain.Discount, error)
	ListDiscounts(ctx context.Context, page repository.Page) ([]*domain.Discount, error)
	UpdateDiscount(ctx context.Context, id int64, patch domain.DiscountPatch) (*domain.Discount, error)
	DeleteDiscount(ctx context.Context, id int64) error
}
