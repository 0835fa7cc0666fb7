package application

import (
	"context"
	"fmt"

	"github.com/Apurer/backoffice-api/internal/domains/catalog/domain"
	"github.com/Apurer/backoffice-api/internal/domains/catalog/ports"
	"github.com/Apurer/backoffice-api/internal/shared/apperr"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
	"github.com/Apurer/backoffice-api/internal/shared/uow"
)

// Service exposes catalog administration use cases.
type Service struct {
	uow uow.UnitOfWork
}

func NewService(unitOfWork uow.UnitOfWork) *Service {
	return &Service{uow: unitOfWork}
}

func (s *Service) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, fmt.Errorf("%w: product is nil", apperr.ErrInvalidInput)
	}
	// new products never start with units on loan
	product.OnLoanQuantity = 0
	if err := product.Validate(); err != nil {
		return nil, mapError(err)
	}
	var created *domain.Product
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		var err error
		created, err = tx.Products().Create(ctx, product)
		return err
	})
	return created, err
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var product *domain.Product
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		var err error
		product, err = tx.Products().Get(ctx, id)
		return err
	})
	return product, err
}

func (s *Service) GetProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	var product *domain.Product
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		var err error
		product, err = tx.Products().GetByBarcode(ctx, barcode)
		return err
	})
	return product, err
}

func (s *Service) ListProducts(ctx context.Context, page repository.Page) ([]*domain.Product, error) {
	var products []*domain.Product
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		var err error
		products, err = tx.Products().List(ctx, page.Normalize(repository.DefaultLimit))
		return err
	})
	return products, err
}

// UpdateProduct locks the row so a concurrent checkout cannot interleave with the stock edit.
func (s *Service) UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	var updated *domain.Product
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		product, err := tx.Products().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := patch.Apply(product); err != nil {
			return mapError(err)
		}
		updated, err = tx.Products().Update(ctx, product)
		return err
	})
	return updated, err
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	return s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		product, err := tx.Products().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product.OnLoanQuantity > 0 {
			return fmt.Errorf("%w: product %d has %d units on loan", apperr.ErrInvalidState, id, product.OnLoanQuantity)
		}
		return tx.Products().Delete(ctx, id)
	})
}

func (s *Service) CreateDiscount(ctx context.Context, discount *domain.Discount) (*domain.Discount, error) {
	if discount == nil {
		return nil, fmt.Errorf("%w: discount is nil", apperr.ErrInvalidInput)
	}
	if err := discount.Validate(); err != nil {
		return nil, mapError(err)
	}
	var created *domain.Discount
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		product, err := tx.Products().Get(ctx, discount.ProductID)
		if err != nil {
			return err
		}
		if err := discount.CheckAgainstCost(product); err != nil {
			return mapError(err)
		}
		created, err = tx.Discounts().Create(ctx, discount)
		return err
	})
	return created, err
}

func (s *Service) GetDiscount(ctx context.Context, id int64) (*domain.Discount, error) {
	var discount *domain.Discount
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		var err error
		discount, err = tx.Discounts().Get(ctx, id)
		return err
	})
	return discount, err
}

func (s *Service) ListDiscounts(ctx context.Context, page repository.Page) ([]*domain.Discount, error) {
	var discounts []*domain.Discount
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		var err error
		discounts, err = tx.Discounts().List(ctx, page.Normalize(repository.DefaultLimit))
		return err
	})
	return discounts, err
}

// UpdateDiscount re-applies the cost rule to the merged result.
func (s *Service) UpdateDiscount(ctx context.Context, id int64, patch domain.DiscountPatch) (*domain.Discount, error) {
	var updated *domain.Discount
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		discount, err := tx.Discounts().Get(ctx, id)
		if err != nil {
			return err
		}
		if err := patch.Apply(discount); err != nil {
			return mapError(err)
		}
		product, err := tx.Products().Get(ctx, discount.ProductID)
		if err != nil {
			return err
		}
		if err := discount.CheckAgainstCost(product); err != nil {
			return mapError(err)
		}
		updated, err = tx.Discounts().Update(ctx, discount)
		return err
	})
	return updated, err
}

func (s *Service) DeleteDiscount(ctx context.Context, id int64) error {
	return s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		return tx.Discounts().Delete(ctx, id)
	})
}

var _ ports.Service = (*Service)(nil)
