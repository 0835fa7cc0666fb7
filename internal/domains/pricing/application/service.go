package application

import (
	"context"
	"time"

	catalogdomain "github.com/Apurer/backoffice-api/internal/domains/catalog/domain"
	"github.com/Apurer/backoffice-api/internal/domains/pricing/domain"
	"github.com/Apurer/backoffice-api/internal/domains/pricing/ports"
	"github.com/Apurer/backoffice-api/internal/shared/uow"
)

// Service answers price lookups at the current time.
type Service struct {
	uow uow.UnitOfWork
	now func() time.Time
}

func NewService(unitOfWork uow.UnitOfWork) *Service {
	return &Service{uow: unitOfWork, now: time.Now}
}

func (s *Service) ResolvePrice(ctx context.Context, productID int64) (domain.Quote, error) {
	var quote domain.Quote
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		product, err := tx.Products().Get(ctx, productID)
		if err != nil {
			return err
		}
		quote, err = NewResolver(tx.Discounts()).Quote(ctx, product, s.now().UTC())
		return err
	})
	return quote, err
}

func (s *Service) ResolvePrices(ctx context.Context, productIDs []int64) (map[int64]domain.Quote, error) {
	var quotes map[int64]domain.Quote
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		products := make([]*catalogdomain.Product, 0, len(productIDs))
		seen := make(map[int64]struct{}, len(productIDs))
		for _, id := range productIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			product, err := tx.Products().Get(ctx, id)
			if err != nil {
				return err
			}
			products = append(products, product)
		}
		var err error
		quotes, err = NewResolver(tx.Discounts()).Quotes(ctx, products, s.now().UTC())
		return err
	})
	return quotes, err
}

var _ ports.Service = (*Service)(nil)
