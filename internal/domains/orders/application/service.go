package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	catalogdomain "github.com/Apurer/backoffice-api/internal/domains/catalog/domain"
	inventoryapp "github.com/Apurer/backoffice-api/internal/domains/inventory/application"
	inventorydomain "github.com/Apurer/backoffice-api/internal/domains/inventory/domain"
	"github.com/Apurer/backoffice-api/internal/domains/orders/domain"
	"github.com/Apurer/backoffice-api/internal/domains/orders/ports"
	pricingapp "github.com/Apurer/backoffice-api/internal/domains/pricing/application"
	userdomain "github.com/Apurer/backoffice-api/internal/domains/users/domain"
	"github.com/Apurer/backoffice-api/internal/shared/apperr"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
	"github.com/Apurer/backoffice-api/internal/shared/uow"
)

// DefaultHistoryLimit is the page size of order history when none is given.
const DefaultHistoryLimit = 25

// Service implements customer checkout and order history.
type Service struct {
	uow uow.UnitOfWork
	now func() time.Time
}

func NewService(unitOfWork uow.UnitOfWork) *Service {
	return &Service{uow: unitOfWork, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (s *Service) WithClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Checkout validates every line under row locks before writing anything, then
// creates the order, freezes prices, and debits stock in the same transaction.
func (s *Service) Checkout(ctx context.Context, caller userdomain.Caller, input ports.CheckoutInput) (*domain.Order, error) {
	if !caller.Can(userdomain.CapabilityPurchase) {
		return nil, fmt.Errorf("%w: role %q cannot place orders", apperr.ErrAuthorization, caller.Role)
	}
	lines, err := domain.MergeLines(input.Lines)
	if err != nil {
		return nil, mapError(err)
	}
	key := strings.TrimSpace(input.IdempotencyKey)
	if len(key) > ports.MaxIdempotencyKeyLength {
		return nil, fmt.Errorf("%w: idempotency key longer than %d bytes", apperr.ErrInvalidInput, ports.MaxIdempotencyKeyLength)
	}
	var fingerprint string
	if key != "" {
		if fingerprint, err = FingerprintCheckout(lines); err != nil {
			return nil, err
		}
	}

	var order *domain.Order
	err = s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		if key != "" {
			replayed, err := s.replay(ctx, tx, caller.ID, key, fingerprint)
			if err != nil || replayed != nil {
				order = replayed
				return err
			}
		}

		ledger := inventoryapp.NewLedger(tx.Products())
		ids := make([]int64, 0, len(lines))
		for _, line := range lines {
			ids = append(ids, line.ProductID)
		}
		locked, err := ledger.LockProductsForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		products := make([]*catalogdomain.Product, 0, len(lines))
		for _, line := range lines {
			product := locked[line.ProductID]
			if err := inventorydomain.CheckAvailable(product, line.Quantity); err != nil {
				return err
			}
			products = append(products, product)
		}

		now := s.now().UTC()
		prices, err := pricingapp.NewResolver(tx.Discounts()).CurrentPrices(ctx, products, now)
		if err != nil {
			return err
		}
		draft := &domain.Order{UserID: caller.ID, Status: domain.StatusProcessing, CreatedAt: now}
		for _, line := range lines {
			draft.Items = append(draft.Items, domain.OrderItem{
				ProductID:       line.ProductID,
				Quantity:        line.Quantity,
				PriceAtPurchase: prices[line.ProductID],
			})
			if _, err := ledger.AdjustStock(ctx, locked[line.ProductID], -line.Quantity, 0); err != nil {
				return err
			}
		}
		order, err = tx.Orders().Create(ctx, draft)
		if err != nil {
			return err
		}
		if key != "" {
			_, err = tx.OrderIdempotency().Save(ctx, ports.IdempotencyRecord{
				Key:         key,
				UserID:      caller.ID,
				RequestHash: fingerprint,
				OrderID:     order.ID,
				CreatedAt:   now,
			})
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) replay(ctx context.Context, tx uow.Tx, userID int64, key, fingerprint string) (*domain.Order, error) {
	record, err := tx.OrderIdempotency().Get(ctx, userID, key)
	if err != nil || record == nil {
		return nil, err
	}
	if record.RequestHash != fingerprint {
		return nil, ports.ErrIdempotencyConflict
	}
	return tx.Orders().Get(ctx, record.OrderID)
}

// GetOrder returns an order visible to the caller. Customers only see their own.
func (s *Service) GetOrder(ctx context.Context, caller userdomain.Caller, id int64) (*domain.Order, error) {
	var order *domain.Order
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		var err error
		order, err = tx.Orders().Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if order.UserID != caller.ID && !caller.Can(userdomain.CapabilityManage) {
		return nil, ports.ErrNotFound
	}
	return order, nil
}

// ListOrders returns the caller's orders newest first.
func (s *Service) ListOrders(ctx context.Context, caller userdomain.Caller, page repository.Page) ([]*domain.Order, error) {
	if caller.ID <= 0 {
		return nil, fmt.Errorf("%w: missing caller identity", apperr.ErrAuthorization)
	}
	var orders []*domain.Order
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		var err error
		orders, err = tx.Orders().ListForUser(ctx, caller.ID, page.Normalize(DefaultHistoryLimit))
		return err
	})
	return orders, err
}

var _ ports.Service = (*Service)(nil)
