package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/backoffice-api/internal/domains/catalog/domain"
	inventoryapp "github.com/Apurer/backoffice-api/internal/domains/inventory/application"
	inventorydomain "github.com/Apurer/backoffice-api/internal/domains/inventory/domain"
	orderdomain "github.com/Apurer/backoffice-api/internal/domains/orders/domain"
	pricingapp "github.com/Apurer/backoffice-api/internal/domains/pricing/application"
	"github.com/Apurer/backoffice-api/internal/domains/salescases/domain"
	"github.com/Apurer/backoffice-api/internal/domains/salescases/ports"
	userdomain "github.com/Apurer/backoffice-api/internal/domains/users/domain"
	userports "github.com/Apurer/backoffice-api/internal/domains/users/ports"
	"github.com/Apurer/backoffice-api/internal/shared/apperr"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
	"github.com/Apurer/backoffice-api/internal/shared/uow"
)

const (
	MinLoanDays        = 1
	DefaultMaxLoanDays = 90
)

// Service implements the sales case lifecycle: loan, return, and reporting.
type Service struct {
	uow         uow.UnitOfWork
	now         func() time.Time
	maxLoanDays int
}

type Option func(*Service)

// WithMaxLoanDays overrides the upper bound of a loan duration.
func WithMaxLoanDays(days int) Option {
	return func(s *Service) {
		if days >= MinLoanDays {
			s.maxLoanDays = days
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(unitOfWork uow.UnitOfWork, opts ...Option) *Service {
	s := &Service{uow: unitOfWork, now: time.Now, maxLoanDays: DefaultMaxLoanDays}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateCase moves the requested units from available stock onto a sales rep's loan.
func (s *Service) CreateCase(ctx context.Context, caller userdomain.Caller, input ports.CreateCaseInput) (*domain.SalesCase, error) {
	if !caller.Can(userdomain.CapabilityManage) {
		return nil, fmt.Errorf("%w: only administrators open sales cases", apperr.ErrAuthorization)
	}
	if input.LoanDurationDays < MinLoanDays || input.LoanDurationDays > s.maxLoanDays {
		return nil, mapError(fmt.Errorf("%w: %d days, allowed %d to %d", ErrInvalidDuration, input.LoanDurationDays, MinLoanDays, s.maxLoanDays))
	}
	items, err := domain.MergeItems(input.Items)
	if err != nil {
		return nil, mapError(err)
	}

	var created *domain.SalesCase
	err = s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		rep, err := tx.Users().Get(ctx, input.SalesRepID)
		if errors.Is(err, userports.ErrNotFound) {
			return fmt.Errorf("sales rep %d: %w", input.SalesRepID, err)
		}
		if err != nil {
			return err
		}
		if rep.Role != userdomain.RoleSalesRep {
			return fmt.Errorf("%w: user %d is not a sales rep", apperr.ErrLogic, rep.ID)
		}

		ledger := inventoryapp.NewLedger(tx.Products())
		ids := make([]int64, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.ProductID)
		}
		locked, err := ledger.LockProductsForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := inventorydomain.CheckAvailable(locked[item.ProductID], item.Quantity); err != nil {
				return err
			}
		}
		for _, item := range items {
			if _, err := ledger.AdjustStock(ctx, locked[item.ProductID], 0, item.Quantity); err != nil {
				return err
			}
		}
		created, err = tx.SalesCases().Create(ctx, domain.NewSalesCase(rep.ID, s.now().UTC(), input.LoanDurationDays, items))
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ReturnCase settles a case: loaned units leave on_loan, sold units leave
// stock, sold units become a settlement order, and the case is closed.
func (s *Service) ReturnCase(ctx context.Context, caller userdomain.Caller, caseID int64, sold []domain.ItemSold) (*domain.ReturnReport, error) {
	if !caller.Can(userdomain.CapabilityHoldCases) {
		return nil, fmt.Errorf("%w: role %q cannot return sales cases", apperr.ErrAuthorization, caller.Role)
	}
	soldByProduct, err := domain.MergeSold(sold)
	if err != nil {
		return nil, mapError(err)
	}

	var report *domain.ReturnReport
	err = s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		salesCase, err := tx.SalesCases().GetForUpdate(ctx, caseID)
		if err != nil {
			return err
		}
		if !salesCase.Returnable() {
			return fmt.Errorf("%w: sales case %d is %s", apperr.ErrInvalidState, caseID, salesCase.Status)
		}
		if err := authorizeCaseAccess(caller, salesCase); err != nil {
			return err
		}
		loaned := salesCase.LoanedQuantities()
		for productID, qty := range soldByProduct {
			if qty > loaned[productID] {
				return fmt.Errorf("%w: sold %d of product %d but only %d were loaned", apperr.ErrLogic, qty, productID, loaned[productID])
			}
		}

		ledger := inventoryapp.NewLedger(tx.Products())
		ids := make([]int64, 0, len(loaned))
		for productID := range loaned {
			ids = append(ids, productID)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		locked, err := ledger.LockProductsForUpdate(ctx, ids)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		products := make([]*catalogdomain.Product, 0, len(ids))
		for _, id := range ids {
			products = append(products, locked[id])
		}
		prices, err := pricingapp.NewResolver(tx.Discounts()).CurrentPrices(ctx, products, now)
		if err != nil {
			return err
		}

		report = &domain.ReturnReport{CaseID: salesCase.ID, SalesRepID: salesCase.SalesRepID, ReturnedAt: now, TotalValueSold: decimal.Zero}
		var settlement []orderdomain.OrderItem
		for _, id := range ids {
			product := locked[id]
			qtyLoaned, qtySold := loaned[id], soldByProduct[id]
			unit := prices[id]
			subtotal := unit.Mul(decimal.NewFromInt(int64(qtySold)))
			report.Items = append(report.Items, domain.ItemReturnSummary{
				ProductID:        id,
				ProductName:      product.Name,
				QuantityLoaned:   qtyLoaned,
				QuantitySold:     qtySold,
				QuantityReturned: qtyLoaned - qtySold,
				UnitPrice:        unit,
				Subtotal:         subtotal,
			})
			report.TotalItemsSold += qtySold
			report.TotalValueSold = report.TotalValueSold.Add(subtotal)
			if qtySold > 0 {
				settlement = append(settlement, orderdomain.OrderItem{ProductID: id, Quantity: qtySold, PriceAtPurchase: unit})
			}
			if _, err := ledger.AdjustStock(ctx, product, -qtySold, -qtyLoaned); err != nil {
				return err
			}
		}

		if report.TotalItemsSold > 0 {
			order, err := tx.Orders().Create(ctx, &orderdomain.Order{
				UserID:    salesCase.SalesRepID,
				Status:    orderdomain.StatusCompletedBySalesRep,
				CreatedAt: now,
				Items:     settlement,
			})
			if err != nil {
				return err
			}
			report.OrderID = &order.ID
		}

		salesCase.MarkReturned(now)
		_, err = tx.SalesCases().Update(ctx, salesCase)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// GetCase returns a case; sales reps only see their own.
func (s *Service) GetCase(ctx context.Context, caller userdomain.Caller, id int64) (*domain.SalesCase, error) {
	if !caller.Can(userdomain.CapabilityHoldCases) {
		return nil, fmt.Errorf("%w: role %q cannot view sales cases", apperr.ErrAuthorization, caller.Role)
	}
	var salesCase *domain.SalesCase
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		var err error
		salesCase, err = tx.SalesCases().Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := authorizeCaseAccess(caller, salesCase); err != nil {
		return nil, err
	}
	return salesCase, nil
}

// ListCases lists cases matching filter. A sales rep is always restricted to their own cases.
func (s *Service) ListCases(ctx context.Context, caller userdomain.Caller, filter domain.Filter, page repository.Page) ([]*domain.SalesCase, error) {
	if !caller.Can(userdomain.CapabilityHoldCases) {
		return nil, fmt.Errorf("%w: role %q cannot view sales cases", apperr.ErrAuthorization, caller.Role)
	}
	if !caller.Can(userdomain.CapabilityManage) {
		filter.SalesRepID = caller.ID
	}
	var cases []*domain.SalesCase
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		var err error
		cases, err = tx.SalesCases().ListFiltered(ctx, filter, page.Normalize(repository.DefaultLimit))
		return err
	})
	return cases, err
}

// OverdueCases reports cases still on loan past their return date. Stored
// statuses are left untouched.
func (s *Service) OverdueCases(ctx context.Context, asOf time.Time) (*domain.OverdueReport, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	asOf = asOf.UTC()
	var cases []*domain.SalesCase
	err := s.uow.Do(ctx, func(ctx context.Context, tx uow.Tx) error {
		var err error
		cases, err = tx.SalesCases().ListOnLoanDueBefore(ctx, asOf)
		return err
	})
	if err != nil {
		return nil, err
	}
	report := &domain.OverdueReport{AsOf: asOf, Entries: make([]domain.OverdueEntry, 0, len(cases))}
	for _, c := range cases {
		report.Entries = append(report.Entries, domain.NewOverdueEntry(c, asOf))
	}
	return report, nil
}

func authorizeCaseAccess(caller userdomain.Caller, salesCase *domain.SalesCase) error {
	if caller.Can(userdomain.CapabilityManage) || salesCase.SalesRepID == caller.ID {
		return nil
	}
	return fmt.Errorf("%w: sales case %d belongs to another sales rep", apperr.ErrAuthorization, salesCase.ID)
}

var _ ports.Service = (*Service)(nil)
