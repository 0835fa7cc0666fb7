package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	catalogpg "github.com/Apurer/backoffice-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/Apurer/backoffice-api/internal/domains/catalog/ports"
	orderpg "github.com/Apurer/backoffice-api/internal/domains/orders/adapters/persistence/postgres"
	orderports "github.com/Apurer/backoffice-api/internal/domains/orders/ports"
	casepg "github.com/Apurer/backoffice-api/internal/domains/salescases/adapters/persistence/postgres"
	caseports "github.com/Apurer/backoffice-api/internal/domains/salescases/ports"
	userpg "github.com/Apurer/backoffice-api/internal/domains/users/adapters/persistence/postgres"
	userports "github.com/Apurer/backoffice-api/internal/domains/users/ports"
	"github.com/Apurer/backoffice-api/internal/shared/uow"
)

var _ uow.UnitOfWork = (*UnitOfWork)(nil)

// UnitOfWork runs each callback inside one GORM transaction. GORM commits
// when the callback returns nil and rolls back on error or panic.
type UnitOfWork struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx uow.Tx) error) error {
	if u == nil || u.db == nil {
		return errors.New("postgres unit of work not configured")
	}
	return u.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(ctx, newTx(db))
	})
}

type tx struct {
	products    *catalogpg.ProductRepository
	discounts   *catalogpg.DiscountRepository
	orders      *orderpg.Repository
	idempotency *orderpg.IdempotencyStore
	cases       *casepg.Repository
	users       *userpg.Repository
}

func newTx(db *gorm.DB) *tx {
	return &tx{
		products:    catalogpg.NewProductRepository(db),
		discounts:   catalogpg.NewDiscountRepository(db),
		orders:      orderpg.NewRepository(db),
		idempotency: orderpg.NewIdempotencyStore(db),
		cases:       casepg.NewRepository(db),
		users:       userpg.NewRepository(db),
	}
}

func (t *tx) Products() catalogports.ProductRepository { return t.products }
func (t *tx) Discounts() catalogports.DiscountRepository { return t.discounts }
func (t *tx) Orders() orderports.Repository { return t.orders }
func (t *tx) OrderIdempotency() orderports.IdempotencyStore { return t.idempotency }
func (t *tx) SalesCases() caseports.Repository { return t.cases }
func (t *tx) Users() userports.Repository { return t.users }
