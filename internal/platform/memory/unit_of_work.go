// Package memory provides the in-memory unit of work used when no database is
// configured and by unit tests.
package memory

import (
	"context"
	"sync"

	catalogmemory "github.com/Apurer/backoffice-api/internal/domains/catalog/adapters/memory"
	catalogports "github.com/Apurer/backoffice-api/internal/domains/catalog/ports"
	ordermemory "github.com/Apurer/backoffice-api/internal/domains/orders/adapters/memory"
	orderports "github.com/Apurer/backoffice-api/internal/domains/orders/ports"
	casememory "github.com/Apurer/backoffice-api/internal/domains/salescases/adapters/memory"
	caseports "github.com/Apurer/backoffice-api/internal/domains/salescases/ports"
	usermemory "github.com/Apurer/backoffice-api/internal/domains/users/adapters/memory"
	userports "github.com/Apurer/backoffice-api/internal/domains/users/ports"
	"github.com/Apurer/backoffice-api/internal/shared/uow"
)

var _ uow.UnitOfWork = (*UnitOfWork)(nil)

// UnitOfWork serializes transactions behind one mutex. Each transaction works
// on a snapshot that replaces the committed state only when fn succeeds, so an
// error or panic leaves the committed state untouched. Do must not be nested.
type UnitOfWork struct {
	mu    sync.Mutex
	state state
}

type state struct {
	catalog *catalogmemory.Store
	orders  *ordermemory.Store
	cases   *casememory.Store
	users   *usermemory.Store
}

func (s state) snapshot() state {
	return state{
		catalog: s.catalog.Snapshot(),
		orders:  s.orders.Snapshot(),
		cases:   s.cases.Snapshot(),
		users:   s.users.Snapshot(),
	}
}

func NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{state: state{
		catalog: catalogmemory.NewStore(),
		orders:  ordermemory.NewStore(),
		cases:   casememory.NewStore(),
		users:   usermemory.NewStore(),
	}}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx uow.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()

	working := u.state.snapshot()
	if err := fn(ctx, newTx(working)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	u.state = working
	return nil
}

type tx struct {
	products    *catalogmemory.ProductRepository
	discounts   *catalogmemory.DiscountRepository
	orders      *ordermemory.Repository
	idempotency *ordermemory.IdempotencyStore
	cases       *casememory.Repository
	users       *usermemory.Repository
}

func newTx(s state) *tx {
	return &tx{
		products:    catalogmemory.NewProductRepository(s.catalog),
		discounts:   catalogmemory.NewDiscountRepository(s.catalog),
		orders:      ordermemory.NewRepository(s.orders),
		idempotency: ordermemory.NewIdempotencyStore(s.orders),
		cases:       casememory.NewRepository(s.cases),
		users:       usermemory.NewRepository(s.users),
	}
}

func (t *tx) Products() catalogports.ProductRepository { return t.products }
func (t *tx) Discounts() catalogports.DiscountRepository { return t.discounts }
func (t *tx) Orders() orderports.Repository { return t.orders }
func (t *tx) OrderIdempotency() orderports.IdempotencyStore { return t.idempotency }
func (t *tx) SalesCases() caseports.Repository { return t.cases }
func (t *tx) Users() userports.Repository { return t.users }
