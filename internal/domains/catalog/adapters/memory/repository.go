package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/Apurer/backoffice-api/internal/domains/catalog/domain"
	"github.com/Apurer/backoffice-api/internal/domains/catalog/ports"
	"github.com/Apurer/backoffice-api/internal/shared/memtable"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

// Store holds catalog rows for the in-memory unit of work.
type Store struct {
	products  *memtable.Table[domain.Product]
	discounts *memtable.Table[domain.Discount]
}

func NewStore() *Store {
	return &Store{
		products:  memtable.New(cloneProduct),
		discounts: memtable.New(cloneDiscount),
	}
}

// Snapshot copies the store so a transaction can discard its changes.
func (s *Store) Snapshot() *Store {
	return &Store{products: s.products.Snapshot(), discounts: s.discounts.Snapshot()}
}

var (
	_ ports.ProductRepository  = (*ProductRepository)(nil)
	_ ports.DiscountRepository = (*DiscountRepository)(nil)
)

// ProductRepository keeps products in memory. Row locks are implied by the
// unit of work, which serializes transactions.
type ProductRepository struct {
	store *Store
	now   func() time.Time
}

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store, now: time.Now}
}

func (r *ProductRepository) Get(_ context.Context, id int64) (*domain.Product, error) {
	product, ok := r.store.products.Get(id)
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	return product, nil
}

func (r *ProductRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Product, error) {
	return r.Get(ctx, id)
}

func (r *ProductRepository) GetByBarcode(_ context.Context, barcode string) (*domain.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, ports.ErrProductNotFound
	}
	for _, product := range r.store.products.All() {
		if product.Barcode == barcode {
			return product, nil
		}
	}
	return nil, ports.ErrProductNotFound
}

func (r *ProductRepository) List(_ context.Context, page repository.Page) ([]*domain.Product, error) {
	return repository.Slice(r.store.products.All(), page), nil
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := r.checkBarcode(ctx, product.Barcode, 0); err != nil {
		return nil, err
	}
	clone := cloneProduct(product)
	clone.ID = r.store.products.NextID()
	now := r.now().UTC()
	clone.CreatedAt, clone.UpdatedAt = now, now
	r.store.products.Put(clone.ID, clone)
	return cloneProduct(clone), nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if !r.store.products.Has(product.ID) {
		return nil, ports.ErrProductNotFound
	}
	if err := r.checkBarcode(ctx, product.Barcode, product.ID); err != nil {
		return nil, err
	}
	clone := cloneProduct(product)
	clone.UpdatedAt = r.now().UTC()
	r.store.products.Put(clone.ID, clone)
	return cloneProduct(clone), nil
}

func (r *ProductRepository) Delete(_ context.Context, id int64) error {
	if !r.store.products.Delete(id) {
		return ports.ErrProductNotFound
	}
	for _, discount := range r.store.discounts.All() {
		if discount.ProductID == id {
			r.store.discounts.Delete(discount.ID)
		}
	}
	return nil
}

func (r *ProductRepository) checkBarcode(ctx context.Context, barcode string, selfID int64) error {
	if strings.TrimSpace(barcode) == "" {
		return nil
	}
	existing, err := r.GetByBarcode(ctx, barcode)
	if err == nil && existing.ID != selfID {
		return ports.ErrDuplicateBarcode
	}
	return nil
}

// DiscountRepository keeps discounts in memory.
type DiscountRepository struct {
	store *Store
}

func NewDiscountRepository(store *Store) *DiscountRepository {
	return &DiscountRepository{store: store}
}

func (r *DiscountRepository) Get(_ context.Context, id int64) (*domain.Discount, error) {
	discount, ok := r.store.discounts.Get(id)
	if !ok {
		return nil, ports.ErrDiscountNotFound
	}
	return discount, nil
}

func (r *DiscountRepository) List(_ context.Context, page repository.Page) ([]*domain.Discount, error) {
	return repository.Slice(r.store.discounts.All(), page), nil
}

func (r *DiscountRepository) Create(_ context.Context, discount *domain.Discount) (*domain.Discount, error) {
	if discount == nil {
		return nil, errors.New("discount is nil")
	}
	if !r.store.products.Has(discount.ProductID) {
		return nil, ports.ErrProductNotFound
	}
	clone := cloneDiscount(discount)
	clone.ID = r.store.discounts.NextID()
	r.store.discounts.Put(clone.ID, clone)
	return cloneDiscount(clone), nil
}

func (r *DiscountRepository) Update(_ context.Context, discount *domain.Discount) (*domain.Discount, error) {
	if discount == nil {
		return nil, errors.New("discount is nil")
	}
	if !r.store.discounts.Has(discount.ID) {
		return nil, ports.ErrDiscountNotFound
	}
	r.store.discounts.Put(discount.ID, discount)
	return cloneDiscount(discount), nil
}

func (r *DiscountRepository) Delete(_ context.Context, id int64) error {
	if !r.store.discounts.Delete(id) {
		return ports.ErrDiscountNotFound
	}
	return nil
}

func (r *DiscountRepository) ActiveFor(ctx context.Context, productID int64, asOf time.Time) ([]*domain.Discount, error) {
	return r.ActiveForProducts(ctx, []int64{productID}, asOf)
}

func (r *DiscountRepository) ActiveForProducts(_ context.Context, productIDs []int64, asOf time.Time) ([]*domain.Discount, error) {
	wanted := make(map[int64]struct{}, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = struct{}{}
	}
	var out []*domain.Discount
	for _, discount := range r.store.discounts.All() {
		if _, ok := wanted[discount.ProductID]; ok && discount.ActiveAt(asOf) {
			out = append(out, discount)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DiscountPrice.LessThan(out[j].DiscountPrice) })
	return out, nil
}

func cloneProduct(p *domain.Product) *domain.Product {
	clone := *p
	return &clone
}

func cloneDiscount(d *domain.Discount) *domain.Discount {
	clone := *d
	return &clone
}
