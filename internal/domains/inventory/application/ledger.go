// Package application implements the inventory ledger, the only writer of
// stock_quantity and on_loan_quantity.
package application

import (
	"context"
	"sort"

	catalogdomain "github.com/Apurer/backoffice-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/backoffice-api/internal/domains/catalog/ports"
)

// Ledger mutates product counts through a transaction-bound repository. It
// never commits; the enclosing unit of work does.
type Ledger struct {
	products catalogports.ProductRepository
}

func NewLedger(products catalogports.ProductRepository) *Ledger {
	return &Ledger{products: products}
}

// LockProductForUpdate loads the product under a row lock held until the transaction ends.
func (l *Ledger) LockProductForUpdate(ctx context.Context, id int64) (*catalogdomain.Product, error) {
	return l.products.GetForUpdate(ctx, id)
}

// LockProductsForUpdate locks the given products in ascending ID order, the
// single lock order used by every transaction.
func (l *Ledger) LockProductsForUpdate(ctx context.Context, ids []int64) (map[int64]*catalogdomain.Product, error) {
	ordered := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ordered = append(ordered, id)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	locked := make(map[int64]*catalogdomain.Product, len(ordered))
	for _, id := range ordered {
		product, err := l.products.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = product
	}
	return locked, nil
}

// AdjustStock applies the deltas and stages the write. Callers validate first;
// the ledger does not re-check availability.
func (l *Ledger) AdjustStock(ctx context.Context, product *catalogdomain.Product, deltaStock, deltaOnLoan int) (*catalogdomain.Product, error) {
	product.StockQuantity += deltaStock
	product.OnLoanQuantity += deltaOnLoan
	updated, err := l.products.Update(ctx, product)
	if err != nil {
		return nil, err
	}
	*product = *updated
	return product, nil
}
