// Package domain holds the inventory rules shared by checkout and sales cases.
package domain

import (
	"fmt"

	catalogdomain "github.com/Apurer/backoffice-api/internal/domains/catalog/domain"
	"github.com/Apurer/backoffice-api/internal/shared/apperr"
)

// InsufficientStockError reports the first line that could not be covered.
type InsufficientStockError struct {
	ProductID int64
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d (%s): requested %d, available %d", e.ProductID, e.Name, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return apperr.ErrInsufficientStock }

// CheckAvailable fails when qty exceeds the units not already on loan.
func CheckAvailable(product *catalogdomain.Product, qty int) error {
	if available := product.Available(); qty > available {
		return &InsufficientStockError{ProductID: product.ID, Name: product.Name, Requested: qty, Available: available}
	}
	return nil
}

// StockShortfall exposes the failing line to transport adapters.
func (e *InsufficientStockError) StockShortfall() (productID int64, requested, available int) {
	return e.ProductID, e.Requested, e.Available
}
