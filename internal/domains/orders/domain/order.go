package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// MaxQuantity caps the merged quantity of one product in an order.
const MaxQuantity = 1_000_000

// Status is a free-form audit label; no state machine is enforced on orders.
type Status string

const (
	StatusProcessing          Status = "processing"
	StatusCompletedBySalesRep Status = "completed_by_sales_rep"
)

var (
	ErrEmptyOrder          = errors.New("order must contain at least one line")
	ErrInvalidProductID    = errors.New("product id must be greater than zero")
	ErrNonPositiveQuantity = errors.New("quantity must be greater than zero")
	ErrQuantityTooLarge    = fmt.Errorf("quantity per product must not exceed %d", MaxQuantity)
)

// Order is an immutable purchase record once created.
type Order struct {
	ID        int64
	UserID    int64
	Status    Status
	CreatedAt time.Time
	Items     []OrderItem
}

// OrderItem freezes the unit price at purchase time.
type OrderItem struct {
	ID              int64
	OrderID         int64
	ProductID       int64
	Quantity        int
	PriceAtPurchase decimal.Decimal
}

// Total sums quantity times frozen price over every line.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Subtotal is quantity times the frozen unit price.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Line is one requested product and quantity.
type Line struct {
	ProductID int64
	Quantity  int
}

// MergeLines validates lines and sums duplicates, returning them in ascending
// product ID order so row locks are always taken in the same order.
func MergeLines(lines []Line) ([]Line, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	totals := make(map[int64]int, len(lines))
	for _, line := range lines {
		if line.ProductID <= 0 {
			return nil, ErrInvalidProductID
		}
		if line.Quantity <= 0 {
			return nil, ErrNonPositiveQuantity
		}
		if line.Quantity > MaxQuantity-totals[line.ProductID] {
			return nil, ErrQuantityTooLarge
		}
		totals[line.ProductID] += line.Quantity
	}
	merged := make([]Line, 0, len(totals))
	for id, qty := range totals {
		merged = append(merged, Line{ProductID: id, Quantity: qty})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })
	return merged, nil
}
