package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProductID = errors.New("product id must be greater than zero")
	ErrInvalidWindow    = errors.New("discount start time must not be after its end time")
	ErrNonPositivePrice = errors.New("discount price must be greater than zero")
	ErrBelowCost        = errors.New("discount price cannot be lower than the product cost price")
)

// Discount is a time-bounded price override for one product.
type Discount struct {
	ID            int64
	ProductID     int64
	DiscountPrice decimal.Decimal
	StartTime     time.Time
	EndTime       time.Time
}

// NewDiscount validates and constructs a discount.
func NewDiscount(productID int64, price decimal.Decimal, start, end time.Time) (*Discount, error) {
	d := &Discount{ProductID: productID, DiscountPrice: price, StartTime: start, EndTime: end}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// Validate enforces the discount invariants that do not depend on the product.
func (d *Discount) Validate() error {
	if d.ProductID <= 0 {
		return ErrInvalidProductID
	}
	if !d.DiscountPrice.IsPositive() {
		return ErrNonPositivePrice
	}
	if err := checkPrice(d.DiscountPrice); err != nil {
		return err
	}
	if d.StartTime.After(d.EndTime) {
		return ErrInvalidWindow
	}
	return nil
}

// ActiveAt reports whether asOf falls inside the closed window [start, end].
func (d *Discount) ActiveAt(asOf time.Time) bool {
	return !asOf.Before(d.StartTime) && !asOf.After(d.EndTime)
}

// CheckAgainstCost enforces the zero-tolerance rule: never sell below cost.
func (d *Discount) CheckAgainstCost(product *Product) error {
	if d.DiscountPrice.LessThan(product.CostPrice) {
		return fmt.Errorf("%w: discount %s, cost %s", ErrBelowCost, d.DiscountPrice.StringFixed(2), product.CostPrice.StringFixed(2))
	}
	return nil
}

// DiscountPatch carries the optional fields of a partial discount update.
type DiscountPatch struct {
	DiscountPrice *decimal.Decimal
	StartTime     *time.Time
	EndTime       *time.Time
}

// Apply merges the present fields into d and re-validates.
func (patch DiscountPatch) Apply(d *Discount) error {
	if patch.DiscountPrice != nil {
		d.DiscountPrice = *patch.DiscountPrice
	}
	if patch.StartTime != nil {
		d.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		d.EndTime = *patch.EndTime
	}
	return d.Validate()
}
