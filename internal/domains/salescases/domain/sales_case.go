package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// MaxQuantity caps the merged quantity of one product, loaned or reported sold.
const MaxQuantity = 1_000_000

// Status of a sales case. Overdue is only ever derived, see EffectiveStatus.
type Status string

const (
	StatusOnLoan   Status = "on_loan"
	StatusReturned Status = "returned"
	StatusOverdue  Status = "overdue"
)

var (
	ErrNegativeQuantitySold = errors.New("quantity sold must not be negative")
	ErrEmptyCase            = errors.New("sales case must contain at least one item")
	ErrInvalidProductID     = errors.New("product id must be greater than zero")
	ErrNonPositiveQuantity  = errors.New("loaned quantity must be greater than zero")
	ErrQuantityTooLarge     = fmt.Errorf("quantity per product must not exceed %d", MaxQuantity)
)

// SalesCase is a batch of inventory physically held by a sales rep.
type SalesCase struct {
	ID           int64
	SalesRepID   int64
	LoanDate     time.Time
	ReturnByDate time.Time
	Status       Status
	ReturnedAt   *time.Time
	Items        []SalesCaseItem
}

// SalesCaseItem is the loaned quantity of one product.
type SalesCaseItem struct {
	ID        int64
	CaseID    int64
	ProductID int64
	Quantity  int
}

// NewSalesCase opens a case on loan for durationDays starting at loanDate.
func NewSalesCase(salesRepID int64, loanDate time.Time, durationDays int, items []SalesCaseItem) *SalesCase {
	return &SalesCase{
		SalesRepID:   salesRepID,
		LoanDate:     loanDate,
		ReturnByDate: loanDate.AddDate(0, 0, durationDays),
		Status:       StatusOnLoan,
		Items:        items,
	}
}

// EffectiveStatus reports overdue for a case still on loan past its return date.
func (c *SalesCase) EffectiveStatus(asOf time.Time) Status {
	if c.Status == StatusOnLoan && c.ReturnByDate.Before(asOf) {
		return StatusOverdue
	}
	return c.Status
}

// Returnable reports whether the stored status allows a return.
func (c *SalesCase) Returnable() bool {
	return c.Status == StatusOnLoan
}

// MarkReturned records the return. It does not check Returnable.
func (c *SalesCase) MarkReturned(at time.Time) {
	c.Status = StatusReturned
	returnedAt := at
	c.ReturnedAt = &returnedAt
}

// LoanedQuantities maps product ID to loaned quantity.
func (c *SalesCase) LoanedQuantities() map[int64]int {
	out := make(map[int64]int, len(c.Items))
	for _, item := range c.Items {
		out[item.ProductID] += item.Quantity
	}
	return out
}

// MergeItems validates loan lines and sums duplicates, returning them in
// ascending product ID order.
func MergeItems(items []SalesCaseItem) ([]SalesCaseItem, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCase
	}
	totals := make(map[int64]int, len(items))
	for _, item := range items {
		if item.ProductID <= 0 {
			return nil, ErrInvalidProductID
		}
		if item.Quantity <= 0 {
			return nil, ErrNonPositiveQuantity
		}
		if item.Quantity > MaxQuantity-totals[item.ProductID] {
			return nil, ErrQuantityTooLarge
		}
		totals[item.ProductID] += item.Quantity
	}
	merged := make([]SalesCaseItem, 0, len(totals))
	for id, qty := range totals {
		merged = append(merged, SalesCaseItem{ProductID: id, Quantity: qty})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ProductID < merged[j].ProductID })
	return merged, nil
}

// ItemSold is one reported sale against a case.
type ItemSold struct {
	ProductID    int64
	QuantitySold int
}

// MergeSold validates and sums reported sales per product. Zero quantities are dropped.
func MergeSold(items []ItemSold) (map[int64]int, error) {
	out := make(map[int64]int, len(items))
	for _, item := range items {
		if item.QuantitySold < 0 {
			return nil, ErrNegativeQuantitySold
		}
		if item.QuantitySold == 0 {
			continue
		}
		if item.QuantitySold > MaxQuantity-out[item.ProductID] {
			return nil, ErrQuantityTooLarge
		}
		out[item.ProductID] += item.QuantitySold
	}
	return out, nil
}

// Filter narrows case listings. Zero values mean no constraint.
type Filter struct {
	Status     Status
	SalesRepID int64
}

// ItemReturnSummary is one line of a return report.
type ItemReturnSummary struct {
	ProductID        int64
	ProductName      string
	QuantityLoaned   int
	QuantitySold     int
	QuantityReturned int
	UnitPrice        decimal.Decimal
	Subtotal         decimal.Decimal
}

// ReturnReport summarises a settled case.
type ReturnReport struct {
	CaseID         int64
	OrderID        *int64
	SalesRepID     int64
	ReturnedAt     time.Time
	TotalItemsSold int
	TotalValueSold decimal.Decimal
	Items          []ItemReturnSummary
}

// OverdueEntry is one case in the overdue report.
type OverdueEntry struct {
	CaseID       int64
	SalesRepID   int64
	ReturnByDate time.Time
	DaysOverdue  int
	UnitsOnLoan  int
}

// OverdueReport lists cases still on loan past their return date.
type OverdueReport struct {
	AsOf    time.Time
	Entries []OverdueEntry
}

// NewOverdueEntry derives the report line for a case as of the given time.
func NewOverdueEntry(c *SalesCase, asOf time.Time) OverdueEntry {
	units := 0
	for _, item := range c.Items {
		units += item.Quantity
	}
	return OverdueEntry{
		CaseID:       c.ID,
		SalesRepID:   c.SalesRepID,
		ReturnByDate: c.ReturnByDate,
		DaysOverdue:  int(asOf.Sub(c.ReturnByDate).Hours() / 24),
		UnitsOnLoan:  units,
	}
}
