package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName        = errors.New("product name is required")
	ErrNegativePrice    = errors.New("prices must not be negative")
	ErrNegativeStock    = errors.New("stock quantity must not be negative")
	ErrOnLoanExceeds    = errors.New("on-loan quantity must be between zero and stock quantity")
	ErrStockBelowOnLoan = errors.New("stock quantity cannot drop below the quantity currently on loan")
)

// Product is the single source of truth for inventory counts.
type Product struct {
	ID             int64
	Name           string
	Description    string
	Barcode        string
	ImageURL       string
	CostPrice      decimal.Decimal
	SellingPrice   decimal.Decimal
	StockQuantity  int
	OnLoanQuantity int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewProduct validates and constructs a product with no units on loan.
func NewProduct(name string, costPrice, sellingPrice decimal.Decimal, stock int) (*Product, error) {
	product := &Product{
		Name:          strings.TrimSpace(name),
		CostPrice:     costPrice,
		SellingPrice:  sellingPrice,
		StockQuantity: stock,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	return product, nil
}

// Available is the pool eligible for new sales or new loans.
func (p *Product) Available() int {
	return p.StockQuantity - p.OnLoanQuantity
}

// Validate enforces the product invariants, including 0 <= on loan <= stock.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.CostPrice.IsNegative() || p.SellingPrice.IsNegative() {
		return ErrNegativePrice
	}
	for _, price := range []decimal.Decimal{p.CostPrice, p.SellingPrice} {
		if err := checkPrice(price); err != nil {
			return err
		}
	}
	if p.StockQuantity < 0 {
		return ErrNegativeStock
	}
	if p.OnLoanQuantity < 0 || p.OnLoanQuantity > p.StockQuantity {
		return ErrOnLoanExceeds
	}
	return nil
}

// ProductPatch carries the optional fields of a partial product update.
// On-loan quantity is deliberately absent: only the inventory ledger moves it.
type ProductPatch struct {
	Name          *string
	Description   *string
	Barcode       *string
	ImageURL      *string
	CostPrice     *decimal.Decimal
	SellingPrice  *decimal.Decimal
	StockQuantity *int
}

// Apply merges the present fields into p and re-validates.
func (patch ProductPatch) Apply(p *Product) error {
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Barcode != nil {
		p.Barcode = strings.TrimSpace(*patch.Barcode)
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.CostPrice != nil {
		p.CostPrice = *patch.CostPrice
	}
	if patch.SellingPrice != nil {
		p.SellingPrice = *patch.SellingPrice
	}
	if patch.StockQuantity != nil {
		if *patch.StockQuantity >= 0 && *patch.StockQuantity < p.OnLoanQuantity {
			return ErrStockBelowOnLoan
		}
		p.StockQuantity = *patch.StockQuantity
	}
	return p.Validate()
}
