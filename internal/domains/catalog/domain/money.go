package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Prices are stored as numeric(10,2).
const priceScale = 2

var (
	MaxPrice = decimal.RequireFromString("99999999.99")

	ErrPriceScale    = errors.New("prices must have at most two decimal places")
	ErrPriceTooLarge = errors.New("prices must not exceed 99999999.99")
)

func checkPrice(price decimal.Decimal) error {
	if !price.Equal(price.Truncate(priceScale)) {
		return ErrPriceScale
	}
	if price.GreaterThan(MaxPrice) {
		return ErrPriceTooLarge
	}
	return nil
}
