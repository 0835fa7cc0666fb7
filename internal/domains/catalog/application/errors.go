package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/backoffice-api/internal/domains/catalog/domain"
	"github.com/Apurer/backoffice-api/internal/shared/apperr"
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrBelowCost) {
		return fmt.Errorf("%w: %w", apperr.ErrLogic, err)
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrNegativeStock) ||
		errors.Is(err, domain.ErrOnLoanExceeds) ||
		errors.Is(err, domain.ErrInvalidProductID) ||
		errors.Is(err, domain.ErrInvalidWindow) ||
		errors.Is(err, domain.ErrNonPositivePrice) ||
		errors.Is(err, domain.ErrPriceScale) ||
		errors.Is(err, domain.ErrPriceTooLarge) {
		return fmt.Errorf("%w: %w", apperr.ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrStockBelowOnLoan) {
		return fmt.Errorf("%w: %w", apperr.ErrLogic, err)
	}
	return err
}
