package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/backoffice-api/internal/domains/orders/domain"
	"github.com/Apurer/backoffice-api/internal/shared/apperr"
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyOrder) ||
		errors.Is(err, domain.ErrInvalidProductID) ||
		errors.Is(err, domain.ErrNonPositiveQuantity) ||
		errors.Is(err, domain.ErrQuantityTooLarge) {
		return fmt.Errorf("%w: %w", apperr.ErrInvalidInput, err)
	}
	return err
}
