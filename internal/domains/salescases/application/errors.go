package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/backoffice-api/internal/domains/salescases/domain"
	"github.com/Apurer/backoffice-api/internal/shared/apperr"
)

var (
	// ErrInvalidDuration signals a loan duration outside the allowed range.
	ErrInvalidDuration = errors.New("loan duration out of range")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNegativeQuantitySold) ||
		errors.Is(err, domain.ErrEmptyCase) ||
		errors.Is(err, domain.ErrInvalidProductID) ||
		errors.Is(err, domain.ErrNonPositiveQuantity) ||
		errors.Is(err, domain.ErrQuantityTooLarge) ||
		errors.Is(err, ErrInvalidDuration) {
		return fmt.Errorf("%w: %w", apperr.ErrInvalidInput, err)
	}
	return err
}
