package errors

import (
	"errors"

	"github.com/Apurer/backoffice-api/internal/shared/apperr"
)

// InsufficientStockDetail is implemented by errors that carry the offending
// product and quantities, exposed as problem extensions.
type InsufficientStockDetail interface {
	StockShortfall() (productID int64, requested, available int)
}

var taxonomy = []struct {
	sentinel error
	problem  ProblemDetail
}{
	{apperr.ErrNotFound, ErrNotFound},
	{apperr.ErrInsufficientStock, ErrInsufficientStock},
	{apperr.ErrInvalidState, ErrInvalidState},
	{apperr.ErrLogic, ErrBusinessRule},
	{apperr.ErrAuthorization, ErrForbidden},
	{apperr.ErrInvalidInput, ErrValidation},
	{apperr.ErrConflict, ErrConflict},
}

// AppErrorMapper maps the shared error taxonomy onto problem templates.
func AppErrorMapper(err error) (ProblemDetail, bool) {
	for _, entry := range taxonomy {
		if !errors.Is(err, entry.sentinel) {
			continue
		}
		problem := entry.problem.WithDetail(err.Error())
		var shortfall InsufficientStockDetail
		if errors.As(err, &shortfall) {
			productID, requested, available := shortfall.StockShortfall()
			problem = problem.
				WithExtension("productId", productID).
				WithExtension("requested", requested).
				WithExtension("available", available)
		}
		return problem, true
	}
	return ProblemDetail{}, false
}
