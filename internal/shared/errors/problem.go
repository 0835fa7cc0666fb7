// Package errors renders RFC 7807 problem details for the back-office API.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail is an RFC 7807 problem document. It doubles as an error so
// handlers can return it directly.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (p ProblemDetail) Error() string {
	if p.Detail == "" {
		return p.Title
	}
	return fmt.Sprintf("%s: %s", p.Title, p.Detail)
}

// WithDetail returns a copy carrying the occurrence-specific message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithExtension returns a copy with one more extension member. The template's
// map is never shared with the copy.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	extensions := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		extensions[k] = v
	}
	extensions[key] = value
	p.Extensions = extensions
	return p
}

// Problem type URIs, relative to the responder's base URI.
const (
	TypeBadRequest        = "/problems/bad-request"
	TypeValidation        = "/problems/validation-error"
	TypeUnauthorized      = "/problems/unauthorized"
	TypeForbidden         = "/problems/forbidden"
	TypeNotFound          = "/problems/not-found"
	TypeConflict          = "/problems/conflict"
	TypeInsufficientStock = "/problems/insufficient-stock"
	TypeInvalidState      = "/problems/invalid-state"
	TypeBusinessRule      = "/problems/business-rule"
	TypeInternal          = "/problems/internal-error"
)

func template(problemType, title string, status int) ProblemDetail {
	return ProblemDetail{Type: problemType, Title: title, Status: status}
}

// Problem templates. Handlers copy them with WithDetail.
var (
	ErrBadRequest   = template(TypeBadRequest, "Bad Request", http.StatusBadRequest)
	ErrValidation   = template(TypeValidation, "Validation Error", http.StatusBadRequest)
	ErrUnauthorized = template(TypeUnauthorized, "Unauthorized", http.StatusUnauthorized)
	ErrForbidden    = template(TypeForbidden, "Forbidden", http.StatusForbidden)
	ErrNotFound     = template(TypeNotFound, "Resource Not Found", http.StatusNotFound)
	ErrConflict     = template(TypeConflict, "Conflict", http.StatusConflict)
	ErrInternal     = template(TypeInternal, "Internal Server Error", http.StatusInternalServerError)

	// ErrInsufficientStock: a line asked for more units than are available.
	ErrInsufficientStock = template(TypeInsufficientStock, "Insufficient Stock", http.StatusConflict)
	// ErrInvalidState: the sales case is no longer on loan.
	ErrInvalidState = template(TypeInvalidState, "Invalid State", http.StatusConflict)
	// ErrBusinessRule: the request broke an inventory, pricing or sales rule.
	ErrBusinessRule = template(TypeBusinessRule, "Business Rule Violated", http.StatusUnprocessableEntity)
)
