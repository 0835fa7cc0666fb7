package ports

import (
	"context"
	"time"

	"github.com/Apurer/backoffice-api/internal/domains/salescases/domain"
	userdomain "github.com/Apurer/backoffice-api/internal/domains/users/domain"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

// CreateCaseInput describes a new loan of inventory to a sales rep.
type CreateCaseInput struct {
	SalesRepID       int64
	LoanDurationDays int
	Items            []domain.SalesCaseItem
}

// Service exposes sales case use cases to adapters.
type Service interface {
	CreateCase(ctx context.Context, caller userdomain.Caller, input CreateCaseInput) (*domain.SalesCase, error)
	ReturnCase(ctx context.Context, caller userdomain.Caller, caseID int64, sold []domain.ItemSold) (*domain.ReturnReport, error)
	GetCase(ctx context.Context, caller userdomain.Caller, id int64) (*domain.SalesCase, error)
	ListCases(ctx context.Context, caller userdomain.Caller, filter domain.Filter, page repository.Page) ([]*domain.SalesCase, error)
	OverdueCases(ctx context.Context, asOf time.Time) (*domain.OverdueReport, error)
}

// OverdueReporter runs the overdue report either durably or inline.
type OverdueReporter interface {
	OverdueReport(ctx context.Context, asOf time.Time) (*domain.OverdueReport, error)
}
