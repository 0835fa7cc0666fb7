package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	casedomain "github.com/Apurer/backoffice-api/internal/domains/salescases/domain"
)

type CaseItem struct {
	ID        int64
	ProductID int64
	Quantity  int
}

// SalesCase represents the transport-level sales case payload. Status is the
// stored status; EffectiveStatus also reports overdue.
type SalesCase struct {
	ID              int64
	SalesRepID      int64
	LoanDate        time.Time
	ReturnByDate    time.Time
	ReturnedAt      *time.Time
	Status          string
	EffectiveStatus string
	Items           []CaseItem
}

type ItemSold struct {
	ProductID    int64
	QuantitySold int
}

type ItemReturnSummary struct {
	ProductID        int64
	ProductName      string
	QuantityLoaned   int
	QuantitySold     int
	QuantityReturned int
	UnitPrice        decimal.Decimal
	Subtotal         decimal.Decimal
}

type ReturnReport struct {
	CaseID         int64
	OrderID        *int64
	SalesRepID     int64
	ReturnedAt     time.Time
	TotalItemsSold int
	TotalValueSold decimal.Decimal
	Items          []ItemReturnSummary
}

type OverdueEntry struct {
	CaseID       int64
	SalesRepID   int64
	ReturnByDate time.Time
	DaysOverdue  int
	UnitsOnLoan  int
}

type OverdueReport struct {
	AsOf    time.Time
	Entries []OverdueEntry
}

func ToDomainItems(items []CaseItem) []casedomain.SalesCaseItem {
	out := make([]casedomain.SalesCaseItem, 0, len(items))
	for _, item := range items {
		out = append(out, casedomain.SalesCaseItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return out
}

func ToDomainSold(items []ItemSold) []casedomain.ItemSold {
	out := make([]casedomain.ItemSold, 0, len(items))
	for _, item := range items {
		out = append(out, casedomain.ItemSold{ProductID: item.ProductID, QuantitySold: item.QuantitySold})
	}
	return out
}

// FromDomainCase converts a case, deriving its effective status as of asOf.
func FromDomainCase(c *casedomain.SalesCase, asOf time.Time) SalesCase {
	if c == nil {
		return SalesCase{}
	}
	items := make([]CaseItem, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, CaseItem{ID: item.ID, ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return SalesCase{
		ID:              c.ID,
		SalesRepID:      c.SalesRepID,
		LoanDate:        c.LoanDate,
		ReturnByDate:    c.ReturnByDate,
		ReturnedAt:      c.ReturnedAt,
		Status:          string(c.Status),
		EffectiveStatus: string(c.EffectiveStatus(asOf)),
		Items:           items,
	}
}

func FromDomainCases(cases []*casedomain.SalesCase, asOf time.Time) []SalesCase {
	result := make([]SalesCase, 0, len(cases))
	for _, c := range cases {
		result = append(result, FromDomainCase(c, asOf))
	}
	return result
}

func FromDomainReturnReport(report *casedomain.ReturnReport) ReturnReport {
	if report == nil {
		return ReturnReport{}
	}
	items := make([]ItemReturnSummary, 0, len(report.Items))
	for _, item := range report.Items {
		items = append(items, ItemReturnSummary(item))
	}
	return ReturnReport{
		CaseID:         report.CaseID,
		OrderID:        report.OrderID,
		SalesRepID:     report.SalesRepID,
		ReturnedAt:     report.ReturnedAt,
		TotalItemsSold: report.TotalItemsSold,
		TotalValueSold: report.TotalValueSold,
		Items:          items,
	}
}

func FromDomainOverdueReport(report *casedomain.OverdueReport) OverdueReport {
	if report == nil {
		return OverdueReport{}
	}
	entries := make([]OverdueEntry, 0, len(report.Entries))
	for _, entry := range report.Entries {
		entries = append(entries, OverdueEntry(entry))
	}
	return OverdueReport{AsOf: report.AsOf, Entries: entries}
}
