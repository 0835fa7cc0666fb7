package backofficeserver

import (
	"time"

	"github.com/shopspring/decimal"
)

type SalesCaseItem struct {
	Id        int64 `json:"id,omitempty"`
	ProductId int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type CreateSalesCaseRequest struct {
	SalesRepId       int64           `json:"salesRepId"`
	LoanDurationDays int             `json:"loanDurationDays"`
	Items            []SalesCaseItem `json:"items"`
}

// SalesCase reports the stored status alongside the status derived as of the response time.
type SalesCase struct {
	Id              int64           `json:"id"`
	SalesRepId      int64           `json:"salesRepId"`
	LoanDate        time.Time       `json:"loanDate"`
	ReturnByDate    time.Time       `json:"returnByDate"`
	ReturnedAt      *time.Time      `json:"returnedAt,omitempty"`
	Status          string          `json:"status"`
	EffectiveStatus string          `json:"effectiveStatus"`
	Items           []SalesCaseItem `json:"items"`
}

type ItemSold struct {
	ProductId    int64 `json:"productId"`
	QuantitySold int   `json:"quantitySold"`
}

type ReturnSalesCaseRequest struct {
	ItemsSold []ItemSold `json:"itemsSold"`
}

type ItemReturnSummary struct {
	ProductId        int64           `json:"productId"`
	ProductName      string          `json:"productName"`
	QuantityLoaned   int             `json:"quantityLoaned"`
	QuantitySold     int             `json:"quantitySold"`
	QuantityReturned int             `json:"quantityReturned"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

type ReturnReport struct {
	CaseId         int64               `json:"caseId"`
	OrderId        *int64              `json:"orderId,omitempty"`
	SalesRepId     int64               `json:"salesRepId"`
	ReturnedAt     time.Time           `json:"returnedAt"`
	TotalItemsSold int                 `json:"totalItemsSold"`
	TotalValueSold decimal.Decimal     `json:"totalValueSold"`
	Items          []ItemReturnSummary `json:"items"`
}

type OverdueEntry struct {
	CaseId       int64     `json:"caseId"`
	SalesRepId   int64     `json:"salesRepId"`
	ReturnByDate time.Time `json:"returnByDate"`
	DaysOverdue  int       `json:"daysOverdue"`
	UnitsOnLoan  int       `json:"unitsOnLoan"`
}

type OverdueReport struct {
	AsOf    time.Time      `json:"asOf"`
	Entries []OverdueEntry `json:"entries"`
}
