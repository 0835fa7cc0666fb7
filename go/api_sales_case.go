package backofficeserver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	casehttpmapper "github.com/Apurer/backoffice-api/internal/domains/salescases/adapters/http/mapper"
	casedomain "github.com/Apurer/backoffice-api/internal/domains/salescases/domain"
	caseports "github.com/Apurer/backoffice-api/internal/domains/salescases/ports"
)

// SalesCaseAPI serves the loan and return of sales cases.
type SalesCaseAPI struct {
	service caseports.Service
	reports caseports.OverdueReporter
	now     func() time.Time
}

// NewSalesCaseAPI wires the service. A nil reporter builds overdue reports inline.
func NewSalesCaseAPI(service caseports.Service, reports caseports.OverdueReporter) SalesCaseAPI {
	return SalesCaseAPI{service: service, reports: reports, now: time.Now}
}

func fromTransportCase(model casehttpmapper.SalesCase) SalesCase {
	items := make([]SalesCaseItem, 0, len(model.Items))
	for _, item := range model.Items {
		items = append(items, SalesCaseItem{Id: item.ID, ProductId: item.ProductID, Quantity: item.Quantity})
	}
	return SalesCase{
		Id:              model.ID,
		SalesRepId:      model.SalesRepID,
		LoanDate:        model.LoanDate,
		ReturnByDate:    model.ReturnByDate,
		ReturnedAt:      model.ReturnedAt,
		Status:          model.Status,
		EffectiveStatus: model.EffectiveStatus,
		Items:           items,
	}
}

func fromTransportReturnReport(model casehttpmapper.ReturnReport) ReturnReport {
	items := make([]ItemReturnSummary, 0, len(model.Items))
	for _, item := range model.Items {
		items = append(items, ItemReturnSummary{
			ProductId:        item.ProductID,
			ProductName:      item.ProductName,
			QuantityLoaned:   item.QuantityLoaned,
			QuantitySold:     item.QuantitySold,
			QuantityReturned: item.QuantityReturned,
			UnitPrice:        item.UnitPrice,
			Subtotal:         item.Subtotal,
		})
	}
	return ReturnReport{
		CaseId:         model.CaseID,
		OrderId:        model.OrderID,
		SalesRepId:     model.SalesRepID,
		ReturnedAt:     model.ReturnedAt,
		TotalItemsSold: model.TotalItemsSold,
		TotalValueSold: model.TotalValueSold,
		Items:          items,
	}
}

// Post /api/v1/sales-cases
// Loan products to a sales rep
func (api *SalesCaseAPI) CreateSalesCase(c *gin.Context) {
	var payload CreateSalesCaseRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	items := make([]casehttpmapper.CaseItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, casehttpmapper.CaseItem{ProductID: item.ProductId, Quantity: item.Quantity})
	}
	created, err := api.service.CreateCase(c.Request.Context(), callerFrom(c), caseports.CreateCaseInput{
		SalesRepID:       payload.SalesRepId,
		LoanDurationDays: payload.LoanDurationDays,
		Items:            casehttpmapper.ToDomainItems(items),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromTransportCase(casehttpmapper.FromDomainCase(created, api.now())))
}

// Get /api/v1/sales-cases?status=on_loan&salesRepId=3
func (api *SalesCaseAPI) ListSalesCases(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	filter := casedomain.Filter{Status: casedomain.Status(strings.TrimSpace(c.Query("status")))}
	if raw := strings.TrimSpace(c.Query("salesRepId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondBadRequest(c, fmt.Errorf("salesRepId must be a positive integer"))
			return
		}
		filter.SalesRepID = id
	}
	cases, err := api.service.ListCases(c.Request.Context(), callerFrom(c), filter, page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	now := api.now()
	result := make([]SalesCase, 0, len(cases))
	for _, model := range casehttpmapper.FromDomainCases(cases, now) {
		result = append(result, fromTransportCase(model))
	}
	c.JSON(http.StatusOK, result)
}

// Get /api/v1/sales-cases/:caseId
func (api *SalesCaseAPI) GetSalesCase(c *gin.Context) {
	id, ok := parseIDParam(c, "caseId")
	if !ok {
		return
	}
	salesCase, err := api.service.GetCase(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransportCase(casehttpmapper.FromDomainCase(salesCase, api.now())))
}

// Post /api/v1/sales-cases/:caseId/return
// Settle a case: report units sold, everything else goes back to stock
func (api *SalesCaseAPI) ReturnSalesCase(c *gin.Context) {
	id, ok := parseIDParam(c, "caseId")
	if !ok {
		return
	}
	var payload ReturnSalesCaseRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	sold := make([]casehttpmapper.ItemSold, 0, len(payload.ItemsSold))
	for _, item := range payload.ItemsSold {
		sold = append(sold, casehttpmapper.ItemSold{ProductID: item.ProductId, QuantitySold: item.QuantitySold})
	}
	report, err := api.service.ReturnCase(c.Request.Context(), callerFrom(c), id, casehttpmapper.ToDomainSold(sold))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromTransportReturnReport(casehttpmapper.FromDomainReturnReport(report)))
}

// Get /api/v1/reports/overdue-cases?asOf=2025-03-10T00:00:00Z
func (api *SalesCaseAPI) OverdueSalesCases(c *gin.Context) {
	asOf := api.now()
	if raw := strings.TrimSpace(c.Query("asOf")); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondBadRequest(c, fmt.Errorf("asOf must be an RFC 3339 timestamp"))
			return
		}
		asOf = parsed
	}
	report, err := api.overdueReport(c.Request.Context(), asOf)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	model := casehttpmapper.FromDomainOverdueReport(report)
	entries := make([]OverdueEntry, 0, len(model.Entries))
	for _, entry := range model.Entries {
		entries = append(entries, OverdueEntry{
			CaseId:       entry.CaseID,
			SalesRepId:   entry.SalesRepID,
			ReturnByDate: entry.ReturnByDate,
			DaysOverdue:  entry.DaysOverdue,
			UnitsOnLoan:  entry.UnitsOnLoan,
		})
	}
	c.JSON(http.StatusOK, OverdueReport{AsOf: model.AsOf, Entries: entries})
}

func (api *SalesCaseAPI) overdueReport(ctx context.Context, asOf time.Time) (*casedomain.OverdueReport, error) {
	if api.reports != nil {
		return api.reports.OverdueReport(ctx, asOf)
	}
	return api.service.OverdueCases(ctx, asOf)
}
