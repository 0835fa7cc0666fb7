package salescases

import (
	"context"
	"errors"
	"time"

	"go.temporal.io/sdk/activity"

	casedomain "github.com/Apurer/backoffice-api/internal/domains/salescases/domain"
	caseports "github.com/Apurer/backoffice-api/internal/domains/salescases/ports"
)

const (
	// BuildOverdueReportActivityName lists cases still on loan past their return date.
	BuildOverdueReportActivityName = "salescases.activities.BuildOverdueReport"
)

// OverdueReportInput fixes the instant the report is computed for.
type OverdueReportInput struct {
	AsOf time.Time
}

// Activities groups activities that operate on the sales cases bounded context.
type Activities struct {
	service caseports.Service
}

// NewActivities wires the sales case service into the Temporal activities bundle.
func NewActivities(service caseports.Service) *Activities {
	return &Activities{service: service}
}

// BuildOverdueReport is read-only, so retries are always safe.
func (a *Activities) BuildOverdueReport(ctx context.Context, input OverdueReportInput) (*casedomain.OverdueReport, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("overdue report activity not initialized")
		return nil, errors.New("overdue report activity not initialized")
	}
	logger.Info("BuildOverdueReport activity started", "asOf", input.AsOf)
	report, err := a.service.OverdueCases(ctx, input.AsOf)
	if err != nil {
		logger.Error("BuildOverdueReport activity failed", "error", err)
		return nil, err
	}
	logger.Info("BuildOverdueReport activity completed", "overdue", len(report.Entries))
	return report, nil
}
