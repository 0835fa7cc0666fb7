package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	casedomain "github.com/Apurer/backoffice-api/internal/domains/salescases/domain"
	caseactivities "github.com/Apurer/backoffice-api/internal/platform/temporal/activities/salescases"
)

// RunOverdueReportSequence computes the overdue report for asOf.
func RunOverdueReportSequence(ctx workflow.Context, asOf time.Time) (*casedomain.OverdueReport, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("overdue report sequence started", "asOf", asOf)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    5,
		},
	}

	var report casedomain.OverdueReport
	err := workflow.ExecuteActivity(
		workflow.WithActivityOptions(ctx, options),
		caseactivities.BuildOverdueReportActivityName,
		caseactivities.OverdueReportInput{AsOf: asOf},
	).Get(ctx, &report)
	if err != nil {
		logger.Error("overdue report sequence failed", "error", err)
		return nil, err
	}
	for _, entry := range report.Entries {
		logger.Warn("sales case overdue",
			"caseId", entry.CaseID,
			"salesRepId", entry.SalesRepID,
			"daysOverdue", entry.DaysOverdue,
			"unitsOnLoan", entry.UnitsOnLoan,
		)
	}
	logger.Info("overdue report sequence completed", "overdue", len(report.Entries))
	return &report, nil
}
