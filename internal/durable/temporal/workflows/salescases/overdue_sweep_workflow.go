package salescases

import (
	"time"

	"go.temporal.io/sdk/workflow"

	casedomain "github.com/Apurer/backoffice-api/internal/domains/salescases/domain"
	"github.com/Apurer/backoffice-api/internal/durable/temporal/sequences"
)

const (
	// OverdueSweepWorkflowName is the public identifier for registering the workflow.
	OverdueSweepWorkflowName = "salescases.workflows.OverdueSweep"
	// OverdueSweepTaskQueue is the queue consumed by the worker processing sales case workflows.
	OverdueSweepTaskQueue = "SALES_CASE_OVERDUE"
)

// OverdueSweepWorkflowInput selects the report instant. A zero AsOf means the
// workflow's own clock, which is what cron runs use.
type OverdueSweepWorkflowInput struct {
	AsOf    time.Time
	TraceID string
}

// OverdueSweepWorkflow reports sales cases still on loan past their return date.
func OverdueSweepWorkflow(ctx workflow.Context, input OverdueSweepWorkflowInput) (*casedomain.OverdueReport, error) {
	logger := workflow.GetLogger(ctx)
	asOf := input.AsOf
	if asOf.IsZero() {
		asOf = workflow.Now(ctx).UTC()
	}
	logger.Info("OverdueSweepWorkflow started", withTraceID(input.TraceID, "asOf", asOf)...)
	report, err := sequences.RunOverdueReportSequence(ctx, asOf)
	if err != nil {
		logger.Error("OverdueSweepWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	logger.Info("OverdueSweepWorkflow completed", withTraceID(input.TraceID, "overdue", len(report.Entries))...)
	return report, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
