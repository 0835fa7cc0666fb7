package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/backoffice-api/internal/domains/salescases/domain"
	"github.com/Apurer/backoffice-api/internal/domains/salescases/ports"
	caseworkflows "github.com/Apurer/backoffice-api/internal/durable/temporal/workflows/salescases"
)

// CronWorkflowID identifies the single scheduled overdue sweep.
const CronWorkflowID = "sales-case-overdue-sweep-cron"

var (
	_ ports.OverdueReporter = (*TemporalCaseWorkflows)(nil)
	_ ports.OverdueReporter = (*InlineCaseWorkflows)(nil)
)

// TemporalCaseWorkflows starts sales case workflows on a Temporal cluster.
type TemporalCaseWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalCaseWorkflows wires a Temporal client into the orchestrator.
func NewTemporalCaseWorkflows(c client.Client) *TemporalCaseWorkflows {
	return &TemporalCaseWorkflows{client: c, taskQueue: caseworkflows.OverdueSweepTaskQueue}
}

// OverdueReport runs one overdue sweep workflow and waits for its report.
func (o *TemporalCaseWorkflows) OverdueReport(ctx context.Context, asOf time.Time) (*domain.OverdueReport, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal sales case workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:        fmt.Sprintf("sales-case-overdue-sweep-%s", traceComponent),
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(ctx, options, caseworkflows.OverdueSweepWorkflow,
		caseworkflows.OverdueSweepWorkflowInput{AsOf: asOf, TraceID: traceComponent})
	if err != nil {
		return nil, err
	}
	var report domain.OverdueReport
	if err := run.Get(ctx, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ScheduleOverdueSweep registers the recurring sweep as a cron workflow. It is
// a no-op when the schedule already runs.
func (o *TemporalCaseWorkflows) ScheduleOverdueSweep(ctx context.Context, every time.Duration) error {
	if o == nil || o.client == nil {
		return errors.New("temporal sales case workflows not configured")
	}
	if every < time.Minute {
		return fmt.Errorf("overdue sweep interval %s is shorter than one minute", every)
	}
	options := client.StartWorkflowOptions{
		ID:           CronWorkflowID,
		TaskQueue:    o.taskQueue,
		CronSchedule: fmt.Sprintf("@every %s", every),
	}
	_, err := o.client.ExecuteWorkflow(ctx, options, caseworkflows.OverdueSweepWorkflow, caseworkflows.OverdueSweepWorkflowInput{})
	var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
	if errors.As(err, &alreadyStarted) {
		return nil
	}
	return err
}

// InlineCaseWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineCaseWorkflows struct {
	service ports.Service
}

// NewInlineCaseWorkflows wraps the sales case service for synchronous execution.
func NewInlineCaseWorkflows(service ports.Service) *InlineCaseWorkflows {
	return &InlineCaseWorkflows{service: service}
}

// OverdueReport delegates to the application service without durable orchestration.
func (o *InlineCaseWorkflows) OverdueReport(ctx context.Context, asOf time.Time) (*domain.OverdueReport, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline sales case workflows not configured")
	}
	return o.service.OverdueCases(ctx, asOf)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return "fallback-" + uuid.NewString()
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
