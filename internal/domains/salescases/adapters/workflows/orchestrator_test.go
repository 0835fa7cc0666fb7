package workflows

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	caseapp "github.com/Apurer/backoffice-api/internal/domains/salescases/application"
	"github.com/Apurer/backoffice-api/internal/platform/memory"
)

func TestInlineCaseWorkflowsDelegates(t *testing.T) {
	inline := NewInlineCaseWorkflows(caseapp.NewService(memory.NewUnitOfWork()))
	asOf := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	report, err := inline.OverdueReport(context.Background(), asOf)
	require.NoError(t, err)
	require.True(t, report.AsOf.Equal(asOf))
}

func TestInlineCaseWorkflowsRequiresService(t *testing.T) {
	var inline *InlineCaseWorkflows
	_, err := inline.OverdueReport(context.Background(), time.Now())
	require.Error(t, err)
}

func TestWorkflowTraceComponent(t *testing.T) {
	require.True(t, strings.HasPrefix(workflowTraceComponent(context.Background()), "fallback-"))

	traceID := trace.TraceID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: trace.SpanID{1}})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)
	require.Equal(t, traceID.String(), workflowTraceComponent(ctx))
}

func TestScheduleRequiresClient(t *testing.T) {
	require.Error(t, NewTemporalCaseWorkflows(nil).ScheduleOverdueSweep(context.Background(), time.Hour))
}
