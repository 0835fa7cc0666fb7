package salescases

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	caseapp "github.com/Apurer/backoffice-api/internal/domains/salescases/application"
	casedomain "github.com/Apurer/backoffice-api/internal/domains/salescases/domain"
	"github.com/Apurer/backoffice-api/internal/platform/memory"
)

func TestBuildOverdueReportActivity(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestActivityEnvironment()
	activities := NewActivities(caseapp.NewService(memory.NewUnitOfWork()))
	env.RegisterActivity(activities.BuildOverdueReport)

	asOf := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	value, err := env.ExecuteActivity(activities.BuildOverdueReport, OverdueReportInput{AsOf: asOf})
	require.NoError(t, err)

	var report casedomain.OverdueReport
	require.NoError(t, value.Get(&report))
	require.True(t, report.AsOf.Equal(asOf))
	require.Empty(t, report.Entries)
}
