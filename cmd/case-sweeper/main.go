package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/backoffice-api/internal/app/api"
	caseworkflows "github.com/Apurer/backoffice-api/internal/domains/salescases/adapters/workflows"
	platformobservability "github.com/Apurer/backoffice-api/internal/platform/observability"
)

// case-sweeper prints the overdue sales case report once. With -schedule it
// instead registers the recurring Temporal sweep and exits.
func main() {
	schedule := flag.Bool("schedule", false, "register the recurring overdue sweep on Temporal instead of reporting once")
	asOfFlag := flag.String("as-of", "", "RFC 3339 instant to report for (default now)")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := platformobservability.NewLogger(os.Stdout, "case-sweeper", platformobservability.ParseLevel(os.Getenv("LOG_LEVEL")))
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if *schedule {
		if cfg.OverdueSweepInterval == 0 {
			log.Fatal("OVERDUE_SWEEP_INTERVAL_MINUTES must be set to schedule the sweep")
		}
		temporalClient, err := api.DialTemporal(cfg, nil, "temporal-client")
		if err != nil {
			log.Fatalf("failed to create Temporal client: %v", err)
		}
		defer temporalClient.Close()
		if err := caseworkflows.NewTemporalCaseWorkflows(temporalClient).ScheduleOverdueSweep(ctx, cfg.OverdueSweepInterval); err != nil {
			log.Fatalf("failed to schedule overdue sweep: %v", err)
		}
		logger.Info("overdue sweep scheduled", slog.Duration("every", cfg.OverdueSweepInterval))
		return
	}

	asOf := time.Now().UTC()
	if *asOfFlag != "" {
		asOf, err = time.Parse(time.RFC3339, *asOfFlag)
		if err != nil {
			log.Fatalf("invalid -as-of: %v", err)
		}
	}
	if cfg.PostgresDSN == "" {
		log.Fatal("POSTGRES_DSN not set; cannot report overdue cases")
	}
	unitOfWork, cleanup := api.OpenUnitOfWork(ctx, cfg, logger)
	defer cleanup()
	services := api.BuildServices(unitOfWork, cfg, nil)
	report, err := caseworkflows.NewInlineCaseWorkflows(services.SalesCases).OverdueReport(ctx, asOf)
	if err != nil {
		log.Fatalf("failed to build overdue report: %v", err)
	}
	for _, entry := range report.Entries {
		logger.Warn("sales case overdue",
			slog.Int64("case_id", entry.CaseID),
			slog.Int64("sales_rep_id", entry.SalesRepID),
			slog.Int("days_overdue", entry.DaysOverdue),
			slog.Int("units_on_loan", entry.UnitsOnLoan),
		)
	}
	logger.Info("overdue report completed", slog.Int("overdue", len(report.Entries)), slog.Time("as_of", report.AsOf))
}
