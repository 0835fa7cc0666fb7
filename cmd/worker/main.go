package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/backoffice-api/internal/app/api"
	caseworkflows "github.com/Apurer/backoffice-api/internal/durable/temporal/workflows/salescases"
	platformobservability "github.com/Apurer/backoffice-api/internal/platform/observability"
	caseactivities "github.com/Apurer/backoffice-api/internal/platform/temporal/activities/salescases"
)

func main() {
	ctx := context.Background()
	const serviceName = "backoffice-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	unitOfWork, cleanup := api.OpenUnitOfWork(ctx, cfg, logger)
	defer cleanup()
	services := api.BuildServices(unitOfWork, cfg, instruments)
	caseActivities := caseactivities.NewActivities(services.SalesCases)

	// TEMPORAL_DISABLED only applies to the API; a worker without Temporal has nothing to do.
	cfg.TemporalDisabled = false
	temporalClient, err := api.DialTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, caseworkflows.OverdueSweepTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(caseworkflows.OverdueSweepWorkflow, workflow.RegisterOptions{Name: caseworkflows.OverdueSweepWorkflowName})
	w.RegisterActivityWithOptions(caseActivities.BuildOverdueReport, activity.RegisterOptions{Name: caseactivities.BuildOverdueReportActivityName})

	logger.Info("worker listening", slog.String("taskQueue", caseworkflows.OverdueSweepTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
