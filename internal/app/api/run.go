package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	backofficeserver "github.com/Apurer/backoffice-api/go"

	caseworkflows "github.com/Apurer/backoffice-api/internal/domains/salescases/adapters/workflows"
	caseports "github.com/Apurer/backoffice-api/internal/domains/salescases/ports"
	platformobservability "github.com/Apurer/backoffice-api/internal/platform/observability"
)

// Run boots the back-office HTTP API with observability, persistence, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "backoffice-api"
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	unitOfWork, cleanup := OpenUnitOfWork(ctx, cfg, logger)
	defer cleanup()
	services := BuildServices(unitOfWork, cfg, instruments)
	if err := BootstrapAdmin(ctx, services.Users, cfg.BootstrapAdminEmail, logger); err != nil {
		return err
	}

	var reports caseports.OverdueReporter = caseworkflows.NewInlineCaseWorkflows(services.SalesCases)
	if temporalClient, err := DialTemporal(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, building overdue reports inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		temporalWorkflows := caseworkflows.NewTemporalCaseWorkflows(temporalClient)
		reports = temporalWorkflows
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
		if cfg.OverdueSweepInterval > 0 {
			if err := temporalWorkflows.ScheduleOverdueSweep(ctx, cfg.OverdueSweepInterval); err != nil {
				logger.Warn("failed to schedule overdue sweep", slog.String("error", err.Error()))
			} else {
				logger.Info("overdue sweep scheduled", slog.Duration("every", cfg.OverdueSweepInterval))
			}
		}
	}

	handlers := backofficeserver.ApiHandleFunctions{
		Identity:     services.Users,
		ProductAPI:   backofficeserver.NewProductAPI(services.Catalog),
		DiscountAPI:  backofficeserver.NewDiscountAPI(services.Catalog),
		PriceAPI:     backofficeserver.NewPriceAPI(services.Pricing),
		OrderAPI:     backofficeserver.NewOrderAPI(services.Orders),
		SalesCaseAPI: backofficeserver.NewSalesCaseAPI(services.SalesCases, reports),
		UserAPI:      backofficeserver.NewUserAPI(services.Users),
	}

	backofficeserver.SetErrorLogger(logger)
	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	router = backofficeserver.NewRouterWithGinEngine(router, handlers)
	addr := ":" + cfg.Port
	logger.Info("back-office API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("back-office API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}
