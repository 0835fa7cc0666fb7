package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	catalogobs "github.com/Apurer/backoffice-api/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/Apurer/backoffice-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/backoffice-api/internal/domains/catalog/ports"
	orderobs "github.com/Apurer/backoffice-api/internal/domains/orders/adapters/observability"
	orderapp "github.com/Apurer/backoffice-api/internal/domains/orders/application"
	orderports "github.com/Apurer/backoffice-api/internal/domains/orders/ports"
	pricingobs "github.com/Apurer/backoffice-api/internal/domains/pricing/adapters/observability"
	pricingapp "github.com/Apurer/backoffice-api/internal/domains/pricing/application"
	pricingports "github.com/Apurer/backoffice-api/internal/domains/pricing/ports"
	caseobs "github.com/Apurer/backoffice-api/internal/domains/salescases/adapters/observability"
	caseapp "github.com/Apurer/backoffice-api/internal/domains/salescases/application"
	caseports "github.com/Apurer/backoffice-api/internal/domains/salescases/ports"
	userobs "github.com/Apurer/backoffice-api/internal/domains/users/adapters/observability"
	userapp "github.com/Apurer/backoffice-api/internal/domains/users/application"
	userdomain "github.com/Apurer/backoffice-api/internal/domains/users/domain"
	userports "github.com/Apurer/backoffice-api/internal/domains/users/ports"
	platformmemory "github.com/Apurer/backoffice-api/internal/platform/memory"
	"github.com/Apurer/backoffice-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/backoffice-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/backoffice-api/internal/platform/postgres"
	"github.com/Apurer/backoffice-api/internal/shared/uow"
)

// Services bundles the decorated application services of every bounded context.
type Services struct {
	Catalog    catalogports.Service
	Pricing    pricingports.Service
	Orders     orderports.Service
	SalesCases caseports.Service
	Users      userports.Service
}

// OpenUnitOfWork connects to PostgreSQL when a DSN is configured and falls back
// to the in-memory unit of work otherwise. The returned cleanup is never nil.
func OpenUnitOfWork(ctx context.Context, cfg Config, logger *slog.Logger) (uow.UnitOfWork, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to the in-memory unit of work")
		return platformmemory.NewUnitOfWork(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to the in-memory unit of work", slog.String("error", err.Error()))
		return platformmemory.NewUnitOfWork(), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to the in-memory unit of work", slog.String("error", err.Error()))
		return platformmemory.NewUnitOfWork(), func() {}
	}
	cleanup := func() { _ = sqlDB.Close() }
	if cfg.AutoMigrate {
		if err := migrations.Run(db); err != nil {
			logger.Warn("schema migration failed, falling back to the in-memory unit of work", slog.String("error", err.Error()))
			cleanup()
			return platformmemory.NewUnitOfWork(), func() {}
		}
	}
	logger.Info("unit of work configured with postgres")
	return platformpostgres.NewUnitOfWork(db), cleanup
}

// BuildServices constructs every application service over one unit of work and
// wraps each in its observability decorator. Nil instruments fall back to the
// global providers.
func BuildServices(unitOfWork uow.UnitOfWork, cfg Config, instruments *platformobservability.Instruments) Services {
	logger := effectiveLogger(instruments)
	return Services{
		Catalog: catalogobs.New(
			catalogapp.NewService(unitOfWork),
			catalogobs.WithLogger(logger),
			catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
			catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
		),
		Pricing: pricingobs.New(
			pricingapp.NewService(unitOfWork),
			pricingobs.WithLogger(logger),
			pricingobs.WithTracer(instruments.Tracer("internal.pricing.application")),
		),
		Orders: orderobs.New(
			orderapp.NewService(unitOfWork),
			orderobs.WithLogger(logger),
			orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
			orderobs.WithMeter(instruments.Meter("internal.orders.application")),
		),
		SalesCases: caseobs.New(
			caseapp.NewService(unitOfWork, caseapp.WithMaxLoanDays(cfg.MaxLoanDays)),
			caseobs.WithLogger(logger),
			caseobs.WithTracer(instruments.Tracer("internal.salescases.application")),
			caseobs.WithMeter(instruments.Meter("internal.salescases.application")),
		),
		Users: userobs.New(
			userapp.NewService(unitOfWork),
			userobs.WithLogger(logger),
			userobs.WithTracer(instruments.Tracer("internal.users.application")),
			userobs.WithMeter(instruments.Meter("internal.users.application")),
		),
	}
}

// BootstrapAdmin makes sure an administrator with the given email exists so
// the first real accounts can be created over HTTP.
func BootstrapAdmin(ctx context.Context, users userports.Service, email string, logger *slog.Logger) error {
	if email == "" {
		return nil
	}
	admin, err := userdomain.NewUser(email, "Bootstrap administrator", userdomain.RoleAdmin)
	if err != nil {
		return err
	}
	created, err := users.CreateUser(ctx, admin)
	if errors.Is(err, userports.ErrDuplicateEmail) {
		logger.Info("bootstrap administrator already present", slog.String("email", admin.Email))
		return nil
	}
	if err != nil {
		return fmt.Errorf("bootstrap administrator: %w", err)
	}
	logger.Info("bootstrap administrator created", slog.String("email", created.Email), slog.Int64("user_id", created.ID))
	return nil
}

// DialTemporal connects a traced Temporal client, unless Temporal is disabled.
func DialTemporal(cfg Config, instruments *platformobservability.Instruments, component string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer(component)
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
