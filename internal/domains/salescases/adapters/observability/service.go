package observability

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	casedomain "github.com/Apurer/backoffice-api/internal/domains/salescases/domain"
	caseports "github.com/Apurer/backoffice-api/internal/domains/salescases/ports"
	userdomain "github.com/Apurer/backoffice-api/internal/domains/users/domain"
	"github.com/Apurer/backoffice-api/internal/shared/apperr"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

const tracerName = "github.com/Apurer/backoffice-api/internal/domains/salescases/adapters/observability/service"

// Service decorates the sales case service with tracing, logging, and metrics.
type Service struct {
	inner   caseports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core sales case service.
func New(inner caseports.Service, opts ...Option) caseports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateCase(ctx context.Context, caller userdomain.Caller, input caseports.CreateCaseInput) (*casedomain.SalesCase, error) {
	ctx, span := s.tracer.Start(ctx, "SalesCaseService.CreateCase", trace.WithAttributes(
		attribute.Int64("sales_rep.id", input.SalesRepID),
		attribute.Int("case.loan_days", input.LoanDurationDays),
		attribute.Int("case.lines", len(input.Items)),
	))
	defer span.End()

	created, err := s.inner.CreateCase(ctx, caller, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to open sales case", slog.Int64("sales_rep_id", input.SalesRepID))
	}
	units := 0
	for _, item := range created.Items {
		units += item.Quantity
	}
	span.SetAttributes(attribute.Int64("case.id", created.ID))
	s.metrics.add(ctx, s.metrics.opened, 1)
	s.metrics.add(ctx, s.metrics.unitsLoaned, int64(units))
	s.logInfo(ctx, "sales case opened",
		slog.Int64("case_id", created.ID),
		slog.Int64("sales_rep_id", created.SalesRepID),
		slog.Int("units_loaned", units),
		slog.Time("return_by", created.ReturnByDate),
	)
	return created, nil
}

func (s *Service) ReturnCase(ctx context.Context, caller userdomain.Caller, caseID int64, sold []casedomain.ItemSold) (*casedomain.ReturnReport, error) {
	ctx, span := s.tracer.Start(ctx, "SalesCaseService.ReturnCase", trace.WithAttributes(
		attribute.Int64("case.id", caseID),
		attribute.Int64("user.id", caller.ID),
	))
	defer span.End()

	report, err := s.inner.ReturnCase(ctx, caller, caseID, sold)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to return sales case",
			slog.Int64("case_id", caseID),
			slog.String("reason", apperr.Kind(err)),
		)
	}
	attrs := []slog.Attr{
		slog.Int64("case_id", report.CaseID),
		slog.Int("units_sold", report.TotalItemsSold),
		slog.String("value_sold", report.TotalValueSold.StringFixed(2)),
	}
	if report.OrderID != nil {
		span.SetAttributes(attribute.Int64("order.id", *report.OrderID))
		attrs = append(attrs, slog.Int64("order_id", *report.OrderID))
	}
	s.metrics.add(ctx, s.metrics.returned, 1)
	s.metrics.add(ctx, s.metrics.unitsSold, int64(report.TotalItemsSold))
	s.logInfo(ctx, "sales case returned", attrs...)
	return report, nil
}

func (s *Service) GetCase(ctx context.Context, caller userdomain.Caller, id int64) (*casedomain.SalesCase, error) {
	ctx, span := s.tracer.Start(ctx, "SalesCaseService.GetCase", trace.WithAttributes(attribute.Int64("case.id", id)))
	defer span.End()
	return s.inner.GetCase(ctx, caller, id)
}

func (s *Service) ListCases(ctx context.Context, caller userdomain.Caller, filter casedomain.Filter, page repository.Page) ([]*casedomain.SalesCase, error) {
	ctx, span := s.tracer.Start(ctx, "SalesCaseService.ListCases", trace.WithAttributes(attribute.String("case.status", string(filter.Status))))
	defer span.End()
	return s.inner.ListCases(ctx, caller, filter, page)
}

func (s *Service) OverdueCases(ctx context.Context, asOf time.Time) (*casedomain.OverdueReport, error) {
	ctx, span := s.tracer.Start(ctx, "SalesCaseService.OverdueCases")
	defer span.End()

	report, err := s.inner.OverdueCases(ctx, asOf)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to build overdue report")
	}
	span.SetAttributes(attribute.Int("overdue.count", len(report.Entries)))
	s.metrics.add(ctx, s.metrics.overdue, int64(len(report.Entries)))
	if len(report.Entries) > 0 {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "sales cases overdue",
			slog.Int("count", len(report.Entries)),
			slog.Time("as_of", report.AsOf),
		)
	}
	return report, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

type serviceMetrics struct {
	opened      metric.Int64Counter
	returned    metric.Int64Counter
	unitsLoaned metric.Int64Counter
	unitsSold   metric.Int64Counter
	overdue     metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	opened, _ := m.Int64Counter("salescases.opened", metric.WithDescription("Sales cases opened"))
	returned, _ := m.Int64Counter("salescases.returned", metric.WithDescription("Sales cases settled"))
	loaned, _ := m.Int64Counter("salescases.units_loaned", metric.WithDescription("Units moved on loan"))
	sold, _ := m.Int64Counter("salescases.units_sold", metric.WithDescription("Units sold through sales cases"))
	overdue, _ := m.Int64Counter("salescases.overdue", metric.WithDescription("Overdue cases seen per report run"))
	return serviceMetrics{opened: opened, returned: returned, unitsLoaned: loaned, unitsSold: sold, overdue: overdue}
}

func (m serviceMetrics) add(ctx context.Context, counter metric.Int64Counter, n int64) {
	if counter != nil && n > 0 {
		counter.Add(ctx, n)
	}
}

var _ caseports.Service = (*Service)(nil)
