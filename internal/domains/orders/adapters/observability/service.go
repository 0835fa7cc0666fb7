package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	orderdomain "github.com/Apurer/backoffice-api/internal/domains/orders/domain"
	orderports "github.com/Apurer/backoffice-api/internal/domains/orders/ports"
	userdomain "github.com/Apurer/backoffice-api/internal/domains/users/domain"
	"github.com/Apurer/backoffice-api/internal/shared/apperr"
	"github.com/Apurer/backoffice-api/internal/shared/repository"
)

const tracerName = "github.com/Apurer/backoffice-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
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

// New wraps the core order service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
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

func (s *Service) Checkout(ctx context.Context, caller userdomain.Caller, input orderports.CheckoutInput) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Checkout", trace.WithAttributes(
		attribute.Int64("user.id", caller.ID),
		attribute.Int("order.lines", len(input.Lines)),
		attribute.Bool("order.idempotent", input.IdempotencyKey != ""),
	))
	defer span.End()

	order, err := s.inner.Checkout(ctx, caller, input)
	if err != nil {
		s.metrics.rejected(ctx, err)
		return nil, s.handleError(ctx, span, err, "checkout failed", slog.Int64("user_id", caller.ID))
	}
	units := 0
	for _, item := range order.Items {
		units += item.Quantity
	}
	span.SetAttributes(attribute.Int64("order.id", order.ID), attribute.String("order.total", order.Total().StringFixed(2)))
	s.metrics.completed(ctx, int64(units))
	s.logInfo(ctx, "checkout completed",
		slog.Int64("order_id", order.ID),
		slog.Int64("user_id", caller.ID),
		slog.Int("units", units),
		slog.String("total", order.Total().StringFixed(2)),
	)
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, caller userdomain.Caller, id int64) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()
	order, err := s.inner.GetOrder(ctx, caller, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return order, nil
}

func (s *Service) ListOrders(ctx context.Context, caller userdomain.Caller, page repository.Page) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders", trace.WithAttributes(attribute.Int64("user.id", caller.ID)))
	defer span.End()
	return s.inner.ListOrders(ctx, caller, page)
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
	checkoutCompleted metric.Int64Counter
	checkoutRejected  metric.Int64Counter
	unitsSold         metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	completed, _ := m.Int64Counter("orders.checkout.completed", metric.WithDescription("Checkouts committed"))
	rejected, _ := m.Int64Counter("orders.checkout.rejected", metric.WithDescription("Checkouts rolled back"))
	units, _ := m.Int64Counter("orders.units_sold", metric.WithDescription("Units debited from stock by checkout"))
	return serviceMetrics{checkoutCompleted: completed, checkoutRejected: rejected, unitsSold: units}
}

func (m serviceMetrics) completed(ctx context.Context, units int64) {
	if m.checkoutCompleted != nil {
		m.checkoutCompleted.Add(ctx, 1)
	}
	if m.unitsSold != nil {
		m.unitsSold.Add(ctx, units)
	}
}

func (m serviceMetrics) rejected(ctx context.Context, err error) {
	if m.checkoutRejected != nil {
		m.checkoutRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", apperr.Kind(err))))
	}
}

var _ orderports.Service = (*Service)(nil)
